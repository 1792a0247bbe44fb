package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/automation"
	"github.com/dealerdesk/triage-service/internal/classifier"
	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/events"
	"github.com/dealerdesk/triage-service/internal/observability"
	"github.com/dealerdesk/triage-service/internal/persistence"
	"github.com/dealerdesk/triage-service/internal/repository"
)

// TriageService coordinates the classify-store-automate pipeline.
type TriageService struct {
	classifications repository.ClassificationRepository
	runs            repository.RunRepository
	audits          repository.AuditRepository
	cancellations   repository.CancellationRepository
	cache           *persistence.ClassificationCache
	classifier      *classifier.Engine
	automation      *automation.Engine
	dispatcher      events.Dispatcher
	metrics         *observability.Metrics
	logger          *zap.Logger
	batchMax        int
}

// TriageDependencies bundles collaborators for the triage service. Repos may
// be nil when no database is configured; persistence is then skipped.
type TriageDependencies struct {
	ClassificationRepo repository.ClassificationRepository
	RunRepo            repository.RunRepository
	AuditRepo          repository.AuditRepository
	CancellationRepo   repository.CancellationRepository
	Cache              *persistence.ClassificationCache
	Classifier         *classifier.Engine
	Automation         *automation.Engine
	Dispatcher         events.Dispatcher
	Metrics            *observability.Metrics
	Logger             *zap.Logger
	BatchMaxTickets    int
}

// TriageResult is the outcome of triaging one ticket.
type TriageResult struct {
	Classification    domain.Classification
	SuggestedResponse string
	Run               *domain.AutomationRun
	FromCache         bool
	AutomationSkipped string
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	batchMax := deps.BatchMaxTickets
	if batchMax <= 0 {
		batchMax = 50
	}
	return &TriageService{
		classifications: deps.ClassificationRepo,
		runs:            deps.RunRepo,
		audits:          deps.AuditRepo,
		cancellations:   deps.CancellationRepo,
		cache:           deps.Cache,
		classifier:      deps.Classifier,
		automation:      deps.Automation,
		dispatcher:      deps.Dispatcher,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		batchMax:        batchMax,
	}
}

// Classify runs classification for a ticket without the automation stage.
// With refresh set, the cache and stored record are bypassed and the ticket
// is classified again from scratch.
func (s *TriageService) Classify(ctx context.Context, ticket domain.Ticket, refresh bool) (*TriageResult, error) {
	cl, fromCache, err := s.ensureClassification(ctx, ticket, refresh)
	if err != nil {
		return nil, err
	}
	return &TriageResult{
		Classification:    *cl,
		SuggestedResponse: classifier.SuggestResponse(*cl),
		FromCache:         fromCache,
	}, nil
}

// Triage runs the full pipeline: classification, then Tier 1 automation.
// A ticket that was already automated returns the stored run rather than
// executing a second one.
func (s *TriageService) Triage(ctx context.Context, ticket domain.Ticket, refresh bool) (*TriageResult, error) {
	cl, fromCache, err := s.ensureClassification(ctx, ticket, refresh)
	if err != nil {
		return nil, err
	}

	result := &TriageResult{
		Classification:    *cl,
		SuggestedResponse: classifier.SuggestResponse(*cl),
		FromCache:         fromCache,
	}

	if cl.Tier != domain.TierAutomatable {
		result.AutomationSkipped = "not tier 1"
		return result, nil
	}

	if existing := s.storedRun(ctx, cl.TicketID); existing != nil {
		result.Run = existing
		return result, nil
	}

	run, err := s.automation.Automate(ctx, *cl, automation.Request{
		TicketID:       ticket.ID,
		RequesterName:  ticket.RequesterName,
		RequesterEmail: ticket.RequesterEmail,
	})
	if err == automation.ErrNoWorkflow || err == automation.ErrNotAutomatable {
		result.AutomationSkipped = err.Error()
		s.recordAudit(ctx, domain.AuditAutomationSkipped, "ticket", ticket.ID, map[string]any{
			"reason": err.Error(),
		}, "skipped")
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventAutomationStarted,
		TicketID: run.TicketID,
		Payload: events.AutomationStartedPayload{
			RunID:    run.ID,
			Workflow: run.Kind,
		},
	})

	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.Error("persist automation run failed",
				zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	if run.Status == domain.RunCompleted {
		s.recordAudit(ctx, domain.AuditAutomationCompleted, "automation_run", run.ID, map[string]any{
			"ticket_id": run.TicketID,
			"workflow":  string(run.Kind),
			"path":      string(run.Path),
			"steps":     len(run.Steps),
			"degraded":  run.Degraded,
		}, "completed")
		s.publishEvent(ctx, events.Event{
			Type:     events.EventAutomationCompleted,
			TicketID: run.TicketID,
			Payload: events.AutomationCompletedPayload{
				RunID:    run.ID,
				Workflow: run.Kind,
				Path:     run.Path,
				Steps:    len(run.Steps),
				Degraded: run.Degraded,
				FeedID:   run.FeedID,
			},
		})
		if run.Kind == domain.WorkflowCancellation {
			s.publishEvent(ctx, events.Event{
				Type:     events.EventCancellationLogged,
				TicketID: run.TicketID,
				Payload: events.CancellationLoggedPayload{
					DealerID:    cl.DealerID,
					FeedName:    cl.SyndicatorOrProvider,
					FeedID:      run.FeedID,
					CancelledBy: ticket.RequesterEmail,
				},
			})
		}
	} else {
		s.recordAudit(ctx, domain.AuditAutomationFailed, "automation_run", run.ID, map[string]any{
			"ticket_id": run.TicketID,
			"workflow":  string(run.Kind),
			"error":     run.Error,
		}, "failed")
		s.publishEvent(ctx, events.Event{
			Type:     events.EventAutomationFailed,
			TicketID: run.TicketID,
			Payload: events.AutomationFailedPayload{
				RunID:    run.ID,
				Workflow: run.Kind,
				Error:    run.Error,
			},
		})
	}
	s.metrics.RecordAutomation(string(run.Status))

	result.Run = run
	return result, nil
}

// BatchResult pairs one batch entry's ticket ID with its outcome.
type BatchResult struct {
	TicketID string
	Result   *TriageResult
	Err      error
}

// TriageBatch classifies and automates tickets concurrently, bounded by a
// small worker pool. Order of results matches the input order.
func (s *TriageService) TriageBatch(ctx context.Context, tickets []domain.Ticket) []BatchResult {
	if len(tickets) > s.batchMax {
		tickets = tickets[:s.batchMax]
	}
	results := make([]BatchResult, len(tickets))

	const workers = 4
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, ticket := range tickets {
		wg.Add(1)
		go func(i int, ticket domain.Ticket) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, err := s.Triage(ctx, ticket, false)
			results[i] = BatchResult{TicketID: ticket.ID, Result: res, Err: err}
		}(i, ticket)
	}
	wg.Wait()
	return results
}

// GetClassification returns the stored classification and any run for a ticket.
func (s *TriageService) GetClassification(ctx context.Context, ticketID string) (*domain.Classification, *domain.AutomationRun, error) {
	if s.classifications == nil {
		return nil, nil, pgx.ErrNoRows
	}
	cl, err := s.classifications.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return cl, s.storedRun(ctx, ticketID), nil
}

// GetRun returns a stored automation run by its ID.
func (s *TriageService) GetRun(ctx context.Context, runID string) (*domain.AutomationRun, error) {
	if s.runs == nil {
		return nil, pgx.ErrNoRows
	}
	return s.runs.GetByID(ctx, runID)
}

// ListCancellations returns the cancellation log, most recent first.
func (s *TriageService) ListCancellations(ctx context.Context, limit, offset int) ([]domain.CancellationRecord, error) {
	if s.cancellations == nil {
		return []domain.CancellationRecord{}, nil
	}
	return s.cancellations.List(ctx, limit, offset)
}

// ListClassifications returns stored classifications matching the filter,
// most recent first.
func (s *TriageService) ListClassifications(ctx context.Context, filter repository.ClassificationFilter) ([]domain.Classification, error) {
	if s.classifications == nil {
		return []domain.Classification{}, nil
	}
	return s.classifications.ListWithFilter(ctx, filter)
}

// AuditTrail returns the audit history for one entity, oldest first.
func (s *TriageService) AuditTrail(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	if s.audits == nil {
		return []domain.AuditEntry{}, nil
	}
	return s.audits.ListByEntity(ctx, entityType, entityID)
}

// ensureClassification returns the classification for a ticket, producing
// and storing it exactly once. Re-triage of a known ticket returns the
// stored record. With refresh set, the cache and stored record are skipped,
// the ticket is classified again, and the stored record is replaced.
func (s *TriageService) ensureClassification(ctx context.Context, ticket domain.Ticket, refresh bool) (*domain.Classification, bool, error) {
	if refresh {
		s.cache.Invalidate(ctx, ticket.ID)
	} else {
		if cached, _ := s.cache.Get(ctx, ticket.ID); cached != nil {
			return cached, true, nil
		}

		if s.classifications != nil {
			stored, err := s.classifications.GetByTicketID(ctx, ticket.ID)
			if err == nil {
				_ = s.cache.Set(ctx, *stored)
				return stored, true, nil
			}
			if err != pgx.ErrNoRows {
				return nil, false, err
			}
		}
	}

	cl := s.classifier.Classify(ctx, ticket)
	cl.CreatedAt = time.Now()

	if s.classifications != nil {
		switch err := s.classifications.Create(ctx, &cl); {
		case err == repository.ErrAlreadyClassified && refresh:
			if err := s.classifications.Update(ctx, &cl); err != nil {
				return nil, false, err
			}
		case err == repository.ErrAlreadyClassified:
			// Concurrent triage of the same ticket; the first write wins.
			stored, getErr := s.classifications.GetByTicketID(ctx, ticket.ID)
			if getErr != nil {
				return nil, false, getErr
			}
			_ = s.cache.Set(ctx, *stored)
			return stored, true, nil
		case err != nil:
			return nil, false, err
		}
	}

	_ = s.cache.Set(ctx, cl)
	s.metrics.RecordTier(int(cl.Tier))
	s.recordAudit(ctx, domain.AuditClassificationStored, "ticket", ticket.ID, map[string]any{
		"category":     string(cl.Category),
		"sub_category": string(cl.SubCategory),
		"tier":         int(cl.Tier),
		"sentiment":    string(cl.Sentiment),
	}, "stored")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventClassificationCompleted,
		TicketID: ticket.ID,
		Payload: events.ClassificationCompletedPayload{
			Category:             cl.Category,
			SubCategory:          cl.SubCategory,
			Tier:                 cl.Tier,
			Sentiment:            cl.Sentiment,
			DealerName:           cl.DealerName,
			SyndicatorOrProvider: cl.SyndicatorOrProvider,
		},
	})

	s.logger.Info("ticket classified",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(cl.Category)),
		zap.String("sub_category", string(cl.SubCategory)),
		zap.Int("tier", int(cl.Tier)),
		zap.String("sentiment", string(cl.Sentiment)))

	return &cl, false, nil
}

func (s *TriageService) storedRun(ctx context.Context, ticketID string) *domain.AutomationRun {
	if s.runs == nil {
		return nil
	}
	run, err := s.runs.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil
	}
	return run
}

func (s *TriageService) recordAudit(ctx context.Context, action domain.AuditAction, entityType, entityID string, details map[string]any, status string) {
	if s.audits == nil {
		return
	}
	entry := &domain.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Status:     status,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *TriageService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
