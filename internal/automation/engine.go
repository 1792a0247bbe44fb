package automation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/refdata"
)

// ErrNotAutomatable is returned when the classification is not Tier 1.
var ErrNotAutomatable = errors.New("automation: classification is not tier 1")

// ErrNoWorkflow is returned when no workflow matches the classification.
// The caller must treat the ticket as requiring manual handling; the engine
// never guesses a workflow.
var ErrNoWorkflow = errors.New("automation: no workflow for classification")

// Request carries the requester identity for a run, taken from the ticket.
type Request struct {
	TicketID       string
	RequesterName  string
	RequesterEmail string
}

// Engine executes the Tier 1 automation workflows. Runs are single-pass and
// non-resumable: a step failure marks the run Failed, keeps every completed
// step, and performs no retry or rollback. A retry is a new run.
type Engine struct {
	snapshot       *refdata.Snapshot
	email          EmailSink
	comments       CommentSink
	feeds          FeedConfigurator
	cancellations  CancellationLog
	internalDomain string
	logger         *zap.Logger

	now   func() time.Time
	newID func() string
}

// Sinks bundles the side-effect outputs for the engine.
type Sinks struct {
	Email         EmailSink
	Comments      CommentSink
	Feeds         FeedConfigurator
	Cancellations CancellationLog
}

// NewEngine constructs an automation engine over the reference snapshot.
func NewEngine(snapshot *refdata.Snapshot, sinks Sinks, internalDomain string, logger *zap.Logger) *Engine {
	return &Engine{
		snapshot:       snapshot,
		email:          sinks.Email,
		comments:       sinks.Comments,
		feeds:          sinks.Feeds,
		cancellations:  sinks.Cancellations,
		internalDomain: strings.ToLower(strings.TrimSpace(internalDomain)),
		logger:         logger,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Automate runs the workflow matching the classification. It returns
// ErrNotAutomatable for non-Tier-1 input and ErrNoWorkflow when no workflow
// covers the category, the sub-category, or a missing validated feed name.
// A run that started is always returned, Completed or Failed.
func (e *Engine) Automate(ctx context.Context, cl domain.Classification, req Request) (*domain.AutomationRun, error) {
	if cl.Tier != domain.TierAutomatable {
		return nil, ErrNotAutomatable
	}

	var (
		m    machine
		kind domain.WorkflowKind
	)
	switch {
	case cl.Category == domain.CategoryActivationExisting && cl.SubCategory == domain.SubCategoryExport:
		m, kind = e.activationMachine(), domain.WorkflowActivation
	case cl.Category == domain.CategoryCancellation && cl.SubCategory == domain.SubCategoryExport:
		m, kind = e.cancellationMachine(), domain.WorkflowCancellation
	default:
		return nil, ErrNoWorkflow
	}
	if cl.SyndicatorOrProvider == "" {
		// Without a validated feed name there is nothing safe to configure.
		return nil, ErrNoWorkflow
	}

	run := &domain.AutomationRun{
		ID:        e.newID(),
		TicketID:  cl.TicketID,
		Kind:      kind,
		StartedAt: e.now(),
	}
	rc := &runContext{run: run, classification: cl, request: req}

	if err := m.run(ctx, rc); err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		e.logger.Error("automation run failed",
			zap.String("run_id", run.ID),
			zap.String("ticket_id", cl.TicketID),
			zap.String("workflow", string(kind)),
			zap.Error(err))
		return run, nil
	}

	run.Status = domain.RunCompleted
	run.FeedID = rc.feedID
	e.logger.Info("automation run completed",
		zap.String("run_id", run.ID),
		zap.String("ticket_id", cl.TicketID),
		zap.String("workflow", string(kind)),
		zap.String("path", string(run.Path)),
		zap.Int("steps", len(run.Steps)),
		zap.Bool("degraded", run.Degraded))
	return run, nil
}

// requesterIsRep applies the sender-domain rule used throughout triage.
func (e *Engine) requesterIsRep(req Request) bool {
	if e.internalDomain == "" || req.RequesterEmail == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(req.RequesterEmail), "@"+e.internalDomain)
}

// requesterIsSyndicator detects a cancellation requested by the syndicator
// itself, either by name or by sender domain.
func (e *Engine) requesterIsSyndicator(req Request, syndicator string) bool {
	normSyn := refdata.Normalize(syndicator)
	if normSyn == "" {
		return false
	}
	if refdata.Normalize(req.RequesterName) == normSyn {
		return true
	}
	at := strings.LastIndex(req.RequesterEmail, "@")
	if at < 0 {
		return false
	}
	emailDomain := strings.ToLower(req.RequesterEmail[at+1:])
	return strings.Contains(emailDomain, strings.ReplaceAll(normSyn, " ", ""))
}

// repEmail derives the rep's internal address from their display name.
func (e *Engine) repEmail(rep string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(rep), "."))
	if slug == "" {
		slug = "support"
	}
	domainPart := e.internalDomain
	if domainPart == "" {
		domainPart = "dealerdesk.io"
	}
	return slug + "@" + domainPart
}
