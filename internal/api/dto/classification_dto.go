package dto

import (
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// ClassificationResponse is the API shape of a stored classification.
type ClassificationResponse struct {
	TicketID             string    `json:"ticket_id"`
	Contact              string    `json:"contact"`
	DealerName           string    `json:"dealer_name"`
	DealerID             string    `json:"dealer_id"`
	Rep                  string    `json:"rep"`
	Category             string    `json:"category"`
	SubCategory          string    `json:"sub_category"`
	SyndicatorOrProvider string    `json:"syndicator_or_provider"`
	InventoryType        string    `json:"inventory_type"`
	Tier                 int       `json:"tier"`
	Sentiment            string    `json:"sentiment"`
	CreatedAt            time.Time `json:"created_at"`
}

// StepResponse is one automation step record.
type StepResponse struct {
	Kind          string            `json:"kind"`
	Name          string            `json:"name"`
	OffsetSeconds float64           `json:"offset_seconds"`
	Payload       map[string]string `json:"payload,omitempty"`
}

// RunResponse is the API shape of an automation run.
type RunResponse struct {
	ID        string         `json:"id"`
	TicketID  string         `json:"ticket_id"`
	Workflow  string         `json:"workflow"`
	Path      string         `json:"path"`
	Steps     []StepResponse `json:"steps"`
	Status    string         `json:"status"`
	Degraded  bool           `json:"degraded"`
	FeedID    string         `json:"feed_id,omitempty"`
	Error     string         `json:"error,omitempty"`
	StartedAt time.Time      `json:"started_at"`
}

// TriageResponse is the combined classify-and-automate result.
type TriageResponse struct {
	Classification    ClassificationResponse `json:"classification"`
	SuggestedResponse string                 `json:"suggested_response"`
	Run               *RunResponse           `json:"run,omitempty"`
	FromCache         bool                   `json:"from_cache"`
	AutomationSkipped string                 `json:"automation_skipped,omitempty"`
}

// BatchTriageItem is one entry of a batch response.
type BatchTriageItem struct {
	TicketID string          `json:"ticket_id"`
	Result   *TriageResponse `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// CancellationResponse is one row of the cancellation log.
type CancellationResponse struct {
	CancelledAt time.Time `json:"cancelled_at"`
	DealerID    string    `json:"dealer_id"`
	DealerName  string    `json:"dealer_name"`
	FeedName    string    `json:"feed_name"`
	FeedType    string    `json:"feed_type"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	FeedID      string    `json:"feed_id"`
}

// FromClassification maps the domain record.
func FromClassification(cl domain.Classification) ClassificationResponse {
	return ClassificationResponse{
		TicketID:             cl.TicketID,
		Contact:              cl.Contact,
		DealerName:           cl.DealerName,
		DealerID:             cl.DealerID,
		Rep:                  cl.Rep,
		Category:             string(cl.Category),
		SubCategory:          string(cl.SubCategory),
		SyndicatorOrProvider: cl.SyndicatorOrProvider,
		InventoryType:        string(cl.InventoryType),
		Tier:                 int(cl.Tier),
		Sentiment:            string(cl.Sentiment),
		CreatedAt:            cl.CreatedAt,
	}
}

// FromRun maps the domain record. Nil in, nil out.
func FromRun(run *domain.AutomationRun) *RunResponse {
	if run == nil {
		return nil
	}
	steps := make([]StepResponse, 0, len(run.Steps))
	for _, s := range run.Steps {
		steps = append(steps, StepResponse{
			Kind:          string(s.Kind),
			Name:          s.Name,
			OffsetSeconds: s.Offset.Seconds(),
			Payload:       s.Payload,
		})
	}
	return &RunResponse{
		ID:        run.ID,
		TicketID:  run.TicketID,
		Workflow:  string(run.Kind),
		Path:      string(run.Path),
		Steps:     steps,
		Status:    string(run.Status),
		Degraded:  run.Degraded,
		FeedID:    run.FeedID,
		Error:     run.Error,
		StartedAt: run.StartedAt,
	}
}

// FromCancellation maps the domain record.
func FromCancellation(record domain.CancellationRecord) CancellationResponse {
	return CancellationResponse{
		CancelledAt: record.CancelledAt,
		DealerID:    record.DealerID,
		DealerName:  record.DealerName,
		FeedName:    record.FeedName,
		FeedType:    record.FeedType,
		CancelledBy: record.CancelledBy,
		Reason:      record.Reason,
		FeedID:      record.FeedID,
	}
}
