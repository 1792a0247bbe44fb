package events

import (
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventClassificationCompleted EventType = "classification_completed"
	EventAutomationStarted       EventType = "automation_started"
	EventAutomationCompleted     EventType = "automation_completed"
	EventAutomationFailed        EventType = "automation_failed"
	EventCancellationLogged      EventType = "cancellation_logged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ClassificationCompletedPayload payload.
type ClassificationCompletedPayload struct {
	Category             domain.Category    `json:"category"`
	SubCategory          domain.SubCategory `json:"sub_category"`
	Tier                 domain.Tier        `json:"tier"`
	Sentiment            domain.Sentiment   `json:"sentiment"`
	DealerName           string             `json:"dealer_name,omitempty"`
	SyndicatorOrProvider string             `json:"syndicator_or_provider,omitempty"`
}

// AutomationStartedPayload payload.
type AutomationStartedPayload struct {
	RunID    string              `json:"run_id"`
	Workflow domain.WorkflowKind `json:"workflow"`
}

// AutomationCompletedPayload payload.
type AutomationCompletedPayload struct {
	RunID    string              `json:"run_id"`
	Workflow domain.WorkflowKind `json:"workflow"`
	Path     domain.WorkflowPath `json:"path"`
	Steps    int                 `json:"steps"`
	Degraded bool                `json:"degraded"`
	FeedID   string              `json:"feed_id,omitempty"`
}

// AutomationFailedPayload payload.
type AutomationFailedPayload struct {
	RunID    string              `json:"run_id"`
	Workflow domain.WorkflowKind `json:"workflow"`
	Error    string              `json:"error"`
}

// CancellationLoggedPayload payload.
type CancellationLoggedPayload struct {
	DealerID    string `json:"dealer_id"`
	FeedName    string `json:"feed_name"`
	FeedID      string `json:"feed_id"`
	CancelledBy string `json:"cancelled_by"`
}
