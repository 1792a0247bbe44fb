package dto

import (
	"time"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// AuditEntryResponse is one row of an entity's audit trail.
type AuditEntryResponse struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// FromAuditEntry maps the domain record.
func FromAuditEntry(entry domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		Action:     string(entry.Action),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		Status:     entry.Status,
		CreatedAt:  entry.CreatedAt,
	}
}
