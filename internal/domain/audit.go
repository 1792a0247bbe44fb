package domain

import "time"

// AuditAction identifies what an audit entry records.
type AuditAction string

const (
	AuditClassificationStored AuditAction = "classification_stored"
	AuditAutomationCompleted  AuditAction = "automation_completed"
	AuditAutomationFailed     AuditAction = "automation_failed"
	AuditAutomationSkipped    AuditAction = "automation_skipped"
)

// AuditEntry is an immutable trail record written alongside classification
// and automation results.
type AuditEntry struct {
	ID         string
	Action     AuditAction
	EntityType string
	EntityID   string
	Details    map[string]any
	Status     string
	CreatedAt  time.Time
}
