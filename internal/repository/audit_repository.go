package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// AuditRepository persists the immutable audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO audit_logs (action, entity_type, entity_id, details, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		details,
		entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, action, entity_type, entity_id, details, status, created_at
        FROM audit_logs WHERE entity_type=$1 AND entity_id=$2
        ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var details []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&details,
			&entry.Status,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, err
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
