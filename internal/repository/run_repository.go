package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// RunRepository persists automation runs. Runs are append-only; there is no
// update path because a run is terminal once recorded.
type RunRepository interface {
	Create(ctx context.Context, run *domain.AutomationRun) error
	GetByID(ctx context.Context, id string) (*domain.AutomationRun, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.AutomationRun, error)
}

type runRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository instantiates repository.
func NewRunRepository(pool *pgxpool.Pool) RunRepository {
	return &runRepository{pool: pool}
}

func (r *runRepository) Create(ctx context.Context, run *domain.AutomationRun) error {
	steps, err := json.Marshal(run.Steps)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO automation_runs (id, ticket_id, workflow, path, steps, status, degraded, feed_id, error, started_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err = r.pool.Exec(ctx, query,
		run.ID,
		run.TicketID,
		run.Kind,
		run.Path,
		steps,
		run.Status,
		run.Degraded,
		run.FeedID,
		run.Error,
		run.StartedAt,
	)
	return err
}

func (r *runRepository) GetByID(ctx context.Context, id string) (*domain.AutomationRun, error) {
	const query = `
        SELECT id, ticket_id, workflow, path, steps, status, degraded, feed_id, error, started_at
        FROM automation_runs WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *runRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.AutomationRun, error) {
	const query = `
        SELECT id, ticket_id, workflow, path, steps, status, degraded, feed_id, error, started_at
        FROM automation_runs WHERE ticket_id=$1
        ORDER BY started_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *runRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AutomationRun, error) {
	var run domain.AutomationRun
	var steps []byte
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&run.ID,
		&run.TicketID,
		&run.Kind,
		&run.Path,
		&steps,
		&run.Status,
		&run.Degraded,
		&run.FeedID,
		&run.Error,
		&run.StartedAt,
	); err != nil {
		return nil, err
	}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &run.Steps); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
