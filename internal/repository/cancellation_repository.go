package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// CancellationRepository is the durable cancellation log. Appends only;
// rows are never updated or deleted. It satisfies the automation engine's
// CancellationLog sink.
type CancellationRepository interface {
	Append(ctx context.Context, record domain.CancellationRecord) error
	List(ctx context.Context, limit, offset int) ([]domain.CancellationRecord, error)
}

type cancellationRepository struct {
	pool *pgxpool.Pool
}

// NewCancellationRepository instantiates repository.
func NewCancellationRepository(pool *pgxpool.Pool) CancellationRepository {
	return &cancellationRepository{pool: pool}
}

func (r *cancellationRepository) Append(ctx context.Context, record domain.CancellationRecord) error {
	const query = `
        INSERT INTO cancellations (cancelled_at, dealer_id, dealer_name, feed_name, feed_type, cancelled_by, reason, feed_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.pool.Exec(ctx, query,
		record.CancelledAt,
		record.DealerID,
		record.DealerName,
		record.FeedName,
		record.FeedType,
		record.CancelledBy,
		record.Reason,
		record.FeedID,
	)
	return err
}

func (r *cancellationRepository) List(ctx context.Context, limit, offset int) ([]domain.CancellationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT cancelled_at, dealer_id, dealer_name, feed_name, feed_type, cancelled_by, reason, feed_id
        FROM cancellations ORDER BY cancelled_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CancellationRecord
	for rows.Next() {
		var record domain.CancellationRecord
		if err := rows.Scan(
			&record.CancelledAt,
			&record.DealerID,
			&record.DealerName,
			&record.FeedName,
			&record.FeedType,
			&record.CancelledBy,
			&record.Reason,
			&record.FeedID,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
