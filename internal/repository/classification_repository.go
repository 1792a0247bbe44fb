package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dealerdesk/triage-service/internal/domain"
)

// ClassificationFilter captures search parameters over stored classifications.
type ClassificationFilter struct {
	Category    *domain.Category
	SubCategory *domain.SubCategory
	Tier        *domain.Tier
	DealerID    *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ClassificationRepository encapsulates classification persistence.
// A ticket owns at most one classification row; Create enforces that.
type ClassificationRepository interface {
	Create(ctx context.Context, cl *domain.Classification) error
	Update(ctx context.Context, cl *domain.Classification) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Classification, error)
	ListWithFilter(ctx context.Context, filter ClassificationFilter) ([]domain.Classification, error)
}

type classificationRepository struct {
	pool *pgxpool.Pool
}

// NewClassificationRepository instantiates repository.
func NewClassificationRepository(pool *pgxpool.Pool) ClassificationRepository {
	return &classificationRepository{pool: pool}
}

func (r *classificationRepository) Create(ctx context.Context, cl *domain.Classification) error {
	const query = `
        INSERT INTO classifications (ticket_id, contact, dealer_name, dealer_id, rep,
            category, sub_category, syndicator_or_provider, inventory_type, tier, sentiment)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (ticket_id) DO NOTHING
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		cl.TicketID,
		cl.Contact,
		cl.DealerName,
		cl.DealerID,
		cl.Rep,
		cl.Category,
		cl.SubCategory,
		cl.SyndicatorOrProvider,
		cl.InventoryType,
		int(cl.Tier),
		cl.Sentiment,
	).Scan(&cl.CreatedAt)
	if err == pgx.ErrNoRows {
		// Conflict: a classification already exists for this ticket.
		return ErrAlreadyClassified
	}
	return err
}

// Update replaces the stored record for a ticket in place, keeping the
// original created_at. Used when a caller forces re-classification.
func (r *classificationRepository) Update(ctx context.Context, cl *domain.Classification) error {
	const query = `
        UPDATE classifications SET contact=$2, dealer_name=$3, dealer_id=$4, rep=$5,
            category=$6, sub_category=$7, syndicator_or_provider=$8, inventory_type=$9, tier=$10, sentiment=$11
        WHERE ticket_id=$1
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		cl.TicketID,
		cl.Contact,
		cl.DealerName,
		cl.DealerID,
		cl.Rep,
		cl.Category,
		cl.SubCategory,
		cl.SyndicatorOrProvider,
		cl.InventoryType,
		int(cl.Tier),
		cl.Sentiment,
	).Scan(&cl.CreatedAt)
}

func (r *classificationRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Classification, error) {
	const query = `
        SELECT ticket_id, contact, dealer_name, dealer_id, rep,
               category, sub_category, syndicator_or_provider, inventory_type, tier, sentiment, created_at
        FROM classifications WHERE ticket_id=$1`

	var cl domain.Classification
	var tier int
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&cl.TicketID,
		&cl.Contact,
		&cl.DealerName,
		&cl.DealerID,
		&cl.Rep,
		&cl.Category,
		&cl.SubCategory,
		&cl.SyndicatorOrProvider,
		&cl.InventoryType,
		&tier,
		&cl.Sentiment,
		&cl.CreatedAt,
	); err != nil {
		return nil, err
	}
	cl.Tier = domain.Tier(tier)
	return &cl, nil
}

func (r *classificationRepository) ListWithFilter(ctx context.Context, filter ClassificationFilter) ([]domain.Classification, error) {
	base := `SELECT ticket_id, contact, dealer_name, dealer_id, rep,
                    category, sub_category, syndicator_or_provider, inventory_type, tier, sentiment, created_at
             FROM classifications`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.SubCategory != nil {
		args = append(args, *filter.SubCategory)
		clauses = append(clauses, fmt.Sprintf("sub_category=$%d", len(args)))
	}
	if filter.Tier != nil {
		args = append(args, int(*filter.Tier))
		clauses = append(clauses, fmt.Sprintf("tier=$%d", len(args)))
	}
	if filter.DealerID != nil {
		args = append(args, *filter.DealerID)
		clauses = append(clauses, fmt.Sprintf("dealer_id=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Classification
	for rows.Next() {
		var cl domain.Classification
		var tier int
		if err := rows.Scan(
			&cl.TicketID,
			&cl.Contact,
			&cl.DealerName,
			&cl.DealerID,
			&cl.Rep,
			&cl.Category,
			&cl.SubCategory,
			&cl.SyndicatorOrProvider,
			&cl.InventoryType,
			&tier,
			&cl.Sentiment,
			&cl.CreatedAt,
		); err != nil {
			return nil, err
		}
		cl.Tier = domain.Tier(tier)
		result = append(result, cl)
	}
	return result, rows.Err()
}
