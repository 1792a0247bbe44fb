package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/domain"
)

const classificationKeyPrefix = "triage:classification:"

// ClassificationCache keeps recent classification results in Redis so a
// ticket re-submitted within the TTL returns the stored record instead of
// re-running extraction. All methods are nil-safe: without a Redis client
// the cache degrades to a permanent miss.
type ClassificationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClassificationCache builds a cache over the shared Redis client.
// Client may be nil.
func NewClassificationCache(r *Redis, ttl time.Duration, logger *zap.Logger) *ClassificationCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &ClassificationCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached classification for a ticket, or (nil, nil) on miss.
func (c *ClassificationCache) Get(ctx context.Context, ticketID string) (*domain.Classification, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, classificationKeyPrefix+ticketID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// Cache trouble must never block triage.
		c.logger.Warn("classification cache read failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, nil
	}
	var cl domain.Classification
	if err := json.Unmarshal(raw, &cl); err != nil {
		c.logger.Warn("classification cache entry corrupt", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, nil
	}
	return &cl, nil
}

// Set stores a classification under the ticket ID with the configured TTL.
func (c *ClassificationCache) Set(ctx context.Context, cl domain.Classification) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(cl)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, classificationKeyPrefix+cl.TicketID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("classification cache write failed", zap.String("ticket_id", cl.TicketID), zap.Error(err))
	}
	return nil
}

// Invalidate drops the cached entry for a ticket.
func (c *ClassificationCache) Invalidate(ctx context.Context, ticketID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, classificationKeyPrefix+ticketID).Err(); err != nil {
		c.logger.Warn("classification cache invalidate failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}
