package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/triage-service/internal/observability"
)

// StatsHandler exposes the in-memory triage counters.
type StatsHandler struct {
	metrics *observability.Metrics
}

// NewStatsHandler constructs handler.
func NewStatsHandler(metrics *observability.Metrics) *StatsHandler {
	return &StatsHandler{metrics: metrics}
}

// Snapshot handles GET /v1/stats.
func (h *StatsHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tiers":           h.metrics.TierCounts(),
		"automation_runs": h.metrics.AutomationCounts(),
	}})
}
