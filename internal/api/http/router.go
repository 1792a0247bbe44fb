package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/triage-service/internal/api/http/handlers"
	"github.com/dealerdesk/triage-service/internal/auth"
	"github.com/dealerdesk/triage-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Agents         *handlers.AgentsHandler
	Triage         *handlers.TriageHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Agents.Login)
	authGroup.Post("/password", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Agents.ChangePassword)

	adminOnly := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	adminOnly.Post("/register", cfg.Agents.Register)

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	v1.Post("/tickets/classify", cfg.Triage.Classify)
	v1.Post("/tickets/classify/batch", cfg.Triage.TriageBatch)
	v1.Post("/tickets/triage", cfg.Triage.Triage)
	v1.Get("/classifications", cfg.Triage.ListClassifications)
	v1.Get("/classifications/:ticketID", cfg.Triage.GetClassification)
	v1.Get("/runs/:runID", cfg.Triage.GetRun)
	v1.Get("/cancellations", cfg.Triage.ListCancellations)
	v1.Get("/audit/:entityType/:entityID", cfg.Triage.AuditTrail)
	v1.Get("/stats", cfg.Stats.Snapshot)
}
