package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/repository"
	apperrors "github.com/dealerdesk/triage-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Agent *domain.Agent
	Role  domain.AgentRole
}

// AuthMiddleware validates bearer tokens and loads the agent principal.
type AuthMiddleware struct {
	tokens *TokenManager
	agents repository.AgentRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, agents repository.AgentRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, agents: agents}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.agents == nil {
		// No agent store configured (database-less dev mode).
		return apperrors.NewUnauthorized("agent store unavailable")
	}
	agent, err := m.agents.GetByID(c.Context(), claims.AgentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("agent not found")
		}
		return apperrors.MapError(err)
	}
	if !agent.IsActive {
		return apperrors.NewUnauthorized("agent deactivated")
	}

	c.Locals(principalKey, &Principal{Agent: agent, Role: agent.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated agent.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
