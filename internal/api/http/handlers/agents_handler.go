package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/triage-service/internal/api/dto"
	"github.com/dealerdesk/triage-service/internal/auth"
	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/service"
)

// AgentsHandler exposes auth endpoints for support agents.
type AgentsHandler struct {
	auth *service.AuthService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(authService *service.AuthService) *AgentsHandler {
	return &AgentsHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AgentsHandler) Login(c *fiber.Ctx) error {
	var req dto.AgentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	agent, token, exp, err := h.auth.LoginAgent(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"agent": fiber.Map{
				"id":           agent.ID,
				"email":        agent.Email,
				"display_name": agent.DisplayName,
				"role":         agent.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ChangePassword handles POST /auth/password for the authenticated agent.
func (h *AgentsHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.AgentPasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current_password and new_password required")
	}

	if err := h.auth.ChangePassword(c.Context(), principal.Agent.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password updated"}})
}

// Register handles POST /auth/register (admin only).
func (h *AgentsHandler) Register(c *fiber.Ctx) error {
	var req dto.AgentRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return fiber.NewError(http.StatusBadRequest, "email, display_name, password required")
	}

	role := domain.AgentRole(req.Role)
	if role != domain.RoleAgent && role != domain.RoleAdmin {
		role = domain.RoleAgent
	}

	agent, err := h.auth.RegisterAgent(c.Context(), req.Email, req.DisplayName, req.Password, role)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"agent": fiber.Map{
				"id":           agent.ID,
				"email":        agent.Email,
				"display_name": agent.DisplayName,
				"role":         agent.Role,
			},
		},
	})
}
