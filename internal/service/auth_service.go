package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dealerdesk/triage-service/internal/auth"
	"github.com/dealerdesk/triage-service/internal/config"
	"github.com/dealerdesk/triage-service/internal/domain"
	"github.com/dealerdesk/triage-service/internal/repository"
)

// AuthService coordinates agent registration and login flows.
type AuthService struct {
	agents     repository.AgentRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, agents repository.AgentRepository) *AuthService {
	return &AuthService{
		agents:     agents,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterAgent creates a new agent account. Admin-only at the API layer.
func (s *AuthService) RegisterAgent(ctx context.Context, email, displayName, password string, role domain.AgentRole) (*domain.Agent, error) {
	if s.agents == nil {
		return nil, errors.New("agent store unavailable")
	}
	if _, err := s.agents.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// LoginAgent authenticates an agent and returns a role-bearing token.
func (s *AuthService) LoginAgent(ctx context.Context, email, password string) (*domain.Agent, string, time.Time, error) {
	if s.agents == nil {
		return nil, "", time.Time{}, errors.New("agent store unavailable")
	}
	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !agent.IsActive {
		return nil, "", time.Time{}, errors.New("agent inactive")
	}
	if err := auth.ComparePassword(agent.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(agent.ID, agent.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return agent, token, exp, nil
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, agentID, currentPassword, newPassword string) error {
	if s.agents == nil {
		return errors.New("agent store unavailable")
	}
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(agent.PasswordHash, currentPassword); err != nil {
		return errors.New("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	agent.PasswordHash = hash
	return s.agents.Update(ctx, agent)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
