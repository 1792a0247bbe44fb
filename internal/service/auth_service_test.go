package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerdesk/triage-service/internal/config"
	"github.com/dealerdesk/triage-service/internal/domain"
)

type fakeAgentRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Agent
	seq  int
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{byID: map[string]domain.Agent{}}
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	agent.ID = fmt.Sprintf("agent-%d", r.seq)
	r.byID[agent.ID] = *agent
	return nil
}

func (r *fakeAgentRepo) Update(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[agent.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[agent.ID] = *agent
	return nil
}

func (r *fakeAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent, ok := r.byID[id]; ok {
		return &agent, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAgentRepo) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, agent := range r.byID {
		if agent.Email == email {
			return &agent, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newAuthFixture() *AuthService {
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
	}}
	return NewAuthService(cfg, newFakeAgentRepo())
}

func TestRegisterAndLoginAgent(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	agent, err := svc.RegisterAgent(ctx, "julie@dealerdesk.io", "Julie Gagnon", "s3cret", domain.RoleAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.True(t, agent.IsActive)

	_, err = svc.RegisterAgent(ctx, "julie@dealerdesk.io", "Julie Gagnon", "s3cret", domain.RoleAgent)
	assert.Error(t, err)

	loggedIn, token, exp, err := svc.LoginAgent(ctx, "julie@dealerdesk.io", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	_, _, _, err = svc.LoginAgent(ctx, "julie@dealerdesk.io", "wrong")
	assert.Error(t, err)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc := newAuthFixture()
	ctx := context.Background()

	agent, err := svc.RegisterAgent(ctx, "marc@dealerdesk.io", "Marc Tremblay", "old-pass", domain.RoleAgent)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, agent.ID, "not-the-password", "new-pass")
	assert.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, agent.ID, "old-pass", "new-pass"))

	_, _, _, err = svc.LoginAgent(ctx, "marc@dealerdesk.io", "old-pass")
	assert.Error(t, err)
	_, _, _, err = svc.LoginAgent(ctx, "marc@dealerdesk.io", "new-pass")
	assert.NoError(t, err)
}

func TestAuthServiceWithoutStore(t *testing.T) {
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}}
	svc := NewAuthService(cfg, nil)
	ctx := context.Background()

	_, err := svc.RegisterAgent(ctx, "a@b.c", "A", "pw", domain.RoleAgent)
	assert.Error(t, err)
	_, _, _, err = svc.LoginAgent(ctx, "a@b.c", "pw")
	assert.Error(t, err)
	assert.Error(t, svc.ChangePassword(ctx, "agent-1", "pw", "pw2"))
}
