package domain

import "time"

// AgentRole scopes what an authenticated agent may do.
type AgentRole string

const (
	RoleAgent AgentRole = "AGENT"
	RoleAdmin AgentRole = "ADMIN"
)

// Agent is an internal support-team member allowed to call the API.
type Agent struct {
	ID           string
	Email        string
	DisplayName  string
	Role         AgentRole
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
