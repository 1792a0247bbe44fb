package dto

import "time"

// AgentLoginRequest payload for login.
type AgentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AgentRegisterRequest payload for new agents.
type AgentRegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// AgentPasswordChangeRequest payload for password changes.
type AgentPasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
