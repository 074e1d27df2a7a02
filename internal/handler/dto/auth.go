// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/gitreq/gitreq/internal/model"
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents the request body for profile updates.
// Fields outside this struct are dropped on decode; nil means unchanged.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// AuthResponse carries the signed-in user and their session token.
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}
