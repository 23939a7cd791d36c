package dto

import (
	"time"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	FullName    string  `json:"fullName" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string  `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	Role        string  `json:"role" validate:"omitempty,oneof=Admin Agent Ordinary"`
	Department  *string `json:"department"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=2,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	Department  *string `json:"department"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// AgentRequest payload for admin agent create/update.
type AgentRequest struct {
	FullName    string  `json:"fullName" validate:"omitempty,min=2,max=100"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Password    string  `json:"password" validate:"omitempty,min=8,max=72"`
	PhoneNumber string  `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	Department  *string `json:"department"`
}

// UserResponse is the account shape returned by the API. The password hash
// never leaves the server.
type UserResponse struct {
	ID          string          `json:"id"`
	FullName    string          `json:"fullName"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	Role        domain.Role     `json:"role"`
	Department  *string         `json:"department,omitempty"`
	IsActive    bool            `json:"isActive"`
	LastLogin   *time.Time      `json:"lastLogin,omitempty"`
	Workload    domain.Workload `json:"workload"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// AuthResponse wraps a user plus issued token.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		Department:  user.Department,
		IsActive:    user.IsActive,
		LastLogin:   user.LastLogin,
		Workload:    user.Workload,
		CreatedAt:   user.CreatedAt,
	}
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}
