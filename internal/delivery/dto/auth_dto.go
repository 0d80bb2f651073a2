package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// LoginRequest accepts either the username or the email address as Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=150"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FullName      string `json:"full_name" validate:"required,min=2,max=255"`
	Role          string `json:"role" validate:"required,oneof=edcc_personnel call_triage admin"`
	Department    string `json:"department" validate:"omitempty,max=100"`
	ContactNumber string `json:"contact_number" validate:"omitempty,max=20"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

type PermissionsResponse struct {
	CanTransferReferrals bool `json:"can_transfer_referrals"`
	CanTriageReferrals   bool `json:"can_triage_referrals"`
	IsAdmin              bool `json:"is_admin"`
}

type UserResponse struct {
	ID            uuid.UUID           `json:"id"`
	Username      string              `json:"username"`
	Email         string              `json:"email"`
	FullName      string              `json:"full_name"`
	Department    string              `json:"department,omitempty"`
	ContactNumber string              `json:"contact_number,omitempty"`
	Role          string              `json:"role"`
	QueueRole     string              `json:"queue_role"`
	Permissions   PermissionsResponse `json:"permissions"`
	IsActive      bool                `json:"is_active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
