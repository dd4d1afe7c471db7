package dto

import (
	"time"

	"github.com/deskhub/helpdesk/internal/domain"
)

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and the resolved caller.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangeEmailRequest replaces the caller's login email.
type ChangeEmailRequest struct {
	Password string `json:"password"`
	NewEmail string `json:"new_email"`
}

// UserResponse is the public view of a login identity.
type UserResponse struct {
	ID        string             `json:"id"`
	ClientID  *string            `json:"client_id,omitempty"`
	Username  *string            `json:"username,omitempty"`
	Email     string             `json:"email"`
	Role      domain.Role        `json:"role"`
	AdminType *domain.StaffScope `json:"admin_type,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// UserFromDomain maps a user row to its response view.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		ClientID:  u.ClientID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		AdminType: u.AdminType,
		CreatedAt: u.CreatedAt,
	}
}
