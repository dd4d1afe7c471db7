package dto

import (
	"time"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/service"
)

// CreateClientRequest provisions a tenant.
type CreateClientRequest struct {
	Name         string  `json:"name"`
	ContactEmail string  `json:"contact_email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

// ClientResponse is the public tenant view.
type ClientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClientFromDomain maps a tenant row to its response view.
func ClientFromDomain(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		CreatedAt:    c.CreatedAt,
	}
}

// CreateAdminRequest provisions a tenant admin.
type CreateAdminRequest struct {
	ClientID  string  `json:"client_id"`
	Email     string  `json:"email"`
	Username  *string `json:"username,omitempty"`
	Password  string  `json:"password"`
	AdminType string  `json:"admin_type"`
}

// CreateStaffRequest provisions a manager or employee in the caller's
// tenant and pool.
type CreateStaffRequest struct {
	Email         string     `json:"email"`
	Username      *string    `json:"username,omitempty"`
	Password      string     `json:"password"`
	FirstName     *string    `json:"first_name,omitempty"`
	LastName      *string    `json:"last_name,omitempty"`
	Position      *string    `json:"position,omitempty"`
	ManagerID     *string    `json:"manager_id,omitempty"`
	DateOfJoining *time.Time `json:"date_of_joining,omitempty"`
}

// UpdateProfileRequest edits a staff profile.
type UpdateProfileRequest struct {
	FirstName     *string    `json:"first_name,omitempty"`
	LastName      *string    `json:"last_name,omitempty"`
	Position      *string    `json:"position,omitempty"`
	DateOfJoining *time.Time `json:"date_of_joining,omitempty"`
}

// ResetPasswordRequest sets a new password on a staff account.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// EmployeeResponse is the public staff profile view.
type EmployeeResponse struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	FirstName      *string           `json:"first_name,omitempty"`
	LastName       *string           `json:"last_name,omitempty"`
	Position       *string           `json:"position,omitempty"`
	ManagerID      *string           `json:"manager_id,omitempty"`
	EmploymentType domain.StaffScope `json:"employment_type"`
	DateOfJoining  *time.Time        `json:"date_of_joining,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// EmployeeFromDomain maps a staff profile to its response view.
func EmployeeFromDomain(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		ManagerID:      e.ManagerID,
		EmploymentType: e.EmploymentType,
		DateOfJoining:  e.DateOfJoining,
		CreatedAt:      e.CreatedAt,
	}
}

// StaffViewResponse is a directory row with presence and workload.
type StaffViewResponse struct {
	Employee    EmployeeResponse `json:"employee"`
	Email       string           `json:"email"`
	Username    *string          `json:"username,omitempty"`
	Role        domain.Role      `json:"role"`
	Online      bool             `json:"online"`
	OpenTickets int              `json:"open_tickets"`
}

// StaffViewFromService maps a directory row to its response view.
func StaffViewFromService(v service.StaffView) StaffViewResponse {
	return StaffViewResponse{
		Employee:    EmployeeFromDomain(&v.Employee),
		Email:       v.Email,
		Username:    v.Username,
		Role:        v.Role,
		Online:      v.Online,
		OpenTickets: v.OpenTickets,
	}
}
