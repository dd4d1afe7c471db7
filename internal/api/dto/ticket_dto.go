package dto

import (
	"time"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/service"
)

// CreateTicketRequest opens a ticket.
type CreateTicketRequest struct {
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	Priority    string     `json:"priority,omitempty"`
	DueOption   string     `json:"due_option,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTicketRequest edits ticket content. Absent fields are left alone.
type UpdateTicketRequest struct {
	Subject     *string    `json:"subject,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueOption   *string    `json:"due_option,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ChangeStatusRequest moves a ticket along the lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest sets or clears the assignee. Null unassigns.
type AssignRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// TicketResponse is the public ticket view. Expired is derived, never
// stored.
type TicketResponse struct {
	ID          string                `json:"id"`
	ClientID    string                `json:"client_id"`
	RaisedBy    string                `json:"raised_by"`
	AssignedTo  *string               `json:"assigned_to,omitempty"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	DueOption   domain.DueOption      `json:"due_option"`
	DueAt       *time.Time            `json:"due_at,omitempty"`
	Expired     bool                  `json:"expired"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	ClosedAt    *time.Time            `json:"closed_at,omitempty"`
}

// TicketFromView maps a ticket view to its response shape.
func TicketFromView(v *service.TicketView) TicketResponse {
	t := v.Ticket
	return TicketResponse{
		ID:          t.ID,
		ClientID:    t.ClientID,
		RaisedBy:    t.RaisedBy,
		AssignedTo:  t.AssignedTo,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueOption:   t.DueOption,
		DueAt:       t.DueAt,
		Expired:     v.Expired,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		ClosedAt:    t.ClosedAt,
	}
}

// CommentRequest posts or edits a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse is the public comment view.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentFromDomain maps a comment row to its response view.
func CommentFromDomain(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// AttachmentResponse is the public attachment view.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	UploadedBy  string    `json:"uploaded_by"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentFromDomain maps an attachment row to its response view. The
// storage path stays internal.
func AttachmentFromDomain(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		TicketID:    a.TicketID,
		UploadedBy:  a.UploadedBy,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}
