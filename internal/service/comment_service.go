package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/events"
	"github.com/deskhub/helpdesk/internal/policy"
	"github.com/deskhub/helpdesk/internal/repository"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

const commentPreviewLen = 120

// CommentService manages ticket threads. Comments are author-editable
// only and never move between tickets.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    *TicketService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCommentService creates the service.
func NewCommentService(
	comments repository.CommentRepository,
	tickets *TicketService,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments:   comments,
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Add posts a comment on a ticket visible to the caller.
func (s *CommentService) Add(ctx context.Context, p policy.Principal, ticketID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}

	ticket, resource, err := s.tickets.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionCommentTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: p.UserID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		preview := body
		if len(preview) > commentPreviewLen {
			preview = preview[:commentPreviewLen]
		}
		event := events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			TicketID:  ticket.ID,
			ClientID:  ticket.ClientID,
			ActorID:   p.UserID,
			Timestamp: time.Now(),
			Payload:   events.CommentAddedPayload{CommentID: comment.ID, BodyPreview: preview},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
		}
	}
	return comment, nil
}

// List returns a ticket's thread, oldest first.
func (s *CommentService) List(ctx context.Context, p policy.Principal, ticketID string) ([]domain.Comment, error) {
	_, resource, err := s.tickets.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionViewTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Edit replaces a comment's body. Only the author may edit, regardless
// of role.
func (s *CommentService) Edit(ctx context.Context, p policy.Principal, commentID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", nil)
		}
		return nil, apperrors.MapError(err)
	}

	_, resource, err := s.tickets.loadTicket(ctx, comment.TicketID)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionViewTicket, resource); !d.Allowed {
		return nil, policyError(d, "comment")
	}
	if comment.AuthorID != p.UserID {
		return nil, apperrors.NewForbidden("only the author may edit a comment")
	}

	if err := s.comments.UpdateBody(ctx, commentID, body); err != nil {
		return nil, apperrors.MapError(err)
	}
	comment.Body = body
	return comment, nil
}
