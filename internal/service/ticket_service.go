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
	"github.com/deskhub/helpdesk/internal/lifecycle"
	"github.com/deskhub/helpdesk/internal/policy"
	"github.com/deskhub/helpdesk/internal/repository"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// TicketService owns ticket lifecycle operations. Every entry point
// consults the policy evaluator before touching storage.
type TicketService struct {
	tickets    repository.TicketRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService creates the service.
func NewTicketService(
	tickets repository.TicketRepository,
	employees repository.EmployeeRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		tickets:    tickets,
		employees:  employees,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// TicketView pairs a ticket with its derived overdue flag.
type TicketView struct {
	Ticket  *domain.Ticket
	Expired bool
}

// CreateTicketInput carries creation fields. DueDate is read only when
// DueOption is custom.
type CreateTicketInput struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
	DueOption   domain.DueOption
	DueDate     *time.Time
}

// Create opens a ticket in the caller's tenant, deriving the deadline
// from the due option.
func (s *TicketService) Create(ctx context.Context, p policy.Principal, input CreateTicketInput) (*TicketView, error) {
	if d := policy.Evaluate(p, policy.ActionCreateTicket, policy.Resource{
		Kind: policy.ResourceTicket, ClientID: p.ClientID,
	}); !d.Allowed {
		return nil, apperrors.NewForbidden(d.Reason)
	}

	input.Subject = strings.TrimSpace(input.Subject)
	if input.Subject == "" {
		return nil, apperrors.NewValidationError("subject is required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if input.DueOption == "" {
		input.DueOption = domain.DueOptionNone
	}
	if !domain.ValidDueOption(input.DueOption) {
		return nil, apperrors.NewValidationError("unknown due option", map[string]any{"due_option": input.DueOption})
	}
	if input.DueOption == domain.DueOptionCustom && input.DueDate == nil {
		return nil, apperrors.NewValidationError("custom due option requires a due date", nil)
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ClientID:    p.ClientID,
		RaisedBy:    p.UserID,
		Subject:     input.Subject,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		DueOption:   input.DueOption,
		DueAt:       lifecycle.DeriveDueAt(input.DueOption, input.DueDate, now),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket, p, events.TicketCreatedPayload{
		Subject:  ticket.Subject,
		Priority: ticket.Priority,
		DueAt:    ticket.DueAt,
	})
	return &TicketView{Ticket: ticket, Expired: lifecycle.Expired(ticket, now)}, nil
}

// Get returns one ticket visible to the caller.
func (s *TicketService) Get(ctx context.Context, p policy.Principal, id string) (*TicketView, error) {
	ticket, resource, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionViewTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}
	return &TicketView{Ticket: ticket, Expired: lifecycle.Expired(ticket, time.Now())}, nil
}

// ListTicketsInput carries listing filters.
type ListTicketsInput struct {
	Status   *string
	Priority *domain.TicketPriority
	Mine     bool
	Limit    int
	Offset   int
}

// List returns the tickets the caller may see, newest first. Admins see
// their pool's tickets plus unassigned ones; managers and employees see
// the whole tenant.
func (s *TicketService) List(ctx context.Context, p policy.Principal, input ListTicketsInput) ([]TicketView, error) {
	if !p.IsStaff() {
		return nil, apperrors.NewForbidden("platform operator has no ticket-scope actions")
	}

	filter := repository.TicketFilter{
		ClientID: &p.ClientID,
		Priority: input.Priority,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if input.Status != nil {
		status, err := lifecycle.ParseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if p.Kind == policy.KindAdmin {
		scope := p.Scope
		filter.Pool = &scope
	}
	if input.Mine {
		if p.EmployeeID == "" {
			return nil, apperrors.NewValidationError("caller has no staff profile", nil)
		}
		employeeID := p.EmployeeID
		filter.AssignedTo = &employeeID
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	views := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, TicketView{Ticket: &tickets[i], Expired: lifecycle.Expired(&tickets[i], now)})
	}
	return views, nil
}

// EditTicketInput carries the editable fields. Nil fields are left alone.
type EditTicketInput struct {
	Subject     *string
	Description *string
	Priority    *domain.TicketPriority
	DueOption   *domain.DueOption
	DueDate     *time.Time
}

// Edit updates ticket content. Changing the due option re-derives the
// deadline from the current moment.
func (s *TicketService) Edit(ctx context.Context, p policy.Principal, id string, input EditTicketInput) (*TicketView, error) {
	ticket, resource, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionEditTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, apperrors.NewValidationError("subject is required", nil)
		}
		ticket.Subject = subject
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.DueOption != nil {
		if !domain.ValidDueOption(*input.DueOption) {
			return nil, apperrors.NewValidationError("unknown due option", map[string]any{"due_option": *input.DueOption})
		}
		if *input.DueOption == domain.DueOptionCustom && input.DueDate == nil {
			return nil, apperrors.NewValidationError("custom due option requires a due date", nil)
		}
		ticket.DueOption = *input.DueOption
		ticket.DueAt = lifecycle.DeriveDueAt(*input.DueOption, input.DueDate, time.Now())
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketView{Ticket: ticket, Expired: lifecycle.Expired(ticket, time.Now())}, nil
}

// ChangeStatus moves a ticket along the main lifecycle path. Discard and
// archive have their own entry points.
func (s *TicketService) ChangeStatus(ctx context.Context, p policy.Principal, id, rawStatus string) (*TicketView, error) {
	next, err := lifecycle.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	switch next {
	case domain.TicketStatusDiscarded:
		return nil, apperrors.NewValidationError("use the discard operation", nil)
	case domain.TicketStatusArchived:
		return nil, apperrors.NewValidationError("use the archive operation", nil)
	}

	ticket, resource, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionTransitionTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	oldStatus := ticket.Status
	now := time.Now()
	if err := lifecycle.Transition(ticket, next, now); err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketStatusChanged, ticket, p, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: ticket.Status,
	})
	return &TicketView{Ticket: ticket, Expired: lifecycle.Expired(ticket, now)}, nil
}

// Assign sets or clears the assignee. A nil assigneeID unassigns. The
// write is transactional: it aborts if the ticket changed since the
// checks ran.
func (s *TicketService) Assign(ctx context.Context, p policy.Principal, id string, assigneeID *string) (*TicketView, error) {
	ticket, resource, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionAssignTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	var candidate *policy.EmployeeRef
	if assigneeID != nil {
		row, err := s.employees.ResolveAssignee(ctx, *assigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assignee", nil)
			}
			return nil, apperrors.MapError(err)
		}
		clientID := ""
		if row.ClientID != nil {
			clientID = *row.ClientID
		}
		candidate = &policy.EmployeeRef{
			EmployeeID: row.EmployeeID,
			ClientID:   clientID,
			Pool:       row.EmploymentType,
		}
	}
	if d := policy.ValidateAssignee(p, resource, candidate); !d.Allowed {
		return nil, policyError(d, "assignee")
	}

	expected := repository.AssignExpectation{Status: ticket.Status, AssignedTo: ticket.AssignedTo}
	updated, err := s.tickets.Assign(ctx, id, assigneeID, expected)
	if err != nil {
		if errors.Is(err, repository.ErrStaleAssignment) {
			return nil, apperrors.NewConflict("ticket changed during assignment", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketAssigned, updated, p, events.TicketAssignedPayload{
		AssigneeID: assigneeID,
		SelfAssign: p.Kind == policy.KindEmployee,
	})
	return &TicketView{Ticket: updated, Expired: lifecycle.Expired(updated, time.Now())}, nil
}

// SelfAssign lets an employee claim an unassigned ticket.
func (s *TicketService) SelfAssign(ctx context.Context, p policy.Principal, id string) (*TicketView, error) {
	if p.Kind != policy.KindEmployee {
		return nil, apperrors.NewForbidden("only employees self-assign")
	}
	employeeID := p.EmployeeID
	return s.Assign(ctx, p, id, &employeeID)
}

// Discard abandons a ticket that never reached closure.
func (s *TicketService) Discard(ctx context.Context, p policy.Principal, id string) (*TicketView, error) {
	ticket, resource, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionDiscardTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	previous := ticket.Status
	if err := lifecycle.Discard(ticket); err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketDiscarded, ticket, p, events.TicketDiscardedPayload{
		PreviousStatus: previous,
	})
	return &TicketView{Ticket: ticket, Expired: false}, nil
}

// Archive retires a closed ticket.
func (s *TicketService) Archive(ctx context.Context, p policy.Principal, id string) (*TicketView, error) {
	ticket, resource, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := policy.Evaluate(p, policy.ActionTransitionTicket, resource); !d.Allowed {
		return nil, policyError(d, "ticket")
	}

	oldStatus := ticket.Status
	if err := lifecycle.Transition(ticket, domain.TicketStatusArchived, time.Now()); err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateStatus(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketStatusChanged, ticket, p, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: ticket.Status,
	})
	return &TicketView{Ticket: ticket, Expired: false}, nil
}

// loadTicket fetches a ticket and builds its policy resource, resolving
// the assignee's pool when one is set.
func (s *TicketService) loadTicket(ctx context.Context, id string) (*domain.Ticket, policy.Resource, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, policy.Resource{}, apperrors.NewNotFound("ticket", nil)
		}
		return nil, policy.Resource{}, apperrors.MapError(err)
	}

	var pool domain.StaffScope
	if ticket.AssignedTo != nil {
		row, err := s.employees.ResolveAssignee(ctx, *ticket.AssignedTo)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, policy.Resource{}, apperrors.MapError(err)
			}
			s.logger.Warn("assignee row missing", zap.String("ticket_id", ticket.ID))
		} else {
			pool = row.EmploymentType
		}
	}
	return ticket, policy.TicketResource(ticket, pool), nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, p policy.Principal, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.ID,
		ClientID:  ticket.ClientID,
		ActorID:   p.UserID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
