package lifecycle

import (
	"time"

	"github.com/deskhub/helpdesk/internal/domain"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// allowedTransitions is the full status graph. Archived and discarded are
// terminal; archiving requires a closed ticket; discarding is possible from
// any pre-closed state.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusDiscarded},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusClosed, domain.TicketStatusDiscarded},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusDiscarded},
	domain.TicketStatusClosed:     {domain.TicketStatusArchived},
	domain.TicketStatusArchived:   {},
	domain.TicketStatusDiscarded:  {},
}

// ParseStatus validates an incoming status string against the closed enum.
// Unknown values are rejected rather than defaulted.
func ParseStatus(raw string) (domain.TicketStatus, error) {
	status := domain.TicketStatus(raw)
	if _, ok := allowedTransitions[status]; !ok {
		return "", apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
	}
	return status, nil
}

// CheckTransition returns nil when current→next is a legal move, or an
// invalid-transition error naming the guard that failed.
func CheckTransition(current, next domain.TicketStatus) error {
	if current == domain.TicketStatusArchived || current == domain.TicketStatusDiscarded {
		return apperrors.NewInvalidTransition("terminal state", map[string]any{
			"status": current,
		})
	}
	if next == domain.TicketStatusArchived && current != domain.TicketStatusClosed {
		return apperrors.NewInvalidTransition("archive requires a closed ticket", map[string]any{
			"status": current,
		})
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return nil
		}
	}
	return apperrors.NewInvalidTransition("transition not allowed", map[string]any{
		"from": current,
		"to":   next,
	})
}

// Transition applies a legal status change to the ticket, stamping
// ClosedAt when the ticket closes.
func Transition(t *domain.Ticket, next domain.TicketStatus, now time.Time) error {
	if err := CheckTransition(t.Status, next); err != nil {
		return err
	}
	t.Status = next
	if next == domain.TicketStatusClosed {
		closedAt := now
		t.ClosedAt = &closedAt
	}
	return nil
}

// Discard moves a ticket onto the abandoned side branch.
func Discard(t *domain.Ticket) error {
	if t.Status == domain.TicketStatusClosed || t.Status == domain.TicketStatusArchived {
		return apperrors.NewInvalidTransition("cannot discard a closed or archived ticket", map[string]any{
			"status": t.Status,
		})
	}
	if t.Status == domain.TicketStatusDiscarded {
		return apperrors.NewInvalidTransition("terminal state", map[string]any{
			"status": t.Status,
		})
	}
	t.Status = domain.TicketStatusDiscarded
	return nil
}

// Expired reports the derived overdue flag. It is never stored: a ticket
// is expired while its due date has passed and it is still live.
func Expired(t *domain.Ticket, now time.Time) bool {
	if t.DueAt == nil {
		return false
	}
	switch t.Status {
	case domain.TicketStatusClosed, domain.TicketStatusArchived, domain.TicketStatusDiscarded:
		return false
	}
	return t.DueAt.Before(now)
}
