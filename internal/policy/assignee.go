package policy

import "github.com/deskhub/helpdesk/internal/domain"

// EmployeeRef is a candidate assignee resolved through its owning user.
type EmployeeRef struct {
	EmployeeID string
	ClientID   string
	Pool       domain.StaffScope
}

// ValidateAssignee checks a candidate against the scope rules before an
// assignment is committed. A nil candidate means unassign. The caller is
// expected to have passed Evaluate(p, ActionAssignTicket, ticket) first;
// this validator only judges the candidate itself.
func ValidateAssignee(p Principal, ticket Resource, candidate *EmployeeRef) Decision {
	if p.Kind == KindPlatformOperator {
		return Deny("platform operator has no ticket-scope actions")
	}

	if candidate == nil {
		// Unassigning is always valid for principals with mutate rights.
		if p.Kind == KindAdmin || p.Kind == KindManager {
			return Allow()
		}
		return Deny("only admins and managers may unassign")
	}

	if candidate.ClientID != ticket.ClientID {
		return Deny("tenant mismatch")
	}

	switch p.Kind {
	case KindAdmin, KindManager:
		// An assigner of pool S may only assign into pool S.
		if candidate.Pool != p.Scope {
			return Deny("pool mismatch")
		}
		return Allow()

	case KindEmployee:
		if candidate.EmployeeID != p.EmployeeID {
			return Deny("employees may only self-assign")
		}
		if ticket.AssignedTo != nil {
			return Deny("already assigned")
		}
		return Allow()
	}

	return Deny("no matching policy")
}
