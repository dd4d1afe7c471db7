package policy

import "github.com/deskhub/helpdesk/internal/domain"

// Action enumerates everything a principal can ask the engine about.
type Action string

const (
	ActionCreateClient Action = "create_client"
	ActionCreateAdmin  Action = "create_admin"
	ActionViewStats    Action = "view_stats"

	ActionCreateManager  Action = "create_manager"
	ActionCreateEmployee Action = "create_employee"
	ActionViewEmployee   Action = "view_employee"
	ActionManageEmployee Action = "manage_employee"
	ActionResetPassword  Action = "reset_password"

	ActionCreateTicket     Action = "create_ticket"
	ActionViewTicket       Action = "view_ticket"
	ActionEditTicket       Action = "edit_ticket"
	ActionAssignTicket     Action = "assign_ticket"
	ActionTransitionTicket Action = "transition_ticket"
	ActionDiscardTicket    Action = "discard_ticket"
	ActionCommentTicket    Action = "comment_ticket"
	ActionAttachTicket     Action = "attach_ticket"

	ActionViewSummary Action = "view_summary"
)

// ResourceKind tags resource descriptors.
type ResourceKind string

const (
	ResourcePlatform ResourceKind = "platform"
	ResourceClient   ResourceKind = "client"
	ResourceEmployee ResourceKind = "employee"
	ResourceTicket   ResourceKind = "ticket"
)

// Resource describes the target of an action. For tickets, Pool is the
// assignee's employment type and is empty while the ticket is unassigned.
// For employees, Pool is the employment type and ManagerID the hierarchy
// back-reference.
type Resource struct {
	Kind       ResourceKind
	ClientID   string
	Pool       domain.StaffScope
	ManagerID  string
	AssignedTo *string
}

// TicketResource builds a descriptor from a ticket row and its assignee's
// pool (empty when unassigned).
func TicketResource(t *domain.Ticket, assigneePool domain.StaffScope) Resource {
	return Resource{
		Kind:       ResourceTicket,
		ClientID:   t.ClientID,
		Pool:       assigneePool,
		AssignedTo: t.AssignedTo,
	}
}

// EmployeeResource builds a descriptor from an employee row and its owning
// user's tenant.
func EmployeeResource(clientID string, e *domain.Employee) Resource {
	res := Resource{
		Kind:     ResourceEmployee,
		ClientID: clientID,
		Pool:     e.EmploymentType,
	}
	if e.ManagerID != nil {
		res.ManagerID = *e.ManagerID
	}
	return res
}

// Decision is the evaluator's verdict.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a refusing decision with the rule that matched.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// OutOfScope reports whether the denial stems from tenant, pool or team
// scoping. Callers respond to these with not-found so a probe cannot
// distinguish "exists elsewhere" from "does not exist".
func (d Decision) OutOfScope() bool {
	switch d.Reason {
	case "resource outside tenant", "pool mismatch", "employee outside team", "tenant mismatch":
		return true
	}
	return false
}

// Evaluate is the single policy function every call site must consult.
// Rules are checked in precedence order; the first matching rule wins.
// Tenant or pool mismatches read as "outside scope" so callers can map
// them to not-found responses without leaking cross-tenant existence.
func Evaluate(p Principal, action Action, res Resource) Decision {
	switch p.Kind {
	case KindPlatformOperator:
		return evaluatePlatformOperator(action)
	case KindAdmin:
		return evaluateAdmin(p, action, res)
	case KindManager:
		return evaluateManager(p, action, res)
	case KindEmployee:
		return evaluateEmployee(p, action, res)
	}
	return Deny("no matching policy")
}

// Rule 1: the platform operator provisions tenants and their admins but
// never operates client resources.
func evaluatePlatformOperator(action Action) Decision {
	switch action {
	case ActionCreateClient, ActionCreateAdmin, ActionViewStats:
		return Allow()
	case ActionCreateTicket, ActionViewTicket, ActionEditTicket, ActionAssignTicket,
		ActionTransitionTicket, ActionDiscardTicket, ActionCommentTicket, ActionAttachTicket:
		return Deny("platform operator has no ticket-scope actions")
	}
	return Deny("platform operator has no client-scope actions")
}

// Rule 2: an admin acts within its own tenant and its own staff pool.
func evaluateAdmin(p Principal, action Action, res Resource) Decision {
	if res.Kind != ResourcePlatform && res.ClientID != p.ClientID {
		return Deny("resource outside tenant")
	}

	switch action {
	case ActionCreateManager, ActionCreateEmployee, ActionViewEmployee,
		ActionManageEmployee, ActionResetPassword:
		if res.Pool != p.Scope {
			return Deny("pool mismatch")
		}
		return Allow()

	case ActionCreateTicket, ActionViewSummary:
		return Allow()

	case ActionViewTicket, ActionEditTicket, ActionAssignTicket,
		ActionTransitionTicket, ActionDiscardTicket, ActionCommentTicket, ActionAttachTicket:
		// Unassigned tickets carry no pool yet and stay visible to both
		// pools' admins.
		if res.Pool != "" && res.Pool != p.Scope {
			return Deny("pool mismatch")
		}
		return Allow()
	}
	return Deny("no matching policy")
}

// Rule 3: a manager sees the whole tenant's tickets but manages only its
// own team, and mutates only inside its own pool.
func evaluateManager(p Principal, action Action, res Resource) Decision {
	if res.Kind != ResourcePlatform && res.ClientID != p.ClientID {
		return Deny("resource outside tenant")
	}

	switch action {
	case ActionViewTicket, ActionCommentTicket, ActionAttachTicket, ActionViewSummary:
		return Allow()

	case ActionCreateTicket:
		return Allow()

	case ActionAssignTicket, ActionEditTicket, ActionTransitionTicket, ActionDiscardTicket:
		if res.Pool != "" && res.Pool != p.Scope {
			return Deny("pool mismatch")
		}
		return Allow()

	case ActionCreateEmployee:
		if res.Pool != p.Scope {
			return Deny("pool mismatch")
		}
		if res.ManagerID != p.EmployeeID {
			return Deny("employee outside team")
		}
		return Allow()

	case ActionViewEmployee, ActionManageEmployee, ActionResetPassword:
		if res.Pool != p.Scope {
			return Deny("pool mismatch")
		}
		if res.ManagerID != p.EmployeeID {
			return Deny("employee outside team")
		}
		return Allow()
	}
	return Deny("no matching policy")
}

// Rule 4: an employee views and discusses tenant tickets, self-assigns
// unassigned ones, and transitions only tickets assigned to itself.
func evaluateEmployee(p Principal, action Action, res Resource) Decision {
	if res.Kind != ResourcePlatform && res.ClientID != p.ClientID {
		return Deny("resource outside tenant")
	}

	switch action {
	case ActionViewTicket, ActionCommentTicket, ActionAttachTicket:
		return Allow()

	case ActionAssignTicket:
		if res.AssignedTo != nil {
			return Deny("already assigned")
		}
		return Allow()

	case ActionTransitionTicket:
		if res.AssignedTo == nil || *res.AssignedTo != p.EmployeeID {
			return Deny("ticket not assigned to caller")
		}
		return Allow()
	}
	return Deny("no matching policy")
}
