package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/helpdesk/internal/domain"
)

func strPtr(s string) *string { return &s }

func operator() Principal {
	return Principal{Kind: KindPlatformOperator, UserID: "op-1"}
}

func admin(clientID string, scope domain.StaffScope) Principal {
	return Principal{Kind: KindAdmin, UserID: "admin-1", ClientID: clientID, Scope: scope}
}

func manager(clientID string, scope domain.StaffScope, employeeID string) Principal {
	return Principal{Kind: KindManager, UserID: "mgr-u", ClientID: clientID, Scope: scope, EmployeeID: employeeID}
}

func employee(clientID string, scope domain.StaffScope, employeeID string) Principal {
	return Principal{Kind: KindEmployee, UserID: "emp-u", ClientID: clientID, Scope: scope, EmployeeID: employeeID}
}

func ticketRes(clientID string, pool domain.StaffScope, assignedTo *string) Resource {
	return Resource{Kind: ResourceTicket, ClientID: clientID, Pool: pool, AssignedTo: assignedTo}
}

func TestPlatformOperatorScope(t *testing.T) {
	p := operator()

	assert.True(t, Evaluate(p, ActionCreateClient, Resource{Kind: ResourcePlatform}).Allowed)
	assert.True(t, Evaluate(p, ActionCreateAdmin, Resource{Kind: ResourcePlatform}).Allowed)
	assert.True(t, Evaluate(p, ActionViewStats, Resource{Kind: ResourcePlatform}).Allowed)

	// The operator never touches client tickets, even with a matching id.
	for _, action := range []Action{ActionCreateTicket, ActionViewTicket, ActionEditTicket, ActionAssignTicket, ActionTransitionTicket, ActionDiscardTicket} {
		d := Evaluate(p, action, ticketRes("client-1", "", nil))
		assert.False(t, d.Allowed, "action %s", action)
	}
}

func TestTenantIsolation(t *testing.T) {
	res := ticketRes("client-2", domain.ScopeClient, nil)

	principals := []Principal{
		admin("client-1", domain.ScopeClient),
		manager("client-1", domain.ScopeClient, "mgr-1"),
		employee("client-1", domain.ScopeClient, "emp-1"),
	}
	for _, p := range principals {
		d := Evaluate(p, ActionViewTicket, res)
		require.False(t, d.Allowed, "kind %s", p.Kind)
		assert.True(t, d.OutOfScope(), "tenant denials must be concealable")
	}
}

func TestAdminPoolIsolation(t *testing.T) {
	internalAdmin := admin("client-1", domain.ScopeInternal)

	// Assigned to the other pool: invisible.
	d := Evaluate(internalAdmin, ActionViewTicket, ticketRes("client-1", domain.ScopeClient, strPtr("emp-9")))
	require.False(t, d.Allowed)
	assert.True(t, d.OutOfScope())

	// Unassigned tickets carry no pool and stay visible to both admins.
	assert.True(t, Evaluate(internalAdmin, ActionViewTicket, ticketRes("client-1", "", nil)).Allowed)
	assert.True(t, Evaluate(admin("client-1", domain.ScopeClient), ActionViewTicket, ticketRes("client-1", "", nil)).Allowed)

	// Own pool: full mutate rights.
	own := ticketRes("client-1", domain.ScopeInternal, strPtr("emp-1"))
	assert.True(t, Evaluate(internalAdmin, ActionEditTicket, own).Allowed)
	assert.True(t, Evaluate(internalAdmin, ActionAssignTicket, own).Allowed)
	assert.True(t, Evaluate(internalAdmin, ActionDiscardTicket, own).Allowed)
}

func TestAdminEmployeeActionsArePoolScoped(t *testing.T) {
	p := admin("client-1", domain.ScopeInternal)

	sameScope := Resource{Kind: ResourceEmployee, ClientID: "client-1", Pool: domain.ScopeInternal}
	otherScope := Resource{Kind: ResourceEmployee, ClientID: "client-1", Pool: domain.ScopeClient}

	assert.True(t, Evaluate(p, ActionCreateEmployee, sameScope).Allowed)
	assert.True(t, Evaluate(p, ActionResetPassword, sameScope).Allowed)
	assert.False(t, Evaluate(p, ActionCreateEmployee, otherScope).Allowed)
	assert.False(t, Evaluate(p, ActionResetPassword, otherScope).Allowed)
}

func TestManagerTeamBoundary(t *testing.T) {
	p := manager("client-1", domain.ScopeClient, "mgr-1")

	ownReport := Resource{Kind: ResourceEmployee, ClientID: "client-1", Pool: domain.ScopeClient, ManagerID: "mgr-1"}
	otherReport := Resource{Kind: ResourceEmployee, ClientID: "client-1", Pool: domain.ScopeClient, ManagerID: "mgr-2"}

	assert.True(t, Evaluate(p, ActionManageEmployee, ownReport).Allowed)
	assert.True(t, Evaluate(p, ActionCreateEmployee, ownReport).Allowed)

	d := Evaluate(p, ActionManageEmployee, otherReport)
	require.False(t, d.Allowed)
	assert.True(t, d.OutOfScope())
}

func TestManagerTicketRights(t *testing.T) {
	p := manager("client-1", domain.ScopeClient, "mgr-1")

	// Views span the tenant regardless of pool.
	assert.True(t, Evaluate(p, ActionViewTicket, ticketRes("client-1", domain.ScopeInternal, strPtr("emp-9"))).Allowed)
	assert.True(t, Evaluate(p, ActionCommentTicket, ticketRes("client-1", domain.ScopeInternal, strPtr("emp-9"))).Allowed)

	// Mutations stay inside the pool.
	assert.False(t, Evaluate(p, ActionAssignTicket, ticketRes("client-1", domain.ScopeInternal, strPtr("emp-9"))).Allowed)
	assert.True(t, Evaluate(p, ActionAssignTicket, ticketRes("client-1", domain.ScopeClient, strPtr("emp-2"))).Allowed)
	assert.True(t, Evaluate(p, ActionAssignTicket, ticketRes("client-1", "", nil)).Allowed)
}

func TestEmployeeTicketRights(t *testing.T) {
	p := employee("client-1", domain.ScopeClient, "emp-1")

	unassigned := ticketRes("client-1", "", nil)
	mine := ticketRes("client-1", domain.ScopeClient, strPtr("emp-1"))
	theirs := ticketRes("client-1", domain.ScopeClient, strPtr("emp-2"))

	assert.True(t, Evaluate(p, ActionViewTicket, theirs).Allowed)
	assert.True(t, Evaluate(p, ActionCommentTicket, theirs).Allowed)

	// Self-assign only onto unassigned tickets.
	assert.True(t, Evaluate(p, ActionAssignTicket, unassigned).Allowed)
	assert.False(t, Evaluate(p, ActionAssignTicket, theirs).Allowed)

	// Transitions only on own tickets.
	assert.True(t, Evaluate(p, ActionTransitionTicket, mine).Allowed)
	assert.False(t, Evaluate(p, ActionTransitionTicket, theirs).Allowed)
	assert.False(t, Evaluate(p, ActionTransitionTicket, unassigned).Allowed)

	// No staff management at all.
	assert.False(t, Evaluate(p, ActionCreateEmployee, Resource{Kind: ResourceEmployee, ClientID: "client-1", Pool: domain.ScopeClient}).Allowed)
	assert.False(t, Evaluate(p, ActionViewSummary, Resource{Kind: ResourceClient, ClientID: "client-1"}).Allowed)
}

func TestFirstMatchingRuleWins(t *testing.T) {
	// A tenant mismatch is reported even when the action would otherwise
	// be denied for role reasons: the tenant rule sits first.
	p := employee("client-1", domain.ScopeClient, "emp-1")
	d := Evaluate(p, ActionCreateEmployee, Resource{Kind: ResourceEmployee, ClientID: "client-2", Pool: domain.ScopeClient})
	require.False(t, d.Allowed)
	assert.Equal(t, "resource outside tenant", d.Reason)
}
