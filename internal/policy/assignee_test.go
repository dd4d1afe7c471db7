package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/helpdesk/internal/domain"
)

func candidate(id, clientID string, pool domain.StaffScope) *EmployeeRef {
	return &EmployeeRef{EmployeeID: id, ClientID: clientID, Pool: pool}
}

func TestValidateAssigneeTenantMismatch(t *testing.T) {
	p := admin("client-1", domain.ScopeClient)
	ticket := ticketRes("client-1", "", nil)

	d := ValidateAssignee(p, ticket, candidate("emp-1", "client-2", domain.ScopeClient))
	require.False(t, d.Allowed)
	assert.True(t, d.OutOfScope())
}

func TestValidateAssigneePoolMismatch(t *testing.T) {
	ticket := ticketRes("client-1", "", nil)

	// A client-pool admin cannot assign to an internal employee.
	d := ValidateAssignee(admin("client-1", domain.ScopeClient), ticket, candidate("emp-1", "client-1", domain.ScopeInternal))
	assert.False(t, d.Allowed)

	// Neither can a client-pool manager.
	d = ValidateAssignee(manager("client-1", domain.ScopeClient, "mgr-1"), ticket, candidate("emp-1", "client-1", domain.ScopeInternal))
	assert.False(t, d.Allowed)

	// Matching pool passes.
	d = ValidateAssignee(admin("client-1", domain.ScopeClient), ticket, candidate("emp-1", "client-1", domain.ScopeClient))
	assert.True(t, d.Allowed)
}

func TestValidateAssigneeSelfAssign(t *testing.T) {
	p := employee("client-1", domain.ScopeClient, "emp-1")
	unassigned := ticketRes("client-1", "", nil)
	taken := ticketRes("client-1", domain.ScopeClient, strPtr("emp-2"))

	// Employees may only name themselves.
	d := ValidateAssignee(p, unassigned, candidate("emp-2", "client-1", domain.ScopeClient))
	require.False(t, d.Allowed)
	assert.Equal(t, "employees may only self-assign", d.Reason)

	// And only onto unassigned tickets.
	d = ValidateAssignee(p, taken, candidate("emp-1", "client-1", domain.ScopeClient))
	require.False(t, d.Allowed)
	assert.Equal(t, "already assigned", d.Reason)

	assert.True(t, ValidateAssignee(p, unassigned, candidate("emp-1", "client-1", domain.ScopeClient)).Allowed)
}

func TestValidateAssigneeUnassign(t *testing.T) {
	ticket := ticketRes("client-1", domain.ScopeClient, strPtr("emp-1"))

	assert.True(t, ValidateAssignee(admin("client-1", domain.ScopeClient), ticket, nil).Allowed)
	assert.True(t, ValidateAssignee(manager("client-1", domain.ScopeClient, "mgr-1"), ticket, nil).Allowed)
	assert.False(t, ValidateAssignee(employee("client-1", domain.ScopeClient, "emp-1"), ticket, nil).Allowed)
	assert.False(t, ValidateAssignee(operator(), ticket, nil).Allowed)
}
