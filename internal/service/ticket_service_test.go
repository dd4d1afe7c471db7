package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/events"
	"github.com/deskhub/helpdesk/internal/policy"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

func adminPrincipal(clientID string, scope domain.StaffScope) policy.Principal {
	return policy.Principal{Kind: policy.KindAdmin, UserID: "admin-user", ClientID: clientID, Scope: scope}
}

func employeePrincipal(clientID, employeeID string, scope domain.StaffScope) policy.Principal {
	return policy.Principal{
		Kind:       policy.KindEmployee,
		UserID:     "user-" + employeeID,
		ClientID:   clientID,
		Scope:      scope,
		EmployeeID: employeeID,
	}
}

func newTicketServiceForTest(t *testing.T) (*TicketService, *fakeTicketRepo, *fakeEmployeeRepo) {
	t.Helper()
	tickets := newFakeTicketRepo()
	employees := newFakeEmployeeRepo()
	svc := NewTicketService(tickets, employees, events.NewInMemoryDispatcher(), zap.NewNop())
	return svc, tickets, employees
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestCreateDerivesDueDateAndDefaults(t *testing.T) {
	svc, _, _ := newTicketServiceForTest(t)
	p := adminPrincipal("client-1", domain.ScopeClient)

	view, err := svc.Create(context.Background(), p, CreateTicketInput{
		Subject:   "  printer jam  ",
		DueOption: domain.DueOptionTomorrow,
	})
	require.NoError(t, err)

	assert.Equal(t, "printer jam", view.Ticket.Subject)
	assert.Equal(t, domain.TicketStatusOpen, view.Ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, view.Ticket.Priority)
	assert.Equal(t, "client-1", view.Ticket.ClientID)
	assert.Equal(t, p.UserID, view.Ticket.RaisedBy)
	require.NotNil(t, view.Ticket.DueAt)
	assert.Equal(t, 23, view.Ticket.DueAt.Hour())
	assert.False(t, view.Expired)
}

func TestCreateDeniedForEmployees(t *testing.T) {
	svc, _, _ := newTicketServiceForTest(t)
	p := employeePrincipal("client-1", "emp-1", domain.ScopeClient)

	_, err := svc.Create(context.Background(), p, CreateTicketInput{Subject: "x"})
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestCreateRejectsCustomWithoutDate(t *testing.T) {
	svc, _, _ := newTicketServiceForTest(t)
	p := adminPrincipal("client-1", domain.ScopeClient)

	_, err := svc.Create(context.Background(), p, CreateTicketInput{
		Subject:   "migration",
		DueOption: domain.DueOptionCustom,
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestChangeStatusRejectsDedicatedOperations(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	p := adminPrincipal("client-1", domain.ScopeClient)

	_, err := svc.ChangeStatus(context.Background(), p, "t1", "discarded")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	_, err = svc.ChangeStatus(context.Background(), p, "t1", "archived")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestChangeStatusWalksLifecycle(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	p := adminPrincipal("client-1", domain.ScopeClient)
	ctx := context.Background()

	view, err := svc.ChangeStatus(ctx, p, "t1", "in_progress")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, view.Ticket.Status)

	view, err = svc.ChangeStatus(ctx, p, "t1", "closed")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, view.Ticket.Status)
	assert.NotNil(t, view.Ticket.ClosedAt)

	// Closed tickets only move to archived.
	_, err = svc.ChangeStatus(ctx, p, "t1", "open")
	assert.Equal(t, "INVALID_TRANSITION", domainCode(t, err))
}

func TestCrossTenantReadsAsNotFound(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	outsider := employeePrincipal("client-2", "emp-9", domain.ScopeClient)

	_, err := svc.Get(context.Background(), outsider, "t1")
	assert.True(t, apperrors.IsNotFound(err), "cross-tenant reads must look like missing tickets, got %v", err)
}

func TestAssignValidatesPool(t *testing.T) {
	svc, tickets, employees := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	employees.addAssignee("emp-internal", "user-i", "client-1", domain.ScopeInternal)
	admin := adminPrincipal("client-1", domain.ScopeClient)

	otherPool := "emp-internal"
	_, err := svc.Assign(context.Background(), admin, "t1", &otherPool)
	assert.True(t, apperrors.IsNotFound(err), "pool mismatch reads as not found, got %v", err)
}

func TestAssignAndUnassign(t *testing.T) {
	svc, tickets, employees := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	employees.addAssignee("emp-1", "user-1", "client-1", domain.ScopeClient)
	admin := adminPrincipal("client-1", domain.ScopeClient)
	ctx := context.Background()

	empID := "emp-1"
	view, err := svc.Assign(ctx, admin, "t1", &empID)
	require.NoError(t, err)
	require.NotNil(t, view.Ticket.AssignedTo)
	assert.Equal(t, "emp-1", *view.Ticket.AssignedTo)

	view, err = svc.Assign(ctx, admin, "t1", nil)
	require.NoError(t, err)
	assert.Nil(t, view.Ticket.AssignedTo)
}

func TestAssignStaleWriteConflicts(t *testing.T) {
	svc, tickets, employees := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	employees.addAssignee("emp-1", "user-1", "client-1", domain.ScopeClient)
	tickets.forceStale = true
	admin := adminPrincipal("client-1", domain.ScopeClient)

	empID := "emp-1"
	_, err := svc.Assign(context.Background(), admin, "t1", &empID)
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestSelfAssignOnlyOntoUnassigned(t *testing.T) {
	svc, tickets, employees := newTicketServiceForTest(t)
	employees.addAssignee("emp-1", "user-emp-1", "client-1", domain.ScopeClient)
	employees.addAssignee("emp-2", "user-emp-2", "client-1", domain.ScopeClient)
	other := "emp-2"
	tickets.put(&domain.Ticket{ID: "taken", ClientID: "client-1", Status: domain.TicketStatusOpen, AssignedTo: &other})
	tickets.put(&domain.Ticket{ID: "free", ClientID: "client-1", Status: domain.TicketStatusOpen})
	emp := employeePrincipal("client-1", "emp-1", domain.ScopeClient)
	ctx := context.Background()

	_, err := svc.SelfAssign(ctx, emp, "taken")
	require.Error(t, err)

	view, err := svc.SelfAssign(ctx, emp, "free")
	require.NoError(t, err)
	require.NotNil(t, view.Ticket.AssignedTo)
	assert.Equal(t, "emp-1", *view.Ticket.AssignedTo)
}

func TestSelfAssignRequiresEmployee(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})

	_, err := svc.SelfAssign(context.Background(), adminPrincipal("client-1", domain.ScopeClient), "t1")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestDiscardFromClosedFails(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	closedAt := time.Now()
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusClosed, ClosedAt: &closedAt})
	p := adminPrincipal("client-1", domain.ScopeClient)

	_, err := svc.Discard(context.Background(), p, "t1")
	assert.Equal(t, "INVALID_TRANSITION", domainCode(t, err))
}

func TestArchiveRequiresClosed(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "open", ClientID: "client-1", Status: domain.TicketStatusOpen})
	closedAt := time.Now()
	tickets.put(&domain.Ticket{ID: "closed", ClientID: "client-1", Status: domain.TicketStatusClosed, ClosedAt: &closedAt})
	p := adminPrincipal("client-1", domain.ScopeClient)
	ctx := context.Background()

	_, err := svc.Archive(ctx, p, "open")
	assert.Equal(t, "INVALID_TRANSITION", domainCode(t, err))

	view, err := svc.Archive(ctx, p, "closed")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusArchived, view.Ticket.Status)
}

func TestEditReDerivesDueDate(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{
		ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen,
		DueOption: domain.DueOptionNone,
	})
	p := adminPrincipal("client-1", domain.ScopeClient)

	option := domain.DueOptionToday
	view, err := svc.Edit(context.Background(), p, "t1", EditTicketInput{DueOption: &option})
	require.NoError(t, err)
	assert.Equal(t, domain.DueOptionToday, view.Ticket.DueOption)
	require.NotNil(t, view.Ticket.DueAt)
}

func TestListMineRequiresProfile(t *testing.T) {
	svc, _, _ := newTicketServiceForTest(t)
	admin := adminPrincipal("client-1", domain.ScopeClient)

	_, err := svc.List(context.Background(), admin, ListTicketsInput{Mine: true})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestAssignMissingAssigneeIsNotFound(t *testing.T) {
	svc, tickets, _ := newTicketServiceForTest(t)
	tickets.put(&domain.Ticket{ID: "t1", ClientID: "client-1", Status: domain.TicketStatusOpen})
	admin := adminPrincipal("client-1", domain.ScopeClient)

	ghost := "emp-ghost"
	_, err := svc.Assign(context.Background(), admin, "t1", &ghost)
	assert.True(t, apperrors.IsNotFound(err))
}
