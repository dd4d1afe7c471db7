package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/policy"
)

func operatorPrincipal() policy.Principal {
	return policy.Principal{Kind: policy.KindPlatformOperator, UserID: "op-1"}
}

func newDirectoryServiceForTest(t *testing.T) (*DirectoryService, *fakeClientRepo) {
	t.Helper()
	clients := newFakeClientRepo()
	svc := NewDirectoryService(clients, nil, newFakeEmployeeRepo(), newFakeTicketRepo(), nil, 10, zap.NewNop())
	return svc, clients
}

func TestCreateClientStoresContact(t *testing.T) {
	svc, _ := newDirectoryServiceForTest(t)

	client, err := svc.CreateClient(context.Background(), operatorPrincipal(), CreateClientInput{
		Name:         "  Acme Corp  ",
		ContactEmail: "ops@acme.test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Acme Corp", client.Name)
	assert.Equal(t, "ops@acme.test", client.ContactEmail)

	listed, err := svc.ListClients(context.Background(), operatorPrincipal())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "ops@acme.test", listed[0].ContactEmail)
}

func TestCreateClientRequiresContactEmail(t *testing.T) {
	svc, _ := newDirectoryServiceForTest(t)

	_, err := svc.CreateClient(context.Background(), operatorPrincipal(), CreateClientInput{
		Name:         "Acme Corp",
		ContactEmail: "   ",
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestCreateClientOperatorOnly(t *testing.T) {
	svc, _ := newDirectoryServiceForTest(t)

	_, err := svc.CreateClient(context.Background(), adminPrincipal("client-1", domain.ScopeClient), CreateClientInput{
		Name:         "Acme Corp",
		ContactEmail: "ops@acme.test",
	})
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}
