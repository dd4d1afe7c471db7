package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/policy"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	clientID := "client-1"
	employeeID := "emp-1"
	scope := domain.ScopeClient
	identity := policy.Identity{
		UserID:         "user-1",
		ClientID:       &clientID,
		Role:           domain.RoleEmployee,
		EmploymentType: &scope,
		EmployeeID:     &employeeID,
	}

	token, expiresAt, err := tm.GenerateToken(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)

	parsed := claims.Identity()
	assert.Equal(t, identity.UserID, parsed.UserID)
	require.NotNil(t, parsed.ClientID)
	assert.Equal(t, clientID, *parsed.ClientID)
	assert.Equal(t, domain.RoleEmployee, parsed.Role)
	require.NotNil(t, parsed.EmployeeID)
	assert.Equal(t, employeeID, *parsed.EmployeeID)

	principal, err := policy.PrincipalFromIdentity(parsed)
	require.NoError(t, err)
	assert.Equal(t, policy.KindEmployee, principal.Kind)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(policy.Identity{UserID: "user-1", Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}
