package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/policy"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and normalizes the caller into a
// policy principal.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal, err := policy.PrincipalFromIdentity(claims.Identity())
	if err != nil {
		return apperrors.NewUnauthorized("malformed identity")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (policy.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return policy.Principal{}, false
	}
	principal, ok := val.(policy.Principal)
	return principal, ok
}
