package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskhub/helpdesk/internal/policy"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// RequireKind ensures the principal has one of the allowed shapes.
func RequireKind(allowed ...policy.PrincipalKind) fiber.Handler {
	allowedSet := make(map[policy.PrincipalKind]struct{}, len(allowed))
	for _, kind := range allowed {
		allowedSet[kind] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Kind]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller is tenant-scoped (admin, manager or
// employee).
func RequireStaff() fiber.Handler {
	return RequireKind(policy.KindAdmin, policy.KindManager, policy.KindEmployee)
}
