package service

import (
	"github.com/deskhub/helpdesk/internal/policy"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// policyError converts a denial into an HTTP-facing error. Scope denials
// become not-found so callers cannot probe for resources outside their
// tenant or pool; role denials stay forbidden.
func policyError(d policy.Decision, resource string) error {
	if d.OutOfScope() {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewForbidden(d.Reason)
}
