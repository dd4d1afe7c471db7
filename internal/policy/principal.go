package policy

import (
	"fmt"

	"github.com/deskhub/helpdesk/internal/domain"
)

// PrincipalKind tags the closed set of principal shapes.
type PrincipalKind string

const (
	KindPlatformOperator PrincipalKind = "platform_operator"
	KindAdmin            PrincipalKind = "admin"
	KindManager          PrincipalKind = "manager"
	KindEmployee         PrincipalKind = "employee"
)

// Identity is the verified payload handed over by the authenticator. The
// engine trusts it as-is; EmploymentType and EmployeeID are looked up from
// the employee row at credential-issuance time.
type Identity struct {
	UserID         string
	ClientID       *string
	Role           domain.Role
	AdminType      *domain.StaffScope
	EmploymentType *domain.StaffScope
	EmployeeID     *string
}

// Principal is the normalized authenticated caller. Exactly one shape per
// Kind: the platform operator carries no tenant fields; admins carry
// (ClientID, Scope); managers and employees additionally carry EmployeeID.
type Principal struct {
	Kind       PrincipalKind
	UserID     string
	ClientID   string
	Scope      domain.StaffScope
	EmployeeID string
}

// PrincipalFromIdentity normalizes a verified identity into a Principal,
// rejecting payloads whose field combination matches no known shape.
func PrincipalFromIdentity(id Identity) (Principal, error) {
	if id.UserID == "" {
		return Principal{}, fmt.Errorf("identity missing user id")
	}

	switch id.Role {
	case domain.RoleSuperAdmin:
		return Principal{Kind: KindPlatformOperator, UserID: id.UserID}, nil

	case domain.RoleAdmin:
		if id.ClientID == nil || *id.ClientID == "" {
			return Principal{}, fmt.Errorf("admin identity missing client id")
		}
		if id.AdminType == nil || !domain.ValidScope(*id.AdminType) {
			return Principal{}, fmt.Errorf("admin identity missing admin type")
		}
		return Principal{
			Kind:     KindAdmin,
			UserID:   id.UserID,
			ClientID: *id.ClientID,
			Scope:    *id.AdminType,
		}, nil

	case domain.RoleManager, domain.RoleEmployee:
		if id.ClientID == nil || *id.ClientID == "" {
			return Principal{}, fmt.Errorf("%s identity missing client id", id.Role)
		}
		if id.EmploymentType == nil || !domain.ValidScope(*id.EmploymentType) {
			return Principal{}, fmt.Errorf("%s identity missing employment type", id.Role)
		}
		if id.EmployeeID == nil || *id.EmployeeID == "" {
			return Principal{}, fmt.Errorf("%s identity missing employee profile", id.Role)
		}
		kind := KindManager
		if id.Role == domain.RoleEmployee {
			kind = KindEmployee
		}
		return Principal{
			Kind:       kind,
			UserID:     id.UserID,
			ClientID:   *id.ClientID,
			Scope:      *id.EmploymentType,
			EmployeeID: *id.EmployeeID,
		}, nil
	}

	return Principal{}, fmt.Errorf("unknown role %q", id.Role)
}

// IsStaff reports whether the principal is scoped to a tenant.
func (p Principal) IsStaff() bool {
	return p.Kind == KindAdmin || p.Kind == KindManager || p.Kind == KindEmployee
}
