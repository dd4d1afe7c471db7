package domain

import "time"

// Role enumerates login identity roles across the platform.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// StaffScope identifies which staff pool an identity belongs to under a
// tenant: the platform operator's internal pool or the client's own pool.
type StaffScope string

const (
	ScopeInternal StaffScope = "internal"
	ScopeClient   StaffScope = "client"
)

// User is an authentication identity. ClientID is nil only for the
// platform operator; AdminType is set only for admins.
type User struct {
	ID           string
	ClientID     *string
	Username     *string
	Email        string
	PasswordHash string
	Role         Role
	AdminType    *StaffScope
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// ValidScope reports whether the value is a known staff pool.
func ValidScope(s StaffScope) bool {
	return s == ScopeInternal || s == ScopeClient
}
