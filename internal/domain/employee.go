package domain

import "time"

// Employee is a staff profile attached 1:1 to a non-super_admin user.
// ManagerID is a single-level back-reference to another employee; it is
// looked up, never traversed.
type Employee struct {
	ID             string
	UserID         string
	FirstName      *string
	LastName       *string
	Position       *string
	ManagerID      *string
	EmploymentType StaffScope
	DateOfJoining  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName builds a human label from the name parts, falling back to
// the empty string when neither is set.
func (e *Employee) DisplayName() string {
	switch {
	case e.FirstName != nil && e.LastName != nil:
		return *e.FirstName + " " + *e.LastName
	case e.FirstName != nil:
		return *e.FirstName
	case e.LastName != nil:
		return *e.LastName
	}
	return ""
}
