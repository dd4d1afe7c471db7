package domain

import "time"

// Client is a tenant record. All users, employees and tickets created
// under it carry its id.
type Client struct {
	ID           string
	Name         string
	ContactEmail string
	ContactPhone *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
