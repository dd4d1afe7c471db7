package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusArchived   TicketStatus = "archived"
	TicketStatusDiscarded  TicketStatus = "discarded"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// DueOption selects how a ticket's due date is derived.
type DueOption string

const (
	DueOptionNone     DueOption = "none"
	DueOptionToday    DueOption = "today"
	DueOptionTomorrow DueOption = "tomorrow"
	DueOptionThisWeek DueOption = "this_week"
	DueOptionNextWeek DueOption = "next_week"
	DueOptionCustom   DueOption = "custom"
)

// Ticket is the aggregate for support requests. ClientID is immutable
// after creation; AssignedTo references an employee of the same tenant.
type Ticket struct {
	ID          string
	ClientID    string
	RaisedBy    string
	AssignedTo  *string
	Subject     string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	DueOption   DueOption
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidDueOption reports whether the value is a known due option.
func ValidDueOption(o DueOption) bool {
	switch o {
	case DueOptionNone, DueOptionToday, DueOptionTomorrow, DueOptionThisWeek, DueOptionNextWeek, DueOptionCustom:
		return true
	}
	return false
}
