package lifecycle

import "github.com/deskhub/helpdesk/internal/domain"

// SLABuckets counts live tickets (open + in_progress) per priority.
type SLABuckets struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	Urgent int `json:"urgent"`
}

// Add increments the bucket for the given priority.
func (b *SLABuckets) Add(p domain.TicketPriority, n int) {
	switch p {
	case domain.TicketPriorityLow:
		b.Low += n
	case domain.TicketPriorityMedium:
		b.Medium += n
	case domain.TicketPriorityHigh:
		b.High += n
	case domain.TicketPriorityUrgent:
		b.Urgent += n
	}
}

// StatusCounts aggregates tickets per lifecycle state for one tenant.
type StatusCounts struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Archived   int `json:"archived"`
	Discarded  int `json:"discarded"`
	Expired    int `json:"expired"`
}

// ClientSummary is the read-only dashboard view for a tenant. Nothing in
// it is persisted.
type ClientSummary struct {
	Statuses         StatusCounts `json:"statuses"`
	SLA              SLABuckets   `json:"sla"`
	TotalEmployees   int          `json:"total_employees"`
	OnlineEmployees  int          `json:"online_employees"`
	OfflineEmployees int          `json:"offline_employees"`
}
