package domain

import "time"

// Comment is a ticket thread entry. Only the author may edit it; edits
// never move it to another ticket or author.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
