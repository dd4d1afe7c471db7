package domain

import "time"

// Presence is a best-effort heartbeat record. A user with no row, or a
// stale LastSeen, counts as offline.
type Presence struct {
	UserID   string
	LastSeen time.Time
}

// OnlineWithin reports whether the heartbeat falls inside the window
// ending at now.
func (p Presence) OnlineWithin(window time.Duration, now time.Time) bool {
	return !p.LastSeen.Before(now.Add(-window))
}
