package presence

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Store abstracts the heartbeat backend.
type Store interface {
	SetLastSeen(ctx context.Context, userID string, at time.Time) error
	LastSeen(ctx context.Context, userID string) (time.Time, bool, error)
	LastSeenBulk(ctx context.Context, userIDs []string) (map[string]time.Time, error)
}

// Tracker answers "online if pinged within the window". Writes are
// best-effort telemetry: a failed heartbeat is logged and swallowed so the
// caller's request still succeeds.
type Tracker struct {
	store  Store
	window time.Duration
	logger *zap.Logger
}

// DefaultWindow is the presence window used when none is configured.
const DefaultWindow = 10 * time.Minute

// NewTracker builds a tracker over the given store.
func NewTracker(store Store, window time.Duration, logger *zap.Logger) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{store: store, window: window, logger: logger}
}

// Window exposes the configured presence window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Ping upserts the caller's heartbeat. Never returns an error.
func (t *Tracker) Ping(ctx context.Context, userID string) {
	if err := t.store.SetLastSeen(ctx, userID, time.Now()); err != nil {
		t.logger.Warn("presence ping failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// IsOnline reports whether the user pinged within the window ending at now.
// Store failures and missing rows both read as offline.
func (t *Tracker) IsOnline(ctx context.Context, userID string, now time.Time) bool {
	lastSeen, ok, err := t.store.LastSeen(ctx, userID)
	if err != nil {
		t.logger.Warn("presence lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	return !lastSeen.Before(now.Add(-t.window))
}

// OnlineSet returns which of the given users are currently online.
func (t *Tracker) OnlineSet(ctx context.Context, userIDs []string, now time.Time) map[string]bool {
	online := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return online
	}
	seen, err := t.store.LastSeenBulk(ctx, userIDs)
	if err != nil {
		t.logger.Warn("presence bulk lookup failed", zap.Error(err))
		return online
	}
	cutoff := now.Add(-t.window)
	for id, lastSeen := range seen {
		if !lastSeen.Before(cutoff) {
			online[id] = true
		}
	}
	return online
}
