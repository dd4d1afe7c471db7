package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeStore struct {
	seen    map[string]time.Time
	failAll bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[string]time.Time)}
}

func (s *fakeStore) SetLastSeen(_ context.Context, userID string, at time.Time) error {
	if s.failAll {
		return errors.New("store down")
	}
	s.seen[userID] = at
	return nil
}

func (s *fakeStore) LastSeen(_ context.Context, userID string) (time.Time, bool, error) {
	if s.failAll {
		return time.Time{}, false, errors.New("store down")
	}
	at, ok := s.seen[userID]
	return at, ok, nil
}

func (s *fakeStore) LastSeenBulk(_ context.Context, userIDs []string) (map[string]time.Time, error) {
	if s.failAll {
		return nil, errors.New("store down")
	}
	result := make(map[string]time.Time)
	for _, id := range userIDs {
		if at, ok := s.seen[id]; ok {
			result[id] = at
		}
	}
	return result, nil
}

func TestIsOnlineWindowBoundary(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store, 10*time.Minute, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store.seen["fresh"] = now.Add(-5 * time.Minute)
	store.seen["edge"] = now.Add(-10 * time.Minute)
	store.seen["stale"] = now.Add(-10*time.Minute - time.Second)

	assert.True(t, tracker.IsOnline(ctx, "fresh", now))
	assert.True(t, tracker.IsOnline(ctx, "edge", now), "exactly at the window edge counts as online")
	assert.False(t, tracker.IsOnline(ctx, "stale", now))
	assert.False(t, tracker.IsOnline(ctx, "never-seen", now))
}

func TestStoreFailuresReadAsOffline(t *testing.T) {
	store := newFakeStore()
	store.failAll = true
	tracker := NewTracker(store, 10*time.Minute, zap.NewNop())
	now := time.Now()
	ctx := context.Background()

	assert.False(t, tracker.IsOnline(ctx, "anyone", now))
	assert.Empty(t, tracker.OnlineSet(ctx, []string{"a", "b"}, now))

	// Ping must not propagate the failure.
	tracker.Ping(ctx, "anyone")
}

func TestOnlineSet(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store, 10*time.Minute, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	store.seen["a"] = now.Add(-time.Minute)
	store.seen["b"] = now.Add(-time.Hour)

	online := tracker.OnlineSet(ctx, []string{"a", "b", "c"}, now)
	assert.True(t, online["a"])
	assert.False(t, online["b"])
	assert.False(t, online["c"])
}

func TestDefaultWindowApplied(t *testing.T) {
	tracker := NewTracker(newFakeStore(), 0, zap.NewNop())
	assert.Equal(t, DefaultWindow, tracker.Window())
}
