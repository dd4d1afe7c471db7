package presence

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastSeenKey = "presence:last_seen"

// RedisStore keeps heartbeats in a single Redis hash keyed by user id,
// with unix-second values.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SetLastSeen(ctx context.Context, userID string, at time.Time) error {
	return s.client.HSet(ctx, lastSeenKey, userID, at.Unix()).Err()
}

func (s *RedisStore) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	val, err := s.client.HGet(ctx, lastSeenKey, userID).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(unix, 0), true, nil
}

func (s *RedisStore) LastSeenBulk(ctx context.Context, userIDs []string) (map[string]time.Time, error) {
	if len(userIDs) == 0 {
		return map[string]time.Time{}, nil
	}
	vals, err := s.client.HMGet(ctx, lastSeenKey, userIDs...).Result()
	if err != nil {
		return nil, err
	}
	result := make(map[string]time.Time, len(userIDs))
	for i, raw := range vals {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		unix, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		result[userIDs[i]] = time.Unix(unix, 0)
	}
	return result, nil
}
