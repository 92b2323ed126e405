package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sequence issues identifiers from an atomically incremented Redis counter
// keyed by prefix and day, removing the duplicate-id window the counting
// scheme has under concurrent generation. Keys expire two days after first
// use; the counter resets naturally with the date part.
type Sequence struct {
	R      *redis.Client
	Prefix string
	TTL    time.Duration
	Now    func() time.Time
}

const defaultKeyPrefix = "kasir:invseq"

// Next reserves the next counter value for the prefix today and returns the
// formatted identifier.
func (s *Sequence) Next(ctx context.Context, prefix string) (string, error) {
	if s == nil || s.R == nil {
		return "", errors.New("invoice: sequence not configured")
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	keyPrefix := s.Prefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	key := fmt.Sprintf("%s:%s:%s", keyPrefix, prefix, DatePart(now))
	n, err := s.R.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("invoice: reserve counter: %w", err)
	}
	if n == 1 {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = 48 * time.Hour
		}
		_ = s.R.Expire(ctx, key, ttl).Err()
	}
	return Format(prefix, int(n), now), nil
}
