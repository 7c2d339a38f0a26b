package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitStore is a fixed-window counter shared by every replica. It
// satisfies echo's middleware.RateLimiterStore.
// Key format: ratelimit:<identifier>:<window start unix ms>
type RateLimitStore struct {
	client  redis.Cmdable
	window  time.Duration
	max     int64
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

func NewRateLimitStore(client redis.Cmdable, window time.Duration, max int, log zerolog.Logger) *RateLimitStore {
	return &RateLimitStore{
		client:  client,
		window:  window,
		max:     int64(max),
		timeout: 500 * time.Millisecond,
		now:     time.Now,
		log:     log,
	}
}

// Allow counts one request for identifier. When Redis is unreachable the
// request is let through and the failure logged.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	count, err := s.hit(ctx, identifier)
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}
	return count <= s.max, nil
}

func (s *RateLimitStore) hit(ctx context.Context, identifier string) (int64, error) {
	start := s.now().Truncate(s.window)
	key := fmt.Sprintf("ratelimit:%s:%d", identifier, start.UnixMilli())

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.PExpire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rate limit hit: %w", err)
	}
	return incr.Val(), nil
}
