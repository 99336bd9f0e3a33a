package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ticket-reservation/config"
)

var ErrRateLimited = errors.New("security: too many hold requests")

// RateLimiter throttles hold creation per owner with a Redis counter window.
// It fails open: if Redis is unavailable the request goes through, since the
// ledger still enforces the real inventory limit.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  cfg.HoldRateLimit,
		window: cfg.HoldRateWindow,
	}
}

func (r *RateLimiter) AllowHold(ctx context.Context, owner string) error {
	if r.redis == nil {
		return nil
	}

	key := fmt.Sprintf("ratelimit:hold:%s", owner)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return nil
	}
	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}
	if count > int64(r.limit) {
		return ErrRateLimited
	}

	return nil
}
