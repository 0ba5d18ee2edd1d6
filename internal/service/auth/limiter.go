package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter rate-limits OTP resends with a per-email cooldown key
type RedisLimiter struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisLimiter creates a limiter with the given cooldown window
func NewRedisLimiter(client *redis.Client, cooldown time.Duration) *RedisLimiter {
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &RedisLimiter{client: client, cooldown: cooldown}
}

// Allow reports whether the email may receive another OTP right now
func (l *RedisLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("otp:cooldown:%s", email)
	ok, err := l.client.SetNX(ctx, key, "1", l.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check OTP cooldown: %w", err)
	}
	return ok, nil
}
