// Package runlock serializes scrape runs across processes with a Redis
// lock, so a cron-triggered run and a manual one never interleave their
// delete-then-insert windows.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockKey = "fixtures:scrape:lock"

// Locker acquires an exclusive run lock. A nil client (Redis not configured
// or unreachable) degrades to always granting the lock with a warning; the
// lock is belt-and-braces, not a correctness requirement for a single node.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewLocker connects to Redis and returns a Locker. Connection failure is
// reported but still yields a usable (degraded) Locker.
func NewLocker(ctx context.Context, cfg Config) *Locker {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unavailable, run lock disabled")
		_ = client.Close()
		return &Locker{ttl: ttl}
	}

	return &Locker{client: client, ttl: ttl}
}

// Acquire tries to take the run lock. ok reports whether the caller holds
// it; release must be called when ok, and is safe to call regardless.
func (l *Locker) Acquire(ctx context.Context) (release func(), ok bool, err error) {
	if l.client == nil {
		return func() {}, true, nil
	}

	acquired, err := l.client.SetNX(ctx, lockKey, time.Now().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		return func() {}, false, nil
	}

	return func() {
		if err := l.client.Del(context.Background(), lockKey).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to release run lock, it will expire on its own")
		}
	}, true, nil
}

// Close releases the Redis connection
func (l *Locker) Close() {
	if l.client != nil {
		_ = l.client.Close()
	}
}
