package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	UploadsPerMin   int           // per-IP screening uploads per minute
	CleanupInterval time.Duration // how often idle fallback limiters are dropped
	MaxFallbackKeys int
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		UploadsPerMin:   10,
		CleanupInterval: time.Hour,
		MaxFallbackKeys: 1000,
	}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Metrics receives limiter events.
type Metrics interface {
	IncrementRateLimitBlock()
	IncrementRateLimitRedisError()
	IncrementRateLimitFallback()
}

type fallbackEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides distributed rate limiting with Redis and in-memory fallback
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      Metrics

	fallbackLimiters map[string]*fallbackEntry
	fallbackMutex    sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter with Redis and in-memory fallback
func NewRateLimiter(redisClient *RedisClient, config Config, metrics Metrics) *RateLimiter {
	if redisClient == nil {
		redisClient = Disabled()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	if config.MaxFallbackKeys <= 0 {
		config.MaxFallbackKeys = DefaultConfig().MaxFallbackKeys
	}

	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*fallbackEntry),
		stop:             make(chan struct{}),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.Client())
		slog.Info("Redis rate limiter initialized", "uploads_per_min", config.UploadsPerMin)
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	go rl.cleanupFallbackLimiters()

	return rl
}

// AllowUpload checks whether ip may submit another screening upload this minute
func (rl *RateLimiter) AllowUpload(ctx context.Context, ip string) (*Result, error) {
	return rl.Allow(ctx, UploadKeyPrefix+ip, rl.config.UploadsPerMin, time.Minute)
}

// Allow performs a check for key using Redis when available, else in memory
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	if limit <= 0 || period <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d per %s", limit, period)
	}

	if rl.redisClient.IsEnabled() && rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key, limit, period)
		if err == nil {
			return result, nil
		}
		slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitRedisError()
		}
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key, limit, period), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit,
		Burst:  limit,
		Period: period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

// allowFallback is a token bucket holding limit tokens refilled over period
func (rl *RateLimiter) allowFallback(key string, limit int, period time.Duration) *Result {
	now := time.Now()

	rl.fallbackMutex.Lock()
	entry, exists := rl.fallbackLimiters[key]
	if !exists {
		entry = &fallbackEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(limit)/period.Seconds()), limit),
		}
		rl.fallbackLimiters[key] = entry
	}
	entry.lastSeen = now
	rl.fallbackMutex.Unlock()

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(period),
	}
	if !allowed {
		r := entry.limiter.ReserveN(now, 1)
		result.RetryAfter = r.DelayFrom(now)
		r.CancelAt(now)
		if result.RetryAfter <= 0 {
			result.RetryAfter = time.Second
		}
	}
	return result
}

func (rl *RateLimiter) cleanupFallbackLimiters() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.purgeFallback(time.Now().Add(-rl.config.CleanupInterval))
		}
	}
}

// purgeFallback drops limiters idle since before cutoff. When the table is
// still over MaxFallbackKeys it is cleared.
func (rl *RateLimiter) purgeFallback(cutoff time.Time) {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	for key, entry := range rl.fallbackLimiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.fallbackLimiters, key)
		}
	}
	if len(rl.fallbackLimiters) > rl.config.MaxFallbackKeys {
		slog.Info("Cleaning up fallback rate limiters", "count", len(rl.fallbackLimiters))
		rl.fallbackLimiters = make(map[string]*fallbackEntry)
	}
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMutex.Lock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMutex.Unlock()

	return map[string]interface{}{
		"uploads_per_min":   rl.config.UploadsPerMin,
		"fallback_limiters": fallbackCount,
		"redis":             rl.redisClient.Stats(),
	}
}
