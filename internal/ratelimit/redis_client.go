package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// UploadKeyPrefix namespaces upload limiter counters in Redis.
const UploadKeyPrefix = "neuroweave:ratelimit:upload:"

// ErrRedisDisabled is reported by HealthCheck when upload limits are kept in
// process memory.
var ErrRedisDisabled = errors.New("redis disabled, upload limits are per instance")

// RedisConfig locates the Redis instance shared by all server replicas.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisClient holds the connection backing shared upload limits. A client
// without a connection means every check runs against the in-memory limiter.
type RedisClient struct {
	client *redis.Client
	addr   string
}

// NewRedisClient connects to Redis. An empty address disables Redis without
// error. A failed ping returns a disabled client together with the error, so
// callers can log it and keep serving.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*RedisClient, error) {
	if cfg.Addr == "" {
		slog.Warn("REDIS_ADDR not set, upload limits are kept in memory")
		return Disabled(), nil
	}

	// limit checks sit in front of every upload, so Redis trouble must fail
	// over to memory quickly
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     10,
		PoolTimeout:  time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return Disabled(), fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	slog.Info("Upload limits shared through Redis", "addr", cfg.Addr, "db", cfg.DB)
	return &RedisClient{client: client, addr: cfg.Addr}, nil
}

// Disabled returns a client that always uses the in-memory fallback
func Disabled() *RedisClient {
	return &RedisClient{}
}

// Client returns the underlying connection, nil when disabled.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// IsEnabled reports whether upload limits are shared through Redis.
func (r *RedisClient) IsEnabled() bool {
	return r.client != nil
}

// HealthCheck pings Redis. It satisfies resilience.HealthCheckFunc.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if !r.IsEnabled() {
		return ErrRedisDisabled
	}
	return r.client.Ping(ctx).Err()
}

// Stats describes where upload counters live and, for Redis, the pool.
func (r *RedisClient) Stats() map[string]interface{} {
	if !r.IsEnabled() {
		return map[string]interface{}{"backend": "memory"}
	}

	pool := r.client.PoolStats()
	return map[string]interface{}{
		"backend":       "redis",
		"addr":          r.addr,
		"key_prefix":    UploadKeyPrefix,
		"pool_hits":     pool.Hits,
		"pool_misses":   pool.Misses,
		"pool_timeouts": pool.Timeouts,
		"open_conns":    pool.TotalConns,
		"idle_conns":    pool.IdleConns,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if !r.IsEnabled() {
		return nil
	}
	return r.client.Close()
}
