package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	blocks, redisErrors, fallbacks atomic.Int64
}

func (m *countingMetrics) IncrementRateLimitBlock()      { m.blocks.Add(1) }
func (m *countingMetrics) IncrementRateLimitRedisError() { m.redisErrors.Add(1) }
func (m *countingMetrics) IncrementRateLimitFallback()   { m.fallbacks.Add(1) }

func newTestLimiter(t *testing.T, perMin int) (*RateLimiter, *countingMetrics) {
	t.Helper()
	metrics := &countingMetrics{}
	cfg := DefaultConfig()
	cfg.UploadsPerMin = perMin
	rl := NewRateLimiter(Disabled(), cfg, metrics)
	t.Cleanup(rl.Close)
	return rl, metrics
}

func TestNewRedisClientWithoutAddress(t *testing.T) {
	client, err := NewRedisClient(context.Background(), RedisConfig{})
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Nil(t, client.Client())
	assert.ErrorIs(t, client.HealthCheck(context.Background()), ErrRedisDisabled)
	assert.NoError(t, client.Close())
	assert.Equal(t, "memory", client.Stats()["backend"])
}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewRedisClient(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	require.NotNil(t, client)
	assert.False(t, client.IsEnabled())
	assert.ErrorIs(t, client.HealthCheck(context.Background()), ErrRedisDisabled)
}

func TestLimiterStatsReportBackend(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)

	stats := rl.GetStats()
	assert.Equal(t, 3, stats["uploads_per_min"])
	assert.Equal(t, map[string]interface{}{"backend": "memory"}, stats["redis"])
}

func TestFallbackAllowsUpToLimit(t *testing.T) {
	rl, metrics := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := rl.AllowUpload(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "upload %d should be allowed", i+1)
		assert.Equal(t, 3, result.Limit)
	}

	result, err := rl.AllowUpload(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.Equal(t, 0, result.Remaining)

	other, err := rl.AllowUpload(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "limits are per IP")

	assert.Equal(t, int64(5), metrics.fallbacks.Load())
	assert.Zero(t, metrics.redisErrors.Load())
}

func TestAllowRejectsInvalidLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)

	_, err := rl.Allow(context.Background(), "k", 0, time.Minute)
	assert.Error(t, err)
	_, err = rl.Allow(context.Background(), "k", 1, 0)
	assert.Error(t, err)
}

func TestPurgeFallback(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	_, err := rl.AllowUpload(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, rl.GetStats()["fallback_limiters"])

	rl.purgeFallback(time.Now().Add(-time.Hour))
	assert.Equal(t, 1, rl.GetStats()["fallback_limiters"])

	rl.purgeFallback(time.Now().Add(time.Second))
	assert.Equal(t, 0, rl.GetStats()["fallback_limiters"])
}

func TestUploadRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, metrics := newTestLimiter(t, 2)

	router := gin.New()
	router.POST("/upload", rl.UploadRateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	w := do()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, int64(1), metrics.blocks.Load())
}
