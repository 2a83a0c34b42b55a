package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("model server returned 503")

func failing(context.Context) error { return errUpstream }
func succeeding(context.Context) error { return nil }

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("image-model", CircuitBreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(ctx, failing), errUpstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Call(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Contains(t, err.Error(), "image-model")
	assert.False(t, called)
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("tabular-model", CircuitBreakerConfig{FailureThreshold: 2})
	ctx := context.Background()

	_ = cb.Call(ctx, failing)
	require.NoError(t, cb.Call(ctx, succeeding))
	_ = cb.Call(ctx, failing)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 1, cb.Failures())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("image-model", CircuitBreakerConfig{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Second,
		SuccessThreshold: 2,
	})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }
	ctx := context.Background()

	_ = cb.Call(ctx, failing)
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(11 * time.Second)
	require.NoError(t, cb.Call(ctx, succeeding))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Call(ctx, succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("image-model", CircuitBreakerConfig{FailureThreshold: 3, RecoveryTimeout: time.Second})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Call(ctx, failing)
	}
	now = now.Add(2 * time.Second)

	assert.ErrorIs(t, cb.Call(ctx, failing), errUpstream)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreakerIgnoresCallerCancellation(t *testing.T) {
	cb := NewCircuitBreaker("image-model", CircuitBreakerConfig{FailureThreshold: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Call(ctx, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Failures())
}

func TestCircuitBreakerRegistry(t *testing.T) {
	r := NewCircuitBreakerRegistry()
	a := r.GetOrCreate("tabular-model", CircuitBreakerConfig{})
	b := r.GetOrCreate("tabular-model", CircuitBreakerConfig{FailureThreshold: 99})
	assert.Same(t, a, b)

	_ = a.Call(context.Background(), failing)
	stats := r.GetStats()
	require.Contains(t, stats, "tabular-model")
	assert.Equal(t, 1, stats["tabular-model"].Failures)
	assert.NotNil(t, stats["tabular-model"].LastFailure)

	text, err := StateHalfOpen.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "half_open", string(text))
}

func TestDegradationLevels(t *testing.T) {
	dm := NewDegradationManager(DegradationConfig{
		WindowSize:          10,
		DegradedThreshold:   0.1,
		CriticalThreshold:   0.3,
		EmergencyThreshold:  0.5,
		MaxDegradedDuration: time.Hour,
	})
	dm.RegisterService("model-server", nil)

	for i := 0; i < 9; i++ {
		dm.Record("model-server", nil)
	}
	dm.Record("model-server", errUpstream)

	health, ok := dm.GetAllServiceHealth()["model-server"]
	require.True(t, ok)
	assert.Equal(t, LevelDegraded, health.Level)
	assert.InDelta(t, 0.1, health.ErrorRate, 1e-9)
	assert.Equal(t, errUpstream.Error(), health.LastError)
	assert.NotNil(t, health.DegradedSince)

	for i := 0; i < 4; i++ {
		dm.Record("model-server", errUpstream)
	}
	assert.False(t, dm.IsServiceAvailable("model-server"))

	// a window of successes brings the service back
	for i := 0; i < 10; i++ {
		dm.Record("model-server", nil)
	}
	health, _ = dm.GetAllServiceHealth()["model-server"]
	assert.Equal(t, LevelNormal, health.Level)
	assert.Nil(t, health.DegradedSince)
	assert.True(t, dm.IsServiceAvailable("model-server"))
	assert.Equal(t, int64(5), health.ErrorCount)
}

func TestDegradationUnknownService(t *testing.T) {
	dm := NewDegradationManager(DefaultDegradationConfig())
	dm.Record("nope", errUpstream)

	_, ok := dm.GetAllServiceHealth()["nope"]
	assert.False(t, ok)
	assert.False(t, dm.IsServiceAvailable("nope"))
}

func TestCheckNowRecordsOutcomes(t *testing.T) {
	dm := NewDegradationManager(DegradationConfig{
		HealthCheckTimeout: time.Second,
		WindowSize:         4,
		DegradedThreshold:  0.1,
		CriticalThreshold:  0.3,
		EmergencyThreshold: 0.5,
	})
	dm.RegisterService("model-server", failing)
	dm.RegisterService("assistant", succeeding)

	dm.CheckNow(context.Background())

	all := dm.GetAllServiceHealth()
	require.Len(t, all, 2)
	assert.Equal(t, LevelEmergency, all["model-server"].Level)
	assert.Contains(t, all["model-server"].LastError, "health check failed for service model-server")
	assert.Equal(t, LevelNormal, all["assistant"].Level)
	assert.Equal(t, int64(1), all["assistant"].TotalRequests)
}
