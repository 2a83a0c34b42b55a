package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxResponseSamples = 1000

// ScreeningCounts tracks one screening mode.
type ScreeningCounts struct {
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Metrics holds application metrics
type Metrics struct {
	RequestCount int64
	ErrorCount   int64
	CacheHits    int64
	CacheMisses  int64
	StartTime    time.Time

	// last maxResponseSamples response times for percentiles
	responseTimes []time.Duration
	responseMutex sync.RWMutex

	requestCountByStatus map[int]int64
	statusMutex          sync.RWMutex

	screenings      map[string]*ScreeningCounts
	screeningMutex  sync.RWMutex
	Undeterminable  int64
	modelCalls      map[string]int64
	modelCallErrors map[string]int64
	modelMutex      sync.RWMutex

	RateLimitBlocks        int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		responseTimes:        make([]time.Duration, 0, maxResponseSamples),
		requestCountByStatus: make(map[int]int64),
		screenings:           make(map[string]*ScreeningCounts),
		modelCalls:           make(map[string]int64),
		modelCallErrors:      make(map[string]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementUndeterminable counts clips that produced no classified frames
func (m *Metrics) IncrementUndeterminable() {
	atomic.AddInt64(&m.Undeterminable, 1)
}

// IncrementRateLimitBlock counts rejected upload requests
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementRateLimitRedisError counts Redis failures in the rate limiter
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback counts decisions made by the in-memory limiter
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// RecordResponseTime records a response time for percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.responseMutex.Lock()
	defer m.responseMutex.Unlock()

	if len(m.responseTimes) == maxResponseSamples {
		copy(m.responseTimes, m.responseTimes[1:])
		m.responseTimes = m.responseTimes[:maxResponseSamples-1]
	}
	m.responseTimes = append(m.responseTimes, duration)
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.requestCountByStatus[statusCode]++
}

// RecordScreening records the outcome of one screening by mode
func (m *Metrics) RecordScreening(mode string, err error) {
	m.screeningMutex.Lock()
	defer m.screeningMutex.Unlock()

	counts, ok := m.screenings[mode]
	if !ok {
		counts = &ScreeningCounts{}
		m.screenings[mode] = counts
	}
	if err != nil {
		counts.Failed++
		return
	}
	counts.Completed++
}

// RecordModelCall records a call to an upstream model
func (m *Metrics) RecordModelCall(model string, success bool) {
	m.modelMutex.Lock()
	defer m.modelMutex.Unlock()

	m.modelCalls[model]++
	if !success {
		m.modelCallErrors[model]++
	}
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.responseMutex.RLock()
	times := make([]time.Duration, len(m.responseTimes))
	copy(times, m.responseTimes)
	m.responseMutex.RUnlock()

	if len(times) == 0 {
		return 0
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// GetScreeningStats returns screening counts by mode
func (m *Metrics) GetScreeningStats() map[string]ScreeningCounts {
	m.screeningMutex.RLock()
	defer m.screeningMutex.RUnlock()

	stats := make(map[string]ScreeningCounts, len(m.screenings))
	for mode, counts := range m.screenings {
		stats[mode] = *counts
	}
	return stats
}

// GetModelStats returns call and error counts per upstream model
func (m *Metrics) GetModelStats() map[string]interface{} {
	m.modelMutex.RLock()
	defer m.modelMutex.RUnlock()

	stats := make(map[string]interface{}, len(m.modelCalls))
	for model, calls := range m.modelCalls {
		errors := m.modelCallErrors[model]
		errorRate := float64(0)
		if calls > 0 {
			errorRate = float64(errors) / float64(calls) * 100
		}
		stats[model] = map[string]interface{}{
			"calls":      calls,
			"errors":     errors,
			"error_rate": errorRate,
		}
	}
	return stats
}

func (m *Metrics) statusDistribution() map[int]int64 {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.requestCountByStatus))
	for code, count := range m.requestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	if total := cacheHits + cacheMisses; total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
		"start_time":               m.StartTime.Format(time.RFC3339),
		"total_requests":           requests,
		"error_count":              errors,
		"error_rate_percent":       errorRate,
		"cache_hits":               cacheHits,
		"cache_misses":             cacheMisses,
		"cache_hit_rate_percent":   cacheHitRate,
		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1e6,
		"status_code_distribution": m.statusDistribution(),
		"screenings":               m.GetScreeningStats(),
		"undeterminable_videos":    atomic.LoadInt64(&m.Undeterminable),
		"model_calls":              m.GetModelStats(),
		"rate_limit": map[string]int64{
			"blocks":         atomic.LoadInt64(&m.RateLimitBlocks),
			"redis_errors":   atomic.LoadInt64(&m.RateLimitRedisErrors),
			"fallback_count": atomic.LoadInt64(&m.RateLimitFallbackCount),
		},
	}
}
