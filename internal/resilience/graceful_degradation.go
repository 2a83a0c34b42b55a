package resilience

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/neuroweave/internal/errors"
)

// DegradationLevel represents the current degradation state
type DegradationLevel int

const (
	LevelNormal DegradationLevel = iota
	LevelDegraded
	LevelCritical
	LevelEmergency
)

func (l DegradationLevel) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelDegraded:
		return "degraded"
	case LevelCritical:
		return "critical"
	case LevelEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// MarshalText renders the level by name in JSON health output.
func (l DegradationLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// DegradationConfig holds configuration for graceful degradation
type DegradationConfig struct {
	HealthCheckInterval time.Duration `json:"health_check_interval"`
	HealthCheckTimeout  time.Duration `json:"health_check_timeout"`
	WindowSize          int           `json:"window_size"`           // recent outcomes the error rate is computed over
	DegradedThreshold   float64       `json:"degraded_threshold"`    // error rate threshold (0.0-1.0)
	CriticalThreshold   float64       `json:"critical_threshold"`    // error rate threshold (0.0-1.0)
	EmergencyThreshold  float64       `json:"emergency_threshold"`   // error rate threshold (0.0-1.0)
	MaxDegradedDuration time.Duration `json:"max_degraded_duration"` // max time degraded before emergency
}

// DefaultDegradationConfig returns sensible defaults
func DefaultDegradationConfig() DegradationConfig {
	return DegradationConfig{
		HealthCheckInterval: 30 * time.Second,
		HealthCheckTimeout:  5 * time.Second,
		WindowSize:          50,
		DegradedThreshold:   0.1,
		CriticalThreshold:   0.25,
		EmergencyThreshold:  0.5,
		MaxDegradedDuration: 10 * time.Minute,
	}
}

// ServiceHealth represents the health status of an upstream service
type ServiceHealth struct {
	ServiceName   string           `json:"service_name"`
	Level         DegradationLevel `json:"level"`
	ErrorRate     float64          `json:"error_rate"`
	TotalRequests int64            `json:"total_requests"`
	ErrorCount    int64            `json:"error_count"`
	LastError     string           `json:"last_error,omitempty"`
	LastErrorTime *time.Time       `json:"last_error_time,omitempty"`
	DegradedSince *time.Time       `json:"degraded_since,omitempty"`
	StatusMessage string           `json:"status_message"`
}

type serviceState struct {
	health ServiceHealth
	window []bool // ring buffer of recent outcomes, true = failure
	next   int
	filled int
}

// DegradationManager tracks the health of the upstream services the
// screening flows depend on.
type DegradationManager struct {
	config       DegradationConfig
	mutex        sync.RWMutex
	services     map[string]*serviceState
	healthChecks map[string]HealthCheckFunc
}

// HealthCheckFunc represents a function that checks service health
type HealthCheckFunc func(ctx context.Context) error

// NewDegradationManager creates a new degradation manager
func NewDegradationManager(config DegradationConfig) *DegradationManager {
	if config.WindowSize <= 0 {
		config.WindowSize = DefaultDegradationConfig().WindowSize
	}
	return &DegradationManager{
		config:       config,
		services:     make(map[string]*serviceState),
		healthChecks: make(map[string]HealthCheckFunc),
	}
}

// RegisterService registers a service with an optional health check function
func (dm *DegradationManager) RegisterService(serviceName string, healthCheck HealthCheckFunc) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.services[serviceName] = &serviceState{
		health: ServiceHealth{
			ServiceName:   serviceName,
			Level:         LevelNormal,
			StatusMessage: "Service is healthy",
		},
		window: make([]bool, dm.config.WindowSize),
	}
	if healthCheck != nil {
		dm.healthChecks[serviceName] = healthCheck
	}

	slog.Info("Registered service for degradation management", "service", serviceName)
}

// Record records the outcome of one call to a service. Unregistered
// services are ignored.
func (dm *DegradationManager) Record(serviceName string, err error) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	svc, exists := dm.services[serviceName]
	if !exists {
		return
	}

	failed := err != nil
	svc.window[svc.next] = failed
	svc.next = (svc.next + 1) % len(svc.window)
	if svc.filled < len(svc.window) {
		svc.filled++
	}

	svc.health.TotalRequests++
	if failed {
		now := time.Now()
		svc.health.ErrorCount++
		svc.health.LastError = err.Error()
		svc.health.LastErrorTime = &now
	}

	recent := 0
	for i := 0; i < svc.filled; i++ {
		if svc.window[i] {
			recent++
		}
	}
	svc.health.ErrorRate = float64(recent) / float64(svc.filled)

	dm.updateDegradationLevel(&svc.health)
}

func (dm *DegradationManager) updateDegradationLevel(service *ServiceHealth) {
	oldLevel := service.Level
	now := time.Now()

	var newLevel DegradationLevel
	var statusMessage string

	switch {
	case service.ErrorRate >= dm.config.EmergencyThreshold:
		newLevel = LevelEmergency
		statusMessage = "Service is in emergency state - high error rate"
	case service.ErrorRate >= dm.config.CriticalThreshold:
		newLevel = LevelCritical
		statusMessage = "Service is in critical state - elevated error rate"
	case service.ErrorRate >= dm.config.DegradedThreshold:
		newLevel = LevelDegraded
		statusMessage = "Service is degraded - moderate error rate"
	default:
		newLevel = LevelNormal
		statusMessage = "Service is healthy"
	}

	if newLevel == LevelDegraded && service.DegradedSince != nil &&
		now.Sub(*service.DegradedSince) > dm.config.MaxDegradedDuration {
		newLevel = LevelEmergency
		statusMessage = "Service has been degraded too long - entering emergency state"
	}

	if newLevel == LevelDegraded && service.DegradedSince == nil {
		service.DegradedSince = &now
	} else if newLevel != LevelDegraded && newLevel != LevelEmergency {
		service.DegradedSince = nil
	}

	service.Level = newLevel
	service.StatusMessage = statusMessage

	if oldLevel != newLevel {
		slog.Warn("Service degradation level changed",
			"service", service.ServiceName,
			"old_level", oldLevel,
			"new_level", newLevel,
			"error_rate", service.ErrorRate,
			"total_requests", service.TotalRequests,
			"error_count", service.ErrorCount)
	}
}

// GetAllServiceHealth returns health status for all services
func (dm *DegradationManager) GetAllServiceHealth() map[string]ServiceHealth {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	result := make(map[string]ServiceHealth, len(dm.services))
	for name, svc := range dm.services {
		result[name] = svc.health
	}
	return result
}

// IsServiceAvailable reports whether a registered service is outside the
// emergency state.
func (dm *DegradationManager) IsServiceAvailable(serviceName string) bool {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	svc, exists := dm.services[serviceName]
	if !exists {
		return false
	}
	return svc.health.Level != LevelEmergency
}

// StartHealthChecks runs the registered health checks every interval until
// ctx is done.
func (dm *DegradationManager) StartHealthChecks(ctx context.Context) {
	ticker := time.NewTicker(dm.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dm.CheckNow(ctx)
		}
	}
}

// CheckNow runs every registered health check once and waits for them.
func (dm *DegradationManager) CheckNow(ctx context.Context) {
	dm.mutex.RLock()
	checks := make(map[string]HealthCheckFunc, len(dm.healthChecks))
	for name, check := range dm.healthChecks {
		checks[name] = check
	}
	dm.mutex.RUnlock()

	var wg sync.WaitGroup
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, dm.config.HealthCheckTimeout)
			defer cancel()

			if err := check(checkCtx); err != nil {
				dm.Record(name, errors.WrapError(err, "health check failed for service %s", name))
				return
			}
			dm.Record(name, nil)
		}()
	}
	wg.Wait()
}

// GracefulShutdown logs the final status of every service
func (dm *DegradationManager) GracefulShutdown() {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	slog.Info("Degradation manager shutting down", "services", len(dm.services))

	for name, svc := range dm.services {
		slog.Info("Final service status",
			"service", name,
			"level", svc.health.Level,
			"error_rate", svc.health.ErrorRate,
			"total_requests", svc.health.TotalRequests,
			"error_count", svc.health.ErrorCount)
	}
}
