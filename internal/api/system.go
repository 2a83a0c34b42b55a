package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/neuroweave/internal/monitoring"
	"github.com/ZanzyTHEbar/neuroweave/internal/resilience"
	"github.com/ZanzyTHEbar/neuroweave/internal/types"
)

// Version is reported by /health.
const Version = "1.0.0"

// StatsFunc reports the state of one subsystem for /metrics
type StatsFunc func() map[string]interface{}

// SystemHandler serves the banner, health and metrics routes
type SystemHandler struct {
	health   *resilience.DegradationManager
	breakers *resilience.CircuitBreakerRegistry
	metrics  *monitoring.Metrics
	stats    map[string]StatsFunc
}

// NewSystemHandler creates a system handler. stats adds named sections to
// the /metrics answer.
func NewSystemHandler(health *resilience.DegradationManager, breakers *resilience.CircuitBreakerRegistry,
	metrics *monitoring.Metrics, stats map[string]StatsFunc) *SystemHandler {
	return &SystemHandler{health: health, breakers: breakers, metrics: metrics, stats: stats}
}

// Root godoc
// @Summary  Service banner
// @Tags     system
// @Produce  json
// @Success  200  {object}  types.StatusResponse
// @Router   / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{Message: "NeuroWeave AI Backend Running"})
}

// Health godoc
// @Summary      Service health
// @Description  Upstream health and circuit breakers. 503 when an upstream is in emergency.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	services := h.health.GetAllServiceHealth()

	response := gin.H{
		"status":           "ok",
		"timestamp":        time.Now().Format(time.RFC3339),
		"version":          Version,
		"services":         services,
		"circuit_breakers": h.breakers.GetStats(),
	}

	for name := range services {
		if !h.health.IsServiceAvailable(name) {
			response["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// Metrics godoc
// @Summary  Request and screening counters
// @Tags     system
// @Produce  json
// @Success  200  {object}  map[string]interface{}
// @Router   /metrics [get]
func (h *SystemHandler) Metrics(c *gin.Context) {
	response := h.metrics.GetStats()
	for name, fn := range h.stats {
		response[name] = fn()
	}
	c.JSON(http.StatusOK, response)
}
