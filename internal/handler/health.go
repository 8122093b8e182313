package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/cache"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/cleberrangel/houseforge-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

// limites usados na classificação de saúde
const (
	maxHeapMB            = 512
	maxWSConnections     = 500
	minCacheHitRate      = 20.0
	minCacheLookupsCheck = 100
)

// HealthHandler handles health check and metrics endpoints
type HealthHandler struct {
	db        *sql.DB
	wsHub     *websocket.Hub
	cache     *cache.Cache
	version   string
	startTime time.Time
}

// NewHealthHandler cria o handler; hub e cache podem ser nil
func NewHealthHandler(db *sql.DB, wsHub *websocket.Hub, c *cache.Cache, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		wsHub:     wsHub,
		cache:     c,
		version:   version,
		startTime: time.Now(),
	}
}

// LivenessCheck returns basic liveness status
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck returns readiness status including dependencies
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} metrics.HealthCheck
// @Failure 503 {object} metrics.HealthCheck
// @Router /health/ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	components := map[string]metrics.HealthStatus{
		"database": metrics.CheckDatabaseHealth(c.Request.Context(), h.db),
		"memory":   metrics.CheckMemoryHealth(maxHeapMB),
	}
	h.respond(c, components)
}

// DetailedHealthCheck returns comprehensive health information
// @Summary Detailed health check
// @Tags health
// @Produce json
// @Success 200 {object} metrics.HealthCheck
// @Failure 503 {object} metrics.HealthCheck
// @Router /health [get]
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	components := map[string]metrics.HealthStatus{
		"database": metrics.CheckDatabaseHealth(c.Request.Context(), h.db),
		"memory":   metrics.CheckMemoryHealth(maxHeapMB),
	}
	if h.wsHub != nil {
		components["websocket"] = h.checkWebSocketHealth()
	}
	if h.cache != nil {
		components["cache"] = h.checkCacheHealth()
	}
	h.respond(c, components)
}

func (h *HealthHandler) respond(c *gin.Context, components map[string]metrics.HealthStatus) {
	overallStatus := metrics.DetermineOverallStatus(components)

	healthCheck := metrics.HealthCheck{
		Status:     overallStatus,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, healthCheck)
}

// checkWebSocketHealth checks WebSocket hub health
func (h *HealthHandler) checkWebSocketHealth() metrics.HealthStatus {
	if h.wsHub.GetConnectionCount() > maxWSConnections {
		return metrics.HealthStatus{
			Status:  "degraded",
			Message: "WebSocket connections near limit",
		}
	}
	return metrics.HealthStatus{Status: "healthy"}
}

// checkCacheHealth marca o cache como degradado se a taxa de acerto cair
// depois de um volume mínimo de leituras
func (h *HealthHandler) checkCacheHealth() metrics.HealthStatus {
	stats := h.cache.Stats()
	if stats.HitCount+stats.MissCount >= minCacheLookupsCheck && stats.HitRate < minCacheHitRate {
		return metrics.HealthStatus{
			Status:  "degraded",
			Message: "low cache hit rate",
		}
	}
	return metrics.HealthStatus{Status: "healthy"}
}

// GetMetrics returns application metrics
// @Summary Get application metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics [get]
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	response := gin.H{
		"metrics": metrics.Get().Snapshot(),
		"version": h.version,
	}
	if h.cache != nil {
		response["cache"] = h.cache.Stats()
	}
	c.JSON(http.StatusOK, response)
}

// GetMetricsSummary returns a summary of key metrics
// @Summary Get metrics summary
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics/summary [get]
func (h *HealthHandler) GetMetricsSummary(c *gin.Context) {
	snapshot := metrics.Get().Snapshot()

	requestSuccessRate := float64(0)
	if snapshot.Requests.Total > 0 {
		requestSuccessRate = float64(snapshot.Requests.Successful) / float64(snapshot.Requests.Total) * 100
	}

	loginSuccessRate := float64(0)
	if snapshot.Auth.LoginAttempts > 0 {
		loginSuccessRate = float64(snapshot.Auth.LoginSuccesses) / float64(snapshot.Auth.LoginAttempts) * 100
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": snapshot.UptimeSeconds,
		"version":        h.version,
		"requests": gin.H{
			"total":        snapshot.Requests.Total,
			"success_rate": requestSuccessRate,
			"avg_latency":  snapshot.Requests.AvgLatencyMs,
		},
		"estimates": gin.H{
			"run":            snapshot.Estimates.Run,
			"rejected":       snapshot.Estimates.Rejected,
			"avg_latency_us": snapshot.Estimates.AvgLatencyUs,
			"exports":        snapshot.Exports.Generated,
		},
		"projects": snapshot.Projects,
		"auth": gin.H{
			"login_attempts": snapshot.Auth.LoginAttempts,
			"success_rate":   loginSuccessRate,
		},
		"rate_limited": snapshot.RateLimited,
		"websocket": gin.H{
			"connections": snapshot.WebSocket.Connections,
		},
	})
}

// GetEndpointMetrics returns metrics for specific endpoints
// @Summary Get endpoint metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics/endpoints [get]
func (h *HealthHandler) GetEndpointMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoints": metrics.Get().Snapshot().Endpoints,
	})
}
