package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/investment-service/investment_service/pkg/health"
	"github.com/investment-service/investment_service/pkg/logger"
	"github.com/investment-service/investment_service/pkg/version"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checker *health.HealthChecker
	logger  *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker *health.HealthChecker, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
	}
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    health.Status                 `json:"status"`
	Timestamp time.Time                     `json:"timestamp"`
	Version   string                        `json:"version"`
	Uptime    string                        `json:"uptime"`
	Checks    map[string]health.CheckResult `json:"checks"`
}

var startTime = time.Now()

// Health performs comprehensive health checks
// @Summary Get application health status
// @Description Performs health checks on storage and cache
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	status, checks := h.checker.Check(ctx)

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if status == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
		h.logger.Warnw("Health check failed", "checks", checks)
	}

	c.JSON(statusCode, response)
}

// Ready checks if the application is ready to serve traffic
// @Summary Get application readiness status
// @Description A degraded cache does not make the service unready
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, checks := h.checker.Check(ctx)

	ready := status != health.StatusUnhealthy
	readiness := "ready"
	statusCode := http.StatusOK
	if !ready {
		readiness = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    readiness,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

// Live checks if the application is alive
// @Summary Get application liveness status
// @Description Simple liveness check for container orchestration
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startTime).Round(time.Second).String(),
	})
}
