// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bee-counter/internal/config"
	"bee-counter/internal/model"
	"bee-counter/internal/service"
	"bee-counter/internal/utils"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	monitorService *service.MonitorService
	config         *config.Config
	startedAt      time.Time
	logger         *utils.ServiceLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(monitorService *service.MonitorService, config *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		monitorService: monitorService,
		config:         config,
		startedAt:      time.Now(),
		logger:         utils.NewServiceLogger(logger, "health-handler"),
	}
}

// HealthCheck performs general health check
// @Summary Health check
// @Description Get overall service health including the reader state and event fan-out counters
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := h.monitorService.Status()
	stats := h.monitorService.BroadcastStats()

	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   h.config.App.Name,
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Checks:    make(map[string]CheckResult),
	}

	// A read fault leaves the reader idle; the service itself keeps serving
	readerCheck := CheckResult{
		Status: "healthy",
		Data: map[string]interface{}{
			"state":     status.State,
			"port_name": status.Config.PortName,
			"baud_rate": status.Config.BaudRate,
			"records":   status.Records,
		},
	}
	if status.LastError != "" {
		readerCheck.Status = "degraded"
		readerCheck.Message = status.LastError
		health.Status = "degraded"
	}
	health.Checks["reader"] = readerCheck

	health.Checks["broadcaster"] = CheckResult{
		Status: "healthy",
		Data: map[string]interface{}{
			"subscribers": stats.Subscribers,
			"published":   stats.Published,
			"dropped":     stats.Dropped,
		},
	}

	c.JSON(http.StatusOK, health)
}

// ReadinessCheck for Kubernetes readiness probe
// @Summary Readiness check
// @Description Ready while polling or when the configured port is present on the host
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is ready"
// @Failure 503 {object} object{status=string,reason=string} "Service is not ready"
// @Router /ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	status := h.monitorService.Status()
	if status.State != model.ReaderStatePolling && !h.portPresent(status.Config.PortName) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "configured serial port not present",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessCheck for Kubernetes liveness probe
// @Summary Liveness check
// @Description Check if service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string} "Service is alive"
// @Router /live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
	})
}

func (h *HealthHandler) portPresent(name string) bool {
	for _, port := range h.monitorService.ListPorts(false) {
		if port.Name == name {
			return true
		}
	}
	return false
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents individual check result
type CheckResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
