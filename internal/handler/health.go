package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/referral/internal/audit"
	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	"github.com/Payphone-Digital/referral/pkg/circuit"
	"github.com/Payphone-Digital/referral/pkg/health"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 5 * time.Second

// AuditStats is satisfied by the audit dispatcher.
type AuditStats interface {
	Stats() audit.Stats
}

type HealthHandler struct {
	monitor *health.Monitor
	audit   AuditStats
}

// NewHealthHandler reports on monitor's dependencies plus the audit queue.
// Either may be nil.
func NewHealthHandler(monitor *health.Monitor, audit AuditStats) *HealthHandler {
	if monitor == nil {
		monitor = health.NewMonitor(0, healthCheckTimeout, nil)
	}
	return &HealthHandler{monitor: monitor, audit: audit}
}

// HealthCheck probes every dependency now. It answers 503 only when a
// required one (the database) is down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	results := h.monitor.CheckAll(ctx)
	overall := h.monitor.Overall(results)

	components := make(map[string]dto.ComponentHealth, len(results)+1)
	for name, r := range results {
		ch := dto.ComponentHealth{Status: r.Status.String(), Details: r.Details}
		if r.LastError != nil {
			ch.Error = r.LastError.Error()
		}
		components[name] = ch
	}

	if h.audit != nil {
		ch := auditHealth(h.audit.Stats())
		components["audit"] = ch
		if ch.Status != health.StatusHealthy.String() && overall == health.StatusHealthy {
			overall = health.StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if overall == health.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", overall.String()),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, dto.HealthResponse{
		Status:     overall.String(),
		Service:    constants.AppName,
		Version:    constants.AppVersion,
		Timestamp:  time.Now(),
		Components: components,
	})
}

// BasicHealth is a dependency-free liveness probe.
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    health.StatusHealthy.String(),
		"service":   constants.AppName,
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
	})
}

// auditHealth is degraded while the sink's breaker is not closed.
func auditHealth(stats audit.Stats) dto.ComponentHealth {
	status := health.StatusHealthy
	if stats.Breaker.State != circuit.StateClosed.String() {
		status = health.StatusDegraded
	}
	return dto.ComponentHealth{
		Status: status.String(),
		Details: map[string]any{
			"queued":    stats.Queued,
			"delivered": stats.Delivered,
			"failed":    stats.Failed,
			"dropped":   stats.Dropped,
			"breaker":   stats.Breaker.State,
		},
	}
}
