// Package api provides the HTTP handlers and router of the back-office API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/db"
)

// DatabaseProbe is the subset of the connection pool the health checks use.
type DatabaseProbe interface {
	HealthCheck(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HealthHandler serves health check endpoints. A nil probe means the
// service runs on the in-memory store.
type HealthHandler struct {
	probe     DatabaseProbe
	log       *logrus.Logger
	version   string
	auditMode string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(probe DatabaseProbe, log *logrus.Logger, version, auditMode string) *HealthHandler {
	return &HealthHandler{
		probe:     probe,
		log:       log,
		version:   version,
		auditMode: auditMode,
		startTime: time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status        string            `json:"status"`
	SchemaVersion int               `json:"schema_version"`
	Checks        map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	AuditMode     string  `json:"audit_mode"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		AuditMode:     h.auditMode,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.probe != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.probe.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	} else {
		resp.Database = "in_memory"
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready: database reachable and schema migrated.
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := readinessResponse{
		Status:        "ready",
		SchemaVersion: db.SchemaVersion(),
		Checks:        map[string]string{"database": "ok", "schema": "ok"},
	}

	if h.probe == nil {
		resp.Checks["database"] = "in_memory"
		resp.Checks["schema"] = "n/a"
		c.JSON(http.StatusOK, resp)

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	statusCode := http.StatusOK

	if err := h.probe.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Error("readiness: database health check failed")
		resp.Checks["database"] = "error"
		resp.Checks["schema"] = "unknown"
		resp.Status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	} else if err := h.checkSchema(ctx, resp.SchemaVersion); err != nil {
		h.log.WithError(err).Error("readiness: schema check failed")
		resp.Checks["schema"] = "error"
		resp.Status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, resp)
}

// checkSchema verifies that goose has applied at least the embedded migrations.
func (h *HealthHandler) checkSchema(ctx context.Context, want int) error {
	var applied int64

	err := h.probe.QueryRow(ctx,
		"SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied").Scan(&applied)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if applied < int64(want) {
		return fmt.Errorf("schema version %d behind expected %d", applied, want)
	}

	return nil
}
