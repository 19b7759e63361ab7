package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ferrocrete/sitegate/internal/application/dto"
	"github.com/ferrocrete/sitegate/pkg/logger"
)

// HealthHandler serves liveness and readiness probes. Readiness covers
// the database and the signing-material integrity verdict so a
// misconfigured instance is never routed traffic.
type HealthHandler struct {
	db        *gorm.DB
	integrity func() error
	started   time.Time
	log       logger.Logger
}

// NewHealthHandler creates the handler. integrity reports the memoized
// signing-material check result.
func NewHealthHandler(db *gorm.DB, integrity func() error, log logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, integrity: integrity, started: time.Now(), log: log}
}

// Live reports process liveness.
// GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// Ready reports whether the instance can serve traffic.
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := h.integrity(); err != nil {
		checks["signing_material"] = err.Error()
		healthy = false
	} else {
		checks["signing_material"] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	dto.SendSuccess(c, status, gin.H{"status": state, "checks": checks})
}
