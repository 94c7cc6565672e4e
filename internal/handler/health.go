package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SystemHandler implements liveness and readiness endpoints
type SystemHandler struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(pool *pgxpool.Pool, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		pool:   pool,
		logger: logger,
	}
}

// Healthz reports process liveness
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Readyz reports readiness, including database connectivity
func (h *SystemHandler) Readyz(c *gin.Context) {
	if err := h.pool.Ping(c.Request.Context()); err != nil {
		h.logger.Error("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
