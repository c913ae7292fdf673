package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// Pinger is anything that can report database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service health
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health checks the database connection
// @Summary Service health
// @Description Pings the database; 503 when it is unreachable. Also served at /health outside the base path.
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Service healthy"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse} "Database unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check failed: database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.APIResponse{
			Success:   false,
			Message:   "Database unavailable",
			Data:      dto.HealthResponse{Status: "degraded", Database: "down"},
			Timestamp: time.Now(),
		})
		return
	}

	respondOK(ctx, dto.HealthResponse{Status: "ok", Database: "up"}, "Service healthy")
}
