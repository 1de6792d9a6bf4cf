package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edurecords/internal/app/models/dto"
	"github.com/yigit/edurecords/internal/app/repositories"
)

const healthCheckTimeout = 2 * time.Second

// HealthController reports liveness and store connectivity
type HealthController struct {
	store repositories.Store
}

// NewHealthController creates a new HealthController
func NewHealthController(store repositories.Store) *HealthController {
	return &HealthController{store: store}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "Store unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "OK", Store: c.store.Driver(), Timestamp: time.Now().UTC()}
	if err := c.store.Ping(pingCtx); err != nil {
		resp.Status = "UNAVAILABLE"
		resp.Message = err.Error()
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	resp.Message = "Server is running"
	ctx.JSON(http.StatusOK, resp)
}

// Ping is a plain liveness probe
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
}
