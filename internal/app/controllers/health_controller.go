package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/config"
)

// HealthController serves the unauthenticated service endpoints
type HealthController struct {
	app config.AppConfig
}

// NewHealthController creates a new HealthController
func NewHealthController(app config.AppConfig) *HealthController {
	return &HealthController{app: app}
}

// Health reports liveness
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   c.app.Version,
	})
}

// Info describes the service and where to find it
func (c *HealthController) Info(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.InfoResponse{
		Name:        c.app.Name,
		Version:     c.app.Version,
		Environment: c.app.Environment,
		Docs:        "/swagger/index.html",
		Health:      "/health",
		API:         "/api/v1",
	})
}
