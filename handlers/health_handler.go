package handlers

import (
	"net/http"

	"github.com/campusdesk/swo-feedback/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthService HealthServiceInterface
}

func NewHealthHandler(healthService HealthServiceInterface) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// LivenessCheck handles the liveness probe.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck returns 503 while the database is unreachable.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

// DetailedHealth godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthCheck
// @Router /health [get]
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthService.CheckHealth(c.Request.Context()))
}
