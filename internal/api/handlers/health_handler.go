package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the liveness probe, reporting uptime since the
// handler was constructed (i.e. since process start).
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler constructs the handler; its clock starts now.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// RegisterRoutes wires this handler's route directly onto engine (not a
// versioned group: liveness probes are conventionally unversioned).
func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Get)
}

// Get handles GET /health.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":        "flexipay-fallback-engine",
		"status":         "ok",
		"uptime_seconds": time.Since(h.startedAt).Seconds(),
	})
}
