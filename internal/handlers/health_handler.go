package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	pingDB func(ctx *gin.Context) error
}

// NewHealthHandler creates a new HealthHandler. pingDB checks the Mongo
// connection within the request's deadline.
func NewHealthHandler(pingDB func(ctx *gin.Context) error) *HealthHandler {
	return &HealthHandler{pingDB: pingDB}
}

// Healthcheck handles GET /api/healthcheck
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if err := h.pingDB(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
