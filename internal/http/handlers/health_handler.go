// README: Health endpoint; reports each dependency and an overall verdict.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 5 * time.Second

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) bool

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type healthResp struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

// Health handles GET /health. Any failing service turns the status to "degraded".
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResp{Status: "healthy", Services: make(map[string]bool, len(h.checks))}
	for name, check := range h.checks {
		ok := check(ctx)
		resp.Services[name] = ok
		if !ok {
			resp.Status = "degraded"
		}
	}
	writeJSON(c, http.StatusOK, resp)
}
