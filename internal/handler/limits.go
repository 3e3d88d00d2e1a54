package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/limiter"
)

// LimitsHandler reports the limits the running limiter enforces
type LimitsHandler struct {
	limiter *limiter.Limiter
}

// NewLimitsHandler accepts a nil limiter (Redis unavailable) and then reports
// the defaults
func NewLimitsHandler(l *limiter.Limiter) *LimitsHandler {
	return &LimitsHandler{limiter: l}
}

// Get handles GET /api/limits
func (h *LimitsHandler) Get(c *gin.Context) {
	limits := make(map[string]map[string]interface{})
	for action, config := range h.limiter.Limits() {
		limits[action] = map[string]interface{}{
			"limit":          config.Limit,
			"window_seconds": int(config.Window.Seconds()),
		}
	}
	c.JSON(http.StatusOK, limits)
}
