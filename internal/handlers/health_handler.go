package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SinkStatus reports the state of the enquiry sink
type SinkStatus interface {
	DemoMode() bool
	BreakerState() string
}

type HealthHandler struct {
	sink SinkStatus
}

func NewHealthHandler(sink SinkStatus) *HealthHandler {
	return &HealthHandler{sink: sink}
}

// Healthcheck always answers 200; an open sink breaker only marks the
// service degraded since enquiries still settle to a result.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	mode := "live"
	if h.sink.DemoMode() {
		mode = "demo"
	}

	state := h.sink.BreakerState()
	status := "ok"
	if state == "open" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"sink_mode":    mode,
		"sink_breaker": state,
	})
}
