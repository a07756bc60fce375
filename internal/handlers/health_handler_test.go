package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubSink struct {
	demo  bool
	state string
}

func (s stubSink) DemoMode() bool       { return s.demo }
func (s stubSink) BreakerState() string { return s.state }

func TestHealthHandler_Healthcheck(t *testing.T) {
	tests := []struct {
		name     string
		sink     stubSink
		expected string
	}{
		{"live and closed", stubSink{state: "closed"}, `{"status":"ok","sink_mode":"live","sink_breaker":"closed"}`},
		{"demo mode", stubSink{demo: true, state: "closed"}, `{"status":"ok","sink_mode":"demo","sink_breaker":"closed"}`},
		{"breaker open", stubSink{state: "open"}, `{"status":"degraded","sink_mode":"live","sink_breaker":"open"}`},
		{"breaker probing", stubSink{state: "half-open"}, `{"status":"ok","sink_mode":"live","sink_breaker":"half-open"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.sink)
			router := gin.New()
			router.GET("/healthcheck", handler.Healthcheck)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}
