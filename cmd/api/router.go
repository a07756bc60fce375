package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/littlesprouts/preschool-api/config"
	"github.com/littlesprouts/preschool-api/internal/handlers"
	"github.com/littlesprouts/preschool-api/internal/middleware"
	"github.com/littlesprouts/preschool-api/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const enquiryBodyLimit = 32 * 1024

// registerAPIRoutes registers the enquiry routes for a given router group
func registerAPIRoutes(group *gin.RouterGroup, enquiryRateLimiter *middleware.RateLimiter, enquiryHandler *handlers.EnquiryHandler) {
	group.POST("/visit-requests", enquiryRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(enquiryBodyLimit), enquiryHandler.CreateVisitRequest)
	group.POST("/admission-inquiries", enquiryRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(enquiryBodyLimit), enquiryHandler.CreateAdmissionInquiry)
}

// newRouter builds the gin engine with global middleware and all routes
func newRouter(cfg *config.Config, enquiryHandler *handlers.EnquiryHandler, healthHandler *handlers.HealthHandler) (*gin.Engine, error) {
	router := gin.New()

	// Rate limits key on ClientIP, so forwarded headers count only from known proxies
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := slices.Clone(cfg.Server.AllowedOrigins)
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:5173")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(20, 40)
	enquiryRateLimiter := middleware.NewPerMinuteRateLimiter(cfg.RateLimit.EnquiriesPerMinute, cfg.RateLimit.EnquiryBurst)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	registerAPIRoutes(v1, enquiryRateLimiter, enquiryHandler)

	return router, nil
}
