package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/littlesprouts/preschool-api/config"
	"github.com/littlesprouts/preschool-api/internal/handlers"
	"github.com/littlesprouts/preschool-api/internal/services"
	"github.com/littlesprouts/preschool-api/pkg/httpclient"
	"github.com/littlesprouts/preschool-api/pkg/logger"
	"github.com/littlesprouts/preschool-api/pkg/metrics"
	"github.com/littlesprouts/preschool-api/pkg/profiling"
	"github.com/littlesprouts/preschool-api/pkg/recaptcha"
	"github.com/littlesprouts/preschool-api/pkg/sheets"
	"github.com/littlesprouts/preschool-api/pkg/tracing"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting preschool enquiry API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(tracing.Options{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	// Binding tags used by the enquiry models
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Fatal("Unexpected validator engine")
	}
	if err := handlers.RegisterValidators(v, time.Now); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	httpClient := httpclient.NewStandardClient(time.Duration(cfg.Sheets.TimeoutSeconds) * time.Second)
	defer httpClient.CloseIdleConnections()

	sheetsClient := sheets.NewClient(sheets.Config{
		Endpoint:   cfg.Sheets.ScriptURL,
		MaxRetries: cfg.Sheets.MaxRetries,
	}, httpClient)
	if sheetsClient.DemoMode() {
		logger.Warn("GOOGLE_SCRIPT_URL not configured, enquiries will be logged and not stored")
	}

	var captcha services.CaptchaVerifier
	if cfg.ReCAPTCHA.SecretKey != "" {
		captcha = recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient)
	} else {
		logger.Info("RECAPTCHA_SECRET_KEY not set, captcha check disabled")
	}

	enquiryService := services.NewEnquiryService(sheetsClient, captcha, cfg)

	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	healthHandler := handlers.NewHealthHandler(sheetsClient)

	gin.SetMode(cfg.Server.GinMode)
	router, err := newRouter(cfg, enquiryHandler, healthHandler)
	if err != nil {
		logger.Fatal("Failed to build router", zap.Error(err))
	}

	// Handlers block for a whole detached submission, so writes and the
	// shutdown drain both get the full budget
	submissionBudget := cfg.Sheets.SubmissionBudget()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      submissionBudget,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started",
			zap.String("port", cfg.Server.Port),
			zap.Bool("demo_mode", sheetsClient.DemoMode()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), submissionBudget)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
