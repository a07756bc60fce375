// Package sheets forwards enquiries to the Google Apps Script web app that
// appends them to the admissions spreadsheet.
//
// The script's reply is treated as opaque: its body is never read and its
// status code never changes the outcome. A submission therefore succeeds as
// soon as the request was handed over without a transport fault, and fails
// only when it could not be delivered at all.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/littlesprouts/preschool-api/internal/models"
	"github.com/littlesprouts/preschool-api/pkg/circuitbreaker"
	"github.com/littlesprouts/preschool-api/pkg/httpclient"
	"github.com/littlesprouts/preschool-api/pkg/logger"
	"github.com/littlesprouts/preschool-api/pkg/metrics"
	"github.com/littlesprouts/preschool-api/pkg/retry"
	"github.com/littlesprouts/preschool-api/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const serviceName = "sheets"

// Config configures the webhook client
type Config struct {
	// Endpoint is the web app URL. Empty switches the client to demo mode.
	Endpoint string
	// MaxRetries bounds re-dials after DNS or connection failures
	MaxRetries int
	// RetryDelay overrides the initial backoff delay when non-zero
	RetryDelay time.Duration
}

// Client submits enquiries to the spreadsheet webhook
type Client struct {
	endpoint   string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
	retry      retry.Config
	now        func() time.Time
}

// NewClient creates a webhook client. The endpoint is fixed for the client's lifetime.
func NewClient(cfg Config, httpClient httpclient.Client) *Client {
	retryCfg := retry.SheetsConfig(cfg.MaxRetries)
	if cfg.RetryDelay > 0 {
		retryCfg.InitialDelay = cfg.RetryDelay
		retryCfg.MaxDelay = 4 * cfg.RetryDelay
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(serviceName)),
		retry:      retryCfg,
		now:        time.Now,
	}
}

// visitPayload and inquiryPayload put the discriminant in front of the
// request fields. Empty optional fields are left out.
type visitPayload struct {
	FormType models.FormType `json:"formType"`
	models.VisitRequest
}

type inquiryPayload struct {
	FormType models.FormType `json:"formType"`
	models.AdmissionInquiry
}

// SubmitVisitRequest sends a visit request to the sheet. It never fails with
// an error; every outcome is a SubmissionResult.
func (c *Client) SubmitVisitRequest(ctx context.Context, req *models.VisitRequest) models.SubmissionResult {
	return c.submit(ctx, models.FormTypeVisitRequest,
		visitPayload{FormType: models.FormTypeVisitRequest, VisitRequest: *req},
		req.Email != "", models.MessageVisitSubmitted)
}

// SubmitAdmissionInquiry sends an admission inquiry to the sheet. It never
// fails with an error; every outcome is a SubmissionResult.
func (c *Client) SubmitAdmissionInquiry(ctx context.Context, req *models.AdmissionInquiry) models.SubmissionResult {
	return c.submit(ctx, models.FormTypeAdmissionInquiry,
		inquiryPayload{FormType: models.FormTypeAdmissionInquiry, AdmissionInquiry: *req},
		req.Email != "", models.MessageInquirySubmitted)
}

// DemoMode reports whether no endpoint is configured
func (c *Client) DemoMode() bool {
	return c.endpoint == ""
}

// BreakerState returns "closed", "half-open" or "open"
func (c *Client) BreakerState() string {
	return circuitbreaker.GetState(c.breaker)
}

func (c *Client) submit(ctx context.Context, form models.FormType, payload any, hasEmail bool, okMessage string) models.SubmissionResult {
	formLabel := string(form)

	if c.DemoMode() {
		id := c.demoSubmissionID()
		logger.Warn("Sheets endpoint not configured, enquiry logged only",
			zap.String("form_type", formLabel),
			zap.String("submission_id", id),
			zap.Any("enquiry", payload))
		metrics.SinkRequestTotal.WithLabelValues(formLabel, "demo").Inc()
		return models.SuccessResult(models.MessageDemoSubmitted, id, false)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode enquiry", zap.String("form_type", formLabel), zap.Error(err))
		metrics.SinkRequestTotal.WithLabelValues(formLabel, "error").Inc()
		return models.ErrorResult()
	}

	// Once dispatched a submission runs to completion; only the transport
	// timeout can end it early.
	ctx, span := tracing.StartSpan(context.WithoutCancel(ctx), "sheets.submit",
		attribute.String("enquiry.form_type", formLabel))
	defer span.End()

	start := time.Now()
	var statusCode int
	err = circuitbreaker.Run(c.breaker, func() error {
		return retry.Do(ctx, c.retry, "sheets."+formLabel, func() error {
			code, dispatchErr := c.dispatch(ctx, body)
			statusCode = code
			return dispatchErr
		})
	})
	duration := metrics.MeasureDuration(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		metrics.SinkRequestDuration.WithLabelValues(formLabel, "error").Observe(duration)
		metrics.SinkRequestTotal.WithLabelValues(formLabel, "error").Inc()
		logger.LogAPICall(serviceName, formLabel, "error", duration,
			zap.Error(err),
			zap.Bool("breaker_rejected", circuitbreaker.IsRejection(err)))
		return models.ErrorResult()
	}

	metrics.SinkRequestDuration.WithLabelValues(formLabel, "success").Observe(duration)
	metrics.SinkRequestTotal.WithLabelValues(formLabel, "success").Inc()
	logger.LogAPICall(serviceName, formLabel, "success", duration,
		zap.Int("status_code", statusCode),
		zap.Bool("email_present", hasEmail))

	return models.SuccessResult(okMessage, "", hasEmail)
}

// dispatch posts body once. The response is closed unread; its status is
// returned for logging only.
func (c *Client) dispatch(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build sheets request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}

func (c *Client) demoSubmissionID() string {
	return fmt.Sprintf("DEMO-%d-%s", c.now().UnixMilli(), uuid.NewString()[:8])
}
