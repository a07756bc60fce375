package services

import (
	"context"

	"github.com/littlesprouts/preschool-api/config"
	"github.com/littlesprouts/preschool-api/internal/models"
	apperrors "github.com/littlesprouts/preschool-api/pkg/errors"
	"github.com/littlesprouts/preschool-api/pkg/logger"
	"github.com/littlesprouts/preschool-api/pkg/metrics"
	"github.com/littlesprouts/preschool-api/pkg/validate"
	"go.uber.org/zap"
)

// EnquiryService gates site enquiries and hands them to the spreadsheet sink
type EnquiryService struct {
	submitter   EnquirySubmitter
	captcha     CaptchaVerifier
	strictPhone bool
}

// NewEnquiryService creates a new enquiry service. captcha may be nil to
// accept submissions without a reCAPTCHA token.
func NewEnquiryService(submitter EnquirySubmitter, captcha CaptchaVerifier, cfg *config.Config) *EnquiryService {
	return &EnquiryService{
		submitter:   submitter,
		captcha:     captcha,
		strictPhone: cfg.Forms.StrictPhone,
	}
}

// SubmitVisitRequest validates and forwards a visit request. Gate failures
// are returned as errors; once forwarded, every outcome is a result.
func (s *EnquiryService) SubmitVisitRequest(ctx context.Context, form *models.VisitRequestForm) (*models.SubmissionResult, error) {
	req := form.VisitRequest
	if err := s.gate(ctx, models.FormTypeVisitRequest, form.RecaptchaToken, req.Email, req.Phone); err != nil {
		return nil, err
	}

	res := s.submitter.SubmitVisitRequest(ctx, &req)
	s.record(models.FormTypeVisitRequest, res)
	return &res, nil
}

// SubmitAdmissionInquiry validates and forwards an admission inquiry
func (s *EnquiryService) SubmitAdmissionInquiry(ctx context.Context, form *models.AdmissionInquiryForm) (*models.SubmissionResult, error) {
	req := form.AdmissionInquiry
	if err := s.gate(ctx, models.FormTypeAdmissionInquiry, form.RecaptchaToken, req.Email, req.Phone); err != nil {
		return nil, err
	}

	res := s.submitter.SubmitAdmissionInquiry(ctx, &req)
	s.record(models.FormTypeAdmissionInquiry, res)
	return &res, nil
}

// gate runs the field checks first so a malformed form never costs a captcha call
func (s *EnquiryService) gate(ctx context.Context, form models.FormType, token, email, phone string) error {
	if email != "" && !validate.IsValidEmail(email) {
		metrics.EnquirySubmissions.WithLabelValues(string(form), "invalid").Inc()
		return apperrors.InvalidInputError("email", "Please enter a valid email address")
	}

	if s.strictPhone && !validate.IsValidPhone(phone) {
		metrics.EnquirySubmissions.WithLabelValues(string(form), "invalid").Inc()
		return apperrors.InvalidInputError("phone", "Please enter a valid 10 digit mobile number")
	}

	if s.captcha != nil {
		if err := s.captcha.Verify(ctx, token); err != nil {
			metrics.EnquirySubmissions.WithLabelValues(string(form), "captcha_failed").Inc()
			logger.Warn("ReCAPTCHA verification failed",
				zap.String("form_type", string(form)),
				zap.Error(err))
			return apperrors.CaptchaError(err)
		}
	}

	return nil
}

func (s *EnquiryService) record(form models.FormType, res models.SubmissionResult) {
	metrics.EnquirySubmissions.WithLabelValues(string(form), string(res.Status)).Inc()

	if res.Status == models.StatusSuccess {
		logger.Info("Enquiry submitted",
			zap.String("form_type", string(form)),
			zap.String("submission_id", res.SubmissionID),
			zap.Bool("email_sent", res.EmailSent))
	}
}
