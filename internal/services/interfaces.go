package services

import (
	"context"

	"github.com/littlesprouts/preschool-api/internal/models"
	"github.com/littlesprouts/preschool-api/pkg/recaptcha"
	"github.com/littlesprouts/preschool-api/pkg/sheets"
)

// EnquiryServiceInterface defines the interface for enquiry form operations
type EnquiryServiceInterface interface {
	SubmitVisitRequest(ctx context.Context, form *models.VisitRequestForm) (*models.SubmissionResult, error)
	SubmitAdmissionInquiry(ctx context.Context, form *models.AdmissionInquiryForm) (*models.SubmissionResult, error)
}

// EnquirySubmitter delivers enquiries to the store behind the site.
// Implementations settle every call to a result and never return errors.
type EnquirySubmitter interface {
	SubmitVisitRequest(ctx context.Context, req *models.VisitRequest) models.SubmissionResult
	SubmitAdmissionInquiry(ctx context.Context, req *models.AdmissionInquiry) models.SubmissionResult
}

// CaptchaVerifier checks a reCAPTCHA token
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}

// Ensure implementations satisfy their interfaces
var _ EnquiryServiceInterface = (*EnquiryService)(nil)
var _ EnquirySubmitter = (*sheets.Client)(nil)
var _ CaptchaVerifier = (*recaptcha.Verifier)(nil)
