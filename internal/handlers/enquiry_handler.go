package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/littlesprouts/preschool-api/internal/models"
	"github.com/littlesprouts/preschool-api/internal/services"
	apperrors "github.com/littlesprouts/preschool-api/pkg/errors"
)

// EnquiryHandler handles the site's lead form endpoints
type EnquiryHandler struct {
	service services.EnquiryServiceInterface
}

// NewEnquiryHandler creates a new enquiry handler
func NewEnquiryHandler(service services.EnquiryServiceInterface) *EnquiryHandler {
	return &EnquiryHandler{service: service}
}

// CreateVisitRequest handles POST /api/v1/visit-requests
func (h *EnquiryHandler) CreateVisitRequest(c *gin.Context) {
	var form models.VisitRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	res, err := h.service.SubmitVisitRequest(c.Request.Context(), &form)
	h.respond(c, res, err)
}

// CreateAdmissionInquiry handles POST /api/v1/admission-inquiries
func (h *EnquiryHandler) CreateAdmissionInquiry(c *gin.Context) {
	var form models.AdmissionInquiryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	res, err := h.service.SubmitAdmissionInquiry(c.Request.Context(), &form)
	h.respond(c, res, err)
}

func (h *EnquiryHandler) respond(c *gin.Context, res *models.SubmissionResult, err error) {
	if err != nil {
		if fe, ok := apperrors.AsFieldError(err); ok {
			respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed",
				[]ValidationError{{Field: fe.Field, Message: fe.Reason}}, err)
			return
		}
		if apperrors.Is(err, apperrors.ErrCaptchaFailed) {
			respondError(c, http.StatusBadRequest, "Captcha verification failed", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(statusFor(res.Status), res)
}

func statusFor(s models.SubmissionStatus) int {
	switch s {
	case models.StatusSuccess:
		return http.StatusOK
	case models.StatusDuplicate:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
