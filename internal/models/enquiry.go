package models

// FormType identifies which site form an enquiry came from. It is sent to
// the spreadsheet webhook as "formType".
type FormType string

const (
	FormTypeVisitRequest     FormType = "visit_request"
	FormTypeAdmissionInquiry FormType = "admission_inquiry"
)

// Visit slots offered on the Contact page
const (
	VisitSlotMorning = "Morning (9-11)"
	VisitSlotMidday  = "Mid-day (11-1)"
)

// VisitSlots lists every time slot a visit can be booked for
var VisitSlots = []string{VisitSlotMorning, VisitSlotMidday}

// IsVisitSlot reports whether s is one of VisitSlots
func IsVisitSlot(s string) bool {
	for _, slot := range VisitSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// VisitRequest represents a "schedule a school visit" submission
type VisitRequest struct {
	ParentName string `json:"parentName" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"required,max=20"`
	Email      string `json:"email,omitempty" binding:"omitempty,max=255,leademail"`
	ChildName  string `json:"childName,omitempty" binding:"omitempty,max=100"`
	Program    string `json:"program,omitempty" binding:"omitempty,max=100"`
	VisitDate  string `json:"visitDate" binding:"required,datetime=2006-01-02,notpast"`
	VisitTime  string `json:"visitTime" binding:"required,visitslot"`
}

// AdmissionInquiry represents an admission inquiry submission
type AdmissionInquiry struct {
	ParentName string `json:"parentName" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"required,max=20"`
	Email      string `json:"email,omitempty" binding:"omitempty,max=255,leademail"`
	ChildName  string `json:"childName" binding:"required,max=100"`
	ChildAge   string `json:"childAge" binding:"required,max=20"`
	Program    string `json:"program" binding:"required,max=100"`
	Message    string `json:"message,omitempty" binding:"omitempty,max=2000"`
}

// VisitRequestForm is the body the Contact page posts. The captcha token is
// checked locally and never forwarded.
type VisitRequestForm struct {
	VisitRequest
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

// AdmissionInquiryForm is the body the Admissions page posts
type AdmissionInquiryForm struct {
	AdmissionInquiry
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}
