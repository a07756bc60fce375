package models

// SubmissionStatus is the outcome the site renders for an enquiry
type SubmissionStatus string

const (
	StatusSuccess   SubmissionStatus = "success"
	StatusDuplicate SubmissionStatus = "duplicate"
	StatusError     SubmissionStatus = "error"
)

// User-facing messages
const (
	MessageVisitSubmitted   = "Your visit request has been submitted successfully!"
	MessageInquirySubmitted = "Your admission inquiry has been submitted successfully!"
	MessageDemoSubmitted    = "Form submitted (demo mode - configure GOOGLE_SCRIPT_URL for actual submission)"
	MessageSubmitFailed     = "Failed to submit. Please try again or call us directly."
	MessageVisitDuplicate   = "This visit request was already submitted. Our team will contact you soon."
	MessageInquiryDuplicate = "This inquiry was already submitted. Our team will contact you soon."
)

// SubmissionResult is the value every submission settles to.
//
// EmailSent is a guess: the webhook's response is never read, so it only
// says the enquiry carried an email address the sheet script may write to.
type SubmissionResult struct {
	Status       SubmissionStatus `json:"status"`
	Message      string           `json:"message"`
	SubmissionID string           `json:"submissionId,omitempty"`
	EmailSent    bool             `json:"emailSent"`
}

// SuccessResult builds a success outcome
func SuccessResult(message, submissionID string, emailSent bool) SubmissionResult {
	return SubmissionResult{
		Status:       StatusSuccess,
		Message:      message,
		SubmissionID: submissionID,
		EmailSent:    emailSent,
	}
}

// DuplicateResult builds the outcome for an enquiry the sink already holds
func DuplicateResult(form FormType) SubmissionResult {
	msg := MessageInquiryDuplicate
	if form == FormTypeVisitRequest {
		msg = MessageVisitDuplicate
	}
	return SubmissionResult{Status: StatusDuplicate, Message: msg}
}

// ErrorResult builds the outcome shown when the enquiry could not be sent
func ErrorResult() SubmissionResult {
	return SubmissionResult{Status: StatusError, Message: MessageSubmitFailed}
}
