package constants

import "time"

const (
	// Auto-dismiss delays for the transient submission states. Each runs from the
	// moment the state is entered and is the only way the state is left, apart from
	// a newer transition superseding it.
	SentDismissDelay        = 5 * time.Second
	ErrorDismissDelay       = 8 * time.Second
	UploadErrorDismissDelay = 6 * time.Second

	// Verifier readiness polling
	VerifierPollInterval    = time.Second
	VerifierPollMaxAttempts = 30

	// Submit button labels
	SubmitLabelIdle    = "Send Feedback"
	SubmitLabelSending = "Sending Feedback..."
	SubmitLabelSent    = "Sent!"

	// Displayed error strings
	ErrBadRequest       = "Bad Request!"
	ErrForbidden        = "Forbidden!"
	ErrChannelNotFound  = "Channel Not Found!"
	ErrChannelArchived  = "Channel is Archived!"
	ErrServerError      = "Server Error!"
	ErrUnexpected       = "Unexpected Error!"
	ErrUploadingImage   = "Error Uploading Image!"
	AlertNeedsChallenge = "Oh no, you forgot to solve the CAPTCHA! Please try again."
	AlertNeedsEmail     = "Please fill in your email."
	AlertNeedsMessage   = "Please write a message."

	// Severity colors understood by Slack attachments
	ColorDanger  = "danger"
	ColorGood    = "good"
	ColorWarning = "warning"

	AttachmentFooter = "Slack Feedback"
)
