package constants

import "time"

// SessionState represents the current state of the TUI host
type SessionState int

// FocusTarget identifies the widget element that receives key input
type FocusTarget int

const (
	AppName            = "slackfeedback"
	DefaultKeyringUser = "slack-webhook"
	DefaultConfigDir   = "~/.config/slackfeedback"
	ConfigFileName     = "config.yaml"
	HistoryFileName    = "history.db"
	Version            = "v0.1.0"
	EnvPrefix          = "SLACKFEEDBACK_"

	// Widget defaults
	DefaultChannel         = "#feedback"
	DefaultUser            = "Unknown User"
	DefaultEmoji           = ":speaking_head_in_silhouette:"
	DefaultButtonText      = "Slack Feedback"
	DefaultImageUploadText = "Attach Image"
	DefaultSiteKey         = "slackfeedback-local"

	// HTTP collaborators
	WebhookTimeout = 15 * time.Second
	UploadTimeout  = 60 * time.Second
	MaxImageBytes  = 20 << 20
)

// Session States
const (
	StateBrowsing SessionState = iota
	StateAttachPrompt
	StateAlert
)

const (
	FocusName FocusTarget = iota
	FocusEmail
	FocusCategory
	FocusMessage
	FocusImage
	FocusChallenge
	FocusSubmit
	focusCount
)

// FocusCount is the number of focusable widget elements.
const FocusCount = int(focusCount)
