// Package widget implements the feedback widget's interaction state machine:
// visibility, the verification gate, the image attachment lifecycle and the
// submission lifecycle.
//
// The widget follows the bubbletea model. Every transition is a plain mutation
// of the *Widget; timers and collaborator calls are returned as tea.Cmd values
// and their results come back through Update as messages. Each message that
// completes asynchronous work carries the identity of the work it completes, so
// a result arriving after that work was abandoned is dropped instead of
// overwriting newer state.
package widget

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/pointer"
)

// SubmitFunc delivers a payload. A nil return means the feedback was sent.
type SubmitFunc func(ctx context.Context, p Payload) error

// ImageUploadFunc hosts an image and returns its public URL.
type ImageUploadFunc func(ctx context.Context, f ImageFile) (string, error)

// Verifier is the external human-verification challenge.
type Verifier interface {
	// Ready reports whether the challenge can be rendered yet.
	Ready() bool
	// Render mounts the challenge. onVerified is called each time the user passes it.
	Render(siteKey string, onVerified func()) error
	// Response returns the completion token, or "" if the challenge is unsolved.
	Response() string
}

// Resetter is implemented by verifiers that must be cleared between submissions.
type Resetter interface {
	Reset()
}

// Outcome describes how a submission ended.
type Outcome struct {
	SubmissionID string
	Payload      Payload
	Fields       Fields
	Err          error
	Message      string
	At           time.Time
}

// Options configures a Widget.
type Options struct {
	Channel         string
	Username        string
	IconEmoji       string
	SiteKey         string
	ButtonText      string
	ImageUploadText string
	Disabled        bool

	// OnSubmit is required.
	OnSubmit SubmitFunc
	// OnImageUpload is optional; without it no image can be attached.
	OnImageUpload ImageUploadFunc
	// Verifier is required.
	Verifier Verifier
	// Document receives the outside-click listener. A private document is
	// created when nil.
	Document *pointer.Document
	// Location returns the address of the page the widget is embedded in.
	Location func() string
	// OnOutcome, when set, observes every completed submission. It runs in a
	// command, off the update loop, so it may block on I/O.
	OnOutcome func(Outcome)
}

// AlertMsg asks the host to show a blocking alert.
type AlertMsg struct {
	Text string
}

// SentMsg reports that the submission with the given ID was delivered.
type SentMsg struct {
	ID string
}

// ErrorMsg reports that the submission with the given ID failed.
type ErrorMsg struct {
	ID  string
	Err error
}

// ImageUploadedMsg reports the hosted URL for the attachment with the given ID.
type ImageUploadedMsg struct {
	ID  string
	URL string
}

// UploadErrorMsg reports that hosting the attachment with the given ID failed.
type UploadErrorMsg struct {
	ID  string
	Err error
}

type dismissMsg struct {
	gen int
}

type verifierPollMsg struct {
	gen     int
	attempt int
}

// tickFunc schedules timers; tests replace it to observe delays.
var tickFunc = tea.Tick

// nowFunc stamps outcomes.
var nowFunc = time.Now

// Widget is the feedback widget state machine.
type Widget struct {
	opts     Options
	doc      *pointer.Document
	outside  *pointer.Listener
	verified func()

	bounds  pointer.Rect
	mounted bool

	open         bool
	phase        Phase
	errorMessage string
	category     Category
	image        ImageRef
	uploading    bool
	isVerified   bool
	fields       Fields

	verifierRendered bool
	submissionID     string
	pending          Payload
	pendingFields    Fields

	// Generations invalidate scheduled messages. Bumping mountGen orphans the
	// verifier poll; bumping phaseGen orphans auto-dismiss timers.
	mountGen int
	phaseGen int
}

// New creates an unmounted, closed widget.
func New(opts Options) (*Widget, error) {
	if opts.OnSubmit == nil {
		return nil, errors.New("widget: OnSubmit is required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("widget: Verifier is required")
	}
	if opts.ButtonText == "" {
		opts.ButtonText = constants.DefaultButtonText
	}
	if opts.ImageUploadText == "" {
		opts.ImageUploadText = constants.DefaultImageUploadText
	}
	if opts.Location == nil {
		opts.Location = func() string { return "" }
	}

	w := &Widget{
		opts:     opts,
		doc:      opts.Document,
		category: CategoryBug,
	}
	if w.doc == nil {
		w.doc = pointer.NewDocument()
	}
	// One listener for the widget's lifetime, so close always removes exactly
	// what activate added.
	w.outside = pointer.NewListener("feedback-outside-click", w.handleClickOutside)
	w.verified = func() {
		if !w.mounted {
			logger.Debug("Dropped verification after unmount")
			return
		}
		w.OnVerified()
	}
	return w, nil
}

// Mount starts the widget and begins waiting for the verifier.
func (w *Widget) Mount() tea.Cmd {
	if w.mounted {
		return nil
	}
	w.mounted = true
	w.mountGen++
	return w.pollVerifier(0)
}

// Unmount releases the outside-click listener and orphans every pending timer
// and collaborator callback.
func (w *Widget) Unmount() {
	w.Close()
	w.mounted = false
	w.mountGen++
	w.phaseGen++
	w.submissionID = ""
}

// Mounted reports whether the widget is live.
func (w *Widget) Mounted() bool { return w.mounted }

// Disabled reports whether the widget suppresses all rendering and interaction.
func (w *Widget) Disabled() bool { return w.opts.Disabled }

// Document returns the document the outside-click listener is registered on.
func (w *Widget) Document() *pointer.Document { return w.doc }

// SetBounds records where the widget's root node is drawn.
func (w *Widget) SetBounds(r pointer.Rect) { w.bounds = r }

// Bounds returns the last recorded root node region.
func (w *Widget) Bounds() pointer.Rect { return w.bounds }

// ImageUploadEnabled reports whether an upload collaborator is configured.
func (w *Widget) ImageUploadEnabled() bool { return w.opts.OnImageUpload != nil }

// State returns a snapshot of the current state.
func (w *Widget) State() State {
	return State{
		IsOpen:           w.open,
		Phase:            w.phase,
		ErrorMessage:     w.errorMessage,
		UploadingImage:   w.uploading,
		SelectedCategory: w.category,
		AttachedImage:    w.image,
		Verified:         w.isVerified,
		Fields:           w.fields,
	}
}

// SetName updates the name field.
func (w *Widget) SetName(v string) {
	if !w.opts.Disabled {
		w.fields.Name = v
	}
}

// SetEmail updates the email field.
func (w *Widget) SetEmail(v string) {
	if !w.opts.Disabled {
		w.fields.Email = v
	}
}

// SetMessage updates the message field.
func (w *Widget) SetMessage(v string) {
	if !w.opts.Disabled {
		w.fields.Message = v
	}
}

// SelectCategory changes the selected category. It is allowed in every
// submission phase.
func (w *Widget) SelectCategory(c Category) error {
	if w.opts.Disabled {
		return ErrDisabled
	}
	if !c.Valid() {
		return ErrUnknownCategory
	}
	w.category = c
	return nil
}

// Update routes timer and collaborator messages to their transitions.
func (w *Widget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case verifierPollMsg:
		return w.handleVerifierPoll(msg)
	case dismissMsg:
		w.handleDismiss(msg)
	case SentMsg:
		if !w.currentSubmission(msg.ID) {
			logger.Debug("Dropped stale sent callback", "id", msg.ID)
			return nil
		}
		return w.Sent()
	case ErrorMsg:
		if !w.currentSubmission(msg.ID) {
			logger.Debug("Dropped stale error callback", "id", msg.ID, "error", msg.Err)
			return nil
		}
		return w.Error(msg.Err)
	case ImageUploadedMsg:
		if !w.currentUpload(msg.ID) {
			logger.Debug("Dropped stale image upload", "id", msg.ID)
			return nil
		}
		return w.ImageUploaded(msg.URL)
	case UploadErrorMsg:
		if !w.currentUpload(msg.ID) {
			logger.Debug("Dropped stale upload error", "id", msg.ID, "error", msg.Err)
			return nil
		}
		return w.UploadError(msg.Err)
	}
	return nil
}

func (w *Widget) setPhase(p Phase, message string) {
	w.phase = p
	w.errorMessage = message
	w.phaseGen++
}

func (w *Widget) scheduleDismiss(d time.Duration) tea.Cmd {
	gen := w.phaseGen
	return tickFunc(d, func(time.Time) tea.Msg {
		return dismissMsg{gen: gen}
	})
}

func (w *Widget) handleDismiss(msg dismissMsg) {
	if !w.mounted || msg.gen != w.phaseGen {
		return
	}
	if w.phase == PhaseSent || w.phase == PhaseError {
		w.setPhase(PhaseIdle, "")
	}
}

func alert(text string) tea.Cmd {
	return func() tea.Msg { return AlertMsg{Text: text} }
}
