package widget

import "github.com/julianstephens/slackfeedback/internal/constants"

// ImageSlot is what the image area of the panel shows.
type ImageSlot int

const (
	// ImageSlotHidden means no upload collaborator is configured.
	ImageSlotHidden ImageSlot = iota
	ImageSlotAttach
	ImageSlotUploading
	ImageSlotPreview
)

// Projection is the render-ready view of the widget. It is derived from state
// and has no effect on it.
type Projection struct {
	Visible         bool
	Open            bool
	ButtonText      string
	ImageUploadText string
	Category        Category
	Fields          Fields

	SubmitLabel    string
	SubmitDisabled bool
	SubmitSent     bool
	SubmitError    bool

	Image      ImageSlot
	PreviewURL string

	ShowVerifier bool
	Verified     bool
}

// Render projects the current state for display. A disabled widget projects
// as invisible.
func (w *Widget) Render() Projection {
	if w.opts.Disabled {
		return Projection{}
	}

	p := Projection{
		Visible:         true,
		Open:            w.open,
		ButtonText:      w.opts.ButtonText,
		ImageUploadText: w.opts.ImageUploadText,
		Category:        w.category,
		Fields:          w.fields,
		SubmitLabel:     SubmitLabel(w.phase, w.errorMessage),
		SubmitDisabled:  w.phase == PhaseSending || w.uploading,
		SubmitSent:      w.phase == PhaseSent,
		SubmitError:     w.phase == PhaseError,
		ShowVerifier:    w.verifierRendered,
		Verified:        w.isVerified,
	}

	switch {
	case w.opts.OnImageUpload == nil:
		p.Image = ImageSlotHidden
	case w.image.PreviewURL == "":
		p.Image = ImageSlotAttach
	case w.uploading:
		p.Image = ImageSlotUploading
		p.PreviewURL = w.image.PreviewURL
	default:
		p.Image = ImageSlotPreview
		p.PreviewURL = w.image.PreviewURL
	}
	return p
}

// SubmitLabel returns the submit button text for a phase.
func SubmitLabel(phase Phase, errorMessage string) string {
	switch phase {
	case PhaseSending:
		return constants.SubmitLabelSending
	case PhaseSent:
		return constants.SubmitLabelSent
	case PhaseError:
		return errorMessage
	default:
		return constants.SubmitLabelIdle
	}
}
