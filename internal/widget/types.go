package widget

import (
	"fmt"
	"strings"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

// Category is the kind of feedback being reported.
type Category string

const (
	CategoryBug         Category = "Bug"
	CategoryFeature     Category = "Feature"
	CategoryImprovement Category = "Improvement"
)

// Categories returns the selectable categories in display order.
func Categories() []Category {
	return []Category{CategoryBug, CategoryFeature, CategoryImprovement}
}

// Color returns the Slack severity color for the category.
func (c Category) Color() string {
	switch c {
	case CategoryBug:
		return constants.ColorDanger
	case CategoryFeature:
		return constants.ColorGood
	case CategoryImprovement:
		return constants.ColorWarning
	default:
		return ""
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.Color() != ""
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown feedback category %q (want Bug, Feature or Improvement)", s)
}

// Phase is the submission lifecycle state. Holding it in a single field keeps
// sending, sent and error mutually exclusive.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseSent
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseSent:
		return "sent"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ImageFile is the locally selected image handed to the upload collaborator.
type ImageFile struct {
	Name string
	Path string
	MIME string
	Data []byte
}

// ImageRef is the widget's view of the attached image. File is dropped once
// the upload resolves; only the preview and the hosted URL are kept.
type ImageRef struct {
	ID          string
	File        *ImageFile
	PreviewURL  string
	ResolvedURL string
}

// Empty reports whether no image is attached.
func (r ImageRef) Empty() bool {
	return r.ID == "" && r.PreviewURL == ""
}

// Fields holds the free-text form inputs.
type Fields struct {
	Name    string
	Email   string
	Message string
}

// State is a snapshot of the widget state.
type State struct {
	IsOpen           bool
	Phase            Phase
	ErrorMessage     string
	UploadingImage   bool
	SelectedCategory Category
	AttachedImage    ImageRef
	Verified         bool
	Fields           Fields
}

func (s State) Sending() bool { return s.Phase == PhaseSending }
func (s State) Sent() bool    { return s.Phase == PhaseSent }

// Error returns the displayed error message, or "" outside the error phase.
func (s State) Error() string {
	if s.Phase != PhaseError {
		return ""
	}
	return s.ErrorMessage
}
