package widget

import (
	"context"
	"net/url"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
)

// AttachImage shows a local preview of f, marks the upload as in flight and
// hands f to the upload collaborator. The returned command reports back with
// ImageUploadedMsg or UploadErrorMsg.
func (w *Widget) AttachImage(f ImageFile) (tea.Cmd, error) {
	if w.opts.Disabled {
		return nil, ErrDisabled
	}
	if w.opts.OnImageUpload == nil {
		return nil, ErrImageUploadUnavailable
	}

	id := uuid.NewString()
	file := f
	w.image = ImageRef{
		ID:         id,
		File:       &file,
		PreviewURL: previewURL(f),
	}
	w.uploading = true
	logger.Debug("Attached image", "id", id, "name", f.Name, "bytes", len(f.Data))

	upload := w.opts.OnImageUpload
	return func() tea.Msg {
		hosted, err := upload(context.Background(), file)
		if err != nil {
			return UploadErrorMsg{ID: id, Err: err}
		}
		return ImageUploadedMsg{ID: id, URL: hosted}
	}, nil
}

// ImageUploaded merges the hosted URL into the current attachment. An unusable
// URL is logged and the attachment removed. With no upload in flight the call
// is ignored.
func (w *Widget) ImageUploaded(hosted string) tea.Cmd {
	if w.image.Empty() || !w.uploading {
		logger.Debug("Ignored image URL with no upload in flight")
		return nil
	}
	if !validImageURL(hosted) {
		logger.Error("Image upload returned an invalid URL", "error", ErrInvalidImageURL, "url", hosted)
		w.RemoveImage()
		return nil
	}

	w.image = ImageRef{
		ID:          w.image.ID,
		PreviewURL:  w.image.PreviewURL,
		ResolvedURL: hosted,
	}
	w.uploading = false
	return nil
}

// UploadError drops the attachment and shows a transient upload error. While
// a submission is sending the error is only logged, since the submit button
// already shows the sending state.
func (w *Widget) UploadError(err error) tea.Cmd {
	if w.image.Empty() || !w.uploading {
		logger.Debug("Ignored upload error with no upload in flight", "error", err)
		return nil
	}
	logger.Warn("Image upload failed", "error", err)
	w.RemoveImage()

	if w.phase == PhaseSending {
		return nil
	}
	w.setPhase(PhaseError, constants.ErrUploadingImage)
	return w.scheduleDismiss(constants.UploadErrorDismissDelay)
}

// RemoveImage clears the attachment. An upload still in flight is not
// cancelled; its result will be dropped when it arrives.
func (w *Widget) RemoveImage() {
	w.image = ImageRef{}
	w.uploading = false
}

func (w *Widget) currentUpload(id string) bool {
	return w.mounted && id != "" && id == w.image.ID
}

func validImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func previewURL(f ImageFile) string {
	path := f.Path
	if path == "" {
		path = f.Name
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
