package widget

import (
	"errors"
	"net/http"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

var (
	// ErrDisabled is returned by operations attempted while the widget is disabled.
	ErrDisabled = errors.New("feedback widget is disabled")
	// ErrImageUploadUnavailable is returned by AttachImage when no upload collaborator is configured.
	ErrImageUploadUnavailable = errors.New("image upload is not configured")
	// ErrInvalidImageURL is logged when an upload completes with something that is not a usable URL.
	ErrInvalidImageURL = errors.New("uploaded image URL must be an absolute http(s) URL")
	// ErrUnknownCategory is returned by SelectCategory for values outside the category set.
	ErrUnknownCategory = errors.New("unknown feedback category")
)

// StatusCoder is implemented by transport errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// DetermineErrorType maps a submission failure to its display string.
// Errors without a status code, including nil, are unexpected.
func DetermineErrorType(err error) string {
	var sc StatusCoder
	if err == nil || !errors.As(err, &sc) {
		return constants.ErrUnexpected
	}

	switch sc.StatusCode() {
	case http.StatusBadRequest:
		return constants.ErrBadRequest
	case http.StatusForbidden:
		return constants.ErrForbidden
	case http.StatusNotFound:
		return constants.ErrChannelNotFound
	case http.StatusGone:
		return constants.ErrChannelArchived
	case http.StatusInternalServerError:
		return constants.ErrServerError
	default:
		return constants.ErrUnexpected
	}
}
