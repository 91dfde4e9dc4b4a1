// Package imagehost uploads screenshots to a file host that answers a
// multipart upload with the public URL of the stored file.
package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

var (
	// ErrUploadRejected is returned when the host refuses the file or answers
	// with something other than a URL.
	ErrUploadRejected = errors.New("image host rejected the upload")
	// ErrNotImage is returned by LoadImage for files that are not images.
	ErrNotImage = errors.New("file is not an image")
	// ErrTooLarge is returned by LoadImage for files over the size limit.
	ErrTooLarge = errors.New("image is too large")
)

// Uploader posts files to one upload endpoint.
type Uploader struct {
	endpoint   string
	httpClient *http.Client
}

// NewUploader creates an uploader for endpoint.
func NewUploader(endpoint string) *Uploader {
	return &Uploader{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: constants.UploadTimeout},
	}
}

// WithHTTPClient replaces the HTTP client used for uploads.
func (u *Uploader) WithHTTPClient(hc *http.Client) *Uploader {
	u.httpClient = hc
	return u
}

// Upload sends f and returns the hosted URL.
func (u *Uploader) Upload(ctx context.Context, f widget.ImageFile) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("reqtype", "fileupload"); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := writer.CreateFormFile("fileToUpload", filepath.Base(f.Name))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	result := strings.TrimSpace(string(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadRejected, resp.StatusCode, result)
	}
	if !strings.HasPrefix(result, "https://") && !strings.HasPrefix(result, "http://") {
		return "", fmt.Errorf("%w: %s", ErrUploadRejected, result)
	}

	logger.Info("Uploaded image", "name", f.Name, "url", result)
	return result, nil
}

// UploadFunc adapts the uploader to the widget's upload collaborator.
func (u *Uploader) UploadFunc() widget.ImageUploadFunc {
	return func(ctx context.Context, f widget.ImageFile) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, constants.UploadTimeout)
		defer cancel()
		return u.Upload(ctx, f)
	}
}

// LoadImage reads an image from disk for attachment.
func LoadImage(path string) (widget.ImageFile, error) {
	path = strings.TrimSpace(path)
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return widget.ImageFile{}, fmt.Errorf("failed to open image: %w", err)
	}
	if info.IsDir() {
		return widget.ImageFile{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > constants.MaxImageBytes {
		return widget.ImageFile{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), constants.MaxImageBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return widget.ImageFile{}, fmt.Errorf("failed to read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return widget.ImageFile{}, fmt.Errorf("%w: %s is %s", ErrNotImage, filepath.Base(path), mime)
	}

	return widget.ImageFile{
		Name: filepath.Base(path),
		Path: path,
		MIME: mime,
		Data: data,
	}, nil
}
