package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

var (
	// ErrNotFound is returned when no webhook URL is stored in the keyring
	ErrNotFound = errors.New("webhook URL not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrInvalidWebhookURL is returned when a value is not an https URL
	ErrInvalidWebhookURL = errors.New("webhook URL must be an absolute https URL")
)

// GetWebhookURL retrieves the Slack webhook URL from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func GetWebhookURL() (string, error) {
	webhook, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return webhook, nil
}

// SetWebhookURL validates and stores the Slack webhook URL in the OS keyring.
func SetWebhookURL(webhook string) error {
	if err := ValidateWebhookURL(webhook); err != nil {
		return err
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, webhook); err != nil {
		return fmt.Errorf("failed to store webhook URL in keyring: %w", err)
	}
	return nil
}

// DeleteWebhookURL removes the Slack webhook URL from the OS keyring.
func DeleteWebhookURL() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete webhook URL from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ValidateWebhookURL checks that a webhook is an absolute https URL.
func ValidateWebhookURL(webhook string) error {
	webhook = strings.TrimSpace(webhook)
	if webhook == "" {
		return errors.New("webhook URL cannot be empty")
	}
	u, err := url.Parse(webhook)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return ErrInvalidWebhookURL
	}
	return nil
}

// MaskWebhookURL hides the secret path of a webhook for display, keeping the
// host and the first path segment.
func MaskWebhookURL(webhook string) string {
	u, err := url.Parse(webhook)
	if err != nil || u.Host == "" {
		return "****"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return u.Scheme + "://" + u.Host
	}
	masked := u.Scheme + "://" + u.Host + "/" + segments[0]
	if len(segments) > 1 {
		masked += "/****"
	}
	return masked
}
