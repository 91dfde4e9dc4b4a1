package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/julianstephens/slackfeedback/internal/config"
	apperrors "github.com/julianstephens/slackfeedback/internal/errors"
	"github.com/julianstephens/slackfeedback/internal/history"
	"github.com/julianstephens/slackfeedback/internal/imagehost"
	"github.com/julianstephens/slackfeedback/internal/keyring"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/slack"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

// keyringGet is replaced in tests.
var keyringGet = keyring.GetWebhookURL

const recordTimeout = 5 * time.Second

type Context struct {
	Config  *config.Config
	History *history.Store
	Out     io.Writer

	// mu guards History against outcomes recorded from widget commands.
	mu sync.Mutex
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Webhook resolves the Slack webhook: flag or environment first, then the OS
// keyring.
func (c *Context) Webhook() (string, error) {
	if c.Config != nil && c.Config.Webhook != "" {
		if err := keyring.ValidateWebhookURL(c.Config.Webhook); err != nil {
			return "", err
		}
		return c.Config.Webhook, nil
	}

	webhook, err := keyringGet()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", apperrors.WithHint(slack.ErrNotConfigured,
				"Run 'slackfeedback init', 'slackfeedback webhook set <url>' or set SLACKFEEDBACK_WEBHOOK")
		}
		return "", err
	}
	return webhook, nil
}

// OpenHistory opens the delivery log if it is not open yet.
func (c *Context) OpenHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.History != nil {
		return nil
	}
	store, err := history.Open(ctx, c.Config.HistoryDSN())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	c.History = store
	return nil
}

// Close releases the delivery log.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.History == nil {
		return nil
	}
	err := c.History.Close()
	c.History = nil
	return err
}

// RecordOutcome appends a finished submission to the delivery log. The widget
// calls it from a command, so it runs beside the program loop. Failures are
// logged and never reach the user.
func (c *Context) RecordOutcome(o widget.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.History == nil {
		return
	}
	entry, err := history.FromOutcome(o)
	if err != nil {
		logger.Warn("Failed to build history entry", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := c.History.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record delivery", "id", entry.ID, "error", err)
	}
}

// WidgetOptions builds the widget configuration from the resolved config.
// submit is required; the image path is enabled only with an image host.
func (c *Context) WidgetOptions(submit widget.SubmitFunc) widget.Options {
	cfg := c.Config
	opts := widget.Options{
		Channel:         cfg.Channel,
		Username:        cfg.User,
		IconEmoji:       cfg.Emoji,
		SiteKey:         cfg.SiteKey,
		ButtonText:      cfg.ButtonText,
		ImageUploadText: cfg.ImageUploadText,
		Disabled:        cfg.Disabled,
		OnSubmit:        submit,
		Location:        cfg.Location,
		OnOutcome:       c.RecordOutcome,
	}
	if cfg.ImageHost != "" {
		opts.OnImageUpload = imagehost.NewUploader(cfg.ImageHost).UploadFunc()
	}
	return opts
}
