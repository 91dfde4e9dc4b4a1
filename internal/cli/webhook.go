package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/slackfeedback/internal/keyring"
)

type WebhookCmd struct {
	Set    WebhookSetCmd    `cmd:"" help:"Store the Slack webhook URL in the OS keyring."`
	Get    WebhookGetCmd    `cmd:"" help:"Show the stored webhook URL (masked)."`
	Delete WebhookDeleteCmd `cmd:"" help:"Remove the webhook URL from the OS keyring."`
	Status WebhookStatusCmd `cmd:"" help:"Check keyring availability."`
}

// WebhookSetCmd stores the Slack webhook URL in the OS keyring
type WebhookSetCmd struct {
	URL string `arg:"" help:"Slack incoming webhook URL."`
}

func (cmd *WebhookSetCmd) Run(ctx *Context) error {
	if err := keyring.SetWebhookURL(cmd.URL); err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), "✓ Webhook URL stored in OS keyring")
	return nil
}

// WebhookGetCmd prints the stored webhook with its secret path masked
type WebhookGetCmd struct{}

func (cmd *WebhookGetCmd) Run(ctx *Context) error {
	webhook, err := keyringGet()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no webhook URL found in keyring. Use 'slackfeedback webhook set' to store one")
		}
		return fmt.Errorf("failed to retrieve webhook URL from keyring: %w", err)
	}
	fmt.Fprintln(ctx.out(), keyring.MaskWebhookURL(webhook))
	return nil
}

// WebhookDeleteCmd removes the webhook from the OS keyring
type WebhookDeleteCmd struct{}

func (cmd *WebhookDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteWebhookURL(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no webhook URL found in keyring")
		}
		return err
	}
	fmt.Fprintln(ctx.out(), "✓ Webhook URL deleted from OS keyring")
	return nil
}

// WebhookStatusCmd checks the availability of the OS keyring
type WebhookStatusCmd struct{}

func (cmd *WebhookStatusCmd) Run(ctx *Context) error {
	w := ctx.out()
	if !keyring.IsAvailable() {
		fmt.Fprintln(w, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Fprintln(w, "✓ OS keyring is available")

	_, err := keyringGet()
	switch {
	case err == nil:
		fmt.Fprintln(w, "✓ Webhook URL is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Fprintln(w, "ℹ No webhook URL stored in keyring")
	default:
		return err
	}
	return nil
}
