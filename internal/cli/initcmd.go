package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slackfeedback/internal/config"
	apperrors "github.com/julianstephens/slackfeedback/internal/errors"
	"github.com/julianstephens/slackfeedback/internal/keyring"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// InitFormModel holds the wizard answers.
type InitFormModel struct {
	Channel   string
	User      string
	Emoji     string
	Webhook   string
	ImageHost string
}

// runInitForm is replaced in tests.
var runInitForm = func(fm *InitFormModel) error {
	return NewInitForm(fm).Run()
}

func (c *InitCmd) Run(ctx *Context) error {
	path := config.Path(ctx.Config.ConfigDir)
	if _, err := os.Stat(path); err == nil && !c.Force {
		return apperrors.WithHint(fmt.Errorf("config already exists at %s", path),
			"Use --force to overwrite it")
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access config: %w", err)
	}

	fm := &InitFormModel{
		Channel:   ctx.Config.Channel,
		User:      ctx.Config.User,
		Emoji:     ctx.Config.Emoji,
		ImageHost: ctx.Config.ImageHost,
	}
	if err := runInitForm(fm); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(ctx.out(), "Setup cancelled.")
			return nil
		}
		return err
	}
	return c.write(ctx, path, fm)
}

// write saves the answers, keeping any file settings the wizard does not ask
// about. The webhook goes to the keyring, never to disk.
func (c *InitCmd) write(ctx *Context, path string, fm *InitFormModel) error {
	file, err := config.Load(path)
	if err != nil {
		return err
	}
	file.Channel = strings.TrimSpace(fm.Channel)
	file.User = strings.TrimSpace(fm.User)
	file.Emoji = strings.TrimSpace(fm.Emoji)
	file.ImageHost = strings.TrimSpace(fm.ImageHost)

	if err := config.Save(path, file); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "✓ Wrote config to %s\n", path)

	if webhook := strings.TrimSpace(fm.Webhook); webhook != "" {
		if err := keyring.SetWebhookURL(webhook); err != nil {
			return apperrors.WithHint(err,
				"Set SLACKFEEDBACK_WEBHOOK instead if no keyring is available")
		}
		fmt.Fprintln(ctx.out(), "✓ Webhook URL stored in OS keyring")
	}
	return nil
}

// NewInitForm creates the setup wizard
func NewInitForm(fm *InitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Channel").
				Description("Slack channel feedback is posted to").
				Value(&fm.Channel).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("channel cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Bot name").
				Value(&fm.User),
			huh.NewInput().
				Title("Icon emoji").
				Value(&fm.Emoji),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Webhook URL").
				Description("Slack incoming webhook; leave empty to keep the stored one").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Webhook).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return keyring.ValidateWebhookURL(s)
				}),
			huh.NewInput().
				Title("Image host").
				Description("Upload endpoint for screenshots; leave empty to disable").
				Value(&fm.ImageHost).
				Validate(validateImageHost),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateImageHost(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image host must be an absolute http(s) URL")
	}
	return nil
}
