package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/slackfeedback/internal/challenge"
	"github.com/julianstephens/slackfeedback/internal/config"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/slack"
	"github.com/julianstephens/slackfeedback/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	webhook, err := ctx.Webhook()
	if err != nil {
		return err
	}

	// The delivery log is optional; the widget works without it.
	if err := ctx.OpenHistory(context.Background()); err != nil {
		logger.Warn("Delivery history unavailable", "error", err)
	}
	defer func() {
		if err := ctx.Close(); err != nil {
			logger.Warn("Failed to close history", "error", err)
		}
	}()

	model, err := buildModel(ctx, slack.NewClient(webhook))
	if err != nil {
		return err
	}
	if err := tui.Run(model); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}

func buildModel(ctx *Context, client *slack.Client) (tui.Model, error) {
	triggerStyle, err := config.TriggerStyle(ctx.Config.TriggerStyle)
	if err != nil {
		return tui.Model{}, fmt.Errorf("trigger style: %w", err)
	}
	panelStyle, err := config.PanelStyle(ctx.Config.PanelStyle)
	if err != nil {
		return tui.Model{}, fmt.Errorf("panel style: %w", err)
	}

	return tui.NewModel(tui.Config{
		Widget:       ctx.WidgetOptions(client.SubmitFunc()),
		Challenge:    challenge.New(),
		TriggerStyle: &triggerStyle,
		PanelStyle:   &panelStyle,
	})
}
