package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/slackfeedback/internal/widget"
)

// PayloadCmd prints the webhook body a submission would produce without
// sending it.
type PayloadCmd struct {
	Name     string `help:"Submitter name."`
	Email    string `help:"Submitter email." required:""`
	Message  string `help:"Feedback message." required:""`
	Category string `help:"Bug, Feature or Improvement." default:"Bug"`
	ImageURL string `help:"Hosted image URL to attach." name:"image-url"`
}

func (cmd *PayloadCmd) Run(ctx *Context) error {
	category, err := widget.ParseCategory(cmd.Category)
	if err != nil {
		return err
	}

	cfg := ctx.Config
	p := widget.BuildPayload(widget.Report{
		Channel:   cfg.Channel,
		Username:  cfg.User,
		IconEmoji: cfg.Emoji,
		Category:  category,
		Fields: widget.Fields{
			Name:    cmd.Name,
			Email:   cmd.Email,
			Message: cmd.Message,
		},
		PageURL:  cfg.Location(),
		ImageURL: cmd.ImageURL,
	})

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	fmt.Fprintln(ctx.out(), string(out))
	return nil
}
