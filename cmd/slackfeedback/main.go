package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/slackfeedback/internal/cli"
	"github.com/julianstephens/slackfeedback/internal/config"
	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/errors"
	"github.com/julianstephens/slackfeedback/internal/logger"
)

var CLI struct {
	config.Config `embed:""`

	Version kong.VersionFlag

	Tui     cli.TuiCmd     `cmd:"" help:"Launch the feedback widget." default:"1"`
	Init    cli.InitCmd    `cmd:"" help:"Create a config file and store the webhook."`
	Webhook cli.WebhookCmd `cmd:"" help:"Manage the Slack webhook stored in the OS keyring."`
	History cli.HistoryCmd `cmd:"" help:"Show recent feedback deliveries."`
	Payload cli.PayloadCmd `cmd:"" help:"Print the webhook payload a submission would send."`
	Backup  cli.BackupCmd  `cmd:"" help:"Manage delivery history snapshots."`
}

func main() {
	vars := config.Vars()
	vars["version"] = constants.Version

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal feedback widget that posts to Slack"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAML, config.SearchPaths()...),
		vars,
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: CLI.ConfigDir, Console: os.Stderr}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	if err := CLI.Config.Validate(); err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{Config: &CLI.Config}
	errors.Fatal(ctx.Run(appCtx))
}
