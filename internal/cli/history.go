package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/truncate"

	"github.com/julianstephens/slackfeedback/internal/history"
)

const (
	historyTimeFormat = "2006-01-02 15:04"
	historyErrorWidth = 40
)

type HistoryCmd struct {
	Limit int `help:"Number of deliveries to show." default:"20"`
}

func (cmd *HistoryCmd) Run(ctx *Context) error {
	if cmd.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", cmd.Limit)
	}
	if err := ctx.OpenHistory(context.Background()); err != nil {
		return err
	}
	defer ctx.Close()

	entries, err := ctx.History.List(context.Background(), cmd.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(ctx.out(), "No deliveries recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.out(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tCHANNEL\tCATEGORY\tFROM\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format(historyTimeFormat),
			e.Channel,
			e.Category,
			from(e),
			status(e),
		)
	}
	return tw.Flush()
}

func from(e history.Entry) string {
	switch {
	case e.Author != "" && e.Email != "":
		return fmt.Sprintf("%s <%s>", e.Author, e.Email)
	case e.Email != "":
		return e.Email
	default:
		return e.Author
	}
}

func status(e history.Entry) string {
	s := string(e.Status)
	if e.Status == history.StatusError && e.Error != "" {
		s += ": " + truncate.StringWithTail(strings.ReplaceAll(e.Error, "\n", " "), historyErrorWidth, "…")
	}
	if e.ImageURL != "" {
		s += " (image)"
	}
	return s
}
