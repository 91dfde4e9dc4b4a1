package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/slackfeedback/internal/config"
	apperrors "github.com/julianstephens/slackfeedback/internal/errors"
	"github.com/julianstephens/slackfeedback/internal/keyring"
	"github.com/julianstephens/slackfeedback/internal/slack"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

const testWebhook = "https://hooks.slack.com/services/T000/B000/XXXXXXXX"

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	ctx := &Context{
		Config: &config.Config{
			Channel:         "#feedback",
			User:            "Feedback Bot",
			Emoji:           ":speech_balloon:",
			ButtonText:      "Slack Feedback",
			ImageUploadText: "Attach Image",
			SiteKey:         "test-key",
			PageURL:         "https://app.example.com/settings",
			ConfigDir:       dir,
			History:         filepath.Join(dir, "history.db"),
		},
		Out: &out,
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, &out
}

func stubKeyring(t *testing.T, webhook string, err error) {
	t.Helper()
	old := keyringGet
	keyringGet = func() (string, error) { return webhook, err }
	t.Cleanup(func() { keyringGet = old })
}

func TestContextWebhook(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		stored     string
		storedErr  error
		want       string
		wantErr    error
		wantHinted bool
	}{
		{name: "flag wins", flag: testWebhook, stored: "https://hooks.slack.com/services/other", want: testWebhook},
		{name: "flag must be https", flag: "http://hooks.slack.com/services/x", wantErr: keyring.ErrInvalidWebhookURL},
		{name: "keyring fallback", stored: testWebhook, want: testWebhook},
		{name: "nothing configured", storedErr: keyring.ErrNotFound, wantErr: slack.ErrNotConfigured, wantHinted: true},
		{name: "keyring unavailable", storedErr: keyring.ErrKeyringUnavailable, wantErr: keyring.ErrKeyringUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubKeyring(t, tt.stored, tt.storedErr)
			ctx, _ := newTestContext(t)
			ctx.Config.Webhook = tt.flag

			got, err := ctx.Webhook()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Webhook() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantHinted && apperrors.Hint(err) == "" {
					t.Error("expected a hint on the error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Webhook() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Webhook() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordOutcome(t *testing.T) {
	ctx, _ := newTestContext(t)
	if err := ctx.OpenHistory(context.Background()); err != nil {
		t.Fatalf("OpenHistory() error = %v", err)
	}

	fields := widget.Fields{Name: "Alice", Email: "alice@example.com", Message: "More themes"}
	payload := widget.BuildPayload(widget.Report{
		Channel:  "#feedback",
		Username: "Feedback Bot",
		Category: widget.CategoryFeature,
		Fields:   fields,
		PageURL:  "https://app.example.com/settings",
	})
	ctx.RecordOutcome(widget.Outcome{SubmissionID: "sub-1", Payload: payload, Fields: fields, At: time.Now()})
	ctx.RecordOutcome(widget.Outcome{
		SubmissionID: "sub-2",
		Payload:      payload,
		Fields:       fields,
		Err:          errors.New("webhook returned 404"),
		Message:      "Channel Not Found!",
		At:           time.Now().Add(time.Second),
	})

	entries, err := ctx.History.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "sub-2" || entries[0].Error != "Channel Not Found!" {
		t.Errorf("newest entry = %+v", entries[0])
	}
	if entries[1].Email != "alice@example.com" || entries[1].Category != "Feature" {
		t.Errorf("oldest entry = %+v", entries[1])
	}
}

func TestRecordOutcomeWithoutHistory(t *testing.T) {
	ctx, _ := newTestContext(t)
	// Must not panic.
	ctx.RecordOutcome(widget.Outcome{SubmissionID: "sub-1"})
}

func TestWidgetOptions(t *testing.T) {
	ctx, _ := newTestContext(t)
	submit := func(context.Context, widget.Payload) error { return nil }

	opts := ctx.WidgetOptions(submit)
	if opts.OnImageUpload != nil {
		t.Error("image upload should be disabled without an image host")
	}
	if opts.Channel != "#feedback" || opts.Username != "Feedback Bot" || opts.SiteKey != "test-key" {
		t.Errorf("opts = %+v", opts)
	}
	if got := opts.Location(); got != "https://app.example.com/settings" {
		t.Errorf("Location() = %q", got)
	}
	if opts.OnOutcome == nil {
		t.Error("outcomes should be recorded")
	}

	ctx.Config.ImageHost = "https://images.example.com/upload"
	if ctx.WidgetOptions(submit).OnImageUpload == nil {
		t.Error("image upload should be enabled with an image host")
	}
}

func TestBuildModel(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Config.PanelStyle = map[string]string{"border": "double"}

	m, err := buildModel(ctx, slack.NewClient(testWebhook))
	if err != nil {
		t.Fatalf("buildModel() error = %v", err)
	}
	if m.Widget() == nil {
		t.Fatal("model has no widget")
	}

	ctx.Config.TriggerStyle = map[string]string{"border": "zigzag"}
	if _, err := buildModel(ctx, slack.NewClient(testWebhook)); err == nil {
		t.Error("expected an error for an unknown border")
	}
}
