package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/slackfeedback/internal/config"
	apperrors "github.com/julianstephens/slackfeedback/internal/errors"
	"github.com/julianstephens/slackfeedback/internal/keyring"
)

func stubInitForm(t *testing.T, fn func(*InitFormModel) error) {
	t.Helper()
	old := runInitForm
	runInitForm = fn
	t.Cleanup(func() { runInitForm = old })
}

func TestInitCmd_WritesConfigAndKeyring(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteWebhookURL() }()

	ctx, out := newTestContext(t)
	var seen InitFormModel
	stubInitForm(t, func(fm *InitFormModel) error {
		seen = *fm
		fm.Channel = " #product-feedback "
		fm.Webhook = testWebhook
		fm.ImageHost = "https://images.example.com/upload"
		return nil
	})

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if seen.Channel != "#feedback" || seen.User != "Feedback Bot" {
		t.Errorf("form prefilled with %+v", seen)
	}

	file, err := config.Load(config.Path(ctx.Config.ConfigDir))
	if err != nil {
		t.Fatal(err)
	}
	if file.Channel != "#product-feedback" || file.ImageHost != "https://images.example.com/upload" {
		t.Errorf("saved config = %+v", file)
	}
	data, _ := os.ReadFile(config.Path(ctx.Config.ConfigDir))
	if strings.Contains(string(data), "hooks.slack.com") {
		t.Error("webhook must not be written to the config file")
	}

	stored, err := keyring.GetWebhookURL()
	if err != nil || stored != testWebhook {
		t.Errorf("keyring = %q, %v", stored, err)
	}
	if !strings.Contains(out.String(), "stored in OS keyring") {
		t.Errorf("output = %q", out.String())
	}
}

func TestInitCmd_ExistingConfig(t *testing.T) {
	ctx, _ := newTestContext(t)
	path := config.Path(ctx.Config.ConfigDir)
	if err := config.Save(path, config.File{Channel: "#old", History: "/var/lib/feedback.db"}); err != nil {
		t.Fatal(err)
	}
	stubInitForm(t, func(fm *InitFormModel) error { return nil })

	err := (&InitCmd{}).Run(ctx)
	if err == nil {
		t.Fatal("expected an error without --force")
	}
	if apperrors.Hint(err) == "" {
		t.Error("expected a --force hint")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("Run(force) error = %v", err)
	}
	file, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if file.History != "/var/lib/feedback.db" {
		t.Error("settings outside the wizard should be kept")
	}
	if file.Channel != "#feedback" {
		t.Errorf("Channel = %q, want #feedback", file.Channel)
	}
}

func TestInitCmd_Aborted(t *testing.T) {
	ctx, out := newTestContext(t)
	stubInitForm(t, func(*InitFormModel) error { return huh.ErrUserAborted })

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(config.Path(ctx.Config.ConfigDir)); !os.IsNotExist(err) {
		t.Error("aborted setup should not write a config")
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidateImageHost(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"https://images.example.com/upload", false},
		{"http://localhost:8080/upload", false},
		{"ftp://images.example.com", true},
		{"images.example.com", true},
	}
	for _, tt := range tests {
		if err := validateImageHost(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateImageHost(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
