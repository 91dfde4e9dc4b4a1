package cli

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/slackfeedback/internal/widget"
)

func TestPayloadCmd(t *testing.T) {
	ctx, out := newTestContext(t)

	cmd := &PayloadCmd{
		Name:     "Alice",
		Email:    "alice@example.com",
		Message:  "The export button does nothing",
		Category: "feature",
		ImageURL: "https://files.example.com/shot.png",
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var p widget.Payload
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatalf("output is not a payload: %v\n%s", err, out.String())
	}
	if p.Channel != "#feedback" || p.Username != "Feedback Bot" || p.IconEmoji != ":speech_balloon:" {
		t.Errorf("payload header = %+v", p)
	}
	if len(p.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(p.Attachments))
	}
	a := p.Attachments[0]
	if a.Title != "Feature" || a.Color != "good" {
		t.Errorf("attachment title/color = %q/%q", a.Title, a.Color)
	}
	want := "*Name*: Alice\n*Email*: alice@example.com\n*Message*: The export button does nothing\n<https://app.example.com/settings>"
	if a.Text != want {
		t.Errorf("Text = %q, want %q", a.Text, want)
	}
	if a.ImageURL != "https://files.example.com/shot.png" {
		t.Errorf("ImageURL = %q", a.ImageURL)
	}
}

func TestPayloadCmd_UnknownCategory(t *testing.T) {
	ctx, _ := newTestContext(t)
	cmd := &PayloadCmd{Email: "a@example.com", Message: "hi", Category: "Praise"}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for an unknown category")
	}
}
