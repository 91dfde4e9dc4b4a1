package widget

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeVerifier struct {
	ready    bool
	response string
	renders  int
	resets   int
	siteKey  string
	callback func()
}

func (f *fakeVerifier) Ready() bool { return f.ready }

func (f *fakeVerifier) Render(siteKey string, onVerified func()) error {
	f.renders++
	f.siteKey = siteKey
	f.callback = onVerified
	return nil
}

func (f *fakeVerifier) Response() string { return f.response }

func (f *fakeVerifier) Reset() {
	f.resets++
	f.response = ""
}

// solve simulates the user passing the challenge.
func (f *fakeVerifier) solve() {
	f.response = "token"
	if f.callback != nil {
		f.callback()
	}
}

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("webhook returned %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

type scheduled struct {
	delay time.Duration
	cmd   tea.Cmd
}

// captureTicks replaces the timer seam so scheduled messages can be delivered
// by hand instead of after a real delay.
func captureTicks(t *testing.T) *[]scheduled {
	t.Helper()
	var ticks []scheduled
	old := tickFunc
	tickFunc = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		cmd := func() tea.Msg { return fn(time.Now()) }
		ticks = append(ticks, scheduled{delay: d, cmd: cmd})
		return cmd
	}
	t.Cleanup(func() { tickFunc = old })
	return &ticks
}

type harness struct {
	w        *Widget
	verifier *fakeVerifier
	ticks    *[]scheduled
	payloads []Payload
	uploads  []ImageFile
	outcomes []Outcome
	// submitErr is returned by the submit collaborator when set.
	submitErr error
	// uploadURL and uploadErr drive the upload collaborator.
	uploadURL string
	uploadErr error
}

const testPage = "https://app.example.com/settings?tab=profile"

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		verifier:  &fakeVerifier{ready: true},
		ticks:     captureTicks(t),
		uploadURL: "https://files.example.com/shot.png",
	}
	opts := Options{
		Channel:   "#feedback",
		Username:  "Acme App",
		IconEmoji: ":speech_balloon:",
		SiteKey:   "site-key",
		Verifier:  h.verifier,
		OnSubmit: func(_ context.Context, p Payload) error {
			h.payloads = append(h.payloads, p)
			return h.submitErr
		},
		OnImageUpload: func(_ context.Context, f ImageFile) (string, error) {
			h.uploads = append(h.uploads, f)
			return h.uploadURL, h.uploadErr
		},
		Location:  func() string { return testPage },
		OnOutcome: func(o Outcome) { h.outcomes = append(h.outcomes, o) },
	}
	for _, m := range mutate {
		m(&opts)
	}

	w, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.w = w

	// Mount and deliver the first readiness poll.
	h.run(w.Mount())
	return h
}

// run executes cmd and feeds its message back into the widget, returning the
// message and any follow-up command.
func (h *harness) run(cmd tea.Cmd) (tea.Msg, tea.Cmd) {
	if cmd == nil {
		return nil, nil
	}
	msg := cmd()
	return msg, h.w.Update(msg)
}

// exec runs cmd and every command batched inside it, returning the non-nil
// messages in order.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, exec(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle runs the commands returned when a submission finishes and returns
// the dismiss timer's message.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	for _, msg := range exec(cmd) {
		if d, ok := msg.(dismissMsg); ok {
			return d
		}
	}
	t.Fatal("no dismiss timer was scheduled")
	return nil
}

func (h *harness) lastTick(t *testing.T) scheduled {
	t.Helper()
	if len(*h.ticks) == 0 {
		t.Fatal("no timer was scheduled")
	}
	return (*h.ticks)[len(*h.ticks)-1]
}

func (h *harness) fill(name, email, message string) {
	h.w.SetName(name)
	h.w.SetEmail(email)
	h.w.SetMessage(message)
}
