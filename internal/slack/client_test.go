package slack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julianstephens/slackfeedback/internal/widget"
)

// Compile-time interface check.
var _ widget.StatusCoder = (*StatusError)(nil)

func samplePayload() widget.Payload {
	return widget.BuildPayload(widget.Report{
		Channel:   "#feedback",
		Username:  "Acme App",
		IconEmoji: ":speech_balloon:",
		Category:  widget.CategoryBug,
		Fields:    widget.Fields{Name: "Alice", Email: "a@x.com", Message: "It crashes"},
		PageURL:   "https://app.example.com/x",
	})
}

func TestSendNotConfigured(t *testing.T) {
	c := NewClient("")
	if c.Configured() {
		t.Fatal("expected Configured() = false")
	}
	if err := c.Send(context.Background(), samplePayload()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendSuccess(t *testing.T) {
	var got widget.Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Send(context.Background(), samplePayload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Channel != "#feedback" || len(got.Attachments) != 1 || got.Attachments[0].Color != "danger" {
		t.Errorf("server received %+v", got)
	}
}

func TestSendStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusBadRequest, "invalid_payload", "Bad Request!"},
		{http.StatusForbidden, "action_prohibited", "Forbidden!"},
		{http.StatusNotFound, "channel_not_found", "Channel Not Found!"},
		{http.StatusGone, "channel_is_archived", "Channel is Archived!"},
		{http.StatusInternalServerError, "rollup_error", "Server Error!"},
		{http.StatusTooManyRequests, "rate_limited", "Unexpected Error!"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL).SubmitFunc()(context.Background(), samplePayload())
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StatusError, got %v", err)
			}
			if se.Code != tt.status || se.Body != tt.body {
				t.Errorf("StatusError = %+v", se)
			}
			if got := widget.DetermineErrorType(err); got != tt.want {
				t.Errorf("DetermineErrorType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewClient(url).Send(context.Background(), samplePayload())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if got := widget.DetermineErrorType(err); got != "Unexpected Error!" {
		t.Errorf("DetermineErrorType() = %q, want Unexpected Error!", got)
	}
}
