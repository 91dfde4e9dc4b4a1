package challenge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/julianstephens/slackfeedback/internal/widget"
)

// Compile-time interface checks.
var (
	_ widget.Verifier = (*Challenge)(nil)
	_ widget.Resetter = (*Challenge)(nil)
)

func fixedQuestions(t *testing.T) {
	t.Helper()
	old := newQuestion
	n := 0
	newQuestion = func() (string, int) {
		n++
		return fmt.Sprintf("%d + 1", n), n + 1
	}
	t.Cleanup(func() { newQuestion = old })
}

func loaded(t *testing.T) *Challenge {
	t.Helper()
	c := New()
	if msg := c.Load()(); msg != (LoadedMsg{}) {
		t.Fatalf("Load() message = %#v", msg)
	}
	return c
}

func TestReadyAfterLoad(t *testing.T) {
	fixedQuestions(t)
	c := New()
	if c.Ready() {
		t.Fatal("challenge ready before Load")
	}
	if err := c.Render("key", nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("Render() before Load error = %v, want ErrNotReady", err)
	}
	c.Load()()
	if !c.Ready() {
		t.Fatal("challenge not ready after Load")
	}
	if c.Question() != "1 + 1" {
		t.Errorf("Question() = %q", c.Question())
	}
}

func TestRenderOnce(t *testing.T) {
	fixedQuestions(t)
	c := loaded(t)
	if err := c.Render("key", nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := c.Render("key", nil); !errors.Is(err, ErrAlreadyRendered) {
		t.Errorf("second Render() error = %v, want ErrAlreadyRendered", err)
	}
}

func TestAnswer(t *testing.T) {
	fixedQuestions(t)
	c := loaded(t)
	if _, err := c.Answer("2"); !errors.Is(err, ErrNotRendered) {
		t.Fatalf("Answer() before Render error = %v", err)
	}

	calls := 0
	if err := c.Render("key", func() { calls++ }); err != nil {
		t.Fatal(err)
	}

	ok, err := c.Answer("7")
	if err != nil || ok {
		t.Fatalf("wrong Answer() = %v, %v", ok, err)
	}
	if c.Question() != "2 + 1" {
		t.Errorf("wrong answer should draw a new question, got %q", c.Question())
	}
	if c.Response() != "" || calls != 0 {
		t.Fatal("wrong answer produced a token")
	}

	ok, err = c.Answer(" 3 ")
	if err != nil || !ok {
		t.Fatalf("correct Answer() = %v, %v", ok, err)
	}
	if c.Response() == "" || !c.Solved() {
		t.Error("correct answer should mint a token")
	}
	if calls != 1 {
		t.Errorf("completion callback ran %d times, want 1", calls)
	}

	token := c.Response()
	if ok, _ := c.Answer("3"); !ok || c.Response() != token || calls != 1 {
		t.Error("answering a solved challenge should change nothing")
	}
}

func TestReset(t *testing.T) {
	fixedQuestions(t)
	c := loaded(t)
	_ = c.Render("key", nil)
	_, _ = c.Answer("2")

	c.Reset()
	if c.Response() != "" {
		t.Error("Reset() kept the token")
	}
	if c.Question() != "2 + 1" {
		t.Errorf("Reset() question = %q, want a fresh one", c.Question())
	}
	if ok, _ := c.Answer("3"); !ok || c.Response() == "" {
		t.Error("challenge should be solvable again after Reset")
	}
}
