// Package challenge is a terminal human-verification challenge. It plays the
// part of an externally loaded verification widget: it becomes ready some time
// after loading, renders once, and hands out a response token when solved.
package challenge

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/julianstephens/slackfeedback/internal/logger"
)

var (
	// ErrAlreadyRendered is returned by Render on a challenge that is already shown.
	ErrAlreadyRendered = errors.New("challenge already rendered")
	// ErrNotReady is returned by Render before Load has completed.
	ErrNotReady = errors.New("challenge is not loaded")
	// ErrNotRendered is returned by Answer before Render.
	ErrNotRendered = errors.New("challenge is not rendered")
)

// LoadedMsg is sent once the challenge can be rendered.
type LoadedMsg struct{}

// newQuestion draws an addition question and its answer.
var newQuestion = func() (string, int) {
	a := rand.IntN(9) + 1
	b := rand.IntN(9) + 1
	return fmt.Sprintf("%d + %d", a, b), a + b
}

// Challenge is safe for use from the program loop and from commands.
type Challenge struct {
	mu         sync.Mutex
	ready      bool
	rendered   bool
	siteKey    string
	question   string
	answer     int
	token      string
	onVerified func()
}

// New creates an unloaded challenge.
func New() *Challenge {
	return &Challenge{}
}

// Load prepares the first question and marks the challenge ready.
func (c *Challenge) Load() tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		c.question, c.answer = newQuestion()
		c.ready = true
		c.mu.Unlock()
		logger.Debug("Verification challenge loaded")
		return LoadedMsg{}
	}
}

// Ready reports whether Load has completed.
func (c *Challenge) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Render shows the challenge. onVerified runs each time it is solved.
func (c *Challenge) Render(siteKey string, onVerified func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return ErrNotReady
	}
	if c.rendered {
		return ErrAlreadyRendered
	}
	c.rendered = true
	c.siteKey = siteKey
	c.onVerified = onVerified
	return nil
}

// Rendered reports whether Render has been called.
func (c *Challenge) Rendered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendered
}

// Question returns the prompt to display.
func (c *Challenge) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.question
}

// Response returns the token minted by the last correct answer, or "".
func (c *Challenge) Response() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Solved reports whether a response token is held.
func (c *Challenge) Solved() bool {
	return c.Response() != ""
}

// Answer checks s against the current question. A wrong answer draws a new
// question. Answering an already solved challenge is a no-op.
func (c *Challenge) Answer(s string) (bool, error) {
	c.mu.Lock()
	if !c.rendered {
		c.mu.Unlock()
		return false, ErrNotRendered
	}
	if c.token != "" {
		c.mu.Unlock()
		return true, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n != c.answer {
		c.question, c.answer = newQuestion()
		c.mu.Unlock()
		return false, nil
	}

	c.token = uuid.NewString()
	cb := c.onVerified
	c.mu.Unlock()

	// Called without the lock so the callback may read the challenge.
	if cb != nil {
		cb()
	}
	return true, nil
}

// Reset discards the token and draws a new question.
func (c *Challenge) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	if c.ready {
		c.question, c.answer = newQuestion()
	}
}
