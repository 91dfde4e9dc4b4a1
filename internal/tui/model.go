// Package tui hosts the feedback widget in a full-screen terminal page.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slackfeedback/internal/challenge"
	"github.com/julianstephens/slackfeedback/internal/config"
	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/pointer"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

type AttachFormModel struct {
	Path string
}

// Config wires the host page.
type Config struct {
	// Widget options. Verifier and Document are supplied by the host.
	Widget    widget.Options
	Challenge *challenge.Challenge
	// Styles default to the built-in trigger and panel styles when nil.
	TriggerStyle *lipgloss.Style
	PanelStyle   *lipgloss.Style
	PageTitle    string
}

type Model struct {
	widget    *widget.Widget
	challenge *challenge.Challenge
	doc       *pointer.Document
	modal     *pointer.Listener

	state     constants.SessionState
	focus     constants.FocusTarget
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	alertText string

	nameInput     textinput.Model
	emailInput    textinput.Model
	messageInput  textarea.Model
	answerInput   textinput.Model
	challengeNote string

	form       *huh.Form
	attachForm *AttachFormModel

	triggerStyle lipgloss.Style
	panelStyle   lipgloss.Style
	pageTitle    string
	pageURL      string

	width    int
	height   int
	quitting bool
}

func NewModel(cfg Config) (Model, error) {
	if cfg.Challenge == nil {
		cfg.Challenge = challenge.New()
	}
	doc := cfg.Widget.Document
	if doc == nil {
		doc = pointer.NewDocument()
	}
	cfg.Widget.Document = doc
	cfg.Widget.Verifier = cfg.Challenge

	w, err := widget.New(cfg.Widget)
	if err != nil {
		return Model{}, err
	}

	triggerStyle, _ := config.TriggerStyle(nil)
	if cfg.TriggerStyle != nil {
		triggerStyle = *cfg.TriggerStyle
	}
	panelStyle, _ := config.PanelStyle(nil)
	if cfg.PanelStyle != nil {
		panelStyle = *cfg.PanelStyle
	}
	if cfg.PageTitle == "" {
		cfg.PageTitle = constants.AppName
	}
	pageURL := ""
	if cfg.Widget.Location != nil {
		pageURL = cfg.Widget.Location()
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Jane Doe"
	nameInput.CharLimit = 100

	emailInput := textinput.New()
	emailInput.Placeholder = "you@example.com"
	emailInput.CharLimit = 254

	messageInput := textarea.New()
	messageInput.Placeholder = "What happened? What did you expect?"
	messageInput.ShowLineNumbers = false
	messageInput.SetHeight(4)

	answerInput := textinput.New()
	answerInput.Placeholder = "?"
	answerInput.CharLimit = 4
	answerInput.Width = 6

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		widget:       w,
		challenge:    cfg.Challenge,
		doc:          doc,
		modal:        pointer.NewListener("alert-modal", func(ev *pointer.Event) { ev.Handled = true }),
		state:        constants.StateBrowsing,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      spin,
		nameInput:    nameInput,
		emailInput:   emailInput,
		messageInput: messageInput,
		answerInput:  answerInput,
		triggerStyle: triggerStyle,
		panelStyle:   panelStyle,
		pageTitle:    cfg.PageTitle,
		pageURL:      pageURL,
	}
	m.sizeInputs()
	return m, nil
}

// Widget returns the hosted widget.
func (m Model) Widget() *widget.Widget { return m.widget }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.widget.Mount(),
		m.challenge.Load(),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// Run starts the program and unmounts the widget when it exits.
func Run(m Model) error {
	reattach := logger.Detach()
	defer reattach()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.widget.Unmount()
	} else {
		m.widget.Unmount()
	}
	return err
}

// innerWidth is the usable width inside the panel.
func (m Model) innerWidth() int {
	w := m.panelStyle.GetWidth() - m.panelStyle.GetHorizontalPadding()
	if w <= 0 {
		return 50
	}
	return w
}

func (m *Model) sizeInputs() {
	field := m.innerWidth() - labelStyle.GetWidth() - 4
	if field < 10 {
		field = 10
	}
	m.nameInput.Width = field
	m.emailInput.Width = field
	m.messageInput.SetWidth(m.innerWidth())
}
