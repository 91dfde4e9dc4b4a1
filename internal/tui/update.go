package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slackfeedback/internal/challenge"
	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/imagehost"
	"github.com/julianstephens/slackfeedback/internal/logger"
	"github.com/julianstephens/slackfeedback/internal/pointer"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case widget.AlertMsg:
		m.showAlert(msg.Text)
		return m, nil

	case challenge.LoadedMsg:
		return m, nil

	case imageLoadedMsg:
		cmd := m.attachFile(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.state {
		case constants.StateAlert:
			return m.handleAlertKeys(msg)
		case constants.StateBrowsing:
			return m.handleKeys(msg)
		}
	}

	var cmds []tea.Cmd
	if m.state == constants.StateAttachPrompt {
		var cmd tea.Cmd
		m, cmd = m.updateAttachForm(msg)
		cmds = append(cmds, cmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Batch(cmds...)
		}
	}

	// Everything else belongs to the widget or to the focused input.
	cmds = append(cmds, m.widget.Update(msg), m.updateFocused(msg))
	m.syncFromWidget()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.widget.Unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.widget.Toggle()
		if m.widget.IsOpen() {
			cmd := m.setFocus(constants.FocusName)
			return m, cmd
		}
		m.blurAll()
		return m, nil
	}

	if !m.widget.IsOpen() {
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		m.widget.Close()
		m.blurAll()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.widget.Submit()
	case key.Matches(msg, m.keys.Tab):
		cmd := m.moveFocus(1)
		return m, cmd
	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.moveFocus(-1)
		return m, cmd
	}

	switch m.focus {
	case constants.FocusCategory:
		switch {
		case key.Matches(msg, m.keys.Left):
			m.cycleCategory(-1)
		case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Enter):
			m.cycleCategory(1)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	case constants.FocusImage:
		if key.Matches(msg, m.keys.Enter) {
			return m.activateImage()
		}
		return m, nil
	case constants.FocusSubmit:
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m, m.widget.Submit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	case constants.FocusChallenge:
		if key.Matches(msg, m.keys.Enter) {
			m.answerChallenge()
			m.syncFromWidget()
			return m, nil
		}
	case constants.FocusName, constants.FocusEmail:
		if key.Matches(msg, m.keys.Enter) {
			cmd := m.moveFocus(1)
			return m, cmd
		}
	}

	cmd := m.updateFocused(msg)
	m.syncToWidget()
	return m, cmd
}

func (m Model) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.widget.Unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Close):
		m.dismissAlert()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	l := m.layout()
	m.widget.SetBounds(l.bounds)

	ev := &pointer.Event{X: msg.X, Y: msg.Y}
	m.doc.Dispatch(ev)
	if ev.Handled || m.state != constants.StateBrowsing {
		return m, nil
	}
	if !m.widget.IsOpen() {
		m.blurAll()
	}

	switch {
	case l.trigger.Contains(msg.X, msg.Y):
		m.widget.Toggle()
		if m.widget.IsOpen() {
			cmd := m.setFocus(constants.FocusName)
			return m, cmd
		}
		m.blurAll()
		return m, nil
	case !m.widget.IsOpen():
		return m, nil
	case l.submit.Contains(msg.X, msg.Y):
		return m, m.widget.Submit()
	case l.attach.Contains(msg.X, msg.Y):
		return m.openAttachPrompt()
	case l.remove.Contains(msg.X, msg.Y):
		m.widget.RemoveImage()
		return m, nil
	}

	for _, t := range l.tabs {
		if t.rect.Contains(msg.X, msg.Y) {
			if err := m.widget.SelectCategory(t.category); err != nil {
				logger.Debug("Category rejected", "category", t.category, "err", err)
			}
			m.focus = constants.FocusCategory
			m.blurAll()
			return m, nil
		}
	}
	for _, f := range l.fields {
		if f.rect.Contains(msg.X, msg.Y) {
			cmd := m.setFocus(f.focus)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) showAlert(text string) {
	m.alertText = text
	m.state = constants.StateAlert
	m.doc.AddFirst(m.modal)
}

func (m *Model) dismissAlert() {
	m.alertText = ""
	m.state = constants.StateBrowsing
	m.doc.Remove(m.modal)
}

func (m *Model) cycleCategory(delta int) {
	cats := widget.Categories()
	cur := 0
	for i, c := range cats {
		if c == m.widget.State().SelectedCategory {
			cur = i
		}
	}
	next := cats[(cur+delta+len(cats))%len(cats)]
	if err := m.widget.SelectCategory(next); err != nil {
		logger.Debug("Category rejected", "category", next, "err", err)
	}
}

func (m *Model) answerChallenge() {
	answer := strings.TrimSpace(m.answerInput.Value())
	if answer == "" {
		return
	}
	ok, err := m.challenge.Answer(answer)
	m.answerInput.SetValue("")
	switch {
	case err != nil:
		m.challengeNote = err.Error()
	case !ok:
		m.challengeNote = "try again"
	default:
		m.challengeNote = ""
	}
}

func (m Model) activateImage() (tea.Model, tea.Cmd) {
	switch m.widget.Render().Image {
	case widget.ImageSlotAttach:
		return m.openAttachPrompt()
	case widget.ImageSlotUploading, widget.ImageSlotPreview:
		m.widget.RemoveImage()
	}
	return m, nil
}

func (m Model) openAttachPrompt() (tea.Model, tea.Cmd) {
	if !m.widget.ImageUploadEnabled() {
		return m, nil
	}
	m.attachForm = &AttachFormModel{}
	m.form = newAttachForm(m.attachForm, m.widget.Render().ImageUploadText)
	m.state = constants.StateAttachPrompt
	m.doc.AddFirst(m.modal)
	m.blurAll()
	return m, m.form.Init()
}

func (m Model) updateAttachForm(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Close) {
		m.closeAttachPrompt()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		path := m.attachForm.Path
		m.closeAttachPrompt()
		return m, tea.Batch(cmd, loadImage(path))
	case huh.StateAborted:
		m.closeAttachPrompt()
	}
	return m, cmd
}

func (m *Model) closeAttachPrompt() {
	m.form = nil
	m.attachForm = nil
	m.state = constants.StateBrowsing
	m.doc.Remove(m.modal)
	m.focus = constants.FocusImage
}

// imageLoadedMsg carries an image read from disk for the attach prompt.
type imageLoadedMsg struct {
	file widget.ImageFile
	err  error
}

// loadImage reads the image at path off the update loop.
func loadImage(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := imagehost.LoadImage(path)
		return imageLoadedMsg{file: file, err: err}
	}
}

// attachFile hands a loaded image to the widget.
func (m *Model) attachFile(msg imageLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.showAlert(msg.err.Error())
		return nil
	}
	cmd, err := m.widget.AttachImage(msg.file)
	if err != nil {
		m.showAlert(err.Error())
		return nil
	}
	return cmd
}

// focusable reports whether f can currently take focus.
func (m Model) focusable(f constants.FocusTarget) bool {
	switch f {
	case constants.FocusImage:
		return m.widget.ImageUploadEnabled()
	case constants.FocusChallenge:
		p := m.widget.Render()
		return p.ShowVerifier && !p.Verified
	}
	return true
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	next := int(m.focus)
	for range constants.FocusCount {
		next = (next + delta + constants.FocusCount) % constants.FocusCount
		if m.focusable(constants.FocusTarget(next)) {
			break
		}
	}
	return m.setFocus(constants.FocusTarget(next))
}

func (m *Model) setFocus(f constants.FocusTarget) tea.Cmd {
	m.focus = f
	m.blurAll()
	switch f {
	case constants.FocusName:
		return m.nameInput.Focus()
	case constants.FocusEmail:
		return m.emailInput.Focus()
	case constants.FocusMessage:
		return m.messageInput.Focus()
	case constants.FocusChallenge:
		return m.answerInput.Focus()
	}
	return nil
}

func (m *Model) blurAll() {
	m.nameInput.Blur()
	m.emailInput.Blur()
	m.messageInput.Blur()
	m.answerInput.Blur()
}

// updateFocused routes msg to whichever text input has focus.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.nameInput.Focused():
		m.nameInput, cmd = m.nameInput.Update(msg)
	case m.emailInput.Focused():
		m.emailInput, cmd = m.emailInput.Update(msg)
	case m.messageInput.Focused():
		m.messageInput, cmd = m.messageInput.Update(msg)
	case m.answerInput.Focused():
		m.answerInput, cmd = m.answerInput.Update(msg)
	}
	return cmd
}

func (m *Model) syncToWidget() {
	m.widget.SetName(m.nameInput.Value())
	m.widget.SetEmail(m.emailInput.Value())
	m.widget.SetMessage(m.messageInput.Value())
}

// syncFromWidget mirrors field values the widget changed on its own, such as
// the reset after a successful send.
func (m *Model) syncFromWidget() {
	f := m.widget.State().Fields
	if m.nameInput.Value() != f.Name {
		m.nameInput.SetValue(f.Name)
	}
	if m.emailInput.Value() != f.Email {
		m.emailInput.SetValue(f.Email)
	}
	if m.messageInput.Value() != f.Message {
		m.messageInput.SetValue(f.Message)
	}
	if m.widget.State().Verified {
		m.challengeNote = ""
		if m.focus == constants.FocusChallenge {
			m.focus = constants.FocusSubmit
			m.answerInput.Blur()
		}
	}
}
