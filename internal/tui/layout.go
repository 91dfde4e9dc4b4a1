package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/pointer"
	"github.com/julianstephens/slackfeedback/internal/widget"
)

type fieldZone struct {
	focus constants.FocusTarget
	rect  pointer.Rect
}

type tabZone struct {
	category widget.Category
	rect     pointer.Rect
}

// layout is one rendering of the widget block plus the screen regions of
// everything clickable in it.
type layout struct {
	block   string
	bounds  pointer.Rect
	trigger pointer.Rect
	tabs    []tabZone
	fields  []fieldZone
	attach  pointer.Rect
	remove  pointer.Rect
	submit  pointer.Rect
}

func offset(r pointer.Rect, dx, dy int) pointer.Rect {
	if r.Empty() {
		return r
	}
	return pointer.Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// panelBody accumulates panel lines and records zones relative to the
// panel's content origin.
type panelBody struct {
	lines []string
	out   layout
}

func (b *panelBody) add(s string) int {
	y := len(b.lines)
	b.lines = append(b.lines, strings.Split(s, "\n")...)
	return y
}

func (b *panelBody) field(f constants.FocusTarget, y, h, w int) {
	b.out.fields = append(b.out.fields, fieldZone{focus: f, rect: pointer.Rect{X: 0, Y: y, W: w, H: h}})
}

func (m Model) label(text string, f constants.FocusTarget) string {
	if m.focus == f && m.widget.IsOpen() {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) renderBody(p widget.Projection) panelBody {
	var b panelBody
	width := m.innerWidth()

	b.add(panelTitleStyle.Render("Send feedback"))
	b.add("")

	// Category tabs.
	y := len(b.lines)
	row := m.label("Type", constants.FocusCategory)
	x := lipgloss.Width(row)
	for _, c := range widget.Categories() {
		var tab string
		if c == p.Category {
			tab = activeTabStyle.Background(categoryColors[c.Color()]).Render(string(c))
		} else {
			tab = inactiveTabStyle.Render(string(c))
		}
		w := lipgloss.Width(tab)
		b.out.tabs = append(b.out.tabs, tabZone{category: c, rect: pointer.Rect{X: x, Y: y, W: w, H: 1}})
		row += tab
		x += w
	}
	b.add(row)
	b.field(constants.FocusCategory, y, 1, labelStyle.GetWidth())

	y = b.add(m.label("Name", constants.FocusName) + m.nameInput.View())
	b.field(constants.FocusName, y, 1, width)
	y = b.add(m.label("Email", constants.FocusEmail) + m.emailInput.View())
	b.field(constants.FocusEmail, y, 1, width)

	y = b.add(m.label("Message", constants.FocusMessage))
	b.add(m.messageInput.View())
	b.field(constants.FocusMessage, y, len(b.lines)-y, width)
	b.add("")

	if p.Image != widget.ImageSlotHidden {
		y = len(b.lines)
		row := m.label("Image", constants.FocusImage)
		switch p.Image {
		case widget.ImageSlotAttach:
			link := linkStyle.Render("+ " + p.ImageUploadText)
			b.out.attach = pointer.Rect{X: lipgloss.Width(row), Y: y, W: lipgloss.Width(link), H: 1}
			row += link
		default:
			remove := dangerStyle.Render("[x]")
			prefix := ""
			if p.Image == widget.ImageSlotUploading {
				prefix = m.spinner.View() + " "
			}
			room := width - lipgloss.Width(row) - lipgloss.Width(prefix) - lipgloss.Width(remove) - 1
			if room < 1 {
				room = 1
			}
			row += prefix + mutedStyle.Render(truncate.StringWithTail(p.PreviewURL, uint(room), "…")) + " "
			b.out.remove = pointer.Rect{X: lipgloss.Width(row), Y: y, W: lipgloss.Width(remove), H: 1}
			row += remove
		}
		b.add(row)
		b.field(constants.FocusImage, y, 1, labelStyle.GetWidth())
	}

	y = len(b.lines)
	row = m.label("Verify", constants.FocusChallenge)
	switch {
	case !p.ShowVerifier:
		row += mutedStyle.Render("loading challenge…")
	case p.Verified:
		row += successStyle.Render("✓ verified")
	default:
		row += m.challenge.Question() + " = " + m.answerInput.View()
		if m.challengeNote != "" {
			row += " " + dangerStyle.Render(m.challengeNote)
		}
	}
	b.add(row)
	b.field(constants.FocusChallenge, y, 1, width)
	b.add("")

	style := buttonStyle
	switch {
	case p.SubmitDisabled:
		style = buttonDisabledStyle
	case p.SubmitSent:
		style = style.Background(categoryColors["good"])
	case p.SubmitError:
		style = style.Background(categoryColors["danger"])
	}
	if m.focus == constants.FocusSubmit {
		style = style.Bold(true).Underline(true)
	}
	button := style.Render(truncate.StringWithTail(p.SubmitLabel, uint(max(width-4, 1)), "…"))
	y = b.add(button)
	b.out.submit = pointer.Rect{X: 0, Y: y, W: lipgloss.Width(button), H: 1}

	for i, line := range b.lines {
		if lipgloss.Width(line) > width {
			b.lines[i] = truncate.String(line, uint(width))
		}
	}
	return b
}

// layout renders the widget block anchored to the bottom-right of the canvas
// and computes its clickable regions in screen coordinates.
func (m Model) layout() layout {
	p := m.widget.Render()
	if !p.Visible {
		return layout{}
	}

	trigger := m.triggerStyle.Render(p.ButtonText)
	tw, th := lipgloss.Width(trigger), lipgloss.Height(trigger)

	var (
		l      layout
		panel  string
		pw, ph int
	)
	if p.Open {
		body := m.renderBody(p)
		l = body.out
		panel = m.panelStyle.Render(strings.Join(body.lines, "\n"))
		pw, ph = lipgloss.Width(panel), lipgloss.Height(panel)
	}

	blockW, blockH := max(tw, pw), th+ph
	x0 := max(m.width-blockW, 0)
	y0 := max(m.canvasHeight()-blockH, 0)
	l.bounds = pointer.Rect{X: x0, Y: y0, W: blockW, H: blockH}
	l.trigger = pointer.Rect{X: x0 + blockW - tw, Y: y0 + ph, W: tw, H: th}

	if !p.Open {
		l.block = trigger
		return l
	}

	ox := x0 + blockW - pw + m.panelStyle.GetBorderLeftSize() + m.panelStyle.GetPaddingLeft()
	oy := y0 + m.panelStyle.GetBorderTopSize() + m.panelStyle.GetPaddingTop()
	for i := range l.tabs {
		l.tabs[i].rect = offset(l.tabs[i].rect, ox, oy)
	}
	for i := range l.fields {
		l.fields[i].rect = offset(l.fields[i].rect, ox, oy)
	}
	l.attach = offset(l.attach, ox, oy)
	l.remove = offset(l.remove, ox, oy)
	l.submit = offset(l.submit, ox, oy)
	l.block = lipgloss.JoinVertical(lipgloss.Right, panel, trigger)
	return l
}

// canvasHeight is the screen height left above the help line.
func (m Model) canvasHeight() int {
	return max(m.height-lipgloss.Height(m.help.View(m.keys)), 0)
}
