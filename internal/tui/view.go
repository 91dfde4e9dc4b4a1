package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/julianstephens/slackfeedback/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	canvasH := m.canvasHeight()
	var content string
	switch m.state {
	case constants.StateAlert:
		box := alertStyle.Render(m.alertText + "\n\n" + mutedStyle.Render("enter to dismiss"))
		content = lipgloss.Place(m.width, canvasH, lipgloss.Center, lipgloss.Center, box)
	case constants.StateAttachPrompt:
		content = lipgloss.Place(m.width, canvasH, lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		content = m.viewPage(canvasH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, m.help.View(m.keys))
}

// viewPage draws the host page with the widget block in the bottom-right
// corner.
func (m Model) viewPage(canvasH int) string {
	l := m.layout()
	leftW := max(m.width-l.bounds.W, 1)
	left := lipgloss.NewStyle().Width(leftW).Height(canvasH).Render(m.pageContent(leftW))
	if l.block == "" {
		return left
	}
	right := lipgloss.PlaceVertical(canvasH, lipgloss.Bottom, l.block)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) pageContent(width int) string {
	lines := []string{
		pageTitleStyle.Render(m.pageTitle),
		mutedStyle.Render(m.pageURL),
		"",
	}
	if m.widget.Render().Visible {
		lines = append(lines,
			"Press ctrl+f or click the button in the corner to send feedback.",
			"Click anywhere outside the panel to close it.",
		)
	} else {
		lines = append(lines, mutedStyle.Render("Feedback is disabled."))
	}
	for i, line := range lines {
		lines[i] = truncate.StringWithTail(line, uint(width), "…")
	}
	return strings.Join(lines, "\n")
}
