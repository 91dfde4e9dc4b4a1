package tui

import "github.com/charmbracelet/lipgloss"

var (
	pageTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(9)

	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("205")).
				Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	buttonDisabledStyle = buttonStyle.
				Background(lipgloss.Color("238")).
				Foreground(lipgloss.Color("245"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			Width(48).
			Align(lipgloss.Center)
)

// categoryColors maps the Slack attachment colors onto the terminal palette.
var categoryColors = map[string]lipgloss.Color{
	"danger":  lipgloss.Color("196"),
	"good":    lipgloss.Color("42"),
	"warning": lipgloss.Color("214"),
}
