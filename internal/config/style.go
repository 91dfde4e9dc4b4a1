package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	baseTrigger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 2)

	basePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(52)
)

// TriggerStyle applies overrides to the default trigger button style.
func TriggerStyle(overrides map[string]string) (lipgloss.Style, error) {
	return ApplyStyle(baseTrigger, overrides)
}

// PanelStyle applies overrides to the default panel style.
func PanelStyle(overrides map[string]string) (lipgloss.Style, error) {
	return ApplyStyle(basePanel, overrides)
}

// ApplyStyle layers overrides on base. Known keys are foreground, background,
// border, width and bold.
func ApplyStyle(base lipgloss.Style, overrides map[string]string) (lipgloss.Style, error) {
	s := base
	for key, value := range overrides {
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "foreground":
			s = s.Foreground(lipgloss.Color(value))
		case "background":
			s = s.Background(lipgloss.Color(value))
		case "border":
			if strings.EqualFold(value, "none") {
				s = s.UnsetBorderStyle()
				continue
			}
			b, ok := borders[strings.ToLower(value)]
			if !ok {
				return base, fmt.Errorf("unknown border %q (want rounded, normal, thick, double, hidden or none)", value)
			}
			s = s.Border(b)
		case "width":
			w, err := strconv.Atoi(value)
			if err != nil || w < 0 {
				return base, fmt.Errorf("width must be a non-negative integer, got %q", value)
			}
			s = s.Width(w)
		case "bold":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return base, fmt.Errorf("bold must be true or false, got %q", value)
			}
			s = s.Bold(b)
		default:
			return base, fmt.Errorf("unknown style key %q", key)
		}
	}
	return s, nil
}

var borders = map[string]lipgloss.Border{
	"rounded": lipgloss.RoundedBorder(),
	"normal":  lipgloss.NormalBorder(),
	"thick":   lipgloss.ThickBorder(),
	"double":  lipgloss.DoubleBorder(),
	"hidden":  lipgloss.HiddenBorder(),
}
