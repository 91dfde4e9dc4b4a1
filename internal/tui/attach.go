package tui

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

func newAttachForm(model *AttachFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Path to a PNG, JPEG or GIF file").
				Placeholder("~/Pictures/screenshot.png").
				Value(&model.Path).
				Validate(validateImagePath),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

func validateImagePath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("path is required")
	}
	if strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = home + s[1:]
		}
	}
	info, err := os.Stat(s)
	if err != nil {
		return errors.New("file not found")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}
