package ui

import (
	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question. Returns false if the prompt is aborted.
func Confirm(prompt string) bool {
	return confirm(prompt, "")
}

// ConfirmDanger is like Confirm with a warning shown under the question, for
// changes that discard data.
func ConfirmDanger(prompt, warning string) bool {
	return confirm(prompt, Warn(warning))
}

func confirm(prompt, description string) bool {
	ok := false
	err := huh.NewConfirm().
		Title(prompt).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(huh.ThemeCatppuccin()).
		Run()
	return err == nil && ok
}
