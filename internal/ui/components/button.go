package components

import (
	"strings"

	"github.com/abhisek/chunkz/internal/ui/theme"
)

// Button is a labeled control that can be selected or disabled. The study
// screen renders its tab bar and action row with it.
type Button struct {
	Key      string
	Label    string
	Active   bool
	Disabled bool
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + label
	}
	switch {
	case b.Disabled:
		return theme.ButtonDisabled.Render(label)
	case b.Active:
		return theme.ButtonActive.Render(label)
	default:
		return theme.ButtonInactive.Render(label)
	}
}

// ButtonRow renders buttons side by side separated by a space.
func ButtonRow(buttons []Button) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		parts[i] = b.View()
	}
	return strings.Join(parts, " ")
}
