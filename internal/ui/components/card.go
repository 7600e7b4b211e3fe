package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked cards so
// they visually align.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
// A selected card gets the primary border color.
func Card(content string, cw int, selected bool) string {
	border := theme.Border
	if selected {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}
