package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/ui/theme"
)

// ChipKeys are the keys that pick chips, in chip order.
const ChipKeys = "1234567890abcdefghijklmnopqrstuvwxyz"

// ChipIndex returns the chip picked by key, or -1.
func ChipIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	return strings.Index(ChipKeys, key)
}

// ChipLabel returns the key that picks chip i.
func ChipLabel(i int) string {
	if i < 0 || i >= len(ChipKeys) {
		return ""
	}
	return ChipKeys[i : i+1]
}

// ChipTray renders token chips labeled with their pick keys, wrapping to
// width. Used chips are dimmed.
func ChipTray(chips []string, used func(int) bool, width int) string {
	var lines []string
	var row []string
	rowWidth := 0
	for i, c := range chips {
		style := theme.Chip
		if used(i) {
			style = theme.ChipUsed
		}
		chip := style.Render(ChipLabel(i) + " " + c)
		w := lipgloss.Width(chip) + 1
		if rowWidth > 0 && rowWidth+w > width {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, chip, " ")
		rowWidth += w
	}
	if len(row) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(lines, "\n")
}

// AnswerLine renders the tokens picked so far, with a placeholder when
// empty.
func AnswerLine(tokens []string) string {
	if len(tokens) == 0 {
		return theme.Hint.Render("pick the words in order...")
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(strings.Join(tokens, " "))
}
