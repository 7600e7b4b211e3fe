package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/ui/theme"
)

// Block-letter title (same art as the loading banner).
const titleFull = ` ██████╗██╗  ██╗██╗   ██╗███╗   ██╗██╗  ██╗███████╗
██╔════╝██║  ██║██║   ██║████╗  ██║██║ ██╔╝╚══███╔╝
██║     ███████║██║   ██║██╔██╗ ██║█████╔╝   ███╔╝
██║     ██╔══██║██║   ██║██║╚██╗██║██╔═██╗  ███╔╝
╚██████╗██║  ██║╚██████╔╝██║ ╚████║██║  ██╗███████╗
 ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝╚══════╝`

const titleCompact = "C · H · U · N · K · Z"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact || cw < 54 {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders the program totals in a bordered box matching
// content width.
func renderStatsBar(label string, st session.Stats, cw int) string {
	masteredStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	wrongStyle := lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	stats := fmt.Sprintf("%s  %s  %s",
		masteredStyle.Render(fmt.Sprintf("★ %d/%d MASTERED", st.Mastered, st.Total)),
		dimStyle.Render(fmt.Sprintf("%d%%", st.Percent())),
		wrongText(st.Wrong, wrongStyle, dimStyle),
	)
	if label != "" {
		stats = dimStyle.Render(label) + "\n" + stats
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func wrongText(n int, active, dim lipgloss.Style) string {
	if n == 0 {
		return dim.Render("✗ NONE WRONG")
	}
	return active.Render(fmt.Sprintf("✗ %d WRONG", n))
}

// renderFrame wraps content in a double-border frame, centered vertically
// and horizontally within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
