package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/router"
	"github.com/abhisek/chunkz/internal/screen"
	"github.com/abhisek/chunkz/internal/store"
	"github.com/abhisek/chunkz/internal/ui/layout"
	"github.com/abhisek/chunkz/internal/ui/theme"
)

// Limit is the number of most recent checks listed.
const Limit = 50

type historyLoadedMsg struct {
	Checks []store.CheckEvent
	Err    error
}

// HistoryScreen displays recent quiz checks of one program.
type HistoryScreen struct {
	eventRepo store.EventRepo
	programID string
	checks    []store.CheckEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo, programID string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		programID: programID,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, programID := s.eventRepo, s.programID
	return func() tea.Msg {
		checks, err := repo.QueryChecks(context.Background(), programID, store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Checks: checks, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.checks = msg.Checks
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.checks)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.checks) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No checks yet. Take a quiz!")
	}

	var b strings.Builder
	b.WriteString("\n")

	correct := 0
	for _, c := range s.checks {
		if c.Correct {
			correct++
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("Last %d checks  %d correct  %.0f%% accuracy",
				len(s.checks), correct, float64(correct)/float64(len(s.checks))*100))))
	b.WriteString("\n\n")

	// Keep the selection visible; expanded rows take three lines.
	visible := max(3, (height-4)/2)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(len(s.checks), start+visible)

	for i := start; i < end; i++ {
		c := s.checks[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !c.Correct {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}

		line := fmt.Sprintf("%s%s  %-10s  %s",
			prefix, c.Timestamp.Local().Format("Jan 02 15:04"), c.SentenceID, c.Expected)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+"  "+mark))
		b.WriteString("\n")

		if s.expanded[i] {
			dim := lipgloss.NewStyle().Foreground(theme.TextDim)
			detail := fmt.Sprintf("    answer: %s\n    streak %d  wrong %d", c.Answer, c.Streak, c.WrongCount)
			if c.Mastered {
				detail += "  mastered"
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
