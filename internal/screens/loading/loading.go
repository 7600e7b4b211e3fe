// Package loading shows the banner while the dataset is fetched, then
// hands over to the screen the load produced.
package loading

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/router"
	"github.com/abhisek/chunkz/internal/screen"
	"github.com/abhisek/chunkz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	minDisplay   = 800 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Task does the startup work and returns the first real screen.
type Task func(ctx context.Context) screen.Screen

type tickMsg time.Time

type loadedMsg struct {
	Screen screen.Screen
}

// LoadingScreen runs a Task and replaces itself with its result once the
// banner has been shown for a moment.
type LoadingScreen struct {
	ctx          context.Context
	task         Task
	next         screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*LoadingScreen)(nil)

// New creates a LoadingScreen that runs task under ctx.
func New(ctx context.Context, task Task) *LoadingScreen {
	return &LoadingScreen{ctx: ctx, task: task}
}

func (l *LoadingScreen) Title() string {
	return ""
}

func (l *LoadingScreen) Init() tea.Cmd {
	ctx, task := l.ctx, l.task
	return tea.Batch(tick(), func() tea.Msg {
		return loadedMsg{Screen: task(ctx)}
	})
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		l.elapsed += tickInterval
		l.tickCount++
		if l.next != nil && l.elapsed >= minDisplay {
			return l, l.transition()
		}
		if l.transitioned {
			return l, nil
		}
		return l, tick()

	case loadedMsg:
		l.next = msg.Screen
		if l.elapsed >= minDisplay {
			return l, l.transition()
		}
		return l, nil

	case tea.KeyPressMsg:
		// A key skips the rest of the banner once loading is done.
		if l.next != nil {
			return l, l.transition()
		}
		return l, nil
	}

	return l, nil
}

func (l *LoadingScreen) transition() tea.Cmd {
	if l.transitioned {
		return nil
	}
	l.transitioned = true
	next := l.next
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (l *LoadingScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")

	tagline := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Read English in chunks")
	sections = append(sections, tagline)
	sections = append(sections, "")

	status := "Loading sentences"
	if l.next != nil {
		status = "Ready"
	}
	frame := spinnerFrames[l.tickCount%len(spinnerFrames)]
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Render(lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)+" "+status+"..."))

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
