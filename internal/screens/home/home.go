// Package home is the part list: overall mastery, per-part progress and
// the entry point into studying a part.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/router"
	"github.com/abhisek/chunkz/internal/screen"
	"github.com/abhisek/chunkz/internal/screens/history"
	"github.com/abhisek/chunkz/internal/screens/study"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/store"
	"github.com/abhisek/chunkz/internal/ui/components"
	"github.com/abhisek/chunkz/internal/ui/layout"
	"github.com/abhisek/chunkz/internal/ui/theme"
)

// Options configures the home screen.
type Options struct {
	// Notice is shown above the part list, e.g. a dataset load failure.
	Notice string

	// Events backs the check history screen. Nil hides it.
	Events store.EventRepo
}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmPart
	confirmAll
)

// HomeScreen lists the parts of the loaded program.
type HomeScreen struct {
	deps    study.Deps
	ctrl    *session.Controller
	opts    Options
	menu    components.Menu
	confirm confirmKind

	errMsg  string
	infoMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a HomeScreen over the controller's program.
func New(deps study.Deps, opts Options) *HomeScreen {
	deps = deps.Normalize()
	h := &HomeScreen{
		deps: deps,
		ctrl: deps.Controller,
		opts: opts,
	}

	parts := h.ctrl.Program().Parts
	items := make([]components.MenuItem, len(parts))
	for i, part := range parts {
		id := part.ID
		items[i] = components.MenuItem{
			Label:    part.Label,
			Disabled: len(part.Items) == 0,
			Action:   func() tea.Cmd { return h.open(id) },
		}
	}
	h.menu = components.NewMenu(items)
	return h
}

// Init reopens the study screen when the restored record was studying.
func (h *HomeScreen) Init() tea.Cmd {
	if h.ctrl.View() != session.ViewStudy || h.ctrl.Current() == nil {
		return nil
	}
	current := h.ctrl.CurrentPart().ID
	for i, part := range h.ctrl.Program().Parts {
		if part.ID == current {
			h.menu.Select(i)
		}
	}
	return h.pushStudy()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	st := h.ctrl.ProgramStats()
	return fmt.Sprintf("%d/%d mastered", st.Mastered, st.Total)
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirm != confirmNone {
		return []layout.KeyHint{{Key: "Y", Description: "Confirm"}, {Key: "N", Description: "Cancel"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Study"},
		{Key: "r/R", Description: "Reset part/all"},
	}
	if h.opts.Events != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "q", Description: "Quit"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}
	key := kmsg.String()

	if h.confirm != confirmNone {
		kind := h.confirm
		h.confirm = confirmNone
		if key == "y" || key == "Y" {
			h.reset(kind)
		}
		return h, nil
	}

	h.errMsg = ""
	h.infoMsg = ""

	switch key {
	case "r":
		if h.selectedPart() != nil {
			h.confirm = confirmPart
		}
		return h, nil
	case "R":
		h.confirm = confirmAll
		return h, nil
	case "h":
		if h.opts.Events == nil {
			return h, nil
		}
		hs := history.New(h.opts.Events, h.ctrl.Program().ID)
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: hs} }
	case "q":
		h.deps.Speaker.Stop()
		return h, tea.Quit
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) open(partID string) tea.Cmd {
	if err := h.ctrl.OpenPart(partID); err != nil {
		h.errMsg = err.Error()
		return nil
	}
	_ = h.deps.Recorder.Save(context.Background(), h.ctrl)
	return h.pushStudy()
}

func (h *HomeScreen) pushStudy() tea.Cmd {
	s := study.New(h.deps)
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) reset(kind confirmKind) {
	ctx := context.Background()
	switch kind {
	case confirmPart:
		part := h.selectedPart()
		if part == nil {
			return
		}
		if err := h.ctrl.ResetPart(part.ID); err != nil {
			h.errMsg = err.Error()
			return
		}
		_ = h.deps.Recorder.Save(ctx, h.ctrl)
		h.infoMsg = part.Label + " progress cleared"
	case confirmAll:
		h.ctrl.ResetAll()
		if err := h.deps.Recorder.Clear(ctx); err != nil {
			h.errMsg = err.Error()
			return
		}
		h.infoMsg = "All progress cleared"
	}
}

func (h *HomeScreen) selectedPart() *dataset.Part {
	parts := h.ctrl.Program().Parts
	if h.menu.Selected < 0 || h.menu.Selected >= len(parts) {
		return nil
	}
	return &parts[h.menu.Selected]
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)
	program := h.ctrl.Program()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderStatsBar(program.Label, h.ctrl.ProgramStats(), cw))

	if h.opts.Notice != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Notice.Render("⚠ "+h.opts.Notice)))
	}

	if program.Empty() {
		sections = append(sections, theme.Hint.Render("No sentences loaded. Check the dataset settings (see chunkz --help)."))
	} else {
		reserved := 12
		if !compact {
			reserved = 18
		}
		sections = append(sections, h.renderParts(cw, max(3, height-reserved)))
	}

	switch h.confirm {
	case confirmPart:
		if part := h.selectedPart(); part != nil {
			sections = append(sections, theme.Notice.Render(fmt.Sprintf("Reset progress for %s? (y/n)", part.Label)))
		}
	case confirmAll:
		sections = append(sections, theme.Notice.Render("Reset ALL progress? (y/n)"))
	}
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg))
	} else if h.infoMsg != "" {
		sections = append(sections, theme.Notice.Render(h.infoMsg))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

// renderParts lists the parts with a mastery bar each, scrolled so the
// selection stays visible.
func (h *HomeScreen) renderParts(cw, visible int) string {
	parts := h.ctrl.Program().Parts
	start := 0
	if h.menu.Selected >= visible {
		start = h.menu.Selected - visible + 1
	}
	end := min(len(parts), start+visible)

	labelWidth := 0
	for _, part := range parts {
		labelWidth = max(labelWidth, lipgloss.Width(part.Label))
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		part := parts[i]
		st := h.ctrl.PartStats(part.ID)
		label := fmt.Sprintf("%-*s", labelWidth, part.Label)

		var prefix string
		switch {
		case len(part.Items) == 0:
			lines = append(lines, theme.Disabled.Render("  "+label+"  (empty)"))
			continue
		case i == h.menu.Selected:
			prefix = theme.Selected.Render("▸ " + label)
		default:
			prefix = theme.Unselected.Render("  " + label)
		}

		bar := components.ProgressBar{Done: st.Mastered, Total: st.Total, Width: cw - labelWidth - 12, Percent: true}
		line := prefix + "  " + bar.View()
		if st.Wrong > 0 {
			line += lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("  ✗%d", st.Wrong))
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}
