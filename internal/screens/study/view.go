package study

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/progress"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/ui/components"
	"github.com/abhisek/chunkz/internal/ui/layout"
	"github.com/abhisek/chunkz/internal/ui/theme"
)

var tabLabels = map[session.Tab]struct{ key, label string }{
	session.TabStructure: {"s", "Structure"},
	session.TabQuiz:      {"q", "Quiz"},
	session.TabSummary:   {"m", "Summary"},
}

var filterLabels = map[session.Filter]string{
	session.FilterAll:         "All",
	session.FilterWrong:       "Wrong",
	session.FilterNotMastered: "Not mastered",
}

func (s *StudyScreen) Status() string {
	var parts []string
	if part := s.ctrl.CurrentPart(); part != nil {
		parts = append(parts, fmt.Sprintf("Part %d%%", s.ctrl.PartStats(part.ID).Percent()))
	}
	parts = append(parts, fmt.Sprintf("All %d%%", s.ctrl.ProgramStats().Percent()))
	return strings.Join(parts, "  ")
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.jumping:
		return []layout.KeyHint{{Key: "Enter", Description: "Go"}, {Key: "Esc", Description: "Cancel"}}
	case s.editing:
		return []layout.KeyHint{{Key: "Enter/Esc", Description: "Done"}}
	case s.confirmReset:
		return []layout.KeyHint{{Key: "Y", Description: "Reset part"}, {Key: "N", Description: "Cancel"}}
	case s.ctrl.Locked():
		return []layout.KeyHint{
			{Key: "1-9…", Description: "Pick word"},
			{Key: "Bksp", Description: "Undo"},
			{Key: "Del", Description: "Clear"},
			{Key: "Enter", Description: "Check"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Sentence"},
		{Key: "Tab", Description: "Switch tab"},
		{Key: "g", Description: "Jump"},
		{Key: "p/x/v", Description: "Play/Stop/Rate"},
	}
	switch s.ctrl.Tab() {
	case session.TabQuiz:
		if s.checkedQuiz() {
			hints = append(hints, layout.KeyHint{Key: "Del", Description: "Reshuffle"})
		}
	case session.TabStructure:
		hints = append(hints, layout.KeyHint{Key: "t", Description: "Translation"}, layout.KeyHint{Key: "i", Description: "Try"})
	case session.TabSummary:
		hints = append(hints, layout.KeyHint{Key: "f", Description: "Filter"}, layout.KeyHint{Key: "Enter", Description: "Open"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *StudyScreen) View(width, height int) string {
	item := s.ctrl.Current()
	if item == nil {
		return layout.Centered("This part has no sentences.", width)
	}
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.renderTabBar())
	b.WriteString("\n\n")
	b.WriteString(s.renderSentenceLine(item))
	b.WriteString("\n\n")

	switch s.ctrl.Tab() {
	case session.TabQuiz:
		b.WriteString(s.renderQuiz(item, cw))
	case session.TabSummary:
		b.WriteString(s.renderSummary(cw, height))
	default:
		b.WriteString(s.renderStructure(item, cw))
	}

	b.WriteString("\n\n")
	b.WriteString(s.renderActions())
	if s.jumping {
		b.WriteString("\n\nJump to sentence: " + s.jump.View())
	}
	if s.confirmReset {
		b.WriteString("\n\n" + theme.Notice.Render("Reset progress for this part? (y/n)"))
	}
	if line := s.renderMessage(); line != "" {
		b.WriteString("\n\n")
		b.WriteString(line)
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (s *StudyScreen) renderTabBar() string {
	flags := s.ctrl.Flags()
	buttons := make([]components.Button, len(session.Tabs))
	for i, t := range session.Tabs {
		l := tabLabels[t]
		buttons[i] = components.Button{
			Key:      l.key,
			Label:    l.label,
			Active:   s.ctrl.Tab() == t,
			Disabled: !flags.Tab(t) && s.ctrl.Tab() != t,
		}
	}
	return components.ButtonRow(buttons)
}

func (s *StudyScreen) renderActions() string {
	flags := s.ctrl.Flags()
	rate := "Normal"
	if s.ctrl.SpeechRate() == session.RateSlow {
		rate = "Slow"
	}
	play := "Play"
	if s.speaking {
		play = "Playing…"
	}
	return components.ButtonRow([]components.Button{
		{Key: "←", Label: "Prev", Disabled: !flags.Prev},
		{Key: "→", Label: "Next", Disabled: !flags.Next},
		{Key: "g", Label: "Jump", Disabled: !flags.Jump},
		{Key: "p", Label: play, Disabled: !flags.Speak, Active: s.speaking},
		{Key: "v", Label: rate},
		{Key: "R", Label: "Reset", Disabled: !flags.Reset},
		{Key: "Esc", Label: "Home", Disabled: !flags.Home},
	})
}

func (s *StudyScreen) renderSentenceLine(item *dataset.SentenceItem) string {
	part := s.ctrl.CurrentPart()
	pos := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Sentence %d/%d", s.ctrl.Index()+1, len(part.Items)))
	rec := s.ctrl.Progress().Get(item.ID)
	line := pos + "   " + badge(rec, s.ctrl.Progress().MasterStreak())
	if rec.WrongCount > 0 {
		line += "   " + lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("wrong %d", rec.WrongCount))
	}
	if s.ctrl.Config().RoundCycling {
		done, total := s.ctrl.RoundProgress(part.ID)
		line += "   " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("round %d/%d", done, total))
	}
	return line
}

// badge renders "Mastered" or the streak toward mastery.
func badge(rec progress.Record, masterStreak int) string {
	if rec.Mastered {
		return theme.Correct.Render("✓ Mastered")
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("streak %d/%d", rec.Streak, masterStreak))
}

func (s *StudyScreen) renderStructure(item *dataset.SentenceItem, cw int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(item.Text))
	b.WriteString("\n\n")

	for i, c := range item.Chunks {
		tag := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ChunkColor(c.Type)).
			Render(" " + c.Type.Short() + " ")
		text := lipgloss.NewStyle().Foreground(theme.ChunkColor(c.Type)).Bold(true).Render(c.Text)
		b.WriteString(fmt.Sprintf("%2d. %s %s", i+1, tag, text))
		if c.Meaning != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + c.Meaning))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.ctrl.Revealed() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Width(cw).Render(item.Translation))
	} else {
		b.WriteString(theme.Hint.Render("[t] show translation"))
	}
	b.WriteString("\n")

	if s.editing || s.attempt.Value() != "" {
		b.WriteString("Your try: " + s.attempt.View())
	} else {
		b.WriteString(theme.Hint.Render("[i] write your own translation"))
	}
	b.WriteString("\n\n")

	b.WriteString(components.Card(s.renderParagraph(cw-4), cw, false))
	return b.String()
}

// renderParagraph shows every sentence of the part as running text with
// the current one highlighted.
func (s *StudyScreen) renderParagraph(width int) string {
	part := s.ctrl.CurrentPart()
	words := make([]string, 0, len(part.Items))
	for i, it := range part.Items {
		num := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d", i+1))
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.ctrl.Index() {
			style = theme.Selected.Underline(true)
		}
		words = append(words, num+" "+style.Render(it.Text))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(words, "  "))
}

func (s *StudyScreen) renderQuiz(item *dataset.SentenceItem, cw int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Width(cw).Render(item.Translation))
	b.WriteString("\n\n")

	if s.arrangement == nil {
		if err := s.ctrl.QuizBlock(); err != nil {
			b.WriteString(theme.Notice.Render(err.Error()))
		} else {
			b.WriteString(theme.Hint.Render("[q] start the quiz"))
		}
		return b.String()
	}

	b.WriteString(components.AnswerLine(s.arrangement.Answer()))
	b.WriteString("\n\n")

	if s.result != nil {
		b.WriteString(renderResult(s.result, s.ctrl.Progress().MasterStreak(), s.cooldownLeft(item.ID)))
		return b.String()
	}
	if !s.ctrl.Locked() && s.ctrl.CheckedFor() == item.ID {
		b.WriteString(theme.Hint.Render("Already checked. The next check opens after the cooldown."))
		b.WriteString("\n\n")
	}

	b.WriteString(components.ChipTray(s.arrangement.Chips(), s.arrangement.Used, cw))
	return b.String()
}

func renderResult(res *session.CheckResult, masterStreak int, cooldown string) string {
	var b strings.Builder
	if res.Correct {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answer: " + res.Expected))
	}
	b.WriteString("\n")
	if res.Outcome.NewlyMastered {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Sentence mastered!"))
	} else {
		b.WriteString(badge(res.Outcome.Record, masterStreak))
	}
	if cooldown != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(cooldown))
	}
	return b.String()
}

// cooldownLeft describes the remaining cooldown of a sentence, or "".
func (s *StudyScreen) cooldownLeft(id string) string {
	left := s.ctrl.CooldownRemaining(id)
	if left <= 0 {
		return ""
	}
	return fmt.Sprintf("next quiz in %ds", int(math.Ceil(left.Seconds())))
}

func (s *StudyScreen) renderSummary(cw, height int) string {
	var b strings.Builder

	buttons := make([]components.Button, len(session.Filters))
	for i, f := range session.Filters {
		buttons[i] = components.Button{Label: filterLabels[f], Active: s.ctrl.Filter() == f}
	}
	b.WriteString(theme.Hint.Render("[f] filter  ") + components.ButtonRow(buttons))
	b.WriteString("\n\n")

	rows := s.ctrl.Summary(s.ctrl.Filter())
	if len(rows) == 0 {
		b.WriteString(theme.Hint.Render("Nothing to show for this filter."))
		return b.String()
	}

	// Keep the selection visible when the list is taller than the screen.
	visible := max(3, height-14)
	start := 0
	if s.summarySel >= visible {
		start = s.summarySel - visible + 1
	}
	end := min(len(rows), start+visible)

	streak := s.ctrl.Progress().MasterStreak()
	for i := start; i < end; i++ {
		r := rows[i]
		text := truncate(r.Item.Text, cw-30)
		line := fmt.Sprintf("%3d. %s", r.Index+1, text)
		style := theme.Unselected
		prefix := "  "
		if i == s.summarySel {
			style = theme.Selected
			prefix = "▸ "
		}
		line = style.Render(prefix+line) + "  " + badge(r.Record, streak)
		if r.Record.WrongCount > 0 {
			line += lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("  ✗%d", r.Record.WrongCount))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *StudyScreen) renderMessage() string {
	switch {
	case s.errMsg != "":
		return lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	case s.infoMsg != "":
		return theme.Notice.Render(s.infoMsg)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
