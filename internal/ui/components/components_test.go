package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestChipKeys(t *testing.T) {
	assert.Equal(t, 0, ChipIndex("1"))
	assert.Equal(t, 9, ChipIndex("0"))
	assert.Equal(t, 10, ChipIndex("a"))
	assert.Equal(t, -1, ChipIndex("enter"))
	assert.Equal(t, -1, ChipIndex("!"))
	assert.Equal(t, "0", ChipLabel(9))
	assert.Equal(t, "", ChipLabel(len(ChipKeys)))
}

func TestChipTrayWraps(t *testing.T) {
	chips := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	out := ChipTray(chips, func(int) bool { return false }, 24)
	assert.Contains(t, out, "1 alpha")
	assert.Contains(t, out, "5 epsilon")
	// Each chip is three lines tall, so a wrapped tray has more than three.
	assert.Greater(t, strings.Count(out, "\n"), 2)
}

func TestAnswerLine(t *testing.T) {
	assert.Contains(t, AnswerLine(nil), "pick the words")
	assert.Contains(t, AnswerLine([]string{"I", "like", "tea."}), "I like tea.")
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar("Part 1", 1, 4, 40)
	assert.InDelta(t, 0.25, p.Ratio(), 1e-9)
	assert.Contains(t, p.View(), "1/4")

	p.Percent = true
	assert.Contains(t, p.View(), "25%")

	thirds := NewProgressBar("", 2, 3, 40)
	thirds.Percent = true
	assert.Contains(t, thirds.View(), "67%")

	assert.Equal(t, 0.0, NewProgressBar("", 3, 0, 40).Ratio())
	assert.Equal(t, 1.0, NewProgressBar("", 9, 4, 40).Ratio())
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b"},
		{Label: "c", Disabled: true},
		{Label: "d"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m.Select(2)
	assert.Equal(t, 3, m.Selected)
	m.Select(99)
	assert.Equal(t, 3, m.Selected)
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, ran)
}

func TestButtonRow(t *testing.T) {
	row := ButtonRow([]Button{
		{Key: "s", Label: "Structure", Active: true},
		{Key: "q", Label: "Quiz", Disabled: true},
	})
	assert.Contains(t, row, "[s] Structure")
	assert.Contains(t, row, "[q] Quiz")
}
