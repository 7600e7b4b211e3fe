package session

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/chunkz/internal/clock"
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/store"
)

var start = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func item(id, text string, tokens ...string) dataset.SentenceItem {
	return dataset.SentenceItem{ID: id, Text: text, Translation: "訳", ReorderTokens: tokens}
}

func testProgram() *dataset.Program {
	return &dataset.Program{
		ID: "program7",
		Parts: []dataset.Part{
			{ID: "program7-part1", Label: "Part 1", Key: "1", Number: 1, Items: []dataset.SentenceItem{
				item("p7-1-s1", "I like tea.", "I", "like", "tea"),
				item("p7-1-s2", "She runs.", "She", "runs"),
				item("p7-1-s3", "We swim.", "We", "swim"),
			}},
			{ID: "program7-part2", Label: "Part 2", Key: "2", Number: 2, Items: []dataset.SentenceItem{
				item("p7-2-s1", "He sings.", "He", "sings"),
			}},
		},
	}
}

func newTestController(t *testing.T, cfg Config) (*Controller, *clock.Fake) {
	t.Helper()
	if cfg.MasterStreak == 0 {
		cfg.MasterStreak = 3
	}
	clk := clock.NewFake(start)
	return New(testProgram(), cfg, clk), clk
}

func defaultConfig() Config {
	return Config{Cooldown: 60 * time.Second, MasterStreak: 3}
}

// check enters the quiz on the current sentence and submits tokens.
func check(t *testing.T, c *Controller, tokens ...string) *CheckResult {
	t.Helper()
	require.NoError(t, c.OpenTab(TabQuiz))
	res, err := c.Submit(tokens)
	require.NoError(t, err)
	return res
}

func TestNewControllerStartsHome(t *testing.T) {
	c, _ := newTestController(t, defaultConfig())
	assert.Equal(t, ViewHome, c.View())
	assert.Nil(t, c.Current())
	assert.Equal(t, TabStructure, c.Tab())
	assert.Equal(t, FilterAll, c.Filter())
	assert.Equal(t, RateNormal, c.SpeechRate())
	assert.ErrorIs(t, c.OpenTab(TabQuiz), ErrNoSentence)
	assert.ErrorIs(t, c.Next(), ErrNoSentence)
}

func TestOpenPartAndNavigate(t *testing.T) {
	c, _ := newTestController(t, defaultConfig())

	assert.ErrorIs(t, c.OpenPart("nope"), ErrUnknownPart)
	require.NoError(t, c.OpenPart("program7-part1"))
	assert.Equal(t, ViewStudy, c.View())
	assert.Equal(t, "p7-1-s1", c.Current().ID)

	assert.ErrorIs(t, c.Prev(), ErrOutOfRange)
	require.NoError(t, c.Next())
	require.NoError(t, c.Next())
	assert.Equal(t, "p7-1-s3", c.Current().ID)
	assert.ErrorIs(t, c.Next(), ErrOutOfRange)
	assert.Equal(t, 2, c.Index())

	require.NoError(t, c.Jump(0))
	assert.Equal(t, "p7-1-s1", c.Current().ID)
	assert.ErrorIs(t, c.Jump(7), ErrOutOfRange)

	require.NoError(t, c.GoHome())
	assert.Nil(t, c.Current())
}

func TestSubmitCorrectAndWrong(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 3})
	require.NoError(t, c.OpenPart("program7-part1"))

	res := check(t, c, "I", "like", "tea")
	assert.True(t, res.Correct)
	assert.Equal(t, "I like tea", res.Answer)
	assert.Equal(t, "I like tea", res.Expected)
	assert.Equal(t, "program7-part1", res.PartID)
	assert.Equal(t, 1, res.Outcome.Record.Streak)
	assert.False(t, c.Locked())
	assert.Equal(t, "p7-1-s1", c.CheckedFor())

	res = check(t, c, "tea", "like", "I")
	assert.False(t, res.Correct)
	rec := c.Progress().Get("p7-1-s1")
	assert.Equal(t, 0, rec.Streak)
	assert.Equal(t, 1, rec.WrongCount)
}

func TestMasteryIsStickyAfterThreeCorrect(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 3})
	require.NoError(t, c.OpenPart("program7-part2"))

	for i := 1; i <= 3; i++ {
		res := check(t, c, "He", "sings")
		assert.Equal(t, i, res.Outcome.Record.Streak)
		assert.Equal(t, i == 3, res.Outcome.NewlyMastered)
	}
	assert.True(t, c.Progress().Get("p7-2-s1").Mastered)

	check(t, c, "sings", "He")
	rec := c.Progress().Get("p7-2-s1")
	assert.Equal(t, 0, rec.Streak)
	assert.True(t, rec.Mastered)
}

func TestDoubleSubmitIsNoOp(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 3})
	require.NoError(t, c.OpenPart("program7-part1"))

	check(t, c, "I", "like", "tea")
	before := c.Snapshot()

	_, err := c.Submit([]string{"I", "like", "tea"})
	assert.ErrorIs(t, err, ErrAlreadyChecked)
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, 1, c.Progress().Get("p7-1-s1").Streak)
}

func TestSubmitOutsideQuiz(t *testing.T) {
	c, _ := newTestController(t, defaultConfig())
	require.NoError(t, c.OpenPart("program7-part1"))
	_, err := c.Submit([]string{"I"})
	assert.ErrorIs(t, err, ErrNotInQuiz)
}

func TestCooldownGatesQuizEntry(t *testing.T) {
	c, clk := newTestController(t, defaultConfig())
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "I", "like", "tea")

	// Leave and come back: the checked marker clears, the cooldown does not.
	require.NoError(t, c.Next())
	require.NoError(t, c.Prev())
	assert.Equal(t, "", c.CheckedFor())

	clk.Advance(59 * time.Second)
	err := c.OpenTab(TabQuiz)
	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	assert.Equal(t, time.Second, cd.Remaining)
	assert.Equal(t, "quiz cooling down, try again in 1s", cd.Error())
	assert.False(t, c.Locked())
	assert.Equal(t, TabStructure, c.Tab())
	assert.False(t, c.Flags().Quiz)

	clk.Advance(time.Second)
	assert.True(t, c.Flags().Quiz)
	require.NoError(t, c.OpenTab(TabQuiz))
	assert.True(t, c.Locked())
}

func TestCooldownAppliesToWrongAnswers(t *testing.T) {
	c, clk := newTestController(t, defaultConfig())
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "nope")
	require.NoError(t, c.OpenTab(TabStructure))

	var cd *CooldownError
	assert.ErrorAs(t, c.OpenTab(TabQuiz), &cd)
	clk.Advance(time.Minute)
	assert.NoError(t, c.OpenTab(TabQuiz))
}

func TestLockRejectsNavigation(t *testing.T) {
	c, _ := newTestController(t, defaultConfig())
	require.NoError(t, c.OpenPart("program7-part1"))
	require.NoError(t, c.Next())
	require.NoError(t, c.OpenTab(TabQuiz))
	require.True(t, c.Locked())

	before := c.Snapshot()
	actions := map[string]func() error{
		"next":      c.Next,
		"prev":      c.Prev,
		"jump":      func() error { return c.Jump(2) },
		"home":      c.GoHome,
		"structure": func() error { return c.OpenTab(TabStructure) },
		"summary":   func() error { return c.OpenTab(TabSummary) },
		"open part": func() error { return c.OpenPart("program7-part2") },
		"reset":     func() error { return c.ResetPart("program7-part1") },
		"reveal":    c.ToggleTranslation,
		"speak": func() error {
			_, err := c.SpeakText()
			return err
		},
	}
	for name, act := range actions {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, act(), ErrLocked)
			assert.Equal(t, before, c.Snapshot())
		})
	}

	// Re-entering the quiz is allowed and keeps the lock.
	require.NoError(t, c.OpenTab(TabQuiz))
	assert.True(t, c.Locked())

	assert.Equal(t, Flags{Quiz: true, Check: true}, c.Flags())

	_, err := c.Submit([]string{"She", "runs"})
	require.NoError(t, err)
	assert.False(t, c.Locked())
	assert.NoError(t, c.Next())
}

func TestFlags(t *testing.T) {
	c, _ := newTestController(t, defaultConfig())
	assert.Equal(t, Flags{Home: true, Reset: true}, c.Flags())

	require.NoError(t, c.OpenPart("program7-part1"))
	f := c.Flags()
	assert.True(t, f.Structure)
	assert.True(t, f.Quiz)
	assert.True(t, f.Summary)
	assert.False(t, f.Prev)
	assert.True(t, f.Next)
	assert.True(t, f.Jump)
	assert.False(t, f.Check)
	assert.True(t, f.Tab(TabQuiz))

	require.NoError(t, c.Jump(2))
	f = c.Flags()
	assert.True(t, f.Prev)
	assert.False(t, f.Next)

	require.NoError(t, c.OpenPart("program7-part2"))
	assert.False(t, c.Flags().Jump)

	// After a check the quiz tab stays open but checking is disabled.
	require.NoError(t, c.OpenTab(TabQuiz))
	_, err := c.Submit([]string{"He", "sings"})
	require.NoError(t, err)
	f = c.Flags()
	assert.False(t, f.Check)
	assert.False(t, f.Quiz)
	assert.True(t, f.Home)
}

func TestTabSwitchClearsCheckedMarker(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 3})
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "I", "like", "tea")

	require.NoError(t, c.OpenTab(TabSummary))
	assert.Equal(t, "", c.CheckedFor())
	assert.Equal(t, TabSummary, c.Tab())
	assert.ErrorIs(t, c.OpenTab(Tab("bogus")), ErrUnknownTab)
}

func TestRoundCycling(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 3, RoundCycling: true})
	require.NoError(t, c.OpenPart("program7-part1"))

	check(t, c, "I", "like", "tea")
	require.NoError(t, c.OpenTab(TabStructure))
	assert.ErrorIs(t, c.OpenTab(TabQuiz), ErrDoneThisRound)
	assert.False(t, c.Flags().Quiz)

	done, total := c.RoundProgress("program7-part1")
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)

	require.NoError(t, c.Next())
	check(t, c, "She", "runs")
	require.NoError(t, c.Next())
	check(t, c, "We", "swim")

	// The round is complete, so every sentence is available again and the
	// round restarts on the next entry.
	require.NoError(t, c.Jump(0))
	require.NoError(t, c.OpenTab(TabQuiz))
	done, _ = c.RoundProgress("program7-part1")
	assert.Equal(t, 0, done)
	_, err := c.Submit([]string{"I", "like", "tea"})
	require.NoError(t, err)

	require.NoError(t, c.Next())
	require.NoError(t, c.OpenTab(TabQuiz))
}

func TestRoundsIgnoredWithoutCycling(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 3})
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "I", "like", "tea")
	require.NoError(t, c.OpenTab(TabStructure))
	assert.NoError(t, c.OpenTab(TabQuiz))

	done, _ := c.RoundProgress("program7-part1")
	assert.Equal(t, 1, done)
}

func TestResetPart(t *testing.T) {
	c, _ := newTestController(t, Config{Cooldown: time.Minute, MasterStreak: 1, RoundCycling: true})
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "I", "like", "tea")
	require.NoError(t, c.Next())
	check(t, c, "wrong")
	require.NoError(t, c.OpenPart("program7-part2"))
	check(t, c, "He", "sings")

	assert.ErrorIs(t, c.ResetPart("nope"), ErrUnknownPart)
	require.NoError(t, c.ResetPart("program7-part1"))

	for _, id := range []string{"p7-1-s1", "p7-1-s2", "p7-1-s3"} {
		rec := c.Progress().Get(id)
		assert.Zero(t, rec.Streak, id)
		assert.Zero(t, rec.WrongCount, id)
		assert.False(t, rec.Mastered, id)
		assert.True(t, rec.CooldownUntil.IsZero(), id)
	}
	done, _ := c.RoundProgress("program7-part1")
	assert.Zero(t, done)

	other := c.Progress().Get("p7-2-s1")
	assert.True(t, other.Mastered)
	assert.False(t, other.CooldownUntil.IsZero())
	done, _ = c.RoundProgress("program7-part2")
	assert.Equal(t, 1, done)
	assert.Equal(t, "", c.CheckedFor())
}

func TestResetAll(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 1})
	require.NoError(t, c.OpenPart("program7-part1"))
	c.ToggleSpeechRate()
	require.NoError(t, c.SetFilter(FilterWrong))
	check(t, c, "I", "like", "tea")

	c.ResetAll()
	assert.Equal(t, store.DefaultProgress(), c.Snapshot())
}

func TestSummaryFilters(t *testing.T) {
	c, _ := newTestController(t, Config{MasterStreak: 1})
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "I", "like", "tea")
	require.NoError(t, c.Next())
	check(t, c, "runs", "She")

	ids := func(rows []SummaryRow) []string {
		var out []string
		for _, r := range rows {
			out = append(out, r.Item.ID)
		}
		return out
	}

	assert.Equal(t, []string{"p7-1-s1", "p7-1-s2", "p7-1-s3"}, ids(c.Summary(FilterAll)))
	assert.Equal(t, []string{"p7-1-s2"}, ids(c.Summary(FilterWrong)))
	assert.Equal(t, []string{"p7-1-s2", "p7-1-s3"}, ids(c.Summary(FilterNotMastered)))

	assert.ErrorIs(t, c.SetFilter("bogus"), ErrUnknownFilter)
	require.NoError(t, c.SetFilter(FilterNotMastered))
	assert.Equal(t, FilterNotMastered, c.Filter())

	stats := c.PartStats("program7-part1")
	assert.Equal(t, Stats{Total: 3, Mastered: 1, Wrong: 1}, stats)
	assert.Equal(t, 33, stats.Percent())
	assert.Equal(t, Stats{Total: 4, Mastered: 1, Wrong: 1}, c.ProgramStats())
	assert.Equal(t, 0, Stats{}.Percent())
}

func TestStatsPercent_Rounds(t *testing.T) {
	tests := []struct {
		stats Stats
		want  int
	}{
		{Stats{Total: 3, Mastered: 2}, 67},
		{Stats{Total: 3, Mastered: 1}, 33},
		{Stats{Total: 8, Mastered: 1}, 13},
		{Stats{Total: 200, Mastered: 1}, 1},
		{Stats{Total: 201, Mastered: 1}, 0},
		{Stats{Total: 4, Mastered: 4}, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.stats.Percent(), "%d/%d", tt.stats.Mastered, tt.stats.Total)
	}
}

func TestSpeechAndTranslation(t *testing.T) {
	c, _ := newTestController(t, defaultConfig())
	_, err := c.SpeakText()
	assert.ErrorIs(t, err, ErrNoSentence)

	require.NoError(t, c.OpenPart("program7-part1"))
	text, err := c.SpeakText()
	require.NoError(t, err)
	assert.Equal(t, "I like tea.", text)

	assert.Equal(t, RateSlow, c.ToggleSpeechRate())
	assert.Equal(t, RateNormal, c.ToggleSpeechRate())
	c.SetSpeechRate(-2)
	assert.Equal(t, RateNormal, c.SpeechRate())

	require.NoError(t, c.ToggleTranslation())
	assert.True(t, c.Revealed())
	require.NoError(t, c.Next())
	assert.False(t, c.Revealed())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, _ := newTestController(t, Config{Cooldown: time.Minute, MasterStreak: 2, RoundCycling: true})
	require.NoError(t, c.OpenPart("program7-part1"))
	check(t, c, "I", "like", "tea")
	require.NoError(t, c.Next())
	c.ToggleSpeechRate()
	require.NoError(t, c.SetFilter(FilterWrong))
	require.NoError(t, c.OpenTab(TabQuiz))

	snap := c.Snapshot()
	assert.True(t, snap.QuizAttemptLocked)
	assert.Equal(t, "quiz", snap.CurrentTab)
	assert.Equal(t, map[string][]string{"program7-part1": {"p7-1-s1"}}, snap.QuizDoneByPart)

	restored, _ := newTestController(t, c.Config())
	restored.Restore(snap)
	assert.Equal(t, snap, restored.Snapshot())
	assert.True(t, restored.Locked())
	assert.Equal(t, "p7-1-s2", restored.Current().ID)
	assert.Equal(t, RateSlow, restored.SpeechRate())

	_, err := restored.Submit([]string{"She", "runs"})
	require.NoError(t, err)
	require.NoError(t, restored.Prev())
	var cd *CooldownError
	assert.ErrorAs(t, restored.OpenTab(TabQuiz), &cd)
}

func TestRestoreInvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *store.ProgressData)
		check func(t *testing.T, c *Controller)
	}{
		{
			name: "unknown part returns home",
			edit: func(d *store.ProgressData) {
				d.View = "study"
				d.CurrentPartID = "gone"
				d.QuizAttemptLocked = true
				d.CurrentTab = "quiz"
			},
			check: func(t *testing.T, c *Controller) {
				assert.Equal(t, ViewHome, c.View())
				assert.False(t, c.Locked())
			},
		},
		{
			name: "index out of range",
			edit: func(d *store.ProgressData) {
				d.View = "study"
				d.CurrentPartID = "program7-part1"
				d.Index = 42
			},
			check: func(t *testing.T, c *Controller) {
				assert.Equal(t, 0, c.Index())
				assert.Equal(t, "p7-1-s1", c.Current().ID)
			},
		},
		{
			name: "unknown tab and filter",
			edit: func(d *store.ProgressData) {
				d.View = "study"
				d.CurrentPartID = "program7-part1"
				d.CurrentTab = "settings"
				d.SummaryFilter = "recent"
				d.QuizAttemptLocked = true
			},
			check: func(t *testing.T, c *Controller) {
				assert.Equal(t, TabStructure, c.Tab())
				assert.Equal(t, FilterAll, c.Filter())
				assert.False(t, c.Locked())
			},
		},
		{
			name: "checked marker for another sentence",
			edit: func(d *store.ProgressData) {
				d.View = "study"
				d.CurrentPartID = "program7-part1"
				d.CurrentTab = "quiz"
				d.QuizCheckedForID = "p7-1-s3"
			},
			check: func(t *testing.T, c *Controller) {
				assert.Equal(t, "", c.CheckedFor())
			},
		},
		{
			name: "checked marker wins over lock",
			edit: func(d *store.ProgressData) {
				d.View = "study"
				d.CurrentPartID = "program7-part1"
				d.CurrentTab = "quiz"
				d.QuizAttemptLocked = true
				d.QuizCheckedForID = "p7-1-s1"
			},
			check: func(t *testing.T, c *Controller) {
				assert.Equal(t, "p7-1-s1", c.CheckedFor())
				assert.False(t, c.Locked())
			},
		},
		{
			name: "rounds for unknown parts dropped",
			edit: func(d *store.ProgressData) {
				d.QuizDoneByPart = map[string][]string{"gone": {"x"}, "program7-part2": {"p7-2-s1"}}
			},
			check: func(t *testing.T, c *Controller) {
				assert.Equal(t, map[string][]string{"program7-part2": {"p7-2-s1"}}, c.Snapshot().QuizDoneByPart)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, defaultConfig())
			data := store.DefaultProgress()
			tt.edit(&data)
			c.Restore(data)
			tt.check(t, c)
		})
	}
}

func TestRestoreOnEmptyProgram(t *testing.T) {
	c := New(nil, defaultConfig(), clock.NewFake(start))
	data := store.DefaultProgress()
	data.View = "study"
	data.CurrentPartID = "program7-part1"
	data.StreakByID["p7-1-s1"] = 2
	c.Restore(data)

	assert.Equal(t, ViewHome, c.View())
	assert.Equal(t, 2, c.Progress().Get("p7-1-s1").Streak)
	assert.True(t, c.Program().Empty())
}

func TestArrangement(t *testing.T) {
	tokens := []string{"I", "like", "green", "tea"}
	a := NewArrangement(tokens, rand.New(rand.NewPCG(1, 2)))

	assert.ElementsMatch(t, tokens, a.Chips())
	assert.False(t, a.Complete())

	// Pick chips back into sentence order.
	for _, want := range tokens {
		for i, chip := range a.Chips() {
			if chip == want && !a.Used(i) {
				require.True(t, a.Pick(i))
				break
			}
		}
	}
	assert.True(t, a.Complete())
	assert.Equal(t, tokens, a.Answer())

	assert.False(t, a.Pick(0), "used chip")
	assert.False(t, a.Pick(99), "missing chip")

	require.True(t, a.Undo())
	assert.Equal(t, tokens[:3], a.Answer())
	a.Clear()
	assert.Empty(t, a.Answer())
	assert.False(t, a.Undo())

	// The original slice is not reordered.
	assert.Equal(t, []string{"I", "like", "green", "tea"}, tokens)
}
