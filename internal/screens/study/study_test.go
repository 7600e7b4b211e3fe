package study

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/chunkz/internal/clock"
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/persist"
	"github.com/abhisek/chunkz/internal/router"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/store"
	"github.com/abhisek/chunkz/internal/ui/components"
	"github.com/abhisek/chunkz/internal/ui/layout"
)

// mockSnapshotRepo implements store.SnapshotRepo for testing.
type mockSnapshotRepo struct {
	saved []store.ProgressData
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	m.saved = append(m.saved, snap.Data)
	return nil
}
func (m *mockSnapshotRepo) Latest(context.Context, string) (*store.Snapshot, error) { return nil, nil }
func (m *mockSnapshotRepo) Prune(context.Context, string, int) error               { return nil }
func (m *mockSnapshotRepo) Delete(context.Context, string) error                   { return nil }

// recordingSpeaker records what it was asked to say.
type recordingSpeaker struct {
	texts []string
	rates []float64
	stops int
}

func (r *recordingSpeaker) Speak(_ context.Context, text string, rate float64) error {
	r.texts = append(r.texts, text)
	r.rates = append(r.rates, rate)
	return nil
}
func (r *recordingSpeaker) Stop() { r.stops++ }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

type fixture struct {
	screen  *StudyScreen
	ctrl    *session.Controller
	clock   *clock.Fake
	snaps   *mockSnapshotRepo
	speaker *recordingSpeaker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	program := dataset.Build(dataset.BuildOptions{ProgramID: "program7", IDPrefix: "p7"}, []dataset.Row{
		{Part: "Part 1", English: "I like tea.", Japanese: "私はお茶が好きです。"},
		{Part: "Part 1", English: "She plays tennis every day.", Japanese: "彼女は毎日テニスをします。"},
		{Part: "Part 1", English: "We went to the park.", Japanese: "私たちは公園に行きました。"},
	})
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctrl := session.New(program, session.Config{Cooldown: time.Minute, MasterStreak: 3}, clk)
	if err := ctrl.OpenPart("program7-part1"); err != nil {
		t.Fatalf("open part: %v", err)
	}
	snaps := &mockSnapshotRepo{}
	speaker := &recordingSpeaker{}
	s := New(Deps{
		Controller: ctrl,
		Recorder:   persist.NewRecorder(snaps, nil, "program7"),
		Speaker:    speaker,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})
	return &fixture{screen: s, ctrl: ctrl, clock: clk, snaps: snaps, speaker: speaker}
}

func (f *fixture) press(msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = f.screen.Update(m)
	}
	return cmd
}

// answer picks the chips that spell tokens, in order.
func (f *fixture) answer(t *testing.T, tokens []string) {
	t.Helper()
	chips := f.screen.arrangement.Chips()
	for _, tok := range tokens {
		picked := false
		for i, c := range chips {
			if c == tok && !f.screen.arrangement.Used(i) {
				f.press(keyPress(rune(components.ChipLabel(i)[0])))
				picked = true
				break
			}
		}
		if !picked {
			t.Fatalf("no free chip for %q", tok)
		}
	}
}

func TestStudyScreen_Title(t *testing.T) {
	f := newFixture(t)
	if got := f.screen.Title(); got != "Part 1" {
		t.Errorf("Title = %q, want %q", got, "Part 1")
	}
	if !strings.Contains(f.screen.View(100, 30), "I like tea.") {
		t.Error("expected the current sentence in the view")
	}
}

func TestStudyScreen_CorrectAnswer(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))
	if !f.ctrl.Locked() {
		t.Fatal("expected the quiz to lock the attempt")
	}
	if f.screen.arrangement == nil {
		t.Fatal("expected chips for the quiz")
	}

	item := f.ctrl.Current()
	f.answer(t, item.ReorderTokens)
	f.press(specialKey(tea.KeyEnter))

	if f.ctrl.Locked() {
		t.Error("expected the attempt to unlock after checking")
	}
	if f.screen.result == nil || !f.screen.result.Correct {
		t.Fatalf("expected a correct result, got %+v", f.screen.result)
	}
	if got := f.ctrl.Progress().Get(item.ID).Streak; got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
	if len(f.snaps.saved) == 0 {
		t.Error("expected progress to be saved")
	}
	if !strings.Contains(f.screen.View(100, 30), "Correct!") {
		t.Error("expected the result in the view")
	}
}

func TestStudyScreen_WrongAnswerShowsExpected(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))

	item := f.ctrl.Current()
	reversed := make([]string, len(item.ReorderTokens))
	for i, tok := range item.ReorderTokens {
		reversed[len(reversed)-1-i] = tok
	}
	f.answer(t, reversed)
	f.press(specialKey(tea.KeyEnter))

	if f.screen.result == nil || f.screen.result.Correct {
		t.Fatalf("expected a wrong result, got %+v", f.screen.result)
	}
	if got := f.ctrl.Progress().Get(item.ID).WrongCount; got != 1 {
		t.Errorf("wrong count = %d, want 1", got)
	}
	if !strings.Contains(f.screen.View(100, 30), "Answer: I like tea") {
		t.Error("expected the expected answer in the view")
	}
}

func TestStudyScreen_IncompleteAnswerIsNotChecked(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'), keyPress('1'), specialKey(tea.KeyEnter))

	if !f.ctrl.Locked() {
		t.Error("expected the attempt to stay open")
	}
	if !strings.Contains(f.screen.errMsg, "every word") {
		t.Errorf("errMsg = %q", f.screen.errMsg)
	}
}

func TestStudyScreen_UndoAndClear(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'), keyPress('1'), keyPress('2'))
	if got := len(f.screen.arrangement.Answer()); got != 2 {
		t.Fatalf("picked = %d, want 2", got)
	}
	f.press(specialKey(tea.KeyBackspace))
	if got := len(f.screen.arrangement.Answer()); got != 1 {
		t.Errorf("after undo picked = %d, want 1", got)
	}
	f.press(specialKey(tea.KeyDelete))
	if got := len(f.screen.arrangement.Answer()); got != 0 {
		t.Errorf("after clear picked = %d, want 0", got)
	}
}

func TestStudyScreen_NavigationLockedDuringQuiz(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))

	f.press(specialKey(tea.KeyRight))
	if f.ctrl.Index() != 0 {
		t.Errorf("index = %d, want 0", f.ctrl.Index())
	}
	if f.screen.errMsg != session.ErrLocked.Error() {
		t.Errorf("errMsg = %q, want lock message", f.screen.errMsg)
	}

	if cmd := f.press(specialKey(tea.KeyEscape)); cmd != nil {
		t.Error("expected esc to be rejected while locked")
	}
	if f.ctrl.View() != session.ViewStudy {
		t.Error("expected to stay on the study view")
	}
}

func TestStudyScreen_CooldownBlocksRequiz(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))
	f.answer(t, f.ctrl.Current().ReorderTokens)
	f.press(specialKey(tea.KeyEnter))

	f.press(keyPress('s'), keyPress('q'))
	if f.ctrl.Locked() {
		t.Fatal("expected the quiz to be blocked during cooldown")
	}
	if !strings.Contains(f.screen.errMsg, "cooling down") {
		t.Errorf("errMsg = %q", f.screen.errMsg)
	}

	f.clock.Advance(time.Minute)
	f.press(keyPress('q'))
	if !f.ctrl.Locked() {
		t.Error("expected the quiz to open after the cooldown")
	}
}

func TestStudyScreen_EnterAfterCheckIsRejected(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))
	f.answer(t, f.ctrl.Current().ReorderTokens)
	f.press(specialKey(tea.KeyEnter))
	f.press(specialKey(tea.KeyEnter))

	if f.screen.errMsg != session.ErrAlreadyChecked.Error() {
		t.Errorf("errMsg = %q, want already-checked message", f.screen.errMsg)
	}
	if got := f.ctrl.Progress().Get(f.ctrl.Current().ID).Streak; got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}

func TestStudyScreen_EscGoesHome(t *testing.T) {
	f := newFixture(t)
	cmd := f.press(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
	if f.ctrl.View() != session.ViewHome {
		t.Error("expected the controller on the home view")
	}
}

func TestStudyScreen_Jump(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('g'))
	if !f.screen.jumping {
		t.Fatal("expected the jump input")
	}
	f.press(keyPress('3'), specialKey(tea.KeyEnter))
	if f.ctrl.Index() != 2 {
		t.Errorf("index = %d, want 2", f.ctrl.Index())
	}

	f.press(keyPress('g'), keyPress('9'), specialKey(tea.KeyEnter))
	if f.screen.errMsg != session.ErrOutOfRange.Error() {
		t.Errorf("errMsg = %q, want out-of-range message", f.screen.errMsg)
	}
}

func TestStudyScreen_SummaryFilterAndOpen(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('m'))
	if f.ctrl.Tab() != session.TabSummary {
		t.Fatalf("tab = %q, want summary", f.ctrl.Tab())
	}

	f.press(keyPress('f'))
	if f.ctrl.Filter() != session.FilterWrong {
		t.Errorf("filter = %q, want wrong", f.ctrl.Filter())
	}
	if !strings.Contains(f.screen.View(100, 30), "Nothing to show") {
		t.Error("expected an empty wrong list")
	}

	f.press(keyPress('f'), keyPress('f'))
	if f.ctrl.Filter() != session.FilterAll {
		t.Errorf("filter = %q, want all", f.ctrl.Filter())
	}

	f.press(specialKey(tea.KeyDown), specialKey(tea.KeyEnter))
	if f.ctrl.Index() != 1 {
		t.Errorf("index = %d, want 1", f.ctrl.Index())
	}
	if f.ctrl.Tab() != session.TabStructure {
		t.Errorf("tab = %q, want structure after moving", f.ctrl.Tab())
	}
}

func TestStudyScreen_SpeechUsesRate(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('v'))
	cmd := f.press(keyPress('p'))
	if cmd == nil {
		t.Fatal("expected a playback command")
	}
	msg := cmd()
	if _, ok := msg.(speechDoneMsg); !ok {
		t.Fatalf("expected speechDoneMsg, got %T", msg)
	}
	if len(f.speaker.texts) != 1 || f.speaker.texts[0] != "I like tea." {
		t.Errorf("spoken = %v", f.speaker.texts)
	}
	if f.speaker.rates[0] != session.RateSlow {
		t.Errorf("rate = %v, want %v", f.speaker.rates[0], session.RateSlow)
	}

	f.screen.Update(msg)
	if f.screen.speaking {
		t.Error("expected playback to be finished")
	}
}

func TestStudyScreen_RevealAndAttempt(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('t'))
	if !f.ctrl.Revealed() {
		t.Fatal("expected the translation to be revealed")
	}
	if !strings.Contains(f.screen.View(100, 30), "私はお茶が好きです。") {
		t.Error("expected the translation in the view")
	}

	f.press(keyPress('i'))
	if !f.screen.editing {
		t.Fatal("expected the attempt input to be focused")
	}
	f.press(keyPress('x'), specialKey(tea.KeyEnter))
	if f.screen.editing {
		t.Error("expected enter to leave the attempt input")
	}
	if f.screen.attempt.Value() != "x" {
		t.Errorf("attempt = %q, want %q", f.screen.attempt.Value(), "x")
	}

	f.press(specialKey(tea.KeyRight))
	if f.screen.attempt.Value() != "" {
		t.Error("expected the attempt to clear on a new sentence")
	}
}

func TestStudyScreen_ResetPartConfirm(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))
	f.answer(t, f.ctrl.Current().ReorderTokens)
	f.press(specialKey(tea.KeyEnter))

	f.press(keyPress('R'), keyPress('n'))
	if f.ctrl.Progress().Get("p7-1-s1").Streak != 1 {
		t.Error("expected progress kept after cancel")
	}

	f.press(keyPress('R'), keyPress('y'))
	if f.ctrl.Progress().Get("p7-1-s1").Streak != 0 {
		t.Error("expected progress cleared after confirm")
	}
}

func TestStudyScreen_KeyHintsFollowLock(t *testing.T) {
	f := newFixture(t)
	if hints := f.screen.KeyHints(); hints[len(hints)-1].Description != "Home" {
		t.Errorf("expected Home hint, got %+v", hints)
	}
	f.press(keyPress('q'))
	if hints := f.screen.KeyHints(); hints[len(hints)-1].Description != "Check" {
		t.Errorf("expected Check hint while locked, got %+v", hints)
	}
}

func TestStudyScreen_ReshuffleAfterCheckKeepsGuard(t *testing.T) {
	f := newFixture(t)
	f.press(keyPress('q'))
	f.answer(t, f.ctrl.Current().ReorderTokens)
	f.press(specialKey(tea.KeyEnter))
	id := f.ctrl.Current().ID

	before := f.screen.arrangement
	f.press(specialKey(tea.KeyDelete))

	if f.screen.arrangement == before {
		t.Fatal("expected a fresh arrangement")
	}
	if len(f.screen.arrangement.Answer()) != 0 {
		t.Errorf("answer = %v, want empty", f.screen.arrangement.Answer())
	}
	if f.ctrl.CheckedFor() != id {
		t.Errorf("checked for = %q, want %q", f.ctrl.CheckedFor(), id)
	}
	if f.ctrl.Locked() {
		t.Error("reshuffle must not reopen the attempt")
	}
	if view := f.screen.View(100, 40); !strings.Contains(view, "Already checked") {
		t.Errorf("view missing checked hint:\n%s", view)
	}
	if hints := f.screen.KeyHints(); !slices.ContainsFunc(hints, func(h layout.KeyHint) bool { return h.Description == "Reshuffle" }) {
		t.Errorf("hints = %v, want a reshuffle hint", hints)
	}

	f.press(specialKey(tea.KeyEnter))
	if f.screen.errMsg != session.ErrAlreadyChecked.Error() {
		t.Errorf("errMsg = %q, want already-checked message", f.screen.errMsg)
	}
	if got := f.ctrl.Progress().Get(id).Streak; got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}
