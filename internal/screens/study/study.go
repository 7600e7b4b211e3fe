// Package study is the sentence study screen: structure, quiz and summary
// tabs over one part, driven by a session.Controller.
package study

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/chunkz/internal/persist"
	"github.com/abhisek/chunkz/internal/router"
	"github.com/abhisek/chunkz/internal/screen"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/speech"
	"github.com/abhisek/chunkz/internal/ui/components"
)

// Deps are the collaborators shared by the home and study screens.
type Deps struct {
	Controller *session.Controller
	Recorder   *persist.Recorder
	Speaker    speech.Speaker
	Logger     *slog.Logger

	// Rand shuffles quiz chips; nil uses the global source.
	Rand *rand.Rand
}

// Normalize fills in no-op collaborators for nil fields.
func (d Deps) Normalize() Deps {
	if d.Recorder == nil {
		d.Recorder = persist.NewRecorder(nil, nil, d.Controller.Program().ID)
	}
	if d.Speaker == nil {
		d.Speaker = speech.Nop{}
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// StudyScreen implements screen.Screen for one part.
type StudyScreen struct {
	deps Deps
	ctrl *session.Controller

	// current is the sentence the view state below belongs to.
	current string

	// arrangement is the chip pool for the quiz on arrangedFor.
	arrangement *session.Arrangement
	arrangedFor string

	// result is the last check on the current sentence.
	result *session.CheckResult

	attempt      components.TextInput
	editing      bool
	jump         components.TextInput
	jumping      bool
	confirmReset bool
	summarySel   int
	speaking     bool

	errMsg  string
	infoMsg string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.StatusProvider = (*StudyScreen)(nil)

// New creates a study screen over the controller's current part.
func New(deps Deps) *StudyScreen {
	deps = deps.Normalize()
	s := &StudyScreen{
		deps:    deps,
		ctrl:    deps.Controller,
		attempt: components.NewTextInput("Type your own translation...", false, 200),
		jump:    components.NewTextInput("#", true, 4),
	}
	s.attempt.Blur()
	s.jump.Blur()
	s.sync()
	return s
}

func (s *StudyScreen) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *StudyScreen) Title() string {
	if part := s.ctrl.CurrentPart(); part != nil {
		return part.Label
	}
	return "Study"
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, tickCmd()

	case speechDoneMsg:
		s.speaking = false
		if msg.Err != nil && !errors.Is(msg.Err, speech.ErrStopped) && !errors.Is(msg.Err, context.Canceled) {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.attempt, cmd = s.attempt.Update(msg)
		return s, cmd
	}
	if s.jumping {
		var cmd tea.Cmd
		s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch {
	case s.jumping:
		return s.handleJumpKey(msg)
	case s.editing:
		return s.handleAttemptKey(msg)
	case s.confirmReset:
		s.confirmReset = false
		if key == "y" || key == "Y" {
			part := s.ctrl.CurrentPart()
			if part != nil && s.apply(s.ctrl.ResetPart(part.ID)) {
				s.infoMsg = part.Label + " progress cleared"
			}
		}
		return s, nil
	}

	s.errMsg = ""
	s.infoMsg = ""

	if s.ctrl.Locked() {
		if s.handleQuizKey(key) {
			return s, nil
		}
	} else if s.checkedQuiz() && s.handleCheckedKey(key) {
		return s, nil
	}

	switch key {
	case "esc":
		if s.apply(s.ctrl.GoHome()) {
			s.deps.Speaker.Stop()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	case "left", ",":
		s.apply(s.ctrl.Prev())
	case "right", ".", "n":
		s.apply(s.ctrl.Next())
	case "tab":
		s.openTab(s.shiftTab(1))
	case "shift+tab":
		s.openTab(s.shiftTab(-1))
	case "s":
		s.openTab(session.TabStructure)
	case "q":
		s.openTab(session.TabQuiz)
	case "m":
		s.openTab(session.TabSummary)
	case "g":
		if s.guard(s.ctrl.Flags().Jump) {
			s.jumping = true
			s.jump.Reset()
			return s, s.jump.Focus()
		}
	case "p":
		return s, s.speak()
	case "x":
		s.deps.Speaker.Stop()
	case "v":
		rate := s.ctrl.ToggleSpeechRate()
		s.save()
		if rate == session.RateSlow {
			s.infoMsg = "Speech rate: slow"
		} else {
			s.infoMsg = "Speech rate: normal"
		}
	case "t":
		s.apply(s.ctrl.ToggleTranslation())
	case "i":
		if s.ctrl.Tab() == session.TabStructure && s.guard(s.ctrl.Flags().Reveal) {
			s.editing = true
			return s, s.attempt.Focus()
		}
	case "R":
		if s.guard(s.ctrl.Flags().Reset) {
			s.confirmReset = true
		}
	case "f":
		if s.ctrl.Tab() == session.TabSummary {
			s.cycleFilter()
		}
	case "up", "k":
		if s.ctrl.Tab() == session.TabSummary && s.summarySel > 0 {
			s.summarySel--
		}
	case "down", "j":
		if s.ctrl.Tab() == session.TabSummary && s.summarySel < len(s.ctrl.Summary(s.ctrl.Filter()))-1 {
			s.summarySel++
		}
	case "enter":
		switch s.ctrl.Tab() {
		case session.TabSummary:
			rows := s.ctrl.Summary(s.ctrl.Filter())
			if s.summarySel < len(rows) {
				s.apply(s.ctrl.Jump(rows[s.summarySel].Index))
			}
		case session.TabQuiz:
			s.submit()
		}
	}

	s.sync()
	return s, nil
}

// handleQuizKey handles the keys of an open quiz attempt. Keys it does not
// consume fall through to the regular bindings, which the controller
// rejects while the attempt is open.
func (s *StudyScreen) handleQuizKey(key string) bool {
	s.sync()
	if s.arrangement == nil {
		return false
	}
	switch key {
	case "enter":
		s.submit()
		s.sync()
		return true
	case "backspace":
		s.arrangement.Undo()
		return true
	case "delete", "ctrl+u":
		s.arrangement.Clear()
		return true
	}
	if i := components.ChipIndex(key); i >= 0 && i < len(s.arrangement.Chips()) {
		s.arrangement.Pick(i)
		return true
	}
	return false
}

// checkedQuiz reports whether the quiz tab shows a sentence that was
// already checked.
func (s *StudyScreen) checkedQuiz() bool {
	return s.current != "" && s.ctrl.Tab() == session.TabQuiz &&
		s.arrangement != nil && s.arrangedFor == s.current &&
		s.ctrl.CheckedFor() == s.current
}

// handleCheckedKey reshuffles the chips of a sentence that was already
// checked. Checking again stays rejected by the controller.
func (s *StudyScreen) handleCheckedKey(key string) bool {
	switch key {
	case "delete", "ctrl+u":
		s.reshuffle()
		return true
	}
	return false
}

func (s *StudyScreen) reshuffle() {
	item := s.ctrl.Current()
	if item == nil {
		return
	}
	s.arrangement = session.NewArrangement(item.ReorderTokens, s.deps.Rand)
	s.result = nil
	s.infoMsg = "Chips reshuffled"
}

func (s *StudyScreen) handleJumpKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.jumping = false
		s.jump.Blur()
		return s, nil
	case "enter":
		s.jumping = false
		s.jump.Blur()
		n, err := s.jump.NumericValue()
		if err != nil {
			s.errMsg = "enter a sentence number"
			return s, nil
		}
		s.apply(s.ctrl.Jump(n - 1))
		s.sync()
		return s, nil
	}
	var cmd tea.Cmd
	s.jump, cmd = s.jump.Update(msg)
	return s, cmd
}

func (s *StudyScreen) handleAttemptKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		s.editing = false
		s.attempt.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.attempt, cmd = s.attempt.Update(msg)
	return s, cmd
}

// apply shows err, or saves progress when the action succeeded.
func (s *StudyScreen) apply(err error) bool {
	if err != nil {
		s.errMsg = err.Error()
		return false
	}
	s.save()
	return true
}

// guard shows the lock message when an action is disabled.
func (s *StudyScreen) guard(enabled bool) bool {
	if enabled {
		return true
	}
	if s.ctrl.Locked() {
		s.errMsg = session.ErrLocked.Error()
	}
	return false
}

func (s *StudyScreen) save() {
	_ = s.deps.Recorder.Save(context.Background(), s.ctrl)
}

func (s *StudyScreen) openTab(t session.Tab) {
	fresh := t == session.TabQuiz && !s.ctrl.Locked()
	if !s.apply(s.ctrl.OpenTab(t)) {
		return
	}
	if fresh {
		s.newArrangement()
	}
	if t == session.TabSummary {
		s.summarySel = 0
	}
}

func (s *StudyScreen) shiftTab(delta int) session.Tab {
	i := 0
	for j, t := range session.Tabs {
		if t == s.ctrl.Tab() {
			i = j
		}
	}
	n := len(session.Tabs)
	return session.Tabs[((i+delta)%n+n)%n]
}

func (s *StudyScreen) cycleFilter() {
	for i, f := range session.Filters {
		if f == s.ctrl.Filter() {
			next := session.Filters[(i+1)%len(session.Filters)]
			s.apply(s.ctrl.SetFilter(next))
			s.summarySel = 0
			return
		}
	}
}

func (s *StudyScreen) submit() {
	if s.arrangement != nil && s.ctrl.Locked() && !s.arrangement.Complete() {
		s.errMsg = "place every word before checking"
		return
	}
	var tokens []string
	if s.arrangement != nil {
		tokens = s.arrangement.Answer()
	}
	res, err := s.ctrl.Submit(tokens)
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.result = res
	s.save()
	_ = s.deps.Recorder.Check(context.Background(), res)
}

func (s *StudyScreen) speak() tea.Cmd {
	text, err := s.ctrl.SpeakText()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.deps.Speaker.Stop()
	s.speaking = true
	speaker, rate := s.deps.Speaker, s.ctrl.SpeechRate()
	return func() tea.Msg {
		return speechDoneMsg{Err: speaker.Speak(context.Background(), text, rate)}
	}
}

func (s *StudyScreen) newArrangement() {
	item := s.ctrl.Current()
	if item == nil {
		s.arrangement, s.arrangedFor = nil, ""
		return
	}
	s.arrangement = session.NewArrangement(item.ReorderTokens, s.deps.Rand)
	s.arrangedFor = item.ID
	s.result = nil
}

// sync drops view state that no longer belongs to the current sentence.
func (s *StudyScreen) sync() {
	id := ""
	if item := s.ctrl.Current(); item != nil {
		id = item.ID
	}
	if id != s.current {
		s.current = id
		s.arrangement, s.arrangedFor = nil, ""
		s.result = nil
		s.attempt.Reset()
	}
	if s.result != nil && s.ctrl.CheckedFor() != id {
		s.result = nil
	}
	if s.ctrl.Locked() && s.arrangedFor != id {
		s.newArrangement()
	}
	if rows := s.ctrl.Summary(s.ctrl.Filter()); s.summarySel >= len(rows) {
		s.summarySel = max(0, len(rows)-1)
	}
}
