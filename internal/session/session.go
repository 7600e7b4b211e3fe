// Package session owns the study flow of one program: which sentence is
// current, which tab is open, and the quiz lock, cooldown and round rules
// that decide what the learner may do next.
package session

import (
	"slices"
	"strings"
	"time"

	"github.com/abhisek/chunkz/internal/clock"
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/progress"
)

// Controller is the single owner of study state. All methods are meant to
// be called from one goroutine (the UI event loop).
type Controller struct {
	program  *dataset.Program
	cfg      Config
	clock    clock.Clock
	progress *progress.Tracker

	view       View
	partID     string
	index      int
	tab        Tab
	filter     Filter
	speechRate float64

	// rounds lists, per part, the sentences checked in the current round.
	rounds map[string][]string

	// attemptLocked is set while a quiz attempt is open and not yet checked.
	attemptLocked bool

	// checkedFor is the sentence whose current attempt was already checked.
	checkedFor string

	// revealed is true while the translation of the current sentence is shown.
	revealed bool
}

// CheckResult describes one submitted answer.
type CheckResult struct {
	Item     *dataset.SentenceItem
	PartID   string
	Correct  bool
	Answer   string
	Expected string
	Outcome  progress.Outcome
}

// New creates a controller on the home view with no progress.
func New(program *dataset.Program, cfg Config, clk clock.Clock) *Controller {
	if program == nil {
		program = &dataset.Program{}
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	c := &Controller{
		program:  program,
		cfg:      cfg,
		clock:    clk,
		progress: progress.NewTracker(cfg.MasterStreak, cfg.Cooldown),
	}
	c.resetView()
	return c
}

func (c *Controller) resetView() {
	c.view = ViewHome
	c.partID = ""
	c.index = 0
	c.tab = TabStructure
	c.filter = FilterAll
	c.speechRate = RateNormal
	c.rounds = make(map[string][]string)
	c.attemptLocked = false
	c.checkedFor = ""
	c.revealed = false
}

func (c *Controller) Program() *dataset.Program   { return c.program }
func (c *Controller) Progress() *progress.Tracker { return c.progress }
func (c *Controller) Config() Config              { return c.cfg }
func (c *Controller) View() View                  { return c.view }
func (c *Controller) Tab() Tab                    { return c.tab }
func (c *Controller) Filter() Filter              { return c.filter }
func (c *Controller) SpeechRate() float64         { return c.speechRate }
func (c *Controller) Index() int                  { return c.index }
func (c *Controller) Locked() bool                { return c.attemptLocked }
func (c *Controller) CheckedFor() string          { return c.checkedFor }
func (c *Controller) Revealed() bool              { return c.revealed }

// CurrentPart returns the part being studied, or nil on the home view.
func (c *Controller) CurrentPart() *dataset.Part {
	if c.view != ViewStudy {
		return nil
	}
	part, ok := c.program.Part(c.partID)
	if !ok {
		return nil
	}
	return part
}

// Current returns the current sentence, or nil when there is none.
func (c *Controller) Current() *dataset.SentenceItem {
	part := c.CurrentPart()
	if part == nil || c.index < 0 || c.index >= len(part.Items) {
		return nil
	}
	return &part.Items[c.index]
}

// OpenPart starts studying a part at its first sentence.
func (c *Controller) OpenPart(partID string) error {
	if c.attemptLocked {
		return ErrLocked
	}
	if _, ok := c.program.Part(partID); !ok {
		return ErrUnknownPart
	}
	c.view = ViewStudy
	c.partID = partID
	c.index = 0
	c.leaveSentence()
	return nil
}

// GoHome returns to the part list.
func (c *Controller) GoHome() error {
	if c.attemptLocked {
		return ErrLocked
	}
	c.view = ViewHome
	c.leaveSentence()
	return nil
}

// leaveSentence applies the side effects of moving off the current
// sentence.
func (c *Controller) leaveSentence() {
	c.tab = TabStructure
	c.checkedFor = ""
	c.revealed = false
}

// Next moves to the following sentence.
func (c *Controller) Next() error { return c.Jump(c.index + 1) }

// Prev moves to the preceding sentence.
func (c *Controller) Prev() error { return c.Jump(c.index - 1) }

// Jump moves to the sentence at index i of the current part.
func (c *Controller) Jump(i int) error {
	if c.attemptLocked {
		return ErrLocked
	}
	part := c.CurrentPart()
	if part == nil {
		return ErrNoSentence
	}
	if i < 0 || i >= len(part.Items) {
		return ErrOutOfRange
	}
	c.index = i
	c.leaveSentence()
	return nil
}

// OpenTab switches the study tab. Opening the quiz locks navigation until
// the answer is checked; while locked only the quiz itself may be
// reopened.
func (c *Controller) OpenTab(t Tab) error {
	if c.Current() == nil {
		return ErrNoSentence
	}
	if t == TabQuiz {
		return c.enterQuiz()
	}
	if c.attemptLocked {
		return ErrLocked
	}
	if _, ok := ParseTab(string(t)); !ok {
		return ErrUnknownTab
	}
	c.tab = t
	c.checkedFor = ""
	return nil
}

func (c *Controller) enterQuiz() error {
	if c.attemptLocked {
		c.tab = TabQuiz
		return nil
	}
	if err := c.QuizBlock(); err != nil {
		return err
	}
	if c.cfg.RoundCycling && c.roundComplete(c.partID) {
		delete(c.rounds, c.partID)
	}
	c.tab = TabQuiz
	c.attemptLocked = true
	c.checkedFor = ""
	c.revealed = false
	return nil
}

// QuizBlock reports why the quiz cannot be opened for the current
// sentence, or nil if it can.
func (c *Controller) QuizBlock() error {
	item := c.Current()
	if item == nil {
		return ErrNoSentence
	}
	if c.attemptLocked {
		return nil
	}
	if left := c.progress.CooldownRemaining(item.ID, c.clock.Now()); left > 0 {
		return &CooldownError{Remaining: left}
	}
	if c.cfg.RoundCycling && !c.roundComplete(c.partID) && slices.Contains(c.rounds[c.partID], item.ID) {
		return ErrDoneThisRound
	}
	return nil
}

func (c *Controller) roundComplete(partID string) bool {
	part, ok := c.program.Part(partID)
	if !ok {
		return false
	}
	return len(c.rounds[partID]) >= len(part.Items)
}

// CooldownRemaining returns how long sentence id stays out of the quiz.
func (c *Controller) CooldownRemaining(id string) time.Duration {
	return c.progress.CooldownRemaining(id, c.clock.Now())
}

// RoundProgress returns how many sentences of a part were checked in the
// current round.
func (c *Controller) RoundProgress(partID string) (done, total int) {
	part, ok := c.program.Part(partID)
	if !ok {
		return 0, 0
	}
	return min(len(c.rounds[partID]), len(part.Items)), len(part.Items)
}

// Submit checks an assembled answer against the current sentence. The
// comparison is an exact match of the space-joined tokens.
func (c *Controller) Submit(tokens []string) (*CheckResult, error) {
	item := c.Current()
	if item == nil {
		return nil, ErrNoSentence
	}
	if c.checkedFor == item.ID {
		return nil, ErrAlreadyChecked
	}
	if !c.attemptLocked || c.tab != TabQuiz {
		return nil, ErrNotInQuiz
	}

	answer := strings.Join(tokens, " ")
	expected := strings.Join(item.ReorderTokens, " ")
	correct := answer == expected

	out := c.progress.RecordCheck(item.ID, correct, c.clock.Now())
	if !slices.Contains(c.rounds[c.partID], item.ID) {
		c.rounds[c.partID] = append(c.rounds[c.partID], item.ID)
	}
	c.checkedFor = item.ID
	c.attemptLocked = false

	return &CheckResult{
		Item:     item,
		PartID:   c.partID,
		Correct:  correct,
		Answer:   answer,
		Expected: expected,
		Outcome:  out,
	}, nil
}

// SetFilter selects the summary filter.
func (c *Controller) SetFilter(f Filter) error {
	if _, ok := ParseFilter(string(f)); !ok {
		return ErrUnknownFilter
	}
	c.filter = f
	return nil
}

// SetSpeechRate sets the playback rate. Non-positive rates reset it to
// normal.
func (c *Controller) SetSpeechRate(rate float64) {
	if rate <= 0 {
		rate = RateNormal
	}
	c.speechRate = rate
}

// ToggleSpeechRate switches between normal and slow playback.
func (c *Controller) ToggleSpeechRate() float64 {
	if c.speechRate == RateNormal {
		c.speechRate = RateSlow
	} else {
		c.speechRate = RateNormal
	}
	return c.speechRate
}

// SpeakText returns the text to read aloud for the current sentence.
func (c *Controller) SpeakText() (string, error) {
	if c.attemptLocked {
		return "", ErrLocked
	}
	item := c.Current()
	if item == nil {
		return "", ErrNoSentence
	}
	return item.Text, nil
}

// ToggleTranslation shows or hides the translation of the current sentence.
func (c *Controller) ToggleTranslation() error {
	if c.attemptLocked {
		return ErrLocked
	}
	if c.Current() == nil {
		return ErrNoSentence
	}
	c.revealed = !c.revealed
	return nil
}

// ResetPart clears progress, cooldowns and the round for every sentence of
// a part. Other parts are untouched.
func (c *Controller) ResetPart(partID string) error {
	if c.attemptLocked {
		return ErrLocked
	}
	part, ok := c.program.Part(partID)
	if !ok {
		return ErrUnknownPart
	}
	c.progress.Reset(part.ItemIDs())
	delete(c.rounds, partID)
	c.checkedFor = ""
	return nil
}

// ResetAll returns every field to its default.
func (c *Controller) ResetAll() {
	c.progress.ResetAll()
	c.resetView()
}

// Flags reports which actions are currently allowed.
func (c *Controller) Flags() Flags {
	item := c.Current()
	if item == nil {
		return Flags{Home: !c.attemptLocked, Reset: !c.attemptLocked}
	}
	if c.attemptLocked {
		return Flags{Quiz: true, Check: c.checkedFor != item.ID}
	}
	part := c.CurrentPart()
	return Flags{
		Structure: true,
		Quiz:      c.QuizBlock() == nil,
		Summary:   true,
		Prev:      c.index > 0,
		Next:      c.index < len(part.Items)-1,
		Jump:      len(part.Items) > 1,
		Home:      true,
		Speak:     true,
		Reveal:    true,
		Reset:     true,
	}
}
