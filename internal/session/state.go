package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/chunkz/internal/store"
)

// View is the top-level screen the learner is on.
type View string

const (
	ViewHome  View = store.DefaultView
	ViewStudy View = "study"
)

// Tab is a study-screen tab.
type Tab string

const (
	TabStructure Tab = store.DefaultTab
	TabQuiz      Tab = "quiz"
	TabSummary   Tab = "summary"
)

// Tabs lists the study tabs in display order.
var Tabs = []Tab{TabStructure, TabQuiz, TabSummary}

// ParseTab returns the tab named s.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Filter selects which sentences the summary lists.
type Filter string

const (
	FilterAll         Filter = store.DefaultFilter
	FilterWrong       Filter = "wrong"
	FilterNotMastered Filter = "notMastered"
)

// Filters lists the summary filters in display order.
var Filters = []Filter{FilterAll, FilterWrong, FilterNotMastered}

// ParseFilter returns the filter named s.
func ParseFilter(s string) (Filter, bool) {
	for _, f := range Filters {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Speech rates offered by the study screen.
const (
	RateNormal = 1.0
	RateSlow   = 0.8
)

// Config selects the quiz rules.
type Config struct {
	// Cooldown is how long a sentence stays out of the quiz after a check.
	Cooldown time.Duration

	// MasterStreak is the number of consecutive correct checks for mastery.
	MasterStreak int

	// RoundCycling keeps a checked sentence out of the quiz until every
	// sentence of its part has been checked once in the current round.
	RoundCycling bool
}

// Errors returned for rejected learner actions. Their messages are shown
// to the learner as-is.
var (
	ErrLocked         = errors.New("check your answer before leaving the quiz")
	ErrAlreadyChecked = errors.New("this answer has already been checked")
	ErrNotInQuiz      = errors.New("open the quiz before checking an answer")
	ErrDoneThisRound  = errors.New("already quizzed this round; finish the rest of the part first")
	ErrNoSentence     = errors.New("no sentence selected")
	ErrOutOfRange     = errors.New("no sentence at that position")
	ErrUnknownPart    = errors.New("unknown part")
	ErrUnknownTab     = errors.New("unknown tab")
	ErrUnknownFilter  = errors.New("unknown summary filter")
)

// CooldownError rejects quiz entry while a sentence is cooling down.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	secs := int(math.Ceil(e.Remaining.Seconds()))
	return fmt.Sprintf("quiz cooling down, try again in %ds", secs)
}

// Flags reports which learner actions are currently allowed. The
// presentation layer enables or disables its controls from these.
type Flags struct {
	Structure bool
	Quiz      bool
	Summary   bool
	Prev      bool
	Next      bool
	Jump      bool
	Home      bool
	Check     bool
	Speak     bool
	Reveal    bool
	Reset     bool
}

// Tab reports whether tab t can be opened.
func (f Flags) Tab(t Tab) bool {
	switch t {
	case TabStructure:
		return f.Structure
	case TabQuiz:
		return f.Quiz
	case TabSummary:
		return f.Summary
	}
	return false
}
