package progress

import (
	"sort"
	"time"
)

// Defaults used when a Tracker is built with zero values.
const (
	DefaultMasterStreak = 3
	DefaultCooldown     = 60 * time.Second
)

// Record is the per-sentence progress.
type Record struct {
	Streak        int
	WrongCount    int
	Mastered      bool
	CooldownUntil time.Time // zero when the sentence was never checked
}

// State derives the lifecycle state of the record.
func (r Record) State() State {
	switch {
	case r.Mastered:
		return StateMastered
	case r.Streak > 0 || r.WrongCount > 0 || !r.CooldownUntil.IsZero():
		return StateLearning
	default:
		return StateNew
	}
}

// Outcome is the result of one quiz check.
type Outcome struct {
	SentenceID    string
	Correct       bool
	Record        Record
	NewlyMastered bool
	Transition    *Transition
}

// Tracker holds progress records for every sentence of a program.
type Tracker struct {
	records      map[string]*Record
	masterStreak int
	cooldown     time.Duration
}

// NewTracker creates an empty tracker. A non-positive masterStreak falls back
// to DefaultMasterStreak; a negative cooldown is treated as zero.
func NewTracker(masterStreak int, cooldown time.Duration) *Tracker {
	if masterStreak < 1 {
		masterStreak = DefaultMasterStreak
	}
	if cooldown < 0 {
		cooldown = 0
	}
	return &Tracker{
		records:      make(map[string]*Record),
		masterStreak: masterStreak,
		cooldown:     cooldown,
	}
}

// MasterStreak returns the streak needed for mastery.
func (t *Tracker) MasterStreak() int { return t.masterStreak }

// Cooldown returns the delay applied after each check.
func (t *Tracker) Cooldown() time.Duration { return t.cooldown }

// Get returns a copy of the record for id. Unknown ids yield a zero record.
func (t *Tracker) Get(id string) Record {
	if r, ok := t.records[id]; ok {
		return *r
	}
	return Record{}
}

func (t *Tracker) record(id string) *Record {
	r, ok := t.records[id]
	if !ok {
		r = &Record{}
		t.records[id] = r
	}
	return r
}

// RecordCheck applies one quiz check. A match increments the streak and
// marks the sentence mastered once the streak reaches the threshold; a
// mismatch resets the streak and counts a wrong answer. The cooldown is set
// either way. Mastery is sticky.
func (t *Tracker) RecordCheck(id string, correct bool, now time.Time) Outcome {
	r := t.record(id)
	from := r.State()

	if correct {
		r.Streak++
	} else {
		r.Streak = 0
		r.WrongCount++
	}

	out := Outcome{SentenceID: id, Correct: correct}
	if !r.Mastered && r.Streak >= t.masterStreak {
		r.Mastered = true
		out.NewlyMastered = true
	}
	r.CooldownUntil = now.Add(t.cooldown)

	if to := r.State(); to != from {
		trigger := "first-check"
		if to == StateMastered {
			trigger = "streak-reached"
		}
		out.Transition = &Transition{SentenceID: id, From: from, To: to, Trigger: trigger}
	}
	out.Record = *r
	return out
}

// OnCooldown reports whether id cannot be quizzed at now.
func (t *Tracker) OnCooldown(id string, now time.Time) bool {
	return t.CooldownRemaining(id, now) > 0
}

// CooldownRemaining returns how long until id can be quizzed again.
func (t *Tracker) CooldownRemaining(id string, now time.Time) time.Duration {
	r, ok := t.records[id]
	if !ok || r.CooldownUntil.IsZero() {
		return 0
	}
	if d := r.CooldownUntil.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Reset clears every field for the given ids.
func (t *Tracker) Reset(ids []string) {
	for _, id := range ids {
		delete(t.records, id)
	}
}

// ResetAll clears every record.
func (t *Tracker) ResetAll() {
	t.records = make(map[string]*Record)
}

// MasteredCount returns how many of ids are mastered.
func (t *Tracker) MasteredCount(ids []string) int {
	n := 0
	for _, id := range ids {
		if r, ok := t.records[id]; ok && r.Mastered {
			n++
		}
	}
	return n
}

// WrongTotal sums wrong counts over ids.
func (t *Tracker) WrongTotal(ids []string) int {
	n := 0
	for _, id := range ids {
		if r, ok := t.records[id]; ok {
			n += r.WrongCount
		}
	}
	return n
}

// MasteredIDs returns every mastered id in sorted order.
func (t *Tracker) MasteredIDs() []string {
	ids := make([]string, 0)
	for id, r := range t.records {
		if r.Mastered {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
