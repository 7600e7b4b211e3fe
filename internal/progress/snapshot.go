package progress

import (
	"time"

	"github.com/abhisek/chunkz/internal/store"
)

// Load replaces the tracker's records with those in a persisted record.
func (t *Tracker) Load(data store.ProgressData) {
	t.records = make(map[string]*Record)
	for id, n := range data.StreakByID {
		t.record(id).Streak = n
	}
	for id, n := range data.WrongCountByID {
		t.record(id).WrongCount = n
	}
	for _, id := range data.MasteredIDs {
		t.record(id).Mastered = true
	}
	for id, ms := range data.QuizCooldownByID {
		t.record(id).CooldownUntil = time.UnixMilli(ms).UTC()
	}
}

// Export writes the tracker's records into data, replacing the streak,
// wrong, mastered and cooldown fields. Zero-valued entries are omitted.
func (t *Tracker) Export(data *store.ProgressData) {
	data.StreakByID = make(map[string]int)
	data.WrongCountByID = make(map[string]int)
	data.QuizCooldownByID = make(map[string]int64)
	for id, r := range t.records {
		if r.Streak > 0 {
			data.StreakByID[id] = r.Streak
		}
		if r.WrongCount > 0 {
			data.WrongCountByID[id] = r.WrongCount
		}
		if !r.CooldownUntil.IsZero() {
			data.QuizCooldownByID[id] = r.CooldownUntil.UnixMilli()
		}
	}
	data.MasteredIDs = t.MasteredIDs()
}
