package session

import (
	"slices"

	"github.com/abhisek/chunkz/internal/store"
)

// Snapshot captures the controller state as a persisted record.
func (c *Controller) Snapshot() store.ProgressData {
	data := store.DefaultProgress()
	data.View = string(c.view)
	data.CurrentPartID = c.partID
	data.Index = c.index
	data.SummaryFilter = string(c.filter)
	data.SpeechRate = c.speechRate
	data.CurrentTab = string(c.tab)
	data.QuizAttemptLocked = c.attemptLocked
	data.QuizCheckedForID = c.checkedFor
	for part, ids := range c.rounds {
		data.QuizDoneByPart[part] = slices.Clone(ids)
	}
	c.progress.Export(&data)
	return data
}

// Restore loads a persisted record. Fields that do not fit the loaded
// program fall back to their defaults: an unknown part returns to the home
// view, an out-of-range index to the first sentence, and a lock or checked
// marker that does not belong to the current sentence is dropped.
func (c *Controller) Restore(data store.ProgressData) {
	c.resetView()
	c.progress.Load(data)

	if f, ok := ParseFilter(data.SummaryFilter); ok {
		c.filter = f
	}
	c.SetSpeechRate(data.SpeechRate)

	for part, ids := range data.QuizDoneByPart {
		if _, ok := c.program.Part(part); ok {
			c.rounds[part] = slices.Clone(ids)
		}
	}

	part, ok := c.program.Part(data.CurrentPartID)
	if !ok {
		return
	}
	c.partID = part.ID
	if data.Index >= 0 && data.Index < len(part.Items) {
		c.index = data.Index
	}
	if View(data.View) != ViewStudy {
		return
	}
	c.view = ViewStudy

	item := c.Current()
	if item == nil {
		return
	}
	if t, ok := ParseTab(data.CurrentTab); ok {
		c.tab = t
	}
	if data.QuizCheckedForID == item.ID {
		c.checkedFor = item.ID
	}
	c.attemptLocked = data.QuizAttemptLocked && c.tab == TabQuiz && c.checkedFor == ""
}
