package session

import (
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/progress"
)

// SummaryRow is one sentence in the summary tab.
type SummaryRow struct {
	Index  int // position within the part
	Item   *dataset.SentenceItem
	Record progress.Record
}

// Summary lists the current part's sentences that pass filter.
func (c *Controller) Summary(filter Filter) []SummaryRow {
	part := c.CurrentPart()
	if part == nil {
		return nil
	}
	var rows []SummaryRow
	for i := range part.Items {
		item := &part.Items[i]
		rec := c.progress.Get(item.ID)
		switch filter {
		case FilterWrong:
			if rec.WrongCount == 0 {
				continue
			}
		case FilterNotMastered:
			if rec.Mastered {
				continue
			}
		}
		rows = append(rows, SummaryRow{Index: i, Item: item, Record: rec})
	}
	return rows
}

// Stats aggregates mastery over a set of sentences.
type Stats struct {
	Total    int
	Mastered int
	Wrong    int
}

// Percent returns the mastered share rounded to the nearest whole percent.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Mastered*100 + s.Total/2) / s.Total
}

// PartStats aggregates mastery for one part.
func (c *Controller) PartStats(partID string) Stats {
	part, ok := c.program.Part(partID)
	if !ok {
		return Stats{}
	}
	ids := part.ItemIDs()
	return Stats{
		Total:    len(ids),
		Mastered: c.progress.MasteredCount(ids),
		Wrong:    c.progress.WrongTotal(ids),
	}
}

// ProgramStats aggregates mastery over every part.
func (c *Controller) ProgramStats() Stats {
	var total Stats
	for _, part := range c.program.Parts {
		s := c.PartStats(part.ID)
		total.Total += s.Total
		total.Mastered += s.Mastered
		total.Wrong += s.Wrong
	}
	return total
}
