package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendCheck(ctx context.Context, data CheckEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO check_events
			(sequence, timestamp, run_id, program_id, part_id, sentence_id,
			 correct, answer, expected, streak, wrong_count, mastered)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, nowMillis(), data.RunID, data.ProgramID, data.PartID, data.SentenceID,
		boolInt(data.Correct), data.Answer, data.Expected, data.Streak, data.WrongCount,
		boolInt(data.Mastered),
	)
	if err != nil {
		return fmt.Errorf("save check event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryChecks(ctx context.Context, programID string, opts QueryOpts) ([]CheckEvent, error) {
	where, args := opts.whereClause([]string{"program_id = ?"}, []any{programID})

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, run_id, program_id, part_id, sentence_id,
			correct, answer, expected, streak, wrong_count, mastered
		 FROM check_events`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query check events: %w", err)
	}
	defer rows.Close()

	var events []CheckEvent
	for rows.Next() {
		var (
			e                 CheckEvent
			ts                int64
			correct, mastered int
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.RunID, &e.ProgramID, &e.PartID,
			&e.SentenceID, &correct, &e.Answer, &e.Expected, &e.Streak, &e.WrongCount,
			&mastered); err != nil {
			return nil, fmt.Errorf("scan check event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.Correct = correct != 0
		e.Mastered = mastered != 0
		events = append(events, e)
	}
	return events, rows.Err()
}
