// Package persist saves study progress and check history for the screens.
package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/abhisek/chunkz/internal/clock"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/store"
)

// DefaultKeep is the number of snapshots kept per program.
const DefaultKeep = 20

// Recorder writes a controller's state to the snapshot repo after every
// change and appends a check event per submitted answer. Either repo may
// be nil, which turns the matching writes into no-ops.
type Recorder struct {
	snaps     store.SnapshotRepo
	events    store.EventRepo
	programID string
	keep      int
	runID     string
	clock     clock.Clock
	logger    *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithKeep sets how many snapshots are kept after each save.
func WithKeep(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.keep = n
		}
	}
}

// WithClock sets the clock used for snapshot timestamps.
func WithClock(c clock.Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithLogger sets the logger for write failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRecorder creates a recorder for one program. Every recorder gets a
// fresh run ID that groups the check events of one app run.
func NewRecorder(snaps store.SnapshotRepo, events store.EventRepo, programID string, opts ...Option) *Recorder {
	r := &Recorder{
		snaps:     snaps,
		events:    events,
		programID: programID,
		keep:      DefaultKeep,
		runID:     uuid.New().String(),
		clock:     clock.SystemClock{},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID returns the ID stamped on this run's check events.
func (r *Recorder) RunID() string { return r.runID }

// Key returns the snapshot key of the program.
func (r *Recorder) Key() string { return store.ProgressKey(r.programID) }

// Load restores the latest snapshot into c. It reports whether one was
// found; without one c is left untouched.
func (r *Recorder) Load(ctx context.Context, c *session.Controller) (bool, error) {
	if r.snaps == nil {
		return false, nil
	}
	snap, err := r.snaps.Latest(ctx, r.Key())
	if err != nil {
		return false, fmt.Errorf("load progress: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	c.Restore(snap.Data)
	r.logger.Debug("progress restored", "key", r.Key(), "snapshot", snap.ID)
	return true, nil
}

// Save stores the controller state and prunes old snapshots.
func (r *Recorder) Save(ctx context.Context, c *session.Controller) error {
	if r.snaps == nil {
		return nil
	}
	snap := &store.Snapshot{
		Key:       r.Key(),
		Timestamp: r.clock.Now(),
		Data:      c.Snapshot(),
	}
	if err := r.snaps.Save(ctx, snap); err != nil {
		r.logger.Warn("progress save failed", "key", snap.Key, "error", err)
		return fmt.Errorf("save progress: %w", err)
	}
	if err := r.snaps.Prune(ctx, snap.Key, r.keep); err != nil {
		r.logger.Warn("snapshot prune failed", "key", snap.Key, "error", err)
		return fmt.Errorf("prune progress: %w", err)
	}
	return nil
}

// Check appends the event for one submitted answer.
func (r *Recorder) Check(ctx context.Context, res *session.CheckResult) error {
	if r.events == nil || res == nil {
		return nil
	}
	err := r.events.AppendCheck(ctx, store.CheckEventData{
		RunID:      r.runID,
		ProgramID:  r.programID,
		PartID:     res.PartID,
		SentenceID: res.Item.ID,
		Correct:    res.Correct,
		Answer:     res.Answer,
		Expected:   res.Expected,
		Streak:     res.Outcome.Record.Streak,
		WrongCount: res.Outcome.Record.WrongCount,
		Mastered:   res.Outcome.Record.Mastered,
	})
	if err != nil {
		r.logger.Warn("check event write failed", "sentence", res.Item.ID, "error", err)
		return fmt.Errorf("record check: %w", err)
	}
	r.logger.Info("answer checked",
		"sentence", res.Item.ID, "correct", res.Correct,
		"streak", res.Outcome.Record.Streak, "mastered", res.Outcome.Record.Mastered)
	return nil
}

// Clear deletes every saved snapshot of the program.
func (r *Recorder) Clear(ctx context.Context) error {
	if r.snaps == nil {
		return nil
	}
	if err := r.snaps.Delete(ctx, r.Key()); err != nil {
		r.logger.Warn("progress delete failed", "key", r.Key(), "error", err)
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
