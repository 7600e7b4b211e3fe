package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// snapshotRepo implements SnapshotRepo with plain SQL.
type snapshotRepo struct {
	db *sql.DB
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := EncodeProgress(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, timestamp, data) VALUES (?, ?, ?)`,
		snap.Key, ts.UnixMilli(), string(data),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = id
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, key string) (*Snapshot, error) {
	var (
		id   int64
		ts   int64
		data string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, timestamp, data FROM snapshots WHERE key = ? ORDER BY id DESC LIMIT 1`,
		key,
	).Scan(&id, &ts, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	return &Snapshot{
		ID:        id,
		Key:       key,
		Timestamp: time.UnixMilli(ts).UTC(),
		Data:      DecodeProgress([]byte(data)),
	}, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, key string, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots
		 WHERE key = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE key = ? ORDER BY id DESC LIMIT ?
		 )`,
		key, key, keep,
	)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}
