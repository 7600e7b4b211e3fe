package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// glossRepo implements GlossRepo.
type glossRepo struct {
	db *sql.DB
}

func (r *glossRepo) Lookup(ctx context.Context, keys []GlossKey) (map[GlossKey]string, error) {
	out := make(map[GlossKey]string)
	if len(keys) == 0 {
		return out, nil
	}

	stmt, err := r.db.PrepareContext(ctx,
		`SELECT meaning FROM glosses WHERE sentence = ? AND chunk = ? AND language = ?`)
	if err != nil {
		return nil, fmt.Errorf("prepare gloss lookup: %w", err)
	}
	defer stmt.Close()

	for _, k := range keys {
		var meaning string
		err := stmt.QueryRowContext(ctx, k.Sentence, k.Chunk, k.Language).Scan(&meaning)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup gloss: %w", err)
		}
		out[k] = meaning
	}
	return out, nil
}

func (r *glossRepo) Put(ctx context.Context, model string, meanings map[GlossKey]string) error {
	if len(meanings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin gloss tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for k, meaning := range meanings {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO glosses (sentence, chunk, language, meaning, model, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			k.Sentence, k.Chunk, k.Language, meaning, model, nowMillis())
		if err != nil {
			return fmt.Errorf("save gloss: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit glosses: %w", err)
	}
	return nil
}
