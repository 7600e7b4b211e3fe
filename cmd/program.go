package cmd

import (
	"context"
	"log/slog"

	"github.com/abhisek/chunkz/internal/app"
	"github.com/abhisek/chunkz/internal/dataset"
	"github.com/abhisek/chunkz/internal/persist"
	"github.com/abhisek/chunkz/internal/session"
	"github.com/abhisek/chunkz/internal/store"
)

// cliLogger logs to stderr for the non-interactive commands.
func cliLogger() *slog.Logger {
	cfg := appConfig.Log
	cfg.File = "-"
	logger, _, err := app.NewLogger(cfg)
	if err != nil {
		return slog.Default()
	}
	return logger
}

// loadProgram reads and segments the configured dataset.
func loadProgram(ctx context.Context) (*dataset.Program, error) {
	src, err := dataset.Open(appConfig.Dataset)
	if err != nil {
		return nil, err
	}
	program, err := dataset.Load(ctx, src, dataset.BuildOptions{
		ProgramID: appConfig.Program.ID,
		Label:     appConfig.Program.Label,
		IDPrefix:  appConfig.Program.IDPrefix,
	})
	if err != nil {
		return nil, err
	}
	return program, nil
}

// restoreSession builds a controller over program with the saved progress
// applied.
func restoreSession(ctx context.Context, st *store.Store, program *dataset.Program, logger *slog.Logger) (*session.Controller, *persist.Recorder, error) {
	ctrl := session.New(program, session.Config{
		Cooldown:     appConfig.Quiz.Cooldown,
		MasterStreak: appConfig.Quiz.MasterStreak,
		RoundCycling: appConfig.Quiz.RoundCycling,
	}, nil)
	rec := persist.NewRecorder(st.SnapshotRepo(), st.EventRepo(), program.ID,
		persist.WithKeep(appConfig.Store.KeepSnapshots),
		persist.WithLogger(logger),
	)
	if _, err := rec.Load(ctx, ctrl); err != nil {
		return nil, nil, err
	}
	return ctrl, rec, nil
}
