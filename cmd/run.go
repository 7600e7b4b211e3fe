package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/app"
	"github.com/abhisek/chunkz/internal/gloss"
	"github.com/abhisek/chunkz/internal/llm"
	"github.com/abhisek/chunkz/internal/speech"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	logger, logCloser, err := app.NewLogger(appConfig.Log)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	opts := app.Options{
		Config:    appConfig,
		Snapshots: st.SnapshotRepo(),
		Events:    eventRepo,
		Logger:    logger,
	}

	if appConfig.Speech.Enabled {
		speaker, err := speech.NewCommandSpeaker(appConfig.Speech.Command, appConfig.Speech.Voice)
		if err != nil {
			logger.Warn("speech unavailable", "error", err)
		} else {
			opts.Speaker = speaker
		}
	}

	if appConfig.Gloss.OnLoad {
		llmCfg, ok := llm.Resolve()
		if !ok {
			fmt.Fprintln(os.Stderr, "LLM provider not configured; chunk meanings will not be generated.")
		} else if provider, err := llm.NewProvider(ctx, llmCfg, eventRepo, logger); err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		} else {
			opts.Gloss = gloss.NewService(provider, st.GlossRepo(), glossConfig(), logger)
		}
	}

	return app.Run(ctx, opts)
}

// glossConfig maps the gloss section of the config file.
func glossConfig() gloss.Config {
	cfg := gloss.DefaultConfig()
	cfg.Language = appConfig.Gloss.Language
	cfg.Concurrency = appConfig.Gloss.Concurrency
	cfg.Timeout = appConfig.Gloss.Timeout
	return cfg
}
