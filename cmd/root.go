package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/chunkz/internal/config"
	"github.com/abhisek/chunkz/internal/store"
)

// appConfig is loaded once per invocation by the root PersistentPreRunE.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "chunkz",
	Short: "Read English in chunks",
	Long: "chunkz: terminal flashcards that split English sentences into subject, verb and modifier chunks\n" +
		"and quiz you on putting them back in order.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CHUNKZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides CHUNKZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("source", "", "Dataset URL or file (overrides dataset.source)")

	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(partsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(glossCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads .env, then the config file and environment, then
// applies flag overrides.
func loadSettings(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if src, _ := cmd.Flags().GetString("source"); src != "" {
		cfg.Dataset.Source = src
	}
	appConfig = cfg
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CHUNKZ_DB / store.path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if appConfig != nil && appConfig.Store.Path != "" {
		return appConfig.Store.Path, store.EnsureDir(appConfig.Store.Path)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
