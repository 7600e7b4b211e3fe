package config

import "time"

// Config is the root application configuration.
type Config struct {
	Program ProgramConfig `yaml:"program"`
	Dataset DatasetConfig `yaml:"dataset"`
	Quiz    QuizConfig    `yaml:"quiz"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Speech  SpeechConfig  `yaml:"speech"`
	Gloss   GlossConfig   `yaml:"gloss"`
}

// ProgramConfig identifies the study program. The ID keys persisted progress.
type ProgramConfig struct {
	ID       string `yaml:"id"        env:"CHUNKZ_PROGRAM_ID"     env-default:"program7"`
	Label    string `yaml:"label"     env:"CHUNKZ_PROGRAM_LABEL"  env-default:"Program 7"`
	IDPrefix string `yaml:"id_prefix" env:"CHUNKZ_PROGRAM_PREFIX" env-default:"p7"`
}

// DatasetConfig selects where sentence rows come from. Source is an http(s)
// URL or a local .csv/.tsv/.txt/.xlsx path; when empty and SheetID is set the
// Google Sheets CSV export URL is used.
type DatasetConfig struct {
	Source     string        `yaml:"source"      env:"CHUNKZ_DATASET_SOURCE"`
	SheetID    string        `yaml:"sheet_id"    env:"CHUNKZ_SHEET_ID"`
	SheetName  string        `yaml:"sheet_name"  env:"CHUNKZ_SHEET_NAME"         env-default:"Sheet1"`
	HeaderRows int           `yaml:"header_rows" env:"CHUNKZ_DATASET_HEADER_ROWS" env-default:"1"`
	Timeout    time.Duration `yaml:"timeout"     env:"CHUNKZ_DATASET_TIMEOUT"    env-default:"15s"`
	CacheBust  bool          `yaml:"cache_bust"  env:"CHUNKZ_DATASET_CACHE_BUST" env-default:"true"`
}

// QuizConfig tunes the quiz state machine.
type QuizConfig struct {
	Cooldown     time.Duration `yaml:"cooldown"      env:"CHUNKZ_QUIZ_COOLDOWN"      env-default:"60s"`
	MasterStreak int           `yaml:"master_streak" env:"CHUNKZ_QUIZ_MASTER_STREAK" env-default:"3"`
	RoundCycling bool          `yaml:"round_cycling" env:"CHUNKZ_QUIZ_ROUND_CYCLING" env-default:"false"`
}

// StoreConfig holds SQLite settings. An empty Path resolves via store.DefaultDBPath.
type StoreConfig struct {
	Path          string `yaml:"path"           env:"CHUNKZ_DB"`
	KeepSnapshots int    `yaml:"keep_snapshots" env:"CHUNKZ_KEEP_SNAPSHOTS" env-default:"20"`
}

// LogConfig holds logging settings. File "-" logs to stderr; an empty File
// resolves to the state directory.
type LogConfig struct {
	Level  string `yaml:"level"  env:"CHUNKZ_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"CHUNKZ_LOG_FORMAT" env-default:"text"`
	File   string `yaml:"file"   env:"CHUNKZ_LOG_FILE"`
}

// SpeechConfig configures the text-to-speech command. An empty Command
// picks the first of espeak-ng, espeak or say found on PATH.
type SpeechConfig struct {
	Enabled bool   `yaml:"enabled" env:"CHUNKZ_SPEECH_ENABLED" env-default:"true"`
	Command string `yaml:"command" env:"CHUNKZ_SPEECH_COMMAND"`
	Voice   string `yaml:"voice"   env:"CHUNKZ_SPEECH_VOICE"   env-default:"en-us"`
}

// GlossConfig controls LLM-generated chunk meanings.
type GlossConfig struct {
	OnLoad      bool          `yaml:"on_load"     env:"CHUNKZ_GLOSS_ON_LOAD"     env-default:"false"`
	Concurrency int           `yaml:"concurrency" env:"CHUNKZ_GLOSS_CONCURRENCY" env-default:"4"`
	Timeout     time.Duration `yaml:"timeout"     env:"CHUNKZ_GLOSS_TIMEOUT"     env-default:"2m"`
	Language    string        `yaml:"language"    env:"CHUNKZ_GLOSS_LANGUAGE"    env-default:"Japanese"`
}
