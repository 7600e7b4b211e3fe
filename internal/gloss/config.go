package gloss

import "time"

// Config controls chunk glossing.
type Config struct {
	// Language is the learner's language meanings are written in.
	Language string

	// Concurrency bounds in-flight LLM requests.
	Concurrency int

	// Timeout bounds one sentence's request including retries.
	Timeout time.Duration

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language:    "Japanese",
		Concurrency: 4,
		Timeout:     2 * time.Minute,
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}
