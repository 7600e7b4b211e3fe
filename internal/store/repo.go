package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Snapshot is one saved copy of a program's progress record.
type Snapshot struct {
	ID        int64
	Key       string
	Timestamp time.Time
	Data      ProgressData
}

// SnapshotRepo keeps the progress record history per program key.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for key, or nil if none exist.
	Latest(ctx context.Context, key string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots for key.
	Prune(ctx context.Context, key string, keep int) error

	// Delete removes every snapshot for key.
	Delete(ctx context.Context, key string) error
}

// CheckEventData captures one quiz answer submission.
type CheckEventData struct {
	RunID      string
	ProgramID  string
	PartID     string
	SentenceID string
	Correct    bool
	Answer     string
	Expected   string
	Streak     int
	WrongCount int
	Mastered   bool
}

// CheckEvent is a stored CheckEventData.
type CheckEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	CheckEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendCheck records a quiz answer submission.
	AppendCheck(ctx context.Context, data CheckEventData) error

	// QueryChecks returns check events for a program, newest first.
	QueryChecks(ctx context.Context, programID string, opts QueryOpts) ([]CheckEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM request event, or nil if absent.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

// GlossKey identifies a cached chunk meaning.
type GlossKey struct {
	Sentence string
	Chunk    string
	Language string
}

// GlossRepo caches generated chunk meanings.
type GlossRepo interface {
	// Lookup returns cached meanings for the keys that have one.
	Lookup(ctx context.Context, keys []GlossKey) (map[GlossKey]string, error)

	// Put stores meanings, replacing existing entries.
	Put(ctx context.Context, model string, meanings map[GlossKey]string) error
}
