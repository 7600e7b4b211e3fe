package progress

// State represents a sentence's position in the mastery lifecycle.
type State string

const (
	StateNew      State = "new"
	StateLearning State = "learning"
	StateMastered State = "mastered"
)

// Transition records a state change for display and event logging.
type Transition struct {
	SentenceID string
	From       State
	To         State
	Trigger    string // "first-check", "streak-reached"
}
