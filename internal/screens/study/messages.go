package study

import "time"

// tickMsg refreshes cooldown countdowns once a second.
type tickMsg time.Time

// speechDoneMsg is sent when playback ends.
type speechDoneMsg struct {
	Err error
}
