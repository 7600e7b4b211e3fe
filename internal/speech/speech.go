// Package speech reads sentences aloud through an external text-to-speech
// command.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// ErrUnavailable is returned when no speech command can be used.
var ErrUnavailable = errors.New("speech playback is not available")

// ErrStopped is returned by Speak when playback was interrupted by Stop.
var ErrStopped = errors.New("speech stopped")

// Speaker plays text. Speak blocks until playback finishes; Stop
// interrupts any playback in progress.
type Speaker interface {
	Speak(ctx context.Context, text string, rate float64) error
	Stop()
}

// baseWPM is the words-per-minute used at rate 1.0.
const baseWPM = 175

// CommandSpeaker runs a TTS program per utterance. A new Speak stops the
// previous one.
type CommandSpeaker struct {
	name  string   // program path
	args  []string // fixed leading arguments
	voice string
	style string // "espeak", "say" or "" for plain commands

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewCommandSpeaker builds a speaker. command may name a program with
// arguments; the text is appended as the last argument. An empty command
// picks the first of espeak-ng, espeak or say found on PATH.
func NewCommandSpeaker(command, voice string) (*CommandSpeaker, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		for _, candidate := range []string{"espeak-ng", "espeak", "say"} {
			if _, err := exec.LookPath(candidate); err == nil {
				fields = []string{candidate}
				break
			}
		}
	}
	if len(fields) == 0 {
		return nil, ErrUnavailable
	}

	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s := &CommandSpeaker{name: path, args: fields[1:], voice: voice}
	switch base := fields[0][strings.LastIndex(fields[0], "/")+1:]; base {
	case "espeak", "espeak-ng":
		s.style = "espeak"
	case "say":
		s.style = "say"
	}
	return s, nil
}

// argv returns the arguments for one utterance.
func (s *CommandSpeaker) argv(text string, rate float64) []string {
	if rate <= 0 {
		rate = 1
	}
	wpm := strconv.Itoa(int(baseWPM * rate))
	args := append([]string(nil), s.args...)
	switch s.style {
	case "espeak":
		if s.voice != "" {
			args = append(args, "-v", s.voice)
		}
		args = append(args, "-s", wpm)
	case "say":
		args = append(args, "-r", wpm)
	}
	return append(args, text)
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string, rate float64) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	cmd := exec.CommandContext(ctx, s.name, s.argv(text, rate)...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ErrStopped
		}
		return fmt.Errorf("run %s: %w", s.name, err)
	}
	return nil
}

func (s *CommandSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Nop is a Speaker used when playback is disabled.
type Nop struct{}

func (Nop) Speak(context.Context, string, float64) error { return ErrUnavailable }
func (Nop) Stop()                                         {}
