package session

import "math/rand/v2"

// Arrangement is the learner's in-progress reorder answer: a shuffled pool
// of token chips and the sequence picked so far.
type Arrangement struct {
	chips  []string
	used   []bool
	picked []int // chip indexes in pick order
}

// NewArrangement shuffles tokens into a chip pool. A nil rng uses the
// global source.
func NewArrangement(tokens []string, rng *rand.Rand) *Arrangement {
	chips := make([]string, len(tokens))
	copy(chips, tokens)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(chips), func(i, j int) { chips[i], chips[j] = chips[j], chips[i] })
	return &Arrangement{
		chips: chips,
		used:  make([]bool, len(chips)),
	}
}

// Chips returns the pool in display order.
func (a *Arrangement) Chips() []string { return a.chips }

// Used reports whether chip i has been picked.
func (a *Arrangement) Used(i int) bool {
	return i >= 0 && i < len(a.used) && a.used[i]
}

// Pick appends chip i to the answer. Picking a used or missing chip is
// ignored.
func (a *Arrangement) Pick(i int) bool {
	if i < 0 || i >= len(a.chips) || a.used[i] {
		return false
	}
	a.used[i] = true
	a.picked = append(a.picked, i)
	return true
}

// Undo returns the last picked chip to the pool.
func (a *Arrangement) Undo() bool {
	if len(a.picked) == 0 {
		return false
	}
	last := a.picked[len(a.picked)-1]
	a.picked = a.picked[:len(a.picked)-1]
	a.used[last] = false
	return true
}

// Clear returns every chip to the pool.
func (a *Arrangement) Clear() {
	a.picked = a.picked[:0]
	for i := range a.used {
		a.used[i] = false
	}
}

// Answer returns the picked tokens in order.
func (a *Arrangement) Answer() []string {
	out := make([]string, len(a.picked))
	for i, idx := range a.picked {
		out[i] = a.chips[idx]
	}
	return out
}

// Complete reports whether every chip has been picked.
func (a *Arrangement) Complete() bool {
	return len(a.picked) == len(a.chips)
}
