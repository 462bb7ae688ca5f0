// Package scheduler decides which word to ask next.
package scheduler

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

// ErrNoWords is returned when neither the mistake tally nor the word list
// has anything to draw from.
var ErrNoWords = errors.New("no words to draw from")

// Scheduler hands out words one pass at a time. A pass is refilled only when
// it runs empty: with the currently missed words when there are any,
// otherwise with the whole list.
type Scheduler struct {
	rnd     *rand.Rand
	ordered bool
	pending []string
}

// New returns a Scheduler seeded with the current time.
func New() *Scheduler {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Scheduler drawing randomness from src.
func NewWithSource(src rand.Source) *Scheduler {
	return &Scheduler{rnd: rand.New(src)}
}

// SetOrdered switches between shuffled passes and passes in list order.
func (s *Scheduler) SetOrdered(ordered bool) {
	s.ordered = ordered
}

// Next draws the next word. tally maps words to outstanding miss counts.
func (s *Scheduler) Next(tally map[string]int, words []string) (string, error) {
	if len(s.pending) == 0 {
		s.pending = s.refill(tally, words)
		if len(s.pending) == 0 {
			return "", ErrNoWords
		}
	}
	word := s.pending[0]
	s.pending = s.pending[1:]
	return word, nil
}

// Pending returns the words left in the current pass.
func (s *Scheduler) Pending() []string {
	out := make([]string, len(s.pending))
	copy(out, s.pending)
	return out
}

// Reset drops the current pass so the next draw refills.
func (s *Scheduler) Reset() {
	s.pending = nil
}

func (s *Scheduler) refill(tally map[string]int, words []string) []string {
	base := MissedWords(tally, words)
	if len(base) == 0 {
		base = make([]string, len(words))
		copy(base, words)
	}
	if !s.ordered {
		s.rnd.Shuffle(len(base), func(i, j int) {
			base[i], base[j] = base[j], base[i]
		})
	}
	return base
}

// MissedWords returns every word with a positive count in tally, in list
// order first and then any remaining tally words in sorted order.
func MissedWords(tally map[string]int, words []string) []string {
	if len(tally) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tally))
	var out []string
	for _, w := range words {
		if tally[w] <= 0 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	var rest []string
	for w, n := range tally {
		if n <= 0 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		rest = append(rest, w)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
