// Package random provides the uniform random source shared by the simulators.
package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Uniform draws a value in [a, b) from src.
func Uniform(src Source, a, b float64) float64 {
	return a + (b-a)*src.Float64()
}

// lockedSource guards a *rand.Rand so several periodic tasks can share it.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a goroutine-safe Source. A zero seed uses the current time.
func NewSeeded(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &lockedSource{
		mu:  sync.Mutex{},
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // simulated market data
	}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Float64()
}

// Sequence replays a fixed list of values, wrapping around at the end.
// Tests use it to pin generator output to exact numbers.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a Sequence. With no values it always returns 0.5.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0.5}
	}

	return &Sequence{
		mu:     sync.Mutex{},
		values: values,
		next:   0,
	}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values[s.next%len(s.values)]
	s.next++

	return v
}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next
}
