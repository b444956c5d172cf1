// Package rng provides the single injectable randomness source for rolling
// sessions. Everything nondeterministic in the engine (capacity sampling,
// hidden-mass coin flips, event trigger rolls, event selection, flavor draws)
// goes through a Source so tests can substitute a seeded or scripted one.
package rng

import (
	"math/rand"
	"sync"
)

// Source yields the random values the rolling engine consumes.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics when n <= 0.
	IntN(n int) int
}

type seededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a Source that is deterministic with respect to seed.
// Given the same seed and the same call sequence it always yields the same
// values.
func NewSeeded(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
