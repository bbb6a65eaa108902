// Package testutil provides deterministic helpers for tests.
package testutil

import "sync"

// FixedSeedGenerator returns predetermined suite seeds for testing.
//
// This makes suite fingerprints deterministic, so tests can assert on
// exact stage directory names and rediscover staged suites by id.
//
// Thread-safety: FixedSeedGenerator is safe for concurrent use via
// internal mutex.
type FixedSeedGenerator struct {
	mu    sync.Mutex
	seeds []string
	idx   int
}

// NewFixedSeedGenerator creates a generator that returns seeds in order.
//
// Example:
//
//	gen := NewFixedSeedGenerator("seed-1", "seed-2")
//	gen.Generate() // "seed-1"
//	gen.Generate() // "seed-2"
//	gen.Generate() // panic: all seeds exhausted
func NewFixedSeedGenerator(seeds ...string) *FixedSeedGenerator {
	return &FixedSeedGenerator{seeds: seeds}
}

// Generate returns the next predetermined seed.
// Thread-safe: uses mutex to protect index access.
//
// Panics if all seeds have been consumed. This is a fail-fast approach
// to catch test misconfiguration (test created more suites than
// expected).
func (g *FixedSeedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.seeds) {
		panic("FixedSeedGenerator: all seeds exhausted")
	}
	seed := g.seeds[g.idx]
	g.idx++
	return seed
}
