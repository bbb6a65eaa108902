package stage

import "github.com/google/uuid"

// SeedGenerator supplies generation seeds for suite fingerprints.
type SeedGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 seeds.
//
// UUIDv7 embeds a timestamp in the most significant bits, so stage
// directories for unaliased suites sort by creation time when listed.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
