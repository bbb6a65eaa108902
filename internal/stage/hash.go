package stage

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/quarrylab/stagehand/internal/spec"
)

// DomainSuite is the domain prefix for suite fingerprints.
// Version suffix enables future algorithm migration.
const DomainSuite = "stagehand/suite/v1"

// fingerprintLen is the number of hex characters kept from the full
// SHA-256 digest. 32 characters keeps stage directory names short while
// leaving no realistic collision risk within one stage root.
const fingerprintLen = 32

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data...)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SuiteFingerprint derives the identity for an unaliased suite from the
// ordered spec fingerprints plus a generation seed.
//
// The seed keeps repeated runs over identical specs from colliding by
// default: each run gets a fresh seed unless the caller pins one for
// deterministic tests. Same specs + same seed always produce the same
// fingerprint, which is what makes later-process stage discovery work.
func SuiteFingerprint(specs []*spec.Spec, seed string) string {
	parts := make([]string, 0, len(specs)+1)
	parts = append(parts, seed)
	for _, s := range specs {
		parts = append(parts, s.ID())
	}
	return hashWithDomain(DomainSuite, parts...)[:fingerprintLen]
}
