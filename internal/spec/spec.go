// Package spec models concretized package specifications as supplied by
// a package manager's resolver.
//
// A Spec arrives fully concretized: its name, version, and content hash
// are fixed, and its installation state is known. This package never
// mutates resolution state — it only exposes the identity and predicates
// the test orchestration engine needs, plus the Tester capability a
// package variant implements to run its own stand-alone tests.
package spec

import (
	"fmt"
	"io"
)

// Spec is one concretized package specification.
//
// Name, Version, and Hash together form the spec's stable identity.
// Hash is the concretizer's content fingerprint for the fully resolved
// spec, so two specs with the same name but different dependency
// closures never share an identity.
type Spec struct {
	// Name is the package name (e.g. "libdwarf").
	Name string

	// Version is the concretized version string.
	Version string

	// Hash is the concretizer's content fingerprint, hex-encoded.
	Hash string

	// Installed reports whether the spec's artifacts are present.
	Installed bool

	// ExternalPath, when non-empty, records that the package was
	// installed via a path outside the manager's own build control.
	ExternalPath string

	// Tester runs the package's self-tests. Nil means the package
	// declares no stand-alone tests.
	Tester Tester
}

// shortHashLen is the number of hash characters used in spec identities
// and filesystem paths. Seven characters is enough to disambiguate specs
// within one suite while keeping path names readable.
const shortHashLen = 7

// External reports whether the spec was installed from an external path.
func (s *Spec) External() bool {
	return s.ExternalPath != ""
}

// ID returns the spec's stable identity string, "name-version-hash",
// with the hash truncated to seven characters. The ID is used for log
// file names and cache directories, so it must be deterministic and
// unique within a suite.
func (s *Spec) ID() string {
	h := s.Hash
	if len(h) > shortHashLen {
		h = h[:shortHashLen]
	}
	return fmt.Sprintf("%s-%s-%s", s.Name, s.Version, h)
}

// RunContext carries everything a package's test callback may touch
// during one per-spec invocation.
//
// Base is the root spec of the current suite iteration; Test is the
// specific spec (often a dependency of Base) whose cache and data
// directories are being accessed. Both are always set when a RunContext
// is handed to a Tester — the run loop refuses to resolve cache paths
// against a partial context.
type RunContext struct {
	// Base is the root package under test in the current iteration.
	Base *Spec

	// Test is the spec whose test is being invoked.
	Test *Spec

	// CacheDir is the writable cache directory scoped to (Base, Test).
	CacheDir string

	// DataDir is the test data directory scoped to (Base, Test).
	DataDir string

	// LogFile is the path of the per-spec log being captured.
	LogFile string

	// Output receives everything the callback emits; the run loop
	// wires it to the per-spec log file.
	Output io.Writer
}
