// Package registry persists suite identity-to-stage mappings and
// resolves them back across processes.
//
// Each staged suite carries one marker file inside its own stage
// directory; discovery is a glob over all stage roots. That makes the
// registry eventually-consistent by construction: collisions between
// independently staged suites under the same alias are detected at
// query time and rejected loudly, never resolved by picking one. No
// cross-process locking is provided — concurrent runs against the same
// alias from different processes are external misuse.
package registry

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quarrylab/stagehand/internal/spec"
	"github.com/quarrylab/stagehand/internal/stage"
	"github.com/quarrylab/stagehand/internal/suite"
)

// SuiteFileSuffix names per-suite marker files: one
// "<fingerprint>.suite.yaml" per suite inside its own stage. Keyed by
// fingerprint rather than alias so two independent suites staged under
// the same alias each keep a marker — that is what makes the collision
// detectable at query time instead of silently overwritten.
const SuiteFileSuffix = ".suite.yaml"

// suiteFile is the persisted form of a suite's identity.
type suiteFile struct {
	ID          string          `yaml:"id"`
	Fingerprint string          `yaml:"fingerprint"`
	Alias       string          `yaml:"alias,omitempty"`
	Specs       []suiteFileSpec `yaml:"specs"`
}

// suiteFileSpec is the persisted identity of one spec; testers are not
// serializable and are rebound by the caller after discovery.
type suiteFileSpec struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Hash         string `yaml:"hash"`
	Installed    bool   `yaml:"installed"`
	ExternalPath string `yaml:"external_path,omitempty"`
}

// Registry discovers persisted suites under one stage root.
type Registry struct {
	// Root is the directory under which all suite stages live.
	Root string
}

// WriteTestSuiteFile persists the suite's marker into its stage.
// The stage must already exist (EnsureStage first); the marker is what
// makes the suite discoverable by GetTestSuite in a later process.
func (r Registry) WriteTestSuiteFile(s *suite.TestSuite) error {
	record := suiteFile{
		ID:          s.ID(),
		Fingerprint: s.Fingerprint(),
		Alias:       s.Alias(),
	}
	for _, sp := range s.Specs() {
		record.Specs = append(record.Specs, suiteFileSpec{
			Name:         sp.Name,
			Version:      sp.Version,
			Hash:         sp.Hash,
			Installed:    sp.Installed,
			ExternalPath: sp.ExternalPath,
		})
	}

	data, err := yaml.Marshal(&record)
	if err != nil {
		return fmt.Errorf("failed to marshal suite file: %w", err)
	}

	path := filepath.Join(s.Stage(), s.Fingerprint()+SuiteFileSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write suite file: %w", err)
	}
	return nil
}

// FindTestSuites returns every suite persisted under the root, in
// directory order. Unreadable or malformed markers surface as errors
// rather than being silently skipped.
func (r Registry) FindTestSuites() ([]*suite.TestSuite, error) {
	pattern := filepath.Join(r.Root, "*", "*"+SuiteFileSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stage root: %w", err)
	}

	suites := make([]*suite.TestSuite, 0, len(matches))
	for _, path := range matches {
		s, err := loadSuiteFile(path, r.Root)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// GetTestSuite resolves a name (alias, suite id, or fingerprint) to a
// persisted suite.
//
// Returns a name-required error for an empty name before any I/O, nil
// with no error when nothing matches, the suite when exactly one
// matches, and a too-many-matches error when independently staged
// suites collide on the name — the caller must disambiguate, this
// component never guesses.
func (r Registry) GetTestSuite(name string) (*suite.TestSuite, error) {
	if name == "" {
		return nil, suite.NewNameRequiredError()
	}

	suites, err := r.FindTestSuites()
	if err != nil {
		return nil, err
	}

	normalized := stage.NormalizeAlias(name)
	var matches []*suite.TestSuite
	for _, s := range suites {
		if s.ID() == name || s.Fingerprint() == name || (s.Alias() != "" && s.Alias() == normalized) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, suite.NewTooManyMatchesError(name, len(matches))
	}
}

// loadSuiteFile reads one marker file and rebuilds the suite handle.
func loadSuiteFile(path, root string) (*suite.TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file %s: %w", path, err)
	}

	var record suiteFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}
	if record.ID == "" {
		return nil, fmt.Errorf("suite file %s has no id", path)
	}
	if record.Fingerprint == "" {
		return nil, fmt.Errorf("suite file %s has no fingerprint", path)
	}
	if len(record.Specs) == 0 {
		return nil, fmt.Errorf("suite file %s has no specs", path)
	}

	specs := make([]*spec.Spec, 0, len(record.Specs))
	for _, sp := range record.Specs {
		specs = append(specs, &spec.Spec{
			Name:         sp.Name,
			Version:      sp.Version,
			Hash:         sp.Hash,
			Installed:    sp.Installed,
			ExternalPath: sp.ExternalPath,
		})
	}

	return suite.Restore(specs, record.Alias, record.ID, record.Fingerprint, root), nil
}
