// Package stage computes the on-disk layout of test suite stages.
//
// Everything here is pure path computation: given a suite identity and
// a spec, the same paths come out every time, in every process. That
// stability is what lets a reporting CLI rediscover a suite staged by
// an earlier process.
//
// Layout under one stage root:
//
//	<root>/<suite-id>/                         stage
//	<root>/<suite-id>/results.txt              result records
//	<root>/<suite-id>/<spec-id>-test-out.txt   per-spec log
//	<root>/<suite-id>/<base-id>/cache/<name>   per-spec test cache
//	<root>/<suite-id>/<base-id>/data/<name>    per-spec test data
//
// Cache and data directories are keyed by both the base spec (the root
// package of the current iteration) and the test spec, because a
// dependency's test may consume artifacts staged by the base.
package stage

import (
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"github.com/quarrylab/stagehand/internal/spec"
)

// ResultsFileName is the name of the per-suite results file.
const ResultsFileName = "results.txt"

// logSuffix is appended to a spec's identity to form its log file name.
const logSuffix = "-test-out.txt"

// NormalizeAlias returns the NFC-normalized form of a human-chosen
// alias. Aliases become directory names, so two spellings of the same
// name must map to the same bytes.
func NormalizeAlias(alias string) string {
	return norm.NFC.String(alias)
}

// Resolver maps suite identities and specs to filesystem paths.
// It holds no state beyond the configured stage root.
type Resolver struct {
	// Root is the directory under which all suite stages live.
	Root string
}

// SuiteStage returns the stage directory for a suite identity.
func (r Resolver) SuiteStage(id string) string {
	return filepath.Join(r.Root, id)
}

// ResultsFile returns the path of the suite's results file.
func (r Resolver) ResultsFile(id string) string {
	return filepath.Join(r.SuiteStage(id), ResultsFileName)
}

// LogFileName returns the log file name for a spec. The name includes
// the spec's content identity, not just its package name, so two specs
// with the same name but different fingerprints never collide.
func (r Resolver) LogFileName(s *spec.Spec) string {
	return s.ID() + logSuffix
}

// LogFile returns the per-spec log path inside the suite's stage.
func (r Resolver) LogFile(id string, s *spec.Spec) string {
	return filepath.Join(r.SuiteStage(id), r.LogFileName(s))
}

// TestDirForSpec returns the working directory for one base spec's
// test iteration inside the suite's stage.
func (r Resolver) TestDirForSpec(id string, base *spec.Spec) string {
	return filepath.Join(r.SuiteStage(id), base.ID())
}

// CacheDir returns the writable cache directory for the test spec
// within the base spec's iteration.
func (r Resolver) CacheDir(id string, base, test *spec.Spec) string {
	return filepath.Join(r.TestDirForSpec(id, base), "cache", test.Name)
}

// DataDir returns the test data directory for the test spec within the
// base spec's iteration.
func (r Resolver) DataDir(id string, base, test *spec.Spec) string {
	return filepath.Join(r.TestDirForSpec(id, base), "data", test.Name)
}
