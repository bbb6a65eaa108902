// Package suite implements the test-suite orchestration core: one
// TestSuite owns an ordered set of concretized specs, a stage directory
// keyed by alias or fingerprint, an append-only results file, and a
// run loop that dispatches each spec's stand-alone test exactly once.
//
// Lifecycle of a suite instance:
//
//	New() → EnsureStage() → Run()            (one process)
//	registry.GetTestSuite(name) → reporting  (a later process)
//
// The run loop is strictly single-threaded: specs are tested in the
// order supplied, and a per-spec outcome never aborts the loop. A
// caller wanting parallelism runs independent TestSuite instances.
package suite

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/quarrylab/stagehand/internal/spec"
	"github.com/quarrylab/stagehand/internal/stage"
	"github.com/quarrylab/stagehand/internal/store"
)

// TestSuite orchestrates one test run over an ordered set of specs.
//
// Identity: the alias, NFC-normalized, when one was given; otherwise a
// fingerprint derived from the spec sequence plus a generation seed so
// repeated runs of the same specs do not collide by default.
type TestSuite struct {
	specs       []*spec.Spec
	alias       string
	id          string
	fingerprint string
	resolver    stage.Resolver
	logger      *slog.Logger
	history     *store.Store

	// mu guards the context slot and the dispatch bookkeeping. The run
	// loop itself is single-threaded; the mutex only protects against
	// accessor calls from collaborators while a run is in flight.
	mu          sync.Mutex
	currentBase *spec.Spec
	currentTest *spec.Spec
	dispatched  map[string]struct{}
	completed   bool
}

// Option configures a TestSuite at construction time.
type Option func(*config)

type config struct {
	stageRoot string
	logger    *slog.Logger
	seeds     stage.SeedGenerator
	history   *store.Store
}

// WithStageRoot overrides the directory under which the suite stages.
func WithStageRoot(root string) Option {
	return func(c *config) { c.stageRoot = root }
}

// WithLogger sets the suite's logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSeedGenerator overrides the generation seed source used for
// fingerprint identities. Tests use a fixed generator for determinism.
func WithSeedGenerator(g stage.SeedGenerator) Option {
	return func(c *config) { c.seeds = g }
}

// WithHistory attaches a result history store; each recorded outcome is
// also appended there. Nil (the default) disables history.
func WithHistory(st *store.Store) Option {
	return func(c *config) { c.history = st }
}

// DefaultStageRoot returns the stage root used when none is configured:
// $STAGEHAND_STAGE_ROOT if set, else a stagehand subdirectory of the
// user cache directory.
func DefaultStageRoot() string {
	if root := os.Getenv("STAGEHAND_STAGE_ROOT"); root != "" {
		return root
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		// No resolvable home; fall back to a relative stage root.
		return filepath.Join(".stagehand", "test")
	}
	return filepath.Join(cache, "stagehand", "test")
}

// New constructs a TestSuite over specs with an optional alias.
// The spec list must be non-empty; order is run order.
func New(specs []*spec.Spec, alias string, opts ...Option) (*TestSuite, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("a test suite requires at least one spec")
	}

	cfg := config{
		stageRoot: DefaultStageRoot(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		seeds:     stage.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// An aliased suite fingerprints deterministically from the alias
	// plus its specs: re-running the identical suite under the same
	// alias resolves to the same registry entry instead of colliding.
	// Anonymous suites draw a fresh seed so repeated runs of the same
	// specs never collide by default.
	normalized := stage.NormalizeAlias(alias)
	var fingerprint string
	if normalized != "" {
		fingerprint = stage.SuiteFingerprint(specs, normalized)
	} else {
		fingerprint = stage.SuiteFingerprint(specs, cfg.seeds.Generate())
	}

	id := normalized
	if id == "" {
		id = fingerprint
	}

	return &TestSuite{
		specs:       specs,
		alias:       normalized,
		id:          id,
		fingerprint: fingerprint,
		resolver:    stage.Resolver{Root: cfg.stageRoot},
		logger:      cfg.logger,
		history:     cfg.history,
		dispatched:  make(map[string]struct{}),
	}, nil
}

// Restore rebuilds a suite from its persisted identity, as read back by
// the registry. Identities are taken verbatim; no new seed is drawn.
func Restore(specs []*spec.Spec, alias, id, fingerprint, stageRoot string) *TestSuite {
	return &TestSuite{
		specs:       specs,
		alias:       alias,
		id:          id,
		fingerprint: fingerprint,
		resolver:    stage.Resolver{Root: stageRoot},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		dispatched:  make(map[string]struct{}),
	}
}

// Specs returns the suite's specs in run order.
func (s *TestSuite) Specs() []*spec.Spec {
	return s.specs
}

// Alias returns the human-chosen suite name, empty if none was given.
func (s *TestSuite) Alias() string {
	return s.alias
}

// ID returns the resolved identity used for the stage directory name:
// the normalized alias when one was given, else the fingerprint.
func (s *TestSuite) ID() string {
	return s.id
}

// Fingerprint returns the suite's content fingerprint. For aliased
// suites it differs from ID and keys the registry marker, so two
// independent suites staged under one alias remain individually
// discoverable (and detectable as a collision).
func (s *TestSuite) Fingerprint() string {
	return s.fingerprint
}

// Stage returns the suite's stage directory path.
func (s *TestSuite) Stage() string {
	return s.resolver.SuiteStage(s.id)
}

// ResultsFile returns the path of the suite's append-only results file.
func (s *TestSuite) ResultsFile() string {
	return s.resolver.ResultsFile(s.id)
}

// LogFileForSpec returns the per-spec log path inside the stage.
func (s *TestSuite) LogFileForSpec(sp *spec.Spec) string {
	return s.resolver.LogFile(s.id, sp)
}

// EnsureStage idempotently creates the stage directory tree.
// The stage is never auto-deleted by this component.
func (s *TestSuite) EnsureStage() error {
	return os.MkdirAll(s.Stage(), 0o755)
}

// SetCurrentSpecs establishes or clears the per-spec test context.
// Both specs must be set together before any cache path is requested;
// the run loop pairs every set with a deferred clear so a failure
// mid-test never leaks a stale context into the next spec.
func (s *TestSuite) SetCurrentSpecs(base, test *spec.Spec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBase = base
	s.currentTest = test
}

// CurrentTestCacheDir returns the cache directory for the active test
// context. Fails with a spec-context error unless both the base and
// test spec are set: the path is a function of both, so resolving it
// against a partial context would silently point at the wrong place.
func (s *TestSuite) CurrentTestCacheDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentBase == nil || s.currentTest == nil {
		return "", NewSpecContextError(s.id)
	}
	return s.resolver.CacheDir(s.id, s.currentBase, s.currentTest), nil
}

// CurrentTestDataDir returns the data directory for the active test
// context, under the same both-specs-set rule as CurrentTestCacheDir.
func (s *TestSuite) CurrentTestDataDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentBase == nil || s.currentTest == nil {
		return "", NewSpecContextError(s.id)
	}
	return s.resolver.DataDir(s.id, s.currentBase, s.currentTest), nil
}
