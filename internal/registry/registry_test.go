package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/stagehand/internal/spec"
	"github.com/quarrylab/stagehand/internal/suite"
	"github.com/quarrylab/stagehand/internal/testutil"
)

func newSpec(name, version, hash string) *spec.Spec {
	return &spec.Spec{Name: name, Version: version, Hash: hash, Installed: true}
}

// addSuite stages and registers a suite over one package.
func addSuite(t *testing.T, root, pkg, alias string, opts ...suite.Option) *suite.TestSuite {
	t.Helper()

	opts = append([]suite.Option{suite.WithStageRoot(root)}, opts...)
	ts, err := suite.New([]*spec.Spec{newSpec(pkg, "1.0", pkg+"hash1234")}, alias, opts...)
	require.NoError(t, err)
	require.NoError(t, ts.EnsureStage())
	require.NoError(t, Registry{Root: root}.WriteTestSuiteFile(ts))
	return ts
}

func TestGetTestSuite_NoMatch(t *testing.T) {
	reg := Registry{Root: t.TempDir()}

	ts, err := reg.GetTestSuite("nothing")
	require.NoError(t, err)
	assert.Nil(t, ts)
}

func TestGetTestSuite_EmptyName(t *testing.T) {
	reg := Registry{Root: t.TempDir()}

	_, err := reg.GetTestSuite("")
	require.Error(t, err)
	assert.True(t, suite.IsNameRequiredError(err))
	assert.Contains(t, err.Error(), "name is required")
}

func TestGetTestSuite_ByAlias(t *testing.T) {
	root := t.TempDir()
	staged := addSuite(t, root, "libdwarf", "duplicate-alias")

	found, err := Registry{Root: root}.GetTestSuite("duplicate-alias")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "duplicate-alias", found.Alias())
	assert.Equal(t, staged.ID(), found.ID())
	assert.Equal(t, staged.Stage(), found.Stage())
}

func TestGetTestSuite_TooMany(t *testing.T) {
	root := t.TempDir()
	addSuite(t, root, "libdwarf", "duplicate-alias")
	addSuite(t, root, "libelf", "duplicate-alias")

	_, err := Registry{Root: root}.GetTestSuite("duplicate-alias")
	require.Error(t, err)
	assert.True(t, suite.IsTooManyMatchesError(err))
	assert.Contains(t, err.Error(), "many suites named")
}

func TestGetTestSuite_ByFingerprint(t *testing.T) {
	root := t.TempDir()
	staged := addSuite(t, root, "libdwarf", "",
		suite.WithSeedGenerator(testutil.NewFixedSeedGenerator("seed-1")))

	found, err := Registry{Root: root}.GetTestSuite(staged.Fingerprint())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, staged.ID(), found.ID())
	assert.Empty(t, found.Alias())
}

func TestGetTestSuite_SameAliasSameSpecsResolves(t *testing.T) {
	root := t.TempDir()
	addSuite(t, root, "libdwarf", "re-run")
	// Re-registering the identical suite overwrites its own marker
	// rather than creating a colliding one.
	addSuite(t, root, "libdwarf", "re-run")

	found, err := Registry{Root: root}.GetTestSuite("re-run")
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestFindTestSuites(t *testing.T) {
	root := t.TempDir()
	addSuite(t, root, "libdwarf", "first")
	addSuite(t, root, "libelf", "second")

	suites, err := Registry{Root: root}.FindTestSuites()
	require.NoError(t, err)
	assert.Len(t, suites, 2)
}

func TestFindTestSuites_EmptyRoot(t *testing.T) {
	suites, err := Registry{Root: t.TempDir()}.FindTestSuites()
	require.NoError(t, err)
	assert.Empty(t, suites)
}

func TestWriteTestSuiteFile_RequiresStage(t *testing.T) {
	root := t.TempDir()
	ts, err := suite.New([]*spec.Spec{newSpec("libdwarf", "1.0", "abcdef12")}, "unstaged",
		suite.WithStageRoot(root))
	require.NoError(t, err)

	err = Registry{Root: root}.WriteTestSuiteFile(ts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write suite file")
}

func TestSuiteFile_RoundTripsSpecIdentity(t *testing.T) {
	root := t.TempDir()
	external := &spec.Spec{
		Name:         "openssl",
		Version:      "1.1.1",
		Hash:         "feedfacecafebeef",
		Installed:    true,
		ExternalPath: "/usr/lib/openssl",
	}
	ts, err := suite.New([]*spec.Spec{external}, "externals", suite.WithStageRoot(root))
	require.NoError(t, err)
	require.NoError(t, ts.EnsureStage())
	require.NoError(t, Registry{Root: root}.WriteTestSuiteFile(ts))

	found, err := Registry{Root: root}.GetTestSuite("externals")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Specs(), 1)

	got := found.Specs()[0]
	assert.Equal(t, external.Name, got.Name)
	assert.Equal(t, external.Version, got.Version)
	assert.Equal(t, external.Hash, got.Hash)
	assert.True(t, got.Installed)
	assert.True(t, got.External())
}

func TestFindTestSuites_MalformedMarker(t *testing.T) {
	root := t.TempDir()
	stageDir := filepath.Join(root, "broken")
	require.NoError(t, os.MkdirAll(stageDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stageDir, "broken"+SuiteFileSuffix), []byte("not: [valid"), 0o644))

	_, err := Registry{Root: root}.FindTestSuites()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse suite file")
}
