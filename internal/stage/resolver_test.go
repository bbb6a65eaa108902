package stage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrylab/stagehand/internal/spec"
)

func newSpec(name, version, hash string) *spec.Spec {
	return &spec.Spec{Name: name, Version: version, Hash: hash, Installed: true}
}

func TestResolver_PathContainment(t *testing.T) {
	r := Resolver{Root: "/var/stagehand/test"}
	base := newSpec("libdwarf", "20180129", "abcdef1234567890")
	dep := newSpec("libelf", "0.8.13", "1234567890abcdef")
	id := "suite-id"

	stagePath := r.SuiteStage(id)
	assert.True(t, strings.HasPrefix(stagePath, r.Root))

	for _, path := range []string{
		r.ResultsFile(id),
		r.LogFile(id, base),
		r.TestDirForSpec(id, base),
		r.CacheDir(id, base, dep),
		r.DataDir(id, base, dep),
	} {
		assert.True(t, strings.HasPrefix(path, stagePath), "path %s escapes stage %s", path, stagePath)
	}
}

func TestResolver_StableAcrossInstances(t *testing.T) {
	base := newSpec("libdwarf", "20180129", "abcdef1234567890")
	dep := newSpec("libelf", "0.8.13", "1234567890abcdef")

	a := Resolver{Root: "/var/stagehand/test"}
	b := Resolver{Root: "/var/stagehand/test"}

	assert.Equal(t, a.LogFile("s", base), b.LogFile("s", base))
	assert.Equal(t, a.CacheDir("s", base, dep), b.CacheDir("s", base, dep))
	assert.Equal(t, a.DataDir("s", base, dep), b.DataDir("s", base, dep))
}

func TestResolver_LogFileName(t *testing.T) {
	r := Resolver{Root: "/tmp"}
	sp := newSpec("libdwarf", "20180129", "abcdef1234567890")

	name := r.LogFileName(sp)
	assert.Equal(t, "libdwarf-20180129-abcdef1-test-out.txt", name)
	assert.Contains(t, r.LogFile("suite", sp), name)
}

func TestResolver_LogFileNameDisambiguatesByHash(t *testing.T) {
	r := Resolver{Root: "/tmp"}
	a := newSpec("libelf", "0.8.13", "aaaaaaa1111")
	b := newSpec("libelf", "0.8.13", "bbbbbbb2222")

	assert.NotEqual(t, r.LogFileName(a), r.LogFileName(b))
}

func TestResolver_CacheDirDependsOnBaseAndTest(t *testing.T) {
	r := Resolver{Root: "/tmp"}
	base := newSpec("libdwarf", "20180129", "abcdef1234567890")
	depA := newSpec("libelf", "0.8.13", "aaaaaaa1111")
	depB := newSpec("zlib", "1.2.13", "bbbbbbb2222")

	assert.NotEqual(t, r.CacheDir("s", base, depA), r.CacheDir("s", base, depB))
	assert.NotEqual(t, r.CacheDir("s", base, depA), r.CacheDir("s", depA, depA))
}

func TestNormalizeAlias_NFC(t *testing.T) {
	composed := "café"    // é as one rune
	decomposed := "café" // e + combining acute

	require.NotEqual(t, composed, decomposed)
	assert.Equal(t, NormalizeAlias(composed), NormalizeAlias(decomposed))
}

func TestNormalizeAlias_ASCIIUnchanged(t *testing.T) {
	assert.Equal(t, "nightly-smoke", NormalizeAlias("nightly-smoke"))
	assert.Equal(t, "", NormalizeAlias(""))
}
