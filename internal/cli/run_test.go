package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeManifest drops a manifest file into a temp dir and returns its path.
func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "specs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const passingManifest = `specs:
  - name: libelf
    version: 0.8.13
    hash: "1234567890abcdef"
    installed: true
    test_command: "true"
`

func TestRunCommandMissingArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunCommandBadManifest(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/specs.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load manifest")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandPasses(t *testing.T) {
	manifest := writeManifest(t, passingManifest)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, "--alias", "nightly-smoke"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "alias nightly-smoke")
	assert.Contains(t, output, "PASSED")
	assert.Contains(t, output, "libelf-0.8.13-1234567")
	assert.Contains(t, output, "Summary: 1 passed, 0 failed")
}

func TestRunCommandFailureExitsNonZero(t *testing.T) {
	manifest := writeManifest(t, `specs:
  - name: libdwarf
    version: "20180129"
    hash: abcdef1234567890
    installed: true
    test_command: "exit 3"
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// The summary is still rendered before the failing exit.
	assert.Contains(t, buf.String(), "FAILED")
	assert.Contains(t, buf.String(), "Summary: 0 passed, 1 failed")
}

func TestRunCommandSkipsNotInstalled(t *testing.T) {
	manifest := writeManifest(t, `specs:
  - name: trivial-smoke-test
    version: "1.0"
    hash: 4b35b2a9f6b5c4b9
    installed: false
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "SKIPPED")
	assert.Contains(t, buf.String(), "Skipped not installed")
}

func TestRunCommandJSON(t *testing.T) {
	manifest := writeManifest(t, passingManifest)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, "--alias", "json-run"})

	require.NoError(t, cmd.Execute())

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Error)
}

func TestRunCommandJSONFailure(t *testing.T) {
	manifest := writeManifest(t, `specs:
  - name: libdwarf
    version: "20180129"
    hash: abcdef1234567890
    installed: true
    test_command: "false"
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E_TEST_FAILED", response.Error.Code)
}

func TestRunCommandRecordsHistory(t *testing.T) {
	manifest := writeManifest(t, passingManifest)
	stageRoot := t.TempDir()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: stageRoot}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{manifest, "--history"})

	require.NoError(t, cmd.Execute())
	assert.FileExists(t, rootOpts.HistoryDBPath())
}

func TestRunHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "manifest")
	assert.Contains(t, output, "--alias")
	assert.Contains(t, output, "--externals")
	assert.Contains(t, output, "--history")
}
