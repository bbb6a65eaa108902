package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveCommandUnknownSuite(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", StageRoot: t.TempDir()}
	cmd := NewRemoveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"missing-suite"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRemoveCommandDeletesStage(t *testing.T) {
	stageRoot := t.TempDir()
	stageSuite(t, stageRoot, "short-lived")
	rootOpts := &RootOptions{Format: "text", StageRoot: stageRoot}

	buf := &bytes.Buffer{}
	cmd := NewRemoveCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"short-lived"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Removed test suite short-lived")

	// Gone from discovery too.
	findBuf := &bytes.Buffer{}
	findCmd := NewFindCommand(rootOpts)
	findCmd.SetOut(findBuf)
	findCmd.SetArgs([]string{})
	require.NoError(t, findCmd.Execute())
	assert.Contains(t, findBuf.String(), "No test suites found.")
}
