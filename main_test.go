package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/slidetrace/beamer"
	"github.com/matt-g-everett/slidetrace/trace"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_RendersExamples(t *testing.T) {
	out, _, err := run(t, "examples/bubblesort-array.yaml", "examples/bubblesort.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "\\begin{overprint}"))
	stages, err := trace.CountStages(out)
	require.NoError(t, err)
	assert.Len(t, stages, 32+37)
	assert.Contains(t, out, "language=Java")
	assert.False(t, strings.HasPrefix(out, beamer.Preamble))
}

func TestRootCmd_Preamble(t *testing.T) {
	out, _, err := run(t, "--preamble", "examples/bubblesort-array.yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, beamer.Preamble))
}

func TestRootCmd_DebugLogging(t *testing.T) {
	_, logs, err := run(t, "--log-level", "debug", "examples/bubblesort-array.yaml")
	require.NoError(t, err)
	assert.Contains(t, logs, "rendered stage")
	assert.Contains(t, logs, "sequence=bubblesort-array")
}

func TestRootCmd_Config(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("render:\n  highlight: lime100\n"), 0o644))

	out, _, err := run(t, "--config", config, "examples/bubblesort.yaml")
	require.NoError(t, err)

	lime, err := beamer.NewPalette(nil).HTML("lime100")
	require.NoError(t, err)
	assert.Contains(t, out, "\\color[HTML]{"+lime+"}")
}

func TestRootCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
code:
  language: java
  source: x
  vars: [[a, 2]]
frames:
  - cells: [['A']]
`), 0o644))

	t.Run("invalid frame", func(t *testing.T) {
		_, logs, err := run(t, bad)
		var invalid *trace.InvalidFrameError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 1, invalid.Stage)
		assert.NotContains(t, logs, "level=ERROR")
	})

	t.Run("no arguments", func(t *testing.T) {
		_, _, err := run(t)
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := run(t, "--log-level", "loud", "examples/bubblesort.yaml")
		assert.Error(t, err)
	})

	t.Run("unknown highlight", func(t *testing.T) {
		config := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(config, []byte("render:\n  highlight: plum100\n"), 0o644))
		_, _, err := run(t, "--config", config, "examples/bubblesort.yaml")
		assert.ErrorIs(t, err, trace.ErrUnknownColor)
	})
}
