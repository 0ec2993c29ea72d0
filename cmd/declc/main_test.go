package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/declc/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A manifest with a syntax error is bad user input, not a crash.
	invalidHCL := `
		language "broken" {
			entity "thing" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "broken.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"--manifests", filePath, "languages"}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should reject a malformed manifest")
	var exitErr *cli.ExitError
	require.ErrorAs(t, runErr, &exitErr)
	require.Equal(t, cli.ExitUsage, exitErr.Code)

	errStr := runErr.Error()
	require.False(t, strings.Contains(errStr, "panicked"), "A malformed manifest must not panic.")
	require.True(t, strings.Contains(errStr, "failed to parse"), "The error message should contain the parse failure.")
	require.Empty(t, out.String())
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
