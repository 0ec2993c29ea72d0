package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	err := Execute(context.Background(), args, out, &bytes.Buffer{})
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok, "expected *ExitError, got %T: %v", err, err)
	assert.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "declc", cmd.Use)

	for _, name := range []string{"compile", "inspect", "languages"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	logLevel := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevel)
	assert.Equal(t, "warn", logLevel.DefValue)

	concurrency := cmd.PersistentFlags().Lookup("concurrency")
	require.NotNil(t, concurrency)
	assert.Equal(t, "j", concurrency.Shorthand)

	manifests := cmd.PersistentFlags().Lookup("manifests")
	require.NotNil(t, manifests)
	assert.Equal(t, "m", manifests.Shorthand)
}

func TestCompileCommand(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// --- Arrange ---
		path := writeFile(t, "ci.hcl", `task "build" { command = "go build" }`)

		// --- Act ---
		out, err := execute(t, "compile", "--lang", "pipeline", path)

		// --- Assert ---
		require.NoError(t, err)
		assert.Contains(t, out, "1 entities in 1 sections")
	})

	t.Run("compilation failure exits with 1", func(t *testing.T) {
		path := writeFile(t, "ci.hcl", `task "build" { depends_on = [missing] }`)

		out, err := execute(t, "compile", "-l", "pipeline", path)

		exitErr := requireExitCode(t, err, ExitFailure)
		assert.Contains(t, exitErr.Message, "compilation failed")
		assert.Contains(t, out, "error[UndefinedReference]")
	})

	t.Run("json diagnostics", func(t *testing.T) {
		path := writeFile(t, "ci.hcl", `task "build" { command = "" }`)

		out, err := execute(t, "compile", "-l", "pipeline", "--format", "json", path)

		requireExitCode(t, err, ExitFailure)
		assert.Contains(t, out, `"kind": "ExecutionPrecondition"`)
	})

	t.Run("yaml format is a usage error", func(t *testing.T) {
		path := writeFile(t, "ci.hcl", `task "build" { command = "go build" }`)

		out, err := execute(t, "compile", "-l", "pipeline", "-f", "yaml", path)

		exitErr := requireExitCode(t, err, ExitUsage)
		assert.Contains(t, exitErr.Message, "compile supports the text, source and json formats")
		assert.Empty(t, out)
	})

	t.Run("missing source is a runtime failure", func(t *testing.T) {
		_, err := execute(t, "compile", "-l", "pipeline", filepath.Join(t.TempDir(), "nope.hcl"))
		requireExitCode(t, err, ExitFailure)
	})

	testCases := []struct {
		name string
		args []string
	}{
		{name: "no paths", args: []string{"compile", "-l", "pipeline"}},
		{name: "no language", args: []string{"compile", "x.hcl"}},
		{name: "unknown flag", args: []string{"compile", "--nope", "x.hcl"}},
		{name: "invalid format", args: []string{"compile", "-l", "pipeline", "--format", "xml", "x.hcl"}},
		{name: "invalid log level", args: []string{"--log-level", "loud", "compile", "-l", "pipeline", "x.hcl"}},
		{name: "unknown command", args: []string{"explode"}},
	}
	for _, tc := range testCases {
		t.Run("usage error: "+tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			requireExitCode(t, err, ExitUsage)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	path := writeFile(t, "ci.hcl", `
task "a" { command = "echo a" }
task "b" {
  command    = "echo b"
  depends_on = [a]
}
`)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "inspect", "-l", "pipeline", "-f", "json", path)

		require.NoError(t, err)
		assert.Contains(t, out, `"language": "pipeline"`)
		assert.Contains(t, out, `"order"`)
	})

	t.Run("two paths are rejected", func(t *testing.T) {
		_, err := execute(t, "inspect", "-l", "pipeline", path, path)
		requireExitCode(t, err, ExitUsage)
	})

	t.Run("section filter", func(t *testing.T) {
		out, err := execute(t, "inspect", "-l", "pipeline", "--section", "tasks", path)

		require.NoError(t, err)
		assert.Contains(t, out, "path: tasks")
		assert.Contains(t, out, "depth:")
	})

	t.Run("malformed section is a usage error", func(t *testing.T) {
		_, err := execute(t, "inspect", "-l", "pipeline", "-s", "tasks//x", path)

		exitErr := requireExitCode(t, err, ExitUsage)
		assert.Contains(t, exitErr.Message, "empty segment")
	})

	t.Run("unknown section is a runtime failure", func(t *testing.T) {
		_, err := execute(t, "inspect", "-l", "pipeline", "-s", "schemas", path)

		exitErr := requireExitCode(t, err, ExitFailure)
		assert.Contains(t, exitErr.Message, `has no section "schemas"`)
	})
}

func TestLanguagesCommand(t *testing.T) {
	t.Run("built-in languages", func(t *testing.T) {
		out, err := execute(t, "languages")

		require.NoError(t, err)
		assert.Contains(t, out, "contract")
		assert.Contains(t, out, "pipeline")
	})

	t.Run("manifest languages are listed", func(t *testing.T) {
		manifest := writeFile(t, "lang.hcl", `
language "notes" {
  description = "Plain notes."
  entity "note" {
    section    = "notes"
    identifier = "title"
    field "title" { type = string }
  }
}
`)

		out, err := execute(t, "--manifests", manifest, "languages")

		require.NoError(t, err)
		assert.Contains(t, out, "notes        Plain notes.")
	})

	t.Run("malformed manifest is a usage error", func(t *testing.T) {
		manifest := writeFile(t, "broken.hcl", `language "broken" {`)

		out, err := execute(t, "--manifests", manifest, "languages")

		exitErr := requireExitCode(t, err, ExitUsage)
		assert.Contains(t, exitErr.Message, "invalid language manifest")
		assert.Contains(t, exitErr.Message, "failed to parse manifest")
		assert.Empty(t, out)
	})
}
