package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.hcl"), `task "b" {}`)
	writeFile(t, filepath.Join(dir, "a.hcl"), `task "a" {}`)
	writeFile(t, filepath.Join(dir, "nested", "c.hcl"), `task "c" {}`)
	writeFile(t, filepath.Join(dir, "README.md"), `ignored`)
	single := filepath.Join(t.TempDir(), "single.hcl")
	writeFile(t, single, `name = "x"`)

	// --- Act ---
	units, err := Load(context.Background(), dir, single)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, dir, units[0].Name)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}, units[0].Paths)
	assert.Len(t, units[0].Files, 3)
	assert.Len(t, units[0].Sources, 3)

	assert.Equal(t, []string{single}, units[1].Paths)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing path", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "error accessing path")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(ctx, t.TempDir())
		assert.ErrorContains(t, err, "no .hcl files found")
	})

	t.Run("wrong extension", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "x.txt")
		writeFile(t, p, "")
		_, err := Load(ctx, p)
		assert.ErrorContains(t, err, "is not a .hcl file")
	})

	t.Run("syntax error", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "bad.hcl")
		writeFile(t, p, `task "a" {`)
		_, err := Load(ctx, p)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})
}

func TestParseUnit(t *testing.T) {
	unit, err := ParseUnit("mem", map[string]string{
		"z.hcl": `task "z" {}`,
		"a.hcl": `task "a" {}`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.hcl", "z.hcl"}, unit.Paths)
	assert.Contains(t, unit.Sources, "z.hcl")

	_, err = ParseUnit("mem", map[string]string{"bad.hcl": "= ="})
	assert.Error(t, err)
}
