package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSources(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	for _, name := range []string{
		"b.hcl",
		"a.txt",
		filepath.Join("sub", "c.hcl"),
		filepath.Join("a", "z.hcl"),
		".hidden.hcl",
		filepath.Join(".git", "d.hcl"),
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	// --- Act ---
	files, err := FindSources(dir, ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "z.hcl"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "sub", "c.hcl"),
	}, files)

	t.Run("empty extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindSources(dir, "") })
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindSources(filepath.Join(dir, "missing"), ".hcl")
		assert.Error(t, err)
	})
}
