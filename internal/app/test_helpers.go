package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/internal/testutil"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an app-level test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *App
}

// RunCompileTest writes files into a temporary directory and compiles them
// with a fresh App. Files under "manifests/" are loaded as language
// manifests; every other file belongs to the single source unit "src". With
// no modules the built-in languages are registered.
func RunCompileTest(t *testing.T, cfg Config, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	manifestDir := filepath.Join(tmpDir, "manifests")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))

	hasManifests := false
	for name, content := range files {
		var path string
		if rest, ok := strings.CutPrefix(name, "manifests/"); ok {
			hasManifests = true
			path = filepath.Join(manifestDir, rest)
		} else {
			path = filepath.Join(srcDir, name)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	if len(cfg.SourcePaths) == 0 {
		cfg.SourcePaths = []string{srcDir}
	}
	if hasManifests {
		cfg.ManifestPaths = append(cfg.ManifestPaths, manifestDir)
	}
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}

	var testApp *App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp, err = NewApp(out, logs, appConfig, modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			Output:    out.String(),
			LogOutput: logs.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}
	if err != nil {
		return &HarnessResult{
			Output:    out.String(),
			LogOutput: logs.String(),
			Err:       err,
		}
	}

	runErr := testApp.Compile(context.Background())

	if os.Getenv("DECLC_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
	}
}
