package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/declc/internal/compiler"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/internal/source"
	"github.com/stretchr/testify/require"
)

// NewRegistry registers the modules, validates the result and freezes it.
func NewRegistry(t *testing.T, modules ...registry.Module) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, m := range modules {
		m.Register(reg)
	}
	require.NoError(t, reg.ValidateRegistry(context.Background()))
	reg.Freeze()
	return reg
}

// CompileSource compiles a single in-memory file named after the language.
func CompileSource(t *testing.T, reg *registry.Registry, lang, src string) (*model.Artifact, error) {
	t.Helper()
	name := lang + ".hcl"
	unit, err := source.ParseUnit(name, map[string]string{name: src})
	require.NoError(t, err)
	return compiler.New(reg).Compile(context.Background(), lang, unit)
}
