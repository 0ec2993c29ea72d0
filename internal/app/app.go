package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/declc/internal/artifactstore"
	"github.com/specialistvlad/declc/internal/compiler"
	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	compiler *compiler.Compiler
	store    *artifactstore.Store
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. A manifest that cannot be loaded is reported as an
// error wrapping ErrInvalidManifest. It panics when a registered language is
// invalid, since built-in languages are a programmer error.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	langs, err := loadManifests(ctx, cfg.ManifestPaths)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	for _, lang := range langs {
		reg.Register(lang)
	}
	logger.Debug("Manifest languages registered.", "count", len(langs))

	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}
	reg.Freeze()
	logger.Debug("Registry validation passed.", "languages", reg.Languages())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		compiler: compiler.New(reg, compiler.WithConcurrency(cfg.Concurrency)),
		store:    artifactstore.New(),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Artifacts returns the artifacts of the last successful Compile call.
func (a *App) Artifacts() *artifactstore.Store {
	return a.store
}
