package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/declc/internal/builder"
	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/internal/source"
	"golang.org/x/sync/errgroup"
)

// ErrNotFrozen is returned when compiling against a registry that is still
// being populated.
var ErrNotFrozen = errors.New("registry is not frozen")

// Compiler compiles units against a frozen registry.
type Compiler struct {
	registry *registry.Registry
	// limit bounds the number of units compiled at once by CompileAll.
	// Zero or less means no limit.
	limit int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithConcurrency bounds how many units CompileAll compiles at once.
func WithConcurrency(n int) Option {
	return func(c *Compiler) { c.limit = n }
}

// New creates a compiler for the given registry.
func New(reg *registry.Registry, opts ...Option) *Compiler {
	c := &Compiler{registry: reg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile runs the full pipeline for one unit. Domain failures are returned
// as *diag.Diagnostic; lookup failures are plain errors.
func (c *Compiler) Compile(ctx context.Context, lang string, unit *source.Unit) (*model.Artifact, error) {
	if !c.registry.Frozen() {
		return nil, ErrNotFrozen
	}
	language, ok := c.registry.Language(lang)
	if !ok {
		return nil, fmt.Errorf("unknown language %q", lang)
	}

	ctx = ctxlog.With(ctx, "compilation_id", uuid.NewString(), "language", lang, "unit", unit.Name)
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	logger.Debug("Compilation started.", "files", len(unit.Files))

	state, err := builder.Build(ctx, language.Root, unit.Files)
	if err != nil {
		logger.Debug("Entity tree construction failed.", "error", err)
		return nil, err
	}

	transformers, err := pass.OrderTransformers(language.Transformers)
	if err != nil {
		return nil, err
	}
	state, err = pass.Execute(ctx, transformers, state)
	if err != nil {
		return nil, err
	}

	verifiers, err := pass.OrderVerifiers(language.Verifiers)
	if err != nil {
		return nil, err
	}
	if err := pass.RunVerifiers(ctx, verifiers, state); err != nil {
		return nil, err
	}

	logger.Debug("Compilation finished.", "duration", time.Since(start), "sections", len(state.Sections()))
	return model.NewArtifact(lang, unit.Name, state), nil
}

// Result is the outcome of compiling one unit.
type Result struct {
	Unit     *source.Unit
	Artifact *model.Artifact
	Err      error
}

// CompileAll compiles independent units concurrently. Every unit is attempted
// and results keep the input order. The returned error is only non-nil when
// the context is cancelled or the registry is unusable.
func (c *Compiler) CompileAll(ctx context.Context, lang string, units []*source.Unit) ([]Result, error) {
	if !c.registry.Frozen() {
		return nil, ErrNotFrozen
	}
	if _, ok := c.registry.Language(lang); !ok {
		return nil, fmt.Errorf("unknown language %q", lang)
	}

	results := make([]Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			artifact, err := c.Compile(gctx, lang, unit)
			results[i] = Result{Unit: unit, Artifact: artifact, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Compiled all units.", "count", len(units))
	return results, nil
}
