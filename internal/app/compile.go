package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/declc/internal/artifactstore"
	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/export"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/report"
	"github.com/specialistvlad/declc/internal/source"
)

// ErrCompilationFailed is returned when at least one unit failed to compile.
// The diagnostics themselves have already been written to the output.
var ErrCompilationFailed = errors.New("compilation failed")

// ErrInvalidManifest is returned by NewApp when a manifest file cannot be
// read or parsed.
var ErrInvalidManifest = errors.New("invalid language manifest")

// ErrUnsupportedFormat is returned when a command is asked for an output
// format it cannot write.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Compile compiles every configured source path as its own unit, writes a
// summary or a diagnostic per unit and keeps the artifacts in the store.
func (a *App) Compile(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Compile method started.", "language", a.config.Language)

	if err := a.requireLanguage(); err != nil {
		return err
	}
	switch a.config.OutputFormat {
	case "text", "source", "json":
	default:
		return fmt.Errorf("%w: compile supports the text, source and json formats, got %q",
			ErrUnsupportedFormat, a.config.OutputFormat)
	}
	units, err := source.Load(ctx, a.config.SourcePaths...)
	if err != nil {
		return err
	}

	results, err := a.compiler.CompileAll(ctx, a.config.Language, units)
	if err != nil {
		return err
	}

	a.store = artifactstore.New()
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if err := a.writeFailure(r.Unit, r.Err); err != nil {
				return err
			}
			continue
		}
		if _, err := a.store.Add(r.Artifact); err != nil {
			return err
		}
		if err := a.writeSuccess(r.Artifact); err != nil {
			return err
		}
	}
	a.store.Seal()

	a.logger.Debug("App.Compile method finished.", "units", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d units", ErrCompilationFailed, failed, len(results))
	}
	return nil
}

// Inspect compiles a single unit and writes the exported artifact.
func (a *App) Inspect(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if err := a.requireLanguage(); err != nil {
		return err
	}
	if len(a.config.SourcePaths) != 1 {
		return fmt.Errorf("inspect takes exactly one source path, got %d", len(a.config.SourcePaths))
	}
	format := export.Format(a.config.OutputFormat)
	if format != export.FormatYAML && format != export.FormatJSON {
		return fmt.Errorf("%w: inspect supports the yaml and json formats, got %q",
			ErrUnsupportedFormat, a.config.OutputFormat)
	}

	units, err := source.Load(ctx, a.config.SourcePaths[0])
	if err != nil {
		return err
	}
	artifact, err := a.compiler.Compile(ctx, a.config.Language, units[0])
	if err != nil {
		if werr := a.writeFailure(units[0], err); werr != nil {
			return werr
		}
		return fmt.Errorf("%w: %s", ErrCompilationFailed, units[0].Name)
	}
	for _, section := range a.config.Sections {
		if !slices.ContainsFunc(artifact.Sections(), section.Equal) {
			return fmt.Errorf("unit %s has no section %q; available: %v",
				units[0].Name, section, artifact.Sections())
		}
	}
	return export.Write(a.outW, artifact, format, a.config.Sections...)
}

// Languages writes the registered language names and descriptions.
func (a *App) Languages() error {
	for _, name := range a.registry.Languages() {
		lang, _ := a.registry.Language(name)
		if _, err := fmt.Fprintf(a.outW, "%-12s %s\n", name, lang.Description); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) requireLanguage() error {
	if a.config.Language == "" {
		return fmt.Errorf("no language selected; available: %v", a.registry.Languages())
	}
	if _, ok := a.registry.Language(a.config.Language); !ok {
		return fmt.Errorf("unknown language %q; available: %v", a.config.Language, a.registry.Languages())
	}
	return nil
}

func (a *App) reportOptions() report.Options {
	return report.Options{Width: a.config.WrapWidth, Color: a.config.Color}
}

func (a *App) writeFailure(unit *source.Unit, err error) error {
	switch a.config.OutputFormat {
	case "json":
		return report.JSON(a.outW, unit.Name, err)
	case "source":
		return report.Source(a.outW, err, unit.Sources, a.reportOptions())
	default:
		if _, werr := fmt.Fprintf(a.outW, "✗ %s\n", unit.Name); werr != nil {
			return werr
		}
		return report.Text(a.outW, err, a.reportOptions())
	}
}

type unitSummary struct {
	Unit     string `json:"unit"`
	Status   string `json:"status"`
	Sections int    `json:"sections"`
	Entities int    `json:"entities"`
}

func summarize(artifact *model.Artifact) unitSummary {
	s := unitSummary{Unit: artifact.Unit(), Status: "ok"}
	for _, path := range artifact.Sections() {
		s.Sections++
		s.Entities += len(artifact.Entities(path))
	}
	return s
}

func (a *App) writeSuccess(artifact *model.Artifact) error {
	s := summarize(artifact)
	if a.config.OutputFormat == "json" {
		return json.NewEncoder(a.outW).Encode(s)
	}
	_, err := fmt.Fprintf(a.outW, "✓ %s: %d entities in %d sections\n", s.Unit, s.Entities, s.Sections)
	return err
}
