package depgraph

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/dag"
	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
)

// Options configures the resolver for one section.
type Options struct {
	// Section is the section whose entities depend on each other.
	Section model.SectionPath
	// DependsOnField names the list field holding dependency names.
	DependsOnField string
	// ParallelField names the bool field marking parallel-eligible entities.
	// Empty disables the parallel group.
	ParallelField string
	// PassName is the transformer name; defaults to "resolve_dependencies".
	PassName string
	Before   []string
	After    []string
}

func (o Options) withDefaults() Options {
	if o.DependsOnField == "" {
		o.DependsOnField = "depends_on"
	}
	if o.PassName == "" {
		o.PassName = "resolve_dependencies"
	}
	return o
}

// Key is the persisted-store key of the resolved graph for a section.
func Key(section model.SectionPath) string {
	return "depgraph/" + section.String()
}

// Transformer returns the resolver as a pass.
func Transformer(opts Options) pass.Transformer {
	opts = opts.withDefaults()
	return pass.Transformer{
		Info: pass.Info{Name: opts.PassName, Before: opts.Before, After: opts.After},
		Fn: func(ctx context.Context, s *model.State) (*model.State, error) {
			r, err := Resolve(ctx, s, opts)
			if err != nil {
				return nil, err
			}
			return s.WithPersisted(Key(opts.Section), r), nil
		},
	}
}

// Resolve builds the dependency graph of a section.
func Resolve(ctx context.Context, s *model.State, opts Options) (*Resolved, error) {
	opts = opts.withDefaults()
	logger := ctxlog.FromContext(ctx)
	entities := s.Entities(opts.Section)

	g := dag.New()
	for _, e := range entities {
		g.AddNode(e.ID())
	}

	var missing []diag.Violation
	var missingNames []string
	for _, e := range entities {
		for _, dep := range e.StringListField(opts.DependsOnField) {
			if g.Has(dep) {
				continue
			}
			missing = append(missing, diag.Violation{
				Kind:     diag.KindUndefinedReference,
				Message:  fmt.Sprintf("%s %q depends on undefined %q", e.Kind(), e.ID(), dep),
				Location: diag.Location{Section: opts.Section, Entity: e.ID(), Field: opts.DependsOnField},
				Related:  []string{dep},
				Subject:  e.Range().Ptr(),
			})
			if !slices.Contains(missingNames, dep) {
				missingNames = append(missingNames, dep)
			}
		}
	}
	if len(missing) > 0 {
		logger.Debug("Undefined dependencies found.", "section", opts.Section.String(), "names", missingNames)
		return nil, diag.New(diag.KindUndefinedReference,
			fmt.Sprintf("undefined dependencies: %s", strings.Join(missingNames, ", ")), missing...)
	}

	for _, e := range entities {
		for _, dep := range e.StringListField(opts.DependsOnField) {
			// An edge runs from the dependency to the dependent.
			if err := g.AddEdge(dep, e.ID()); err != nil {
				return nil, cycleDiagnostic(opts, s, err)
			}
		}
	}

	levels, err := g.Levels()
	if err != nil {
		return nil, cycleDiagnostic(opts, s, err)
	}

	r := newResolved(entities, opts, g, levels)
	logger.Debug("Dependencies resolved.", "section", opts.Section.String(), "entities", len(entities), "levels", len(levels))
	return r, nil
}

// cycleDiagnostic reports a cycle in depends_on direction. The graph stores
// edges from dependency to dependent, so the path is reversed.
func cycleDiagnostic(opts Options, s *model.State, err error) error {
	ce := dag.AsCycleError(err)
	if ce == nil {
		return err
	}
	path := slices.Clone(ce.Cycle)
	slices.Reverse(path)
	members := path[:len(path)-1]

	v := diag.Violation{
		Kind:     diag.KindCircularDependency,
		Message:  fmt.Sprintf("dependency cycle: %s", strings.Join(path, " -> ")),
		Location: diag.Location{Section: opts.Section, Entity: members[0], Field: opts.DependsOnField},
		Related:  slices.Clone(members),
	}
	if e, ok := s.Entity(opts.Section, members[0]); ok {
		v.Subject = e.Range().Ptr()
	}
	return diag.Single(v)
}
