package depgraph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/declc/internal/dag"
	"github.com/specialistvlad/declc/internal/model"
)

// Resolved is the dependency view of one section. Every list it returns
// follows declaration order unless stated otherwise.
type Resolved struct {
	section      model.SectionPath
	names        []string
	dependencies map[string][]string
	dependents   map[string][]string
	parallel     []string
	levels       [][]string
	order        []string
}

func newResolved(entities []*model.Entity, opts Options, g *dag.Graph, levels [][]string) *Resolved {
	r := &Resolved{
		section:      slices.Clone(opts.Section),
		names:        g.Nodes(),
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		levels:       levels,
	}
	for _, name := range r.names {
		r.dependencies[name] = g.Predecessors(name)
		r.dependents[name] = g.Successors(name)
	}
	for _, lvl := range levels {
		r.order = append(r.order, lvl...)
	}
	if opts.ParallelField != "" {
		for _, e := range entities {
			if e.BoolField(opts.ParallelField) && !slices.Contains(r.parallel, e.ID()) {
				r.parallel = append(r.parallel, e.ID())
			}
		}
	}
	return r
}

// Section returns the section the view was resolved for.
func (r *Resolved) Section() model.SectionPath { return slices.Clone(r.section) }

// Roots returns the entities that depend on nothing.
func (r *Resolved) Roots() []string {
	var roots []string
	for _, name := range r.names {
		if len(r.dependencies[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// DependentsOf returns the entities whose dependency list contains name.
func (r *Resolved) DependentsOf(name string) []string {
	return slices.Clone(r.dependents[name])
}

// DependenciesOf returns the distinct dependencies of name.
func (r *Resolved) DependenciesOf(name string) []string {
	return slices.Clone(r.dependencies[name])
}

// ParallelGroup returns the entities flagged as parallel-eligible. The flag is
// advisory and says nothing about graph depth.
func (r *Resolved) ParallelGroup() []string {
	return slices.Clone(r.parallel)
}

// Levels groups entities by depth: level 0 holds the roots and every other
// entity sits one level below its deepest dependency.
func (r *Resolved) Levels() [][]string {
	out := make([][]string, len(r.levels))
	for i, lvl := range r.levels {
		out[i] = slices.Clone(lvl)
	}
	return out
}

// Order returns every entity with dependencies first, ties broken by
// declaration order.
func (r *Resolved) Order() []string {
	return slices.Clone(r.order)
}

// LevelOf returns the depth of name.
func (r *Resolved) LevelOf(name string) (int, bool) {
	for i, lvl := range r.levels {
		if slices.Contains(lvl, name) {
			return i, true
		}
	}
	return 0, false
}

// Of reads the resolved view of a section from a state or artifact.
func Of(src model.PersistedReader, section model.SectionPath) (*Resolved, error) {
	r, ok := model.PersistedAs[*Resolved](src, Key(section))
	if !ok {
		return nil, fmt.Errorf("no dependency graph resolved for section %q", section)
	}
	return r, nil
}

// Summary is the exported form of a Resolved view.
type Summary struct {
	Section      string              `json:"section" yaml:"section"`
	Roots        []string            `json:"roots" yaml:"roots"`
	Order        []string            `json:"order" yaml:"order"`
	Levels       [][]string          `json:"levels" yaml:"levels"`
	Depth        map[string]int      `json:"depth" yaml:"depth"`
	Parallel     []string            `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	Dependencies map[string][]string `json:"dependencies" yaml:"dependencies"`
}

// Export summarises the view for artifact exports.
func (r *Resolved) Export() any {
	deps := make(map[string][]string, len(r.names))
	depth := make(map[string]int, len(r.names))
	for _, name := range r.names {
		depth[name], _ = r.LevelOf(name)
		deps[name] = r.DependenciesOf(name)
		if deps[name] == nil {
			deps[name] = []string{}
		}
	}
	return Summary{
		Section:      r.section.String(),
		Roots:        r.Roots(),
		Order:        r.Order(),
		Levels:       r.Levels(),
		Depth:        depth,
		Parallel:     r.ParallelGroup(),
		Dependencies: deps,
	}
}
