package depgraph

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

var (
	tasks    = model.Path("tasks")
	taskSpec = &schema.EntitySpec{Name: "task", Section: "tasks", Identifier: "name"}
)

type task struct {
	name     string
	deps     []string
	parallel bool
}

func stateOf(ts ...task) *model.State {
	b := model.NewStateBuilder()
	b.Declare(tasks)
	for i, t := range ts {
		deps := cty.ListValEmpty(cty.String)
		if len(t.deps) > 0 {
			vals := make([]cty.Value, len(t.deps))
			for j, d := range t.deps {
				vals[j] = cty.StringVal(d)
			}
			deps = cty.ListVal(vals)
		}
		b.Append(model.NewEntity(taskSpec, t.name, tasks, hcl.Range{Filename: "p.hcl", Start: hcl.Pos{Line: i + 1}},
			map[string]cty.Value{
				"depends_on": deps,
				"parallel":   cty.BoolVal(t.parallel),
			}, nil))
	}
	return b.Build()
}

func run(t *testing.T, s *model.State) (*Resolved, error) {
	t.Helper()
	tr := Transformer(Options{Section: tasks, ParallelField: "parallel"})
	out, err := pass.Execute(context.Background(), []pass.Transformer{tr}, s)
	if err != nil {
		return nil, err
	}
	return Of(out, tasks)
}

func TestResolve_Chain(t *testing.T) {
	// --- Arrange ---
	s := stateOf(
		task{name: "A"},
		task{name: "B", deps: []string{"A"}},
		task{name: "C", deps: []string{"B"}},
	)

	// --- Act ---
	r, err := run(t, s)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, r.Roots())
	assert.Equal(t, []string{"B"}, r.DependentsOf("A"))
	assert.Equal(t, []string{"C"}, r.DependentsOf("B"))
	assert.Empty(t, r.DependentsOf("C"))
	assert.Equal(t, []string{"B"}, r.DependenciesOf("C"))
	assert.Equal(t, []string{"A", "B", "C"}, r.Order())
	assert.Equal(t, [][]string{{"A"}, {"B"}, {"C"}}, r.Levels())
	lvl, ok := r.LevelOf("C")
	require.True(t, ok)
	assert.Equal(t, 2, lvl)
}

func TestResolve_Cycle(t *testing.T) {
	s := stateOf(
		task{name: "A", deps: []string{"B"}},
		task{name: "B", deps: []string{"C"}},
		task{name: "C", deps: []string{"A"}},
	)

	_, err := run(t, s)

	d, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindCircularDependency, d.Kind)
	assert.Equal(t, []string{"A", "B", "C"}, d.Names())
	assert.Contains(t, d.Message, "A -> B -> C -> A")
}

func TestResolve_CyclePathFollowsDependsOn(t *testing.T) {
	s := stateOf(
		task{name: "root"},
		task{name: "x", deps: []string{"root", "z"}},
		task{name: "y", deps: []string{"x"}},
		task{name: "z", deps: []string{"y"}},
		task{name: "leaf", deps: []string{"z"}},
	)

	_, err := run(t, s)
	d, ok := diag.As(err)
	require.True(t, ok)
	require.Equal(t, diag.KindCircularDependency, d.Kind)

	names := d.Names()
	require.NotEmpty(t, names)
	// Every consecutive pair must be a declared dependency.
	deps := map[string][]string{"x": {"root", "z"}, "y": {"x"}, "z": {"y"}, "leaf": {"z"}}
	for i := range names {
		from, to := names[i], names[(i+1)%len(names)]
		assert.Contains(t, deps[from], to, "%s should depend on %s", from, to)
	}
	assert.NotContains(t, names, "leaf")
	assert.NotContains(t, names, "root")
}

func TestResolve_SelfDependency(t *testing.T) {
	_, err := run(t, stateOf(task{name: "A", deps: []string{"A"}}))

	d, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindCircularDependency, d.Kind)
	assert.Contains(t, d.Message, "A -> A")
}

func TestResolve_UndefinedAggregated(t *testing.T) {
	s := stateOf(
		task{name: "X", deps: []string{"missing"}},
		task{name: "Y", deps: []string{"X", "gone", "missing"}},
	)

	_, err := run(t, s)

	d, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.KindUndefinedReference, d.Kind)
	assert.Equal(t, []string{"missing", "gone"}, d.Names())
	assert.Len(t, d.Violations, 3)
	assert.Equal(t, "undefined dependencies: missing, gone", d.Message)
	assert.Equal(t, "X", d.Violations[0].Location.Entity)
	assert.Equal(t, "depends_on", d.Violations[0].Location.Field)
}

func TestResolve_ParallelGroupIsAdvisory(t *testing.T) {
	s := stateOf(
		task{name: "a", parallel: true},
		task{name: "b", deps: []string{"a"}, parallel: true},
		task{name: "c"},
	)

	r, err := run(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.ParallelGroup())
	assert.Equal(t, []string{"a", "c"}, r.Roots())
}

func TestResolve_RootAndDependentConsistency(t *testing.T) {
	input := []task{
		{name: "fetch"},
		{name: "lint", deps: []string{"fetch"}},
		{name: "test", deps: []string{"fetch", "lint"}},
		{name: "docs"},
		{name: "build", deps: []string{"test", "lint"}},
		{name: "ship", deps: []string{"build", "docs"}},
	}
	r, err := run(t, stateOf(input...))
	require.NoError(t, err)

	var roots []string
	for _, tk := range input {
		if len(tk.deps) == 0 {
			roots = append(roots, tk.name)
		}
	}
	assert.Equal(t, roots, r.Roots())

	for _, x := range input {
		var want []string
		for _, e := range input {
			for _, d := range e.deps {
				if d == x.name {
					want = append(want, e.name)
				}
			}
		}
		assert.ElementsMatch(t, want, r.DependentsOf(x.name), "dependents of %s", x.name)
	}

	pos := map[string]int{}
	for i, n := range r.Order() {
		pos[n] = i
	}
	for _, e := range input {
		for _, d := range e.deps {
			assert.Less(t, pos[d], pos[e.name])
		}
	}
}

func TestOf_Missing(t *testing.T) {
	_, err := Of(stateOf(), tasks)
	assert.ErrorContains(t, err, "no dependency graph")
}

func TestResolved_Export(t *testing.T) {
	// --- Arrange ---
	s := stateOf(
		task{name: "A"},
		task{name: "B", deps: []string{"A"}, parallel: true},
		task{name: "C", deps: []string{"A", "B"}},
		task{name: "D"},
	)
	r, err := run(t, s)
	require.NoError(t, err)

	// --- Act ---
	summary, ok := r.Export().(Summary)

	// --- Assert ---
	require.True(t, ok)
	assert.Equal(t, "tasks", summary.Section)
	assert.Equal(t, []string{"A", "D"}, summary.Roots)
	assert.Equal(t, []string{"B"}, summary.Parallel)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2, "D": 0}, summary.Depth)
	assert.Equal(t, []string{}, summary.Dependencies["A"])
	assert.Equal(t, []string{"A", "B"}, summary.Dependencies["C"])
}
