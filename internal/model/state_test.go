package model

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

var taskSpec = &schema.EntitySpec{Name: "task", Section: "tasks", Identifier: "name"}

func newTask(id string, fields map[string]cty.Value) *Entity {
	return NewEntity(taskSpec, id, Path("tasks"), hcl.Range{Filename: "test.hcl"}, fields, nil)
}

func TestStateBuilder(t *testing.T) {
	// --- Arrange ---
	b := NewStateBuilder()
	b.Declare(Path("tasks"))
	b.Declare(Path("empty"))

	// --- Act ---
	b.Append(newTask("a", nil))
	b.Append(newTask("b", nil))
	s := b.Build()

	// --- Assert ---
	require.Len(t, s.Sections(), 2)
	assert.Equal(t, "tasks", s.Sections()[0].String())
	assert.Equal(t, "empty", s.Sections()[1].String())
	assert.Empty(t, s.Entities(Path("empty")))

	tasks := s.Entities(Path("tasks"))
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID())
	assert.Equal(t, "b", tasks[1].ID())
	assert.True(t, s.Has(Path("tasks"), "b"))
	assert.False(t, s.Has(Path("tasks"), "c"))
	assert.False(t, s.Has(Path("nope"), "a"))
}

func TestState_CopyOnWrite(t *testing.T) {
	b := NewStateBuilder()
	b.Append(newTask("a", nil))
	original := b.Build()

	updated := original.
		WithEntities(Path("tasks"), []*Entity{newTask("x", nil)}).
		WithEntities(Path("extra"), nil).
		WithPersisted("index", []string{"x"})

	assert.Equal(t, "a", original.Entities(Path("tasks"))[0].ID())
	assert.Len(t, original.Sections(), 1)
	_, ok := original.Persisted("index")
	assert.False(t, ok)

	assert.Equal(t, "x", updated.Entities(Path("tasks"))[0].ID())
	assert.Len(t, updated.Sections(), 2)
	idx, ok := PersistedAs[[]string](updated, "index")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, idx)
	assert.Equal(t, []string{"index"}, updated.PersistedKeys())
}

func TestState_ZeroValue(t *testing.T) {
	var s State
	assert.Empty(t, s.Sections())
	assert.Nil(t, s.Root())

	next := s.WithPersisted("k", 1)
	v, ok := next.Persisted("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestState_Match(t *testing.T) {
	b := NewStateBuilder()
	b.Declare(Path("schemas"))
	b.Declare(Path("schemas", "a", "properties"))
	b.Declare(Path("schemas", "a", "properties", "x", "properties"))
	b.Declare(Path("messages"))
	s := b.Build()

	got := s.Match(MustPattern("schemas/**/properties"))
	require.Len(t, got, 2)
	assert.Equal(t, "schemas/a/properties", got[0].String())
	assert.Equal(t, "schemas/a/properties/x/properties", got[1].String())
}

func TestEntity_Accessors(t *testing.T) {
	e := newTask("build", map[string]cty.Value{
		"command":    cty.StringVal("make"),
		"timeout":    cty.NumberIntVal(30),
		"parallel":   cty.True,
		"depends_on": cty.ListVal([]cty.Value{cty.StringVal("lint"), cty.StringVal("gen")}),
	})

	assert.Equal(t, "task", e.Kind())
	assert.Equal(t, "build", e.ID())

	cmd, ok := e.StringField("command")
	require.True(t, ok)
	assert.Equal(t, "make", cmd)

	n, ok := e.IntField("timeout")
	require.True(t, ok)
	assert.Equal(t, int64(30), n)

	assert.True(t, e.BoolField("parallel"))
	assert.False(t, e.BoolField("missing"))
	assert.Equal(t, []string{"lint", "gen"}, e.StringListField("depends_on"))
	assert.Equal(t, []string{"command", "depends_on", "parallel", "timeout"}, e.FieldNames())

	_, ok = e.StringField("timeout")
	assert.False(t, ok)
}

func TestEntity_WithField(t *testing.T) {
	e := newTask("a", map[string]cty.Value{"command": cty.StringVal("x")})
	e2 := e.WithField("command", cty.StringVal("y"))

	got, _ := e.StringField("command")
	assert.Equal(t, "x", got)
	got, _ = e2.StringField("command")
	assert.Equal(t, "y", got)
	assert.Equal(t, e.ID(), e2.ID())
}

func TestArtifact(t *testing.T) {
	b := NewStateBuilder()
	b.Append(newTask("a", nil))
	b.SetRoot(NewEntity(&schema.EntitySpec{Name: "pipeline"}, "", nil, hcl.Range{}, map[string]cty.Value{"name": cty.StringVal("ci")}, nil))
	a := NewArtifact("pipeline", "ci.hcl", b.Build().WithPersisted("k", "v"))

	assert.Equal(t, "pipeline", a.Language())
	assert.Equal(t, "ci.hcl", a.Unit())
	assert.True(t, a.Has(Path("tasks"), "a"))
	name, _ := a.Root().StringField("name")
	assert.Equal(t, "ci", name)
	v, ok := PersistedAs[string](a, "k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	_, ok = PersistedAs[int](a, "k")
	assert.False(t, ok)
}

func TestState_WithEntitiesRelinksOwners(t *testing.T) {
	// --- Arrange ---
	propertySpec := &schema.EntitySpec{Name: "property", Section: "properties", Identifier: "name"}
	schemaSpec := &schema.EntitySpec{Name: "schema", Section: "schemas", Identifier: "name", Children: []*schema.EntitySpec{propertySpec}}
	rootSpec := &schema.EntitySpec{Name: "contract", Children: []*schema.EntitySpec{schemaSpec}}
	rng := hcl.Range{Filename: "test.hcl"}

	propsPath := Path("schemas").Child("event", "properties")
	id := NewEntity(propertySpec, "id", propsPath, rng, map[string]cty.Value{"type": cty.StringVal("string")}, nil)
	event := NewEntity(schemaSpec, "event", Path("schemas"), rng, nil, []*Entity{id})
	other := NewEntity(schemaSpec, "other", Path("schemas"), rng, nil, nil)
	root := NewEntity(rootSpec, "", nil, rng, nil, []*Entity{event, other})

	b := NewStateBuilder()
	b.SetRoot(root)
	b.Append(event)
	b.Append(other)
	b.Append(id)
	original := b.Build()

	t.Run("nested section", func(t *testing.T) {
		// --- Act ---
		rewritten := id.WithField("type", cty.StringVal("integer"))
		s := original.WithEntities(propsPath, []*Entity{rewritten})

		// --- Assert ---
		schemas := s.Entities(Path("schemas"))
		require.Len(t, schemas, 2)
		props := schemas[0].ChildrenOf("property")
		require.Len(t, props, 1)
		assert.Same(t, rewritten, props[0])
		assert.Same(t, other, schemas[1], "unrelated siblings are kept")

		fromRoot := s.Root().ChildrenOf("schema")
		require.Len(t, fromRoot, 2)
		assert.Same(t, schemas[0], fromRoot[0])
		typ, _ := fromRoot[0].ChildrenOf("property")[0].StringField("type")
		assert.Equal(t, "integer", typ)

		typ, _ = original.Root().ChildrenOf("schema")[0].ChildrenOf("property")[0].StringField("type")
		assert.Equal(t, "string", typ, "the original state is untouched")
	})

	t.Run("top-level section", func(t *testing.T) {
		renamed := other.WithField("description", cty.StringVal("x"))

		s := original.WithEntities(Path("schemas"), []*Entity{event, renamed})

		fromRoot := s.Root().ChildrenOf("schema")
		require.Len(t, fromRoot, 2)
		assert.Same(t, renamed, fromRoot[1])
		assert.Same(t, other, original.Root().ChildrenOf("schema")[1])
	})
}
