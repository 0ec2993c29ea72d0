package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type testModule struct{ lang *Language }

func (m testModule) Register(r *Registry) { r.Register(m.lang) }

func noopT(context.Context, *model.State) (*model.State, error) { return nil, nil }
func noopV(context.Context, *model.State) []diag.Violation      { return nil }

func validLanguage(name string) *Language {
	return &Language{
		Name: name,
		Root: &schema.EntitySpec{
			Name: name,
			Children: []*schema.EntitySpec{{
				Name:       "task",
				Section:    "tasks",
				Identifier: "name",
				Fields: []schema.FieldSpec{
					{Name: "name", Type: schema.Atom()},
					{Name: "timeout", Type: schema.PositiveInteger(), Default: cty.NumberIntVal(60)},
				},
			}},
		},
		Transformers: []pass.Transformer{{Info: pass.Info{Name: "resolve"}, Fn: noopT}},
		Verifiers:    []pass.Verifier{{Info: pass.Info{Name: "unique"}, Fn: noopV}},
	}
}

func TestRegister(t *testing.T) {
	r := New()
	testModule{validLanguage("pipeline")}.Register(r)
	testModule{validLanguage("contract")}.Register(r)

	assert.Equal(t, []string{"contract", "pipeline"}, r.Languages())
	lang, ok := r.Language("pipeline")
	require.True(t, ok)
	assert.Equal(t, "pipeline", lang.Name)

	assert.PanicsWithValue(t, "language with name 'pipeline' already registered", func() {
		r.Register(validLanguage("pipeline"))
	})

	assert.False(t, r.Frozen())
	r.Freeze()
	assert.True(t, r.Frozen())
	assert.Panics(t, func() { r.Register(validLanguage("late")) })
}

func TestValidateRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		r := New()
		r.Register(validLanguage("pipeline"))
		assert.NoError(t, r.ValidateRegistry(ctx))
	})

	t.Run("collects every problem", func(t *testing.T) {
		lang := validLanguage("broken")
		task := lang.Root.Children[0]
		task.Identifier = "id"
		task.Fields[1].Default = cty.NumberIntVal(0)
		task.Fields = append(task.Fields, schema.FieldSpec{Name: "cmd", Type: schema.String(), Required: true, Default: cty.StringVal("x")})
		lang.Root.Children = append(lang.Root.Children, &schema.EntitySpec{Name: "job", Section: "tasks"})
		lang.Transformers = append(lang.Transformers,
			pass.Transformer{Info: pass.Info{Name: "a", Before: []string{"b"}}, Fn: noopT},
			pass.Transformer{Info: pass.Info{Name: "b", Before: []string{"a"}}, Fn: noopT},
		)
		lang.Verifiers = append(lang.Verifiers, pass.Verifier{Info: pass.Info{Name: "resolve"}})

		r := New()
		r.Register(lang)
		err := r.ValidateRegistry(ctx)

		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "registry validation failed:")
		assert.Contains(t, msg, "identifier field 'id' is not declared")
		assert.Contains(t, msg, "field 'timeout': default does not satisfy its type")
		assert.Contains(t, msg, "a required field cannot have a default")
		assert.Contains(t, msg, "share section 'tasks'")
		assert.Contains(t, msg, "transformer schedule")
		assert.Contains(t, msg, "declared as both transformer and verifier")
		assert.Contains(t, msg, "has no function")
	})

	t.Run("missing root", func(t *testing.T) {
		r := New()
		r.Register(&Language{Name: "empty"})
		assert.ErrorContains(t, r.ValidateRegistry(ctx), "no root entity spec")
	})
}
