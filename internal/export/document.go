package export

import (
	"encoding/json"
	"math/big"
	"slices"

	"github.com/specialistvlad/declc/internal/model"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Exporter is implemented by persisted values that have an exported form.
type Exporter interface {
	Export() any
}

// Document is the exported form of an artifact.
type Document struct {
	Language  string           `json:"language" yaml:"language"`
	Unit      string           `json:"unit" yaml:"unit"`
	Root      map[string]Value `json:"root,omitempty" yaml:"root,omitempty"`
	Sections  []Section        `json:"sections" yaml:"sections"`
	Persisted map[string]any   `json:"persisted,omitempty" yaml:"persisted,omitempty"`
}

// Section is one section and its entities.
type Section struct {
	Path     string   `json:"path" yaml:"path"`
	Entities []Entity `json:"entities" yaml:"entities"`
}

// Entity is one exported entity.
type Entity struct {
	Kind     string           `json:"kind" yaml:"kind"`
	ID       string           `json:"id,omitempty" yaml:"id,omitempty"`
	Location string           `json:"location" yaml:"location"`
	Fields   map[string]Value `json:"fields" yaml:"fields"`
}

// Value wraps a field value so that it marshals natively in both formats.
type Value struct {
	cty.Value
}

// MarshalJSON encodes the value with cty's JSON encoding.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNull() {
		return []byte("null"), nil
	}
	return ctyjson.Marshal(v.Value, v.Type())
}

// MarshalYAML encodes the value as plain Go data.
func (v Value) MarshalYAML() (any, error) {
	return toGo(v.Value), nil
}

// NewDocument builds the exported form of an artifact. A non-empty sections
// list keeps only the matching sections; the root and persisted values are
// always exported.
func NewDocument(a *model.Artifact, sections ...model.SectionPath) *Document {
	doc := &Document{
		Language: a.Language(),
		Unit:     a.Unit(),
		Sections: []Section{},
	}
	if root := a.Root(); root != nil {
		doc.Root = fields(root)
	}
	for _, path := range a.Sections() {
		if len(sections) > 0 && !slices.ContainsFunc(sections, path.Equal) {
			continue
		}
		section := Section{Path: path.String(), Entities: []Entity{}}
		for _, e := range a.Entities(path) {
			section.Entities = append(section.Entities, Entity{
				Kind:     e.Kind(),
				ID:       e.ID(),
				Location: e.Range().String(),
				Fields:   fields(e),
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	for _, key := range a.PersistedKeys() {
		raw, _ := a.Persisted(key)
		exp, ok := raw.(Exporter)
		if !ok {
			continue
		}
		if doc.Persisted == nil {
			doc.Persisted = make(map[string]any)
		}
		doc.Persisted[key] = exp.Export()
	}
	return doc
}

func fields(e *model.Entity) map[string]Value {
	out := make(map[string]Value)
	for name, v := range e.Fields() {
		out[name] = Value{v}
	}
	return out
}

// toGo converts a known cty value into plain Go data.
func toGo(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString()
	case t == cty.Bool:
		return v.True()
	case t == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, toGo(ev))
		}
		return out
	case t.IsMapType() || t.IsObjectType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = toGo(ev)
		}
		return out
	default:
		raw, err := ctyjson.SimpleJSONValue{Value: v}.MarshalJSON()
		if err != nil {
			return nil
		}
		var out any
		_ = json.Unmarshal(raw, &out)
		return out
	}
}
