// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file models a single parsed block instance.
package model

import (
	"maps"
	"math/big"
	"slices"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Entity is a typed, schema-validated instance parsed from one block.
// Entities are immutable; WithField returns a modified copy.
type Entity struct {
	spec     *schema.EntitySpec
	id       string
	section  SectionPath
	fields   map[string]cty.Value
	children []*Entity
	rng      hcl.Range
}

// NewEntity creates an entity. The fields map and children slice are copied.
func NewEntity(spec *schema.EntitySpec, id string, section SectionPath, rng hcl.Range, fields map[string]cty.Value, children []*Entity) *Entity {
	return &Entity{
		spec:     spec,
		id:       id,
		section:  slices.Clone(section),
		fields:   maps.Clone(fields),
		children: slices.Clone(children),
		rng:      rng,
	}
}

// Spec returns the entity spec the entity was built against.
func (e *Entity) Spec() *schema.EntitySpec { return e.spec }

// Kind returns the block name of the entity, e.g. "task".
func (e *Entity) Kind() string {
	if e.spec == nil {
		return ""
	}
	return e.spec.Name
}

// ID returns the identifier value, or "" for specs without an identifier.
func (e *Entity) ID() string { return e.id }

// Section returns the section path the entity is listed under.
func (e *Entity) Section() SectionPath { return slices.Clone(e.section) }

// Range returns the source range of the block header.
func (e *Entity) Range() hcl.Range { return e.rng }

// Children returns the nested entities in source order.
func (e *Entity) Children() []*Entity { return slices.Clone(e.children) }

// ChildrenOf returns the nested entities built from the named child block.
func (e *Entity) ChildrenOf(kind string) []*Entity {
	var out []*Entity
	for _, c := range e.children {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Field returns a resolved field value. Fields that were neither given nor
// defaulted are absent.
func (e *Entity) Field(name string) (cty.Value, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Fields returns a copy of all resolved field values.
func (e *Entity) Fields() map[string]cty.Value {
	return maps.Clone(e.fields)
}

// FieldNames returns the names of the resolved fields, sorted.
func (e *Entity) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithField returns a copy of the entity with name set to v.
func (e *Entity) WithField(name string, v cty.Value) *Entity {
	cp := *e
	cp.fields = maps.Clone(e.fields)
	if cp.fields == nil {
		cp.fields = make(map[string]cty.Value)
	}
	cp.fields[name] = v
	return &cp
}

// withSectionChildren returns a copy whose children listed under path are
// replaced by repl. The replacement takes the position of the first replaced
// child, or goes last when the entity had none.
func (e *Entity) withSectionChildren(path SectionPath, repl []*Entity) *Entity {
	key := path.Key()
	children := make([]*Entity, 0, len(e.children)+len(repl))
	inserted := false
	for _, c := range e.children {
		if c.section.Key() != key {
			children = append(children, c)
			continue
		}
		if !inserted {
			children = append(children, repl...)
			inserted = true
		}
	}
	if !inserted {
		children = append(children, repl...)
	}
	cp := *e
	cp.children = children
	return &cp
}

// StringField returns a string-typed field.
func (e *Entity) StringField(name string) (string, bool) {
	v, ok := e.fields[name]
	if !ok || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

// StringListField returns the string elements of a list-typed field. Non
// string elements are skipped.
func (e *Entity) StringListField(name string) []string {
	v, ok := e.fields[name]
	if !ok || v.IsNull() || !v.IsKnown() || !v.CanIterateElements() {
		return nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.IsKnown() && !ev.IsNull() && ev.Type().Equals(cty.String) {
			out = append(out, ev.AsString())
		}
	}
	return out
}

// BoolField returns a bool-typed field, false when absent.
func (e *Entity) BoolField(name string) bool {
	v, ok := e.fields[name]
	if !ok || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Bool) {
		return false
	}
	return v.True()
}

// IntField returns a whole-number field.
func (e *Entity) IntField(name string) (int64, bool) {
	v, ok := e.fields[name]
	if !ok || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	n, acc := v.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, false
	}
	return n, true
}
