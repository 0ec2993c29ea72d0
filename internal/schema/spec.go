package schema

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// FieldSpec declares one field of an entity.
type FieldSpec struct {
	Name        string
	Type        Type
	Required    bool
	Default     cty.Value
	Description string
}

// HasDefault reports whether the field declares a default value.
func (f FieldSpec) HasDefault() bool {
	return f.Default != cty.NilVal
}

// EntitySpec declares the shape of one kind of block.
type EntitySpec struct {
	// Name is the block type name, e.g. "task".
	Name string
	// Section is the name of the collection the entities are listed under.
	// Defaults to Name when empty.
	Section string
	// Identifier is the name of the identifier field, filled from the block
	// label. Blocks of specs without an identifier take no labels.
	Identifier  string
	Fields      []FieldSpec
	Children    []*EntitySpec
	Singleton   bool
	Description string
}

// SectionName returns the section the entities are collected under.
func (e *EntitySpec) SectionName() string {
	if e.Section != "" {
		return e.Section
	}
	return e.Name
}

// Field looks up a declared field by name.
func (e *EntitySpec) Field(name string) (FieldSpec, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Child looks up a nested entity spec by block name.
func (e *EntitySpec) Child(name string) (*EntitySpec, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names, sorted.
func (e *EntitySpec) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// ChildNames returns the declared child block names, sorted.
func (e *EntitySpec) ChildNames() []string {
	names := make([]string, 0, len(e.Children))
	for _, c := range e.Children {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Walk visits e and every spec reachable through Children exactly once.
// Recursive specs (a child that is one of its own ancestors) are visited once.
func (e *EntitySpec) Walk(fn func(*EntitySpec)) {
	seen := make(map[*EntitySpec]bool)
	var visit func(*EntitySpec)
	visit = func(s *EntitySpec) {
		if s == nil || seen[s] {
			return
		}
		seen[s] = true
		fn(s)
		for _, c := range s.Children {
			visit(c)
		}
	}
	visit(e)
}
