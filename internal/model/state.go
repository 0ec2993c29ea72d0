// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements the immutable compilation state threaded through the
// passes.
package model

import (
	"maps"
	"slices"
	"sort"
)

// State is an immutable map from section path to ordered entity lists, plus
// the persisted key-value store written by passes. The zero value is an empty
// state. All With* methods return a new State and leave the receiver intact.
type State struct {
	sections  []SectionPath
	entities  map[string][]*Entity
	root      *Entity
	persisted map[string]any
}

// Sections returns every section path in order of first appearance.
func (s *State) Sections() []SectionPath {
	out := make([]SectionPath, len(s.sections))
	for i, p := range s.sections {
		out[i] = slices.Clone(p)
	}
	return out
}

// Match returns the section paths selected by pat, in order.
func (s *State) Match(pat Pattern) []SectionPath {
	var out []SectionPath
	for _, p := range s.sections {
		if pat.Match(p) {
			out = append(out, slices.Clone(p))
		}
	}
	return out
}

// Entities returns the entities of a section in declaration order.
func (s *State) Entities(path SectionPath) []*Entity {
	return slices.Clone(s.entities[path.Key()])
}

// Entity returns the first entity of the section with the given identifier.
func (s *State) Entity(path SectionPath, id string) (*Entity, bool) {
	for _, e := range s.entities[path.Key()] {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Has reports whether the section contains an entity with the identifier.
func (s *State) Has(path SectionPath, id string) bool {
	_, ok := s.Entity(path, id)
	return ok
}

// Root returns the entity holding the top-level field assignments.
func (s *State) Root() *Entity {
	return s.root
}

// Persisted returns a value stored by a pass.
func (s *State) Persisted(key string) (any, bool) {
	v, ok := s.persisted[key]
	return v, ok
}

// PersistedKeys returns the keys of the persisted store, sorted.
func (s *State) PersistedKeys() []string {
	keys := make([]string, 0, len(s.persisted))
	for k := range s.persisted {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithEntities returns a copy of the state with the section's entity list
// replaced. Unknown sections are appended to the section order. The owning
// entity, and every ancestor up to the root, is rebuilt so that its children
// match the new list.
func (s *State) WithEntities(path SectionPath, entities []*Entity) *State {
	next := s.clone()
	key := path.Key()
	old, ok := next.entities[key]
	if !ok {
		next.sections = append(next.sections, slices.Clone(path))
	}
	repl := slices.Clone(entities)
	next.entities[key] = repl
	next.relink(path, old, repl)
	return next
}

// relink swaps the children listed under path on their owner, then repeats
// for the owner's own section. A top-level section is owned by the root; a
// nested section P/<id>/<child> is owned by entity <id> of section P.
func (s *State) relink(path SectionPath, old, repl []*Entity) {
	switch {
	case len(path) == 1:
		if s.root != nil {
			s.root = s.root.withSectionChildren(path, repl)
		}
	case len(path) >= 3:
		ownerPath := path[:len(path)-2]
		ownerKey := ownerPath.Key()
		siblings := s.entities[ownerKey]
		i := ownerIndex(siblings, old, path[len(path)-2])
		if i < 0 {
			return
		}
		updated := slices.Clone(siblings)
		updated[i] = siblings[i].withSectionChildren(path, repl)
		s.entities[ownerKey] = updated
		s.relink(ownerPath, siblings, updated)
	}
}

// ownerIndex finds the entity holding any of the old children, falling back
// to the first entity with the given identifier.
func ownerIndex(candidates, old []*Entity, id string) int {
	for i, c := range candidates {
		for _, child := range c.children {
			if slices.Contains(old, child) {
				return i
			}
		}
	}
	for i, c := range candidates {
		if c.ID() == id {
			return i
		}
	}
	return -1
}

// WithRoot returns a copy of the state with the root entity replaced.
func (s *State) WithRoot(root *Entity) *State {
	next := s.clone()
	next.root = root
	return next
}

// WithPersisted returns a copy of the state with key set to value.
func (s *State) WithPersisted(key string, value any) *State {
	next := s.clone()
	next.persisted[key] = value
	return next
}

// clone is shallow: entity slices are shared and replaced, never appended to.
func (s *State) clone() *State {
	next := &State{
		sections:  slices.Clone(s.sections),
		entities:  maps.Clone(s.entities),
		root:      s.root,
		persisted: maps.Clone(s.persisted),
	}
	if next.entities == nil {
		next.entities = make(map[string][]*Entity)
	}
	if next.persisted == nil {
		next.persisted = make(map[string]any)
	}
	return next
}

// StateBuilder accumulates entities for a new State. It is used once by the
// tree builder and then discarded.
type StateBuilder struct {
	state State
}

// NewStateBuilder returns an empty builder.
func NewStateBuilder() *StateBuilder {
	return &StateBuilder{state: State{
		entities:  make(map[string][]*Entity),
		persisted: make(map[string]any),
	}}
}

// Declare registers a section so that it is listed even when empty.
func (b *StateBuilder) Declare(path SectionPath) {
	key := path.Key()
	if _, ok := b.state.entities[key]; ok {
		return
	}
	b.state.sections = append(b.state.sections, slices.Clone(path))
	b.state.entities[key] = nil
}

// Append adds an entity to the end of its section.
func (b *StateBuilder) Append(e *Entity) {
	b.Declare(e.section)
	key := e.section.Key()
	b.state.entities[key] = append(b.state.entities[key], e)
}

// SetRoot sets the root entity.
func (b *StateBuilder) SetRoot(root *Entity) {
	b.state.root = root
}

// Build returns the accumulated state. The builder must not be used afterwards.
func (b *StateBuilder) Build() *State {
	s := b.state
	return &s
}
