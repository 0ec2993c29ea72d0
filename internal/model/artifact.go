// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the compiled artifact exposed to downstream consumers.
package model

// Artifact is the frozen result of a successful compilation. It only exposes
// the read side of the State it wraps.
type Artifact struct {
	language string
	unit     string
	state    *State
}

// NewArtifact freezes a state into an artifact.
func NewArtifact(language, unit string, state *State) *Artifact {
	if state == nil {
		state = &State{}
	}
	return &Artifact{language: language, unit: unit, state: state}
}

// Language returns the name of the language the unit was compiled with.
func (a *Artifact) Language() string { return a.language }

// Unit returns the compilation unit name.
func (a *Artifact) Unit() string { return a.unit }

// State returns the final state. Callers may run verifiers over it again.
func (a *Artifact) State() *State { return a.state }

func (a *Artifact) Sections() []SectionPath             { return a.state.Sections() }
func (a *Artifact) Entities(path SectionPath) []*Entity { return a.state.Entities(path) }
func (a *Artifact) Entity(path SectionPath, id string) (*Entity, bool) {
	return a.state.Entity(path, id)
}
func (a *Artifact) Has(path SectionPath, id string) bool { return a.state.Has(path, id) }
func (a *Artifact) Root() *Entity                        { return a.state.Root() }
func (a *Artifact) Persisted(key string) (any, bool)     { return a.state.Persisted(key) }
func (a *Artifact) PersistedKeys() []string              { return a.state.PersistedKeys() }

// PersistedReader is implemented by State and Artifact.
type PersistedReader interface {
	Persisted(key string) (any, bool)
}

// PersistedAs reads a persisted value and asserts its type.
func PersistedAs[T any](r PersistedReader, key string) (T, bool) {
	var zero T
	raw, ok := r.Persisted(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
