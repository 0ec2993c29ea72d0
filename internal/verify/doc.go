// Package verify provides the reusable verifier families: identifier
// uniqueness, cross-reference resolution, shape constraints on type-tagged
// entities, required-subset consistency and execution preconditions.
//
// Each constructor returns a pass.Verifier that reads the state only. Section
// arguments are model.Patterns, so one verifier covers every matching section
// at any depth.
package verify
