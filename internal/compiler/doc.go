// Package compiler runs the compilation pipeline for one language over one or
// more units: build the entity tree, apply the scheduled transformers, run the
// scheduled verifiers and freeze the final state into an artifact.
//
// The registry must be frozen before compiling. Independent units may be
// compiled concurrently with CompileAll; they share nothing but the registry.
package compiler
