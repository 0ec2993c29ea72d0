// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory representation of a compiled
// declaration: typed entities grouped under section paths, the immutable
// State that passes thread through, and the Artifact handed to callers once a
// compilation succeeds.
//
// # Core Concepts
//
//   - Entity: one schema-validated block instance. It keeps the EntitySpec it was
//     built against, its identifier, its coerced field values, its child
//     entities and the source range it was parsed from.
//
//   - SectionPath: where a collection of entities lives, e.g. `tasks` or
//     `schemas/event/properties` for nested blocks.
//
//   - State: an immutable snapshot mapping section paths to ordered entity
//     lists, plus a persisted key-value store that passes use to hand data to
//     later passes and to the final artifact. Every mutation returns a new
//     State that shares unchanged data with its parent.
//
//   - Artifact: the frozen, query-only view of a successful compilation.
//
// Nothing in this package mutates a value after it has been handed out, which
// is what allows independent compilations to run concurrently.
package model
