// Package artifactstore holds compiled artifacts for the lifetime of a run.
//
// # Purpose
//
// Downstream consumers look artifacts up by unit name after compilation. The
// store is populated once, then sealed; after Seal it is read-only and safe for
// concurrent lookups without further coordination.
//
// # Layout
//
// Artifacts live in an arena indexed by ID. A name index maps unit names to
// IDs, so consumers may keep a stable integer handle instead of a pointer.
package artifactstore
