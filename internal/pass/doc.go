// Package pass defines transformer and verifier passes and the machinery that
// orders and runs them.
//
// A transformer rewrites the compilation state; a verifier inspects the final
// state and reports violations. Both carry before/after constraints naming
// other passes. Schedule turns those constraints into a total order with
// Kahn's algorithm, falling back to declaration order between unrelated
// passes, and rejects cyclic constraints with a CircularDependency
// diagnostic.
package pass
