// Package depgraph resolves the dependency lists declared by sibling entities
// into a graph and exposes the derived queries on the compiled artifact.
//
// The resolver runs as a transformer over one section. It fails with an
// UndefinedReference diagnostic listing every unknown name, or with a
// CircularDependency diagnostic carrying the cycle path in depends_on
// direction (`a -> b -> c -> a` reads "a depends on b ..."). On success it
// persists a Resolved view under Key(section).
package depgraph
