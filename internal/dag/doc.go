// Package dag implements the directed graph used both to order passes and to
// resolve entity dependencies.
//
// Nodes are stored in an arena and addressed by their insertion index, so
// edges are plain integer adjacency lists. The insertion index doubles as the
// declaration order that breaks ties during topological sorting, which makes
// every ordering produced here deterministic for a given input.
package dag
