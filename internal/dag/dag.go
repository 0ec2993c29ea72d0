package dag

import (
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
	}
}

// AddNode adds a node and returns its index. Adding an existing name is a
// no-op that returns the original index.
func (g *Graph) AddNode(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.names = append(g.names, name)
	g.index[name] = i
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	return i
}

// AddEdge creates a directed edge meaning `from` must precede `to`. Repeated
// edges are ignored. A self edge is reported as a one-node cycle.
func (g *Graph) AddEdge(from, to string) error {
	fi, ok := g.index[from]
	if !ok {
		return &NodeNotFoundError{Name: from, Role: "source"}
	}
	ti, ok := g.index[to]
	if !ok {
		return &NodeNotFoundError{Name: to, Role: "destination"}
	}
	if fi == ti {
		return &CycleError{Cycle: []string{from, from}}
	}
	if slices.Contains(g.succ[fi], ti) {
		return nil
	}
	g.succ[fi] = append(g.succ[fi], ti)
	g.pred[ti] = append(g.pred[ti], fi)
	return nil
}

// Has reports whether the graph contains a node.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.names)
}

// Nodes returns every node name in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.names)
}

// Successors returns the nodes that must come after name, in insertion order.
func (g *Graph) Successors(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.succ[i])
}

// Predecessors returns the nodes that must come before name, in insertion order.
func (g *Graph) Predecessors(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	return g.namesOf(g.pred[i])
}

func (g *Graph) namesOf(idx []int) []string {
	sorted := slices.Clone(idx)
	slices.Sort(sorted)
	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = g.names[n]
	}
	return out
}

// Levels groups the nodes by depth using Kahn's algorithm: level 0 holds the
// nodes without predecessors and every other node sits one level below its
// deepest predecessor. Nodes within a level keep insertion order. A
// *CycleError is returned when the graph is not acyclic.
func (g *Graph) Levels() ([][]string, error) {
	levels, err := g.levelIndices()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(levels))
	for i, lvl := range levels {
		out[i] = make([]string, len(lvl))
		for j, n := range lvl {
			out[i][j] = g.names[n]
		}
	}
	return out, nil
}

// TopologicalSort returns every node in an order that satisfies all edges.
// At each step the ready node with the lowest insertion index is emitted, so
// a node released early still precedes later-declared unrelated nodes. A
// *CycleError is returned when the graph is not acyclic.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make([]int, len(g.names))
	var ready []int
	for i := range g.names {
		inDegree[i] = len(g.pred[i])
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]string, 0, len(g.names))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, g.names[n])
		for _, s := range g.succ[n] {
			inDegree[s]--
			if inDegree[s] == 0 {
				at, _ := slices.BinarySearch(ready, s)
				ready = slices.Insert(ready, at, s)
			}
		}
	}

	if len(order) < len(g.names) {
		return nil, &CycleError{Cycle: g.findCycle(inDegree)}
	}
	return order, nil
}

// DetectCycles returns a *CycleError describing one cycle, or nil.
func (g *Graph) DetectCycles() error {
	_, err := g.levelIndices()
	return err
}

func (g *Graph) levelIndices() ([][]int, error) {
	inDegree := make([]int, len(g.names))
	for i := range g.names {
		inDegree[i] = len(g.pred[i])
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	var levels [][]int
	done := 0
	for len(ready) > 0 {
		slices.Sort(ready)
		levels = append(levels, ready)
		done += len(ready)

		var next []int
		for _, n := range ready {
			for _, s := range g.succ[n] {
				inDegree[s]--
				if inDegree[s] == 0 {
					next = append(next, s)
				}
			}
		}
		ready = next
	}

	if done < len(g.names) {
		return nil, &CycleError{Cycle: g.findCycle(inDegree)}
	}
	return levels, nil
}

// findCycle reconstructs one cycle among the nodes Kahn's algorithm could not
// schedule (those whose in-degree never reached zero). Every such node has a
// predecessor that is also unscheduled, so walking predecessors from any of
// them must revisit a node. The walk starts at the lowest unscheduled index
// and always steps to the lowest unscheduled predecessor.
func (g *Graph) findCycle(inDegree []int) []string {
	start := -1
	for i, d := range inDegree {
		if d > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	pos := make(map[int]int)
	var walk []int
	cur := start
	for {
		if p, seen := pos[cur]; seen {
			walk = walk[p:]
			break
		}
		pos[cur] = len(walk)
		walk = append(walk, cur)

		nextPred := -1
		for _, p := range g.pred[cur] {
			if inDegree[p] > 0 && (nextPred < 0 || p < nextPred) {
				nextPred = p
			}
		}
		cur = nextPred
	}

	// The walk follows edges backwards; flip it into edge direction and
	// rotate it so the lowest index leads.
	slices.Reverse(walk)
	minAt := 0
	for i, n := range walk {
		if n < walk[minAt] {
			minAt = i
		}
	}
	rotated := append(slices.Clone(walk[minAt:]), walk[:minAt]...)

	cycle := make([]string, 0, len(rotated)+1)
	for _, n := range rotated {
		cycle = append(cycle, g.names[n])
	}
	return append(cycle, cycle[0])
}
