package dag

import (
	"errors"
	"fmt"
	"strings"
)

// Graph is a directed graph over named nodes. An edge from -> to means that
// from must come before to. Graph is not safe for concurrent mutation.
type Graph struct {
	// names holds node names by index, in insertion order.
	names []string
	// index maps a node name to its position in names.
	index map[string]int
	// succ and pred are adjacency lists indexed like names.
	succ [][]int
	pred [][]int
}

// CycleError reports a cycle. Cycle is a closed path: its first and last
// elements are the same node and every consecutive pair is an edge.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Cycle, " -> ")
}

// Members returns the nodes on the cycle without the closing repeat.
func (e *CycleError) Members() []string {
	if len(e.Cycle) < 2 {
		return e.Cycle
	}
	return e.Cycle[:len(e.Cycle)-1]
}

// AsCycleError extracts a *CycleError from an error chain, or returns nil.
func AsCycleError(err error) *CycleError {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// NodeNotFoundError is returned when an edge names an unknown node.
type NodeNotFoundError struct {
	Name string
	Role string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("%s node not found: %s", e.Role, e.Name)
}
