package graph

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// ConstructionError reports a graph that violates the DAG invariant: a
// dependency on a node that does not exist, a duplicate node, or a cycle.
// It signals a bug in whatever produced the nodes, never a selection problem.
type ConstructionError struct {
	Node   nodeid.ID
	Reason string
	// Cycle holds the offending path, first node repeated at the end.
	Cycle []nodeid.ID
}

func (e *ConstructionError) Error() string {
	if len(e.Cycle) > 0 {
		parts := make([]string, len(e.Cycle))
		for i, id := range e.Cycle {
			parts[i] = id.String()
		}
		return fmt.Sprintf("graph construction: cycle detected: %s", strings.Join(parts, " -> "))
	}
	return fmt.Sprintf("graph construction: node '%s': %s", e.Node, e.Reason)
}

// UnknownNodeError is raised when a query names a node absent from the index.
type UnknownNodeError struct {
	Node nodeid.ID
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("node '%s' not found in graph", e.Node)
}
