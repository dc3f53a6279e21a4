package graph

import (
	"fmt"

	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// Unbounded is the depth that walks the graph transitively.
const Unbounded = -1

// Index is the immutable adjacency structure over a project's nodes.
type Index struct {
	nodes    map[nodeid.ID]*node.Node
	ids      []nodeid.ID
	parents  map[nodeid.ID][]nodeid.ID
	children map[nodeid.ID][]nodeid.ID
}

// Len returns the number of nodes.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Node returns the node with the given identifier.
func (idx *Index) Node(id nodeid.ID) (*node.Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Contains reports whether id is part of the graph.
func (idx *Index) Contains(id nodeid.ID) bool {
	_, ok := idx.nodes[id]
	return ok
}

// Nodes returns every node ordered by identifier. The slice is a copy.
func (idx *Index) Nodes() []*node.Node {
	out := make([]*node.Node, len(idx.ids))
	for i, id := range idx.ids {
		out[i] = idx.nodes[id]
	}
	return out
}

// IDs returns every identifier in sorted order. The slice is a copy.
func (idx *Index) IDs() []nodeid.ID {
	out := make([]nodeid.ID, len(idx.ids))
	copy(out, idx.ids)
	return out
}

// All returns the set of every node identifier.
func (idx *Index) All() nodeid.Set {
	return nodeid.NewSet(idx.ids...)
}

// mustExist panics with an UnknownNodeError; asking about a node that is
// not in the graph is a caller bug.
func (idx *Index) mustExist(id nodeid.ID) {
	if _, ok := idx.nodes[id]; !ok {
		panic(&UnknownNodeError{Node: id})
	}
}

// Parents returns the direct dependencies of id, sorted.
func (idx *Index) Parents(id nodeid.ID) []nodeid.ID {
	idx.mustExist(id)
	return idx.parents[id]
}

// Children returns the direct dependents of id, sorted.
func (idx *Index) Children(id nodeid.ID) []nodeid.ID {
	idx.mustExist(id)
	return idx.children[id]
}

// Ancestors returns every node reachable upstream of id within depth hops.
// The node itself is not included.
func (idx *Index) Ancestors(id nodeid.ID, depth int) nodeid.Set {
	idx.mustExist(id)
	return idx.walk([]nodeid.ID{id}, depth, idx.parents)
}

// Descendants returns every node reachable downstream of id within depth
// hops. The node itself is not included.
func (idx *Index) Descendants(id nodeid.ID, depth int) nodeid.Set {
	idx.mustExist(id)
	return idx.walk([]nodeid.ID{id}, depth, idx.children)
}

// SelectParents returns the ancestors of every member of selected, without
// the members themselves unless they are ancestors of one another.
func (idx *Index) SelectParents(selected nodeid.Set, depth int) nodeid.Set {
	return idx.walk(idx.known(selected), depth, idx.parents)
}

// SelectChildren returns the descendants of every member of selected.
func (idx *Index) SelectChildren(selected nodeid.Set, depth int) nodeid.Set {
	return idx.walk(idx.known(selected), depth, idx.children)
}

// SelectChildrensParents returns the descendants of selected together with
// every ancestor of those descendants and of selected itself, so that the
// result can be built from scratch.
func (idx *Index) SelectChildrensParents(selected nodeid.Set) nodeid.Set {
	forAncestors := idx.SelectChildren(selected, Unbounded).Union(selected)
	return idx.SelectParents(forAncestors, Unbounded).Union(forAncestors)
}

// DirectChildren returns the union of the direct dependents of selected.
func (idx *Index) DirectChildren(selected nodeid.Set) nodeid.Set {
	return idx.walk(idx.known(selected), 1, idx.children)
}

func (idx *Index) known(selected nodeid.Set) []nodeid.ID {
	start := make([]nodeid.ID, 0, len(selected))
	for _, id := range selected.Sorted() {
		idx.mustExist(id)
		start = append(start, id)
	}
	return start
}

// walk is a breadth-first traversal along edges from every start node,
// stopping after depth hops unless depth is Unbounded.
func (idx *Index) walk(start []nodeid.ID, depth int, edges map[nodeid.ID][]nodeid.ID) nodeid.Set {
	result := nodeid.Set{}
	if depth == 0 {
		return result
	}

	visited := nodeid.NewSet(start...)
	frontier := start
	for hop := 0; len(frontier) > 0 && (depth < 0 || hop < depth); hop++ {
		var next []nodeid.ID
		for _, current := range frontier {
			for _, neighbor := range edges[current] {
				result.Add(neighbor)
				if !visited.Has(neighbor) {
					visited.Add(neighbor)
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}
	return result
}

// Subgraph returns the members of ids grouped into waves: every
// node appears after all of its parents that are also members. Nodes within
// a wave are sorted and independent of one another.
func (idx *Index) Subgraph(ids nodeid.Set) ([][]nodeid.ID, error) {
	pending := make(map[nodeid.ID]int, len(ids))
	for id := range ids {
		if !idx.Contains(id) {
			return nil, &UnknownNodeError{Node: id}
		}
		count := 0
		for _, p := range idx.parents[id] {
			if ids.Has(p) {
				count++
			}
		}
		pending[id] = count
	}

	var waves [][]nodeid.ID
	ready := nodeid.Set{}
	for id, count := range pending {
		if count == 0 {
			ready.Add(id)
		}
	}

	placed := 0
	for ready.Len() > 0 {
		wave := ready.Sorted()
		waves = append(waves, wave)
		placed += len(wave)

		ready = nodeid.Set{}
		for _, id := range wave {
			for _, child := range idx.children[id] {
				if _, member := pending[child]; !member {
					continue
				}
				pending[child]--
				if pending[child] == 0 {
					ready.Add(child)
				}
			}
		}
	}

	if placed != len(ids) {
		return nil, fmt.Errorf("subgraph: %d of %d nodes could not be ordered", len(ids)-placed, len(ids))
	}
	return waves, nil
}
