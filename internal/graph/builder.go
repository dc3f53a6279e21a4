package graph

import (
	"slices"

	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// Builder collects nodes and produces an immutable Index.
type Builder struct {
	nodes map[nodeid.ID]*node.Node
	order []nodeid.ID
	dupes []nodeid.ID
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes: make(map[nodeid.ID]*node.Node),
	}
}

// AddNode registers a node. Registering two different nodes under the same
// identifier is reported by Build; adding the same node twice is a no-op.
func (b *Builder) AddNode(n *node.Node) *Builder {
	if existing, ok := b.nodes[n.UniqueID]; ok {
		if existing != n {
			b.dupes = append(b.dupes, n.UniqueID)
		}
		return b
	}
	b.nodes[n.UniqueID] = n
	b.order = append(b.order, n.UniqueID)
	return b
}

// AddNodes registers every node in ns.
func (b *Builder) AddNodes(ns ...*node.Node) *Builder {
	for _, n := range ns {
		b.AddNode(n)
	}
	return b
}

// Build validates the collected nodes and returns the Index.
func (b *Builder) Build() (*Index, error) {
	if len(b.dupes) > 0 {
		return nil, &ConstructionError{Node: b.dupes[0], Reason: "declared more than once"}
	}

	idx := &Index{
		nodes:    make(map[nodeid.ID]*node.Node, len(b.nodes)),
		parents:  make(map[nodeid.ID][]nodeid.ID, len(b.nodes)),
		children: make(map[nodeid.ID][]nodeid.ID, len(b.nodes)),
	}

	idx.ids = slices.Clone(b.order)
	slices.Sort(idx.ids)

	for _, id := range idx.ids {
		n := b.nodes[id]
		idx.nodes[id] = n

		seen := nodeid.Set{}
		for _, dep := range n.DependsOn {
			if dep == id {
				return nil, &ConstructionError{Node: id, Cycle: []nodeid.ID{id, id}}
			}
			if _, ok := b.nodes[dep]; !ok {
				return nil, &ConstructionError{Node: id, Reason: "depends on unknown node '" + dep.String() + "'"}
			}
			if seen.Has(dep) {
				continue
			}
			seen.Add(dep)
			idx.parents[id] = append(idx.parents[id], dep)
			idx.children[dep] = append(idx.children[dep], id)
		}
	}

	for id := range idx.parents {
		slices.Sort(idx.parents[id])
	}
	for id := range idx.children {
		slices.Sort(idx.children[id])
	}

	if err := idx.detectCycles(); err != nil {
		return nil, err
	}
	return idx, nil
}

// detectCycles walks child edges depth-first with a recursion stack and
// reports the first cycle found as a path.
func (idx *Index) detectCycles() error {
	visited := nodeid.Set{}
	onStack := make(map[nodeid.ID]int)
	var stack []nodeid.ID

	var visit func(id nodeid.ID) error
	visit = func(id nodeid.ID) error {
		onStack[id] = len(stack)
		stack = append(stack, id)

		for _, child := range idx.children[id] {
			if pos, ok := onStack[child]; ok {
				cycle := slices.Clone(stack[pos:])
				cycle = append(cycle, child)
				return &ConstructionError{Node: child, Cycle: cycle}
			}
			if !visited.Has(child) {
				if err := visit(child); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, id)
		visited.Add(id)
		return nil
	}

	for _, id := range idx.ids {
		if !visited.Has(id) {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
