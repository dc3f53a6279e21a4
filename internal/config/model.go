package config

import (
	"github.com/specialistvlad/dagselect/internal/node"
)

// Project is the unified, format-agnostic representation of a loaded
// project manifest.
type Project struct {
	// Name is the project's own package name.
	Name string
	// Nodes are all declared nodes in declaration order.
	Nodes []*node.Node
	// Files lists the manifest files that were read.
	Files []string
}

// CountByType returns the number of nodes of each resource type.
func (p *Project) CountByType() map[node.ResourceType]int {
	counts := make(map[node.ResourceType]int)
	for _, n := range p.Nodes {
		counts[n.ResourceType]++
	}
	return counts
}
