// internal/nodeid/types.go
package nodeid

// ID is the canonical string form of a node's unique identifier. It is
// comparable and used as the key for every node lookup.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// Address is the structured representation of a unique node identifier.
type Address struct {
	// ResourceType is the first segment, e.g. `model` or `test`.
	ResourceType string
	// Package is the project or installed package that owns the node.
	Package string
	// Name holds the remaining segments. Sources carry two
	// (source name, table name); every other resource carries one.
	Name []string
}

// Leaf returns the last name segment.
func (a *Address) Leaf() string {
	if a == nil || len(a.Name) == 0 {
		return ""
	}
	return a.Name[len(a.Name)-1]
}
