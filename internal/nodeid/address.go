// internal/nodeid/address.go
package nodeid

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical dotted representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(a.ResourceType)
	sb.WriteRune('.')
	sb.WriteString(a.Package)
	for _, segment := range a.Name {
		sb.WriteRune('.')
		sb.WriteString(segment)
	}
	return sb.String()
}

// ID returns the canonical identifier for the address.
func (a *Address) ID() ID {
	return ID(a.String())
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.ResourceType == other.ResourceType &&
		a.Package == other.Package &&
		slices.Equal(a.Name, other.Name)
}

// New builds an identifier from its parts without validation.
func New(resourceType, pkg string, name ...string) ID {
	addr := &Address{ResourceType: resourceType, Package: pkg, Name: name}
	return addr.ID()
}
