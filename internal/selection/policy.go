package selection

import "fmt"

// IndirectSelection governs which tests attached to selected nodes are
// pulled into a selection.
type IndirectSelection string

const (
	// Eager includes a test when any node it tests is selected.
	Eager IndirectSelection = "eager"
	// Cautious includes a test only when every node it tests is selected.
	Cautious IndirectSelection = "cautious"
	// Empty never includes a test that was not matched directly.
	Empty IndirectSelection = "empty"
)

// DefaultIndirectSelection applies when neither a selector nor the request sets a policy.
const DefaultIndirectSelection = Eager

// ParseIndirectSelection validates a policy name. The empty string means unset.
func ParseIndirectSelection(s string) (IndirectSelection, error) {
	switch p := IndirectSelection(s); p {
	case "", Eager, Cautious, Empty:
		return p, nil
	default:
		return "", fmt.Errorf("invalid indirect selection %q: expected one of eager, cautious, empty", s)
	}
}

// ResolvePolicy returns the first set policy, falling back to eager.
func ResolvePolicy(candidates ...IndirectSelection) IndirectSelection {
	for _, p := range candidates {
		if p != "" {
			return p
		}
	}
	return DefaultIndirectSelection
}
