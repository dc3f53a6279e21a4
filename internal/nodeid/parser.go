// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex validates a single segment of an identifier.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// sourceType is the only resource type whose name spans two segments.
const sourceType = "source"

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-" && name != "_"
}

// nameSegments returns the number of name segments a resource type carries.
func nameSegments(resourceType string) int {
	if resourceType == sourceType {
		return 2
	}
	return 1
}

func splitSegments(raw string) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}
	segments := strings.Split(raw, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("identifier %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) || !isValidSegmentName(segment) {
			return nil, fmt.Errorf("invalid segment %q in identifier %q", segment, raw)
		}
	}
	return segments, nil
}

// Parse creates a new Address by parsing a fully-qualified identifier.
func Parse(rawID string) (*Address, error) {
	segments, err := splitSegments(rawID)
	if err != nil {
		return nil, err
	}

	want := 2 + nameSegments(segments[0])
	if len(segments) != want {
		return nil, fmt.Errorf("identifier %q must have %d segments for resource type %q, got %d", rawID, want, segments[0], len(segments))
	}

	return &Address{
		ResourceType: segments[0],
		Package:      segments[1],
		Name:         segments[2:],
	}, nil
}

// Qualify parses a reference that may omit its package and returns the
// fully-qualified identifier, using pkg for short references.
func Qualify(ref, pkg string) (ID, error) {
	segments, err := splitSegments(ref)
	if err != nil {
		return "", err
	}

	n := nameSegments(segments[0])
	switch len(segments) {
	case 1 + n:
		if pkg == "" {
			return "", fmt.Errorf("reference %q has no package and none is in scope", ref)
		}
		addr := &Address{ResourceType: segments[0], Package: pkg, Name: segments[1:]}
		return addr.ID(), nil
	case 2 + n:
		return ID(ref), nil
	default:
		return "", fmt.Errorf("reference %q is not a valid %s reference", ref, segments[0])
	}
}

// MustParse is like Parse but panics on error. It is intended for
// identifiers that are known to be valid, such as test fixtures.
func MustParse(rawID string) *Address {
	addr, err := Parse(rawID)
	if err != nil {
		panic(err)
	}
	return addr
}
