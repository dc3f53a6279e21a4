package methods

import (
	"path"
	"strings"

	"github.com/specialistvlad/dagselect/internal/node"
)

// globAll terminates an fqn match: everything below the matched prefix is selected.
const globAll = "*"

type fqnMethod struct{}

func (fqnMethod) Validate(args []string, value string) error {
	if err := noArgs(FQN, args, value); err != nil {
		return err
	}
	for _, part := range strings.Split(value, ".") {
		if _, err := path.Match(part, ""); err != nil {
			return &InvalidValueError{Method: FQN, Value: value, Reason: err.Error()}
		}
	}
	return nil
}

// Match selects a node whose fqn leaf equals value, or whose flattened fqn
// starts with the dotted parts of value. Each part may be a shell glob and
// a bare `*` part matches everything below it.
func (fqnMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	if len(n.FQN) == 0 {
		return false, nil
	}
	if n.FQN[len(n.FQN)-1] == value {
		return true, nil
	}

	var flat []string
	for _, segment := range n.FQN {
		flat = append(flat, strings.Split(segment, ".")...)
	}

	parts := strings.Split(value, ".")
	for i, part := range parts {
		if part == globAll {
			return true, nil
		}
		if i >= len(flat) {
			return false, nil
		}
		ok, err := path.Match(part, flat[i])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
