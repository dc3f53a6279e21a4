package methods

import (
	"path"
	"slices"

	"github.com/specialistvlad/dagselect/internal/node"
)

type tagMethod struct{}

func (tagMethod) Validate(args []string, value string) error {
	if err := noArgs(Tag, args, value); err != nil {
		return err
	}
	if _, err := path.Match(value, ""); err != nil {
		return &InvalidValueError{Method: Tag, Value: value, Reason: err.Error()}
	}
	return nil
}

// Match checks the node's own tags and, for tests, the tags of every tested column.
func (tagMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	match := func(tags []string) (bool, error) {
		if slices.Contains(tags, value) {
			return true, nil
		}
		for _, tag := range tags {
			ok, err := path.Match(value, tag)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}

	if ok, err := match(n.Tags); err != nil || ok {
		return ok, err
	}
	if !n.IsTest() {
		return false, nil
	}
	for _, ref := range n.TestedRefs {
		if ok, err := match(ref.ColumnTags); err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
