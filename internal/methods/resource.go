package methods

import (
	"github.com/specialistvlad/dagselect/internal/node"
)

type resourceTypeMethod struct{}

func (resourceTypeMethod) Validate(args []string, value string) error {
	if err := noArgs(ResourceType, args, value); err != nil {
		return err
	}
	if _, err := node.ParseResourceType(value); err != nil {
		return &InvalidValueError{Method: ResourceType, Value: value, Reason: err.Error()}
	}
	return nil
}

func (resourceTypeMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	return string(n.ResourceType) == value, nil
}

type packageMethod struct{}

func (packageMethod) Validate(args []string, value string) error {
	return noArgs(Package, args, value)
}

func (packageMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	return n.Package == value, nil
}
