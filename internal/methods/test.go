package methods

import (
	"strings"

	"github.com/specialistvlad/dagselect/internal/node"
)

const (
	testTypeGeneric  = "generic"
	testTypeSingular = "singular"
)

// testTypeAliases maps legacy names onto the current test types.
var testTypeAliases = map[string]string{
	testTypeGeneric:  testTypeGeneric,
	testTypeSingular: testTypeSingular,
	"schema":         testTypeGeneric,
	"data":           testTypeSingular,
}

type testTypeMethod struct{}

func (testTypeMethod) Validate(args []string, value string) error {
	if err := noArgs(TestType, args, value); err != nil {
		return err
	}
	if _, ok := testTypeAliases[value]; !ok {
		return &InvalidValueError{Method: TestType, Value: value, Reason: "expected 'generic' or 'singular'"}
	}
	return nil
}

func (testTypeMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	switch testTypeAliases[value] {
	case testTypeGeneric:
		return n.IsGenericTest(), nil
	case testTypeSingular:
		return n.IsSingularTest(), nil
	}
	return false, nil
}

type testNameMethod struct{}

func (testNameMethod) Validate(args []string, value string) error {
	if err := noArgs(TestName, args, value); err != nil {
		return err
	}
	if value == "" {
		return &InvalidValueError{Method: TestName, Value: value, Reason: "test name cannot be empty"}
	}
	return nil
}

// Match compares against the generic test's name, or its namespace-qualified
// name when value contains a dot. Singular tests never match.
func (testNameMethod) Match(n *node.Node, _ []string, value string) (bool, error) {
	if !n.IsGenericTest() {
		return false, nil
	}
	meta := n.TestMetadata
	if ns, name, ok := strings.Cut(value, "."); ok {
		return meta.Namespace == ns && meta.Name == name, nil
	}
	return meta.Name == value, nil
}
