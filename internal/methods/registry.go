package methods

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/dagselect/internal/node"
)

// Method names of the built-in predicates.
const (
	FQN          = "fqn"
	Tag          = "tag"
	Source       = "source"
	ResourceType = "resource_type"
	TestType     = "test_type"
	TestName     = "test_name"
	Path         = "path"
	Package      = "package"
	Config       = "config"
)

// Method is a predicate over a single node.
type Method interface {
	// Validate rejects malformed arguments or values before any node is scanned.
	Validate(args []string, value string) error
	// Match reports whether n satisfies the criterion value.
	Match(n *node.Node, args []string, value string) (bool, error)
}

// UnknownMethodError is returned when a criterion names a method that is not registered.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown selection method %q", e.Method)
}

// InvalidValueError is returned by Validate when a method cannot accept a value.
type InvalidValueError struct {
	// Criterion is the raw criterion text, filled in by the evaluator.
	Criterion string
	Method    string
	Value     string
	Reason    string
}

func (e *InvalidValueError) Error() string {
	msg := fmt.Sprintf("invalid value %q for selection method %q: %s", e.Value, e.Method, e.Reason)
	if e.Criterion != "" {
		return fmt.Sprintf("criterion '%s': %s", e.Criterion, msg)
	}
	return msg
}

// Registry maps method names to predicates. It is populated once and read
// concurrently afterwards.
type Registry struct {
	methods map[string]Method
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{methods: make(map[string]Method)}
}

// Default creates a registry holding every built-in method.
func Default() *Registry {
	r := New()
	r.Register(FQN, fqnMethod{})
	r.Register(Tag, tagMethod{})
	r.Register(Source, sourceMethod{})
	r.Register(ResourceType, resourceTypeMethod{})
	r.Register(TestType, testTypeMethod{})
	r.Register(TestName, testNameMethod{})
	r.Register(Path, pathMethod{})
	r.Register(Package, packageMethod{})
	r.Register(Config, configMethod{})
	return r
}

// Register adds or replaces a method.
func (r *Registry) Register(name string, m Method) {
	r.methods[name] = m
}

// Resolve returns the method registered under name.
func (r *Registry) Resolve(name string) (Method, error) {
	m, ok := r.methods[name]
	if !ok {
		return nil, &UnknownMethodError{Method: name}
	}
	return m, nil
}

// Names returns the registered method names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.methods))
}

// noArgs rejects method arguments for methods that take none.
func noArgs(method string, args []string, value string) error {
	if len(args) > 0 {
		return &InvalidValueError{Method: method, Value: value, Reason: fmt.Sprintf("method does not accept arguments, got %v", args)}
	}
	return nil
}
