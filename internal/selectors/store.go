package selectors

import (
	"fmt"
	"os"
	"slices"

	"github.com/specialistvlad/dagselect/internal/selection"
	"gopkg.in/yaml.v3"
)

// Definition is a resolved named selector.
type Definition struct {
	Name        string
	Description string
	Default     bool
	Expression  selection.Expression
	// IndirectSelection is the first policy set on a leaf of the
	// definition, in definition order. Empty when no leaf sets one.
	IndirectSelection selection.IndirectSelection
}

// Request builds a selection request for the definition. The definition's
// own policy, when set, takes precedence over policy.
func (d *Definition) Request(policy selection.IndirectSelection) *selection.Request {
	return &selection.Request{Select: d.Expression, IndirectSelection: policy}
}

// Store holds the selectors of one project. It is immutable after loading.
type Store struct {
	definitions map[string]*Definition
	names       []string
	defaultName string
}

type document struct {
	Selectors []rawSelector `yaml:"selectors"`
}

type rawSelector struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Default     bool      `yaml:"default"`
	Definition  yaml.Node `yaml:"definition"`
}

// Empty returns a store without selectors.
func Empty() *Store {
	return &Store{definitions: map[string]*Definition{}}
}

// Load reads and parses a selectors file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading selectors file: %w", err)
	}
	return Parse(data)
}

// Parse parses a selectors document and resolves every reference between
// selectors.
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SelectorDefinitionError{Reason: "malformed YAML", Err: err}
	}

	raw := make(map[string]*rawSelector, len(doc.Selectors))
	var names []string
	var defaults []string
	for i := range doc.Selectors {
		s := &doc.Selectors[i]
		if s.Name == "" {
			return nil, &SelectorDefinitionError{Reason: fmt.Sprintf("selector #%d has no name", i+1)}
		}
		if _, dup := raw[s.Name]; dup {
			return nil, &SelectorDefinitionError{Selector: s.Name, Reason: "defined more than once"}
		}
		if s.Definition.Kind == 0 {
			return nil, &SelectorDefinitionError{Selector: s.Name, Reason: "missing definition"}
		}
		if s.Default {
			defaults = append(defaults, s.Name)
		}
		raw[s.Name] = s
		names = append(names, s.Name)
	}
	if len(defaults) > 1 {
		return nil, &SelectorDefinitionError{Reason: fmt.Sprintf("more than one default selector: %v", defaults)}
	}

	r := &resolver{raw: raw, resolved: make(map[string]*Definition, len(raw))}
	for _, name := range names {
		if _, err := r.resolve(name); err != nil {
			return nil, err
		}
	}

	store := &Store{definitions: r.resolved, names: names}
	if len(defaults) == 1 {
		store.defaultName = defaults[0]
	}
	return store, nil
}

// Get returns the named selector.
func (s *Store) Get(name string) (*Definition, error) {
	d, ok := s.definitions[name]
	if !ok {
		return nil, &UnknownSelectorError{Name: name}
	}
	return d, nil
}

// Default returns the selector marked `default: true`, if any.
func (s *Store) Default() (*Definition, bool) {
	if s.defaultName == "" {
		return nil, false
	}
	return s.definitions[s.defaultName], true
}

// Names returns selector names in file order.
func (s *Store) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of selectors.
func (s *Store) Len() int {
	return len(s.definitions)
}
