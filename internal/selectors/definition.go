package selectors

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/dagselect/internal/selection"
	"gopkg.in/yaml.v3"
)

// selectorMethod references another named selector.
const selectorMethod = "selector"

const (
	keyUnion        = "union"
	keyIntersection = "intersection"
	keyExclude      = "exclude"
	keyMethod       = "method"
)

var leafKeys = []string{
	"method", "value", "children", "parents", "children_depth", "parents_depth",
	"childrens_parents", "indirect_selection", "eagerly_expand",
}

// resolver turns raw selectors into definitions in dependency order.
type resolver struct {
	raw      map[string]*rawSelector
	resolved map[string]*Definition
	visiting []string
}

func (r *resolver) resolve(name string) (*Definition, error) {
	if d, ok := r.resolved[name]; ok {
		return d, nil
	}
	if i := slices.Index(r.visiting, name); i >= 0 {
		cycle := append(slices.Clone(r.visiting[i:]), name)
		return nil, &SelectorDefinitionError{
			Selector: r.visiting[len(r.visiting)-1],
			Reason:   "selector reference cycle: " + strings.Join(cycle, " -> "),
		}
	}

	raw, ok := r.raw[name]
	if !ok {
		return nil, &UnknownSelectorError{Name: name}
	}

	r.visiting = append(r.visiting, name)
	defer func() { r.visiting = r.visiting[:len(r.visiting)-1] }()

	p := &definitionParser{selector: name, resolver: r}
	expr, err := p.parse(&raw.Definition)
	if err != nil {
		return nil, err
	}

	d := &Definition{
		Name:        raw.Name,
		Description: raw.Description,
		Default:     raw.Default,
		Expression:  expr,
	}
	for _, c := range selection.Criteria(expr) {
		if c.IndirectSelection != "" {
			d.IndirectSelection = c.IndirectSelection
			break
		}
	}
	r.resolved[name] = d
	return d, nil
}

// definitionParser parses the definition tree of one selector.
type definitionParser struct {
	selector string
	resolver *resolver
}

func (p *definitionParser) fail(n *yaml.Node, format string, args ...any) error {
	reason := fmt.Sprintf(format, args...)
	if n != nil && n.Line > 0 {
		reason = fmt.Sprintf("line %d: %s", n.Line, reason)
	}
	return &SelectorDefinitionError{Selector: p.selector, Reason: reason}
}

func (p *definitionParser) parse(n *yaml.Node) (selection.Expression, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return p.parse(n.Alias)
	case yaml.ScalarNode:
		return p.parseString(n)
	case yaml.MappingNode:
		return p.parseMapping(n)
	default:
		return nil, p.fail(n, "definition must be a selection string or a mapping")
	}
}

func (p *definitionParser) parseString(n *yaml.Node) (selection.Expression, error) {
	expr, err := selection.Parse(n.Value)
	if err != nil {
		return nil, &SelectorDefinitionError{Selector: p.selector, Reason: "invalid selection string", Err: err}
	}
	if expr == nil {
		return nil, p.fail(n, "empty selection string")
	}
	return p.substitute(n, expr)
}

// substitute replaces `selector:name` leaves of a parsed string with the
// referenced selector's expression.
func (p *definitionParser) substitute(n *yaml.Node, expr selection.Expression) (selection.Expression, error) {
	switch e := expr.(type) {
	case *selection.Leaf:
		if e.Criterion.Method != selectorMethod {
			return e, nil
		}
		return p.reference(n, e.Criterion)
	case *selection.Union:
		components, err := p.substituteAll(n, e.Components)
		if err != nil {
			return nil, err
		}
		return &selection.Union{Components: components}, nil
	case *selection.Intersection:
		components, err := p.substituteAll(n, e.Components)
		if err != nil {
			return nil, err
		}
		return &selection.Intersection{Components: components}, nil
	case *selection.Exclude:
		base, err := p.substitute(n, e.Base)
		if err != nil {
			return nil, err
		}
		sub, err := p.substitute(n, e.Subtracted)
		if err != nil {
			return nil, err
		}
		return &selection.Exclude{Base: base, Subtracted: sub}, nil
	}
	return expr, nil
}

func (p *definitionParser) substituteAll(n *yaml.Node, exprs []selection.Expression) ([]selection.Expression, error) {
	out := make([]selection.Expression, 0, len(exprs))
	for _, e := range exprs {
		s, err := p.substitute(n, e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *definitionParser) reference(n *yaml.Node, c *selection.Criterion) (selection.Expression, error) {
	if c.Parents || c.Children || c.ChildrensParents || len(c.Args) > 0 {
		return nil, p.fail(n, "selector reference '%s' cannot use graph operators or arguments", c)
	}
	d, err := p.resolver.resolve(c.Value)
	if err != nil {
		var unknown *UnknownSelectorError
		if errors.As(err, &unknown) {
			return nil, p.fail(n, "references unknown selector '%s'", unknown.Name)
		}
		return nil, err
	}
	return d.Expression, nil
}

// mappingEntry is one key of a YAML mapping with its value node.
type mappingEntry struct {
	key   string
	value *yaml.Node
}

func entries(n *yaml.Node) []mappingEntry {
	out := make([]mappingEntry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, mappingEntry{key: n.Content[i].Value, value: n.Content[i+1]})
	}
	return out
}

func (p *definitionParser) parseMapping(n *yaml.Node) (selection.Expression, error) {
	fields := entries(n)
	if len(fields) == 0 {
		return nil, p.fail(n, "empty definition")
	}
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}

	switch {
	case slices.Contains(keys, keyMethod):
		return p.parseLeaf(n, fields)
	case len(fields) != 1:
		return nil, p.fail(n, "expected a single key, a leaf with 'method' and 'value', or one of union, intersection, exclude; got %v", keys)
	}

	f := fields[0]
	switch f.key {
	case keyUnion, keyIntersection:
		return p.parseCombinator(f.key, f.value)
	case keyExclude:
		sub, err := p.parseList(keyExclude, f.value)
		if err != nil {
			return nil, err
		}
		return &selection.Exclude{Base: selection.AllNodes(), Subtracted: selection.NewUnion(sub...)}, nil
	default:
		if f.value.Kind != yaml.ScalarNode {
			return nil, p.fail(f.value, "shorthand '%s' expects a scalar value", f.key)
		}
		return p.leafFrom(n, f.key, f.value.Value, selection.NewCriterion("", f.value.Value))
	}
}

// parseCombinator parses a union or intersection list. Items of the form
// {exclude: [...]} are subtracted from the combination of the others.
func (p *definitionParser) parseCombinator(kind string, n *yaml.Node) (selection.Expression, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, p.fail(n, "'%s' expects a list", kind)
	}

	var components, excluded []selection.Expression
	for _, item := range n.Content {
		if item.Kind == yaml.MappingNode && len(item.Content) == 2 && item.Content[0].Value == keyExclude {
			sub, err := p.parseList(keyExclude, item.Content[1])
			if err != nil {
				return nil, err
			}
			excluded = append(excluded, sub...)
			continue
		}
		expr, err := p.parse(item)
		if err != nil {
			return nil, err
		}
		components = append(components, expr)
	}
	if len(components) == 0 {
		return nil, p.fail(n, "'%s' needs at least one item besides exclude", kind)
	}

	var base selection.Expression
	if kind == keyUnion {
		base = selection.NewUnion(components...)
	} else {
		base = selection.NewIntersection(components...)
	}
	if len(excluded) == 0 {
		return base, nil
	}
	return &selection.Exclude{Base: base, Subtracted: selection.NewUnion(excluded...)}, nil
}

func (p *definitionParser) parseList(kind string, n *yaml.Node) ([]selection.Expression, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, p.fail(n, "'%s' expects a non-empty list", kind)
	}
	out := make([]selection.Expression, 0, len(n.Content))
	for _, item := range n.Content {
		expr, err := p.parse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func (p *definitionParser) parseLeaf(n *yaml.Node, fields []mappingEntry) (selection.Expression, error) {
	c := selection.NewCriterion("", "")
	var method string
	hasValue := false

	for _, f := range fields {
		if !slices.Contains(leafKeys, f.key) {
			return nil, p.fail(f.value, "unknown key '%s' in leaf definition", f.key)
		}
		v := f.value
		var err error
		switch f.key {
		case "method":
			method = v.Value
		case "value":
			c.Value, hasValue = v.Value, true
		case "children":
			c.Children, err = boolValue(v)
		case "parents":
			c.Parents, err = boolValue(v)
		case "childrens_parents":
			c.ChildrensParents, err = boolValue(v)
		case "children_depth":
			c.ChildrenDepth, err = depthValue(v)
		case "parents_depth":
			c.ParentsDepth, err = depthValue(v)
		case "indirect_selection":
			c.IndirectSelection, err = selection.ParseIndirectSelection(v.Value)
		case "eagerly_expand":
			c.IndirectSelection, err = eagerlyExpand(v)
		}
		if err != nil {
			return nil, p.fail(v, "key '%s': %v", f.key, err)
		}
	}

	if method == "" {
		return nil, p.fail(n, "leaf definition has an empty method")
	}
	if !hasValue || c.Value == "" {
		return nil, p.fail(n, "leaf definition for method '%s' has no value", method)
	}
	if c.ChildrensParents && c.Parents {
		return nil, p.fail(n, "childrens_parents cannot be combined with parents")
	}
	return p.leafFrom(n, method, c.Value, c)
}

// leafFrom completes a criterion from a possibly dotted method spec and
// resolves selector references.
func (p *definitionParser) leafFrom(n *yaml.Node, spec, value string, c *selection.Criterion) (selection.Expression, error) {
	parts := strings.Split(spec, ".")
	if slices.Contains(parts, "") {
		return nil, p.fail(n, "invalid method '%s'", spec)
	}
	c.Method = parts[0]
	if len(parts) > 1 {
		c.Args = parts[1:]
	}
	c.Value = value

	if c.Method == selectorMethod {
		return p.reference(n, c)
	}
	return &selection.Leaf{Criterion: c}, nil
}

func boolValue(n *yaml.Node) (bool, error) {
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, fmt.Errorf("expected a boolean")
	}
	return b, nil
}

func depthValue(n *yaml.Node) (int, error) {
	d, err := strconv.Atoi(n.Value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("expected a non-negative integer")
	}
	return d, nil
}

// eagerlyExpand accepts a policy name, or a boolean where true means eager
// and false means cautious.
func eagerlyExpand(n *yaml.Node) (selection.IndirectSelection, error) {
	if n.ShortTag() == "!!bool" {
		b, err := boolValue(n)
		if err != nil {
			return "", err
		}
		if b {
			return selection.Eager, nil
		}
		return selection.Cautious, nil
	}
	return selection.ParseIndirectSelection(n.Value)
}
