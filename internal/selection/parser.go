package selection

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/methods"
)

// criterionRegex splits a single term into its graph operators, method
// spec, and value. It matches any input; malformed terms are rejected by
// the checks in parseCriterion.
var criterionRegex = regexp.MustCompile(
	`^(?P<childrens_parents>@)?` +
		`(?P<parents>(?P<parents_depth>\d*)\+)?` +
		`(?:(?P<method>[\w.]+):)?` +
		`(?P<value>.*?)` +
		`(?P<children>\+(?P<children_depth>\d*))?$`,
)

var (
	groupChildrensParents = criterionRegex.SubexpIndex("childrens_parents")
	groupParents          = criterionRegex.SubexpIndex("parents")
	groupParentsDepth     = criterionRegex.SubexpIndex("parents_depth")
	groupMethod           = criterionRegex.SubexpIndex("method")
	groupValue            = criterionRegex.SubexpIndex("value")
	groupChildren         = criterionRegex.SubexpIndex("children")
	groupChildrenDepth    = criterionRegex.SubexpIndex("children_depth")
)

// Parse parses one or more selection strings into a single expression.
// Multiple strings are unioned, as are whitespace-separated groups within
// a string. It returns a nil expression when every input is blank.
func Parse(inputs ...string) (Expression, error) {
	var groups []Expression
	for _, input := range inputs {
		for _, group := range strings.Fields(input) {
			var terms []Expression
			for _, term := range strings.Split(group, ",") {
				if term == "" {
					return nil, &GrammarError{Input: input, Fragment: group, Reason: "empty term in intersection"}
				}
				c, err := parseCriterion(input, term)
				if err != nil {
					return nil, err
				}
				terms = append(terms, &Leaf{Criterion: c})
			}
			groups = append(groups, NewIntersection(terms...))
		}
	}

	if len(groups) == 0 {
		return nil, nil
	}
	return NewUnion(groups...), nil
}

// ParseCriterion parses a single term without whitespace or commas.
func ParseCriterion(raw string) (*Criterion, error) {
	if strings.ContainsAny(raw, ", \t\n") {
		return nil, &GrammarError{Input: raw, Fragment: raw, Reason: "a single criterion cannot contain ',' or whitespace"}
	}
	return parseCriterion(raw, raw)
}

func parseCriterion(input, term string) (*Criterion, error) {
	fail := func(reason string) error {
		return &GrammarError{Input: input, Fragment: term, Reason: reason}
	}

	m := criterionRegex.FindStringSubmatch(term)
	if m == nil {
		return nil, fail("unrecognized criterion")
	}

	value := m[groupValue]
	if value == "" {
		return nil, fail("missing value")
	}
	if strings.ContainsAny(value, "+@") {
		return nil, fail("unexpected '+' or '@' in value; graph operators must wrap the whole criterion")
	}

	c := NewCriterion(methods.FQN, value)
	c.Raw = term
	c.ChildrensParents = m[groupChildrensParents] != ""
	c.Parents = m[groupParents] != ""
	c.Children = m[groupChildren] != ""

	if c.ChildrensParents && c.Parents {
		return nil, fail("'@' cannot be combined with a leading '+'")
	}

	var err error
	if c.ParentsDepth, err = parseDepth(m[groupParentsDepth]); err != nil {
		return nil, fail("invalid parents depth: " + err.Error())
	}
	if c.ChildrenDepth, err = parseDepth(m[groupChildrenDepth]); err != nil {
		return nil, fail("invalid children depth: " + err.Error())
	}

	if spec := m[groupMethod]; spec != "" {
		parts := strings.Split(spec, ".")
		for _, p := range parts {
			if p == "" {
				return nil, fail("empty method argument in '" + spec + "'")
			}
		}
		c.Method = parts[0]
		if len(parts) > 1 {
			c.Args = parts[1:]
		}
	}
	return c, nil
}

func parseDepth(s string) (int, error) {
	if s == "" {
		return graph.Unbounded, nil
	}
	return strconv.Atoi(s)
}
