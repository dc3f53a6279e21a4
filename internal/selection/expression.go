package selection

import (
	"strings"

	"github.com/specialistvlad/dagselect/internal/methods"
)

// Expression is a node of a selection expression tree. The set of
// implementations is closed: Leaf, Union, Intersection, and Exclude.
type Expression interface {
	String() string
	expression()
}

// Leaf evaluates one criterion.
type Leaf struct {
	Criterion *Criterion
}

// Union selects nodes selected by any component.
type Union struct {
	Components []Expression
}

// Intersection selects nodes selected by every component.
type Intersection struct {
	Components []Expression
}

// Exclude selects nodes of Base that Subtracted does not select.
type Exclude struct {
	Base       Expression
	Subtracted Expression
}

func (*Leaf) expression()         {}
func (*Union) expression()        {}
func (*Intersection) expression() {}
func (*Exclude) expression()      {}

func (l *Leaf) String() string {
	return l.Criterion.String()
}

func (u *Union) String() string {
	return joinExpressions(u.Components, " ")
}

func (i *Intersection) String() string {
	return joinExpressions(i.Components, ",")
}

func (e *Exclude) String() string {
	return "(" + e.Base.String() + ") - (" + e.Subtracted.String() + ")"
}

func joinExpressions(components []Expression, sep string) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}

// AllNodes is the expression used when a request has no select expression.
func AllNodes() Expression {
	return &Leaf{Criterion: NewCriterion(methods.FQN, "*")}
}

// Criteria returns every criterion in expr in depth-first order.
func Criteria(expr Expression) []*Criterion {
	var out []*Criterion
	var visit func(Expression)
	visit = func(e Expression) {
		switch e := e.(type) {
		case *Leaf:
			out = append(out, e.Criterion)
		case *Union:
			for _, c := range e.Components {
				visit(c)
			}
		case *Intersection:
			for _, c := range e.Components {
				visit(c)
			}
		case *Exclude:
			visit(e.Base)
			visit(e.Subtracted)
		}
	}
	if expr != nil {
		visit(expr)
	}
	return out
}

// NewUnion collapses a single component into itself.
func NewUnion(components ...Expression) Expression {
	if len(components) == 1 {
		return components[0]
	}
	return &Union{Components: components}
}

// NewIntersection collapses a single component into itself.
func NewIntersection(components ...Expression) Expression {
	if len(components) == 1 {
		return components[0]
	}
	return &Intersection{Components: components}
}
