package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/methods"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// Request is an immutable description of one selection.
type Request struct {
	// Select defaults to every node when nil.
	Select Expression
	// Exclude is subtracted from Select when set.
	Exclude Expression
	// IndirectSelection is the requested policy. A policy set on a criterion
	// of the expression takes precedence; when neither is set, eager applies.
	IndirectSelection IndirectSelection
}

// NewRequest parses select and exclude strings into a request.
func NewRequest(selects, excludes []string, policy IndirectSelection) (*Request, error) {
	sel, err := Parse(selects...)
	if err != nil {
		return nil, err
	}
	exc, err := Parse(excludes...)
	if err != nil {
		return nil, err
	}
	return &Request{Select: sel, Exclude: exc, IndirectSelection: policy}, nil
}

// Root returns the expression the request evaluates.
func (r *Request) Root() Expression {
	base := r.Select
	if base == nil {
		base = AllNodes()
	}
	if r.Exclude == nil {
		return base
	}
	return &Exclude{Base: base, Subtracted: r.Exclude}
}

// Policy resolves the effective indirect selection policy.
func (r *Request) Policy() IndirectSelection {
	var override IndirectSelection
	for _, c := range Criteria(r.Root()) {
		if c.IndirectSelection != "" {
			override = c.IndirectSelection
			break
		}
	}
	return ResolvePolicy(override, r.IndirectSelection)
}

// Result is the outcome of a selection.
type Result struct {
	Selected nodeid.Set
	Policy   IndirectSelection
	Warnings []EmptySelectionWarning
}

// IDs returns the selected identifiers in sorted order.
func (r *Result) IDs() []nodeid.ID {
	return r.Selected.Sorted()
}

// Evaluator resolves requests against one graph. It holds no per-request
// state and is safe for concurrent use.
type Evaluator struct {
	graph    *graph.Index
	registry *methods.Registry
}

// NewEvaluator creates an evaluator over g using the methods in r.
func NewEvaluator(g *graph.Index, r *methods.Registry) *Evaluator {
	return &Evaluator{graph: g, registry: r}
}

// selected is the intermediate result of one expression node.
type selected struct {
	// direct is the selection including tests added by the policy.
	direct nodeid.Set
	// anchor is direct without tests incorporated by the cautious policy.
	anchor nodeid.Set
	// indirect holds candidate tests that are not in direct.
	indirect nodeid.Set
}

func (s selected) all() nodeid.Set {
	return s.direct.Union(s.indirect)
}

type evaluation struct {
	ctx      context.Context
	graph    *graph.Index
	expander *expander
	methods  map[*Criterion]methods.Method
	warnings []EmptySelectionWarning
}

// Evaluate resolves req to a node set. Every method the request uses is
// resolved and validated before any node is scanned.
func (e *Evaluator) Evaluate(ctx context.Context, req *Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	root := req.Root()

	resolved, err := e.resolve(root)
	if err != nil {
		return nil, err
	}

	policy := req.Policy()
	ev := &evaluation{
		ctx:      ctx,
		graph:    e.graph,
		expander: &expander{graph: e.graph, policy: policy},
		methods:  resolved,
	}

	out, err := ev.eval(root)
	if err != nil {
		return nil, err
	}

	result := &Result{Selected: out.direct, Policy: policy, Warnings: ev.warnings}
	if result.Selected.Len() == 0 {
		w := EmptySelectionWarning{}
		logger.Warn(w.String(), "selection", root.String())
		result.Warnings = append(result.Warnings, w)
	}
	logger.Debug("Selection evaluated.", "selection", root.String(), "indirect_selection", policy, "selected", result.Selected.Len())
	return result, nil
}

func (e *Evaluator) resolve(root Expression) (map[*Criterion]methods.Method, error) {
	resolved := make(map[*Criterion]methods.Method)
	for _, c := range Criteria(root) {
		m, err := e.registry.Resolve(c.Method)
		if err != nil {
			return nil, fmt.Errorf("criterion '%s': %w", c, err)
		}
		if err := m.Validate(c.Args, c.Value); err != nil {
			var invalid *methods.InvalidValueError
			if errors.As(err, &invalid) {
				invalid.Criterion = c.String()
				return nil, invalid
			}
			return nil, fmt.Errorf("criterion '%s': %w", c, err)
		}
		resolved[c] = m
	}
	return resolved, nil
}

func (ev *evaluation) eval(expr Expression) (selected, error) {
	if err := ev.ctx.Err(); err != nil {
		return selected{}, err
	}

	switch expr := expr.(type) {
	case *Leaf:
		return ev.leaf(expr.Criterion)
	case *Union:
		return ev.combine(expr.Components, func(first nodeid.Set, rest []nodeid.Set) nodeid.Set {
			return first.Union(rest...)
		})
	case *Intersection:
		return ev.combine(expr.Components, func(first nodeid.Set, rest []nodeid.Set) nodeid.Set {
			return first.Intersect(rest...)
		})
	case *Exclude:
		return ev.combine([]Expression{expr.Base, expr.Subtracted}, func(first nodeid.Set, rest []nodeid.Set) nodeid.Set {
			return first.Difference(rest...)
		})
	default:
		return selected{}, fmt.Errorf("unsupported expression type %T", expr)
	}
}

func (ev *evaluation) leaf(c *Criterion) (selected, error) {
	m := ev.methods[c]
	matched := nodeid.Set{}
	for _, n := range ev.graph.Nodes() {
		ok, err := m.Match(n, c.Args, c.Value)
		if err != nil {
			return selected{}, fmt.Errorf("criterion '%s' on node '%s': %w", c, n.UniqueID, err)
		}
		if ok {
			matched.Add(n.UniqueID)
		}
	}

	if matched.Len() == 0 {
		w := EmptySelectionWarning{Criterion: c.String()}
		ctxlog.FromContext(ev.ctx).Warn(w.String(), "criterion", c.String())
		ev.warnings = append(ev.warnings, w)
	}

	collected := matched.Clone()
	switch {
	case c.ChildrensParents:
		collected = collected.Union(ev.graph.SelectChildrensParents(matched))
	default:
		if c.Parents {
			collected = collected.Union(ev.graph.SelectParents(matched, c.ParentsDepth))
		}
		if c.Children {
			collected = collected.Union(ev.graph.SelectChildren(matched, c.ChildrenDepth))
		}
	}

	promoted, candidates := ev.expander.attach(collected)
	out := selected{
		direct:   collected.Union(promoted),
		anchor:   collected.Union(promoted),
		indirect: candidates,
	}
	return ev.incorporate(out), nil
}

func (ev *evaluation) combine(components []Expression, op func(nodeid.Set, []nodeid.Set) nodeid.Set) (selected, error) {
	parts := make([]selected, 0, len(components))
	for _, c := range components {
		s, err := ev.eval(c)
		if err != nil {
			return selected{}, err
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return selected{direct: nodeid.Set{}, anchor: nodeid.Set{}, indirect: nodeid.Set{}}, nil
	}

	pick := func(f func(selected) nodeid.Set) (nodeid.Set, []nodeid.Set) {
		rest := make([]nodeid.Set, 0, len(parts)-1)
		for _, p := range parts[1:] {
			rest = append(rest, f(p))
		}
		return f(parts[0]), rest
	}

	direct := op(pick(func(s selected) nodeid.Set { return s.direct }))
	anchor := op(pick(func(s selected) nodeid.Set { return s.anchor }))
	all := op(pick(selected.all))

	return ev.incorporate(selected{
		direct:   direct,
		anchor:   anchor,
		indirect: all.Difference(direct),
	}), nil
}

// incorporate moves candidate tests into the direct set when the policy
// allows it.
func (ev *evaluation) incorporate(s selected) selected {
	added := ev.expander.incorporate(s.anchor, s.indirect)
	if added.Len() == 0 {
		return s
	}
	return selected{
		direct:   s.direct.Union(added),
		anchor:   s.anchor,
		indirect: s.indirect.Difference(added),
	}
}
