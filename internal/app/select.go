package app

import (
	"context"
	"slices"

	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
	"github.com/specialistvlad/dagselect/internal/selection"
)

// Query describes which nodes a command operates on.
type Query struct {
	Select  []string
	Exclude []string
	// Selector names a definition from the selectors file. It cannot be
	// combined with Select or Exclude.
	Selector string
	// IndirectSelection is the requested policy; empty means the default.
	IndirectSelection string
	// ResourceTypes restricts the result; empty keeps every type.
	ResourceTypes []node.ResourceType
}

func (q Query) hasExpression() bool {
	return len(q.Select) > 0 || len(q.Exclude) > 0
}

// request turns a query into an immutable selection request. Without any
// expression or selector the default selector applies, if one is defined.
func (a *App) request(ctx context.Context, q Query) (*selection.Request, error) {
	logger := ctxlog.FromContext(ctx)

	policy, err := selection.ParseIndirectSelection(q.IndirectSelection)
	if err != nil {
		return nil, &UsageError{Message: err.Error()}
	}

	if q.Selector != "" {
		if q.hasExpression() {
			return nil, &UsageError{Message: "--selector cannot be combined with --select or --exclude"}
		}
		def, err := a.selectors.Get(q.Selector)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using selector.", "selector", def.Name)
		return def.Request(policy), nil
	}

	if !q.hasExpression() {
		if def, ok := a.selectors.Default(); ok {
			logger.Info("Using default selector.", "selector", def.Name)
			return def.Request(policy), nil
		}
	}

	return selection.NewRequest(q.Select, q.Exclude, policy)
}

// Select resolves a query to its node set.
func (a *App) Select(ctx context.Context, q Query) (*selection.Result, error) {
	ctx = a.context(ctx, "select")
	req, err := a.request(ctx, q)
	if err != nil {
		return nil, err
	}

	res, err := a.evaluator.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(q.ResourceTypes) == 0 {
		return res, nil
	}

	kept := nodeid.Set{}
	for id := range res.Selected {
		if n, ok := a.graph.Node(id); ok && slices.Contains(q.ResourceTypes, n.ResourceType) {
			kept.Add(id)
		}
	}
	return &selection.Result{Selected: kept, Policy: res.Policy, Warnings: res.Warnings}, nil
}
