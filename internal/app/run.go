package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/executor"
	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// Output formats accepted by List.
const (
	OutputID   = "id"
	OutputName = "name"
	OutputPath = "path"
)

// List writes the selected nodes, one per line, in identifier order.
func (a *App) List(ctx context.Context, q Query, output string) error {
	if output == "" {
		output = OutputID
	}
	if output != OutputID && output != OutputName && output != OutputPath {
		return &UsageError{Message: fmt.Sprintf("invalid output %q: must be 'id', 'name', or 'path'", output)}
	}

	res, err := a.Select(ctx, q)
	if err != nil {
		return err
	}

	for _, id := range res.IDs() {
		n, _ := a.graph.Node(id)
		line := id.String()
		switch output {
		case OutputName:
			line = n.Name
		case OutputPath:
			line = n.Path
		}
		if _, err := fmt.Fprintln(a.outW, line); err != nil {
			return err
		}
	}
	a.logger.Debug("Listed nodes.", "count", res.Selected.Len(), "policy", res.Policy)
	return nil
}

// Run executes the selected nodes that are not tests.
func (a *App) Run(ctx context.Context, q Query) (*executor.Report, error) {
	ctx = a.context(ctx, "run")
	report, err := a.execute(ctx, q, executor.NonTests)
	if err != nil {
		return report, err
	}
	if report.Failed() {
		return report, ErrRunFailed
	}
	return report, nil
}

// Test executes the selected tests and reports each one.
func (a *App) Test(ctx context.Context, q Query) (*executor.Report, error) {
	ctx = a.context(ctx, "test")
	q.ResourceTypes = nil
	report, err := a.execute(ctx, q, executor.Tests)
	if err != nil {
		return report, err
	}
	if report.Failed() {
		return report, ErrTestsFailed
	}
	return report, nil
}

type nodeFilter func(g *graph.Index, ids nodeid.Set) nodeid.Set

func (a *App) execute(ctx context.Context, q Query, keep nodeFilter) (*executor.Report, error) {
	logger := ctxlog.FromContext(ctx)

	res, err := a.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	ids := keep(a.graph, res.Selected)
	if ids.Len() == 0 {
		logger.Warn("Nothing to do: no nodes selected.")
		return &executor.Report{}, nil
	}

	logger.Info("🚀 Starting execution.", "nodes", ids.Len(), "policy", res.Policy, "workers", a.config.WorkerCount)
	report, err := executor.New(a.graph, a.handlers, a.config.WorkerCount).Execute(ctx, ids)
	if report != nil {
		renderReport(a.outW, report)
	}
	return report, err
}
