package executor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when a non-positive worker count is configured.
const DefaultWorkers = 4

// Executor runs node sets of one graph.
type Executor struct {
	graph    *graph.Index
	handlers *Handlers
	workers  int
}

// New creates an executor. A nil handler registry means DefaultHandlers.
func New(g *graph.Index, handlers *Handlers, workers int) *Executor {
	if handlers == nil {
		handlers = DefaultHandlers()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Executor{graph: g, handlers: handlers, workers: workers}
}

// run holds the mutable state of a single Execute call.
type run struct {
	mu      sync.Mutex
	results map[nodeid.ID]NodeResult
}

func (r *run) record(res NodeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[res.Node] = res
}

func (r *run) status(id nodeid.ID) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[id]
	return res.Status, ok
}

// Execute runs every node in ids after its selected parents. Parents that
// are not in ids are treated as already built. When ctx is cancelled no
// further nodes are dispatched: the remaining ones are reported as skipped
// and the context error is returned alongside the partial report.
func (e *Executor) Execute(ctx context.Context, ids nodeid.Set) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	waves, err := e.graph.Subgraph(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to order nodes: %w", err)
	}
	logger.Debug("Executor starting run.", "nodes", ids.Len(), "waves", len(waves), "workers", e.workers)

	state := &run{results: make(map[nodeid.ID]NodeResult, ids.Len())}
	var runErr error

	for i, wave := range waves {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for _, id := range wave {
			g.Go(func() error {
				res := e.executeNode(gctx, state, id)
				state.record(res)
				if res.Status == StatusSkipped && gctx.Err() != nil {
					return gctx.Err()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			runErr = err
			break
		}
		logger.Debug("Wave finished.", "wave", i, "nodes", len(wave))
	}

	if runErr != nil {
		for _, wave := range waves {
			for _, id := range wave {
				if _, done := state.status(id); done {
					continue
				}
				state.record(e.skipped(id, "execution cancelled"))
			}
		}
	}

	report := &Report{Elapsed: time.Since(start)}
	for _, id := range ids.Sorted() {
		report.Results = append(report.Results, state.results[id])
	}
	logger.Info("🏁 Execution finished.", "nodes", len(report.Results), "elapsed", report.Elapsed)

	if runErr != nil {
		return report, fmt.Errorf("execution stopped: %w", runErr)
	}
	return report, nil
}

func (e *Executor) executeNode(ctx context.Context, state *run, id nodeid.ID) NodeResult {
	n, _ := e.graph.Node(id)
	logger := ctxlog.FromContext(ctx).With("node", id.String())

	if err := ctx.Err(); err != nil {
		return e.skipped(id, "execution cancelled")
	}

	for _, parent := range e.graph.Parents(id) {
		status, ok := state.status(parent)
		if ok && status.Failed() {
			logger.Debug("Skipping node, upstream failed.", "upstream", parent.String(), "status", status)
			return e.skipped(id, fmt.Sprintf("upstream '%s' %s", parent, status))
		}
	}

	res := NodeResult{Node: id, Name: n.Name, ResourceType: n.ResourceType}
	handler, ok := e.handlers.Get(n.ResourceType)
	if !ok {
		res.Status = StatusError
		res.Message = fmt.Sprintf("no handler registered for resource type '%s'", n.ResourceType)
		logger.Error("Node failed.", "error", res.Message)
		return res
	}

	started := time.Now()
	status, err := handler.Execute(ctx, n)
	res.Duration = time.Since(started)
	res.Status = status

	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		res.Status = StatusSkipped
		res.Message = "execution cancelled"
	case err != nil:
		if !status.Failed() {
			res.Status = StatusError
		}
		res.Message = err.Error()
	case !slices.Contains(statuses, status):
		res.Status = StatusError
		res.Message = fmt.Sprintf("handler returned unknown status %q", status)
	}

	if res.Status.Failed() {
		logger.Warn("Node did not succeed.", "status", res.Status, "message", res.Message)
	} else {
		logger.Debug("Node finished.", "status", res.Status, "duration", res.Duration)
	}
	return res
}

func (e *Executor) skipped(id nodeid.ID, reason string) NodeResult {
	res := NodeResult{Node: id, Status: StatusSkipped, Message: reason}
	if n, ok := e.graph.Node(id); ok {
		res.Name = n.Name
		res.ResourceType = n.ResourceType
	}
	return res
}

var statuses = []Status{StatusSuccess, StatusPass, StatusWarn, StatusFail, StatusError, StatusSkipped}

// Tests keeps only the test nodes of ids.
func Tests(g *graph.Index, ids nodeid.Set) nodeid.Set {
	return filter(g, ids, func(n *node.Node) bool { return n.IsTest() })
}

// NonTests keeps only the nodes of ids that are not tests.
func NonTests(g *graph.Index, ids nodeid.Set) nodeid.Set {
	return filter(g, ids, func(n *node.Node) bool { return !n.IsTest() })
}

func filter(g *graph.Index, ids nodeid.Set, keep func(*node.Node) bool) nodeid.Set {
	out := nodeid.Set{}
	for id := range ids {
		if n, ok := g.Node(id); ok && keep(n) {
			out.Add(id)
		}
	}
	return out
}
