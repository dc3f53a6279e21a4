package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
	"github.com/specialistvlad/dagselect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func model(name string, expect node.Outcome, deps ...nodeid.ID) *node.Node {
	return &node.Node{
		UniqueID:     nodeid.New("model", "pkg", name),
		ResourceType: node.Model,
		Package:      "pkg",
		Name:         name,
		FQN:          []string{"pkg", name},
		DependsOn:    deps,
		Expect:       expect,
	}
}

func singularTest(name string, expect node.Outcome, deps ...nodeid.ID) *node.Node {
	n := model(name, expect, deps...)
	n.UniqueID = nodeid.New("test", "pkg", name)
	n.ResourceType = node.Test
	return n
}

func buildGraph(t *testing.T, nodes ...*node.Node) *graph.Index {
	t.Helper()
	idx, err := graph.NewBuilder().AddNodes(nodes...).Build()
	require.NoError(t, err)
	return idx
}

func statusByName(r *Report) map[string]Status {
	out := make(map[string]Status, len(r.Results))
	for _, res := range r.Results {
		out[res.Name] = res.Status
	}
	return out
}

func TestExecute_Scenario(t *testing.T) {
	idx := testutil.ScenarioGraph(t)

	report, err := New(idx, nil, 2).Execute(context.Background(), idx.All())
	require.NoError(t, err)

	require.Len(t, report.Results, idx.Len())
	assert.False(t, report.Failed())
	counts := report.Counts()
	assert.Equal(t, 3, counts[StatusSuccess], "two models and one source")
	assert.Equal(t, len(testutil.AllScenarioTests), counts[StatusPass])

	res, ok := report.Result(testutil.ModelA)
	require.True(t, ok)
	assert.Equal(t, node.Model, res.ResourceType)
	assert.Equal(t, "model_a", res.Name)
}

func TestExecute_Outcomes(t *testing.T) {
	base := model("base", node.OutcomeError)
	other := model("other", node.OutcomePass)
	downstream := model("downstream", node.OutcomePass, base.UniqueID)
	warned := singularTest("warned", node.OutcomeWarn, other.UniqueID)
	failed := singularTest("failed", node.OutcomeFail, other.UniqueID)
	onBase := singularTest("on_base", node.OutcomePass, base.UniqueID)
	afterWarn := model("after_warn", node.OutcomePass, other.UniqueID)

	idx := buildGraph(t, base, other, downstream, warned, failed, onBase, afterWarn)

	report, err := New(idx, nil, 4).Execute(context.Background(), idx.All())
	require.NoError(t, err)

	assert.Equal(t, map[string]Status{
		"base":       StatusError,
		"other":      StatusSuccess,
		"downstream": StatusSkipped,
		"warned":     StatusWarn,
		"failed":     StatusFail,
		"on_base":    StatusSkipped,
		"after_warn": StatusSuccess,
	}, statusByName(report))
	assert.True(t, report.Failed())

	res, ok := report.Result(downstream.UniqueID)
	require.True(t, ok)
	assert.Contains(t, res.Message, "model.pkg.base")

	res, ok = report.Result(base.UniqueID)
	require.True(t, ok)
	assert.Contains(t, res.Message, "declared outcome")
}

func TestExecute_OnlySelectedParentsGate(t *testing.T) {
	base := model("base", node.OutcomeError)
	check := singularTest("check", node.OutcomePass, base.UniqueID)
	idx := buildGraph(t, base, check)

	report, err := New(idx, nil, 1).Execute(context.Background(), nodeid.NewSet(check.UniqueID))
	require.NoError(t, err)
	assert.Equal(t, map[string]Status{"check": StatusPass}, statusByName(report))
}

func TestExecute_ParentsRunFirst(t *testing.T) {
	a := model("a", node.OutcomePass)
	b := model("b", node.OutcomePass, a.UniqueID)
	c := model("c", node.OutcomePass, a.UniqueID)
	d := model("d", node.OutcomePass, b.UniqueID, c.UniqueID)
	idx := buildGraph(t, a, b, c, d)

	var mu sync.Mutex
	finished := map[nodeid.ID]time.Time{}
	started := map[nodeid.ID]time.Time{}

	handlers := NewHandlers()
	handlers.Register(node.Model, HandlerFunc(func(ctx context.Context, n *node.Node) (Status, error) {
		mu.Lock()
		started[n.UniqueID] = time.Now()
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		finished[n.UniqueID] = time.Now()
		mu.Unlock()
		return StatusSuccess, nil
	}))

	_, err := New(idx, handlers, 4).Execute(context.Background(), idx.All())
	require.NoError(t, err)

	for _, n := range []*node.Node{b, c, d} {
		for _, parent := range n.DependsOn {
			assert.False(t, started[n.UniqueID].Before(finished[parent]),
				"%s started before %s finished", n.Name, parent)
		}
	}
}

func TestExecute_WorkerLimit(t *testing.T) {
	var nodes []*node.Node
	for i := range 12 {
		nodes = append(nodes, model(fmt.Sprintf("m%02d", i), node.OutcomePass))
	}
	idx := buildGraph(t, nodes...)

	var running, peak atomic.Int32
	handlers := NewHandlers()
	handlers.Register(node.Model, HandlerFunc(func(ctx context.Context, n *node.Node) (Status, error) {
		now := running.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return StatusSuccess, nil
	}))

	report, err := New(idx, handlers, 3).Execute(context.Background(), idx.All())
	require.NoError(t, err)
	assert.Len(t, report.Results, 12)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestExecute_HandlerErrors(t *testing.T) {
	m := model("m", node.OutcomePass)
	s := &node.Node{
		UniqueID:     nodeid.New("seed", "pkg", "s"),
		ResourceType: node.Seed,
		Package:      "pkg",
		Name:         "s",
	}
	idx := buildGraph(t, m, s)

	handlers := NewHandlers()
	handlers.Register(node.Model, HandlerFunc(func(ctx context.Context, n *node.Node) (Status, error) {
		return StatusSuccess, errors.New("boom")
	}))

	report, err := New(idx, handlers, 1).Execute(context.Background(), idx.All())
	require.NoError(t, err)

	res, ok := report.Result(m.UniqueID)
	require.True(t, ok)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "boom", res.Message)

	res, ok = report.Result(s.UniqueID)
	require.True(t, ok)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "no handler registered for resource type 'seed'")
}

func TestExecute_Cancelled(t *testing.T) {
	idx := testutil.ScenarioGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New(idx, nil, 2).Execute(ctx, idx.All())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, idx.Len(), report.Counts()[StatusSkipped])
}

func TestExecute_CancelledMidRun(t *testing.T) {
	first := model("first", node.OutcomePass)
	second := model("second", node.OutcomePass, first.UniqueID)
	idx := buildGraph(t, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handlers := NewHandlers()
	handlers.Register(node.Model, HandlerFunc(func(ctx context.Context, n *node.Node) (Status, error) {
		cancel()
		return StatusSuccess, nil
	}))

	report, err := New(idx, handlers, 1).Execute(ctx, idx.All())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, map[string]Status{
		"first":  StatusSuccess,
		"second": StatusSkipped,
	}, statusByName(report))
}

func TestExecute_UnknownNode(t *testing.T) {
	idx := buildGraph(t, model("m", node.OutcomePass))

	_, err := New(idx, nil, 1).Execute(context.Background(), nodeid.NewSet(nodeid.New("model", "pkg", "ghost")))
	require.Error(t, err)
	var unknown *graph.UnknownNodeError
	assert.ErrorAs(t, err, &unknown)
}

func TestFilters(t *testing.T) {
	idx := testutil.ScenarioGraph(t)

	tests := Tests(idx, idx.All())
	assert.Equal(t, testutil.AllScenarioTests, testutil.TestNames(idx, tests))

	rest := NonTests(idx, idx.All())
	assert.Equal(t, []nodeid.ID{testutil.ModelA, testutil.ModelB, testutil.Src}, rest.Sorted())
}
