package selection

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/methods"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
	tu "github.com/specialistvlad/dagselect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioSelections = []string{
	"",
	"model_a",
	"model_a model_b",
	"model_a source:*",
	"+model_a",
	"model_a+",
	"@model_b",
	"tag:a_or_b",
	"tag:column_level_tag",
	"model_a,test_type:singular",
	"source:my_src",
	"test_type:generic",
}

var policies = []IndirectSelection{Eager, Cautious, Empty}

func TestProperty_Determinism(t *testing.T) {
	ev, _ := scenario(t)

	for _, sel := range scenarioSelections {
		for _, policy := range policies {
			first := evaluate(t, ev, sel, "", policy)
			second := evaluate(t, ev, sel, "", policy)
			assert.Equal(t, first.IDs(), second.IDs(), "select=%q policy=%s", sel, policy)
		}
	}
}

func TestProperty_UnionCommutativeAndAssociative(t *testing.T) {
	ev, _ := scenario(t)

	for _, policy := range policies {
		ab := evaluate(t, ev, "model_a model_b", "", policy)
		ba := evaluate(t, ev, "model_b model_a", "", policy)
		assert.Equal(t, ab.IDs(), ba.IDs(), "policy=%s", policy)

		leaf := func(s string) Expression {
			expr, err := Parse(s)
			require.NoError(t, err)
			return expr
		}
		a, b, c := leaf("model_a"), leaf("model_b"), leaf("source:*")
		left := &Union{Components: []Expression{&Union{Components: []Expression{a, b}}, c}}
		right := &Union{Components: []Expression{a, &Union{Components: []Expression{b, c}}}}

		l, err := ev.Evaluate(context.Background(), &Request{Select: left, IndirectSelection: policy})
		require.NoError(t, err)
		r, err := ev.Evaluate(context.Background(), &Request{Select: right, IndirectSelection: policy})
		require.NoError(t, err)
		assert.Equal(t, l.IDs(), r.IDs(), "policy=%s", policy)
	}
}

func TestProperty_IntersectionCommutative(t *testing.T) {
	ev, _ := scenario(t)

	pairs := [][2]string{
		{"model_a,test_type:singular", "test_type:singular,model_a"},
		{"tag:a_or_b,test_name:relationships", "test_name:relationships,tag:a_or_b"},
		{"+model_a,resource_type:source", "resource_type:source,+model_a"},
	}
	for _, pair := range pairs {
		for _, policy := range policies {
			a := evaluate(t, ev, pair[0], "", policy)
			b := evaluate(t, ev, pair[1], "", policy)
			assert.Equal(t, a.IDs(), b.IDs(), "%q vs %q policy=%s", pair[0], pair[1], policy)
		}
	}
}

func TestProperty_ExcludeEquivalence(t *testing.T) {
	ev, _ := scenario(t)

	pairs := [][2]string{
		{"", "model_b"},
		{"", "tag:column_level_tag"},
		{"model_a", "unique_model_a_fun"},
		{"model_a", "tag:data_test_tag"},
		{"model_a", "test_name:unique"},
		{"model_a model_b", "model_b"},
		{"+model_a", "source:*"},
	}
	for _, pair := range pairs {
		for _, policy := range policies {
			t.Run(fmt.Sprintf("%s - %s (%s)", pair[0], pair[1], policy), func(t *testing.T) {
				combined := evaluate(t, ev, pair[0], pair[1], policy)
				base := evaluate(t, ev, pair[0], "", policy)
				sub := evaluate(t, ev, pair[1], "", policy)
				assert.Equal(t, base.Selected.Difference(sub.Selected).Sorted(), combined.IDs())
			})
		}
	}
}

func TestProperty_PolicyMonotonicity(t *testing.T) {
	ev, _ := scenario(t)

	for _, sel := range scenarioSelections {
		t.Run(sel, func(t *testing.T) {
			eager := evaluate(t, ev, sel, "", Eager)
			unset := evaluate(t, ev, sel, "", "")
			cautious := evaluate(t, ev, sel, "", Cautious)
			empty := evaluate(t, ev, sel, "", Empty)

			assert.Equal(t, eager.IDs(), unset.IDs())
			assert.True(t, eager.Selected.ContainsAll(cautious.IDs()), "cautious %v not within eager %v", cautious.IDs(), eager.IDs())
			assert.True(t, cautious.Selected.ContainsAll(empty.IDs()), "empty %v not within cautious %v", empty.IDs(), cautious.IDs())
		})
	}
}

// chainGraph has a generic test t2 that validates both model m and another
// generic test t1 on m.
func chainGraph(t *testing.T) *graph.Index {
	t.Helper()
	m := nodeid.New("model", "p", "m")
	t1 := nodeid.New("test", "p", "t1")
	t2 := nodeid.New("test", "p", "t2")

	idx, err := graph.NewBuilder().AddNodes(
		&node.Node{UniqueID: m, ResourceType: node.Model, Package: "p", Name: "m", FQN: []string{"p", "m"}},
		&node.Node{
			UniqueID: t1, ResourceType: node.Test, Package: "p", Name: "t1", FQN: []string{"p", "t1"},
			DependsOn:    []nodeid.ID{m},
			TestMetadata: &node.TestMetadata{Name: "not_null"},
			TestedRefs:   []node.TestedRef{{Node: m, Column: "id"}},
		},
		&node.Node{
			UniqueID: t2, ResourceType: node.Test, Package: "p", Name: "t2", FQN: []string{"p", "t2"},
			DependsOn:    []nodeid.ID{m, t1},
			TestMetadata: &node.TestMetadata{Name: "custom"},
			TestedRefs:   []node.TestedRef{{Node: m}, {Node: t1}},
		},
	).Build()
	require.NoError(t, err)
	return idx
}

func TestCautious_SinglePassDoesNotChain(t *testing.T) {
	idx := chainGraph(t)
	ev := NewEvaluator(idx, methods.Default())

	testCases := []struct {
		sel    string
		policy IndirectSelection
		want   []string
	}{
		{sel: "m", policy: Cautious, want: []string{"t1"}},
		{sel: "m", policy: Eager, want: []string{"t1", "t2"}},
		{sel: "m t1", policy: Cautious, want: []string{"t1", "t2"}},
		{sel: "m", policy: Empty, want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.sel, tc.policy), func(t *testing.T) {
			res := evaluate(t, ev, tc.sel, "", tc.policy)
			assert.Equal(t, tc.want, tu.TestNames(idx, res.Selected))
		})
	}
}

func TestEvaluate_ConcurrentRequests(t *testing.T) {
	ev, _ := scenario(t)

	type job struct {
		sel    string
		policy IndirectSelection
	}
	var jobs []job
	want := map[job][]nodeid.ID{}
	for _, sel := range scenarioSelections {
		for _, policy := range policies {
			j := job{sel: sel, policy: policy}
			jobs = append(jobs, j)
			want[j] = evaluate(t, ev, sel, "", policy).IDs()
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(jobs)*4)
	for range 4 {
		for _, j := range jobs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req, err := NewRequest([]string{j.sel}, nil, j.policy)
				if err != nil {
					errs <- err
					return
				}
				res, err := ev.Evaluate(context.Background(), req)
				if err != nil {
					errs <- err
					return
				}
				if got := res.IDs(); !assert.ObjectsAreEqual(want[j], got) {
					errs <- fmt.Errorf("select=%q policy=%s: got %v, want %v", j.sel, j.policy, got, want[j])
				}
			}()
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
