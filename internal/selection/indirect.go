package selection

import (
	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// expander attaches tests to a selection according to a single policy.
type expander struct {
	graph  *graph.Index
	policy IndirectSelection
}

// attach finds the tests that are direct children of collected but not
// members of it. Under eager, a test that validates any collected node is
// promoted into direct; the remaining tests are returned as candidates.
// Under empty, no tests are attached.
func (x *expander) attach(collected nodeid.Set) (promoted, candidates nodeid.Set) {
	promoted, candidates = nodeid.Set{}, nodeid.Set{}
	if x.policy == Empty {
		return promoted, candidates
	}

	for id := range x.graph.DirectChildren(collected) {
		if collected.Has(id) {
			continue
		}
		n, _ := x.graph.Node(id)
		if !n.IsTest() {
			continue
		}
		if x.policy == Eager && collected.ContainsAny(n.TestedNodes()) {
			promoted.Add(id)
			continue
		}
		candidates.Add(id)
	}
	return promoted, candidates
}

// incorporate returns the candidate tests whose tested nodes all lie in
// anchor. It is a single pass: tests added here are not considered when
// checking other candidates. Only the cautious policy incorporates.
func (x *expander) incorporate(anchor, candidates nodeid.Set) nodeid.Set {
	added := nodeid.Set{}
	if x.policy != Cautious {
		return added
	}

	for id := range candidates {
		n, ok := x.graph.Node(id)
		if !ok || !n.IsTest() {
			continue
		}
		if anchor.ContainsAll(n.TestedNodes()) {
			added.Add(id)
		}
	}
	return added
}
