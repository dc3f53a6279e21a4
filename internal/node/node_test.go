package node

import (
	"testing"

	"github.com/specialistvlad/dagselect/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceType(t *testing.T) {
	rt, err := ParseResourceType("snapshot")
	require.NoError(t, err)
	assert.Equal(t, Snapshot, rt)

	_, err = ParseResourceType("exposure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exposure")
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("")
	require.NoError(t, err)
	assert.Equal(t, OutcomePass, o)

	o, err = ParseOutcome("warn")
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarn, o)

	_, err = ParseOutcome("skipped")
	require.Error(t, err)
}

func TestNode_TestKinds(t *testing.T) {
	model := &Node{ResourceType: Model}
	singular := &Node{ResourceType: Test}
	generic := &Node{ResourceType: Test, TestMetadata: &TestMetadata{Name: "unique"}}

	assert.False(t, model.IsTest())
	assert.False(t, model.IsSingularTest())
	assert.True(t, singular.IsSingularTest())
	assert.False(t, singular.IsGenericTest())
	assert.True(t, generic.IsGenericTest())
	assert.False(t, generic.IsSingularTest())
}

func TestNode_TestedNodes(t *testing.T) {
	a := nodeid.ID("model.shop.a")
	b := nodeid.ID("model.shop.b")

	t.Run("generic test uses tested refs", func(t *testing.T) {
		n := &Node{
			ResourceType: Test,
			TestMetadata: &TestMetadata{Name: "relationships"},
			DependsOn:    []nodeid.ID{a, b, "macro.shop.helper"},
			TestedRefs:   []TestedRef{{Node: a, Column: "id"}, {Node: a, Column: "other"}, {Node: b}},
		}
		assert.Equal(t, []nodeid.ID{a, b}, n.TestedNodes())
	})

	t.Run("singular test uses depends_on", func(t *testing.T) {
		n := &Node{ResourceType: Test, DependsOn: []nodeid.ID{a, b}}
		assert.Equal(t, []nodeid.ID{a, b}, n.TestedNodes())
	})

	t.Run("non-test has none", func(t *testing.T) {
		n := &Node{ResourceType: Model, DependsOn: []nodeid.ID{a}}
		assert.Nil(t, n.TestedNodes())
	})
}
