package testutil

import (
	"testing"

	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
	"github.com/stretchr/testify/require"
)

// ScenarioPackage is the package name of the shop fixture project.
const ScenarioPackage = "shop"

// Short names of the shop fixture tests.
const (
	TestCfAB          = "cf_a_b"
	TestCfASrc        = "cf_a_src"
	TestJustA         = "just_a"
	TestUniqueA       = "unique_model_a_fun"
	TestRelToB        = "relationships_model_a_fun__fun__ref_model_b_"
	TestRelToSrc      = "relationships_model_a_fun__fun__source_my_src_my_tbl_"
	TestSourceUnique  = "source_unique_my_src_my_tbl_fun"
	ColumnLevelTag    = "column_level_tag"
	TestLevelTag      = "test_level_tag"
	DataTestTag       = "data_test_tag"
	ModelTagAOrB      = "a_or_b"
	scenarioSourceTbl = "my_tbl"
)

// Identifiers of the shop fixture nodes.
var (
	ModelA = nodeid.New("model", ScenarioPackage, "model_a")
	ModelB = nodeid.New("model", ScenarioPackage, "model_b")
	Src    = nodeid.New("source", ScenarioPackage, "my_src", scenarioSourceTbl)
)

// AllScenarioTests lists the short names of every fixture test.
var AllScenarioTests = []string{
	TestCfAB, TestCfASrc, TestJustA, TestRelToB, TestRelToSrc, TestSourceUnique, TestUniqueA,
}

// TestID returns the identifier of the fixture test with the given short name.
func TestID(name string) nodeid.ID {
	return nodeid.New("test", ScenarioPackage, name)
}

// ScenarioNodes builds the shop fixture: two models, one source, three
// singular tests, and four generic tests. model_a's `fun` column carries
// column_level_tag, so every generic test on it inherits that tag.
func ScenarioNodes() []*node.Node {
	colTags := []string{ColumnLevelTag}

	singular := func(name, path string, tags []string, deps ...nodeid.ID) *node.Node {
		return &node.Node{
			UniqueID:     TestID(name),
			ResourceType: node.Test,
			Package:      ScenarioPackage,
			Name:         name,
			FQN:          []string{ScenarioPackage, name},
			Path:         path,
			Tags:         tags,
			DependsOn:    deps,
			Expect:       node.OutcomePass,
		}
	}
	generic := func(name, testName string, tags []string, refs ...node.TestedRef) *node.Node {
		n := &node.Node{
			UniqueID:     TestID(name),
			ResourceType: node.Test,
			Package:      ScenarioPackage,
			Name:         name,
			FQN:          []string{ScenarioPackage, name},
			Path:         "models/schema.hcl",
			Tags:         tags,
			TestMetadata: &node.TestMetadata{Name: testName},
			TestedRefs:   refs,
			Expect:       node.OutcomePass,
		}
		for _, r := range refs {
			n.DependsOn = append(n.DependsOn, r.Node)
		}
		return n
	}

	return []*node.Node{
		{
			UniqueID:     Src,
			ResourceType: node.Source,
			Package:      ScenarioPackage,
			Name:         scenarioSourceTbl,
			FQN:          []string{ScenarioPackage, "my_src", scenarioSourceTbl},
			Path:         "models/schema.hcl",
			SourceName:   "my_src",
			TableName:    scenarioSourceTbl,
			Columns:      map[string]*node.Column{"fun": {Name: "fun"}},
		},
		{
			UniqueID:     ModelA,
			ResourceType: node.Model,
			Package:      ScenarioPackage,
			Name:         "model_a",
			FQN:          []string{ScenarioPackage, "model_a"},
			Path:         "models/model_a.sql",
			Tags:         []string{ModelTagAOrB},
			DependsOn:    []nodeid.ID{Src},
			Columns:      map[string]*node.Column{"fun": {Name: "fun", Tags: colTags}},
			Config:       map[string]any{"materialized": "table"},
			Expect:       node.OutcomePass,
		},
		{
			UniqueID:     ModelB,
			ResourceType: node.Model,
			Package:      ScenarioPackage,
			Name:         "model_b",
			FQN:          []string{ScenarioPackage, "model_b"},
			Path:         "models/model_b.sql",
			Tags:         []string{ModelTagAOrB},
			Config:       map[string]any{"materialized": "view"},
			Expect:       node.OutcomePass,
		},
		singular(TestCfAB, "tests/cf_a_b.sql", nil, ModelA, ModelB),
		singular(TestCfASrc, "tests/cf_a_src.sql", nil, ModelA, Src),
		singular(TestJustA, "tests/just_a.sql", []string{DataTestTag}, ModelA),
		generic(TestUniqueA, "unique", nil,
			node.TestedRef{Node: ModelA, Column: "fun", ColumnTags: colTags}),
		generic(TestRelToB, "relationships", []string{TestLevelTag},
			node.TestedRef{Node: ModelA, Column: "fun", ColumnTags: colTags},
			node.TestedRef{Node: ModelB}),
		generic(TestRelToSrc, "relationships", nil,
			node.TestedRef{Node: ModelA, Column: "fun", ColumnTags: colTags},
			node.TestedRef{Node: Src}),
		generic(TestSourceUnique, "unique", nil,
			node.TestedRef{Node: Src, Column: "fun"}),
	}
}

// ScenarioGraph builds the graph index of the shop fixture.
func ScenarioGraph(t *testing.T) *graph.Index {
	t.Helper()
	idx, err := graph.NewBuilder().AddNodes(ScenarioNodes()...).Build()
	require.NoError(t, err)
	return idx
}

// TestNames returns the sorted short names of the tests in ids.
func TestNames(idx *graph.Index, ids nodeid.Set) []string {
	names := []string{}
	for _, id := range ids.Sorted() {
		if n, ok := idx.Node(id); ok && n.IsTest() {
			names = append(names, n.Name)
		}
	}
	return names
}
