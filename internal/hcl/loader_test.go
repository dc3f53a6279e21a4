package hcl

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/dagselect/internal/node"
	"github.com/specialistvlad/dagselect/internal/nodeid"
	tu "github.com/specialistvlad/dagselect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byID(nodes []*node.Node) []*node.Node {
	out := slices.Clone(nodes)
	slices.SortFunc(out, func(a, b *node.Node) int {
		return strings.Compare(string(a.UniqueID), string(b.UniqueID))
	})
	return out
}

func TestLoad_Scenario(t *testing.T) {
	root := tu.WriteFiles(t, tu.ScenarioHCL)

	project, err := NewLoader(root).Load(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, "shop", project.Name)
	assert.Len(t, project.Files, 4)
	if diff := cmp.Diff(byID(tu.ScenarioNodes()), byID(project.Nodes)); diff != "" {
		t.Errorf("loaded nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Translation(t *testing.T) {
	files := map[string]string{
		"project.hcl": `project "shop" {}`,
		"models/staging/stg.hcl": `
model "stg_orders" {
  tags   = ["nightly"]
  config = {
    materialized = "incremental"
    meta         = { owner = "data-eng" }
    grants       = ["reporter"]
    threads      = 4
    enabled      = true
  }
  expect = "fail"
}

seed "countries" {
  path = "./seeds/countries.csv"
}

snapshot "orders_snapshot" {
  depends_on = ["model.stg_orders", "model.stg_orders"]
}

analysis "revenue" {
  depends_on = ["model.dbt_utils.helper"]
  fqn        = ["shop", "analysis", "revenue"]
}

model "helper" {
  package = "dbt_utils"
}

test "accepted_values_stg_orders_status" {
  generic   = "accepted_values"
  namespace = "dbt_expectations"
  kwargs    = { values = ["placed", "shipped"] }
  expect    = "warn"
  tested {
    ref = "model.stg_orders"
  }
}
`,
	}
	root := tu.WriteFiles(t, files)

	project, err := NewLoader(root).Load(context.Background(), root)
	require.NoError(t, err)

	nodes := map[nodeid.ID]*node.Node{}
	for _, n := range project.Nodes {
		nodes[n.UniqueID] = n
	}
	require.Len(t, nodes, 6)

	stg := nodes["model.shop.stg_orders"]
	require.NotNil(t, stg)
	assert.Equal(t, "models/staging/stg.hcl", stg.Path)
	assert.Equal(t, []string{"shop", "staging", "stg_orders"}, stg.FQN)
	assert.Equal(t, node.OutcomeFail, stg.Expect)
	assert.Equal(t, map[string]any{
		"materialized": "incremental",
		"meta":         map[string]any{"owner": "data-eng"},
		"grants":       []any{"reporter"},
		"threads":      float64(4),
		"enabled":      true,
	}, stg.Config)

	seed := nodes["seed.shop.countries"]
	require.NotNil(t, seed)
	assert.Equal(t, "seeds/countries.csv", seed.Path)
	assert.Equal(t, []string{"shop", "countries"}, seed.FQN)

	snap := nodes["snapshot.shop.orders_snapshot"]
	require.NotNil(t, snap)
	assert.Equal(t, []nodeid.ID{"model.shop.stg_orders"}, snap.DependsOn)

	analysis := nodes["analysis.shop.revenue"]
	require.NotNil(t, analysis)
	assert.Equal(t, []nodeid.ID{"model.dbt_utils.helper"}, analysis.DependsOn)
	assert.Equal(t, []string{"shop", "analysis", "revenue"}, analysis.FQN)

	helper := nodes["model.dbt_utils.helper"]
	require.NotNil(t, helper)
	assert.Equal(t, "dbt_utils", helper.Package)
	assert.Equal(t, []string{"dbt_utils", "staging", "helper"}, helper.FQN)

	test := nodes["test.shop.accepted_values_stg_orders_status"]
	require.NotNil(t, test)
	assert.True(t, test.IsGenericTest())
	assert.Equal(t, &node.TestMetadata{
		Name:      "accepted_values",
		Namespace: "dbt_expectations",
		Kwargs:    map[string]any{"values": []any{"placed", "shipped"}},
	}, test.TestMetadata)
	assert.Equal(t, []nodeid.ID{"model.shop.stg_orders"}, test.DependsOn)
	assert.Equal(t, node.OutcomeWarn, test.Expect)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no files",
			files:   map[string]string{"README.md": "nothing"},
			wantErr: "no .hcl manifest files found",
		},
		{
			name:    "syntax error",
			files:   map[string]string{"a.hcl": `project "shop" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"a.hcl": `project "shop" {}` + "\n" + `macro "m" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "missing project",
			files:   map[string]string{"a.hcl": `model "m" {}`},
			wantErr: "no project block found",
		},
		{
			name:    "two projects",
			files:   map[string]string{"a.hcl": `project "a" {}`, "b.hcl": `project "b" {}`},
			wantErr: "expected exactly one project block, found 2",
		},
		{
			name:    "bad dependency reference",
			files:   map[string]string{"a.hcl": `project "shop" {}` + "\n" + `model "m" { depends_on = ["model"] }`},
			wantErr: "a.hcl: model 'm': depends_on:",
		},
		{
			name:    "bad node name",
			files:   map[string]string{"a.hcl": `project "shop" {}` + "\n" + `model "bad.name" {}`},
			wantErr: "model 'bad.name'",
		},
		{
			name:    "config not an object",
			files:   map[string]string{"a.hcl": `project "shop" {}` + "\n" + `model "m" { config = "table" }`},
			wantErr: "invalid 'config': expected an object",
		},
		{
			name:    "unknown outcome",
			files:   map[string]string{"a.hcl": `project "shop" {}` + "\n" + `model "m" { expect = "maybe" }`},
			wantErr: `unknown outcome "maybe"`,
		},
		{
			name:    "tested without generic",
			files:   map[string]string{"a.hcl": `project "shop" {}` + "\n" + `test "t" {` + "\n" + `tested { ref = "model.m" }` + "\n" + `}`},
			wantErr: "'namespace' and 'tested' require 'generic'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := tu.WriteFiles(t, tc.files)
			_, err := NewLoader(root).Load(context.Background(), root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFindAllHCLFiles(t *testing.T) {
	root := tu.WriteFiles(t, map[string]string{
		"b.hcl":       "",
		"a/c.hcl":     "",
		"a/notes.txt": "",
	})
	l := NewLoader(root)

	files, err := l.findAllHCLFiles([]string{
		root,
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "missing"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "c.hcl"), filepath.Join(root, "b.hcl")}, files)
}
