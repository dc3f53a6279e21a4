package testutil

// ScenarioSelectorsYAML defines three selectors over the shop fixture that
// differ only in their indirect selection policy.
const ScenarioSelectorsYAML = `selectors:
  - name: model_a_unset_eagerly_expand
    definition:
      method: fqn
      value: model_a
  - name: model_a_no_eagerly_expand
    definition:
      method: fqn
      value: model_a
      eagerly_expand: "cautious"
  - name: model_a_yes_eagerly_expand
    definition:
      method: fqn
      value: model_a
      eagerly_expand: "eager"
`

// ScenarioHCL is the shop fixture as HCL manifest files keyed by their
// path relative to the project root. Loading it yields ScenarioNodes.
var ScenarioHCL = map[string]string{
	"dagselect.hcl": `project "shop" {}`,

	"models/models.hcl": `
model "model_a" {
  path       = "models/model_a.sql"
  tags       = ["a_or_b"]
  depends_on = ["source.my_src.my_tbl"]
  config     = { materialized = "table" }

  column "fun" {
    tags = ["column_level_tag"]
  }
}

model "model_b" {
  path   = "models/model_b.sql"
  tags   = ["a_or_b"]
  config = { materialized = "view" }
}
`,

	"models/schema.hcl": `
source "my_src" "my_tbl" {
  column "fun" {}
}

test "unique_model_a_fun" {
  generic = "unique"
  tested {
    ref    = "model.model_a"
    column = "fun"
  }
}

test "relationships_model_a_fun__fun__ref_model_b_" {
  generic = "relationships"
  tags    = ["test_level_tag"]
  tested {
    ref    = "model.model_a"
    column = "fun"
  }
  tested {
    ref = "model.model_b"
  }
}

test "relationships_model_a_fun__fun__source_my_src_my_tbl_" {
  generic = "relationships"
  tested {
    ref    = "model.model_a"
    column = "fun"
  }
  tested {
    ref = "source.my_src.my_tbl"
  }
}

test "source_unique_my_src_my_tbl_fun" {
  generic = "unique"
  tested {
    ref    = "source.my_src.my_tbl"
    column = "fun"
  }
}
`,

	"tests/tests.hcl": `
test "cf_a_b" {
  path       = "tests/cf_a_b.sql"
  depends_on = ["model.model_a", "model.model_b"]
}

test "cf_a_src" {
  path       = "tests/cf_a_src.sql"
  depends_on = ["model.model_a", "source.my_src.my_tbl"]
}

test "just_a" {
  path       = "tests/just_a.sql"
  tags       = ["data_test_tag"]
  depends_on = ["model.model_a"]
}
`,
}
