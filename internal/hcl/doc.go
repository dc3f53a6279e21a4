// Package hcl implements config.Loader for HCL project manifests.
//
// A manifest declares one project block and any number of node blocks:
//
//	project "shop" {}
//
//	model "model_a" {
//	  path       = "models/model_a.sql"
//	  tags       = ["a_or_b"]
//	  depends_on = ["source.my_src.my_tbl"]
//	  config     = { materialized = "table" }
//	  column "fun" { tags = ["column_level_tag"] }
//	}
//
//	source "my_src" "my_tbl" {
//	  column "fun" {}
//	}
//
//	test "unique_model_a_fun" {
//	  generic = "unique"
//	  tested {
//	    ref    = "model.model_a"
//	    column = "fun"
//	  }
//	}
//
// References may omit the package; they are qualified with the project name.
package hcl
