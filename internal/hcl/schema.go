package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Unknown blocks and attributes are decode errors.
type fileRoot struct {
	Projects  []*Project  `hcl:"project,block"`
	Models    []*Resource `hcl:"model,block"`
	Seeds     []*Resource `hcl:"seed,block"`
	Snapshots []*Resource `hcl:"snapshot,block"`
	Analyses  []*Resource `hcl:"analysis,block"`
	Sources   []*Source   `hcl:"source,block"`
	Tests     []*Test     `hcl:"test,block"`
}

// Project names the package that owns every node without an explicit package.
type Project struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

// Column documents one column of a resource.
type Column struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Tags        []string `hcl:"tags,optional"`
}

// Resource is a `model`, `seed`, `snapshot`, or `analysis` block.
type Resource struct {
	Name      string         `hcl:"name,label"`
	Package   string         `hcl:"package,optional"`
	Path      string         `hcl:"path,optional"`
	FQN       []string       `hcl:"fqn,optional"`
	Tags      []string       `hcl:"tags,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Config    hcl.Expression `hcl:"config,optional"`
	Expect    string         `hcl:"expect,optional"`
	Columns   []*Column      `hcl:"column,block"`
}

// Source is a `source "<source_name>" "<table_name>"` block.
type Source struct {
	SourceName string         `hcl:"source_name,label"`
	TableName  string         `hcl:"table_name,label"`
	Package    string         `hcl:"package,optional"`
	Path       string         `hcl:"path,optional"`
	FQN        []string       `hcl:"fqn,optional"`
	Tags       []string       `hcl:"tags,optional"`
	Config     hcl.Expression `hcl:"config,optional"`
	Columns    []*Column      `hcl:"column,block"`
}

// TestedRef is a `tested` block naming a node, and optionally one of its
// columns, that a test validates.
type TestedRef struct {
	Ref    string `hcl:"ref"`
	Column string `hcl:"column,optional"`
}

// Test is a `test` block. A test with a `generic` attribute is a generic
// test; any other test is singular.
type Test struct {
	Name      string         `hcl:"name,label"`
	Package   string         `hcl:"package,optional"`
	Path      string         `hcl:"path,optional"`
	FQN       []string       `hcl:"fqn,optional"`
	Tags      []string       `hcl:"tags,optional"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Config    hcl.Expression `hcl:"config,optional"`
	Expect    string         `hcl:"expect,optional"`
	Generic   string         `hcl:"generic,optional"`
	Namespace string         `hcl:"namespace,optional"`
	Kwargs    hcl.Expression `hcl:"kwargs,optional"`
	Tested    []*TestedRef   `hcl:"tested,block"`
}
