// Package node defines the immutable description of a single project node
// (model, test, source, seed, snapshot, analysis) as handed to the
// selection engine by the project loader.
package node

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/dagselect/internal/nodeid"
)

// ResourceType is the category of a node.
type ResourceType string

const (
	Model    ResourceType = "model"
	Test     ResourceType = "test"
	Source   ResourceType = "source"
	Seed     ResourceType = "seed"
	Snapshot ResourceType = "snapshot"
	Analysis ResourceType = "analysis"
)

// ResourceTypes lists every known resource type in display order.
var ResourceTypes = []ResourceType{Model, Test, Source, Seed, Snapshot, Analysis}

// ParseResourceType validates a resource type name.
func ParseResourceType(s string) (ResourceType, error) {
	rt := ResourceType(s)
	if !slices.Contains(ResourceTypes, rt) {
		return "", fmt.Errorf("unknown resource type %q", s)
	}
	return rt, nil
}

// Outcome is the result a node is declared to produce when executed.
type Outcome string

const (
	OutcomePass  Outcome = "pass"
	OutcomeWarn  Outcome = "warn"
	OutcomeFail  Outcome = "fail"
	OutcomeError Outcome = "error"
)

// ParseOutcome validates an outcome name. The empty string means pass.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case "":
		return OutcomePass, nil
	case OutcomePass, OutcomeWarn, OutcomeFail, OutcomeError:
		return o, nil
	default:
		return "", fmt.Errorf("unknown outcome %q", s)
	}
}

// Column is a documented column of a model, seed, snapshot, or source.
type Column struct {
	Name string
	Tags []string
}

// TestMetadata is present only on generic tests.
type TestMetadata struct {
	// Name is the underlying generic test, e.g. "unique" or "relationships".
	Name string
	// Namespace is the package that defines the generic test, if not built in.
	Namespace string
	// Kwargs are the arguments the test was configured with.
	Kwargs map[string]any
}

// TestedRef is one node (and optionally one of its columns) validated by a test.
type TestedRef struct {
	Node   nodeid.ID
	Column string
	// ColumnTags are the tags of Column on Node, resolved by the loader.
	ColumnTags []string
}

// Node is a single vertex of the project graph.
type Node struct {
	UniqueID     nodeid.ID
	ResourceType ResourceType
	Package      string
	Name         string
	// FQN is the ordered path used for hierarchical matching:
	// package, directory levels, name.
	FQN []string
	// Path is the file path relative to the project root.
	Path      string
	Tags      []string
	DependsOn []nodeid.ID
	Columns   map[string]*Column
	Config    map[string]any

	// SourceName and TableName are set on sources only.
	SourceName string
	TableName  string

	// TestMetadata is nil for singular tests and non-test nodes.
	TestMetadata *TestMetadata
	TestedRefs   []TestedRef

	// Expect is the declared execution outcome.
	Expect Outcome
}

// IsTest reports whether the node is a test.
func (n *Node) IsTest() bool {
	return n.ResourceType == Test
}

// IsGenericTest reports whether the node is a test carrying test metadata.
func (n *Node) IsGenericTest() bool {
	return n.IsTest() && n.TestMetadata != nil
}

// IsSingularTest reports whether the node is a test without test metadata.
func (n *Node) IsSingularTest() bool {
	return n.IsTest() && n.TestMetadata == nil
}

// HasTag reports whether tag is attached to the node itself.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// TestedNodes returns the distinct node identifiers a test validates. For
// generic tests these are the tested references; for singular tests, or a
// generic test without recorded references, they are its dependencies.
func (n *Node) TestedNodes() []nodeid.ID {
	if !n.IsTest() {
		return nil
	}
	if n.TestMetadata == nil || len(n.TestedRefs) == 0 {
		return n.DependsOn
	}

	seen := nodeid.Set{}
	ids := make([]nodeid.ID, 0, len(n.TestedRefs))
	for _, ref := range n.TestedRefs {
		if seen.Has(ref.Node) {
			continue
		}
		seen.Add(ref.Node)
		ids = append(ids, ref.Node)
	}
	return ids
}

// String returns the node's unique identifier.
func (n *Node) String() string {
	return n.UniqueID.String()
}
