// Package selection parses node selection strings into expression trees and
// evaluates them against a graph index.
//
// A selection string is a whitespace-separated union of groups. Each group
// is a comma-separated intersection of criteria, and each criterion has the
// form
//
//	[@][N+][method[.arg...]:]value[+N]
//
// where a bare value implies the fqn method. Evaluation also decides which
// tests attached to the selected nodes are pulled in, according to the
// indirect selection policy.
package selection
