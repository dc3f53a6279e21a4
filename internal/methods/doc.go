// Package methods implements the selector method registry: named,
// single-purpose predicates that decide whether one node matches one
// criterion value.
//
// Methods are pure functions of the node and the value. They never consult
// graph adjacency; graph operators are applied by the selection evaluator.
package methods
