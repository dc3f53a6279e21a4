// Package graph provides the immutable Graph Index over project nodes.
//
// # Why Graph Package Exists
//
// Every selection request needs the same structural questions answered:
// who are the parents and children of a node, and which nodes lie within n
// hops upstream or downstream of it. The Index answers them from adjacency
// lists computed once at build time, so repeated queries cost only the walk
// itself.
//
// # Lifecycle
//
//  1. **Population:** the project loader adds finished nodes to a Builder.
//  2. **Build:** Build derives parent/child edges from each node's
//     depends_on, rejecting dangling references and cycles.
//  3. **Querying:** the selection evaluator and the executor read the Index.
//  4. **Disposal:** the Index is discarded when the invocation ends.
//
// # Thread-Safety
//
// The Index is never mutated after Build and may be shared by any number of
// concurrent readers without locking. The Builder is not safe for
// concurrent use.
//
// # Depth
//
// Ancestors, Descendants, SelectParents, and SelectChildren accept a depth.
// Unbounded walks transitively to the roots or leaves; a non-negative depth
// n walks at most n hops.
package graph
