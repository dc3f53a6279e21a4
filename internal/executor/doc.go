// Package executor runs a selected node set in dependency order with a
// bounded worker pool.
//
// Nodes are dispatched in waves: a node starts only after every selected
// parent has finished. A node whose selected parent failed is skipped.
// What "running" a node means is decided by the Handler registered for
// its resource type.
package executor
