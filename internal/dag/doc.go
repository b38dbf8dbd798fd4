// Package dag orders the passes of a single phase.
//
// A Graph holds one node per pass, each carrying its declaration index, and
// one edge per surviving constraint. TopologicalSort runs Kahn's algorithm with
// a ready set ordered by declaration index, so whenever several nodes are
// available the earliest-declared one is emitted first. The same input always
// yields the same order, whatever order plugins were discovered in.
//
// When nodes remain after the sort, TopologicalSort returns a *CycleError with
// every unresolved node and one concrete cycle among them.
package dag
