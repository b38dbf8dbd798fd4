package dag

import "sync"

// Graph is a collection of nodes and their ordering edges.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node.
	id string
	// order is the tie-break rank; lower runs first.
	order int
	// deps holds the set of nodes that must run before this node (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that must run after this node (successors).
	dependents map[string]*node
}
