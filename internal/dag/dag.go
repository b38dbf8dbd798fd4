package dag

import (
	"fmt"
	"sort"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a node ranked by order. Adding an existing ID is an error.
func (g *Graph) AddNode(id string, order int) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("node already exists: %s", id)
	}

	g.nodes[id] = &node{
		id:         id,
		order:      order,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	return nil
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node,
// meaning `fromID` must come before `toID`. Repeated edges collapse into one.
// A self-referential edge is accepted and reported by TopologicalSort as a
// cycle of length one.
func (g *Graph) AddEdge(fromID, toID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Dependencies returns the IDs the given node must follow, lowest order first.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return byOrder(n.deps), nil
}

// Dependents returns the IDs that must follow the given node, lowest order
// first.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return byOrder(n.dependents), nil
}

func byOrder(set map[string]*node) []string {
	nodes := make([]*node, 0, len(set))
	for _, n := range set {
		nodes = append(nodes, n)
	}
	sortNodes(nodes)

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.id
	}
	return ids
}

// sortNodes orders by rank, falling back to ID so equal ranks stay stable.
func sortNodes(nodes []*node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].order != nodes[j].order {
			return nodes[i].order < nodes[j].order
		}
		return nodes[i].id < nodes[j].id
	})
}
