package dag

import (
	"container/heap"
	"fmt"
	"strings"
)

// CycleError is returned by TopologicalSort when the graph is not acyclic.
type CycleError struct {
	// Remaining holds every node the sort could not place, lowest order first.
	// It is a superset of all cycles in the graph.
	Remaining []string
	// Cycle is one concrete cycle: each element must precede the next, and the
	// last must precede the first. It starts at its lowest-order node.
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("cycle detected among: %s", strings.Join(e.Remaining, ", "))
	}
	path := make([]string, 0, len(e.Cycle)+1)
	path = append(path, e.Cycle...)
	path = append(path, e.Cycle[0])
	return fmt.Sprintf("cycle detected: %s", strings.Join(path, " -> "))
}

// TopologicalSort returns every node ID in an order that satisfies all edges.
// Among the nodes available at any step, the one with the lowest order is
// taken first.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[string]int, len(g.nodes))
	ready := &readyQueue{}
	for id, n := range g.nodes {
		inDegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready.nodes = append(ready.nodes, n)
		}
	}
	heap.Init(ready)

	order := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(*node)
		order = append(order, n.id)
		for id, dependent := range n.dependents {
			inDegree[id]--
			if inDegree[id] == 0 {
				heap.Push(ready, dependent)
			}
		}
	}

	if len(order) == len(g.nodes) {
		return order, nil
	}

	remaining := make([]*node, 0, len(g.nodes)-len(order))
	for id, n := range g.nodes {
		if inDegree[id] > 0 {
			remaining = append(remaining, n)
		}
	}
	sortNodes(remaining)

	err := &CycleError{
		Remaining: make([]string, len(remaining)),
		Cycle:     findCycle(remaining, inDegree),
	}
	for i, n := range remaining {
		err.Remaining[i] = n.id
	}
	return nil, err
}

// findCycle walks predecessors starting at the lowest-order unresolved node.
// Every unresolved node has an unresolved predecessor, so the walk must come
// back to a node it has already visited.
func findCycle(remaining []*node, inDegree map[string]int) []string {
	visitedAt := make(map[string]int)
	var path []*node

	current := remaining[0]
	for {
		if at, ok := visitedAt[current.id]; ok {
			path = path[at:]
			break
		}
		visitedAt[current.id] = len(path)
		path = append(path, current)

		var next *node
		for id, dep := range current.deps {
			if inDegree[id] == 0 {
				continue
			}
			if next == nil || dep.order < next.order || (dep.order == next.order && dep.id < next.id) {
				next = dep
			}
		}
		current = next
	}

	// path runs against the edges; flip it and start at the lowest order.
	cycle := make([]*node, len(path))
	start := 0
	for i, n := range path {
		cycle[len(path)-1-i] = n
	}
	for i, n := range cycle {
		if n.order < cycle[start].order {
			start = i
		}
	}

	ids := make([]string, 0, len(cycle))
	for i := range cycle {
		ids = append(ids, cycle[(start+i)%len(cycle)].id)
	}
	return ids
}

// readyQueue is a min-heap of nodes keyed by order.
type readyQueue struct {
	nodes []*node
}

func (q *readyQueue) Len() int { return len(q.nodes) }

func (q *readyQueue) Less(i, j int) bool {
	if q.nodes[i].order != q.nodes[j].order {
		return q.nodes[i].order < q.nodes[j].order
	}
	return q.nodes[i].id < q.nodes[j].id
}

func (q *readyQueue) Swap(i, j int) { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }

func (q *readyQueue) Push(x any) { q.nodes = append(q.nodes, x.(*node)) }

func (q *readyQueue) Pop() any {
	old := q.nodes
	n := old[len(old)-1]
	q.nodes = old[:len(old)-1]
	return n
}
