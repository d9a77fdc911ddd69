package route

import "container/heap"

// Dijkstra over the segment graph. Weights are non-negative by
// construction (lengths and scaled distances). The priority queue uses
// lazy deletion: a node may be pushed more than once and stale entries are
// skipped on pop, so no decrease-key is needed. Ties are broken by queue
// insertion order, which callers must treat as unspecified.

// ShortestPathEdges returns the ordered edge ids of the cheapest path from
// start to goal. A start equal to goal yields an empty, non-nil path. The
// second return is false when either endpoint is missing from the graph or
// no path exists.
func (g *Graph) ShortestPathEdges(start, goal string) ([]string, bool) {
	if !g.HasNode(start) || !g.HasNode(goal) {
		return nil, false
	}
	if start == goal {
		return []string{}, true
	}

	type hop struct {
		prevNode string
		edgeID   string
	}

	dist := map[string]float64{start: 0}
	prev := map[string]hop{}
	visited := map[string]bool{}

	pq := &nodeQueue{{node: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(nodeItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true
		if item.node == goal {
			break
		}
		for _, arc := range g.adj[item.node] {
			nd := item.dist + arc.Weight
			if cur, ok := dist[arc.To]; !ok || nd < cur {
				dist[arc.To] = nd
				prev[arc.To] = hop{prevNode: item.node, edgeID: arc.EdgeID}
				heap.Push(pq, nodeItem{node: arc.To, dist: nd})
			}
		}
	}

	if _, ok := prev[goal]; !ok {
		return nil, false
	}

	var path []string
	for cur := goal; cur != start; {
		h := prev[cur]
		path = append(path, h.edgeID)
		cur = h.prevNode
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// PathWeight sums the weights along a previously computed edge path from
// start. Used by tests and diagnostics; returns 0 for an empty path.
func (g *Graph) PathWeight(start string, edgeIDs []string) float64 {
	total := 0.0
	cur := start
	for _, eid := range edgeIDs {
		for _, arc := range g.adj[cur] {
			if arc.EdgeID == eid {
				total += arc.Weight
				cur = arc.To
				break
			}
		}
	}
	return total
}

// nodeItem is one priority queue entry.
type nodeItem struct {
	node string
	dist float64
}

// nodeQueue is a min-heap of nodeItems ordered by distance.
type nodeQueue []nodeItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
