// Package route builds the weighted segment graph from a canvas, finds
// shortest paths for circuits, and aggregates each circuit's cross-section
// onto the segments of its route.
package route

import (
	"math"

	"github.com/ifuentes/raceway/pkg/plan"
)

// PxToMeters approximates segment length from canvas coordinates when no
// explicit length is declared.
const PxToMeters = 0.05

// Arc is one directed half of an undirected segment.
type Arc struct {
	To     string
	EdgeID string
	Weight float64
}

// Graph is the undirected weighted routing graph.
type Graph struct {
	adj   map[string][]Arc
	nodes map[string]plan.Node
}

// NewGraph builds the routing graph from a canvas. Edges are added in both
// directions; an edge referencing a node that does not exist is excluded
// rather than failing the build.
func NewGraph(canvas *plan.Canvas) *Graph {
	g := &Graph{
		adj:   map[string][]Arc{},
		nodes: make(map[string]plan.Node, len(canvas.Nodes)),
	}
	for _, n := range canvas.Nodes {
		if n.ID != "" {
			g.nodes[n.ID] = n
		}
	}
	for _, e := range canvas.Edges {
		from, okFrom := g.nodes[e.FromNode]
		to, okTo := g.nodes[e.ToNode]
		if !okFrom || !okTo {
			continue
		}
		w := edgeWeight(e, from, to)
		g.adj[e.FromNode] = append(g.adj[e.FromNode], Arc{To: e.ToNode, EdgeID: e.ID, Weight: w})
		g.adj[e.ToNode] = append(g.adj[e.ToNode], Arc{To: e.FromNode, EdgeID: e.ID, Weight: w})
	}
	return g
}

// edgeWeight prefers the declared length and falls back to scaled Euclidean
// distance between the endpoint coordinates.
func edgeWeight(e plan.Edge, from, to plan.Node) float64 {
	if e.LengthM != nil && *e.LengthM >= 0 {
		return *e.LengthM
	}
	return math.Hypot(from.X-to.X, from.Y-to.Y) * PxToMeters
}

// HasNode reports whether the node participates in the graph node set.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Neighbors returns the arcs leaving a node.
func (g *Graph) Neighbors(id string) []Arc {
	return g.adj[id]
}
