package plan

import (
	"fmt"
	"sort"
)

// Trunks group physically continuous segments so an engineer can size and
// label a whole run at once. Grouping is a flood-fill over the edge graph
// that stops at cut nodes (equipment, chambers, GAP junctions): segments on
// opposite sides of equipment belong to different trunks.

// NextTrunkID returns the first unused TR-NNN identifier.
func NextTrunkID(p *Project) string {
	existing := map[string]bool{}
	for _, t := range p.Trunks {
		existing[t.ID] = true
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("TR-%03d", i)
		if !existing[candidate] {
			return candidate
		}
	}
}

// ConnectedEdgeIDs flood-fills from startEdgeID across shared nodes,
// stopping at cut nodes. The start edge is always included; an unknown
// start id yields nil. Results are sorted for determinism.
func ConnectedEdgeIDs(p *Project, startEdgeID string) []string {
	canvas := &p.Canvas
	start, ok := canvas.EdgeByID(startEdgeID)
	if !ok {
		return nil
	}

	nodeByID := make(map[string]Node, len(canvas.Nodes))
	for _, n := range canvas.Nodes {
		if n.ID != "" {
			nodeByID[n.ID] = n
		}
	}
	nodeToEdges := map[string][]*Edge{}
	for i := range canvas.Edges {
		e := &canvas.Edges[i]
		if e.FromNode != "" {
			nodeToEdges[e.FromNode] = append(nodeToEdges[e.FromNode], e)
		}
		if e.ToNode != "" {
			nodeToEdges[e.ToNode] = append(nodeToEdges[e.ToNode], e)
		}
	}

	expandable := func(nodeID string) bool {
		n, ok := nodeByID[nodeID]
		return ok && !n.IsCut()
	}

	visitedEdges := map[string]bool{start.ID: true}
	visitedNodes := map[string]bool{}
	var frontier []string
	if expandable(start.FromNode) {
		frontier = append(frontier, start.FromNode)
	}
	if expandable(start.ToNode) {
		frontier = append(frontier, start.ToNode)
	}

	for len(frontier) > 0 {
		nodeID := frontier[0]
		frontier = frontier[1:]
		if visitedNodes[nodeID] {
			continue
		}
		visitedNodes[nodeID] = true

		for _, e := range nodeToEdges[nodeID] {
			if visitedEdges[e.ID] {
				continue
			}
			visitedEdges[e.ID] = true
			other := e.ToNode
			if other == nodeID {
				other = e.FromNode
			}
			if expandable(other) {
				frontier = append(frontier, other)
			}
		}
	}

	out := make([]string, 0, len(visitedEdges))
	for id := range visitedEdges {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AssignTrunk sets the trunk id on the given edges. Unknown edge ids are
// skipped.
func AssignTrunk(p *Project, edgeIDs []string, trunkID string) {
	for _, id := range edgeIDs {
		if e, ok := p.Canvas.EdgeByID(id); ok {
			e.Props.TrunkID = trunkID
		}
	}
}

// RemoveTrunk clears the trunk id on the given edges.
func RemoveTrunk(p *Project, edgeIDs []string) {
	for _, id := range edgeIDs {
		if e, ok := p.Canvas.EdgeByID(id); ok {
			e.Props.TrunkID = ""
		}
	}
}

// ConnectedForTrunk partitions the edges connected to startEdgeID into those
// assignable to trunkID (currently unassigned) and those conflicting
// (already on a different trunk).
func ConnectedForTrunk(p *Project, startEdgeID, trunkID string) (assignable, conflicts []string) {
	for _, id := range ConnectedEdgeIDs(p, startEdgeID) {
		e, ok := p.Canvas.EdgeByID(id)
		if !ok {
			continue
		}
		switch cur := e.Props.TrunkID; {
		case cur == "":
			assignable = append(assignable, id)
		case cur != trunkID:
			conflicts = append(conflicts, id)
		}
	}
	return assignable, conflicts
}
