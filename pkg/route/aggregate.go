package route

import (
	"fmt"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/plan"
)

// Aggregation is the routing pass output: every circuit's route and the
// per-edge load it implies.
type Aggregation struct {
	// Routes maps circuit id to its ordered edge path. A circuit missing
	// from the map could not be routed.
	Routes map[string][]string

	// EdgeServices maps edge id to the aggregated cross-section per
	// electrical service, in mm2.
	EdgeServices map[string]map[string]float64

	// EdgeCircuits maps edge id to the ids of circuits routed across it,
	// in circuit list order.
	EdgeCircuits map[string][]string

	// CircuitQty indexes each circuit's cable quantity for conductor
	// counting downstream.
	CircuitQty map[string]int

	// Warnings from unroutable circuits and unresolved cable references.
	Warnings []string
}

// TotalArea returns the summed load on an edge across all services.
func (a *Aggregation) TotalArea(edgeID string) float64 {
	total := 0.0
	for _, area := range a.EdgeServices[edgeID] {
		total += area
	}
	return total
}

// Aggregate routes every circuit and accumulates cable cross-sections onto
// the edges of each route. A circuit that cannot be routed or whose cable
// cannot be resolved contributes no load and adds a warning; other circuits
// are unaffected.
func Aggregate(canvas *plan.Canvas, circuits []plan.Circuit, eff *catalog.Effective) *Aggregation {
	g := NewGraph(canvas)
	agg := &Aggregation{
		Routes:       map[string][]string{},
		EdgeServices: map[string]map[string]float64{},
		EdgeCircuits: map[string][]string{},
		CircuitQty:   map[string]int{},
	}
	for _, e := range canvas.Edges {
		agg.EdgeServices[e.ID] = map[string]float64{}
	}

	for _, c := range circuits {
		agg.CircuitQty[c.ID] = c.Quantity()
		from, okFrom := ResolveEndpoint(canvas, c.FromNode)
		to, okTo := ResolveEndpoint(canvas, c.ToNode)
		if !okFrom || !okTo {
			agg.Warnings = append(agg.Warnings, fmt.Sprintf(
				"circuit %q: endpoint not found (%s -> %s)", circuitLabel(c), c.FromNode, c.ToNode))
			continue
		}

		path, ok := g.ShortestPathEdges(from, to)
		if !ok {
			agg.Warnings = append(agg.Warnings, fmt.Sprintf(
				"circuit %q: no route between %s and %s", circuitLabel(c), from, to))
			continue
		}
		agg.Routes[c.ID] = path
		if len(path) == 0 {
			continue
		}

		cable, ok := resolveCable(c, eff)
		if !ok {
			agg.Warnings = append(agg.Warnings, fmt.Sprintf(
				"circuit %q: cable %q not found in catalog", circuitLabel(c), c.CableRef))
			continue
		}
		area := cable.CrossSectionMM2()
		if area <= 0 {
			agg.Warnings = append(agg.Warnings, fmt.Sprintf(
				"circuit %q: cable %q has no outer diameter", circuitLabel(c), c.CableRef))
			continue
		}

		load := area * float64(c.Quantity())
		service := c.ServiceOrDefault()
		for _, edgeID := range path {
			svc := agg.EdgeServices[edgeID]
			if svc == nil {
				svc = map[string]float64{}
				agg.EdgeServices[edgeID] = svc
			}
			svc[service] += load
			agg.EdgeCircuits[edgeID] = append(agg.EdgeCircuits[edgeID], c.ID)
		}
	}

	return agg
}

// resolveCable prefers the circuit's embedded snapshot over a live catalog
// lookup, so a previously routed circuit stays stable when the catalog
// changes underneath it.
func resolveCable(c plan.Circuit, eff *catalog.Effective) (catalog.Conductor, bool) {
	if c.CableSnapshot != nil {
		return *c.CableSnapshot, true
	}
	if eff == nil {
		return catalog.Conductor{}, false
	}
	return eff.ResolveConductor(c.CableRef)
}

func circuitLabel(c plan.Circuit) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
