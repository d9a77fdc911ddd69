package route

import (
	"math"
	"strings"
	"testing"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/plan"
)

func lengthPtr(v float64) *float64 { return &v }

// lineCanvas builds A--B--C with declared weights 1 and 2, plus an isolated
// node D.
func lineCanvas() *plan.Canvas {
	return &plan.Canvas{
		Nodes: []plan.Node{
			{ID: "A", Type: plan.NodeEquipment, Name: "Trafo 1"},
			{ID: "B", Type: plan.NodeJunction},
			{ID: "C", Type: plan.NodeEquipment, Name: "Switchgear", Props: map[string]any{"tag": "SWG-01"}},
			{ID: "D", Type: plan.NodeEquipment},
		},
		Edges: []plan.Edge{
			{ID: "ab", FromNode: "A", ToNode: "B", LengthM: lengthPtr(1)},
			{ID: "bc", FromNode: "B", ToNode: "C", LengthM: lengthPtr(2)},
		},
	}
}

func testCatalog() *catalog.Effective {
	doc := &catalog.Document{
		Kind: catalog.KindMaterialLibrary,
		Conductors: []catalog.Conductor{
			{UID: "c1", Code: "CU-10", Name: "Cobre 10", Service: "power", OuterDiameterMM: 10},
		},
	}
	return catalog.Merge([]catalog.Source{{Label: "test.lib", Doc: doc}})
}

func TestShortestPathLine(t *testing.T) {
	g := NewGraph(lineCanvas())

	path, ok := g.ShortestPathEdges("A", "C")
	if !ok {
		t.Fatal("A->C should be routable")
	}
	if len(path) != 2 || path[0] != "ab" || path[1] != "bc" {
		t.Fatalf("path = %v, want [ab bc]", path)
	}
	if w := g.PathWeight("A", path); w != 3 {
		t.Errorf("path weight = %v, want 3", w)
	}
}

func TestShortestPathPrefersLighterRoute(t *testing.T) {
	canvas := lineCanvas()
	// Direct A--C shortcut heavier than A--B--C.
	canvas.Edges = append(canvas.Edges, plan.Edge{ID: "ac", FromNode: "A", ToNode: "C", LengthM: lengthPtr(10)})
	g := NewGraph(canvas)

	path, ok := g.ShortestPathEdges("A", "C")
	if !ok || len(path) != 2 {
		t.Fatalf("expected the two-hop route, got %v", path)
	}

	// Make the shortcut cheaper and it wins.
	*canvas.Edges[2].LengthM = 0.5
	g = NewGraph(canvas)
	path, _ = g.ShortestPathEdges("A", "C")
	if len(path) != 1 || path[0] != "ac" {
		t.Fatalf("expected the shortcut, got %v", path)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	g := NewGraph(lineCanvas())
	path, ok := g.ShortestPathEdges("A", "A")
	if !ok {
		t.Fatal("A->A should succeed")
	}
	if path == nil || len(path) != 0 {
		t.Errorf("A->A should be the empty sequence, got %v", path)
	}
}

func TestShortestPathDisconnected(t *testing.T) {
	g := NewGraph(lineCanvas())
	if _, ok := g.ShortestPathEdges("A", "D"); ok {
		t.Error("disconnected target should not be routable")
	}
	if _, ok := g.ShortestPathEdges("A", "nope"); ok {
		t.Error("unknown target should not be routable")
	}
}

func TestEdgeWeightFromCoordinates(t *testing.T) {
	canvas := &plan.Canvas{
		Nodes: []plan.Node{
			{ID: "A", X: 0, Y: 0},
			{ID: "B", X: 300, Y: 400},
		},
		Edges: []plan.Edge{{ID: "ab", FromNode: "A", ToNode: "B"}},
	}
	g := NewGraph(canvas)
	path, _ := g.ShortestPathEdges("A", "B")
	// hypot(300,400)=500 px at 0.05 m/px.
	if w := g.PathWeight("A", path); math.Abs(w-25) > 1e-9 {
		t.Errorf("coordinate weight = %v, want 25", w)
	}
}

func TestGraphSkipsDanglingEdges(t *testing.T) {
	canvas := lineCanvas()
	canvas.Edges = append(canvas.Edges, plan.Edge{ID: "bad", FromNode: "B", ToNode: "ghost"})
	g := NewGraph(canvas)
	for _, arc := range g.Neighbors("B") {
		if arc.EdgeID == "bad" {
			t.Error("edge with a missing endpoint should be excluded")
		}
	}
}

func TestResolveEndpoint(t *testing.T) {
	canvas := lineCanvas()

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"A", "A", true},          // exact id
		{"Trafo 1", "A", true},    // exact name
		{"trafo 1", "A", true},    // case-folded name
		{"SWG-01", "C", true},     // exact tag
		{"swg-01", "C", true},     // case-folded tag
		{"missing", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveEndpoint(canvas, tt.ref)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ResolveEndpoint(%q) = %q,%v, want %q,%v", tt.ref, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveEndpointPrefersExactOverFolded(t *testing.T) {
	canvas := &plan.Canvas{
		Nodes: []plan.Node{
			{ID: "n1", Name: "panel"},
			{ID: "n2", Name: "PANEL"},
		},
	}
	if got, _ := ResolveEndpoint(canvas, "PANEL"); got != "n2" {
		t.Errorf("exact match should win over case-folded, got %s", got)
	}
}

func TestAggregate(t *testing.T) {
	canvas := lineCanvas()
	circuits := []plan.Circuit{
		{ID: "cir1", Name: "F1", Service: "power", CableRef: "CU-10", Qty: 2, FromNode: "A", ToNode: "C"},
	}
	agg := Aggregate(canvas, circuits, testCatalog())

	if len(agg.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", agg.Warnings)
	}
	route := agg.Routes["cir1"]
	if len(route) != 2 {
		t.Fatalf("route = %v", route)
	}

	// pi * 5^2 * 2 on both edges of the path.
	want := math.Pi * 25 * 2
	for _, eid := range []string{"ab", "bc"} {
		if got := agg.EdgeServices[eid]["power"]; math.Abs(got-want) > 1e-9 {
			t.Errorf("edge %s power load = %v, want %v", eid, got, want)
		}
		if ids := agg.EdgeCircuits[eid]; len(ids) != 1 || ids[0] != "cir1" {
			t.Errorf("edge %s circuits = %v", eid, ids)
		}
	}
}

func TestAggregateUnroutableCircuit(t *testing.T) {
	canvas := lineCanvas()
	circuits := []plan.Circuit{
		{ID: "cir1", CableRef: "CU-10", FromNode: "A", ToNode: "D"},
		{ID: "cir2", CableRef: "CU-10", FromNode: "A", ToNode: "C"},
	}
	agg := Aggregate(canvas, circuits, testCatalog())

	if _, ok := agg.Routes["cir1"]; ok {
		t.Error("unroutable circuit should have no route")
	}
	if len(agg.Warnings) != 1 || !strings.Contains(agg.Warnings[0], "no route") {
		t.Errorf("expected one no-route warning, got %v", agg.Warnings)
	}
	// The other circuit is unaffected.
	if _, ok := agg.Routes["cir2"]; !ok {
		t.Error("routable circuit should still route")
	}
}

func TestAggregateMissingCable(t *testing.T) {
	canvas := lineCanvas()
	circuits := []plan.Circuit{
		{ID: "cir1", CableRef: "GHOST", FromNode: "A", ToNode: "C"},
	}
	agg := Aggregate(canvas, circuits, testCatalog())

	if len(agg.Warnings) != 1 || !strings.Contains(agg.Warnings[0], "not found in catalog") {
		t.Errorf("expected missing cable warning, got %v", agg.Warnings)
	}
	if agg.TotalArea("ab") != 0 {
		t.Error("missing cable should contribute no load")
	}
	// The route itself is still recorded.
	if _, ok := agg.Routes["cir1"]; !ok {
		t.Error("route should exist even when the cable is unresolved")
	}
}

func TestAggregateSnapshotPrecedence(t *testing.T) {
	canvas := lineCanvas()
	// The snapshot says 20 mm even though the catalog says 10 mm.
	circuits := []plan.Circuit{
		{
			ID: "cir1", CableRef: "CU-10", FromNode: "A", ToNode: "C",
			CableSnapshot: &catalog.Conductor{UID: "c1", Code: "CU-10", OuterDiameterMM: 20},
		},
	}
	agg := Aggregate(canvas, circuits, testCatalog())

	want := math.Pi * 100 // pi * 10^2, qty 1
	if got := agg.EdgeServices["ab"]["power"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("snapshot should win over catalog: load = %v, want %v", got, want)
	}
}

func TestAggregateIdempotence(t *testing.T) {
	canvas := lineCanvas()
	circuits := []plan.Circuit{
		{ID: "cir1", CableRef: "CU-10", FromNode: "A", ToNode: "C"},
		{ID: "cir2", CableRef: "CU-10", FromNode: "B", ToNode: "C"},
	}
	eff := testCatalog()

	a := Aggregate(canvas, circuits, eff)
	b := Aggregate(canvas, circuits, eff)

	for cid, route := range a.Routes {
		other := b.Routes[cid]
		if len(route) != len(other) {
			t.Fatalf("routes differ for %s: %v vs %v", cid, route, other)
		}
		for i := range route {
			if route[i] != other[i] {
				t.Fatalf("routes differ for %s: %v vs %v", cid, route, other)
			}
		}
	}
	for eid, svc := range a.EdgeServices {
		for s, area := range svc {
			if b.EdgeServices[eid][s] != area {
				t.Errorf("loads differ for %s/%s", eid, s)
			}
		}
	}
}
