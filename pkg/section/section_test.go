package section

import (
	"math"
	"testing"
)

func TestExpandSmallQuantity(t *testing.T) {
	items := ExpandCableItems("F1", 12, 3)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for _, it := range items {
		if it.DiameterMM != 12 || it.CircuitTag != "F1" {
			t.Errorf("item = %+v", it)
		}
	}
}

func TestExpandLargeQuantityCollapses(t *testing.T) {
	items := ExpandCableItems("F1", 10, 20)
	if len(items) != 1 {
		t.Fatalf("expected a single equivalent circle, got %d items", len(items))
	}
	// Total cross-section is preserved.
	want := math.Pi * 25 * 20
	r := items[0].DiameterMM / 2
	if got := math.Pi * r * r; math.Abs(got-want) > 1e-6 {
		t.Errorf("equivalent area = %v, want %v", got, want)
	}
}

func TestExpandDegenerate(t *testing.T) {
	if items := ExpandCableItems("F1", 0, 5); items != nil {
		t.Errorf("zero diameter should expand to nothing, got %v", items)
	}
	if items := ExpandCableItems("F1", 8, 0); len(items) != 1 {
		t.Errorf("zero quantity coerces to 1, got %v", items)
	}
}

func TestPackCircleFittingSet(t *testing.T) {
	geom := CircleGeometry{InnerDiameterMM: 100}
	items := []CableItem{
		{DiameterMM: 10, CircuitTag: "a"},
		{DiameterMM: 10, CircuitTag: "b"},
		{DiameterMM: 8, CircuitTag: "c"},
	}
	got := PackCircle(geom, items, 1)
	if len(got) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(got))
	}

	usableR := 49.0
	for _, p := range got {
		if p.Overflow {
			t.Errorf("placement %+v flagged overflow in a roomy interior", p)
		}
		dist := math.Hypot(p.XMM, p.YMM)
		if dist+p.DiameterMM/2 > usableR+1e-3 {
			t.Errorf("placement %+v escapes the usable radius", p)
		}
	}
	// Pairwise non-overlap, allowing the solver's convergence tolerance.
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			dist := math.Hypot(got[j].XMM-got[i].XMM, got[j].YMM-got[i].YMM)
			minDist := got[i].DiameterMM/2 + got[j].DiameterMM/2
			if dist+1e-2 < minDist {
				t.Errorf("placements %d and %d overlap: dist=%v min=%v", i, j, dist, minDist)
			}
		}
	}
}

func TestPackCircleOversubscribed(t *testing.T) {
	// A cable wider than the duct interior cannot be pulled inside the
	// usable radius and must carry the overflow flag.
	geom := CircleGeometry{InnerDiameterMM: 20}
	items := []CableItem{{DiameterMM: 25}, {DiameterMM: 10}}
	got := PackCircle(geom, items, 1)
	if len(got) != 2 {
		t.Fatalf("every item should still be placed, got %d", len(got))
	}
	overflowed := false
	for _, p := range got {
		if p.Overflow {
			overflowed = true
		}
	}
	if !overflowed {
		t.Error("an oversubscribed interior must flag at least one overflow")
	}
}

func TestPackCircleCenterOffset(t *testing.T) {
	geom := CircleGeometry{CX: 200, CY: 300, InnerDiameterMM: 50}
	got := PackCircle(geom, []CableItem{{DiameterMM: 10}}, 1)
	if len(got) != 1 {
		t.Fatal("expected one placement")
	}
	if got[0].XMM != 200 || got[0].YMM != 300 {
		t.Errorf("single cable should sit at the center, got (%v,%v)", got[0].XMM, got[0].YMM)
	}
}

func TestPackCircleDegenerate(t *testing.T) {
	if got := PackCircle(CircleGeometry{}, []CableItem{{DiameterMM: 10}}, 1); got != nil {
		t.Errorf("zero interior should yield no placements, got %v", got)
	}
	if got := PackCircle(CircleGeometry{InnerDiameterMM: 50}, nil, 1); got != nil {
		t.Errorf("no items should yield no placements, got %v", got)
	}
	if got := PackCircle(CircleGeometry{InnerDiameterMM: 50}, []CableItem{{DiameterMM: 0}}, 1); got != nil {
		t.Errorf("all-zero diameters should yield no placements, got %v", got)
	}
}

func TestPackRectShelves(t *testing.T) {
	geom := RectGeometry{WidthMM: 25, HeightMM: 30}
	items := []CableItem{{DiameterMM: 10}, {DiameterMM: 10}, {DiameterMM: 10}}
	got := PackRect(geom, items, 1)
	if len(got) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(got))
	}

	// Two on the first shelf, the third wraps to the next row.
	if got[0].YMM != got[1].YMM {
		t.Errorf("first two should share a row: %v vs %v", got[0].YMM, got[1].YMM)
	}
	if got[2].YMM <= got[0].YMM {
		t.Errorf("third should wrap below: %v vs %v", got[2].YMM, got[0].YMM)
	}
	for _, p := range got {
		if p.Overflow {
			t.Errorf("placement %+v flagged overflow in a tall interior", p)
		}
	}
}

func TestPackRectHeightOverflow(t *testing.T) {
	geom := RectGeometry{WidthMM: 12, HeightMM: 12}
	items := []CableItem{{DiameterMM: 10}, {DiameterMM: 10}}
	got := PackRect(geom, items, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(got))
	}
	if got[0].Overflow {
		t.Error("first cable fits and should not overflow")
	}
	if !got[1].Overflow {
		t.Error("second cable wraps past the bottom wall and must overflow")
	}
}

func TestPackRectLargestFirst(t *testing.T) {
	geom := RectGeometry{WidthMM: 100, HeightMM: 100}
	items := []CableItem{{DiameterMM: 5, CircuitTag: "small"}, {DiameterMM: 20, CircuitTag: "big"}}
	got := PackRect(geom, items, 1)
	if got[0].CircuitTag != "big" {
		t.Errorf("largest cable should be placed first, got %q", got[0].CircuitTag)
	}
}

func TestPackRectDegenerate(t *testing.T) {
	if got := PackRect(RectGeometry{}, []CableItem{{DiameterMM: 5}}, 1); got != nil {
		t.Errorf("zero interior should yield no placements, got %v", got)
	}
}
