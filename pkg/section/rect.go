package section

import "sort"

// PackRect lays cables on shelves inside a rectangular interior, largest
// first: rows fill left to right and wrap when a circle would cross the
// right wall. A placement below the bottom wall is flagged Overflow but
// still positioned so the drawing can show what does not fit.
func PackRect(geom RectGeometry, items []CableItem, spacingMM float64) []Placement {
	if geom.WidthMM <= 0 || geom.HeightMM <= 0 || len(items) == 0 {
		return nil
	}

	ordered := make([]CableItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DiameterMM > ordered[j].DiameterMM
	})

	cursorX := geom.X0 + spacingMM
	cursorY := geom.Y0 + spacingMM
	rowHeight := 0.0

	var placements []Placement
	for _, it := range ordered {
		d := it.DiameterMM
		if d <= 0 {
			continue
		}
		if cursorX+d+spacingMM > geom.X0+geom.WidthMM {
			cursorX = geom.X0 + spacingMM
			cursorY += rowHeight + spacingMM
			rowHeight = 0
		}
		r := d / 2
		placements = append(placements, Placement{
			XMM:        cursorX + r,
			YMM:        cursorY + r,
			DiameterMM: d,
			CircuitTag: it.CircuitTag,
			Overflow:   cursorY+d+spacingMM > geom.Y0+geom.HeightMM,
		})
		cursorX += d + spacingMM
		if d > rowHeight {
			rowHeight = d
		}
	}
	return placements
}
