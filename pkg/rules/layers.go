package rules

import "math"

// RequiredLayers returns how many layers a tray needs to hold widthUsed
// millimeters of cable across a clear width of widthClear. Degenerate
// widths resolve to a single layer.
func RequiredLayers(widthUsed, widthClear float64) int {
	if widthClear <= 0 || widthUsed <= 0 {
		return 1
	}
	return int(math.Ceil(widthUsed / widthClear))
}

// CountConductors sums circuit quantities into the conductor count used for
// duct range resolution. Each circuit contributes at least one conductor.
func CountConductors(circuitQtys []int) int {
	total := 0
	for _, qty := range circuitQtys {
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return total
}
