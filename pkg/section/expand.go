package section

import "math"

// ExpandCableItems turns a circuit's cable quantity into drawable items.
// Small quantities become one circle per cable; past ExpandThreshold the
// bundle is drawn as a single circle of equivalent total area, which keeps
// the packing tractable for heavily paralleled circuits.
func ExpandCableItems(circuitTag string, outerDiameterMM float64, qty int) []CableItem {
	if qty < 1 {
		qty = 1
	}
	if outerDiameterMM <= 0 {
		return nil
	}
	if qty <= ExpandThreshold {
		items := make([]CableItem, qty)
		for i := range items {
			items[i] = CableItem{DiameterMM: outerDiameterMM, CircuitTag: circuitTag}
		}
		return items
	}
	r := outerDiameterMM / 2
	totalArea := math.Pi * r * r * float64(qty)
	dEq := math.Sqrt(4 * totalArea / math.Pi)
	return []CableItem{{DiameterMM: dEq, CircuitTag: circuitTag}}
}
