// Package section lays out cable cross-sections inside a containment:
// circular ducts get a relaxation-based circle packing, rectangular trays a
// largest-first shelf packing. Placements are advisory; an item that does
// not fit is still placed and flagged as overflowing.
package section

// DefaultSpacingMM is the clearance kept between cables and to the
// containment wall when the caller does not specify one.
const DefaultSpacingMM = 1.0

// ExpandThreshold is the largest quantity rendered as individual circles.
// Above it the bundle collapses into one area-equivalent circle.
const ExpandThreshold = 10

// CableItem is one circle to place.
type CableItem struct {
	DiameterMM float64 `json:"d_mm" bson:"d_mm"`
	CircuitTag string  `json:"circuit_tag,omitempty" bson:"circuit_tag,omitempty"`
}

// Placement is one laid-out cable. Coordinates are the circle center in the
// containment's own frame.
type Placement struct {
	XMM        float64 `json:"x_mm" bson:"x_mm"`
	YMM        float64 `json:"y_mm" bson:"y_mm"`
	DiameterMM float64 `json:"d_mm" bson:"d_mm"`
	CircuitTag string  `json:"circuit_tag,omitempty" bson:"circuit_tag,omitempty"`
	Overflow   bool    `json:"overflow" bson:"overflow"`
}

// CircleGeometry describes a circular containment interior.
type CircleGeometry struct {
	CX              float64
	CY              float64
	InnerDiameterMM float64
}

// RectGeometry describes a rectangular containment interior.
type RectGeometry struct {
	X0       float64
	Y0       float64
	WidthMM  float64
	HeightMM float64
}
