package section

import (
	"math"
	"sort"
)

// Circle packing tuning. The search seeds a handful of starting layouts,
// relaxes each with a pairwise push solver, and keeps the best-scoring one.
const (
	layoutTries      = 6
	relaxIterations  = 160
	overlapWeight    = 1.5
	convergedEpsilon = 1e-3
	slack            = 1e-6
)

type point struct {
	x, y float64
}

// PackCircle lays out the cables inside a circular interior. Items are
// sorted largest first; each placement is flagged Overflow when its circle
// does not fit inside the usable radius. Degenerate geometry or an all-zero
// item set yields no placements.
func PackCircle(geom CircleGeometry, items []CableItem, spacingMM float64) []Placement {
	if geom.InnerDiameterMM <= 0 || len(items) == 0 {
		return nil
	}
	radius := geom.InnerDiameterMM / 2
	margin := math.Max(0, spacingMM)
	usableR := math.Max(0, radius-margin)

	ordered := make([]CableItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DiameterMM > ordered[j].DiameterMM
	})

	diameters := make([]float64, len(ordered))
	anyPositive := false
	for i, it := range ordered {
		diameters[i] = math.Max(0, it.DiameterMM)
		if diameters[i] > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return nil
	}

	var best []point
	bestScore := math.Inf(1)
	for t := 0; t < layoutTries; t++ {
		phase := 2 * math.Pi / layoutTries * float64(t)
		var coords []point
		if t%2 == 0 {
			coords = ringSeed(diameters, margin, phase)
		} else {
			coords = spiralSeed(diameters, margin, phase)
		}
		score := relax(coords, diameters, margin, usableR)
		if score < bestScore {
			bestScore = score
			best = coords
			if score <= convergedEpsilon {
				break
			}
		}
	}

	placements := make([]Placement, len(ordered))
	for i, it := range ordered {
		x := geom.CX + best[i].x
		y := geom.CY + best[i].y
		r := it.DiameterMM / 2
		dist := math.Hypot(best[i].x, best[i].y)
		placements[i] = Placement{
			XMM:        x,
			YMM:        y,
			DiameterMM: it.DiameterMM,
			CircuitTag: it.CircuitTag,
			Overflow:   dist+r > usableR+slack,
		}
	}
	return placements
}

// ringSeed places the first item at the center and the rest on concentric
// rings spaced one step apart, rotated by phase.
func ringSeed(diameters []float64, margin, phase float64) []point {
	step := maxOf(diameters) + margin
	coords := make([]point, 0, len(diameters))
	coords = append(coords, point{})
	idx := 1
	for ring := 1; idx < len(diameters); ring++ {
		ringR := float64(ring) * step
		circumference := 2 * math.Pi * ringR
		count := int(circumference / math.Max(step, 1e-6))
		if count < 1 {
			count = 1
		}
		for i := 0; i < count && idx < len(diameters); i++ {
			angle := phase + 2*math.Pi*float64(i)/float64(count)
			coords = append(coords, point{ringR * math.Cos(angle), ringR * math.Sin(angle)})
			idx++
		}
	}
	return coords
}

// spiralSeed walks an Archimedean spiral outward from the center.
func spiralSeed(diameters []float64, margin, phase float64) []point {
	step := maxOf(diameters) + margin
	coords := make([]point, len(diameters))
	angle := phase
	r := 0.0
	for i := range diameters {
		coords[i] = point{r * math.Cos(angle), r * math.Sin(angle)}
		r += step * 0.5
		angle += 0.7
	}
	return coords
}

// relax iteratively pushes overlapping circles apart and pulls escapees back
// inside the usable radius, mutating coords in place. The returned score is
// the residual overflow plus weighted overlap; zero means a clean layout.
func relax(coords []point, diameters []float64, margin, usableR float64) float64 {
	n := len(coords)
	rs := make([]float64, n)
	for i, d := range diameters {
		rs[i] = d / 2
	}
	if n > 1 {
		for iter := 0; iter < relaxIterations; iter++ {
			moved := 0.0
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					dx := coords[j].x - coords[i].x
					dy := coords[j].y - coords[i].y
					dist := math.Hypot(dx, dy)
					if dist == 0 {
						dist = 1e-6
					}
					minDist := rs[i] + rs[j] + margin
					if dist < minDist {
						push := (minDist - dist) * 0.5
						ux, uy := dx/dist, dy/dist
						coords[i].x -= ux * push
						coords[i].y -= uy * push
						coords[j].x += ux * push
						coords[j].y += uy * push
						moved += push * 2
					}
				}
			}
			for i := 0; i < n; i++ {
				dist := math.Hypot(coords[i].x, coords[i].y)
				if dist == 0 {
					dist = 1e-6
				}
				limit := usableR - rs[i]
				if limit < 0 {
					continue
				}
				if dist > limit {
					push := dist - limit
					coords[i].x -= coords[i].x / dist * push
					coords[i].y -= coords[i].y / dist * push
					moved += push
				}
			}
			if moved < convergedEpsilon {
				break
			}
		}
	}

	overflow := 0.0
	for i := 0; i < n; i++ {
		dist := math.Hypot(coords[i].x, coords[i].y)
		if limit := usableR - rs[i]; dist > limit+slack {
			overflow += dist - limit
		}
	}
	overlap := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := math.Hypot(coords[j].x-coords[i].x, coords[j].y-coords[i].y)
			if dist == 0 {
				dist = 1e-6
			}
			if minDist := rs[i] + rs[j] + margin; dist < minDist-slack {
				overlap += minDist - dist
			}
		}
	}
	return overflow + overlap*overlapWeight
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
