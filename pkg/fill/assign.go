package fill

import (
	"sort"
	"strings"
)

// Greedy assignment of circuits to the parallel runs of a segment. Each run
// may declare a service preference; the scorer charges a penalty for
// putting a circuit on a mismatched run and a steeper-growing penalty for
// pushing a run past its fill limit, so circuits spread before they
// overfill.

// Assignment scoring weights.
const (
	OverPenaltyWeight     = 10.0
	MismatchPenaltyWeight = 30.0
)

// FreeService marks a run that accepts any service.
const FreeService = "Libre"

// Conduit is one parallel run available for assignment.
type Conduit struct {
	Tag           string
	UsableAreaMM2 float64
	ServicePref   string
}

// Demand is one circuit to place.
type Demand struct {
	Tag     string
	AreaMM2 float64
	Service string
}

// ConduitStats summarizes one run after assignment.
type ConduitStats struct {
	UsedMM2  float64 `json:"used_mm2" bson:"used_mm2"`
	UtilMM2  float64 `json:"util_mm2" bson:"util_mm2"`
	FillPct  float64 `json:"fill_pct" bson:"fill_pct"`
	AvailPct float64 `json:"avail_pct" bson:"avail_pct"`
}

func isFree(pref string) bool {
	p := strings.TrimSpace(pref)
	return p == "" || strings.EqualFold(p, FreeService) || strings.EqualFold(p, "free")
}

// Assign places demands onto conduits, largest first, minimizing resulting
// fill plus penalties. Returns the demand-to-conduit assignment and the
// final per-conduit stats. Demands that cannot be placed (no conduits) are
// simply absent from the assignment.
func Assign(demands []Demand, conduits []Conduit, maxFillPct float64) (map[string]string, map[string]ConduitStats) {
	assignments := map[string]string{}
	used := make(map[string]float64, len(conduits))
	for _, c := range conduits {
		used[c.Tag] = 0
	}

	ordered := make([]Demand, len(demands))
	copy(ordered, demands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AreaMM2 > ordered[j].AreaMM2
	})

	for _, d := range ordered {
		best := ""
		bestScore := 0.0
		haveBest := false

		for _, c := range candidateOrder(conduits, d.Service) {
			util := c.UsableAreaMM2
			if util <= 0 {
				util = 1
			}
			newFill := (used[c.Tag] + d.AreaMM2) / util * 100

			score := newFill
			if over := newFill - maxFillPct; over > 0 {
				score += over * OverPenaltyWeight
			}
			if !isFree(c.ServicePref) && !strings.EqualFold(c.ServicePref, d.Service) {
				score += MismatchPenaltyWeight
			}

			if !haveBest || score < bestScore {
				haveBest = true
				bestScore = score
				best = c.Tag
			}
		}

		if haveBest {
			assignments[d.Tag] = best
			used[best] += d.AreaMM2
		}
	}

	stats := make(map[string]ConduitStats, len(conduits))
	for _, c := range conduits {
		s := ConduitStats{UsedMM2: used[c.Tag], UtilMM2: c.UsableAreaMM2}
		if c.UsableAreaMM2 > 0 {
			s.FillPct = s.UsedMM2 / c.UsableAreaMM2 * 100
		}
		s.AvailPct = 100 - s.FillPct
		if s.AvailPct < 0 {
			s.AvailPct = 0
		}
		stats[c.Tag] = s
	}
	return assignments, stats
}

// candidateOrder lists conduits preferring runs whose service preference
// matches the demand, then free runs, then mismatched runs.
func candidateOrder(conduits []Conduit, service string) []Conduit {
	var pref, free, rest []Conduit
	for _, c := range conduits {
		switch {
		case !isFree(c.ServicePref) && strings.EqualFold(c.ServicePref, service):
			pref = append(pref, c)
		case isFree(c.ServicePref):
			free = append(free, c)
		default:
			rest = append(rest, c)
		}
	}
	out := make([]Conduit, 0, len(conduits))
	out = append(out, pref...)
	out = append(out, free...)
	out = append(out, rest...)
	return out
}
