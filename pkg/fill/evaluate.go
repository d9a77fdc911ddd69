// Package fill evaluates aggregated segment loads against containment
// capacity: it resolves each segment's material, scales usable area by the
// parallel quantity, computes the fill percentage, and classifies the
// result against the active rule preset.
package fill

import (
	"fmt"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/plan"
	"github.com/ifuentes/raceway/pkg/route"
	"github.com/ifuentes/raceway/pkg/rules"
)

// Epsilon guards the over-limit comparison against float noise: a segment
// is over only when fill exceeds the limit by more than this.
const Epsilon = 1e-6

// TraySeparatorFactor halves a tray's usable area when a separation barrier
// divides the run.
const TraySeparatorFactor = 0.5

// Banding thresholds relative to the limit, for presentation only.
const (
	bandWarnRatio = 0.80
)

// Band is the qualitative classification of a fill result.
type Band string

// Band values.
const (
	BandOK   Band = "ok"
	BandWarn Band = "warn"
	BandOver Band = "over"
)

// Result is the per-segment fill evaluation.
type Result struct {
	EdgeID          string                  `json:"edge_id" bson:"edge_id"`
	Kind            catalog.ContainmentKind `json:"kind" bson:"kind"`
	MaterialUID     string                  `json:"material_uid,omitempty" bson:"material_uid,omitempty"`
	MaterialLabel   string                  `json:"material_label,omitempty" bson:"material_label,omitempty"`
	Quantity        int                     `json:"quantity" bson:"quantity"`
	ConductorCount  int                     `json:"conductor_count" bson:"conductor_count"`
	LoadAreaMM2     float64                 `json:"load_area_mm2" bson:"load_area_mm2"`
	UsableAreaMM2   float64                 `json:"usable_area_mm2" bson:"usable_area_mm2"`
	FillPct         float64                 `json:"fill_pct" bson:"fill_pct"`
	LimitPct        float64                 `json:"limit_pct" bson:"limit_pct"`
	Over            bool                    `json:"over" bson:"over"`
	Band            Band                    `json:"band" bson:"band"`
	LayersEnabled   bool                    `json:"layers_enabled,omitempty" bson:"layers_enabled,omitempty"`
	MaxLayers       int                     `json:"max_layers,omitempty" bson:"max_layers,omitempty"`
}

// Evaluate computes a fill result for every edge on the canvas. A missing
// material or zero usable area degrades to a 0% fill with a warning rather
// than failing the pass.
func Evaluate(canvas *plan.Canvas, agg *route.Aggregation, eff *catalog.Effective, ruleSet rules.RuleSet) (map[string]*Result, []string) {
	results := make(map[string]*Result, len(canvas.Edges))
	var warnings []string

	for _, e := range canvas.Edges {
		res := evaluateEdge(e, agg, eff, ruleSet, &warnings)
		results[e.ID] = res
	}
	return results, warnings
}

func evaluateEdge(e plan.Edge, agg *route.Aggregation, eff *catalog.Effective, ruleSet rules.RuleSet, warnings *[]string) *Result {
	kind := e.Kind()
	qty := e.ParallelQuantity()
	load := agg.TotalArea(e.ID)

	res := &Result{
		EdgeID:   e.ID,
		Kind:     kind,
		Quantity: qty,
	}

	var qtys []int
	for _, cid := range agg.EdgeCircuits[e.ID] {
		qtys = append(qtys, circuitQty(agg, cid))
	}
	res.ConductorCount = rules.CountConductors(qtys)
	res.LoadAreaMM2 = load

	usable, materialMax, uid, label, found := resolveMaterial(e, eff)
	if !found && load > 0 {
		*warnings = append(*warnings, fmt.Sprintf("edge %s: containment material not resolved", e.ID))
	}
	res.MaterialUID = uid
	res.MaterialLabel = label

	if kind.IsTray() && e.Props.Separator {
		usable *= TraySeparatorFactor
	}
	usable *= float64(qty)
	res.UsableAreaMM2 = usable

	limit := ruleSet.EffectiveLimit(kind, res.ConductorCount, materialMax)
	res.LimitPct = limit
	res.LayersEnabled, res.MaxLayers = ruleSet.LayersRule(kind)

	if usable > 0 {
		res.FillPct = load / usable * 100
	}

	res.Over = res.FillPct > limit+Epsilon
	switch {
	case res.Over:
		res.Band = BandOver
	case res.FillPct > limit*bandWarnRatio:
		res.Band = BandWarn
	default:
		res.Band = BandOK
	}
	return res
}

// resolveMaterial resolves the segment's containment material: embedded
// snapshot first, then uid, then code/nominal/size lookup across the
// catalog. Returns the unscaled usable area and the material's own limit.
func resolveMaterial(e plan.Edge, eff *catalog.Effective) (usable, materialMax float64, uid, label string, ok bool) {
	kind := e.Kind()

	if kind.IsTray() {
		if s := e.Props.TraySnapshot; s != nil {
			return s.UsableArea(), s.MaxFillPercent, s.UID, s.DisplayLabel(), true
		}
	} else if s := e.Props.DuctSnapshot; s != nil {
		return s.UsableArea(), s.MaxFillPercent, s.UID, s.DisplayLabel(), true
	}

	if eff == nil {
		return 0, 0, "", "", false
	}

	if kind.IsTray() {
		if e.Props.MaterialUID != "" {
			if t, found := eff.TrayByUID(kind, e.Props.MaterialUID); found {
				return t.UsableArea(), t.MaxFillPercent, t.UID, t.DisplayLabel(), true
			}
		}
		if t, found := eff.ResolveTray(kind, e.Props.Size); found {
			return t.UsableArea(), t.MaxFillPercent, t.UID, t.DisplayLabel(), true
		}
		return 0, 0, "", "", false
	}

	if e.Props.MaterialUID != "" {
		if d, found := eff.DuctByUID(e.Props.MaterialUID); found {
			return d.UsableArea(), d.MaxFillPercent, d.UID, d.DisplayLabel(), true
		}
	}
	if d, found := eff.ResolveDuct(e.Props.Size); found {
		return d.UsableArea(), d.MaxFillPercent, d.UID, d.DisplayLabel(), true
	}
	return 0, 0, "", "", false
}

// circuitQty reads a routed circuit's quantity back out of the aggregation.
// Aggregation does not retain circuits, so the count defaults to 1 when the
// caller did not index them; Evaluate callers pass the index via agg.
func circuitQty(agg *route.Aggregation, circuitID string) int {
	if agg.CircuitQty == nil {
		return 1
	}
	if q, ok := agg.CircuitQty[circuitID]; ok {
		return q
	}
	return 1
}
