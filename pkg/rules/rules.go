// Package rules resolves fill-capacity limits from named rule presets.
//
// A preset defines, per containment kind, the maximum allowed fill
// percentage: ducts carry an ordered list of conductor-count ranges, tray
// profiles carry a flat percentage plus a layering policy. Presets live in a
// versioned JSON document managed by the Store; resolution itself is pure
// and never fails, malformed numeric fields are treated as absent.
package rules

import "github.com/ifuentes/raceway/pkg/catalog"

// Fallback limits when neither the preset nor the material item declares
// a maximum fill percentage.
const (
	DefaultDuctFillPct = 40.0
	DefaultTrayFillPct = 50.0
)

// DuctRange maps a conductor-count interval to a fill limit.
type DuctRange struct {
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	FillMaxPct float64 `json:"fill_max_pct"`
}

// DuctRules is the duct section of a rule set.
type DuctRules struct {
	FillByConductors []DuctRange `json:"fill_by_conductors"`
}

// TrayRule is the flat rule for one tray profile family.
type TrayRule struct {
	FillMaxPct    float64 `json:"fill_max_pct"`
	LayersEnabled bool    `json:"layers_enabled"`
	MaxLayers     int     `json:"max_layers"`
}

// RuleSet is one preset's rules across all containment kinds.
type RuleSet struct {
	Duct DuctRules `json:"duct"`
	BPC  TrayRule  `json:"bpc"`
	EPC  TrayRule  `json:"epc"`
}

// Preset is a named, user-editable rule set.
type Preset struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Rules RuleSet `json:"rules"`
}

// Doc is the versioned preset document.
type Doc struct {
	SchemaVersion         int      `json:"schema_version"`
	Presets               []Preset `json:"presets"`
	ActiveDefaultPresetID string   `json:"active_default_preset_id,omitempty"`
}

// DocSchemaVersion is the preset document version this engine understands.
const DocSchemaVersion = 1

// RulesFor returns the rule set for the requested preset id, falling back to
// the document's active default preset, then to the first preset. An empty
// rule set is returned when the document has no presets.
func (d *Doc) RulesFor(presetID string) RuleSet {
	if d == nil {
		return RuleSet{}
	}
	if presetID != "" {
		for _, p := range d.Presets {
			if p.ID == presetID {
				return p.Rules
			}
		}
	}
	if d.ActiveDefaultPresetID != "" {
		for _, p := range d.Presets {
			if p.ID == d.ActiveDefaultPresetID {
				return p.Rules
			}
		}
	}
	if len(d.Presets) > 0 {
		return d.Presets[0].Rules
	}
	return RuleSet{}
}

// trayRule picks the rule block for a tray family.
func (r RuleSet) trayRule(kind catalog.ContainmentKind) TrayRule {
	if catalog.NormalizeKind(string(kind)) == catalog.KindBPC {
		return r.BPC
	}
	return r.EPC
}

// FillLimitPct resolves the maximum allowed fill percentage for a
// containment kind carrying conductorCount conductors.
//
// For ducts, the first range whose interval contains the count wins; when
// none match, the last defined range is the conservative fallback; with no
// ranges at all the result is 0 and the caller falls back to the material's
// own limit. Tray kinds use the flat percentage.
func (r RuleSet) FillLimitPct(kind catalog.ContainmentKind, conductorCount int) float64 {
	if catalog.NormalizeKind(string(kind)) == catalog.KindDuct {
		ranges := r.Duct.FillByConductors
		for _, rng := range ranges {
			if rng.Min <= conductorCount && conductorCount <= rng.Max && rng.FillMaxPct > 0 {
				return rng.FillMaxPct
			}
		}
		if len(ranges) > 0 {
			return ranges[len(ranges)-1].FillMaxPct
		}
		return 0
	}
	return r.trayRule(kind).FillMaxPct
}

// LayersRule resolves the layering policy for a tray kind.
// MaxLayers is coerced to at least 1. Ducts never layer.
func (r RuleSet) LayersRule(kind catalog.ContainmentKind) (enabled bool, maxLayers int) {
	if catalog.NormalizeKind(string(kind)) == catalog.KindDuct {
		return false, 1
	}
	t := r.trayRule(kind)
	maxLayers = t.MaxLayers
	if maxLayers < 1 {
		maxLayers = 1
	}
	return t.LayersEnabled, maxLayers
}

// Resolve is the combined contract: limit plus layering policy.
func (r RuleSet) Resolve(kind catalog.ContainmentKind, conductorCount int) (maxFillPct float64, layersEnabled bool, maxLayers int) {
	maxFillPct = r.FillLimitPct(kind, conductorCount)
	layersEnabled, maxLayers = r.LayersRule(kind)
	return maxFillPct, layersEnabled, maxLayers
}

// EffectiveLimit resolves the limit with the full fallback chain: preset
// rules, then the material's own declared maximum, then the fixed default
// for the kind.
func (r RuleSet) EffectiveLimit(kind catalog.ContainmentKind, conductorCount int, materialMaxPct float64) float64 {
	if pct := r.FillLimitPct(kind, conductorCount); pct > 0 {
		return pct
	}
	if materialMaxPct > 0 {
		return materialMaxPct
	}
	if catalog.NormalizeKind(string(kind)).IsTray() {
		return DefaultTrayFillPct
	}
	return DefaultDuctFillPct
}
