// Package catalog loads material library documents and merges them into an
// Effective Catalog: a read-only, priority-resolved view of all enabled
// libraries, indexed by stable uid and by normalized human code.
//
// Library items are tagged variant types (Conductor, Duct, TrayProfile) with
// a defined required-field set and an open Extra map for forward-compatible
// unknown fields. The engine only reads the typed fields; Extra is carried
// through untouched so round-tripping a document never loses data.
package catalog

import (
	"math"
	"strings"
)

// ContainmentKind identifies the physical containment family of a segment.
type ContainmentKind string

// Containment kinds.
const (
	KindDuct ContainmentKind = "duct"
	KindEPC  ContainmentKind = "epc"
	KindBPC  ContainmentKind = "bpc"
)

// IsTray reports whether the kind is one of the tray profile families.
func (k ContainmentKind) IsTray() bool {
	return k == KindEPC || k == KindBPC
}

// NormalizeKind maps user-facing kind aliases onto canonical kinds.
// Unrecognized values pass through lower-cased.
func NormalizeKind(kind string) ContainmentKind {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "tray", "trays", "bandeja":
		return KindEPC
	case "duct", "ducto", "conduit":
		return KindDuct
	default:
		return ContainmentKind(k)
	}
}

// =============================================================================
// Material Items
// =============================================================================

// Conductor is a cable type from a material library.
type Conductor struct {
	UID             string         `json:"uid" bson:"uid"`
	Code            string         `json:"code" bson:"code"`
	Name            string         `json:"name,omitempty" bson:"name,omitempty"`
	Service         string         `json:"service,omitempty" bson:"service,omitempty"`
	OuterDiameterMM float64        `json:"outer_diameter_mm,omitempty" bson:"outer_diameter_mm,omitempty"`
	AreaMM2         float64        `json:"area_mm2,omitempty" bson:"area_mm2,omitempty"`
	MaxFillPercent  float64        `json:"max_fill_percent,omitempty" bson:"max_fill_percent,omitempty"`
	Extra           map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// CrossSectionMM2 returns the cable's occupied cross-section.
// The declared area wins; otherwise it is computed from the outer diameter.
func (c Conductor) CrossSectionMM2() float64 {
	if c.AreaMM2 > 0 {
		return c.AreaMM2
	}
	if c.OuterDiameterMM > 0 {
		r := c.OuterDiameterMM / 2
		return math.Pi * r * r
	}
	return 0
}

// DisplayLabel returns the best human-readable identifier for the item.
func (c Conductor) DisplayLabel() string {
	return firstNonEmpty(c.Name, c.Code, c.UID)
}

// Identity returns the uid and the normalized code for merge indexing.
func (c Conductor) Identity() (uid, code string) {
	return c.UID, NormalizeCode(c.Code)
}

// Duct is a circular containment from a material library.
type Duct struct {
	UID             string         `json:"uid" bson:"uid"`
	Code            string         `json:"code" bson:"code"`
	Name            string         `json:"name,omitempty" bson:"name,omitempty"`
	Nominal         string         `json:"nominal,omitempty" bson:"nominal,omitempty"`
	Standard        string         `json:"standard,omitempty" bson:"standard,omitempty"`
	InnerDiameterMM float64        `json:"inner_diameter_mm,omitempty" bson:"inner_diameter_mm,omitempty"`
	UsableAreaMM2   float64        `json:"usable_area_mm2,omitempty" bson:"usable_area_mm2,omitempty"`
	MaxFillPercent  float64        `json:"max_fill_percent,omitempty" bson:"max_fill_percent,omitempty"`
	Extra           map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// UsableArea returns the duct's usable interior cross-section.
// The declared usable area wins; otherwise it is computed from the inner
// diameter. Returns 0 when neither is available.
func (d Duct) UsableArea() float64 {
	if d.UsableAreaMM2 > 0 {
		return d.UsableAreaMM2
	}
	if d.InnerDiameterMM > 0 {
		r := d.InnerDiameterMM / 2
		return math.Pi * r * r
	}
	return 0
}

// DisplayLabel returns the best human-readable identifier for the item.
func (d Duct) DisplayLabel() string {
	return firstNonEmpty(d.Name, d.Nominal, d.Code, d.UID)
}

// Identity returns the uid and the normalized code for merge indexing.
func (d Duct) Identity() (uid, code string) {
	return d.UID, NormalizeCode(d.Code)
}

// TrayProfile is a rectangular containment from a material library.
// It covers both tray profile families (epc, bpc); the family is determined
// by which document list the item came from, not by a field on the item.
type TrayProfile struct {
	UID            string         `json:"uid" bson:"uid"`
	Code           string         `json:"code" bson:"code"`
	Name           string         `json:"name,omitempty" bson:"name,omitempty"`
	InnerWidthMM   float64        `json:"inner_width_mm,omitempty" bson:"inner_width_mm,omitempty"`
	InnerHeightMM  float64        `json:"inner_height_mm,omitempty" bson:"inner_height_mm,omitempty"`
	UsableAreaMM2  float64        `json:"usable_area_mm2,omitempty" bson:"usable_area_mm2,omitempty"`
	MaxFillPercent float64        `json:"max_fill_percent,omitempty" bson:"max_fill_percent,omitempty"`
	Extra          map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// UsableArea returns the profile's usable interior cross-section.
// The declared usable area wins; otherwise it is inner width times height.
func (t TrayProfile) UsableArea() float64 {
	if t.UsableAreaMM2 > 0 {
		return t.UsableAreaMM2
	}
	if t.InnerWidthMM > 0 && t.InnerHeightMM > 0 {
		return t.InnerWidthMM * t.InnerHeightMM
	}
	return 0
}

// DisplayLabel returns the best human-readable identifier for the item.
func (t TrayProfile) DisplayLabel() string {
	return firstNonEmpty(t.Name, t.Code, t.UID)
}

// Identity returns the uid and the normalized code for merge indexing.
func (t TrayProfile) Identity() (uid, code string) {
	return t.UID, NormalizeCode(t.Code)
}

// EquipmentItem is a standalone equipment record from an equipment library.
// The engine does not evaluate equipment; items are merged and indexed so the
// consuming layers can resolve references.
type EquipmentItem struct {
	UID   string         `json:"uid" bson:"uid"`
	Code  string         `json:"code" bson:"code"`
	Name  string         `json:"name,omitempty" bson:"name,omitempty"`
	Extra map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// DisplayLabel returns the best human-readable identifier for the item.
func (e EquipmentItem) DisplayLabel() string {
	return firstNonEmpty(e.Name, e.Code, e.UID)
}

// Identity returns the uid and the normalized code for merge indexing.
func (e EquipmentItem) Identity() (uid, code string) {
	return e.UID, NormalizeCode(e.Code)
}

// =============================================================================
// Rules
// =============================================================================

// SeparationRule declares that circuits of the listed services must not
// share a containment.
type SeparationRule struct {
	IfServices []string `json:"if_services" bson:"if_services"`
	Requires   string   `json:"requires" bson:"requires"`
}

// ServiceDefaults carries per-service default limits from library rules.
type ServiceDefaults struct {
	MaxFillPercent float64 `json:"max_fill_percent,omitempty" bson:"max_fill_percent,omitempty"`
}

// Rules aggregates the rule sections of merged material libraries.
type Rules struct {
	Separation []SeparationRule           `json:"separation,omitempty" bson:"separation,omitempty"`
	Defaults   map[string]ServiceDefaults `json:"defaults,omitempty" bson:"defaults,omitempty"`
}

// RequiresSeparation reports whether any rule forbids the two services from
// sharing a containment. A rule applies when both services appear in its
// if_services list. Comparison is case-insensitive.
func (r Rules) RequiresSeparation(serviceA, serviceB string) bool {
	a := strings.ToLower(strings.TrimSpace(serviceA))
	b := strings.ToLower(strings.TrimSpace(serviceB))
	if a == "" || b == "" || a == b {
		return false
	}
	for _, rule := range r.Separation {
		if rule.Requires != "separate_containment" {
			continue
		}
		var hasA, hasB bool
		for _, s := range rule.IfServices {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case a:
				hasA = true
			case b:
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

// =============================================================================
// Documents
// =============================================================================

// DocKind identifies the library document type.
type DocKind string

// Supported document kinds.
const (
	KindMaterialLibrary  DocKind = "material_library"
	KindTemplateLibrary  DocKind = "template_library"
	KindEquipmentLibrary DocKind = "equipment_library"
)

// SchemaVersion is the library document version this engine understands.
// A document declaring another version loads with a warning.
const SchemaVersion = "1.0"

// Document is one parsed library document.
type Document struct {
	SchemaVersion string  `json:"schema_version"`
	Kind          DocKind `json:"kind"`

	// material_library payload
	Conductors []Conductor   `json:"conductors,omitempty"`
	Ducts      []Duct        `json:"-"`
	EPC        []TrayProfile `json:"-"`
	BPC        []TrayProfile `json:"-"`
	Rules      Rules         `json:"rules,omitempty"`

	// template_library payload. Templates are opaque to the engine and are
	// merged by identity only.
	Profiles           []EquipmentItem `json:"substation_profiles,omitempty"`
	EquipmentTemplates []EquipmentItem `json:"equipment_templates,omitempty"`
	ProposalRules      map[string]any  `json:"proposal_rules,omitempty"`

	// equipment_library payload
	EquipmentItems []EquipmentItem `json:"items,omitempty"`
}

// NormalizeCode lower-cases and trims a human code for index lookups.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
