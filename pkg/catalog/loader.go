package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ifuentes/raceway/pkg/errors"
)

// LoadResult is the outcome of loading one library document.
type LoadResult struct {
	Doc      *Document
	Warnings []string
}

// Load reads and parses a library document from disk.
// Structurally invalid documents (bad JSON, unsupported kind) return an
// error; malformed individual items are skipped and recorded as warnings.
func Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "library not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	return Parse(data, sourceLabel(path))
}

// Parse parses a library document from raw bytes.
// The sourceLabel names the document in warnings (typically the file name).
func Parse(data []byte, sourceLabel string) (*LoadResult, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s", sourceLabel)
	}

	var warnings []string

	schema := asString(raw["schema_version"])
	if schema != SchemaVersion {
		warnings = append(warnings, fmt.Sprintf("%s: schema_version expected %s, got: %s", sourceLabel, SchemaVersion, schema))
	}

	kind := DocKind(asString(raw["kind"]))
	switch kind {
	case KindMaterialLibrary, KindTemplateLibrary, KindEquipmentLibrary:
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedKind, "kind not supported: %s", kind)
	}

	doc := &Document{SchemaVersion: schema, Kind: kind}

	switch kind {
	case KindMaterialLibrary:
		doc.Conductors = decodeConductors(asList(raw["conductors"]), &warnings, sourceLabel)
		cont := asMap(raw["containments"])
		doc.Ducts = decodeDucts(asList(cont["ducts"]), &warnings, sourceLabel)
		doc.EPC = decodeTrays(asList(cont["epc"]), "epc", &warnings, sourceLabel)
		doc.BPC = decodeTrays(asList(cont["bpc"]), "bpc", &warnings, sourceLabel)
		doc.Rules = decodeRules(asMap(raw["rules"]))
		Normalize(doc, &warnings, sourceLabel)
	case KindTemplateLibrary:
		doc.Profiles = decodeEquipment(asList(raw["substation_profiles"]), "profiles", &warnings, sourceLabel)
		doc.EquipmentTemplates = decodeEquipment(asList(raw["equipment_templates"]), "equipment_templates", &warnings, sourceLabel)
		doc.ProposalRules = asMap(raw["proposal_rules"])
	case KindEquipmentLibrary:
		doc.EquipmentItems = decodeEquipment(asList(raw["items"]), "equipment_items", &warnings, sourceLabel)
	}

	return &LoadResult{Doc: doc, Warnings: warnings}, nil
}

// =============================================================================
// Document cache value object
// =============================================================================

// CachedDocument pairs a parsed document with the file state it was read
// from. It is an explicit cache value: callers hold it and pass it back to
// LoadIfChanged, which reloads only when the file changed on disk. There is
// no hidden mutable repository state.
type CachedDocument struct {
	Path     string
	ModTime  time.Time
	Doc      *Document
	Warnings []string
}

// LoadIfChanged returns a cached document for path, reusing prev when the
// file's modification time is unchanged. A missing file yields a nil result
// and no error so callers can treat it as an empty library.
func LoadIfChanged(prev *CachedDocument, path string) (*CachedDocument, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "stat %s", path)
	}

	if prev != nil && prev.Path == path && prev.ModTime.Equal(info.ModTime()) {
		return prev, nil
	}

	res, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &CachedDocument{
		Path:     path,
		ModTime:  info.ModTime(),
		Doc:      res.Doc,
		Warnings: res.Warnings,
	}, nil
}

// =============================================================================
// Item decoding
// =============================================================================

// Field names consumed by the typed structs; everything else lands in Extra.
var (
	conductorFields = fieldSet("uid", "code", "name", "label", "id", "service", "outer_diameter_mm", "area_mm2", "max_fill_percent")
	ductFields      = fieldSet("uid", "code", "name", "label", "id", "nominal", "standard", "inner_diameter_mm", "usable_area_mm2", "max_fill_percent")
	trayFields      = fieldSet("uid", "code", "name", "label", "id", "inner_width_mm", "inner_height_mm", "usable_area_mm2", "max_fill_percent")
	equipmentFields = fieldSet("uid", "code", "name", "label", "id")
)

func decodeConductors(items []any, warnings *[]string, source string) []Conductor {
	out := make([]Conductor, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("[conductors] %s: malformed item #%d skipped", source, i))
			continue
		}
		out = append(out, Conductor{
			UID:             asString(m["uid"]),
			Code:            itemCode(m),
			Name:            itemName(m),
			Service:         asString(m["service"]),
			OuterDiameterMM: asFloat(m["outer_diameter_mm"]),
			AreaMM2:         asFloat(m["area_mm2"]),
			MaxFillPercent:  asFloat(m["max_fill_percent"]),
			Extra:           extraFields(m, conductorFields),
		})
	}
	return out
}

func decodeDucts(items []any, warnings *[]string, source string) []Duct {
	out := make([]Duct, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("[ducts] %s: malformed item #%d skipped", source, i))
			continue
		}
		out = append(out, Duct{
			UID:             asString(m["uid"]),
			Code:            itemCode(m),
			Name:            itemName(m),
			Nominal:         asString(m["nominal"]),
			Standard:        asString(m["standard"]),
			InnerDiameterMM: asFloat(m["inner_diameter_mm"]),
			UsableAreaMM2:   asFloat(m["usable_area_mm2"]),
			MaxFillPercent:  asFloat(m["max_fill_percent"]),
			Extra:           extraFields(m, ductFields),
		})
	}
	return out
}

func decodeTrays(items []any, scope string, warnings *[]string, source string) []TrayProfile {
	out := make([]TrayProfile, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("[%s] %s: malformed item #%d skipped", scope, source, i))
			continue
		}
		out = append(out, TrayProfile{
			UID:            asString(m["uid"]),
			Code:           itemCode(m),
			Name:           itemName(m),
			InnerWidthMM:   asFloat(m["inner_width_mm"]),
			InnerHeightMM:  asFloat(m["inner_height_mm"]),
			UsableAreaMM2:  asFloat(m["usable_area_mm2"]),
			MaxFillPercent: asFloat(m["max_fill_percent"]),
			Extra:          extraFields(m, trayFields),
		})
	}
	return out
}

func decodeEquipment(items []any, scope string, warnings *[]string, source string) []EquipmentItem {
	out := make([]EquipmentItem, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			*warnings = append(*warnings, fmt.Sprintf("[%s] %s: malformed item #%d skipped", scope, source, i))
			continue
		}
		out = append(out, EquipmentItem{
			UID:   asString(m["uid"]),
			Code:  itemCode(m),
			Name:  itemName(m),
			Extra: extraFields(m, equipmentFields),
		})
	}
	return out
}

func decodeRules(m map[string]any) Rules {
	rules := Rules{Defaults: map[string]ServiceDefaults{}}
	for _, it := range asList(m["separation"]) {
		rm, ok := it.(map[string]any)
		if !ok {
			continue
		}
		rule := SeparationRule{Requires: asString(rm["requires"])}
		for _, s := range asList(rm["if_services"]) {
			if v := asString(s); v != "" {
				rule.IfServices = append(rule.IfServices, v)
			}
		}
		rules.Separation = append(rules.Separation, rule)
	}
	for service, v := range asMap(m["defaults"]) {
		dm, ok := v.(map[string]any)
		if !ok {
			continue
		}
		rules.Defaults[service] = ServiceDefaults{MaxFillPercent: asFloat(dm["max_fill_percent"])}
	}
	return rules
}

// itemCode prefers the explicit code but accepts the legacy id field.
func itemCode(m map[string]any) string {
	if code := asString(m["code"]); code != "" {
		return code
	}
	return asString(m["id"])
}

// itemName prefers name but accepts the legacy label field.
func itemName(m map[string]any) string {
	if name := asString(m["name"]); name != "" {
		return name
	}
	return asString(m["label"])
}

func extraFields(m map[string]any, known map[string]bool) map[string]any {
	var extra map[string]any
	for k, v := range m {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = v
	}
	return extra
}

func fieldSet(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// =============================================================================
// Value coercion
// =============================================================================

// asString renders a JSON value as a trimmed string.
// Numbers format without a trailing .0 so "1" and 1 compare equal.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// asFloat coerces a JSON value to float64. Malformed values are treated as
// absent and coerce to 0.
func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(t, ",", ".")), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return nil
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func sourceLabel(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}
