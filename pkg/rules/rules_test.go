package rules

import (
	"path/filepath"
	"testing"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/errors"
)

func TestFillLimitPctDuctRanges(t *testing.T) {
	rs := Default().Presets[0].Rules

	tests := []struct {
		count int
		want  float64
	}{
		{1, 50},
		{2, 33},
		{10, 33},
		{999, 33},
		{1000, 33}, // past all ranges: last range is the fallback
		{0, 33},    // below all ranges: same fallback
	}
	for _, tt := range tests {
		if got := rs.FillLimitPct(catalog.KindDuct, tt.count); got != tt.want {
			t.Errorf("FillLimitPct(duct, %d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestFillLimitPctNoRanges(t *testing.T) {
	var rs RuleSet
	if got := rs.FillLimitPct(catalog.KindDuct, 3); got != 0 {
		t.Errorf("no ranges should resolve to 0, got %v", got)
	}
}

func TestFillLimitPctTray(t *testing.T) {
	rs := Default().Presets[0].Rules
	if got := rs.FillLimitPct(catalog.KindEPC, 5); got != 40 {
		t.Errorf("FillLimitPct(epc) = %v, want 40", got)
	}
	if got := rs.FillLimitPct(catalog.KindBPC, 5); got != 40 {
		t.Errorf("FillLimitPct(bpc) = %v, want 40", got)
	}
}

func TestLayersRule(t *testing.T) {
	rs := Default().Presets[0].Rules

	enabled, max := rs.LayersRule(catalog.KindEPC)
	if !enabled || max != 2 {
		t.Errorf("epc layers = %v,%d, want true,2", enabled, max)
	}
	enabled, max = rs.LayersRule(catalog.KindBPC)
	if enabled || max != 1 {
		t.Errorf("bpc layers = %v,%d, want false,1", enabled, max)
	}
	enabled, max = rs.LayersRule(catalog.KindDuct)
	if enabled || max != 1 {
		t.Errorf("ducts never layer, got %v,%d", enabled, max)
	}

	// Zero max_layers coerces to 1.
	var zero RuleSet
	if _, max := zero.LayersRule(catalog.KindEPC); max != 1 {
		t.Errorf("max layers should coerce to 1, got %d", max)
	}
}

func TestEffectiveLimitFallbackChain(t *testing.T) {
	preset := Default().Presets[0].Rules
	var empty RuleSet

	// Preset wins over material.
	if got := preset.EffectiveLimit(catalog.KindDuct, 1, 25); got != 50 {
		t.Errorf("preset should win, got %v", got)
	}
	// Material's own limit when the preset has nothing.
	if got := empty.EffectiveLimit(catalog.KindDuct, 1, 25); got != 25 {
		t.Errorf("material limit should apply, got %v", got)
	}
	// Fixed defaults when both are absent.
	if got := empty.EffectiveLimit(catalog.KindDuct, 1, 0); got != DefaultDuctFillPct {
		t.Errorf("duct default = %v, want %v", got, DefaultDuctFillPct)
	}
	if got := empty.EffectiveLimit(catalog.KindEPC, 1, 0); got != DefaultTrayFillPct {
		t.Errorf("tray default = %v, want %v", got, DefaultTrayFillPct)
	}
}

func TestRulesForFallback(t *testing.T) {
	doc := &Doc{
		SchemaVersion:         DocSchemaVersion,
		ActiveDefaultPresetID: "B",
		Presets: []Preset{
			{ID: "A", Rules: RuleSet{EPC: TrayRule{FillMaxPct: 11}}},
			{ID: "B", Rules: RuleSet{EPC: TrayRule{FillMaxPct: 22}}},
		},
	}

	if got := doc.RulesFor("A").EPC.FillMaxPct; got != 11 {
		t.Errorf("requested preset should win, got %v", got)
	}
	if got := doc.RulesFor("missing").EPC.FillMaxPct; got != 22 {
		t.Errorf("active default should be the fallback, got %v", got)
	}

	doc.ActiveDefaultPresetID = "also-missing"
	if got := doc.RulesFor("").EPC.FillMaxPct; got != 11 {
		t.Errorf("first preset should be the last fallback, got %v", got)
	}

	var nilDoc *Doc
	if got := nilDoc.RulesFor("X"); got.EPC.FillMaxPct != 0 {
		t.Error("nil doc should resolve to the zero rule set")
	}
}

func TestParseDocSchemaVersion(t *testing.T) {
	_, err := ParseDoc([]byte(`{"schema_version":2,"presets":[]}`))
	if !errors.Is(err, errors.ErrCodeInvalidSchema) {
		t.Errorf("wrong schema_version should fail, got %v", err)
	}
}

func TestParseDocDropsMalformedPresets(t *testing.T) {
	doc, err := ParseDoc([]byte(`{"schema_version":1,"presets":[
		{"id":"OK","rules":{"epc":{"fill_max_pct":40}}},
		{"rules":{}},
		"not an object"
	]}`))
	if err != nil {
		t.Fatalf("ParseDoc error: %v", err)
	}
	if len(doc.Presets) != 1 || doc.Presets[0].ID != "OK" {
		t.Errorf("malformed presets should be dropped, got %+v", doc.Presets)
	}
	if doc.ActiveDefaultPresetID != "OK" {
		t.Errorf("active default should backfill to first preset, got %q", doc.ActiveDefaultPresetID)
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "fill_rules_presets.json")

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(doc.Presets) != 1 || doc.Presets[0].ID != "CL_RIC" {
		t.Fatalf("missing file should yield defaults, got %+v", doc.Presets)
	}

	// The file was created; a second load reads it back.
	doc2, err := Load(path)
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if doc2.Presets[0].ID != "CL_RIC" {
		t.Error("persisted defaults should round-trip")
	}
}

func TestAddUpdateDelete(t *testing.T) {
	doc := Default()

	p := Preset{ID: "IEC", Name: "IEC 61537"}
	if err := Add(doc, p); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := Add(doc, p); !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("duplicate Add should fail, got %v", err)
	}

	p.Name = "IEC 61537 (rev)"
	if err := Update(doc, p); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := Update(doc, Preset{ID: "nope"}); !errors.Is(err, errors.ErrCodePresetNotFound) {
		t.Errorf("Update of missing preset should fail, got %v", err)
	}

	doc.ActiveDefaultPresetID = "IEC"
	if err := Delete(doc, "IEC"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if doc.ActiveDefaultPresetID != "CL_RIC" {
		t.Errorf("deleting the active preset should repoint the default, got %q", doc.ActiveDefaultPresetID)
	}
	if err := Delete(doc, "CL_RIC"); !errors.Is(err, errors.ErrCodeInvalidPreset) {
		t.Errorf("deleting the last preset should fail, got %v", err)
	}
}

func TestMakeID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Chile (RIC)", "CHILE_RIC"},
		{"  iec 61537  ", "IEC_61537"},
		{"***", "PRESET"},
	}
	for _, tt := range tests {
		if got := MakeID(tt.in); got != tt.want {
			t.Errorf("MakeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequiredLayers(t *testing.T) {
	tests := []struct {
		used, clear float64
		want        int
	}{
		{600, 300, 2},
		{601, 300, 3},
		{300, 300, 1},
		{0, 300, 1},
		{100, 0, 1},
	}
	for _, tt := range tests {
		if got := RequiredLayers(tt.used, tt.clear); got != tt.want {
			t.Errorf("RequiredLayers(%v, %v) = %d, want %d", tt.used, tt.clear, got, tt.want)
		}
	}
}

func TestCountConductors(t *testing.T) {
	if got := CountConductors([]int{3, 0, 1}); got != 5 {
		t.Errorf("CountConductors = %d, want 5", got)
	}
	if got := CountConductors(nil); got != 0 {
		t.Errorf("CountConductors(nil) = %d, want 0", got)
	}
}
