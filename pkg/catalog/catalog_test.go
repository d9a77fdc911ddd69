package catalog

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ifuentes/raceway/pkg/errors"
)

func materialDoc(t *testing.T, body string) *LoadResult {
	t.Helper()
	res, err := Parse([]byte(body), "test.lib")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return res
}

func TestParseUnsupportedKind(t *testing.T) {
	_, err := Parse([]byte(`{"schema_version":"1.0","kind":"mystery_library"}`), "bad.lib")
	if err == nil {
		t.Fatal("unsupported kind should be a hard load error")
	}
	if !errors.Is(err, errors.ErrCodeUnsupportedKind) {
		t.Errorf("expected UNSUPPORTED_KIND, got %v", err)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`), "bad.lib")
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("expected INVALID_DOCUMENT, got %v", err)
	}
}

func TestParseSchemaVersionWarning(t *testing.T) {
	res := materialDoc(t, `{"schema_version":"2.0","kind":"material_library"}`)
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "schema_version") {
			found = true
		}
	}
	if !found {
		t.Errorf("mismatched schema_version should warn, got: %v", res.Warnings)
	}
}

func TestParseMalformedItemSkipped(t *testing.T) {
	res := materialDoc(t, `{"schema_version":"1.0","kind":"material_library",
		"conductors":["not an object",{"uid":"c1","code":"CU-10","outer_diameter_mm":12}]}`)
	if len(res.Doc.Conductors) != 1 {
		t.Fatalf("expected 1 conductor, got %d", len(res.Doc.Conductors))
	}
	if res.Doc.Conductors[0].UID != "c1" {
		t.Errorf("wrong conductor kept: %+v", res.Doc.Conductors[0])
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "malformed") {
			found = true
		}
	}
	if !found {
		t.Errorf("malformed item should warn, got: %v", res.Warnings)
	}
}

func TestParseExtraFieldsPreserved(t *testing.T) {
	res := materialDoc(t, `{"schema_version":"1.0","kind":"material_library",
		"conductors":[{"uid":"c1","code":"CU-10","voltage_class":"0.6/1kV"}]}`)
	c := res.Doc.Conductors[0]
	if c.Extra["voltage_class"] != "0.6/1kV" {
		t.Errorf("unknown field should land in Extra, got %v", c.Extra)
	}
}

func TestNormalizeAssignsIdentity(t *testing.T) {
	doc := &Document{
		Kind: KindMaterialLibrary,
		Ducts: []Duct{
			{Nominal: `1 1/2"`, Standard: "PVC SCH40", InnerDiameterMM: 40.9},
		},
	}
	var warnings []string
	changed := Normalize(doc, &warnings, "test.lib")
	if !changed {
		t.Error("Normalize should report changes")
	}

	d := doc.Ducts[0]
	if d.UID == "" {
		t.Error("missing uid should be assigned")
	}
	if d.Code != "1_12_PVC_SCH40" {
		t.Errorf("duct code slug = %q", d.Code)
	}
	if d.Name == "" {
		t.Error("missing name should be backfilled")
	}
}

func TestNormalizeDuplicateCodeWarning(t *testing.T) {
	doc := &Document{
		Kind: KindMaterialLibrary,
		Conductors: []Conductor{
			{UID: "a", Code: "CU-10"},
			{UID: "b", Code: "cu-10"},
		},
	}
	var warnings []string
	Normalize(doc, &warnings, "test.lib")
	if len(warnings) != 1 || !strings.Contains(warnings[0], "duplicate code") {
		t.Errorf("expected one duplicate code warning, got %v", warnings)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1 1/2 PVC SCH40", "1_12_PVC_SCH40"},
		{"emt-2.inch", "EMT_2_INCH"},
		{"__a__b__", "A_B"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func mergeFixture() []Source {
	low := &Document{
		Kind: KindMaterialLibrary,
		Ducts: []Duct{
			{UID: "d1", Code: "PVC_2", Name: "PVC 2 (base)", InnerDiameterMM: 52.5},
			{UID: "d2", Code: "PVC_4", InnerDiameterMM: 102.3},
		},
		Rules: Rules{Defaults: map[string]ServiceDefaults{"control": {MaxFillPercent: 35}}},
	}
	high := &Document{
		Kind: KindMaterialLibrary,
		Ducts: []Duct{
			{UID: "d1", Code: "PVC_2", Name: "PVC 2 (project)", InnerDiameterMM: 52.5},
		},
		Rules: Rules{Defaults: map[string]ServiceDefaults{"control": {MaxFillPercent: 30}}},
	}
	return []Source{{Label: "base.lib", Doc: low}, {Label: "project.lib", Doc: high}}
}

func TestMergePriority(t *testing.T) {
	eff := Merge(mergeFixture())

	d, ok := eff.DuctByUID("d1")
	if !ok {
		t.Fatal("d1 should resolve")
	}
	if d.Name != "PVC 2 (project)" {
		t.Errorf("higher priority library should win, got %q", d.Name)
	}

	dups := 0
	for _, w := range eff.Warnings {
		if strings.Contains(w, "duplicate") {
			dups++
			if !strings.Contains(w, "base.lib") || !strings.Contains(w, "project.lib") {
				t.Errorf("duplicate warning should name both sources: %s", w)
			}
		}
	}
	if dups != 1 {
		t.Errorf("expected exactly one duplicate warning, got %d: %v", dups, eff.Warnings)
	}

	// Later rule defaults override earlier ones.
	if got := eff.Rules.Defaults["control"].MaxFillPercent; got != 30 {
		t.Errorf("rule defaults should be overridden, got %v", got)
	}
}

func TestMergeDeterminism(t *testing.T) {
	a := Merge(mergeFixture())
	b := Merge(mergeFixture())
	if !reflect.DeepEqual(a.Ducts, b.Ducts) {
		t.Error("two merges of the same input should produce identical catalogs")
	}
	if !reflect.DeepEqual(a.Warnings, b.Warnings) {
		t.Error("two merges of the same input should produce identical warnings")
	}
}

func TestMergeDropsUnidentifiedItems(t *testing.T) {
	doc := &Document{
		Kind:  KindMaterialLibrary,
		Ducts: []Duct{{InnerDiameterMM: 40}},
	}
	eff := Merge([]Source{{Label: "x.lib", Doc: doc}})
	if len(eff.Ducts) != 0 {
		t.Error("item without uid or code should be dropped")
	}
	if len(eff.Warnings) != 1 || !strings.Contains(eff.Warnings[0], "without identifier") {
		t.Errorf("dropped item should warn, got %v", eff.Warnings)
	}
}

func TestParseNominalInches(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{`2"`, 2, true},
		{`1 1/2"`, 1.5, true},
		{"1-1/2", 1.5, true},
		{"3/4", 0.75, true},
		{"2 in", 2, true},
		{"4", 4, true},
		{"50mm", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNominalInches(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseNominalInches(%q) = %v,%v, want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseNominalMM(t *testing.T) {
	if got, ok := ParseNominalMM("50 mm"); !ok || got != 50 {
		t.Errorf("ParseNominalMM(50 mm) = %v,%v", got, ok)
	}
	if _, ok := ParseNominalMM(`2"`); ok {
		t.Error("inch nominal should not parse as mm")
	}
}

func TestParseRectSizeMM(t *testing.T) {
	tests := []struct {
		in   string
		w, h float64
		ok   bool
	}{
		{"300x100", 300, 100, true},
		{"30x10 cm", 300, 100, true},
		{"300 x 100 mm", 300, 100, true},
		{`12x4"`, 304.8, 101.6, true},
		{"300,5x100", 300.5, 100, true},
		{"300", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, ok := ParseRectSizeMM(tt.in)
		if ok != tt.ok || (ok && (math.Abs(w-tt.w) > 1e-9 || math.Abs(h-tt.h) > 1e-9)) {
			t.Errorf("ParseRectSizeMM(%q) = %v,%v,%v, want %v,%v,%v", tt.in, w, h, ok, tt.w, tt.h, tt.ok)
		}
	}
}

func TestLookupChain(t *testing.T) {
	doc := &Document{
		Kind: KindMaterialLibrary,
		Conductors: []Conductor{
			{UID: "c1", Code: "CU-10", Name: "Cobre 10mm2", OuterDiameterMM: 8},
		},
		Ducts: []Duct{
			{UID: "d1", Code: "PVC_2", Nominal: `2"`, InnerDiameterMM: 52.5},
		},
		EPC: []TrayProfile{
			{UID: "t1", Code: "EPC_300", InnerWidthMM: 300, InnerHeightMM: 100},
		},
	}
	eff := Merge([]Source{{Label: "x.lib", Doc: doc}})

	// uid, code, and name all resolve the conductor.
	for _, ref := range []string{"c1", "cu-10", "cobre 10mm2"} {
		if _, ok := eff.ResolveConductor(ref); !ok {
			t.Errorf("ResolveConductor(%q) should resolve", ref)
		}
	}

	// Ducts resolve by uid, code, and matching nominal.
	for _, ref := range []string{"d1", "pvc_2", `2"`, "2 in"} {
		if _, ok := eff.ResolveDuct(ref); !ok {
			t.Errorf("ResolveDuct(%q) should resolve", ref)
		}
	}

	// Trays resolve by size in either orientation.
	for _, ref := range []string{"t1", "300x100", "100x300", "30x10cm"} {
		if _, ok := eff.ResolveTray(KindEPC, ref); !ok {
			t.Errorf("ResolveTray(%q) should resolve", ref)
		}
	}
	if _, ok := eff.ResolveTray(KindBPC, "300x100"); ok {
		t.Error("epc profile should not resolve from the bpc family")
	}
}

func TestUsableArea(t *testing.T) {
	d := Duct{InnerDiameterMM: 100}
	if got := d.UsableArea(); got < 7853 || got > 7855 {
		t.Errorf("duct usable area = %v, want ~7854", got)
	}
	d.UsableAreaMM2 = 5000
	if got := d.UsableArea(); got != 5000 {
		t.Errorf("declared usable area should win, got %v", got)
	}

	tray := TrayProfile{InnerWidthMM: 300, InnerHeightMM: 100}
	if got := tray.UsableArea(); got != 30000 {
		t.Errorf("tray usable area = %v, want 30000", got)
	}
}

func TestRequiresSeparation(t *testing.T) {
	rules := Rules{Separation: []SeparationRule{
		{IfServices: []string{"power", "control"}, Requires: "separate_containment"},
	}}
	if !rules.RequiresSeparation("Power", "control") {
		t.Error("declared pair should require separation")
	}
	if rules.RequiresSeparation("power", "power") {
		t.Error("same service never requires separation")
	}
	if rules.RequiresSeparation("power", "comms") {
		t.Error("undeclared pair should not require separation")
	}
}

func TestLoadIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "materials.lib.json")
	doc := `{"schema_version":"1.0","kind":"material_library",
		"conductors":[{"uid":"c1","code":"CU-10","outer_diameter_mm":12}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := LoadIfChanged(nil, path)
	if err != nil {
		t.Fatalf("LoadIfChanged: %v", err)
	}
	if first == nil || len(first.Doc.Conductors) != 1 {
		t.Fatalf("unexpected first load: %+v", first)
	}

	second, err := LoadIfChanged(first, path)
	if err != nil {
		t.Fatalf("LoadIfChanged reuse: %v", err)
	}
	if second != first {
		t.Error("unchanged file should reuse the cached document")
	}

	// Touch the file with a different mtime to force a reload.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}
	third, err := LoadIfChanged(first, path)
	if err != nil {
		t.Fatalf("LoadIfChanged reload: %v", err)
	}
	if third == first {
		t.Error("changed mtime should reload the document")
	}

	missing, err := LoadIfChanged(nil, filepath.Join(dir, "nope.json"))
	if err != nil || missing != nil {
		t.Errorf("missing file should yield nil, nil; got %v, %v", missing, err)
	}
}
