package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ifuentes/raceway/pkg/plan"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "raceway" {
		t.Errorf("Use = %q, want raceway", root.Use)
	}

	want := []string{"validate", "recalc", "results", "graph", "section", "presets", "cache", "serve"}
	have := map[string]bool{}
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestLoadWorkspace(t *testing.T) {
	dir := t.TempDir()

	lib := `{"schema_version":"1.0","kind":"material_library",
		"conductors":[{"uid":"c1","code":"CU-10","outer_diameter_mm":10}],
		"containments":{"ducts":[{"uid":"d1","code":"D-50","usable_area_mm2":1000}]}}`
	if err := os.WriteFile(filepath.Join(dir, "materials.lib.json"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}

	project := &plan.Project{
		Name: "test site",
		Canvas: plan.Canvas{
			Nodes: []plan.Node{
				{ID: "a", Type: plan.NodeEquipment},
				{ID: "b", Type: plan.NodeEquipment},
			},
			Edges: []plan.Edge{{ID: "e1", FromNode: "a", ToNode: "b"}},
		},
	}
	if err := plan.Save(filepath.Join(dir, "project.json"), project); err != nil {
		t.Fatal(err)
	}

	cfg := `
project = "project.json"
presets_file = "fill_rules.json"

[[libraries]]
path = "materials.lib.json"
priority = 10
enabled = true

[[libraries]]
path = "missing.lib.json"
priority = 20
enabled = true
`
	cfgPath := filepath.Join(dir, "raceway.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = cfgPath

	ws, err := c.loadWorkspace()
	if err != nil {
		t.Fatalf("loadWorkspace: %v", err)
	}
	if ws.Project.Name != "test site" {
		t.Errorf("project name = %q", ws.Project.Name)
	}
	if len(ws.Catalog.Conductors) != 1 || len(ws.Catalog.Ducts) != 1 {
		t.Errorf("catalog = %d conductors, %d ducts; want 1, 1",
			len(ws.Catalog.Conductors), len(ws.Catalog.Ducts))
	}

	// The missing library is a warning, not an error.
	found := false
	for _, w := range ws.Warnings {
		if strings.Contains(w, "missing.lib.json") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a skipped-library warning, got %v", ws.Warnings)
	}

	// The preset document was created with defaults.
	if len(ws.Presets.Presets) == 0 {
		t.Error("preset document should carry the built-in default")
	}
	snap := ws.Snapshot()
	if snap.Rules.Duct.FillByConductors == nil {
		t.Error("snapshot rules should resolve to the default preset")
	}
}
