package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/engine"
	"github.com/ifuentes/raceway/pkg/errors"
	"github.com/ifuentes/raceway/pkg/plan"
	"github.com/ifuentes/raceway/pkg/rules"
)

// Workspace is everything a command needs for one pass: the loaded project,
// the merged catalog, the preset document, and the warnings accumulated
// while loading.
type Workspace struct {
	Config   *Config
	Project  *plan.Project
	Catalog  *catalog.Effective
	Presets  *rules.Doc
	Warnings []string
}

// loadWorkspace reads the config, the libraries, the preset document, and
// the project. A missing library is a warning; a missing project is an
// error.
func (c *CLI) loadWorkspace() (*Workspace, error) {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{Config: cfg}

	var sources []catalog.Source
	for _, ref := range cfg.EnabledLibraries() {
		path := cfg.ResolvePath(ref.Path)
		res, err := catalog.Load(path)
		if err != nil {
			if errors.Is(err, errors.ErrCodeFileNotFound) {
				ws.Warnings = append(ws.Warnings, fmt.Sprintf("library not found, skipped: %s", path))
				continue
			}
			return nil, err
		}
		ws.Warnings = append(ws.Warnings, res.Warnings...)
		sources = append(sources, catalog.Source{Label: filepath.Base(path), Doc: res.Doc})
	}
	ws.Catalog = catalog.Merge(sources)
	ws.Warnings = append(ws.Warnings, ws.Catalog.Warnings...)

	presets, err := rules.Load(cfg.ResolvePath(cfg.PresetsFile))
	if err != nil {
		return nil, err
	}
	ws.Presets = presets

	project, err := plan.Load(cfg.ResolvePath(cfg.Project))
	if err != nil {
		return nil, err
	}
	ws.Project = project

	return ws, nil
}

// PresetID resolves the preset to use: config selection first, then the
// project's active preset.
func (w *Workspace) PresetID() string {
	if w.Config.Preset != "" {
		return w.Config.Preset
	}
	return w.Project.ActivePresetID
}

// Snapshot freezes the workspace for one recalculation pass.
func (w *Workspace) Snapshot() engine.Snapshot {
	return engine.NewSnapshot(w.Project, w.Catalog, w.Presets, w.PresetID())
}
