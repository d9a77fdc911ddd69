package rules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ifuentes/raceway/pkg/errors"
)

// Store manages the preset document on disk. Writes are atomic (temp file
// plus rename) so a crash mid-save never corrupts the document.

// Default returns the built-in preset document used when no document exists
// yet: the Chilean RIC limits.
func Default() *Doc {
	return &Doc{
		SchemaVersion: DocSchemaVersion,
		Presets: []Preset{
			{
				ID:   "CL_RIC",
				Name: "Chile (RIC)",
				Rules: RuleSet{
					Duct: DuctRules{FillByConductors: []DuctRange{
						{Min: 1, Max: 1, FillMaxPct: 50},
						{Min: 2, Max: 999, FillMaxPct: 33},
					}},
					BPC: TrayRule{FillMaxPct: 40, LayersEnabled: false, MaxLayers: 1},
					EPC: TrayRule{FillMaxPct: 40, LayersEnabled: true, MaxLayers: 2},
				},
			},
		},
		ActiveDefaultPresetID: "CL_RIC",
	}
}

// ParseDoc parses a preset document, tolerating malformed numeric fields by
// treating them as absent. A wrong schema_version is a hard error.
func ParseDoc(data []byte) (*Doc, error) {
	var raw struct {
		SchemaVersion         int               `json:"schema_version"`
		Presets               []json.RawMessage `json:"presets"`
		ActiveDefaultPresetID string            `json:"active_default_preset_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPreset, err, "parse preset document")
	}
	if raw.SchemaVersion != DocSchemaVersion {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "preset schema_version expected %d, got %d", DocSchemaVersion, raw.SchemaVersion)
	}

	doc := &Doc{SchemaVersion: raw.SchemaVersion, ActiveDefaultPresetID: raw.ActiveDefaultPresetID}
	for _, pr := range raw.Presets {
		var p Preset
		// A malformed preset entry is dropped rather than failing the
		// document; resolution treats absent fields as zero.
		if err := json.Unmarshal(pr, &p); err != nil || p.ID == "" {
			continue
		}
		doc.Presets = append(doc.Presets, p)
	}
	if doc.ActiveDefaultPresetID == "" && len(doc.Presets) > 0 {
		doc.ActiveDefaultPresetID = doc.Presets[0].ID
	}
	return doc, nil
}

// Load reads the preset document at path. A missing file yields the
// built-in defaults, and the file is created so later edits have a base.
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		doc := Default()
		if err := Save(path, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPreset, err, "read %s", path)
	}
	return ParseDoc(data)
}

// Save writes the preset document atomically.
func Save(path string, doc *Doc) error {
	if doc.SchemaVersion != DocSchemaVersion {
		return errors.New(errors.ErrCodeInvalidSchema, "preset schema_version expected %d, got %d", DocSchemaVersion, doc.SchemaVersion)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode preset document")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Add appends a new preset. The id must be unique.
func Add(doc *Doc, preset Preset) error {
	if preset.ID == "" {
		return errors.New(errors.ErrCodeInvalidPreset, "preset id is required")
	}
	if idx := findPreset(doc.Presets, preset.ID); idx >= 0 {
		return errors.New(errors.ErrCodeInvalidPreset, "preset %q already exists", preset.ID)
	}
	doc.Presets = append(doc.Presets, preset)
	if doc.ActiveDefaultPresetID == "" {
		doc.ActiveDefaultPresetID = preset.ID
	}
	return nil
}

// Update replaces an existing preset in place.
func Update(doc *Doc, preset Preset) error {
	if preset.ID == "" {
		return errors.New(errors.ErrCodeInvalidPreset, "preset id is required")
	}
	idx := findPreset(doc.Presets, preset.ID)
	if idx < 0 {
		return errors.New(errors.ErrCodePresetNotFound, "preset %q not found", preset.ID)
	}
	doc.Presets[idx] = preset
	return nil
}

// Delete removes a preset. The last preset cannot be deleted; deleting the
// active default repoints it at the first remaining preset.
func Delete(doc *Doc, presetID string) error {
	if len(doc.Presets) <= 1 {
		return errors.New(errors.ErrCodeInvalidPreset, "cannot delete the last preset")
	}
	idx := findPreset(doc.Presets, presetID)
	if idx < 0 {
		return errors.New(errors.ErrCodePresetNotFound, "preset %q not found", presetID)
	}
	doc.Presets = append(doc.Presets[:idx], doc.Presets[idx+1:]...)
	if doc.ActiveDefaultPresetID == presetID {
		doc.ActiveDefaultPresetID = doc.Presets[0].ID
	}
	return nil
}

// MakeID derives a preset id from a display name: upper-cased, with runs of
// non-alphanumerics collapsed to single underscores.
func MakeID(name string) string {
	var b strings.Builder
	for _, ch := range strings.ToUpper(strings.TrimSpace(name)) {
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	id := strings.Join(parts, "_")
	if id == "" {
		return "PRESET"
	}
	return id
}

func findPreset(presets []Preset, id string) int {
	for i, p := range presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}
