package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// InputsHash computes a SHA-256 over the recalculation inputs of a project.
// The hash changes exactly when a result-relevant input changes: view state,
// background imagery, and derived fill_ props are excluded; key order is
// canonical so the hash is stable across runs.
func InputsHash(p *Project, presetID string) string {
	payload := hashPayload{
		Canvas:    normalizeCanvas(&p.Canvas),
		Circuits:  hashCircuits{Source: p.Circuits.Source, Items: p.Circuits.Items},
		PresetID:  presetID,
		Profile:   p.ActiveProfile,
		Libraries: normalizeLibraries(p.Libraries),
		Trunks:    p.Trunks,
	}
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Field order is fixed and part of the hash contract.
type hashPayload struct {
	Canvas    hashCanvas    `json:"canvas"`
	Circuits  hashCircuits  `json:"circuits"`
	PresetID  string        `json:"active_fill_rules_preset_id"`
	Profile   string        `json:"active_profile"`
	Libraries []hashLibrary `json:"libraries"`
	Trunks    []Trunk       `json:"troncales"`
}

type hashCanvas struct {
	Nodes []hashNode `json:"nodes"`
	Edges []hashEdge `json:"edges"`
}

type hashNode struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	LibraryItemID string  `json:"library_item_id"`
}

type hashEdge struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Kind    string    `json:"kind"`
	LengthM *float64  `json:"length_m"`
	Props   EdgeProps `json:"props"`
}

type hashCircuits struct {
	Source string    `json:"source"`
	Items  []Circuit `json:"items"`
}

type hashLibrary struct {
	Path     string `json:"path"`
	Enabled  bool   `json:"enabled"`
	Priority int    `json:"priority"`
}

func normalizeCanvas(c *Canvas) hashCanvas {
	out := hashCanvas{
		Nodes: make([]hashNode, 0, len(c.Nodes)),
		Edges: make([]hashEdge, 0, len(c.Edges)),
	}
	for _, n := range c.Nodes {
		out.Nodes = append(out.Nodes, hashNode{
			ID: n.ID, Type: n.Type, Name: n.Name, X: n.X, Y: n.Y,
			LibraryItemID: n.LibraryItemID,
		})
	}
	for _, e := range c.Edges {
		out.Edges = append(out.Edges, hashEdge{
			ID: e.ID, From: e.FromNode, To: e.ToNode,
			Kind: string(e.ContainmentKind), LengthM: e.LengthM,
			Props: normalizeProps(e.Props),
		})
	}
	return out
}

// normalizeProps strips derived fill_ entries from the open prop map so
// recomputed outputs never invalidate the input hash.
func normalizeProps(p EdgeProps) EdgeProps {
	if len(p.Extra) == 0 {
		return p
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if !strings.HasPrefix(k, "fill_") {
			keys = append(keys, k)
		}
	}
	if len(keys) == len(p.Extra) {
		return p
	}
	sort.Strings(keys)
	extra := make(map[string]any, len(keys))
	for _, k := range keys {
		extra[k] = p.Extra[k]
	}
	p.Extra = extra
	return p
}

func normalizeLibraries(libs []LibraryRef) []hashLibrary {
	out := make([]hashLibrary, 0, len(libs))
	for _, l := range libs {
		out = append(out, hashLibrary{Path: l.Path, Enabled: l.Enabled, Priority: l.Priority})
	}
	return out
}
