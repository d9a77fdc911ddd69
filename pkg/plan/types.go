// Package plan holds the project documents the engine consumes: the canvas
// graph of nodes and containment segments, the circuit list, and library
// references. The engine never mutates a plan; every recalculation reads a
// frozen snapshot and produces fresh outputs.
package plan

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/errors"
)

// Node types on the canvas.
const (
	NodeEquipment = "equipment"
	NodeChamber   = "chamber"
	NodeJunction  = "junction"
)

// Node is a point on the canvas graph.
type Node struct {
	ID            string         `json:"id" bson:"id"`
	Type          string         `json:"type" bson:"type"`
	Name          string         `json:"name,omitempty" bson:"name,omitempty"`
	X             float64        `json:"x" bson:"x"`
	Y             float64        `json:"y" bson:"y"`
	LibraryItemID string         `json:"library_item_id,omitempty" bson:"library_item_id,omitempty"`
	Props         map[string]any `json:"props,omitempty" bson:"props,omitempty"`
}

// IsCut reports whether the node terminates trunk flood-fill: equipment and
// chambers always cut, junctions named GAP cut, and any node can opt in via
// the is_cut_node prop.
func (n Node) IsCut() bool {
	switch n.Type {
	case NodeEquipment, NodeChamber:
		return true
	case NodeJunction:
		if strings.EqualFold(strings.TrimSpace(n.Name), "GAP") {
			return true
		}
	}
	if v, ok := n.Props["is_cut_node"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// EdgeProps carries the per-segment settings an engineer edits.
type EdgeProps struct {
	// Quantity is the number of parallel containments on the run.
	Quantity int `json:"quantity,omitempty" bson:"quantity,omitempty"`

	// Size is the human-entered containment size (duct nominal or tray WxH).
	Size string `json:"size,omitempty" bson:"size,omitempty"`

	// MaterialUID references the containment material by stable uid.
	MaterialUID string `json:"duct_uid,omitempty" bson:"duct_uid,omitempty"`

	// Snapshots freeze the resolved material so a previously evaluated
	// segment stays stable when the catalog changes underneath it.
	DuctSnapshot *catalog.Duct        `json:"duct_snapshot,omitempty" bson:"duct_snapshot,omitempty"`
	TraySnapshot *catalog.TrayProfile `json:"tray_snapshot,omitempty" bson:"tray_snapshot,omitempty"`

	// Separator marks a tray run divided by a separation barrier, which
	// halves the usable area.
	Separator bool `json:"separator,omitempty" bson:"separator,omitempty"`

	// ServicePref reserves a parallel run for one electrical service.
	// Empty or "Libre" accepts any service.
	ServicePref string `json:"service_pref,omitempty" bson:"service_pref,omitempty"`

	// TrunkID groups the segment into a named trunk.
	TrunkID string `json:"trunk_id,omitempty" bson:"trunk_id,omitempty"`

	// Extra preserves unknown props for round-tripping. Keys with the
	// fill_ prefix are derived outputs and are excluded from input hashing.
	Extra map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

// Edge is one physical containment run between two nodes.
type Edge struct {
	ID              string                  `json:"id" bson:"id"`
	FromNode        string                  `json:"from_node" bson:"from_node"`
	ToNode          string                  `json:"to_node" bson:"to_node"`
	ContainmentKind catalog.ContainmentKind `json:"containment_kind,omitempty" bson:"containment_kind,omitempty"`
	LengthM         *float64                `json:"length_m,omitempty" bson:"length_m,omitempty"`
	Props           EdgeProps               `json:"props,omitempty" bson:"props,omitempty"`
}

// Kind returns the containment kind, defaulting to duct.
func (e Edge) Kind() catalog.ContainmentKind {
	if e.ContainmentKind == "" {
		return catalog.KindDuct
	}
	return catalog.NormalizeKind(string(e.ContainmentKind))
}

// ParallelQuantity returns the declared parallel containment count,
// coerced to at least 1.
func (e Edge) ParallelQuantity() int {
	if e.Props.Quantity < 1 {
		return 1
	}
	return e.Props.Quantity
}

// Canvas is the node/edge graph.
type Canvas struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeByID returns the node with the given id.
func (c *Canvas) NodeByID(id string) (Node, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeByID returns a pointer to the edge with the given id, for in-place
// prop updates (trunk assignment).
func (c *Canvas) EdgeByID(id string) (*Edge, bool) {
	for i := range c.Edges {
		if c.Edges[i].ID == id {
			return &c.Edges[i], true
		}
	}
	return nil, false
}

// Circuit is a demand for routing one cable type between two nodes.
type Circuit struct {
	ID            string             `json:"id" bson:"id"`
	Name          string             `json:"name,omitempty" bson:"name,omitempty"`
	Service       string             `json:"service,omitempty" bson:"service,omitempty"`
	CableRef      string             `json:"cable_ref,omitempty" bson:"cable_ref,omitempty"`
	Qty           int                `json:"qty,omitempty" bson:"qty,omitempty"`
	FromNode      string             `json:"from_node" bson:"from_node"`
	ToNode        string             `json:"to_node" bson:"to_node"`
	CableSnapshot *catalog.Conductor `json:"cable_snapshot,omitempty" bson:"cable_snapshot,omitempty"`
}

// Quantity returns the circuit's cable count, coerced to at least 1.
func (c Circuit) Quantity() int {
	if c.Qty < 1 {
		return 1
	}
	return c.Qty
}

// ServiceOrDefault returns the declared service, defaulting to power.
func (c Circuit) ServiceOrDefault() string {
	if s := strings.TrimSpace(c.Service); s != "" {
		return s
	}
	return "power"
}

// Circuits is the project's circuit list.
type Circuits struct {
	Source string    `json:"source,omitempty" bson:"source,omitempty"`
	Items  []Circuit `json:"items" bson:"items"`
}

// LibraryRef points at one library document with its merge settings.
type LibraryRef struct {
	Path     string `json:"path" bson:"path" toml:"path"`
	Enabled  bool   `json:"enabled" bson:"enabled" toml:"enabled"`
	Priority int    `json:"priority" bson:"priority" toml:"priority"`
}

// Trunk is a named group of connected segments.
type Trunk struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

// Project is the top-level plan document.
type Project struct {
	ProjectVersion string       `json:"project_version,omitempty" bson:"project_version,omitempty"`
	Name           string       `json:"name,omitempty" bson:"name,omitempty"`
	ActiveProfile  string       `json:"active_profile,omitempty" bson:"active_profile,omitempty"`
	ActivePresetID string       `json:"active_fill_rules_preset_id,omitempty" bson:"active_fill_rules_preset_id,omitempty"`
	Libraries      []LibraryRef `json:"libraries,omitempty" bson:"libraries,omitempty"`
	Canvas         Canvas       `json:"canvas" bson:"canvas"`
	Circuits       Circuits     `json:"circuits" bson:"circuits"`
	Trunks         []Trunk      `json:"troncales,omitempty" bson:"troncales,omitempty"`
}

// Load reads a project document from disk.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "project not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse %s", path)
	}
	return &p, nil
}

// Save writes the project document atomically.
func Save(path string, p *Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode project")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
