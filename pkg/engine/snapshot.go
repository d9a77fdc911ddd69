package engine

import (
	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/plan"
	"github.com/ifuentes/raceway/pkg/rules"
)

// Snapshot freezes everything a recalculation pass reads: the project plan,
// the merged catalog, and the resolved rule preset. Building a Snapshot is
// the caller's synchronization point; the engine itself never touches live
// application state.
type Snapshot struct {
	Project  *plan.Project
	Catalog  *catalog.Effective
	PresetID string
	Rules    rules.RuleSet
}

// NewSnapshot assembles a snapshot, resolving the preset through the
// document's fallback chain (requested id, active default, first preset).
func NewSnapshot(p *plan.Project, eff *catalog.Effective, presets *rules.Doc, presetID string) Snapshot {
	if presetID == "" && p != nil {
		presetID = p.ActivePresetID
	}
	return Snapshot{
		Project:  p,
		Catalog:  eff,
		PresetID: presetID,
		Rules:    presets.RulesFor(presetID),
	}
}

// InputsHash returns the stable hash of the snapshot's inputs, the cache
// identity of a recalculation pass.
func (s Snapshot) InputsHash() string {
	return plan.InputsHash(s.Project, s.PresetID)
}

// CircuitCount returns the number of circuits in the snapshot.
func (s Snapshot) CircuitCount() int {
	if s.Project == nil {
		return 0
	}
	return len(s.Project.Circuits.Items)
}

// EdgeCount returns the number of canvas edges in the snapshot.
func (s Snapshot) EdgeCount() int {
	if s.Project == nil {
		return 0
	}
	return len(s.Project.Canvas.Edges)
}
