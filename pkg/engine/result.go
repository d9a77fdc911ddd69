package engine

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/ifuentes/raceway/pkg/fill"
)

// EngineVersion participates in cache keys so that algorithm changes never
// resurface stale cached results.
const EngineVersion = "1"

// Result contains the outputs of one recalculation pass.
//
// Maps are keyed by edge or circuit id. encoding/json sorts map keys, so a
// serialized Result is byte-identical across repeated passes over the same
// snapshot.
type Result struct {
	// InputsHash identifies the snapshot this result was computed from.
	InputsHash string `json:"inputs_hash" bson:"inputs_hash"`

	// PresetID is the fill-rule preset the pass resolved.
	PresetID string `json:"preset_id,omitempty" bson:"preset_id,omitempty"`

	// Fill holds the per-edge capacity evaluation.
	Fill map[string]*fill.Result `json:"fill" bson:"fill"`

	// Routes maps circuit id to its ordered edge path.
	Routes map[string][]string `json:"routes" bson:"routes"`

	// EdgeCircuits maps edge id to the circuits routed across it.
	EdgeCircuits map[string][]string `json:"edge_circuits" bson:"edge_circuits"`

	// Warnings aggregates routing and evaluation warnings, in pass order.
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`

	// Stats contains timing and size information. Excluded from
	// serialization so cached results stay byte-stable.
	Stats Stats `json:"-" bson:"-"`

	// CacheInfo tracks whether the pass was served from cache.
	CacheInfo CacheInfo `json:"-" bson:"-"`
}

// Stats contains recalculation statistics.
type Stats struct {
	CircuitCount int
	EdgeCount    int
	RoutedCount  int
	OverCount    int
	RouteTime    time.Duration
	EvaluateTime time.Duration
	TotalTime    time.Duration
}

// CacheInfo tracks the cache interaction of a pass.
type CacheInfo struct {
	Hit bool   // Whether the result came from cache
	Key string // The cache key used
}

// OverEdges returns the ids of edges evaluated over their fill limit,
// sorted by the map's natural serialization order.
func (r *Result) OverEdges() []string {
	var over []string
	for id, res := range r.Fill {
		if res != nil && res.Over {
			over = append(over, id)
		}
	}
	sort.Strings(over)
	return over
}

// Marshal serializes the result for caching and transport.
func (r *Result) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResult decodes a cached result payload.
func UnmarshalResult(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
