// Package engine orchestrates a recalculation pass: route every circuit,
// aggregate per-edge loads, and evaluate fill capacity against the active
// rule preset. Passes are pure functions of a Snapshot, which makes their
// results cacheable under the snapshot's input hash.
package engine

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ifuentes/raceway/pkg/cache"
	"github.com/ifuentes/raceway/pkg/fill"
	"github.com/ifuentes/raceway/pkg/observability"
	"github.com/ifuentes/raceway/pkg/route"
)

// Engine runs recalculation passes with result caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Engine is stateless except for the cache and logger - it does not
// retain pass results. Multiple goroutines can safely share one Engine.
type Engine struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Options configures a single recalculation pass.
type Options struct {
	// Refresh bypasses the result cache and recomputes.
	Refresh bool
}

// New creates an engine with the given cache and keyer.
// A nil keyer falls back to the DefaultKeyer; a nil cache disables caching.
func New(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Engine {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Cache: c, Keyer: keyer, Logger: logger}
}

// Recalculate runs the route → evaluate pass for the snapshot.
// A cache hit returns the previously computed result with CacheInfo.Hit set.
func (e *Engine) Recalculate(ctx context.Context, snap Snapshot, opts Options) (*Result, error) {
	start := time.Now()

	inputsHash := snap.InputsHash()
	key := e.Keyer.ResultKey(inputsHash, cache.ResultKeyOpts{
		PresetID:      snap.PresetID,
		EngineVersion: EngineVersion,
	})

	if !opts.Refresh {
		if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				cached.CacheInfo = CacheInfo{Hit: true, Key: key}
				cached.Stats.TotalTime = time.Since(start)
				e.Logger.Debug("result cache hit", "key", key)
				return cached, nil
			}
			// Undecodable entry: fall through and recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	result := e.compute(ctx, snap)
	result.InputsHash = inputsHash
	result.CacheInfo = CacheInfo{Hit: false, Key: key}

	if data, err := result.Marshal(); err == nil {
		if err := e.Cache.Set(ctx, key, data, cache.TTLResult); err == nil {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}

	result.Stats.TotalTime = time.Since(start)
	e.Logger.Info("recalculated",
		"circuits", result.Stats.CircuitCount,
		"edges", result.Stats.EdgeCount,
		"over", result.Stats.OverCount,
		"duration", result.Stats.TotalTime)
	return result, nil
}

// compute runs the pass itself, without caching.
func (e *Engine) compute(ctx context.Context, snap Snapshot) *Result {
	result := &Result{
		PresetID:     snap.PresetID,
		Fill:         map[string]*fill.Result{},
		Routes:       map[string][]string{},
		EdgeCircuits: map[string][]string{},
	}
	result.Stats.CircuitCount = snap.CircuitCount()
	result.Stats.EdgeCount = snap.EdgeCount()
	if snap.Project == nil {
		return result
	}
	canvas := &snap.Project.Canvas
	circuits := snap.Project.Circuits.Items

	routeStart := time.Now()
	observability.Engine().OnRouteStart(ctx, len(circuits))
	agg := route.Aggregate(canvas, circuits, snap.Catalog)
	result.Routes = agg.Routes
	result.EdgeCircuits = agg.EdgeCircuits
	result.Warnings = append(result.Warnings, agg.Warnings...)
	result.Stats.RoutedCount = len(agg.Routes)
	result.Stats.RouteTime = time.Since(routeStart)
	observability.Engine().OnRouteComplete(ctx, len(agg.Routes), result.Stats.RouteTime)

	e.Logger.Debug("routed circuits",
		"routed", len(agg.Routes),
		"total", len(circuits),
		"duration", result.Stats.RouteTime)

	evalStart := time.Now()
	observability.Engine().OnEvaluateStart(ctx, len(canvas.Edges))
	fillResults, fillWarnings := fill.Evaluate(canvas, agg, snap.Catalog, snap.Rules)
	result.Fill = fillResults
	result.Warnings = append(result.Warnings, fillWarnings...)
	for _, fr := range fillResults {
		if fr.Over {
			result.Stats.OverCount++
		}
	}
	result.Stats.EvaluateTime = time.Since(evalStart)
	observability.Engine().OnEvaluateComplete(ctx, result.Stats.OverCount, result.Stats.EvaluateTime)

	return result
}

// Close releases resources held by the engine (primarily the cache).
func (e *Engine) Close() error {
	if e.Cache != nil {
		return e.Cache.Close()
	}
	return nil
}
