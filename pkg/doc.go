// Package pkg provides the core libraries for Raceway cable routing and
// fill-capacity evaluation.
//
// # Overview
//
// Raceway routes low-voltage circuits across a containment canvas (ducts
// and tray profiles), aggregates the cable load on every segment, and
// evaluates fill capacity against configurable rule presets. The pkg
// directory is organized as follows:
//
//  1. [plan] - Project documents: canvas graph, circuits, trunks
//  2. [catalog] - Material libraries: loading, normalization, priority merge
//  3. [rules] - Fill-rule presets and limit resolution
//  4. [route] - Shortest-path routing and per-segment load aggregation
//  5. [fill] - Capacity evaluation and service-aware conduit assignment
//  6. [section] - Cross-section packing (circle and rectangle)
//  7. [engine] - Snapshot-based recalculation with caching and debounce
//  8. [render] - Graphviz canvas export and cross-section SVG drawing
//  9. [cache] - Result cache backends (file, Redis, MongoDB)
//
// # Data Flow
//
// The typical recalculation pass:
//
//	plan.Project + catalog.Effective + rules.RuleSet
//	         ↓
//	    engine.Snapshot (frozen inputs, stable hash)
//	         ↓
//	    route.Aggregate (Dijkstra per circuit, per-edge loads)
//	         ↓
//	    fill.Evaluate (limits, bands, warnings)
//	         ↓
//	    engine.Result (cached by inputs hash)
//
// # Quick Start
//
// Evaluate a project:
//
//	project, _ := plan.Load("project.json")
//	eff := catalog.Merge(sources)
//	presets, _ := rules.Load("fill_rules.json")
//
//	snap := engine.NewSnapshot(project, eff, presets, "")
//	eng := engine.New(cacheBackend, nil, logger)
//	result, _ := eng.Recalculate(ctx, snap, engine.Options{})
//
// [plan]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/plan
// [catalog]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/catalog
// [rules]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/rules
// [route]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/route
// [fill]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/fill
// [section]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/section
// [engine]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/engine
// [render]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/render
// [cache]: https://pkg.go.dev/github.com/ifuentes/raceway/pkg/cache
package pkg
