// Package render turns recalculation outputs into drawings: the routing
// graph as Graphviz DOT/SVG with fill-status coloring, and packed
// cross-sections as SVG via the canvas library.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ifuentes/raceway/pkg/fill"
	"github.com/ifuentes/raceway/pkg/plan"
)

// Band fill colors for graph edges.
const (
	colorOK   = "#66BB6A"
	colorWarn = "#FFB300"
	colorOver = "#E53935"
	colorNone = "#9E9E9E"
)

// GraphDOT converts the canvas into Graphviz DOT, coloring each edge by its
// fill band. Edges without a result render grey. The output is stable:
// nodes and edges appear in canvas order.
func GraphDOT(canvas *plan.Canvas, results map[string]*fill.Result) string {
	var buf bytes.Buffer
	buf.WriteString("graph raceway {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range canvas.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range canvas.Edges {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.FromNode, e.ToNode, strings.Join(edgeAttrs(e, results[e.ID]), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n plan.Node) []string {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Type {
	case plan.NodeEquipment:
		attrs = append(attrs, "fillcolor=\"#E3F2FD\"")
	case plan.NodeChamber:
		attrs = append(attrs, "shape=hexagon")
	case plan.NodeJunction:
		attrs = append(attrs, "shape=point", "width=0.12")
	}
	return attrs
}

func edgeAttrs(e plan.Edge, res *fill.Result) []string {
	color := colorNone
	label := e.ID
	if res != nil {
		switch res.Band {
		case fill.BandOK:
			color = colorOK
		case fill.BandWarn:
			color = colorWarn
		case fill.BandOver:
			color = colorOver
		}
		label = fmt.Sprintf("%s\n%.1f%%", e.ID, res.FillPct)
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("color=%q", color),
		"penwidth=2",
		"fontsize=10",
	}
	if e.Props.TrunkID != "" {
		attrs = append(attrs, "style=bold")
	}
	return attrs
}

// Legend returns the band-to-color mapping for callers that draw their own
// key.
func Legend() map[string]string {
	return map[string]string{
		string(fill.BandOK):   colorOK,
		string(fill.BandWarn): colorWarn,
		string(fill.BandOver): colorOver,
	}
}

// GraphSVG renders a DOT graph to SVG using Graphviz.
func GraphSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
