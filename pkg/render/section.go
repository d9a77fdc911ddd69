package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ifuentes/raceway/pkg/section"
)

// sectionPadding is the blank border around the drawn containment, in mm.
const sectionPadding = 4.0

var (
	wallColor     = canvas.Hex("#37474F")
	cableFill     = canvas.Hex("#90CAF9")
	cableStroke   = canvas.Hex("#1565C0")
	overflowFill  = canvas.Hex("#FFCDD2")
	overflowColor = canvas.Hex("#C62828")
)

// CircleSectionSVG draws a circular containment cross-section with its
// packed cables. Overflowing cables are drawn in red. Dimensions are
// millimeters, 1:1.
func CircleSectionSVG(geom section.CircleGeometry, placements []section.Placement) ([]byte, error) {
	if geom.InnerDiameterMM <= 0 {
		return nil, fmt.Errorf("degenerate containment: inner diameter %.2f", geom.InnerDiameterMM)
	}
	size := geom.InnerDiameterMM + 2*sectionPadding

	var buf bytes.Buffer
	writer := svg.New(&buf, size, size, nil)
	c := canvas.New(size, size)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	// Containment wall, centered on the page.
	cx := size / 2
	cy := size / 2
	r := geom.InnerDiameterMM / 2
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(wallColor)
	ctx.SetStrokeWidth(0.8)
	ctx.DrawPath(cx-r, cy-r, canvas.Circle(r))

	drawCables(ctx, placements, cx-geom.CX, cy-geom.CY)

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write SVG: %w", err)
	}
	return buf.Bytes(), nil
}

// RectSectionSVG draws a rectangular containment cross-section with its
// packed cables.
func RectSectionSVG(geom section.RectGeometry, placements []section.Placement) ([]byte, error) {
	if geom.WidthMM <= 0 || geom.HeightMM <= 0 {
		return nil, fmt.Errorf("degenerate containment: %.2fx%.2f", geom.WidthMM, geom.HeightMM)
	}
	width := geom.WidthMM + 2*sectionPadding
	height := geom.HeightMM + 2*sectionPadding

	var buf bytes.Buffer
	writer := svg.New(&buf, width, height, nil)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(wallColor)
	ctx.SetStrokeWidth(0.8)
	ctx.DrawPath(sectionPadding, sectionPadding, canvas.Rectangle(geom.WidthMM, geom.HeightMM))

	drawCables(ctx, placements, sectionPadding-geom.X0, sectionPadding-geom.Y0)

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write SVG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCables draws each placement offset into page coordinates.
func drawCables(ctx *canvas.Context, placements []section.Placement, dx, dy float64) {
	for _, p := range placements {
		if p.DiameterMM <= 0 {
			continue
		}
		r := p.DiameterMM / 2
		if p.Overflow {
			ctx.SetFillColor(overflowFill)
			ctx.SetStrokeColor(overflowColor)
		} else {
			ctx.SetFillColor(cableFill)
			ctx.SetStrokeColor(cableStroke)
		}
		ctx.SetStrokeWidth(0.4)
		x := p.XMM + dx
		y := p.YMM + dy
		ctx.DrawPath(x-r, y-r, canvas.Circle(r))
	}
}
