package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/pkg/catalog"
	"github.com/ifuentes/raceway/pkg/engine"
	"github.com/ifuentes/raceway/pkg/errors"
	"github.com/ifuentes/raceway/pkg/plan"
	"github.com/ifuentes/raceway/pkg/render"
	"github.com/ifuentes/raceway/pkg/section"
)

// sectionCommand creates the cross-section export command.
func (c *CLI) sectionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "section <edge-id>",
		Short: "Export the packed cross-section of one segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			edgeID := args[0]

			ws, err := c.loadWorkspace()
			if err != nil {
				return err
			}

			edge, ok := ws.Project.Canvas.EdgeByID(edgeID)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "edge not found: %s", edgeID)
			}

			eng, err := c.newEngine(ctx, ws.Config, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			result, err := eng.Recalculate(ctx, ws.Snapshot(), engine.Options{})
			if err != nil {
				return err
			}

			items := sectionItems(ws, result, edgeID)
			if len(items) == 0 {
				printInfo("No cables routed across %s", edgeID)
			}

			spacing := ws.Config.Render.SpacingMM
			var data []byte
			if edge.Kind().IsTray() {
				geom, err := trayGeometry(*edge, ws.Catalog)
				if err != nil {
					return err
				}
				placements := section.PackRect(geom, items, spacing)
				data, err = render.RectSectionSVG(geom, placements)
				if err != nil {
					return err
				}
			} else {
				geom, err := ductGeometry(*edge, ws.Catalog)
				if err != nil {
					return err
				}
				placements := section.PackCircle(geom, items, spacing)
				data, err = render.CircleSectionSVG(geom, placements)
				if err != nil {
					return err
				}
			}

			if output == "" {
				output = fmt.Sprintf("raceway-section-%s.svg", edgeID)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Section exported")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default raceway-section-<edge>.svg)")

	return cmd
}

// sectionItems expands the circuits routed across an edge into individual
// cable items for packing.
func sectionItems(ws *Workspace, result *engine.Result, edgeID string) []section.CableItem {
	byID := make(map[string]plan.Circuit, len(ws.Project.Circuits.Items))
	for _, circ := range ws.Project.Circuits.Items {
		byID[circ.ID] = circ
	}

	var items []section.CableItem
	for _, cid := range result.EdgeCircuits[edgeID] {
		circ, ok := byID[cid]
		if !ok {
			continue
		}
		d := conductorDiameter(circ, ws.Catalog)
		tag := circ.Name
		if tag == "" {
			tag = circ.ID
		}
		items = append(items, section.ExpandCableItems(tag, d, circ.Quantity())...)
	}
	return items
}

// conductorDiameter resolves a circuit's cable outer diameter: snapshot
// first, then catalog lookup by reference.
func conductorDiameter(circ plan.Circuit, eff *catalog.Effective) float64 {
	if s := circ.CableSnapshot; s != nil && s.OuterDiameterMM > 0 {
		return s.OuterDiameterMM
	}
	if eff != nil {
		if cond, ok := eff.ResolveConductor(circ.CableRef); ok {
			return cond.OuterDiameterMM
		}
	}
	return 0
}

// ductGeometry resolves the circular geometry of a duct segment.
func ductGeometry(edge plan.Edge, eff *catalog.Effective) (section.CircleGeometry, error) {
	var innerD float64
	if s := edge.Props.DuctSnapshot; s != nil {
		innerD = s.InnerDiameterMM
	} else if eff != nil {
		if d, ok := eff.ResolveDuct(firstNonEmpty(edge.Props.MaterialUID, edge.Props.Size)); ok {
			innerD = d.InnerDiameterMM
		}
	}
	if innerD <= 0 {
		return section.CircleGeometry{}, errors.New(errors.ErrCodeNotFound, "edge %s: duct inner diameter not resolved", edge.ID)
	}
	r := innerD / 2
	return section.CircleGeometry{CX: r, CY: r, InnerDiameterMM: innerD}, nil
}

// trayGeometry resolves the rectangular geometry of a tray segment.
func trayGeometry(edge plan.Edge, eff *catalog.Effective) (section.RectGeometry, error) {
	var w, h float64
	if s := edge.Props.TraySnapshot; s != nil {
		w, h = s.InnerWidthMM, s.InnerHeightMM
	} else if eff != nil {
		if t, ok := eff.ResolveTray(edge.Kind(), firstNonEmpty(edge.Props.MaterialUID, edge.Props.Size)); ok {
			w, h = t.InnerWidthMM, t.InnerHeightMM
		}
	}
	if w <= 0 || h <= 0 {
		return section.RectGeometry{}, errors.New(errors.ErrCodeNotFound, "edge %s: tray dimensions not resolved", edge.ID)
	}
	return section.RectGeometry{WidthMM: w, HeightMM: h}, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
