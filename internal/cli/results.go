package cli

import (
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/pkg/engine"
	"github.com/ifuentes/raceway/pkg/fill"
	"github.com/ifuentes/raceway/pkg/route"
)

// resultsCommand creates the results command.
func (c *CLI) resultsCommand() *cobra.Command {
	var asJSON bool
	var interactive bool
	var propose bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show the fill evaluation for every segment",
		Long:  `Results runs a recalculation (served from cache when the workspace is unchanged) and prints the per-segment fill evaluation. Use --tui for an interactive browser.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := c.loadWorkspace()
			if err != nil {
				return err
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

			if asJSON {
				data, err := result.Marshal()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if interactive {
				model := NewResultListModel(result)
				p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
				_, err := p.Run()
				return err
			}

			printResultTable(result)
			if propose {
				printProposals(ws)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result document as JSON")
	cmd.Flags().BoolVar(&interactive, "tui", false, "browse results interactively")
	cmd.Flags().BoolVar(&propose, "propose", false, "suggest containment sizing per segment")

	return cmd
}

// printResultTable prints one line per evaluated segment, sorted by edge id.
func printResultTable(result *engine.Result) {
	ids := make([]string, 0, len(result.Fill))
	for id := range result.Fill {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println(StyleTitle.Render("Fill results"))
	for _, id := range ids {
		res := result.Fill[id]
		if res == nil {
			continue
		}
		line := fmt.Sprintf("%-12s %-5s qty=%d  %6.1f%% / %.1f%%  %s",
			id, res.Kind, res.Quantity, res.FillPct, res.LimitPct, bandStyle(res.Band).Render(string(res.Band)))
		if res.MaterialLabel != "" {
			line += "  " + StyleDim.Render(res.MaterialLabel)
		}
		fmt.Println("  " + line)
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		for _, w := range result.Warnings {
			printWarning("%s", w)
		}
	}
	printStats(result.Stats.CircuitCount, result.Stats.EdgeCount, result.Stats.OverCount, result.CacheInfo.Hit)
}

// printProposals prints the suggested containment sizing per segment.
// Per-service areas are not part of the cached result, so the aggregation
// is re-run over the workspace snapshot.
func printProposals(ws *Workspace) {
	canvas := &ws.Project.Canvas
	agg := route.Aggregate(canvas, ws.Project.Circuits.Items, ws.Catalog)

	fmt.Println()
	fmt.Println(StyleTitle.Render("Sizing proposals"))
	for _, edge := range canvas.Edges {
		p := fill.Propose(edge.ID, edge.Kind(), agg.EdgeServices[edge.ID], ws.Catalog)
		if p.Status == fill.StatusNone {
			continue
		}
		line := fmt.Sprintf("%-12s %s", edge.ID, p.Summary())
		fmt.Println("  " + line + "  " + proposalStyle(p.Status).Render(string(p.Status)))
		for _, note := range p.Notes {
			printDetail("%s", note)
		}
	}
}

// proposalStyle maps a proposal status to its display style.
func proposalStyle(s fill.ProposalStatus) lipgloss.Style {
	switch s {
	case fill.StatusError:
		return StyleOver
	case fill.StatusWarn:
		return StyleWarning
	default:
		return StyleSuccess
	}
}

// bandStyle maps a fill band to its display style.
func bandStyle(b fill.Band) lipgloss.Style {
	switch b {
	case fill.BandOver:
		return StyleOver
	case fill.BandWarn:
		return StyleWarning
	default:
		return StyleSuccess
	}
}
