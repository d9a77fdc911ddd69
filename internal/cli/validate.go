package cli

import (
	"github.com/spf13/cobra"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the workspace and report problems without recalculating",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.loadWorkspace()
			if err != nil {
				return err
			}

			for _, w := range ws.Warnings {
				printWarning("%s", w)
			}

			snap := ws.Snapshot()
			printSuccess("Workspace loaded: %s", ws.Project.Name)
			printDetail("Nodes: %d", len(ws.Project.Canvas.Nodes))
			printDetail("Edges: %d", snap.EdgeCount())
			printDetail("Circuits: %d", snap.CircuitCount())
			printDetail("Conductors: %d", len(ws.Catalog.Conductors))
			printDetail("Ducts: %d", len(ws.Catalog.Ducts))
			printDetail("Preset: %s", snap.PresetID)
			if len(ws.Warnings) > 0 {
				printInfo("%d warning(s)", len(ws.Warnings))
			}
			return nil
		},
	}
}
