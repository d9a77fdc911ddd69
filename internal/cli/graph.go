package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/pkg/engine"
	"github.com/ifuentes/raceway/pkg/errors"
	"github.com/ifuentes/raceway/pkg/render"
)

// graphCommand creates the graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the containment graph colored by fill band",
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

			dot := render.GraphDOT(&ws.Project.Canvas, result.Fill)

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.GraphSVG(ctx, dot)
				if err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", format)
			}

			if output == "" {
				output = "raceway-graph." + format
			}
			if output == "-" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Graph exported")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default raceway-graph.<format>, - for stdout)")

	return cmd
}
