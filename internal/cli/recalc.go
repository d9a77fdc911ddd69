package cli

import (
	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/pkg/engine"
)

// recalcCommand creates the recalc command.
func (c *CLI) recalcCommand() *cobra.Command {
	var refresh bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Route all circuits and evaluate fill capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := c.loadWorkspace()
			if err != nil {
				return err
			}
			for _, w := range ws.Warnings {
				printWarning("%s", w)
			}

			eng, err := c.newEngine(ctx, ws.Config, noCache)
			if err != nil {
				return err
			}
			defer eng.Close()

			spinner := newSpinnerWithContext(ctx, "Recalculating...")
			spinner.Start()

			result, err := eng.Recalculate(ctx, ws.Snapshot(), engine.Options{Refresh: refresh})
			if err != nil {
				spinner.StopWithError("Recalculation failed")
				return err
			}
			spinner.Stop()

			for _, w := range result.Warnings {
				printWarning("%s", w)
			}

			over := result.OverEdges()
			if len(over) == 0 {
				printSuccess("All segments within fill limits")
			} else {
				printError("%d segment(s) over fill limit", len(over))
				for _, id := range over {
					res := result.Fill[id]
					printDetail("%s: %.1f%% (limit %.1f%%)", id, res.FillPct, res.LimitPct)
				}
			}
			printStats(result.Stats.CircuitCount, result.Stats.EdgeCount, result.Stats.OverCount, result.CacheInfo.Hit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache for this run")

	return cmd
}
