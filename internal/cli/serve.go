package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/internal/server"
	"github.com/ifuentes/raceway/pkg/engine"
)

// serveCommand creates the HTTP API server command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recalculation API over HTTP",
		Long:  `Serve exposes the engine over a small HTTP API: POST /api/v1/recalc triggers a pass and GET /api/v1/results returns the latest one. The workspace is reloaded on every recalc so edits on disk are picked up without restarting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := c.loadWorkspace()
			if err != nil {
				return err
			}
			for _, w := range ws.Warnings {
				printWarning("%s", w)
			}

			eng, err := c.newEngine(ctx, ws.Config, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			snapshot := func() (engine.Snapshot, error) {
				ws, err := c.loadWorkspace()
				if err != nil {
					return engine.Snapshot{}, err
				}
				return ws.Snapshot(), nil
			}

			srv := server.New(eng, snapshot, c.Logger)
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("serving", "addr", addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")

	return cmd
}
