package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/internal/server"
)

const defaultAddr = "localhost:8080"

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/render?type=sankey&format=png
  POST /v1/layout

Set SANKEY_REDIS_URL (e.g. redis://localhost:6379/0) to share the render
cache between instances; otherwise the local file cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving on http://%s", addr)
			return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
