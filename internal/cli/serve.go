package cli

import (
	"github.com/spf13/cobra"

	"github.com/koustreak/aam/internal/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview documentation blocks over HTTP",
		Long: `Serve rendered blocks and diagnostics over HTTP. Every request reads
the manifest provider (and the database, when configured) again.

Routes:
  GET /models
  GET /models/{model}
  GET /models/{model}/diagnostics`,
		Example: `  aam serve --addr :8080
  curl localhost:8080/models/User`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			srv := server.New(a.provider, a.tr, a.cfg.StyleOptions(), a.log)
			return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: :8080)")
	return cmd
}
