package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coinage/internal/httpapi"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Serve the configured catalog over the REST API under /api until
interrupted. A remote coinage can point its api_url at this server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withCatalog(ctx, func(cat types.Catalog) error {
				err := httpapi.Serve(ctx, addr, cat, a.log, func(bound net.Addr) {
					fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s%s\n", bound, httpapi.DefaultBasePath)
				})
				if err != nil {
					return sysError(err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", httpapi.DefaultAddr, "listen address")
	return cmd
}
