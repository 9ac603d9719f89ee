package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/httpapi"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, f, true)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.settings.Listen
			if listen != "" {
				addr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpapi.New(a.registry,
				httpapi.WithLogger(a.logger),
				httpapi.WithMetrics(a.metrics),
			)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}
