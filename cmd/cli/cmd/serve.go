package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"print-pricing/internal/app"
	"print-pricing/internal/config"
	"print-pricing/internal/logging"
)

var serveAddr string

// serveCmd runs the HTTP quote API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quote HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		defer logging.Sync()

		a, err := app.New(cfg, logging.Or(nil))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.Run(ctx, Version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}
