// Package cmd provides the CLI commands for print-pricing.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"print-pricing/internal/config"
	"print-pricing/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "print-pricing",
	Short: "Price configurable print products",
	Long: `print-pricing computes live prices for configurable print products.

Every option (quantity, size, paper stock, add-ons, turnaround) contributes to
a single pricing pipeline; the total is recomputed whenever a selection changes.

Examples:
  print-pricing quote
  print-pricing quote --quantity qty_1000 --addon proof --turnaround rush
  print-pricing catalog validate ./catalog.hcl
  print-pricing serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "print-pricing version %s\n", Version)
	},
}
