package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"print-pricing/core/catalog"
	"print-pricing/core/output"
	"print-pricing/core/turnaround"
	"print-pricing/internal/config"
)

// catalogCmd groups catalog commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate product catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := catalog.FormatFor(args[0])
		if err != nil {
			return err
		}
		cat, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s): %d quantities, %d sizes, %d papers, %d add-ons, %d turnarounds\n",
			cat.Product, format,
			len(cat.Quantities), len(cat.Sizes), len(cat.PaperStocks), len(cat.Addons), len(cat.TurnaroundTimes))
		return nil
	},
}

var catalogShowJSON bool

var catalogShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the options of a catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Get().Catalog.Path
		if len(args) > 0 {
			path = args[0]
		}
		cat, err := catalog.LoadOrDefault(path)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if catalogShowJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(cat)
		}

		fmt.Fprintf(w, "Product: %s\n\nQuantities:\n", cat.Product)
		for _, q := range cat.Quantities {
			fmt.Fprintf(w, "  %-16s %s\n", q.ID, q.Label)
		}
		fmt.Fprintln(w, "\nSizes:")
		for _, s := range cat.Sizes {
			fmt.Fprintf(w, "  %-16s %s\n", s.ID, s.Name)
		}
		fmt.Fprintln(w, "\nPaper stocks:")
		for _, p := range cat.PaperStocks {
			fmt.Fprintf(w, "  %-16s %s (%s/unit)\n", p.ID, p.Name, output.FormatPrice(p.PricePerUnit))
		}
		fmt.Fprintln(w, "\nAdd-ons:")
		for _, a := range cat.Addons {
			fmt.Fprintf(w, "  %-16s %s [%s]\n", a.ID, a.Name, a.PricingModel)
		}
		fmt.Fprintln(w, "\nTurnarounds:")
		for _, t := range cat.TurnaroundTimes {
			fmt.Fprintf(w, "  %-16s %s (%s)\n", t.ID, t.DisplayName, turnaround.DaysLabel(t))
		}
		return nil
	},
}

func init() {
	catalogShowCmd.Flags().BoolVar(&catalogShowJSON, "json", false, "print the catalog as JSON")
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}
