package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"print-pricing/core/catalog"
	"print-pricing/core/configurator"
	"print-pricing/core/output"
	"print-pricing/core/size"
	"print-pricing/internal/app"
	"print-pricing/internal/config"
	"print-pricing/internal/logging"
)

var quoteOpts struct {
	catalogPath    string
	quantity       string
	customQuantity int
	size           string
	width          float64
	height         float64
	paper          string
	coating        string
	sides          string
	addons         []string
	itemsPerBundle int
	designSide     string
	turnaround     string
	noDefaults     bool
	format         string
	details        bool
}

// quoteCmd prices a single configuration
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a product configuration",
	Long: `Price a product configuration against a catalog.

Catalog defaults are applied first; flags override individual selections.

Examples:
  print-pricing quote
  print-pricing quote --quantity custom --custom-quantity 750
  print-pricing quote --addon proof --addon sleeves --turnaround rush
  print-pricing quote --format json --catalog ./postcards.json`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteOpts.catalogPath, "catalog", "", "catalog file (.hcl or .json); defaults to the configured catalog")
	f.StringVarP(&quoteOpts.quantity, "quantity", "q", "", "quantity option id")
	f.IntVar(&quoteOpts.customQuantity, "custom-quantity", 0, "custom quantity value")
	f.StringVarP(&quoteOpts.size, "size", "s", "", "size option id")
	f.Float64Var(&quoteOpts.width, "width", 0, "custom width (inches)")
	f.Float64Var(&quoteOpts.height, "height", 0, "custom height (inches)")
	f.StringVarP(&quoteOpts.paper, "paper", "p", "", "paper stock id")
	f.StringVar(&quoteOpts.coating, "coating", "", "coating option id")
	f.StringVar(&quoteOpts.sides, "sides", "", "sides option id")
	f.StringSliceVarP(&quoteOpts.addons, "addon", "a", nil, "add-on id (repeatable)")
	f.IntVar(&quoteOpts.itemsPerBundle, "items-per-bundle", 0, "items per bundle for banding")
	f.StringVar(&quoteOpts.designSide, "design-side", "", "side option for the design add-on")
	f.StringVarP(&quoteOpts.turnaround, "turnaround", "t", "", "turnaround id")
	f.BoolVar(&quoteOpts.noDefaults, "no-defaults", false, "do not apply catalog defaults")
	f.StringVarP(&quoteOpts.format, "format", "f", "", "output format (cli, json, markdown)")
	f.BoolVarP(&quoteOpts.details, "details", "d", true, "show detailed price breakdown")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger := logging.Or(nil)

	path := cfg.Catalog.Path
	if quoteOpts.catalogPath != "" {
		path = quoteOpts.catalogPath
	}
	cat, err := catalog.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	format := output.Format(cfg.Output.DefaultFormat)
	if quoteOpts.format != "" {
		format = output.Format(quoteOpts.format)
	}
	details := cfg.Output.ShowDetails
	if cmd.Flags().Changed("details") {
		details = quoteOpts.details
	}
	formatter, err := output.NewFormatter(format, details)
	if err != nil {
		return err
	}

	s := configurator.NewSession(cat,
		configurator.WithCache(app.NewCache(cfg.Pricing, logger)),
		configurator.WithLogger(logger),
	)
	if !quoteOpts.noDefaults {
		if err := s.ApplyDefaults(); err != nil {
			logger.Sugar().Warnf("catalog defaults incomplete: %v", err)
		}
	}
	if err := s.Apply(selectionsFromFlags(cmd)); err != nil {
		logger.Sugar().Debugf("selection problems: %v", err)
	}

	q := output.BuildQuote(s, cfg.Pricing.Currency, time.Now())
	if err := formatter.Render(cmd.OutOrStdout(), q); err != nil {
		return fmt.Errorf("failed to render quote: %w", err)
	}
	if !q.Complete {
		return fmt.Errorf("configuration incomplete: %d issue(s)", len(q.Issues))
	}
	return nil
}

func selectionsFromFlags(cmd *cobra.Command) configurator.Configuration {
	sel := configurator.Configuration{
		QuantityID:     quoteOpts.quantity,
		SizeID:         quoteOpts.size,
		PaperID:        quoteOpts.paper,
		CoatingID:      quoteOpts.coating,
		SidesID:        quoteOpts.sides,
		ItemsPerBundle: quoteOpts.itemsPerBundle,
		DesignSide:     quoteOpts.designSide,
		TurnaroundID:   quoteOpts.turnaround,
	}
	if cmd.Flags().Changed("custom-quantity") {
		v := quoteOpts.customQuantity
		sel.CustomQuantity = &v
	}
	if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
		sel.CustomSize = &size.CustomDimensions{Width: quoteOpts.width, Height: quoteOpts.height}
	}
	if cmd.Flags().Changed("addon") {
		sel.AddonIDs = append([]string{}, quoteOpts.addons...)
	}
	return sel
}
