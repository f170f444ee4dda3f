package addon

import (
	"fmt"
	"math"

	"print-pricing/core/types"
)

// Special addon rates
const (
	VariableDataSetupFee = 60.0
	VariableDataPerUnit  = 0.02

	PerforationSetupFee = 20.0
	PerforationPerUnit  = 0.01

	BandingPerBundle      = 0.75
	DefaultItemsPerBundle = 100

	CornerRoundingSetupFee = 25.0
	CornerRoundingPerUnit  = 0.02
)

// Kind tags an addon Config variant
type Kind string

const (
	KindSimple         Kind = "simple"
	KindVariableData   Kind = "variable_data"
	KindPerforation    Kind = "perforation"
	KindBanding        Kind = "banding"
	KindCornerRounding Kind = "corner_rounding"
	KindDesign         Kind = "design"
)

// Config is a selected addon. The variants are Simple, VariableData,
// Perforation, Banding, CornerRounding and Design.
type Config interface {
	Kind() Kind
	ID() string
	isConfig()
}

// Simple is a catalog addon priced by its pricing model
type Simple struct {
	Addon types.Addon
}

// VariableData prints per-piece data (names, numbers)
type VariableData struct {
	AddonID   string
	Enabled   bool
	Locations int
}

// Perforation adds tear-off lines
type Perforation struct {
	AddonID    string
	Enabled    bool
	Vertical   int
	Horizontal int
}

// Banding bundles finished pieces
type Banding struct {
	AddonID        string
	Enabled        bool
	BandType       string
	ItemsPerBundle int
}

// CornerRounding rounds piece corners
type CornerRounding struct {
	AddonID string
	Enabled bool
	Corners string
}

// DesignMode selects how design services are priced
type DesignMode string

const (
	DesignFlat      DesignMode = "flat"
	DesignSideBased DesignMode = "side"
)

// Design is a design-services addon, priced per side or flat
type Design struct {
	AddonID     string
	Enabled     bool
	Mode        DesignMode
	BasePrice   float64
	SideOptions map[string]float64
	Side        string
}

func (Simple) Kind() Kind         { return KindSimple }
func (VariableData) Kind() Kind   { return KindVariableData }
func (Perforation) Kind() Kind    { return KindPerforation }
func (Banding) Kind() Kind        { return KindBanding }
func (CornerRounding) Kind() Kind { return KindCornerRounding }
func (Design) Kind() Kind         { return KindDesign }

func (c Simple) ID() string         { return c.Addon.ID }
func (c VariableData) ID() string   { return c.AddonID }
func (c Perforation) ID() string    { return c.AddonID }
func (c Banding) ID() string        { return c.AddonID }
func (c CornerRounding) ID() string { return c.AddonID }
func (c Design) ID() string         { return c.AddonID }

func (Simple) isConfig()         {}
func (VariableData) isConfig()   {}
func (Perforation) isConfig()    {}
func (Banding) isConfig()        {}
func (CornerRounding) isConfig() {}
func (Design) isConfig()         {}

// CalculateVariableDataCost is 60 + 0.02/unit when enabled
func CalculateVariableDataCost(c VariableData, quantity int) float64 {
	if !c.Enabled {
		return 0
	}
	return VariableDataSetupFee + VariableDataPerUnit*float64(quantity)
}

// CalculatePerforationCost is 20 + 0.01/unit when enabled
func CalculatePerforationCost(c Perforation, quantity int) float64 {
	if !c.Enabled {
		return 0
	}
	return PerforationSetupFee + PerforationPerUnit*float64(quantity)
}

// CalculateBandingCost charges 0.75 per started bundle
func CalculateBandingCost(c Banding, quantity int) float64 {
	if !c.Enabled || c.ItemsPerBundle <= 0 || quantity <= 0 {
		return 0
	}
	bundles := math.Ceil(float64(quantity) / float64(c.ItemsPerBundle))
	return bundles * BandingPerBundle
}

// CalculateCornerRoundingCost is 25 + 0.02/unit when enabled
func CalculateCornerRoundingCost(c CornerRounding, quantity int) float64 {
	if !c.Enabled {
		return 0
	}
	return CornerRoundingSetupFee + CornerRoundingPerUnit*float64(quantity)
}

// CalculateDesignCost prices design services. Side-based pricing without a
// chosen side is 0; flat pricing ignores the side.
func CalculateDesignCost(c Design) float64 {
	if !c.Enabled {
		return 0
	}
	if c.Mode == DesignSideBased {
		if c.Side == "" {
			return 0
		}
		return c.SideOptions[c.Side]
	}
	return c.BasePrice
}

// Cost dispatches a Config to its formula
func Cost(c Config, basePrice float64, quantity int) float64 {
	switch v := c.(type) {
	case Simple:
		return CalculateAddonCost(v.Addon, basePrice, quantity)
	case VariableData:
		return CalculateVariableDataCost(v, quantity)
	case Perforation:
		return CalculatePerforationCost(v, quantity)
	case Banding:
		return CalculateBandingCost(v, quantity)
	case CornerRounding:
		return CalculateCornerRoundingCost(v, quantity)
	case Design:
		return CalculateDesignCost(v)
	}
	return 0
}

// Options carries per-order inputs for special addons
type Options struct {
	ItemsPerBundle int
	DesignSide     string
}

// FromAddon turns a selected catalog addon into its Config variant.
// CUSTOM addons with a dedicated type become that variant; everything else is Simple.
func FromAddon(a types.Addon, opts Options) Config {
	if a.PricingModel != types.PricingCustom || a.Configuration == nil {
		return Simple{Addon: a}
	}

	cfg := a.Configuration
	switch a.Configuration.Type {
	case types.CustomVariableData:
		return VariableData{AddonID: a.ID, Enabled: true}
	case types.CustomPerforation:
		return Perforation{AddonID: a.ID, Enabled: true}
	case types.CustomCornerRounding:
		return CornerRounding{AddonID: a.ID, Enabled: true}
	case types.CustomBanding:
		per := opts.ItemsPerBundle
		if per == 0 && cfg.ItemsPerBundle != nil {
			per = *cfg.ItemsPerBundle
		}
		if per == 0 {
			per = DefaultItemsPerBundle
		}
		return Banding{AddonID: a.ID, Enabled: true, ItemsPerBundle: per}
	case types.CustomDesign:
		d := Design{AddonID: a.ID, Enabled: true, Mode: DesignFlat, BasePrice: derefOr(cfg.BasePrice, a.Price)}
		if len(cfg.SideOptions) > 0 {
			d.Mode = DesignSideBased
			d.SideOptions = cfg.SideOptions
			d.Side = opts.DesignSide
		}
		return d
	}
	return Simple{Addon: a}
}

// Describe returns a formula string for a Config at the given quantity
func Describe(c Config, basePrice float64, quantity int) string {
	switch v := c.(type) {
	case Simple:
		_, formula := price(v.Addon, basePrice, quantity)
		return formula
	case VariableData:
		return fmt.Sprintf("%s + %d x %s", money(VariableDataSetupFee), quantity, money(VariableDataPerUnit))
	case Perforation:
		return fmt.Sprintf("%s + %d x %s", money(PerforationSetupFee), quantity, money(PerforationPerUnit))
	case Banding:
		if v.ItemsPerBundle <= 0 {
			return "no bundle size"
		}
		return fmt.Sprintf("ceil(%d / %d) x %s", quantity, v.ItemsPerBundle, money(BandingPerBundle))
	case CornerRounding:
		return fmt.Sprintf("%s + %d x %s", money(CornerRoundingSetupFee), quantity, money(CornerRoundingPerUnit))
	case Design:
		if v.Mode == DesignSideBased {
			if v.Side == "" {
				return "design side not selected"
			}
			return fmt.Sprintf("design (%s) %s", v.Side, money(v.SideOptions[v.Side]))
		}
		return fmt.Sprintf("design flat %s", money(v.BasePrice))
	}
	return ""
}
