// Package types - Product catalog types
package types

// Size is a catalog size option
type Size struct {
	ID              string   `json:"id" hcl:"id,label" validate:"required"`
	Name            string   `json:"name,omitempty" hcl:"name,optional"`
	Width           *float64 `json:"width" hcl:"width,optional"`
	Height          *float64 `json:"height" hcl:"height,optional"`
	SquareInches    *float64 `json:"squareInches" hcl:"square_inches,optional"`
	PriceMultiplier float64  `json:"priceMultiplier" hcl:"price_multiplier,optional" validate:"gte=0"`
	IsDefault       bool     `json:"isDefault" hcl:"default,optional"`
	IsCustom        bool     `json:"isCustom" hcl:"custom,optional"`
	CustomMinWidth  *float64 `json:"customMinWidth,omitempty" hcl:"custom_min_width,optional"`
	CustomMaxWidth  *float64 `json:"customMaxWidth,omitempty" hcl:"custom_max_width,optional"`
	CustomMinHeight *float64 `json:"customMinHeight,omitempty" hcl:"custom_min_height,optional"`
	CustomMaxHeight *float64 `json:"customMaxHeight,omitempty" hcl:"custom_max_height,optional"`
}

// Quantity is a catalog quantity option
type Quantity struct {
	ID        string `json:"id" hcl:"id,label" validate:"required"`
	Value     *int   `json:"value" hcl:"value,optional"`
	Label     string `json:"label" hcl:"label,optional"`
	IsDefault bool   `json:"isDefault" hcl:"default,optional"`
	IsCustom  bool   `json:"isCustom" hcl:"custom,optional"`
	CustomMin *int   `json:"customMin,omitempty" hcl:"custom_min,optional"`
	CustomMax *int   `json:"customMax,omitempty" hcl:"custom_max,optional"`
}

// Coating is a paper coating option
type Coating struct {
	ID              string  `json:"id" hcl:"id,label" validate:"required"`
	Name            string  `json:"name" hcl:"name,optional"`
	PriceMultiplier float64 `json:"priceMultiplier" hcl:"price_multiplier" validate:"gt=0"`
	IsDefault       bool    `json:"isDefault" hcl:"default,optional"`
	IsEnabled       *bool   `json:"isEnabled,omitempty" hcl:"enabled,optional"`
}

// SidesOption is a printed-sides option
type SidesOption struct {
	ID              string  `json:"id" hcl:"id,label" validate:"required"`
	Name            string  `json:"name" hcl:"name,optional"`
	PriceMultiplier float64 `json:"priceMultiplier" hcl:"price_multiplier" validate:"gt=0"`
	IsDefault       bool    `json:"isDefault" hcl:"default,optional"`
	IsEnabled       *bool   `json:"isEnabled,omitempty" hcl:"enabled,optional"`
}

// Enabled reports whether the option may be offered
func (s SidesOption) Enabled() bool {
	return s.IsEnabled == nil || *s.IsEnabled
}

// Enabled reports whether the option may be offered
func (c Coating) Enabled() bool {
	return c.IsEnabled == nil || *c.IsEnabled
}

// PaperStock is a paper with its coatings and sides
type PaperStock struct {
	ID           string        `json:"id" hcl:"id,label" validate:"required"`
	Name         string        `json:"name" hcl:"name,optional"`
	PricePerUnit float64       `json:"pricePerUnit" hcl:"price_per_unit" validate:"gte=0"`
	IsDefault    bool          `json:"isDefault" hcl:"default,optional"`
	Coatings     []Coating     `json:"coatings" hcl:"coating,block" validate:"required,min=1,dive"`
	Sides        []SidesOption `json:"sides" hcl:"sides,block" validate:"required,min=1,dive"`
}

// PricingModel selects how an addon or turnaround is priced
type PricingModel string

const (
	PricingFlat       PricingModel = "FLAT"
	PricingFixedFee   PricingModel = "FIXED_FEE"
	PricingPercentage PricingModel = "PERCENTAGE"
	PricingPerUnit    PricingModel = "PER_UNIT"
	PricingTiered     PricingModel = "TIERED"
	PricingCustom     PricingModel = "CUSTOM"
)

// TierPricingType selects how a tier price applies
type TierPricingType string

const (
	TierPerUnit TierPricingType = "PER_UNIT"
	TierFlat    TierPricingType = "FLAT"
)

// AddonTier is one quantity bracket of a TIERED addon
type AddonTier struct {
	MinQuantity int             `json:"minQuantity" hcl:"min_quantity" validate:"gte=0"`
	Price       float64         `json:"price" hcl:"price" validate:"gte=0"`
	PricingType TierPricingType `json:"pricingType" hcl:"pricing_type,optional" validate:"omitempty,oneof=PER_UNIT FLAT"`
}

// Custom addon formula types
const (
	CustomVariableData   = "variable_data"
	CustomPerforation    = "perforation"
	CustomBanding        = "banding"
	CustomCornerRounding = "corner_rounding"
	CustomFolding        = "folding"
	CustomDesign         = "design"
)

// AddonConfiguration carries model-specific addon settings
type AddonConfiguration struct {
	Type        string      `json:"type,omitempty" hcl:"type,optional"`
	Tiers       []AddonTier `json:"tiers,omitempty" hcl:"tier,block" validate:"dive"`
	BasePrice   *float64    `json:"basePrice,omitempty" hcl:"base_price,optional"`
	PerUnitCost *float64    `json:"perUnitCost,omitempty" hcl:"per_unit_cost,optional"`

	// ItemsPerBundle applies to banding
	ItemsPerBundle *int `json:"itemsPerBundle,omitempty" hcl:"items_per_bundle,optional"`

	// SideOptions prices design services per side; empty means flat BasePrice
	SideOptions map[string]float64 `json:"sideOptions,omitempty" hcl:"side_options,optional"`
}

// Addon is an optional product add-on
type Addon struct {
	ID            string              `json:"id" hcl:"id,label" validate:"required"`
	Name          string              `json:"name" hcl:"name,optional"`
	PricingModel  PricingModel        `json:"pricingModel" hcl:"pricing_model" validate:"required,oneof=FLAT FIXED_FEE PERCENTAGE PER_UNIT TIERED CUSTOM"`
	Price         float64             `json:"price" hcl:"price,optional" validate:"gte=0"`
	Configuration *AddonConfiguration `json:"configuration,omitempty" hcl:"configuration,block"`
}

// ConfigType returns the custom formula type, or "" when unset
func (a Addon) ConfigType() string {
	if a.Configuration == nil {
		return ""
	}
	return a.Configuration.Type
}

// TurnaroundTime is a production speed option
type TurnaroundTime struct {
	ID                 string       `json:"id" hcl:"id,label" validate:"required"`
	DisplayName        string       `json:"displayName" hcl:"display_name,optional"`
	DaysMin            int          `json:"daysMin" hcl:"days_min" validate:"gte=0"`
	DaysMax            *int         `json:"daysMax,omitempty" hcl:"days_max,optional"`
	PricingModel       PricingModel `json:"pricingModel" hcl:"pricing_model" validate:"required,oneof=FLAT PERCENTAGE PER_UNIT CUSTOM"`
	BasePrice          float64      `json:"basePrice" hcl:"base_price,optional" validate:"gte=0"`
	PriceMultiplier    float64      `json:"priceMultiplier" hcl:"price_multiplier,optional" validate:"gte=0"`
	IsDefault          bool         `json:"isDefault" hcl:"default,optional"`
	RequiresNoCoating  bool         `json:"requiresNoCoating" hcl:"requires_no_coating,optional"`
	RestrictedCoatings []string     `json:"restrictedCoatings,omitempty" hcl:"restricted_coatings,optional"`
}

// CatalogDefaults names the preselected option per module
type CatalogDefaults struct {
	Quantity   string `json:"quantity,omitempty" hcl:"quantity,optional"`
	Size       string `json:"size,omitempty" hcl:"size,optional"`
	Paper      string `json:"paper,omitempty" hcl:"paper,optional"`
	Turnaround string `json:"turnaround,omitempty" hcl:"turnaround,optional"`
}

// Catalog is the read-only configuration snapshot for one product
type Catalog struct {
	Product         string           `json:"product,omitempty" hcl:"product,optional"`
	Quantities      []Quantity       `json:"quantities" hcl:"quantity,block" validate:"required,min=1,dive"`
	Sizes           []Size           `json:"sizes" hcl:"size,block" validate:"required,min=1,dive"`
	PaperStocks     []PaperStock     `json:"paperStocks" hcl:"paper,block" validate:"required,min=1,dive"`
	TurnaroundTimes []TurnaroundTime `json:"turnaroundTimes" hcl:"turnaround,block" validate:"dive"`
	Addons          []Addon          `json:"addons" hcl:"addon,block" validate:"dive"`
	Defaults        *CatalogDefaults `json:"defaults,omitempty" hcl:"defaults,block"`
}

// FindQuantity looks up a quantity by id
func (c *Catalog) FindQuantity(id string) (Quantity, bool) {
	for _, q := range c.Quantities {
		if q.ID == id {
			return q, true
		}
	}
	return Quantity{}, false
}

// FindSize looks up a size by id
func (c *Catalog) FindSize(id string) (Size, bool) {
	for _, s := range c.Sizes {
		if s.ID == id {
			return s, true
		}
	}
	return Size{}, false
}

// FindPaper looks up a paper stock by id
func (c *Catalog) FindPaper(id string) (PaperStock, bool) {
	for _, p := range c.PaperStocks {
		if p.ID == id {
			return p, true
		}
	}
	return PaperStock{}, false
}

// FindTurnaround looks up a turnaround by id
func (c *Catalog) FindTurnaround(id string) (TurnaroundTime, bool) {
	for _, t := range c.TurnaroundTimes {
		if t.ID == id {
			return t, true
		}
	}
	return TurnaroundTime{}, false
}

// FindAddon looks up an addon by id
func (c *Catalog) FindAddon(id string) (Addon, bool) {
	for _, a := range c.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// DefaultsOrEmpty never returns nil
func (c *Catalog) DefaultsOrEmpty() CatalogDefaults {
	if c.Defaults == nil {
		return CatalogDefaults{}
	}
	return *c.Defaults
}
