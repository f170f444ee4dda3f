// Package types - Module pricing types
// Contributions flow from module resolvers into the engine; contexts flow back out.
package types

import "fmt"

// ModuleType identifies a configurator module
type ModuleType string

const (
	ModuleQuantity   ModuleType = "QUANTITY"
	ModuleSize       ModuleType = "SIZE"
	ModulePaperStock ModuleType = "PAPER_STOCK"
	ModuleAddons     ModuleType = "ADDONS"
	ModuleTurnaround ModuleType = "TURNAROUND"
	ModuleImages     ModuleType = "IMAGES"
)

// AllModules lists every module in pipeline order
var AllModules = []ModuleType{
	ModuleQuantity,
	ModuleSize,
	ModulePaperStock,
	ModuleAddons,
	ModuleTurnaround,
	ModuleImages,
}

// RequiredModules must all be present and valid for a base price to exist
var RequiredModules = []ModuleType{
	ModuleQuantity,
	ModuleSize,
	ModulePaperStock,
}

// String returns the string representation
func (m ModuleType) String() string {
	return string(m)
}

// IsRequired reports whether the module participates in required-module validation
func (m ModuleType) IsRequired() bool {
	for _, r := range RequiredModules {
		if r == m {
			return true
		}
	}
	return false
}

// Valid reports whether m is one of the known module types
func (m ModuleType) Valid() bool {
	for _, known := range AllModules {
		if known == m {
			return true
		}
	}
	return false
}

// ParseModuleType parses a module name
func ParseModuleType(s string) (ModuleType, error) {
	m := ModuleType(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown module type %q", s)
	}
	return m, nil
}

// BreakdownItem is one line of a contribution's calculation
type BreakdownItem struct {
	Type string  `json:"type"`
	Item string  `json:"item"`
	Cost float64 `json:"cost"`
}

// Calculation explains how a contribution was derived
type Calculation struct {
	Description string          `json:"description"`
	Breakdown   []BreakdownItem `json:"breakdown,omitempty"`
}

// PricingContribution is a module's self-reported pricing effect.
//
// How the engine reads it depends on the module:
//   - QUANTITY: BasePrice carries the resolved quantity
//   - SIZE: Multiplier carries the size multiplier
//   - PAPER_STOCK: BasePrice is the paper price per unit, Multiplier is coating x sides
//   - ADDONS, TURNAROUND: AddonCost, PerUnitCost, PercentageCost and Multiplier are additive terms
//
// A zero Multiplier means "not set". Contributions are replaced wholesale and
// never mutated after being handed to the engine.
type PricingContribution struct {
	BasePrice      float64      `json:"basePrice"`
	Multiplier     float64      `json:"multiplier,omitempty"`
	AddonCost      float64      `json:"addonCost,omitempty"`
	PerUnitCost    float64      `json:"perUnitCost,omitempty"`
	PercentageCost float64      `json:"percentageCost,omitempty"`
	IsValid        bool         `json:"isValid"`
	Calculation    *Calculation `json:"calculation,omitempty"`
}

// InvalidContribution returns an isValid=false contribution carrying reason
func InvalidContribution(reason string) PricingContribution {
	return PricingContribution{
		IsValid:     false,
		Calculation: &Calculation{Description: reason},
	}
}

// MultiplierOrOne returns Multiplier, treating the zero value as neutral
func (c PricingContribution) MultiplierOrOne() float64 {
	if c.Multiplier == 0 {
		return 1
	}
	return c.Multiplier
}

// Clone returns a deep copy
func (c PricingContribution) Clone() PricingContribution {
	out := c
	if c.Calculation != nil {
		calc := *c.Calculation
		calc.Breakdown = append([]BreakdownItem(nil), c.Calculation.Breakdown...)
		out.Calculation = &calc
	}
	return out
}

// PricingContext is the derived, read-only pricing view
type PricingContext struct {
	Quantity              int     `json:"quantity"`
	BasePrice             float64 `json:"basePrice"`
	ProductPrice          float64 `json:"productPrice"`
	FinalPrice            float64 `json:"finalPrice"`
	IsValid               bool    `json:"isValid"`
	HasAllRequiredModules bool    `json:"hasAllRequiredModules"`
}

// IsComplete reports whether the configuration can be ordered
func (c PricingContext) IsComplete() bool {
	return c.HasAllRequiredModules && c.IsValid
}

// ModuleContext is the subset of derived state a module may read.
// Nil fields are not visible to the module.
type ModuleContext struct {
	Quantity     *int     `json:"quantity,omitempty"`
	BasePrice    *float64 `json:"basePrice,omitempty"`
	ProductPrice *float64 `json:"productPrice,omitempty"`
	IsValid      *bool    `json:"isValid,omitempty"`
}

// IsEmpty reports whether the module sees nothing
func (c ModuleContext) IsEmpty() bool {
	return c.Quantity == nil && c.BasePrice == nil && c.ProductPrice == nil && c.IsValid == nil
}

// AddonsContext is what the ADDONS module may read
type AddonsContext struct {
	Quantity  int     `json:"quantity"`
	BasePrice float64 `json:"basePrice"`
	IsValid   bool    `json:"isValid"`
}

// TurnaroundContext is what the TURNAROUND module may read
type TurnaroundContext struct {
	Quantity     int     `json:"quantity"`
	BasePrice    float64 `json:"basePrice"`
	ProductPrice float64 `json:"productPrice"`
	IsValid      bool    `json:"isValid"`
}

// ModuleBreakdown is one stage of a pricing breakdown
type ModuleBreakdown struct {
	Module      ModuleType      `json:"module"`
	Label       string          `json:"label"`
	Cost        float64         `json:"cost"`
	Description string          `json:"description,omitempty"`
	Items       []BreakdownItem `json:"items,omitempty"`
}

// PricingBreakdown itemizes the three pricing stages
type PricingBreakdown struct {
	BasePrice       float64           `json:"basePrice"`
	AddonCosts      float64           `json:"addonCosts"`
	TurnaroundCosts float64           `json:"turnaroundCosts"`
	FinalPrice      float64           `json:"finalPrice"`
	Breakdown       []ModuleBreakdown `json:"breakdown"`
}
