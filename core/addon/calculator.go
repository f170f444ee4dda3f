// Package addon computes add-on costs.
// Catalog addons are priced by model; special addons have their own formulas.
package addon

import (
	"fmt"
	"sort"

	"print-pricing/core/types"
)

// LineCost is the cost of one addon with a human-readable formula
type LineCost struct {
	AddonID string  `json:"addonId"`
	Name    string  `json:"name,omitempty"`
	Cost    float64 `json:"cost"`
	Formula string  `json:"formula"`
}

// Breakdown is the itemized result of CalculateWithBreakdown
type Breakdown struct {
	Total     float64    `json:"total"`
	Breakdown []LineCost `json:"breakdown"`
}

// CalculateAddonCost prices a single catalog addon.
//
// CUSTOM addons whose type has a dedicated formula (variable data, perforation,
// banding, corner rounding) return 0 here; price them through Cost on their
// Config instead, never through both.
func CalculateAddonCost(a types.Addon, basePrice float64, quantity int) float64 {
	cost, _ := price(a, basePrice, quantity)
	return cost
}

// CalculateTotalAddonsCost sums CalculateAddonCost over addons
func CalculateTotalAddonsCost(addons []types.Addon, basePrice float64, quantity int) float64 {
	var total float64
	for _, a := range addons {
		total += CalculateAddonCost(a, basePrice, quantity)
	}
	return total
}

// CalculateWithBreakdown prices addons and explains each line
func CalculateWithBreakdown(addons []types.Addon, basePrice float64, quantity int) Breakdown {
	out := Breakdown{Breakdown: make([]LineCost, 0, len(addons))}
	for _, a := range addons {
		cost, formula := price(a, basePrice, quantity)
		out.Total += cost
		out.Breakdown = append(out.Breakdown, LineCost{
			AddonID: a.ID,
			Name:    a.Name,
			Cost:    cost,
			Formula: formula,
		})
	}
	return out
}

// SelectTier returns the tier with the largest MinQuantity <= quantity,
// falling back to the lowest tier. ok is false only for an empty list.
func SelectTier(tiers []types.AddonTier, quantity int) (types.AddonTier, bool) {
	if len(tiers) == 0 {
		return types.AddonTier{}, false
	}
	sorted := append([]types.AddonTier(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})

	selected := sorted[0]
	for _, t := range sorted {
		if t.MinQuantity <= quantity {
			selected = t
		}
	}
	return selected, true
}

// HasDedicatedFormula reports whether a CUSTOM type is priced outside CalculateAddonCost
func HasDedicatedFormula(configType string) bool {
	switch configType {
	case types.CustomVariableData, types.CustomPerforation, types.CustomBanding, types.CustomCornerRounding:
		return true
	}
	return false
}

func price(a types.Addon, basePrice float64, quantity int) (float64, string) {
	q := float64(quantity)

	switch a.PricingModel {
	case types.PricingFlat, types.PricingFixedFee:
		return a.Price, fmt.Sprintf("flat %s", money(a.Price))

	case types.PricingPercentage:
		return basePrice * a.Price, fmt.Sprintf("%s x %s", percent(a.Price), money(basePrice))

	case types.PricingPerUnit:
		return q * a.Price, fmt.Sprintf("%d x %s", quantity, money(a.Price))

	case types.PricingTiered:
		var tiers []types.AddonTier
		if a.Configuration != nil {
			tiers = a.Configuration.Tiers
		}
		tier, ok := SelectTier(tiers, quantity)
		if !ok {
			return 0, "no tiers configured"
		}
		if tier.PricingType == types.TierFlat {
			return tier.Price, fmt.Sprintf("tier %d+: flat %s", tier.MinQuantity, money(tier.Price))
		}
		return q * tier.Price, fmt.Sprintf("tier %d+: %d x %s", tier.MinQuantity, quantity, money(tier.Price))

	case types.PricingCustom:
		if a.Configuration == nil {
			return a.Price, fmt.Sprintf("flat %s", money(a.Price))
		}
		if HasDedicatedFormula(a.Configuration.Type) {
			return 0, fmt.Sprintf("%s priced separately", a.Configuration.Type)
		}
		base := derefOr(a.Configuration.BasePrice, a.Price)
		perUnit := derefOr(a.Configuration.PerUnitCost, 0)
		return base + perUnit*q, fmt.Sprintf("%s + %d x %s", money(base), quantity, money(perUnit))
	}

	return 0, fmt.Sprintf("unknown pricing model %q", a.PricingModel)
}

func derefOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.4g%%", fraction*100)
}
