package addon

import (
	"fmt"
	"strings"

	"print-pricing/core/types"
)

// Contribution converts selected addons into ADDONS engine terms.
//
// Flat, per-unit and percentage parts are kept separate so the engine can
// apply them to the current base price. Quantity-dependent choices (tiers,
// banding bundles) are resolved against ctx and must be recomputed when the
// quantity changes.
func Contribution(configs []Config, ctx types.AddonsContext) types.PricingContribution {
	c := types.PricingContribution{IsValid: true}
	items := make([]types.BreakdownItem, 0, len(configs))
	names := make([]string, 0, len(configs))
	q := float64(ctx.Quantity)

	for _, cfg := range configs {
		var flat, perUnit, pct float64

		switch v := cfg.(type) {
		case Simple:
			flat, perUnit, pct = terms(v.Addon, ctx.Quantity)
		case VariableData:
			if v.Enabled {
				flat, perUnit = VariableDataSetupFee, VariableDataPerUnit
			}
		case Perforation:
			if v.Enabled {
				flat, perUnit = PerforationSetupFee, PerforationPerUnit
			}
		case CornerRounding:
			if v.Enabled {
				flat, perUnit = CornerRoundingSetupFee, CornerRoundingPerUnit
			}
		case Banding:
			flat = CalculateBandingCost(v, ctx.Quantity)
		case Design:
			flat = CalculateDesignCost(v)
		}

		c.AddonCost += flat
		c.PerUnitCost += perUnit
		c.PercentageCost += pct

		cost := flat + perUnit*q + pct*ctx.BasePrice
		items = append(items, types.BreakdownItem{
			Type: string(cfg.Kind()),
			Item: cfg.ID(),
			Cost: cost,
		})
		names = append(names, fmt.Sprintf("%s: %s", cfg.ID(), Describe(cfg, ctx.BasePrice, ctx.Quantity)))
	}

	desc := "no addons"
	if len(names) > 0 {
		desc = strings.Join(names, "; ")
	}
	c.Calculation = &types.Calculation{Description: desc, Breakdown: items}
	return c
}

// TotalCost prices configs directly; it equals what the engine derives from Contribution
func TotalCost(configs []Config, basePrice float64, quantity int) float64 {
	var total float64
	for _, cfg := range configs {
		total += Cost(cfg, basePrice, quantity)
	}
	return total
}

// terms splits a catalog addon into flat, per-unit and percentage parts
func terms(a types.Addon, quantity int) (flat, perUnit, pct float64) {
	switch a.PricingModel {
	case types.PricingFlat, types.PricingFixedFee:
		return a.Price, 0, 0
	case types.PricingPercentage:
		return 0, 0, a.Price
	case types.PricingPerUnit:
		return 0, a.Price, 0
	case types.PricingTiered:
		if a.Configuration == nil {
			return 0, 0, 0
		}
		tier, ok := SelectTier(a.Configuration.Tiers, quantity)
		if !ok {
			return 0, 0, 0
		}
		if tier.PricingType == types.TierFlat {
			return tier.Price, 0, 0
		}
		return 0, tier.Price, 0
	case types.PricingCustom:
		if a.Configuration == nil {
			return a.Price, 0, 0
		}
		if HasDedicatedFormula(a.Configuration.Type) {
			return 0, 0, 0
		}
		return derefOr(a.Configuration.BasePrice, a.Price), derefOr(a.Configuration.PerUnitCost, 0), 0
	}
	return 0, 0, 0
}
