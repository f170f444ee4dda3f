package engine

import (
	"print-pricing/core/determinism"
	"print-pricing/core/types"
)

// ContributionKey hashes the pricing-relevant part of a contribution set.
// IMAGES is excluded since it never changes the result.
func ContributionKey(contributions map[types.ModuleType]types.PricingContribution) string {
	priced := make(map[types.ModuleType]types.PricingContribution, len(contributions))
	for m, c := range contributions {
		if m == types.ModuleImages {
			continue
		}
		c.Calculation = nil
		priced[m] = c
	}

	h, err := determinism.HashJSON(priced)
	if err != nil {
		return ""
	}
	return h.Hex()
}
