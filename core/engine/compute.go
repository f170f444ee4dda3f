package engine

import (
	"math"

	"print-pricing/core/types"
)

// Stages is the full result of one pipeline run.
// Context is what callers see; the rest feeds breakdowns.
type Stages struct {
	Context         types.PricingContext
	PricePerUnit    float64
	SizeMultiplier  float64
	PaperMultiplier float64
	AddonCosts      float64
	TurnaroundCosts float64
}

// Compute runs the three-step pipeline over a contribution set.
//
//  1. base = quantity x pricePerUnit x size multiplier x paper multiplier
//  2. product = base + addon terms
//  3. final = product + turnaround terms
//
// It is pure: identical inputs always yield identical output. IMAGES is ignored.
func Compute(contributions map[types.ModuleType]types.PricingContribution) Stages {
	var s Stages

	q, hasQ := contributions[types.ModuleQuantity]
	size, hasSize := contributions[types.ModuleSize]
	paper, hasPaper := contributions[types.ModulePaperStock]

	if hasQ && q.IsValid {
		s.Context.Quantity = quantityOf(q)
	}

	hasAll := hasQ && q.IsValid && hasSize && size.IsValid && hasPaper && paper.IsValid
	s.Context.HasAllRequiredModules = hasAll
	s.Context.IsValid = hasAll && allValid(contributions)

	if !hasAll {
		return s
	}

	quantity := float64(s.Context.Quantity)
	s.PricePerUnit = paper.BasePrice
	s.SizeMultiplier = size.MultiplierOrOne()
	s.PaperMultiplier = paper.MultiplierOrOne()

	base := quantity * s.PricePerUnit * s.SizeMultiplier * s.PaperMultiplier
	s.Context.BasePrice = base

	if a, ok := contributions[types.ModuleAddons]; ok && a.IsValid {
		s.AddonCosts = a.AddonCost + a.PerUnitCost*quantity + a.PercentageCost*base
	}
	product := base + s.AddonCosts
	s.Context.ProductPrice = product

	if t, ok := contributions[types.ModuleTurnaround]; ok && t.IsValid {
		if t.Multiplier != 0 {
			s.TurnaroundCosts += product * (t.Multiplier - 1)
		}
		s.TurnaroundCosts += t.AddonCost + t.PerUnitCost*quantity
	}
	s.Context.FinalPrice = product + s.TurnaroundCosts

	return s
}

// ComputeContext is Compute without the stage detail.
func ComputeContext(contributions map[types.ModuleType]types.PricingContribution) types.PricingContext {
	return Compute(contributions).Context
}

func quantityOf(c types.PricingContribution) int {
	return int(math.Round(c.BasePrice))
}

func allValid(contributions map[types.ModuleType]types.PricingContribution) bool {
	for m, c := range contributions {
		if m == types.ModuleImages {
			continue
		}
		if !c.IsValid {
			return false
		}
	}
	return true
}
