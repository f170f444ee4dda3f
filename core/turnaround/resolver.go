// Package turnaround prices production speed and classifies coating restrictions.
package turnaround

import (
	"fmt"
	"time"

	"print-pricing/core/types"
)

// NoCoatingIDs are the coating ids treated as "no coating"
var NoCoatingIDs = []string{"", "none", "no_coating", "coating_none", "uncoated"}

// CalculateTurnaroundCost returns the additional cost of a turnaround on top of price.
//
//   - FLAT: turnaround.BasePrice
//   - PERCENTAGE: price * (PriceMultiplier - 1)
//   - PER_UNIT: quantity * turnaround.BasePrice
//   - CUSTOM: BasePrice + price * (PriceMultiplier - 1)
//
// The engine adds this to the product price; it never re-multiplies.
func CalculateTurnaroundCost(t types.TurnaroundTime, price float64, quantity int) float64 {
	switch t.PricingModel {
	case types.PricingFlat:
		return t.BasePrice
	case types.PricingPercentage:
		return markup(price, t.PriceMultiplier)
	case types.PricingPerUnit:
		return float64(quantity) * t.BasePrice
	case types.PricingCustom:
		return t.BasePrice + markup(price, t.PriceMultiplier)
	}
	return 0
}

// IsOptionRestricted reports whether t conflicts with the current coating.
// It only classifies; callers decide whether to block or warn.
func IsOptionRestricted(t types.TurnaroundTime, currentCoating string) bool {
	if t.RequiresNoCoating && !IsNoCoating(currentCoating) {
		return true
	}
	for _, c := range t.RestrictedCoatings {
		if c == currentCoating {
			return true
		}
	}
	return false
}

// IsNoCoating reports whether a coating id means "no coating"
func IsNoCoating(coatingID string) bool {
	for _, id := range NoCoatingIDs {
		if id == coatingID {
			return true
		}
	}
	return false
}

// RestrictionReason explains a restriction, or returns "" when there is none
func RestrictionReason(t types.TurnaroundTime, currentCoating string) string {
	if !IsOptionRestricted(t, currentCoating) {
		return ""
	}
	if t.RequiresNoCoating && !IsNoCoating(currentCoating) {
		return fmt.Sprintf("%s requires uncoated stock", label(t))
	}
	return fmt.Sprintf("%s is not available with coating %q", label(t), currentCoating)
}

// Contribution converts a turnaround into TURNAROUND engine terms.
// Quantity-independent terms are kept symbolic so the engine applies them to
// the current product price.
func Contribution(t types.TurnaroundTime, ctx types.TurnaroundContext) types.PricingContribution {
	c := types.PricingContribution{IsValid: true}

	switch t.PricingModel {
	case types.PricingFlat:
		c.AddonCost = t.BasePrice
	case types.PricingPercentage:
		c.Multiplier = t.PriceMultiplier
	case types.PricingPerUnit:
		c.PerUnitCost = t.BasePrice
	case types.PricingCustom:
		c.AddonCost = t.BasePrice
		c.Multiplier = t.PriceMultiplier
	default:
		return types.InvalidContribution(fmt.Sprintf("unknown turnaround pricing model %q", t.PricingModel))
	}

	cost := CalculateTurnaroundCost(t, ctx.ProductPrice, ctx.Quantity)
	c.Calculation = &types.Calculation{
		Description: fmt.Sprintf("%s (%s)", label(t), DaysLabel(t)),
		Breakdown: []types.BreakdownItem{
			{Type: string(t.PricingModel), Item: t.ID, Cost: cost},
		},
	}
	return c
}

// DaysLabel renders "3-5 business days" or "1 business day"
func DaysLabel(t types.TurnaroundTime) string {
	if t.DaysMax != nil && *t.DaysMax > t.DaysMin {
		return fmt.Sprintf("%d-%d business days", t.DaysMin, *t.DaysMax)
	}
	if t.DaysMin == 1 {
		return "1 business day"
	}
	return fmt.Sprintf("%d business days", t.DaysMin)
}

// Window is an estimated production completion range
type Window struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	Label    string    `json:"label"`
}

// DeliveryWindow counts business days from from, skipping weekends
func DeliveryWindow(t types.TurnaroundTime, from time.Time) Window {
	maxDays := t.DaysMin
	if t.DaysMax != nil && *t.DaysMax > maxDays {
		maxDays = *t.DaysMax
	}
	return Window{
		Earliest: addBusinessDays(from, t.DaysMin),
		Latest:   addBusinessDays(from, maxDays),
		Label:    DaysLabel(t),
	}
}

func addBusinessDays(from time.Time, days int) time.Time {
	d := from
	for added := 0; added < days; {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			added++
		}
	}
	return d
}

func markup(price, multiplier float64) float64 {
	if multiplier == 0 {
		return 0
	}
	return price * (multiplier - 1)
}

func label(t types.TurnaroundTime) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.ID
}
