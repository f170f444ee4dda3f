// Package quantity resolves quantity selections and classifies order tiers.
package quantity

import (
	"fmt"
	"math"

	"print-pricing/core/types"
)

// DefaultBulkThreshold is the quantity at which bulk discounts apply
const DefaultBulkThreshold = 1000

// MaxCustomQuantity is the largest custom quantity accepted
const MaxCustomQuantity = math.MaxInt32

// Tier classifies an order quantity
type Tier string

const (
	TierSmall         Tier = "Small"
	TierMedium        Tier = "Medium"
	TierLarge         Tier = "Large"
	TierBulk          Tier = "Bulk"
	TierWholesalePlus Tier = "WholesalePlus"
)

type tierBand struct {
	tier     Tier
	maxValue int // inclusive, 0 = unbounded
	savings  string
}

// savings is the label shown for moving up into the next band
var bands = []tierBand{
	{TierSmall, 100, ""},
	{TierMedium, 500, "10%"},
	{TierLarge, 1000, "15%"},
	{TierBulk, 5000, "20%"},
	{TierWholesalePlus, 0, "30%"},
}

// ValidationResult is the outcome of a quantity check
type ValidationResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
	Value   int    `json:"value"`
}

// Suggestion describes how far an order is from the next tier
type Suggestion struct {
	NextTier         Tier   `json:"nextTier,omitempty"`
	IncrementNeeded  int    `json:"incrementNeeded"`
	PotentialSavings string `json:"potentialSavings"`
}

// GetValue resolves a quantity. Custom quantities use customValue when it is
// positive and resolve to 0 otherwise.
func GetValue(q types.Quantity, customValue *int) int {
	if q.IsCustom {
		if customValue != nil && *customValue > 0 {
			return *customValue
		}
		return 0
	}
	if q.Value == nil {
		return 0
	}
	return *q.Value
}

// ValidateCustomQuantity checks a raw custom value against the quantity's bounds (inclusive)
func ValidateCustomQuantity(q types.Quantity, value float64) ValidationResult {
	if !q.IsCustom {
		return ValidationResult{Error: fmt.Sprintf("quantity %q does not support custom values", q.ID)}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return ValidationResult{Error: "quantity must be a positive number"}
	}
	if value != math.Trunc(value) {
		return ValidationResult{Error: "quantity must be a whole number"}
	}
	if value > MaxCustomQuantity {
		return ValidationResult{Error: "quantity is too large"}
	}

	v := int(value)
	if q.CustomMin != nil && v < *q.CustomMin {
		return ValidationResult{Error: fmt.Sprintf("quantity must be at least %d", *q.CustomMin), Value: v}
	}
	if q.CustomMax != nil && v > *q.CustomMax {
		return ValidationResult{Error: fmt.Sprintf("quantity must be at most %d", *q.CustomMax), Value: v}
	}
	return ValidationResult{IsValid: true, Value: v}
}

// GetTier classifies value using breakpoints 100/500/1000/5000
func GetTier(value int) Tier {
	return bands[bandIndex(value)].tier
}

// QualifiesForBulkDiscount reports value >= threshold
func QualifiesForBulkDiscount(value, threshold int) bool {
	return value >= threshold
}

// GetSuggestedIncrement returns the distance to the next tier's lower bound
func GetSuggestedIncrement(value int) Suggestion {
	i := bandIndex(value)
	if i == len(bands)-1 {
		return Suggestion{IncrementNeeded: 0, PotentialSavings: "already at highest tier"}
	}
	nextLower := bands[i].maxValue + 1
	return Suggestion{
		NextTier:         bands[i+1].tier,
		IncrementNeeded:  nextLower - value,
		PotentialSavings: bands[i+1].savings,
	}
}

// EnforceMinimumOrderQuantity fails below moq and suggests moq
func EnforceMinimumOrderQuantity(value, moq int) ValidationResult {
	if value < moq {
		return ValidationResult{
			Error: fmt.Sprintf("minimum order quantity is %d", moq),
			Value: moq,
		}
	}
	return ValidationResult{IsValid: true, Value: value}
}

// RoundToIncrement rounds value up to the next multiple of increment
func RoundToIncrement(value, increment int) int {
	if increment <= 0 {
		return value
	}
	return int(math.Ceil(float64(value)/float64(increment))) * increment
}

// Contribution builds the QUANTITY module contribution.
// The resolved quantity travels in BasePrice.
func Contribution(q types.Quantity, customValue *int) types.PricingContribution {
	if q.IsCustom {
		if customValue == nil {
			return types.InvalidContribution("custom quantity requires a value")
		}
		if res := ValidateCustomQuantity(q, float64(*customValue)); !res.IsValid {
			return types.InvalidContribution(res.Error)
		}
	}

	value := GetValue(q, customValue)
	if value <= 0 {
		return types.InvalidContribution("quantity must be a positive number")
	}

	label := q.Label
	if label == "" || q.IsCustom {
		label = fmt.Sprintf("%d", value)
	}
	return types.PricingContribution{
		BasePrice: float64(value),
		IsValid:   true,
		Calculation: &types.Calculation{
			Description: fmt.Sprintf("%s units (%s)", label, GetTier(value)),
			Breakdown: []types.BreakdownItem{
				{Type: "quantity", Item: label, Cost: float64(value)},
			},
		},
	}
}

func bandIndex(value int) int {
	for i, b := range bands {
		if b.maxValue == 0 || value <= b.maxValue {
			return i
		}
	}
	return len(bands) - 1
}
