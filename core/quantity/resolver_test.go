package quantity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"print-pricing/core/types"
)

func intp(v int) *int { return &v }

func customQuantity() types.Quantity {
	return types.Quantity{ID: "custom", Label: "Custom", IsCustom: true, CustomMin: intp(50), CustomMax: intp(10000)}
}

func TestGetValue(t *testing.T) {
	standard := types.Quantity{ID: "q500", Value: intp(500), Label: "500"}
	assert.Equal(t, 500, GetValue(standard, intp(42)))

	assert.Equal(t, 0, GetValue(customQuantity(), nil))
	assert.Equal(t, 0, GetValue(customQuantity(), intp(-5)))
	assert.Equal(t, 750, GetValue(customQuantity(), intp(750)))
}

func TestValidateCustomQuantity(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		valid bool
		err   string
	}{
		{"below min", 25, false, "quantity must be at least 50"},
		{"min inclusive", 50, true, ""},
		{"max inclusive", 10000, true, ""},
		{"above max", 10001, false, "quantity must be at most 10000"},
		{"zero", 0, false, "quantity must be a positive number"},
		{"negative", -10, false, "quantity must be a positive number"},
		{"nan", math.NaN(), false, "quantity must be a positive number"},
		{"inf", math.Inf(1), false, "quantity must be a positive number"},
		{"fractional", 75.5, false, "quantity must be a whole number"},
		{"too large", 1e30, false, "quantity is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateCustomQuantity(customQuantity(), tt.value)
			assert.Equal(t, tt.valid, res.IsValid)
			assert.Equal(t, tt.err, res.Error)
		})
	}

	unbounded := types.Quantity{ID: "custom", IsCustom: true}
	res := ValidateCustomQuantity(unbounded, 1e30)
	assert.False(t, res.IsValid)
	assert.Equal(t, "quantity is too large", res.Error)
	assert.Zero(t, res.Value)

	res = ValidateCustomQuantity(unbounded, MaxCustomQuantity)
	assert.True(t, res.IsValid)
	assert.Equal(t, MaxCustomQuantity, res.Value)

	res = ValidateCustomQuantity(types.Quantity{ID: "q100", Value: intp(100)}, 100)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "does not support custom values")
}

func TestGetTier(t *testing.T) {
	assert.Equal(t, TierSmall, GetTier(1))
	assert.Equal(t, TierSmall, GetTier(100))
	assert.Equal(t, TierMedium, GetTier(101))
	assert.Equal(t, TierMedium, GetTier(500))
	assert.Equal(t, TierLarge, GetTier(1000))
	assert.Equal(t, TierBulk, GetTier(1001))
	assert.Equal(t, TierBulk, GetTier(5000))
	assert.Equal(t, TierWholesalePlus, GetTier(5001))
}

func TestBulkDiscount(t *testing.T) {
	assert.False(t, QualifiesForBulkDiscount(999, DefaultBulkThreshold))
	assert.True(t, QualifiesForBulkDiscount(1000, DefaultBulkThreshold))
	assert.True(t, QualifiesForBulkDiscount(250, 250))
}

func TestGetSuggestedIncrement(t *testing.T) {
	s := GetSuggestedIncrement(90)
	assert.Equal(t, Suggestion{NextTier: TierMedium, IncrementNeeded: 11, PotentialSavings: "10%"}, s)

	s = GetSuggestedIncrement(500)
	assert.Equal(t, Suggestion{NextTier: TierLarge, IncrementNeeded: 1, PotentialSavings: "15%"}, s)

	s = GetSuggestedIncrement(800)
	assert.Equal(t, TierBulk, s.NextTier)
	assert.Equal(t, 201, s.IncrementNeeded)
	assert.Equal(t, "20%", s.PotentialSavings)

	s = GetSuggestedIncrement(4000)
	assert.Equal(t, TierWholesalePlus, s.NextTier)
	assert.Equal(t, "30%", s.PotentialSavings)

	s = GetSuggestedIncrement(6000)
	assert.Equal(t, 0, s.IncrementNeeded)
	assert.Equal(t, "already at highest tier", s.PotentialSavings)
}

func TestEnforceMinimumOrderQuantity(t *testing.T) {
	res := EnforceMinimumOrderQuantity(40, 50)
	assert.False(t, res.IsValid)
	assert.Equal(t, 50, res.Value)

	res = EnforceMinimumOrderQuantity(50, 50)
	assert.True(t, res.IsValid)
	assert.Equal(t, 50, res.Value)
}

func TestRoundToIncrement(t *testing.T) {
	assert.Equal(t, 100, RoundToIncrement(99, 50))
	assert.Equal(t, 100, RoundToIncrement(100, 50))
	assert.Equal(t, 150, RoundToIncrement(101, 50))
	assert.Equal(t, 250, RoundToIncrement(249, 250))
	assert.Equal(t, 7, RoundToIncrement(7, 0))
}

func TestContribution(t *testing.T) {
	c := Contribution(types.Quantity{ID: "q500", Value: intp(500), Label: "500"}, nil)
	assert.True(t, c.IsValid)
	assert.Equal(t, 500.0, c.BasePrice)

	c = Contribution(customQuantity(), intp(25))
	assert.False(t, c.IsValid)
	assert.Equal(t, "quantity must be at least 50", c.Calculation.Description)

	c = Contribution(customQuantity(), nil)
	assert.False(t, c.IsValid)
}
