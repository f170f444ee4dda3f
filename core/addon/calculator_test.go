package addon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-pricing/core/types"
)

func fp(v float64) *float64 { return &v }

func tieredAddon() types.Addon {
	return types.Addon{
		ID:           "uv_spot",
		Name:         "Spot UV",
		PricingModel: types.PricingTiered,
		Configuration: &types.AddonConfiguration{
			Tiers: []types.AddonTier{
				{MinQuantity: 501, Price: 0.05, PricingType: types.TierPerUnit},
				{MinQuantity: 0, Price: 0.10, PricingType: types.TierPerUnit},
				{MinQuantity: 101, Price: 0.08, PricingType: types.TierPerUnit},
			},
		},
	}
}

func TestCalculateAddonCostByModel(t *testing.T) {
	tests := []struct {
		name     string
		addon    types.Addon
		expected float64
	}{
		{"flat", types.Addon{PricingModel: types.PricingFlat, Price: 25}, 25},
		{"fixed fee", types.Addon{PricingModel: types.PricingFixedFee, Price: 12.5}, 12.5},
		{"percentage of base", types.Addon{PricingModel: types.PricingPercentage, Price: 0.15}, 90},
		{"per unit", types.Addon{PricingModel: types.PricingPerUnit, Price: 0.02}, 10},
		{"custom without configuration", types.Addon{PricingModel: types.PricingCustom, Price: 40}, 40},
		{
			"custom folding",
			types.Addon{PricingModel: types.PricingCustom, Configuration: &types.AddonConfiguration{
				Type: types.CustomFolding, BasePrice: fp(15), PerUnitCost: fp(0.03),
			}},
			30,
		},
		{
			"custom unknown type defaults base to price",
			types.Addon{PricingModel: types.PricingCustom, Price: 5, Configuration: &types.AddonConfiguration{
				PerUnitCost: fp(0.01),
			}},
			10,
		},
		{"custom variable data deferred", customTyped(types.CustomVariableData), 0},
		{"custom perforation deferred", customTyped(types.CustomPerforation), 0},
		{"custom banding deferred", customTyped(types.CustomBanding), 0},
		{"custom corner rounding deferred", customTyped(types.CustomCornerRounding), 0},
		{"tiered without tiers", types.Addon{PricingModel: types.PricingTiered}, 0},
		{"unknown model", types.Addon{PricingModel: "BOGUS", Price: 99}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateAddonCost(tt.addon, 600, 500), 1e-9)
		})
	}
}

func customTyped(kind string) types.Addon {
	return types.Addon{
		ID:            kind,
		PricingModel:  types.PricingCustom,
		Price:         99,
		Configuration: &types.AddonConfiguration{Type: kind, BasePrice: fp(50), PerUnitCost: fp(1)},
	}
}

func TestTierSelection(t *testing.T) {
	tiers := tieredAddon().Configuration.Tiers

	cases := map[int]float64{
		100: 0.10,
		101: 0.08,
		250: 0.08,
		500: 0.08,
		501: 0.05,
		600: 0.05,
	}
	for q, price := range cases {
		tier, ok := SelectTier(tiers, q)
		require.True(t, ok)
		assert.Equal(t, price, tier.Price, "quantity %d", q)
	}

	// below every threshold falls back to the lowest tier
	tier, ok := SelectTier([]types.AddonTier{{MinQuantity: 50, Price: 1}, {MinQuantity: 10, Price: 2}}, 5)
	require.True(t, ok)
	assert.Equal(t, 2.0, tier.Price)

	_, ok = SelectTier(nil, 10)
	assert.False(t, ok)
}

func TestTieredCost(t *testing.T) {
	assert.InDelta(t, 10.0, CalculateAddonCost(tieredAddon(), 0, 100), 1e-9)
	assert.InDelta(t, 20.0, CalculateAddonCost(tieredAddon(), 0, 250), 1e-9)
	assert.InDelta(t, 30.0, CalculateAddonCost(tieredAddon(), 0, 600), 1e-9)

	flat := types.Addon{
		PricingModel: types.PricingTiered,
		Configuration: &types.AddonConfiguration{Tiers: []types.AddonTier{
			{MinQuantity: 0, Price: 15, PricingType: types.TierFlat},
			{MinQuantity: 1000, Price: 10, PricingType: types.TierFlat},
		}},
	}
	assert.Equal(t, 15.0, CalculateAddonCost(flat, 0, 999))
	assert.Equal(t, 10.0, CalculateAddonCost(flat, 0, 5000))
}

func TestTotalsAndBreakdown(t *testing.T) {
	addons := []types.Addon{
		{ID: "rush_proof", PricingModel: types.PricingFlat, Price: 25},
		{ID: "envelopes", PricingModel: types.PricingPerUnit, Price: 0.2},
		{ID: "premium", PricingModel: types.PricingPercentage, Price: 0.15},
	}

	assert.Equal(t, 0.0, CalculateTotalAddonsCost(nil, 600, 500))
	assert.InDelta(t, 215.0, CalculateTotalAddonsCost(addons, 600, 500), 1e-9)

	b := CalculateWithBreakdown(addons, 600, 500)
	assert.InDelta(t, 215.0, b.Total, 1e-9)
	require.Len(t, b.Breakdown, 3)
	assert.Equal(t, "flat $25.00", b.Breakdown[0].Formula)
	assert.Equal(t, "500 x $0.20", b.Breakdown[1].Formula)
	assert.Equal(t, "15% x $600.00", b.Breakdown[2].Formula)
	assert.InDelta(t, 90.0, b.Breakdown[2].Cost, 1e-9)
}
