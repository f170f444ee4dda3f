package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredModules(t *testing.T) {
	assert.True(t, ModuleQuantity.IsRequired())
	assert.True(t, ModuleSize.IsRequired())
	assert.True(t, ModulePaperStock.IsRequired())
	assert.False(t, ModuleAddons.IsRequired())
	assert.False(t, ModuleTurnaround.IsRequired())
	assert.False(t, ModuleImages.IsRequired())
}

func TestParseModuleType(t *testing.T) {
	m, err := ParseModuleType("PAPER_STOCK")
	require.NoError(t, err)
	assert.Equal(t, ModulePaperStock, m)

	_, err = ParseModuleType("paper")
	assert.Error(t, err)
}

func TestContributionCloneIsDeep(t *testing.T) {
	c := PricingContribution{
		BasePrice: 1,
		IsValid:   true,
		Calculation: &Calculation{
			Description: "x",
			Breakdown:   []BreakdownItem{{Type: "a", Item: "b", Cost: 1}},
		},
	}
	clone := c.Clone()
	clone.Calculation.Breakdown[0].Cost = 99
	clone.Calculation.Description = "y"

	assert.Equal(t, 1.0, c.Calculation.Breakdown[0].Cost)
	assert.Equal(t, "x", c.Calculation.Description)
}

func TestMultiplierOrOne(t *testing.T) {
	assert.Equal(t, 1.0, PricingContribution{}.MultiplierOrOne())
	assert.Equal(t, 1.5, PricingContribution{Multiplier: 1.5}.MultiplierOrOne())
}

func TestSidesEnabled(t *testing.T) {
	off := false
	assert.True(t, SidesOption{ID: "single"}.Enabled())
	assert.False(t, SidesOption{ID: "double", IsEnabled: &off}.Enabled())
}
