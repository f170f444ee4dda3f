package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

func TestBuiltinBusinessCards(t *testing.T) {
	cat, err := Builtin(DefaultProduct)
	require.NoError(t, err)

	assert.Equal(t, "business_cards", cat.Product)
	assert.Len(t, cat.Quantities, 5)
	assert.Len(t, cat.PaperStocks, 2)

	d := cat.DefaultsOrEmpty()
	assert.Equal(t, "qty_500", d.Quantity)
	assert.Equal(t, "premium_16pt", d.Paper)

	custom, ok := cat.FindQuantity("custom")
	require.True(t, ok)
	assert.True(t, custom.IsCustom)
	require.NotNil(t, custom.CustomMin)
	assert.Equal(t, 50, *custom.CustomMin)
	assert.Equal(t, 10000, *custom.CustomMax)

	paper, ok := cat.FindPaper("premium_16pt")
	require.True(t, ok)
	assert.InDelta(t, 0.8, paper.PricePerUnit, 1e-9)
	assert.Len(t, paper.Coatings, 3)

	foil, ok := cat.FindAddon("foil")
	require.True(t, ok)
	require.NotNil(t, foil.Configuration)
	require.Len(t, foil.Configuration.Tiers, 3)
	assert.Equal(t, 501, foil.Configuration.Tiers[2].MinQuantity)
	assert.Equal(t, types.TierPerUnit, foil.Configuration.Tiers[2].PricingType)

	design, ok := cat.FindAddon("design")
	require.True(t, ok)
	assert.Equal(t, 60.0, design.Configuration.SideOptions["both"])

	sameDay, ok := cat.FindTurnaround("same_day")
	require.True(t, ok)
	assert.True(t, sameDay.RequiresNoCoating)
	assert.Nil(t, sameDay.DaysMax)
}

func TestBuiltinUnknownProduct(t *testing.T) {
	_, err := Builtin("banners")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestLoadJSON(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "postcards.json"))
	require.NoError(t, err)
	assert.Equal(t, "postcards", cat.Product)

	size, ok := cat.FindSize("4x6")
	require.True(t, ok)
	assert.Equal(t, 1.2, size.PriceMultiplier)
}

func TestLoadOrDefault(t *testing.T) {
	cat, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProduct, cat.Product)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	_, err = Load(filepath.Join("testdata", "catalog.yaml"))
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = Load(filepath.Join("testdata", "malformed.hcl"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
	assert.Contains(t, err.Error(), "parse catalog HCL")

	_, err = Load(filepath.Join("testdata", "broken.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestJSONRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"quantites": []}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantites")
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
