package configurator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-pricing/core/addon"
	"print-pricing/core/catalog"
	"print-pricing/core/modstate"
	"print-pricing/core/pricing"
	"print-pricing/core/size"
	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	cat, err := catalog.Builtin(catalog.DefaultProduct)
	require.NoError(t, err)
	s := NewSession(cat, opts...)
	require.NoError(t, s.ApplyDefaults())
	return s
}

func intp(v int) *int { return &v }

func TestDefaultsProduceBasePrice(t *testing.T) {
	s := newSession(t)

	cfg := s.Configuration()
	assert.Equal(t, "qty_500", cfg.QuantityID)
	assert.Equal(t, "premium_16pt", cfg.PaperID)
	assert.Equal(t, "coating_glossy", cfg.CoatingID)
	assert.Equal(t, "both", cfg.SidesID)
	assert.Equal(t, "standard", cfg.TurnaroundID)

	ctx := s.PricingContext()
	assert.InDelta(t, 600.0, ctx.BasePrice, 1e-9)
	assert.InDelta(t, 600.0, ctx.FinalPrice, 1e-9)
	assert.True(t, s.IsComplete())
}

func TestBusinessCardScenario(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.SetAddons([]string{"proof", "sleeves", "premium_finish"}, addon.Options{}))
	assert.InDelta(t, 815.0, s.PricingContext().ProductPrice, 1e-9)

	require.NoError(t, s.SelectTurnaround("rush"))
	ctx := s.PricingContext()
	assert.InDelta(t, 1222.5, ctx.FinalPrice, 1e-9)

	b := s.PricingBreakdown()
	assert.InDelta(t, 215.0, b.AddonCosts, 1e-9)
	assert.InDelta(t, 407.5, b.TurnaroundCosts, 1e-9)
}

func TestCallbacksFireAfterEveryChange(t *testing.T) {
	cat, err := catalog.Builtin(catalog.DefaultProduct)
	require.NoError(t, err)
	s := NewSession(cat)

	var (
		configs  []Configuration
		complete []bool
		prices   []float64
	)
	s.OnConfigurationChange(func(cfg Configuration, isComplete bool) {
		configs = append(configs, cfg)
		complete = append(complete, isComplete)
	})
	s.OnPriceChange(func(price float64) { prices = append(prices, price) })

	require.NoError(t, s.SelectQuantity("qty_500", nil))
	require.NoError(t, s.SelectSize("standard", nil))
	require.NoError(t, s.SelectPaper("premium_16pt"))

	require.Len(t, configs, 3)
	assert.Equal(t, []bool{false, false, true}, complete)
	assert.Equal(t, []float64{0, 0, 600}, prices)
	assert.Equal(t, "premium_16pt", configs[2].PaperID)
}

func TestCustomQuantityValidation(t *testing.T) {
	s := newSession(t)

	err := s.SelectQuantity("custom", intp(25))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 50")
	assert.False(t, s.IsComplete())

	state := s.State()
	assert.True(t, state.HasErrors(types.ModuleQuantity))
	assert.False(t, state.HasBlockingErrors(types.ModuleQuantity))
	assert.False(t, state.HasErrors(types.ModuleSize))

	for _, v := range []int{50, 10000} {
		require.NoError(t, s.SelectQuantity("custom", intp(v)))
		assert.True(t, s.IsComplete())
		assert.Equal(t, v, s.PricingContext().Quantity)
		assert.False(t, state.HasErrors(types.ModuleQuantity))
	}
}

func TestRestrictedTurnaroundWarnsWithoutChangingCoating(t *testing.T) {
	s := newSession(t)
	require.Equal(t, "coating_glossy", s.Configuration().CoatingID)

	require.NoError(t, s.SelectTurnaround("same_day"))

	assert.Equal(t, "coating_glossy", s.Configuration().CoatingID)
	assert.Equal(t, "same_day", s.Configuration().TurnaroundID)

	errs := s.State().Errors(types.ModuleTurnaround)
	require.Len(t, errs, 1)
	assert.Equal(t, modstate.SeverityWarning, errs[0].Severity)
	assert.Contains(t, errs[0].Message, "requires uncoated stock")
	assert.True(t, s.IsComplete())
	assert.InDelta(t, 675.0, s.PricingContext().FinalPrice, 1e-9)

	var restricted []string
	for _, opt := range s.TurnaroundOptions() {
		if opt.Restricted {
			restricted = append(restricted, opt.Turnaround.ID)
		}
	}
	assert.Equal(t, []string{"same_day"}, restricted)

	require.NoError(t, s.SelectCoating("coating_none"))
	assert.False(t, s.State().HasErrors(types.ModuleTurnaround))
}

func TestQuantityChangeReResolvesTiers(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetAddons([]string{"foil", "banding"}, addon.Options{}))
	assert.InDelta(t, 500*0.25+5*0.75, s.PricingBreakdown().AddonCosts, 1e-9)

	require.NoError(t, s.SelectQuantity("qty_1000", nil))
	assert.InDelta(t, 1000*0.2+10*0.75, s.PricingBreakdown().AddonCosts, 1e-9)

	require.NoError(t, s.SelectQuantity("qty_100", nil))
	assert.InDelta(t, 100*0.3+1*0.75, s.PricingBreakdown().AddonCosts, 1e-9)
}

func TestDesignSideOption(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetAddons([]string{"design"}, addon.Options{DesignSide: "both"}))
	assert.InDelta(t, 60.0, s.PricingBreakdown().AddonCosts, 1e-9)

	require.NoError(t, s.SetAddons([]string{"design"}, addon.Options{}))
	assert.Zero(t, s.PricingBreakdown().AddonCosts)
}

func TestUnknownPaperIsolated(t *testing.T) {
	s := newSession(t)

	err := s.SelectPaper("kraft")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	ctx := s.PricingContext()
	assert.Zero(t, ctx.BasePrice)
	assert.Equal(t, 500, ctx.Quantity)
	assert.True(t, s.State().HasBlockingErrors(types.ModulePaperStock))
	assert.False(t, s.State().HasErrors(types.ModuleQuantity))
	assert.False(t, s.State().HasErrors(types.ModuleSize))

	require.NoError(t, s.SelectPaper("standard_14pt"))
	assert.True(t, s.IsComplete())
	assert.False(t, s.State().HasErrors(types.ModulePaperStock))
}

func TestUnknownAddonInvalidatesOnlyAddons(t *testing.T) {
	s := newSession(t)
	err := s.SetAddons([]string{"proof", "gold_leaf"}, addon.Options{})
	require.Error(t, err)

	ctx := s.PricingContext()
	assert.InDelta(t, 600.0, ctx.ProductPrice, 1e-9)
	assert.True(t, ctx.HasAllRequiredModules)
	assert.False(t, ctx.IsValid)
}

func TestCustomSize(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SelectSize("custom", &size.CustomDimensions{Width: 11, Height: 11}))
	assert.InDelta(t, 500*0.8*1.5*2.71, s.PricingContext().BasePrice, 1e-9)

	err := s.SelectSize("custom", &size.CustomDimensions{Width: 20, Height: 5})
	require.Error(t, err)
	assert.Zero(t, s.PricingContext().BasePrice)
}

func TestImagesNeverAffectPriceOrBlock(t *testing.T) {
	s := newSession(t)
	before := s.PricingContext()

	file := types.UploadedFile{FileID: "f1", OriginalName: "front.png", Size: 1024, MimeType: "image/png", IsImage: true}
	require.NoError(t, s.AddImage(file))
	assert.Equal(t, before, s.PricingContext())
	assert.Len(t, s.Images(), 1)

	err := s.AddImage(types.UploadedFile{FileID: "f2", OriginalName: "notes.txt", MimeType: "text/plain"})
	require.Error(t, err)
	assert.True(t, s.State().HasErrors(types.ModuleImages))
	assert.False(t, s.State().HasBlockingErrors(types.ModuleImages))
	assert.True(t, s.IsComplete())

	op := s.TrackUpload("back.png")
	assert.True(t, s.State().IsLoading(types.ModuleImages))
	require.Error(t, s.FinishUpload(op, types.UploadedFile{}, assert.AnError))
	assert.False(t, s.State().IsLoading(types.ModuleImages))
	assert.False(t, s.State().HasBlockingErrors(types.ModuleImages))

	assert.True(t, s.RemoveImage("f1"))
	assert.Equal(t, before, s.PricingContext())
}

func TestApplyJoinsErrors(t *testing.T) {
	s := newSession(t)
	err := s.Apply(Configuration{
		QuantityID:   "custom",
		SizeID:       "square",
		PaperID:      "nope",
		TurnaroundID: "rush",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom quantity requires a value")
	assert.Contains(t, err.Error(), "nope")

	assert.Equal(t, "square", s.Configuration().SizeID)
	assert.False(t, s.State().HasErrors(types.ModuleSize))
}

func TestSharedCacheAcrossSessions(t *testing.T) {
	cache := pricing.NewContextCache(nil)
	a := newSession(t, WithCache(cache))
	b := newSession(t, WithCache(cache))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.PricingContext(), b.PricingContext())
	assert.Positive(t, cache.Stats().Hits)
}

func TestDeliveryWindow(t *testing.T) {
	s := newSession(t)
	monday := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	w, ok := s.DeliveryWindow(monday)
	require.True(t, ok)
	assert.Equal(t, "5-7 business days", w.Label)
	assert.Equal(t, 26, w.Earliest.Day())
	assert.Equal(t, 28, w.Latest.Day())
}

func TestClearingAddonsRemovesContribution(t *testing.T) {
	s := newSession(t)
	before := s.PricingContext().ProductPrice

	require.NoError(t, s.SetAddons([]string{"proof", "sleeves", "premium_finish"}, addon.Options{}))
	assert.InDelta(t, 815.0, s.PricingContext().ProductPrice, 1e-9)

	for name, clear := range map[string]func() error{
		"empty list": func() error { return s.SetAddons([]string{}, addon.Options{}) },
		"nil list":   func() error { return s.SetAddons(nil, addon.Options{}) },
		"apply":      func() error { return s.Apply(Configuration{AddonIDs: []string{}}) },
	} {
		require.NoError(t, s.SetAddons([]string{"proof"}, addon.Options{}), name)
		require.True(t, s.Engine().HasModuleContribution(types.ModuleAddons), name)

		require.NoError(t, clear(), name)
		assert.False(t, s.Engine().HasModuleContribution(types.ModuleAddons), name)
		assert.InDelta(t, before, s.PricingContext().ProductPrice, 1e-9, name)
		assert.Empty(t, s.Configuration().AddonIDs, name)
	}
}

func TestClearingAddonsDropsTheirErrors(t *testing.T) {
	s := newSession(t)
	require.Error(t, s.SetAddons([]string{"missing"}, addon.Options{}))
	require.True(t, s.State().HasErrors(types.ModuleAddons))

	require.NoError(t, s.SetAddons(nil, addon.Options{}))
	assert.False(t, s.State().HasErrors(types.ModuleAddons))
	assert.True(t, s.IsComplete())
}

func TestClearingTurnaroundRemovesContribution(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.SelectTurnaround("rush"))
	assert.InDelta(t, 900.0, s.PricingContext().FinalPrice, 1e-9)

	require.NoError(t, s.SelectTurnaround(""))
	assert.False(t, s.Engine().HasModuleContribution(types.ModuleTurnaround))
	assert.InDelta(t, 600.0, s.PricingContext().FinalPrice, 1e-9)
	assert.Empty(t, s.Configuration().TurnaroundID)
	assert.True(t, s.IsComplete())

	_, ok := s.SelectedTurnaround()
	assert.False(t, ok)
}
