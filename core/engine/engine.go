// Package engine provides the module pricing engine.
// One Engine exists per configuration session; CLI, HTTP and the configurator
// session are thin wrappers around it.
package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"print-pricing/core/determinism"
	"print-pricing/core/pricing"
	"print-pricing/core/types"
	"print-pricing/internal/errors"
	"print-pricing/internal/logging"
	"print-pricing/internal/metrics"
)

// Engine holds the latest contribution of every module and derives the
// pricing context from them.
type Engine struct {
	mu            sync.RWMutex
	contributions map[types.ModuleType]types.PricingContribution

	cache   *pricing.ContextCache
	logger  *zap.Logger
	metrics *metrics.EngineMetrics
}

// Option configures an Engine
type Option func(*Engine)

// WithCache memoizes contexts in c. The cache may be shared between engines
// because keys are content hashes.
func WithCache(c *pricing.ContextCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records engine activity on m
func WithMetrics(m *metrics.EngineMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an empty engine
func New(opts ...Option) *Engine {
	e := &Engine{
		contributions: make(map[types.ModuleType]types.PricingContribution),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.Or(e.logger).Named("engine")
	return e
}

// UpdateModuleContribution replaces the contribution of module wholesale.
// An invalid contribution only affects the stages that depend on it.
func (e *Engine) UpdateModuleContribution(module types.ModuleType, c types.PricingContribution) error {
	if !module.Valid() {
		return errors.Validationf("unknown module type %q", module)
	}

	e.mu.Lock()
	e.contributions[module] = c.Clone()
	e.mu.Unlock()

	e.metrics.IncUpdate(module.String(), c.IsValid)
	if !c.IsValid {
		e.logger.Warn("invalid module contribution",
			zap.String("module", module.String()),
			zap.String("reason", describe(c)),
		)
	}
	return nil
}

// Apply runs resolve and stores its result for module. A returned error or a
// panic becomes an isValid=false contribution; it never reaches other modules.
func (e *Engine) Apply(module types.ModuleType, resolve func() (types.PricingContribution, error)) (c types.PricingContribution) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("module resolver panicked",
				zap.String("module", module.String()),
				zap.Any("panic", r),
			)
			c = types.InvalidContribution(fmt.Sprintf("%s resolver failed: %v", module, r))
			_ = e.UpdateModuleContribution(module, c)
		}
	}()

	c, err := resolve()
	if err != nil {
		e.logger.Warn("module resolver failed",
			zap.String("module", module.String()),
			zap.String("error_type", string(errors.TypeOf(err))),
			zap.Error(err),
		)
		c = types.InvalidContribution(err.Error())
	}
	if uerr := e.UpdateModuleContribution(module, c); uerr != nil {
		return types.InvalidContribution(uerr.Error())
	}
	return c
}

// RemoveModuleContribution forgets module's contribution
func (e *Engine) RemoveModuleContribution(module types.ModuleType) {
	e.mu.Lock()
	delete(e.contributions, module)
	e.mu.Unlock()
}

// HasModuleContribution reports whether module has contributed
func (e *Engine) HasModuleContribution(module types.ModuleType) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.contributions[module]
	return ok
}

// ModuleContribution returns a copy of module's contribution
func (e *Engine) ModuleContribution(module types.ModuleType) (types.PricingContribution, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.contributions[module]
	if !ok {
		return types.PricingContribution{}, false
	}
	return c.Clone(), true
}

// Modules returns the modules that currently contribute, in pipeline order
func (e *Engine) Modules() []types.ModuleType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.ModuleType, 0, len(e.contributions))
	for _, m := range types.AllModules {
		if _, ok := e.contributions[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Snapshot returns a copy of the contribution set
func (e *Engine) Snapshot() map[types.ModuleType]types.PricingContribution {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[types.ModuleType]types.PricingContribution, len(e.contributions))
	for m, c := range e.contributions {
		out[m] = c.Clone()
	}
	return out
}

// Reset drops every contribution
func (e *Engine) Reset() {
	e.mu.Lock()
	e.contributions = make(map[types.ModuleType]types.PricingContribution)
	e.mu.Unlock()
}

// PricingContext derives the current context, from cache when possible
func (e *Engine) PricingContext() types.PricingContext {
	snapshot := e.Snapshot()

	key := ""
	if e.cache != nil {
		key = ContributionKey(snapshot)
	}
	if key != "" {
		if ctx, ok := e.cache.Get(key); ok {
			e.metrics.IncCacheHit()
			e.logger.Debug("pricing context cache hit", zap.String("key", key[:12]))
			return ctx
		}
		e.metrics.IncCacheMiss()
	}

	start := time.Now()
	ctx := Compute(snapshot).Context
	e.metrics.ObserveCompute(time.Since(start))
	if ctx.IsComplete() {
		e.metrics.ObserveFinalPrice(ctx.FinalPrice)
	}

	if key != "" {
		e.cache.Put(key, ctx)
	}
	e.logger.Debug("pricing context computed",
		zap.Int("modules", len(snapshot)),
		zap.Float64("base_price", ctx.BasePrice),
		zap.Float64("final_price", ctx.FinalPrice),
		zap.Bool("complete", ctx.IsComplete()),
	)
	return ctx
}

// ContextForModule returns what module may read. Modules only see stages
// computed before their own; QUANTITY, SIZE, PAPER_STOCK and IMAGES see nothing.
func (e *Engine) ContextForModule(module types.ModuleType) types.ModuleContext {
	switch module {
	case types.ModuleAddons:
		a := e.AddonsContext()
		return types.ModuleContext{Quantity: &a.Quantity, BasePrice: &a.BasePrice, IsValid: &a.IsValid}
	case types.ModuleTurnaround:
		t := e.TurnaroundContext()
		return types.ModuleContext{
			Quantity:     &t.Quantity,
			BasePrice:    &t.BasePrice,
			ProductPrice: &t.ProductPrice,
			IsValid:      &t.IsValid,
		}
	}
	return types.ModuleContext{}
}

// AddonsContext is the typed ADDONS view
func (e *Engine) AddonsContext() types.AddonsContext {
	ctx := e.PricingContext()
	return types.AddonsContext{Quantity: ctx.Quantity, BasePrice: ctx.BasePrice, IsValid: ctx.IsValid}
}

// TurnaroundContext is the typed TURNAROUND view
func (e *Engine) TurnaroundContext() types.TurnaroundContext {
	ctx := e.PricingContext()
	return types.TurnaroundContext{
		Quantity:     ctx.Quantity,
		BasePrice:    ctx.BasePrice,
		ProductPrice: ctx.ProductPrice,
		IsValid:      ctx.IsValid,
	}
}

// PricingBreakdown itemizes the pipeline. Zero-cost stages are omitted.
func (e *Engine) PricingBreakdown() types.PricingBreakdown {
	snapshot := e.Snapshot()
	s := Compute(snapshot)

	out := types.PricingBreakdown{
		BasePrice:       s.Context.BasePrice,
		AddonCosts:      s.AddonCosts,
		TurnaroundCosts: s.TurnaroundCosts,
		FinalPrice:      s.Context.FinalPrice,
		Breakdown:       []types.ModuleBreakdown{},
	}

	if s.Context.BasePrice != 0 {
		var items []types.BreakdownItem
		for _, m := range types.RequiredModules {
			items = append(items, itemsOf(snapshot[m])...)
		}
		out.Breakdown = append(out.Breakdown, types.ModuleBreakdown{
			Module: types.ModulePaperStock,
			Label:  "Base price",
			Cost:   s.Context.BasePrice,
			Description: fmt.Sprintf("%d x $%.4g x %.4g (size) x %.4g (paper)",
				s.Context.Quantity, s.PricePerUnit, s.SizeMultiplier, s.PaperMultiplier),
			Items: items,
		})
	}
	if s.AddonCosts != 0 {
		a := snapshot[types.ModuleAddons]
		out.Breakdown = append(out.Breakdown, types.ModuleBreakdown{
			Module:      types.ModuleAddons,
			Label:       "Add-ons",
			Cost:        s.AddonCosts,
			Description: describe(a),
			Items:       itemsOf(a),
		})
	}
	if s.TurnaroundCosts != 0 {
		t := snapshot[types.ModuleTurnaround]
		out.Breakdown = append(out.Breakdown, types.ModuleBreakdown{
			Module:      types.ModuleTurnaround,
			Label:       "Turnaround",
			Cost:        s.TurnaroundCosts,
			Description: describe(t),
			Items:       itemsOf(t),
		})
	}
	return out
}

// InvalidModules lists modules whose contribution is isValid=false, sorted
func (e *Engine) InvalidModules() []types.ModuleType {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []types.ModuleType
	for _, m := range determinism.SortedKeys(e.contributions) {
		if !e.contributions[m].IsValid {
			out = append(out, m)
		}
	}
	return out
}

func describe(c types.PricingContribution) string {
	if c.Calculation == nil {
		return ""
	}
	return c.Calculation.Description
}

func itemsOf(c types.PricingContribution) []types.BreakdownItem {
	if c.Calculation == nil {
		return nil
	}
	return c.Calculation.Breakdown
}
