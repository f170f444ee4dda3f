// Package configurator drives one product configuration session.
//
// A Session owns the engine, the module error state and the stateful
// selectors. Every selection re-resolves the changed module, then the
// downstream ADDONS and TURNAROUND modules from their engine context, and
// finally notifies subscribers.
package configurator

import (
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"print-pricing/core/addon"
	"print-pricing/core/engine"
	"print-pricing/core/images"
	"print-pricing/core/modstate"
	"print-pricing/core/paper"
	"print-pricing/core/pricing"
	"print-pricing/core/quantity"
	"print-pricing/core/size"
	"print-pricing/core/turnaround"
	"print-pricing/core/types"
	"print-pricing/internal/errors"
	"print-pricing/internal/logging"
	"print-pricing/internal/metrics"
)

// ConfigurationListener receives the selection set after every recompute
type ConfigurationListener func(cfg Configuration, isComplete bool)

// PriceListener receives the final price after every recompute
type PriceListener func(price float64)

// Option configures a Session
type Option func(*Session)

// WithCache shares a pricing context cache with the session engine
func WithCache(c *pricing.ContextCache) Option {
	return func(s *Session) { s.cache = c }
}

// WithLogger sets the session logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics records engine and session metrics
func WithMetrics(m *metrics.EngineMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithImages configures the image module
func WithImages(cfg images.Config) Option {
	return func(s *Session) { s.imageCfg = cfg }
}

// Session is one configuration of one catalog product
type Session struct {
	ID string

	mu      sync.Mutex
	catalog *types.Catalog
	config  Configuration

	engine *engine.Engine
	state  *modstate.Store
	paper  *paper.Selector
	images *images.Module

	onConfig []ConfigurationListener
	onPrice  []PriceListener

	cache    *pricing.ContextCache
	logger   *zap.Logger
	metrics  *metrics.EngineMetrics
	imageCfg images.Config
}

// NewSession starts an empty session over cat
func NewSession(cat *types.Catalog, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		catalog: cat,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Or(s.logger).Named("session").With(zap.String("session_id", s.ID))
	s.engine = engine.New(
		engine.WithCache(s.cache),
		engine.WithLogger(s.logger),
		engine.WithMetrics(s.metrics),
	)
	s.state = modstate.NewStore(s.logger)
	s.paper = paper.NewSelector(cat.PaperStocks)
	s.images = images.New(s.imageCfg)
	s.metrics.IncSession()
	return s
}

// OnConfigurationChange subscribes to selection changes
func (s *Session) OnConfigurationChange(fn ConfigurationListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConfig = append(s.onConfig, fn)
}

// OnPriceChange subscribes to price changes
func (s *Session) OnPriceChange(fn PriceListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPrice = append(s.onPrice, fn)
}

// Catalog returns the session catalog
func (s *Session) Catalog() *types.Catalog { return s.catalog }

// Engine returns the session engine
func (s *Session) Engine() *engine.Engine { return s.engine }

// State returns the per-module error and loading state
func (s *Session) State() *modstate.Store { return s.state }

// Configuration returns a copy of the current selections
func (s *Session) Configuration() Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.clone()
}

// PricingContext returns the current pricing context
func (s *Session) PricingContext() types.PricingContext {
	return s.engine.PricingContext()
}

// PricingBreakdown returns the itemized pricing
func (s *Session) PricingBreakdown() types.PricingBreakdown {
	return s.engine.PricingBreakdown()
}

// IsComplete reports whether the configuration can be ordered
func (s *Session) IsComplete() bool {
	return s.engine.PricingContext().IsComplete()
}

// ApplyDefaults selects the catalog default for every module that has one
func (s *Session) ApplyDefaults() error {
	d := s.catalog.DefaultsOrEmpty()
	cfg := Configuration{
		QuantityID:   firstNonEmpty(d.Quantity, defaultQuantity(s.catalog)),
		SizeID:       firstNonEmpty(d.Size, defaultSize(s.catalog)),
		PaperID:      firstNonEmpty(d.Paper, defaultPaper(s.catalog)),
		TurnaroundID: firstNonEmpty(d.Turnaround, defaultTurnaround(s.catalog)),
	}
	return s.Apply(cfg)
}

// Apply applies every non-empty selection in cfg, in pipeline order, and
// notifies once. Errors from individual modules are joined; the other
// modules are still applied.
func (s *Session) Apply(cfg Configuration) error {
	s.mu.Lock()
	var errs []error
	if cfg.QuantityID != "" {
		errs = append(errs, s.selectQuantity(cfg.QuantityID, cfg.CustomQuantity))
	}
	if cfg.SizeID != "" {
		errs = append(errs, s.selectSize(cfg.SizeID, cfg.CustomSize))
	}
	if cfg.PaperID != "" {
		errs = append(errs, s.selectPaper(cfg.PaperID))
	}
	if cfg.CoatingID != "" {
		errs = append(errs, s.selectCoating(cfg.CoatingID))
	}
	if cfg.SidesID != "" {
		errs = append(errs, s.selectSides(cfg.SidesID))
	}
	if cfg.AddonIDs != nil {
		s.config.AddonIDs = append([]string(nil), cfg.AddonIDs...)
		s.config.ItemsPerBundle = cfg.ItemsPerBundle
		s.config.DesignSide = cfg.DesignSide
	}
	if cfg.TurnaroundID != "" {
		s.config.TurnaroundID = cfg.TurnaroundID
	}
	errs = append(errs, s.refreshDownstream())
	s.mu.Unlock()

	s.notify()
	return stderrors.Join(errs...)
}

// SelectQuantity selects a catalog quantity. custom is required for custom quantities.
func (s *Session) SelectQuantity(id string, custom *int) error {
	return s.change(func() error { return s.selectQuantity(id, custom) })
}

// SelectSize selects a catalog size. custom is required for custom sizes.
func (s *Session) SelectSize(id string, custom *size.CustomDimensions) error {
	return s.change(func() error { return s.selectSize(id, custom) })
}

// SelectPaper selects a paper stock; coating and sides reset to its defaults
func (s *Session) SelectPaper(id string) error {
	return s.change(func() error { return s.selectPaper(id) })
}

// SelectCoating selects a coating of the current paper
func (s *Session) SelectCoating(id string) error {
	return s.change(func() error { return s.selectCoating(id) })
}

// SelectSides selects a sides option of the current paper
func (s *Session) SelectSides(id string) error {
	return s.change(func() error { return s.selectSides(id) })
}

// SetAddons replaces the selected addons. An empty list removes ADDONS from pricing.
func (s *Session) SetAddons(ids []string, opts addon.Options) error {
	return s.change(func() error {
		s.config.AddonIDs = append([]string(nil), ids...)
		s.config.ItemsPerBundle = opts.ItemsPerBundle
		s.config.DesignSide = opts.DesignSide
		return nil
	})
}

// SelectTurnaround selects a turnaround. A turnaround restricted by the
// current coating is still selected; the conflict is raised as a WARNING on
// TURNAROUND and the coating is left alone. An empty id removes TURNAROUND
// from pricing.
func (s *Session) SelectTurnaround(id string) error {
	return s.change(func() error {
		s.config.TurnaroundID = id
		return nil
	})
}

// AddImage attaches an uploaded file. Failures never block the configuration.
func (s *Session) AddImage(f types.UploadedFile) error {
	return s.change(func() error {
		if err := s.images.Add(f); err != nil {
			s.state.ReportError(types.ModuleImages, err)
			return err
		}
		s.state.ClearErrors(types.ModuleImages)
		_ = s.engine.UpdateModuleContribution(types.ModuleImages, s.images.Contribution())
		return nil
	})
}

// RemoveImage detaches a file
func (s *Session) RemoveImage(fileID string) bool {
	var removed bool
	_ = s.change(func() error {
		removed = s.images.Remove(fileID)
		if s.images.Count() == 0 {
			s.engine.RemoveModuleContribution(types.ModuleImages)
		} else {
			_ = s.engine.UpdateModuleContribution(types.ModuleImages, s.images.Contribution())
		}
		return nil
	})
	return removed
}

// Images returns the attached files
func (s *Session) Images() []types.UploadedFile {
	return s.images.Files()
}

// TrackUpload registers an in-flight upload on IMAGES and returns its operation id
func (s *Session) TrackUpload(name string) string {
	return s.state.StartOperation(types.ModuleImages, name)
}

// FinishUpload completes an upload started with TrackUpload. A non-nil err
// records a non-blocking IMAGES error; otherwise f is attached.
func (s *Session) FinishUpload(opID string, f types.UploadedFile, err error) error {
	if err != nil {
		s.state.FailOperation(types.ModuleImages, opID, errors.Network("upload failed", err))
		return err
	}
	s.state.CompleteOperation(types.ModuleImages, opID)
	return s.AddImage(f)
}

// SelectedTurnaround returns the selected turnaround, if any
func (s *Session) SelectedTurnaround() (types.TurnaroundTime, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.TurnaroundID == "" {
		return types.TurnaroundTime{}, false
	}
	return s.catalog.FindTurnaround(s.config.TurnaroundID)
}

// DeliveryWindow estimates completion for the selected turnaround
func (s *Session) DeliveryWindow(from time.Time) (turnaround.Window, bool) {
	t, ok := s.SelectedTurnaround()
	if !ok {
		return turnaround.Window{}, false
	}
	return turnaround.DeliveryWindow(t, from), true
}

// TurnaroundOption is a turnaround with its restriction status for the current coating
type TurnaroundOption struct {
	Turnaround types.TurnaroundTime `json:"turnaround"`
	Restricted bool                 `json:"restricted"`
	Reason     string               `json:"reason,omitempty"`
}

// TurnaroundOptions lists every turnaround, flagging restricted ones.
// Restricted options stay selectable.
func (s *Session) TurnaroundOptions() []TurnaroundOption {
	coating := s.paper.Selection().CoatingID
	out := make([]TurnaroundOption, 0, len(s.catalog.TurnaroundTimes))
	for _, t := range s.catalog.TurnaroundTimes {
		out = append(out, TurnaroundOption{
			Turnaround: t,
			Restricted: turnaround.IsOptionRestricted(t, coating),
			Reason:     turnaround.RestrictionReason(t, coating),
		})
	}
	return out
}

// Selected addon configs for the current configuration
func (s *Session) addonConfigs() ([]addon.Config, error) {
	configs := make([]addon.Config, 0, len(s.config.AddonIDs))
	for _, id := range s.config.AddonIDs {
		a, ok := s.catalog.FindAddon(id)
		if !ok {
			return nil, errors.NotFound("addon", id)
		}
		configs = append(configs, addon.FromAddon(a, s.config.AddonOptions()))
	}
	return configs, nil
}

func (s *Session) change(fn func() error) error {
	s.mu.Lock()
	err := fn()
	if derr := s.refreshDownstream(); err == nil {
		err = derr
	}
	s.mu.Unlock()

	s.notify()
	return err
}

func (s *Session) selectQuantity(id string, custom *int) error {
	s.config.QuantityID = id
	s.config.CustomQuantity = custom
	return s.resolve(types.ModuleQuantity, func() (types.PricingContribution, error) {
		q, ok := s.catalog.FindQuantity(id)
		if !ok {
			return types.PricingContribution{}, errors.NotFound("quantity", id)
		}
		return quantity.Contribution(q, custom), nil
	})
}

func (s *Session) selectSize(id string, custom *size.CustomDimensions) error {
	s.config.SizeID = id
	s.config.CustomSize = custom
	return s.resolve(types.ModuleSize, func() (types.PricingContribution, error) {
		sz, ok := s.catalog.FindSize(id)
		if !ok {
			return types.PricingContribution{}, errors.NotFound("size", id)
		}
		return size.Contribution(sz, custom), nil
	})
}

func (s *Session) selectPaper(id string) error {
	return s.resolvePaper(func() error { return s.paper.SelectPaper(id) })
}

func (s *Session) selectCoating(id string) error {
	return s.resolvePaper(func() error { return s.paper.SelectCoating(id) })
}

func (s *Session) selectSides(id string) error {
	return s.resolvePaper(func() error { return s.paper.SelectSides(id) })
}

// resolvePaper applies a selector change. A rejected change leaves the
// previous selection in place but marks PAPER_STOCK invalid.
func (s *Session) resolvePaper(change func() error) error {
	err := s.resolve(types.ModulePaperStock, func() (types.PricingContribution, error) {
		if err := change(); err != nil {
			return types.PricingContribution{}, err
		}
		return s.paper.Contribution(), nil
	})
	sel := s.paper.Selection()
	s.config.PaperID, s.config.CoatingID, s.config.SidesID = sel.PaperID, sel.CoatingID, sel.SidesID
	return err
}

// refreshDownstream re-resolves ADDONS and TURNAROUND from their engine context
func (s *Session) refreshDownstream() error {
	var errs []error

	if len(s.config.AddonIDs) == 0 {
		s.disable(types.ModuleAddons)
	} else {
		errs = append(errs, s.resolve(types.ModuleAddons, func() (types.PricingContribution, error) {
			configs, err := s.addonConfigs()
			if err != nil {
				return types.PricingContribution{}, err
			}
			return addon.Contribution(configs, s.engine.AddonsContext()), nil
		}))
	}

	if id := s.config.TurnaroundID; id == "" {
		s.disable(types.ModuleTurnaround)
	} else {
		errs = append(errs, s.resolve(types.ModuleTurnaround, func() (types.PricingContribution, error) {
			t, ok := s.catalog.FindTurnaround(id)
			if !ok {
				return types.PricingContribution{}, errors.NotFound("turnaround", id)
			}
			return turnaround.Contribution(t, s.engine.TurnaroundContext()), nil
		}))
		s.warnRestriction()
	}

	return stderrors.Join(errs...)
}

// disable drops a deselected module from pricing along with its errors
func (s *Session) disable(module types.ModuleType) {
	s.engine.RemoveModuleContribution(module)
	s.state.ClearErrors(module)
}

func (s *Session) warnRestriction() {
	t, ok := s.catalog.FindTurnaround(s.config.TurnaroundID)
	if !ok {
		return
	}
	if reason := turnaround.RestrictionReason(t, s.paper.Selection().CoatingID); reason != "" {
		s.state.AddError(types.ModuleTurnaround, modstate.ModuleError{
			Type:        errors.TypeValidation,
			Severity:    modstate.SeverityWarning,
			Message:     reason,
			Recoverable: true,
		})
	}
}

// resolve runs fn through the engine and mirrors the outcome into module state
func (s *Session) resolve(module types.ModuleType, fn func() (types.PricingContribution, error)) error {
	var (
		returned bool
		err      error
	)
	c := s.engine.Apply(module, func() (types.PricingContribution, error) {
		var c types.PricingContribution
		c, err = fn()
		returned = true
		return c, err
	})

	s.state.ClearErrors(module)
	switch {
	case err != nil:
		s.state.ReportError(module, err)
		return err
	case !returned:
		err = errors.New(errors.TypeSystem, describe(c))
		s.state.ReportError(module, err)
		return err
	case !c.IsValid:
		err = errors.Validation(describe(c))
		s.state.ReportError(module, err)
		return err
	}
	return nil
}

func (s *Session) notify() {
	s.mu.Lock()
	cfg := s.config.clone()
	onConfig := append([]ConfigurationListener(nil), s.onConfig...)
	onPrice := append([]PriceListener(nil), s.onPrice...)
	s.mu.Unlock()

	ctx := s.engine.PricingContext()
	for _, fn := range onConfig {
		fn(cfg, ctx.IsComplete())
	}
	for _, fn := range onPrice {
		fn(ctx.FinalPrice)
	}
	s.logger.Debug("configuration changed",
		zap.Bool("complete", ctx.IsComplete()),
		zap.String("final_price", fmt.Sprintf("%.2f", ctx.FinalPrice)),
	)
}

func describe(c types.PricingContribution) string {
	if c.Calculation == nil || c.Calculation.Description == "" {
		return "invalid contribution"
	}
	return c.Calculation.Description
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func defaultQuantity(c *types.Catalog) string {
	for _, q := range c.Quantities {
		if q.IsDefault {
			return q.ID
		}
	}
	if len(c.Quantities) > 0 {
		return c.Quantities[0].ID
	}
	return ""
}

func defaultSize(c *types.Catalog) string {
	for _, sz := range c.Sizes {
		if sz.IsDefault {
			return sz.ID
		}
	}
	if len(c.Sizes) > 0 {
		return c.Sizes[0].ID
	}
	return ""
}

func defaultPaper(c *types.Catalog) string {
	for _, p := range c.PaperStocks {
		if p.IsDefault {
			return p.ID
		}
	}
	if len(c.PaperStocks) > 0 {
		return c.PaperStocks[0].ID
	}
	return ""
}

func defaultTurnaround(c *types.Catalog) string {
	for _, t := range c.TurnaroundTimes {
		if t.IsDefault {
			return t.ID
		}
	}
	return ""
}
