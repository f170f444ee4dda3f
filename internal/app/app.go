// Package app wires configuration into a runnable pricing service.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"print-pricing/api"
	"print-pricing/core/catalog"
	"print-pricing/core/pricing"
	"print-pricing/core/types"
	"print-pricing/internal/config"
	"print-pricing/internal/logging"
	"print-pricing/internal/metrics"
)

// App holds the long-lived pieces shared by every request
type App struct {
	Config   *config.Config
	Catalog  *types.Catalog
	Cache    *pricing.ContextCache
	Registry *prometheus.Registry
	Metrics  *metrics.EngineMetrics
	Logger   *zap.Logger
}

// New loads the catalog and builds the cache and metrics described by cfg
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.Or(logger)

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		zap.String("product", cat.Product),
		zap.String("path", cfg.Catalog.Path),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &App{
		Config:   cfg,
		Catalog:  cat,
		Cache:    NewCache(cfg.Pricing, logger),
		Registry: reg,
		Metrics:  metrics.NewEngineMetrics(reg),
		Logger:   logger,
	}, nil
}

// NewCache returns the context cache for p, or nil when caching is disabled
func NewCache(p config.PricingConfig, logger *zap.Logger) *pricing.ContextCache {
	if !p.CacheEnabled {
		return nil
	}
	policy := pricing.DefaultCachePolicy()
	if p.CacheTTLSeconds > 0 {
		policy.TTL = p.CacheTTL()
	}
	if p.CacheMaxEntries > 0 {
		policy.MaxEntries = p.CacheMaxEntries
	}
	return pricing.NewContextCache(policy).WithLogger(logger)
}

// Server builds the HTTP API on top of the app
func (a *App) Server(version string) *api.Server {
	h := api.NewHandler(api.HandlerConfig{
		Catalog:  a.Catalog,
		Cache:    a.Cache,
		Metrics:  a.Metrics,
		Logger:   a.Logger,
		Currency: a.Config.Pricing.Currency,
	})
	return api.NewServer(version, h, a.Registry, a.Logger)
}

// Run serves the API until ctx is cancelled
func (a *App) Run(ctx context.Context, version string) error {
	if a.Cache != nil {
		a.Cache.StartJanitor(ctx, a.Config.Pricing.JanitorInterval())
	}
	srv := a.Config.Server
	return a.Server(version).ListenAndServe(ctx, srv.Addr, srv.ReadTimeout(), srv.WriteTimeout())
}
