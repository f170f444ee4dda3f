// Package api - HTTP handler for quoting
// This handler wraps the configurator - it contains NO pricing logic.
package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"print-pricing/core/configurator"
	"print-pricing/core/images"
	"print-pricing/core/output"
	"print-pricing/core/pricing"
	"print-pricing/core/types"
	"print-pricing/internal/logging"
	"print-pricing/internal/metrics"
)

// maxRequestBytes bounds a quote request body
const maxRequestBytes = 1 << 20

// Handler handles quote requests
type Handler struct {
	catalog  *types.Catalog
	cache    *pricing.ContextCache
	metrics  *metrics.EngineMetrics
	logger   *zap.Logger
	currency string
	images   images.Config
	validate *validator.Validate
	now      func() time.Time
}

// HandlerConfig wires a Handler
type HandlerConfig struct {
	Catalog  *types.Catalog
	Cache    *pricing.ContextCache
	Metrics  *metrics.EngineMetrics
	Logger   *zap.Logger
	Currency string
	Images   images.Config
}

// NewHandler creates a new handler
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		catalog:  cfg.Catalog,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   logging.Or(cfg.Logger).Named("api"),
		currency: cfg.Currency,
		images:   cfg.Images,
		validate: validator.New(),
		now:      time.Now,
	}
}

// HandleQuote handles POST /quote
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetReqID(r.Context())

	var req QuoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, requestID, "INVALID_JSON", err.Error(), nil, http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		var fields []string
		if stderrors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
		}
		writeError(w, requestID, "VALIDATION_ERROR", "request failed validation", fields, http.StatusBadRequest)
		return
	}

	resp := h.execute(requestID, &req)
	resp.DurationMs = time.Since(start).Milliseconds()

	status := http.StatusOK
	if resp.Status != StatusComplete {
		status = http.StatusUnprocessableEntity
	}
	h.logger.Info("quote served",
		zap.String("request_id", requestID),
		zap.String("status", resp.Status),
		zap.String("total", resp.Quote.Total.StringFixed(2)),
	)
	writeJSON(w, resp, status)
}

// HandleCatalog handles GET /catalog
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog, http.StatusOK)
}

// HandleTurnarounds handles GET /catalog/turnarounds?paper=&coating=
// Every option is listed; restricted ones are flagged, not removed.
func (h *Handler) HandleTurnarounds(w http.ResponseWriter, r *http.Request) {
	s := configurator.NewSession(h.catalog, configurator.WithLogger(h.logger))
	cfg := configurator.Configuration{
		PaperID:   r.URL.Query().Get("paper"),
		CoatingID: r.URL.Query().Get("coating"),
	}
	if cfg.PaperID == "" && cfg.CoatingID != "" {
		cfg.PaperID = h.catalog.DefaultsOrEmpty().Paper
	}
	if err := s.Apply(cfg); err != nil {
		writeError(w, middleware.GetReqID(r.Context()), "VALIDATION_ERROR", err.Error(), nil, http.StatusBadRequest)
		return
	}
	writeJSON(w, s.TurnaroundOptions(), http.StatusOK)
}

// execute runs a request through a fresh session. Selection problems end up
// in the quote issues rather than as a transport error.
func (h *Handler) execute(requestID string, req *QuoteRequest) *QuoteResponse {
	s := configurator.NewSession(h.catalog,
		configurator.WithCache(h.cache),
		configurator.WithMetrics(h.metrics),
		configurator.WithLogger(h.logger.With(zap.String("request_id", requestID))),
		configurator.WithImages(h.images),
	)

	if req.WantsDefaults() {
		_ = s.ApplyDefaults()
	}
	_ = s.Apply(req.Selections)
	for _, f := range req.Images {
		_ = s.AddImage(f)
	}

	currency := req.Currency
	if currency == "" {
		currency = h.currency
	}
	now := h.now()
	q := output.BuildQuote(s, currency, now)

	status := StatusComplete
	if !q.Complete {
		status = StatusIncomplete
	}
	return &QuoteResponse{
		RequestID: requestID,
		Timestamp: now.UTC(),
		Status:    status,
		Context:   s.PricingContext(),
		Breakdown: s.PricingBreakdown(),
		Quote:     q,
		Formatted: output.FormatDecimal(q.Total),
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, requestID, code, message string, fields []string, status int) {
	writeJSON(w, &ErrorResponse{
		RequestID: requestID,
		Error:     ErrorDetail{Code: code, Message: message, Fields: fields},
	}, status)
}
