// Package api - API types for quoting
// These types define the contract for the /quote endpoint.
// The API is stateless: every request builds a fresh configuration session.
package api

import (
	"time"

	"print-pricing/core/configurator"
	"print-pricing/core/output"
	"print-pricing/core/types"
)

// QuoteRequest is the input to POST /quote
type QuoteRequest struct {
	// Selections override the catalog defaults
	Selections configurator.Configuration `json:"selections"`

	// UseDefaults applies catalog defaults before Selections (default true)
	UseDefaults *bool `json:"useDefaults,omitempty"`

	// Images are already-uploaded artwork descriptors
	Images []types.UploadedFile `json:"images,omitempty" validate:"omitempty,max=50,dive"`

	// Currency is an ISO 4217 code; the server default applies when empty
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
}

// WantsDefaults reports whether catalog defaults should be applied
func (r *QuoteRequest) WantsDefaults() bool {
	return r.UseDefaults == nil || *r.UseDefaults
}

// QuoteResponse is the output of POST /quote
type QuoteResponse struct {
	RequestID  string                 `json:"requestId"`
	Timestamp  time.Time              `json:"timestamp"`
	Status     string                 `json:"status"`
	Context    types.PricingContext   `json:"context"`
	Breakdown  types.PricingBreakdown `json:"breakdown"`
	Quote      *output.Quote          `json:"quote"`
	Formatted  string                 `json:"formatted"`
	DurationMs int64                  `json:"durationMs"`
}

// Response status values
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// ErrorResponse wraps every error body
type ErrorResponse struct {
	RequestID string      `json:"requestId,omitempty"`
	Error     ErrorDetail `json:"error"`
}

// ErrorDetail is a machine-readable error
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
