// Package output builds quotes from a configuration session and renders them.
package output

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"print-pricing/core/configurator"
	"print-pricing/core/modstate"
	"print-pricing/core/turnaround"
	"print-pricing/core/types"
)

// DefaultCurrency is used when a quote has no currency set
const DefaultCurrency = "USD"

// QuoteLine is one priced stage of a quote
type QuoteLine struct {
	Module      types.ModuleType      `json:"module"`
	Label       string                `json:"label"`
	Description string                `json:"description,omitempty"`
	Amount      decimal.Decimal       `json:"amount"`
	Items       []types.BreakdownItem `json:"items,omitempty"`
}

// Quote is a priced, rounded snapshot of a configuration
type Quote struct {
	ID            string                     `json:"id"`
	SessionID     string                     `json:"sessionId"`
	Product       string                     `json:"product,omitempty"`
	Currency      string                     `json:"currency"`
	CreatedAt     time.Time                  `json:"createdAt"`
	Configuration configurator.Configuration `json:"configuration"`

	Quantity        int             `json:"quantity"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	AddonCosts      decimal.Decimal `json:"addonCosts"`
	TurnaroundCosts decimal.Decimal `json:"turnaroundCosts"`
	Total           decimal.Decimal `json:"total"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Lines           []QuoteLine     `json:"lines"`

	Complete bool                   `json:"complete"`
	Issues   []modstate.ModuleError `json:"issues,omitempty"`
	Delivery *turnaround.Window     `json:"delivery,omitempty"`
}

// BuildQuote snapshots s at now. Amounts are rounded to cents per line and
// the total is the sum of the rounded lines.
func BuildQuote(s *configurator.Session, currency string, now time.Time) *Quote {
	if currency == "" {
		currency = DefaultCurrency
	}
	ctx := s.PricingContext()
	b := s.PricingBreakdown()

	q := &Quote{
		ID:              uuid.NewString(),
		SessionID:       s.ID,
		Product:         s.Catalog().Product,
		Currency:        currency,
		CreatedAt:       now,
		Configuration:   s.Configuration(),
		Quantity:        ctx.Quantity,
		BasePrice:       Money(b.BasePrice),
		AddonCosts:      Money(b.AddonCosts),
		TurnaroundCosts: Money(b.TurnaroundCosts),
		Complete:        ctx.IsComplete(),
		Lines:           make([]QuoteLine, 0, len(b.Breakdown)),
	}
	q.Total = q.BasePrice.Add(q.AddonCosts).Add(q.TurnaroundCosts)
	if ctx.Quantity > 0 {
		q.UnitPrice = q.Total.Div(decimal.NewFromInt(int64(ctx.Quantity))).Round(4)
	}

	for _, mb := range b.Breakdown {
		q.Lines = append(q.Lines, QuoteLine{
			Module:      mb.Module,
			Label:       mb.Label,
			Description: mb.Description,
			Amount:      Money(mb.Cost),
			Items:       mb.Items,
		})
	}

	for _, m := range types.AllModules {
		q.Issues = append(q.Issues, s.State().Errors(m)...)
	}
	if w, ok := s.DeliveryWindow(now); ok {
		q.Delivery = &w
	}
	return q
}

// Summary is a one-line description of the quote
func (q *Quote) Summary() string {
	if !q.Complete {
		return "configuration incomplete"
	}
	return fmt.Sprintf("%d x %s = %s", q.Quantity, q.Product, FormatDecimal(q.Total))
}
