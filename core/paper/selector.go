// Package paper resolves paper stock, coating and sides into base-price terms.
// Coating and sides cascade from the selected paper.
package paper

import (
	"fmt"
	"sync"

	"print-pricing/core/types"
	perrors "print-pricing/internal/errors"
)

// Pricing is the multiplier triple consumed by the engine's base price step
type Pricing struct {
	PricePerUnit      float64 `json:"pricePerUnit"`
	CoatingMultiplier float64 `json:"coatingMultiplier"`
	SidesMultiplier   float64 `json:"sidesMultiplier"`
}

// Multiplier returns coating x sides
func (p Pricing) Multiplier() float64 {
	return p.CoatingMultiplier * p.SidesMultiplier
}

// Selection is the current paper/coating/sides choice
type Selection struct {
	PaperID   string `json:"paperId"`
	CoatingID string `json:"coatingId"`
	SidesID   string `json:"sidesId"`
}

// Selector holds the paper selection state for one configuration session
type Selector struct {
	stocks    []types.PaperStock
	selection Selection
	mu        sync.RWMutex
}

// NewSelector creates a selector over a catalog's paper stocks
func NewSelector(stocks []types.PaperStock) *Selector {
	return &Selector{stocks: stocks}
}

// Selection returns the current selection
func (s *Selector) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SelectPaper selects a paper and resets coating and sides to its defaults
func (s *Selector) SelectPaper(paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, ok := s.find(paperID)
	if !ok {
		return perrors.NotFound("paper stock", paperID)
	}

	s.selection = Selection{
		PaperID:   stock.ID,
		CoatingID: DefaultCoating(stock).ID,
		SidesID:   DefaultSides(stock).ID,
	}
	return nil
}

// SelectCoating selects a coating belonging to the current paper
func (s *Selector) SelectCoating(coatingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, ok := s.find(s.selection.PaperID)
	if !ok {
		return perrors.Validation("select a paper before choosing a coating")
	}
	c, ok := findCoating(stock, coatingID)
	if !ok || !c.Enabled() {
		return perrors.Validationf("coating %q is not available for %s", coatingID, stock.ID)
	}
	s.selection.CoatingID = c.ID
	return nil
}

// SelectSides selects an enabled sides option belonging to the current paper
func (s *Selector) SelectSides(sidesID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, ok := s.find(s.selection.PaperID)
	if !ok {
		return perrors.Validation("select a paper before choosing sides")
	}
	for _, opt := range AvailableSides(stock) {
		if opt.ID == sidesID {
			s.selection.SidesID = opt.ID
			return nil
		}
	}
	return perrors.Validationf("sides option %q is not available for %s", sidesID, stock.ID)
}

// Pricing returns the multiplier triple for the current selection
func (s *Selector) Pricing() (Pricing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pricing()
}

// Contribution builds the PAPER_STOCK module contribution
func (s *Selector) Contribution() types.PricingContribution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.pricing()
	if err != nil {
		return types.InvalidContribution(err.Error())
	}

	stock, _ := s.find(s.selection.PaperID)
	coating, _ := findCoating(stock, s.selection.CoatingID)
	sides, _ := findSides(stock, s.selection.SidesID)

	return types.PricingContribution{
		BasePrice:  p.PricePerUnit,
		Multiplier: p.Multiplier(),
		IsValid:    true,
		Calculation: &types.Calculation{
			Description: fmt.Sprintf("%s, %s, %s", nameOr(stock.Name, stock.ID), nameOr(coating.Name, coating.ID), nameOr(sides.Name, sides.ID)),
			Breakdown: []types.BreakdownItem{
				{Type: "price_per_unit", Item: nameOr(stock.Name, stock.ID), Cost: p.PricePerUnit},
				{Type: "multiplier", Item: nameOr(coating.Name, coating.ID), Cost: p.CoatingMultiplier},
				{Type: "multiplier", Item: nameOr(sides.Name, sides.ID), Cost: p.SidesMultiplier},
			},
		},
	}
}

func (s *Selector) pricing() (Pricing, error) {
	stock, ok := s.find(s.selection.PaperID)
	if !ok {
		return Pricing{}, perrors.Validation("no paper stock selected")
	}
	coating, ok := findCoating(stock, s.selection.CoatingID)
	if !ok {
		return Pricing{}, perrors.Newf(perrors.TypeSystem, "coating %q does not belong to %s", s.selection.CoatingID, stock.ID)
	}
	sides, ok := findSides(stock, s.selection.SidesID)
	if !ok {
		return Pricing{}, perrors.Newf(perrors.TypeSystem, "sides %q does not belong to %s", s.selection.SidesID, stock.ID)
	}
	return Pricing{
		PricePerUnit:      stock.PricePerUnit,
		CoatingMultiplier: coating.PriceMultiplier,
		SidesMultiplier:   sides.PriceMultiplier,
	}, nil
}

func (s *Selector) find(id string) (types.PaperStock, bool) {
	if id == "" {
		return types.PaperStock{}, false
	}
	for _, p := range s.stocks {
		if p.ID == id {
			return p, true
		}
	}
	return types.PaperStock{}, false
}

// AvailableSides returns the sides options that may be offered
func AvailableSides(stock types.PaperStock) []types.SidesOption {
	out := make([]types.SidesOption, 0, len(stock.Sides))
	for _, opt := range stock.Sides {
		if opt.Enabled() {
			out = append(out, opt)
		}
	}
	return out
}

// DefaultCoating returns the paper's default coating, or its first enabled one
func DefaultCoating(stock types.PaperStock) types.Coating {
	var first *types.Coating
	for i := range stock.Coatings {
		c := stock.Coatings[i]
		if !c.Enabled() {
			continue
		}
		if c.IsDefault {
			return c
		}
		if first == nil {
			first = &stock.Coatings[i]
		}
	}
	if first != nil {
		return *first
	}
	return types.Coating{}
}

// DefaultSides returns the paper's default sides option, or its first enabled one
func DefaultSides(stock types.PaperStock) types.SidesOption {
	available := AvailableSides(stock)
	for _, opt := range available {
		if opt.IsDefault {
			return opt
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return types.SidesOption{}
}

func findCoating(stock types.PaperStock, id string) (types.Coating, bool) {
	for _, c := range stock.Coatings {
		if c.ID == id {
			return c, true
		}
	}
	return types.Coating{}, false
}

func findSides(stock types.PaperStock, id string) (types.SidesOption, bool) {
	for _, opt := range AvailableSides(stock) {
		if opt.ID == id {
			return opt, true
		}
	}
	return types.SidesOption{}, false
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
