package catalog

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"print-pricing/core/addon"
	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

// ValidationRule is a catalog validation rule
type ValidationRule func(*types.Catalog) []error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateUniqueIDs,
		validateSingleDefaults,
		validateDefaultsExist,
		validateCustomBounds,
		validatePaperOptions,
		validateAddonConfigurations,
		validateTurnaroundRestrictions,
	}
}

var structValidator = validator.New()

// Validate checks tags first, then every rule, collecting all failures
func Validate(cat *types.Catalog, rules []ValidationRule) []error {
	var errs []error

	if err := structValidator.Struct(cat); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	for _, rule := range rules {
		errs = append(errs, rule(cat)...)
	}
	return errs
}

// Check validates with the default rules and folds failures into one error
func Check(cat *types.Catalog) error {
	errs := Validate(cat, DefaultValidationRules())
	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.TypeConfig, fmt.Sprintf("catalog has %d validation errors", len(errs)), stderrors.Join(errs...))
}

// validateUniqueIDs rejects duplicate ids within a list
func validateUniqueIDs(c *types.Catalog) []error {
	var errs []error
	check := func(kind string, ids []string) {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				errs = append(errs, fmt.Errorf("%s %q is defined more than once", kind, id))
			}
			seen[id] = true
		}
	}

	ids := func(n int, at func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = at(i)
		}
		return out
	}
	check("quantity", ids(len(c.Quantities), func(i int) string { return c.Quantities[i].ID }))
	check("size", ids(len(c.Sizes), func(i int) string { return c.Sizes[i].ID }))
	check("paper", ids(len(c.PaperStocks), func(i int) string { return c.PaperStocks[i].ID }))
	check("turnaround", ids(len(c.TurnaroundTimes), func(i int) string { return c.TurnaroundTimes[i].ID }))
	check("addon", ids(len(c.Addons), func(i int) string { return c.Addons[i].ID }))
	return errs
}

// validateSingleDefaults allows at most one isDefault per list
func validateSingleDefaults(c *types.Catalog) []error {
	var errs []error
	check := func(kind string, n int, isDefault func(int) bool) {
		count := 0
		for i := 0; i < n; i++ {
			if isDefault(i) {
				count++
			}
		}
		if count > 1 {
			errs = append(errs, fmt.Errorf("%s list has %d defaults", kind, count))
		}
	}
	check("quantity", len(c.Quantities), func(i int) bool { return c.Quantities[i].IsDefault })
	check("size", len(c.Sizes), func(i int) bool { return c.Sizes[i].IsDefault })
	check("paper", len(c.PaperStocks), func(i int) bool { return c.PaperStocks[i].IsDefault })
	check("turnaround", len(c.TurnaroundTimes), func(i int) bool { return c.TurnaroundTimes[i].IsDefault })
	return errs
}

// validateDefaultsExist ensures every named default resolves
func validateDefaultsExist(c *types.Catalog) []error {
	d := c.DefaultsOrEmpty()
	var errs []error
	if d.Quantity != "" {
		if _, ok := c.FindQuantity(d.Quantity); !ok {
			errs = append(errs, fmt.Errorf("default quantity %q not found", d.Quantity))
		}
	}
	if d.Size != "" {
		if _, ok := c.FindSize(d.Size); !ok {
			errs = append(errs, fmt.Errorf("default size %q not found", d.Size))
		}
	}
	if d.Paper != "" {
		if _, ok := c.FindPaper(d.Paper); !ok {
			errs = append(errs, fmt.Errorf("default paper %q not found", d.Paper))
		}
	}
	if d.Turnaround != "" {
		if _, ok := c.FindTurnaround(d.Turnaround); !ok {
			errs = append(errs, fmt.Errorf("default turnaround %q not found", d.Turnaround))
		}
	}
	return errs
}

// validateCustomBounds requires fixed options to carry a value and custom bounds to be ordered
func validateCustomBounds(c *types.Catalog) []error {
	var errs []error
	for _, q := range c.Quantities {
		if !q.IsCustom && (q.Value == nil || *q.Value <= 0) {
			errs = append(errs, fmt.Errorf("quantity %q needs a positive value", q.ID))
		}
		if q.CustomMin != nil && q.CustomMax != nil && *q.CustomMin > *q.CustomMax {
			errs = append(errs, fmt.Errorf("quantity %q: customMin %d exceeds customMax %d", q.ID, *q.CustomMin, *q.CustomMax))
		}
	}
	for _, s := range c.Sizes {
		if !s.IsCustom && (s.Width == nil || s.Height == nil) {
			errs = append(errs, fmt.Errorf("size %q needs width and height", s.ID))
		}
		if s.CustomMinWidth != nil && s.CustomMaxWidth != nil && *s.CustomMinWidth > *s.CustomMaxWidth {
			errs = append(errs, fmt.Errorf("size %q: custom width bounds are inverted", s.ID))
		}
		if s.CustomMinHeight != nil && s.CustomMaxHeight != nil && *s.CustomMinHeight > *s.CustomMaxHeight {
			errs = append(errs, fmt.Errorf("size %q: custom height bounds are inverted", s.ID))
		}
	}
	return errs
}

// validatePaperOptions requires one usable coating and sides option per paper
func validatePaperOptions(c *types.Catalog) []error {
	var errs []error
	for _, p := range c.PaperStocks {
		if !anyEnabled(len(p.Coatings), func(i int) bool { return p.Coatings[i].Enabled() }) {
			errs = append(errs, fmt.Errorf("paper %q has no enabled coating", p.ID))
		}
		if !anyEnabled(len(p.Sides), func(i int) bool { return p.Sides[i].Enabled() }) {
			errs = append(errs, fmt.Errorf("paper %q has no enabled sides option", p.ID))
		}
	}
	return errs
}

// validateAddonConfigurations checks model-specific settings
func validateAddonConfigurations(c *types.Catalog) []error {
	var errs []error
	for _, a := range c.Addons {
		switch a.PricingModel {
		case types.PricingTiered:
			if a.Configuration == nil || len(a.Configuration.Tiers) == 0 {
				errs = append(errs, fmt.Errorf("addon %q: TIERED pricing needs at least one tier", a.ID))
			}
		case types.PricingCustom:
			if t := a.ConfigType(); t != "" && !addon.HasDedicatedFormula(t) && t != types.CustomDesign && t != types.CustomFolding {
				errs = append(errs, fmt.Errorf("addon %q: unknown custom type %q", a.ID, t))
			}
			if a.ConfigType() == types.CustomBanding && a.Configuration.ItemsPerBundle != nil && *a.Configuration.ItemsPerBundle <= 0 {
				errs = append(errs, fmt.Errorf("addon %q: itemsPerBundle must be positive", a.ID))
			}
		}
	}
	return errs
}

// validateTurnaroundRestrictions ensures restricted coatings exist somewhere
func validateTurnaroundRestrictions(c *types.Catalog) []error {
	known := make(map[string]bool)
	for _, p := range c.PaperStocks {
		for _, co := range p.Coatings {
			known[co.ID] = true
		}
	}
	var errs []error
	for _, t := range c.TurnaroundTimes {
		if t.DaysMax != nil && *t.DaysMax < t.DaysMin {
			errs = append(errs, fmt.Errorf("turnaround %q: daysMax is below daysMin", t.ID))
		}
		for _, rc := range t.RestrictedCoatings {
			if !known[rc] {
				errs = append(errs, fmt.Errorf("turnaround %q restricts unknown coating %q", t.ID, rc))
			}
		}
	}
	return errs
}

func anyEnabled(n int, enabled func(int) bool) bool {
	for i := 0; i < n; i++ {
		if enabled(i) {
			return true
		}
	}
	return false
}
