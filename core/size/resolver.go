// Package size resolves size selections into dimensions and price multipliers.
// Custom sizes are priced progressively by area.
package size

import (
	"fmt"
	"math"

	"print-pricing/core/types"
)

// DefaultAspectRatio is the width/height ratio used by NormalizeDimensions
const DefaultAspectRatio = 1.5

// Area brackets shared by the multiplier and the category. Upper bounds are inclusive.
const (
	smallMaxArea  = 10
	mediumMaxArea = 25
	largeMaxArea  = 50
	xlargeMaxArea = 100
)

// Category labels a size by area
type Category string

const (
	CategorySmall  Category = "Small"
	CategoryMedium Category = "Medium"
	CategoryLarge  Category = "Large"
	CategoryXLarge Category = "XLarge"
	CategoryCustom Category = "Custom"
)

// CustomDimensions are caller-supplied dimensions for a custom size.
// Zero means "not supplied".
type CustomDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Dimensions are resolved width, height and area in inches
type Dimensions struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	SquareInches float64 `json:"squareInches"`
}

// ValidationResult is the outcome of ValidateCustomSize
type ValidationResult struct {
	IsValid    bool        `json:"isValid"`
	Error      string      `json:"error,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// GetDimensions resolves a size. Catalog sizes return their fixed values;
// custom sizes without both dimensions resolve to zero.
func GetDimensions(s types.Size, custom *CustomDimensions) Dimensions {
	if !s.IsCustom {
		d := Dimensions{
			Width:        deref(s.Width),
			Height:       deref(s.Height),
			SquareInches: deref(s.SquareInches),
		}
		if s.SquareInches == nil {
			d.SquareInches = CalculateSquareInches(d.Width, d.Height)
		}
		return d
	}

	if custom == nil || custom.Width == 0 || custom.Height == 0 {
		return Dimensions{}
	}
	return Dimensions{
		Width:        custom.Width,
		Height:       custom.Height,
		SquareInches: CalculateSquareInches(custom.Width, custom.Height),
	}
}

// CalculateSquareInches returns w*h
func CalculateSquareInches(width, height float64) float64 {
	return width * height
}

// CalculateSizeMultiplier returns the catalog multiplier for standard sizes,
// or the progressive area multiplier for custom sizes.
func CalculateSizeMultiplier(s types.Size, custom *CustomDimensions) float64 {
	if !s.IsCustom {
		return s.PriceMultiplier
	}
	return MultiplierForArea(GetDimensions(s, custom).SquareInches)
}

// MultiplierForArea is the progressive custom-size bracket function
func MultiplierForArea(area float64) float64 {
	switch {
	case area <= smallMaxArea:
		return 1.0
	case area <= mediumMaxArea:
		return 1.2
	case area <= largeMaxArea:
		return 1.5
	case area <= xlargeMaxArea:
		return 2.0
	default:
		return 2.5 + (area-xlargeMaxArea)*0.01
	}
}

// ValidateCustomSize checks custom dimensions against the size's bounds (inclusive)
func ValidateCustomSize(s types.Size, width, height float64) ValidationResult {
	if !s.IsCustom {
		return invalid(fmt.Sprintf("size %q does not support custom dimensions", s.ID))
	}
	if !isPositive(width) || !isPositive(height) {
		return invalid("width and height must be positive numbers")
	}

	checks := []struct {
		value float64
		bound *float64
		isMin bool
		name  string
	}{
		{width, s.CustomMinWidth, true, "width"},
		{width, s.CustomMaxWidth, false, "width"},
		{height, s.CustomMinHeight, true, "height"},
		{height, s.CustomMaxHeight, false, "height"},
	}
	for _, c := range checks {
		if c.bound == nil {
			continue
		}
		if c.isMin && c.value < *c.bound {
			return invalid(fmt.Sprintf("%s must be at least %s inches", c.name, formatInches(*c.bound)))
		}
		if !c.isMin && c.value > *c.bound {
			return invalid(fmt.Sprintf("%s must be at most %s inches", c.name, formatInches(*c.bound)))
		}
	}

	return ValidationResult{
		IsValid: true,
		Dimensions: &Dimensions{
			Width:        width,
			Height:       height,
			SquareInches: CalculateSquareInches(width, height),
		},
	}
}

// NormalizeDimensions keeps width and derives height from targetRatio,
// unless width/height already has that ratio. targetRatio <= 0 uses DefaultAspectRatio.
func NormalizeDimensions(width, height, targetRatio float64) Dimensions {
	if targetRatio <= 0 {
		targetRatio = DefaultAspectRatio
	}
	if height != 0 && width/height == targetRatio {
		return Dimensions{Width: width, Height: height, SquareInches: CalculateSquareInches(width, height)}
	}
	h := width / targetRatio
	return Dimensions{Width: width, Height: h, SquareInches: CalculateSquareInches(width, h)}
}

// GetSizeCategory labels an area using the multiplier brackets
func GetSizeCategory(squareInches float64) Category {
	switch {
	case squareInches <= smallMaxArea:
		return CategorySmall
	case squareInches <= mediumMaxArea:
		return CategoryMedium
	case squareInches <= largeMaxArea:
		return CategoryLarge
	case squareInches <= xlargeMaxArea:
		return CategoryXLarge
	default:
		return CategoryCustom
	}
}

// Contribution builds the SIZE module contribution
func Contribution(s types.Size, custom *CustomDimensions) types.PricingContribution {
	if s.IsCustom {
		if custom == nil {
			return types.InvalidContribution("custom size requires width and height")
		}
		if res := ValidateCustomSize(s, custom.Width, custom.Height); !res.IsValid {
			return types.InvalidContribution(res.Error)
		}
	}

	dims := GetDimensions(s, custom)
	multiplier := CalculateSizeMultiplier(s, custom)
	label := s.Name
	if label == "" {
		label = fmt.Sprintf("%sx%s", formatInches(dims.Width), formatInches(dims.Height))
	}

	return types.PricingContribution{
		Multiplier: multiplier,
		IsValid:    true,
		Calculation: &types.Calculation{
			Description: fmt.Sprintf("%s (%s, %.4g sq in) x%.4g", label, GetSizeCategory(dims.SquareInches), dims.SquareInches, multiplier),
			Breakdown: []types.BreakdownItem{
				{Type: "multiplier", Item: label, Cost: multiplier},
			},
		},
	}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, Error: msg}
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func formatInches(v float64) string {
	return fmt.Sprintf("%g", v)
}
