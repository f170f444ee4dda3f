package output

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatPrice renders a dollar amount with two decimals and thousands
// separators: 1222.5 becomes "$1,222.50". Presentation only.
func FormatPrice(n float64) string {
	return FormatDecimal(decimal.NewFromFloat(n))
}

// FormatDecimal is FormatPrice for decimal amounts
func FormatDecimal(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// Money rounds a float amount to cents
func Money(n float64) decimal.Decimal {
	return decimal.NewFromFloat(n).Round(2)
}
