package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1222.5, "$1,222.50"},
		{815, "$815.00"},
		{1234567.891, "$1,234,567.89"},
		{0.005, "$0.01"},
		{-42.1, "-$42.10"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in))
		})
	}
}

func TestMoneyRoundsToCents(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1626.01").Equal(Money(1626.005)))
	assert.True(t, decimal.RequireFromString("0.1").Equal(Money(0.1)))
}
