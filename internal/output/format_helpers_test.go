package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.567", "$1,234.57"},
		{"0", "$0.00"},
		{"0.5", "$0.50"},
		{"-0.5", "-$0.50"},
		{"-1250000", "-$1,250,000.00"},
		{"999.999", "$1,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(12.3456)))
	assert.Equal(t, "4.25%", FormatRate(decimal.RequireFromString("0.0425")))
	assert.Equal(t, "-3.10", Amount(decimal.RequireFromString("-3.1")))
}
