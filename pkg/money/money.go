package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept on balances after a multiplicative update.
// Anything finer than this is noise across a thirty year daily run.
const Scale = 10

// DaysPerYear converts annual compounding rates to daily factors.
const DaysPerYear = 365.25

// ErrInvalidAmount is the sentinel behind InvalidAmountError.
var ErrInvalidAmount = errors.New("invalid amount")

// InvalidAmountError reports a non-numeric value where a number is required
type InvalidAmountError struct {
	Field string
	Value string
}

func (e *InvalidAmountError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid amount %q", e.Value)
	}
	return fmt.Sprintf("invalid amount %q for %s", e.Value, e.Field)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Parse converts a string into a decimal amount
func Parse(field, value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, &InvalidAmountError{Field: field, Value: value}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Field: field, Value: value}
	}
	return d, nil
}

// Round trims an amount to the internal Scale
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Cents rounds an amount for display
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent renders a rate such as 0.0425 as "4.25%"
func Percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(2) + "%"
}

// NonNegative floors an amount at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// GrowthFactor returns 1 + rate
func GrowthFactor(rate decimal.Decimal) decimal.Decimal {
	return one.Add(rate)
}

// DailyFactor converts an annual compounding rate to the per-day multiplier (1+rate)^(1/365.25).
// The root is taken in float64; the result is pinned to 16 places so every run multiplies by
// exactly the same decimal.
func DailyFactor(annualRate decimal.Decimal) decimal.Decimal {
	r := annualRate.InexactFloat64()
	f := math.Pow(1+r, 1/DaysPerYear)
	return decimal.NewFromFloat(f).Round(16)
}

// PowFloat raises base to a fractional exponent, used for caps such as cap^years_held.
func PowFloat(base decimal.Decimal, exponent float64) decimal.Decimal {
	f := math.Pow(base.InexactFloat64(), exponent)
	return decimal.NewFromFloat(f).Round(16)
}

// PowInt raises base to a non-negative integer power by squaring, rounding every
// intermediate product to places so long schedules do not grow unbounded digits.
func PowInt(base decimal.Decimal, n int, places int32) decimal.Decimal {
	result := one
	b := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b).Round(places)
		}
		n >>= 1
		if n > 0 {
			b = b.Mul(b).Round(places)
		}
	}
	return result
}

// ProRata returns amount * part / whole, or zero when whole is zero.
func ProRata(amount, part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Round(amount.Mul(part).Div(whole))
}
