package output

import (
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	cents := money.Cents(amount)
	sign := ""
	if cents.IsNegative() {
		sign = "-"
		cents = cents.Abs()
	}
	whole := cents.IntPart()
	frac := cents.Sub(decimal.NewFromInt(whole)).StringFixed(2)[1:]
	return sign + "$" + printer.Sprintf("%d", whole) + frac
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate such as 0.0425 as "4.25%".
func FormatRate(rate decimal.Decimal) string {
	return money.Percent(rate)
}

// Amount renders a value for machine-readable outputs
func Amount(d decimal.Decimal) string { return d.StringFixed(2) }
