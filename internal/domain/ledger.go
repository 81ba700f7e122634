package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// YearAmounts accumulates one ledger category per tax year. Entries are created on first write.
type YearAmounts struct {
	byYear map[int]decimal.Decimal
}

// Get returns the amount for a year, zero when nothing was recorded
func (y *YearAmounts) Get(year int) decimal.Decimal {
	if y.byYear == nil {
		return decimal.Zero
	}
	return y.byYear[year]
}

// Has reports whether the year has an entry
func (y *YearAmounts) Has(year int) bool {
	_, ok := y.byYear[year]
	return ok
}

// Add increases the year's amount. Accumulators never decrease through Add.
func (y *YearAmounts) Add(year int, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return Violation("ledger", "negative amount %s recorded for %d", amount.String(), year)
	}
	if y.byYear == nil {
		y.byYear = make(map[int]decimal.Decimal)
	}
	y.byYear[year] = y.byYear[year].Add(amount)
	return nil
}

// Take returns the year's amount and zeroes it
func (y *YearAmounts) Take(year int) decimal.Decimal {
	v := y.Get(year)
	if y.byYear != nil {
		if _, ok := y.byYear[year]; ok {
			y.byYear[year] = decimal.Zero
		}
	}
	return v
}

// Years lists the years with entries in ascending order
func (y *YearAmounts) Years() []int {
	years := make([]int, 0, len(y.byYear))
	for yr := range y.byYear {
		years = append(years, yr)
	}
	sort.Ints(years)
	return years
}

// TaxLedger is the per-person record feeding the annual settlement
type TaxLedger struct {
	GrossPayroll         YearAmounts
	TaxablePay           YearAmounts
	EscrowedWithholding  YearAmounts
	StateIncomeTaxPaid   YearAmounts
	StatePropertyTaxPaid YearAmounts
	MortgageInterestPaid YearAmounts
	PointsPaid           YearAmounts
	MortgageBalanceDays  YearAmounts // sum of the outstanding acquisition debt over each owned day
	DaysOwned            YearAmounts

	// MedicalDeduction holds the deduction in force during each closed year. It is
	// not a settlement accumulator: it neither marks a year active nor transfers.
	MedicalDeduction YearAmounts
}

func (l *TaxLedger) categories() []*YearAmounts {
	return []*YearAmounts{
		&l.GrossPayroll,
		&l.TaxablePay,
		&l.EscrowedWithholding,
		&l.StateIncomeTaxPaid,
		&l.StatePropertyTaxPaid,
		&l.MortgageInterestPaid,
		&l.PointsPaid,
		&l.MortgageBalanceDays,
		&l.DaysOwned,
	}
}

// AverageMortgageBalance is the mean outstanding acquisition debt over the owned days of a year
func (l *TaxLedger) AverageMortgageBalance(year int) decimal.Decimal {
	days := l.DaysOwned.Get(year)
	if days.IsZero() {
		return decimal.Zero
	}
	return l.MortgageBalanceDays.Get(year).Div(days)
}

// TransferYear moves every accumulator of one year from another ledger into this one.
// The source entries are zeroed.
func (l *TaxLedger) TransferYear(from *TaxLedger, year int) error {
	dst := l.categories()
	for i, src := range from.categories() {
		if !src.Has(year) {
			continue
		}
		if err := dst[i].Add(year, src.Take(year)); err != nil {
			return err
		}
	}
	return nil
}

// Years lists every year present in any category
func (l *TaxLedger) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, c := range l.categories() {
		for _, y := range c.Years() {
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	}
	sort.Ints(years)
	return years
}
