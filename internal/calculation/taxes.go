package calculation

import (
	"fmt"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal and state income tax use marginal bracket tables supplied by configuration
//    - Thresholds, standard deductions and the social security wage base are indexed
//      by the prior year's inflation starting the second simulated year
//    - Filing status is always joint when a second person is configured
//
// 2. SALT: state income tax plus property tax, capped (10,000 by default)
//
// 3. Mortgage interest: scaled by limit / average balance when the average outstanding
//    acquisition debt exceeds the deductible limit (simplified pro-rata, kept on purpose)
//
// 4. Payroll taxes are computed on the year's gross payroll at settlement time:
//    social security is a capped flat rate, medicare a two-tier rate

// ProgressiveTable is an ordered marginal bracket table
type ProgressiveTable struct {
	brackets []domain.TaxBracket
}

// NewProgressiveTable validates and copies a bracket list. Thresholds must start at zero
// and strictly increase.
func NewProgressiveTable(brackets []domain.TaxBracket) (*ProgressiveTable, error) {
	if len(brackets) == 0 {
		return nil, fmt.Errorf("tax table has no brackets")
	}
	if !brackets[0].Threshold.IsZero() {
		return nil, fmt.Errorf("first bracket threshold must be 0, got %s", brackets[0].Threshold.String())
	}
	for i := 1; i < len(brackets); i++ {
		if !brackets[i].Threshold.GreaterThan(brackets[i-1].Threshold) {
			return nil, fmt.Errorf("bracket %d threshold %s is not above %s", i, brackets[i].Threshold.String(), brackets[i-1].Threshold.String())
		}
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() {
			return nil, fmt.Errorf("bracket %d has negative rate %s", i, b.Rate.String())
		}
	}
	return &ProgressiveTable{brackets: append([]domain.TaxBracket(nil), brackets...)}, nil
}

// TaxOwed applies the marginal rates to an amount. Zero and negative amounts owe nothing.
func (t *ProgressiveTable) TaxOwed(amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	total := decimal.Zero
	for i, b := range t.brackets {
		if amount.LessThanOrEqual(b.Threshold) {
			break
		}
		upper := amount
		if i+1 < len(t.brackets) {
			upper = decimal.Min(amount, t.brackets[i+1].Threshold)
		}
		total = total.Add(upper.Sub(b.Threshold).Mul(b.Rate))
	}
	return total
}

// Inflate multiplies every threshold by factor in place. Order is preserved for factor > 0.
func (t *ProgressiveTable) Inflate(factor decimal.Decimal) {
	for i := range t.brackets {
		t.brackets[i].Threshold = money.Round(t.brackets[i].Threshold.Mul(factor))
	}
}

// Brackets returns a copy of the current brackets
func (t *ProgressiveTable) Brackets() []domain.TaxBracket {
	return append([]domain.TaxBracket(nil), t.brackets...)
}

// Clone returns an independent copy
func (t *ProgressiveTable) Clone() *ProgressiveTable {
	return &ProgressiveTable{brackets: t.Brackets()}
}

// CappedRateTax is a flat rate on wages up to a wage base (social security)
type CappedRateTax struct {
	Rate     decimal.Decimal
	WageBase decimal.Decimal
}

// Calculate returns the tax on wages
func (c CappedRateTax) Calculate(wages decimal.Decimal) decimal.Decimal {
	if !wages.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(wages, c.WageBase).Mul(c.Rate)
}

// TwoTierTax is a flat rate up to a threshold and a higher rate above it (medicare)
type TwoTierTax struct {
	Rate       decimal.Decimal
	Threshold  decimal.Decimal
	HigherRate decimal.Decimal
}

// Calculate returns the tax on wages
func (tt TwoTierTax) Calculate(wages decimal.Decimal) decimal.Decimal {
	if !wages.IsPositive() {
		return decimal.Zero
	}
	if wages.LessThanOrEqual(tt.Threshold) {
		return wages.Mul(tt.Rate)
	}
	return tt.Threshold.Mul(tt.Rate).Add(wages.Sub(tt.Threshold).Mul(tt.HigherRate))
}

// TaxTables holds every rate the annual settlement needs for the current year
type TaxTables struct {
	Federal                  *ProgressiveTable
	State                    *ProgressiveTable
	FederalStandardDeduction decimal.Decimal
	StateStandardDeduction   decimal.Decimal
	SALTCap                  decimal.Decimal
	WithholdingRate          decimal.Decimal
	SocialSecurity           CappedRateTax
	Medicare                 TwoTierTax
}

// NewTaxTables builds the first-year tables from configuration
func NewTaxTables(cfg domain.TaxConfig) (*TaxTables, error) {
	federal, err := NewProgressiveTable(cfg.Federal.Brackets)
	if err != nil {
		return nil, fmt.Errorf("federal brackets: %w", err)
	}
	state, err := NewProgressiveTable(cfg.State.Brackets)
	if err != nil {
		return nil, fmt.Errorf("state brackets: %w", err)
	}
	return &TaxTables{
		Federal:                  federal,
		State:                    state,
		FederalStandardDeduction: cfg.Federal.StandardDeduction,
		StateStandardDeduction:   cfg.State.StandardDeduction,
		SALTCap:                  cfg.SALTCap,
		WithholdingRate:          cfg.WithholdingRate,
		SocialSecurity:           CappedRateTax{Rate: cfg.SocialSecurity.Rate, WageBase: cfg.SocialSecurity.WageBase},
		Medicare:                 TwoTierTax{Rate: cfg.Medicare.Rate, Threshold: cfg.Medicare.Threshold, HigherRate: cfg.Medicare.HigherRate},
	}, nil
}

// Index inflates every inflation-linked cutoff by factor. The SALT cap and the
// medicare threshold are fixed in statute and stay put.
func (tt *TaxTables) Index(factor decimal.Decimal) {
	tt.Federal.Inflate(factor)
	tt.State.Inflate(factor)
	tt.FederalStandardDeduction = money.Round(tt.FederalStandardDeduction.Mul(factor))
	tt.StateStandardDeduction = money.Round(tt.StateStandardDeduction.Mul(factor))
	tt.SocialSecurity.WageBase = money.Round(tt.SocialSecurity.WageBase.Mul(factor))
}

// Clone returns an independent copy
func (tt *TaxTables) Clone() *TaxTables {
	c := *tt
	c.Federal = tt.Federal.Clone()
	c.State = tt.State.Clone()
	return &c
}
