package calculation

import (
	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

// hasActivity reports whether any person recorded anything for the year
func hasActivity(s *SimulationState, year int) bool {
	for _, p := range s.People {
		for _, y := range p.Ledger.Years() {
			if y == year {
				return true
			}
		}
	}
	return false
}

// SettleYear files the joint return for a tax year on the current day. The second
// person's accumulators are merged into the primary ledger first. Returns nil when
// nothing was recorded for the year.
func SettleYear(s *SimulationState, year int) (*domain.TaxReturn, error) {
	if !hasActivity(s, year) {
		return nil, nil
	}
	primary := s.Buyer()
	tables := s.TablesFor(year)

	// Social security is capped per earner, so it is computed before the merge.
	socialSecurity := decimal.Zero
	medical := decimal.Zero
	for _, p := range s.People {
		socialSecurity = socialSecurity.Add(tables.SocialSecurity.Calculate(p.Ledger.GrossPayroll.Get(year)))
		medical = medical.Add(p.MedicalDeductionFor(year))
	}
	for _, p := range s.People[1:] {
		if err := primary.Ledger.TransferYear(&p.Ledger, year); err != nil {
			return nil, err
		}
	}
	l := &primary.Ledger

	ret := &domain.TaxReturn{
		Year:              year,
		Date:              s.Today().Format(dateutil.DateLayout),
		Person:            primary.Name,
		GrossPayroll:      l.GrossPayroll.Get(year),
		AGI:               l.TaxablePay.Get(year),
		MortgageInterest:  l.MortgageInterestPaid.Get(year),
		AverageMortgage:   l.AverageMortgageBalance(year),
		SocialSecurityTax: money.Round(socialSecurity),
	}
	propertyTax := l.StatePropertyTaxPaid.Get(year)
	points := l.PointsPaid.Get(year)

	stateItemized := propertyTax.Add(ret.MortgageInterest).Add(points).Add(medical)
	ret.StateDeduction = decimal.Max(tables.StateStandardDeduction, stateItemized)
	ret.StateTaxable = money.NonNegative(ret.AGI.Sub(ret.StateDeduction))
	ret.StateTax = money.Round(tables.State.TaxOwed(ret.StateTaxable))
	if err := l.StateIncomeTaxPaid.Add(year, ret.StateTax); err != nil {
		return nil, err
	}

	// Pro-rata scaling of interest by limit / average balance is a simplification of
	// the acquisition debt rules and is kept as the modeled policy.
	ret.DeductibleInterest = ret.MortgageInterest
	limit := primary.DeductibleMortgageLimit
	if limit.IsPositive() && ret.AverageMortgage.GreaterThan(limit) {
		ret.DeductibleInterest = money.ProRata(ret.MortgageInterest, limit, ret.AverageMortgage)
	}
	salt := decimal.Min(tables.SALTCap, l.StateIncomeTaxPaid.Get(year).Add(propertyTax))
	ret.FederalItemized = salt.Add(ret.DeductibleInterest).Add(points).Add(medical)
	ret.FederalDeduction = decimal.Max(tables.FederalStandardDeduction, ret.FederalItemized)
	ret.FederalTaxable = money.NonNegative(ret.AGI.Sub(ret.FederalDeduction))
	ret.FederalTax = money.Round(tables.Federal.TaxOwed(ret.FederalTaxable))

	ret.MedicareTax = money.Round(tables.Medicare.Calculate(ret.GrossPayroll))
	ret.TotalTax = ret.FederalTax.Add(ret.StateTax).Add(ret.SocialSecurityTax).Add(ret.MedicareTax)
	ret.Withholding = l.EscrowedWithholding.Take(year)
	ret.Due = ret.TotalTax.Sub(ret.Withholding)

	primary.BalancePosttax = primary.BalancePosttax.Sub(ret.Due)
	if year > s.LastSettledYear {
		s.LastSettledYear = year
	}
	return ret, nil
}

// IntegrityWarnings lists every person and year still holding escrowed withholding
func IntegrityWarnings(s *SimulationState) []domain.IntegrityWarning {
	var out []domain.IntegrityWarning
	for _, p := range s.People {
		for _, year := range p.Ledger.EscrowedWithholding.Years() {
			v := p.Ledger.EscrowedWithholding.Get(year)
			if !v.IsZero() {
				out = append(out, domain.IntegrityWarning{Year: year, Person: p.Name, EscrowedWithholding: v})
			}
		}
	}
	return out
}
