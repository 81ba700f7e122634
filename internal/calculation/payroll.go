package calculation

import (
	"time"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultZIPPaydown is the December ZIP paydown when configuration leaves it unset
var DefaultZIPPaydown = decimal.NewFromInt(10000)

// PayDates returns the pay dates of a month, clamped to its last day and ascending
func PayDates(year int, month time.Month, payDays [2]int) [2]int {
	a := dateutil.ClampDay(year, month, payDays[0])
	b := dateutil.ClampDay(year, month, payDays[1])
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// IsPayDay reports whether t is a pay date
func IsPayDay(t time.Time, payDays [2]int) bool {
	d := PayDates(t.Year(), t.Month(), payDays)
	return t.Day() == d[0] || t.Day() == d[1]
}

// isLastPayDayOfYear reports whether t is the final December pay date
func isLastPayDayOfYear(t time.Time, payDays [2]int) bool {
	if t.Month() != time.December {
		return false
	}
	return t.Day() == PayDates(t.Year(), time.December, payDays)[1]
}

// Paycheck is the breakdown of one person's pay on one pay date
type Paycheck struct {
	Salary      decimal.Decimal
	Subsidy     decimal.Decimal
	ZIPPaydown  decimal.Decimal
	Gross       decimal.Decimal
	Savings     decimal.Decimal
	Premium     decimal.Decimal
	Taxable     decimal.Decimal
	Withholding decimal.Decimal
	Net         decimal.Decimal
}

// paySubsidy returns this paycheck's subsidy and advances the decay countdown.
// The first paycheck after an award is skipped without touching the countdown.
func paySubsidy(p *domain.Person, decrement decimal.Decimal) decimal.Decimal {
	if !p.SubsidyActive() {
		return decimal.Zero
	}
	if p.SubsidyDelay {
		p.SubsidyDelay = false
		return decimal.Zero
	}
	if p.SubsidyPeriodsRemaining < 0 {
		p.SubsidyPeriodsRemaining = p.SubsidyInterval
	}
	paid := p.SubsidyAmount
	p.SubsidyPeriodsRemaining--
	if p.SubsidyPeriodsRemaining <= 0 {
		p.SubsidyAmount = money.NonNegative(p.SubsidyAmount.Sub(decrement))
		p.SubsidyPeriodsRemaining = p.SubsidyInterval
	}
	return paid
}

// zipPaydown applies the December paydown when the buyer's ZIP is eligible this year
func zipPaydown(s *SimulationState, t time.Time) decimal.Decimal {
	prop := s.Property
	zip := &prop.Loans.ZIP
	if prop.State != domain.Owned || !zip.Balance.IsPositive() || !isLastPayDayOfYear(t, s.PayDays) {
		return decimal.Zero
	}
	if zip.SkipOriginationYear && t.Year() == zip.OriginationYear {
		return decimal.Zero
	}
	amount := s.Config.Loans.ZIP.AnnualPaydown
	if amount.IsZero() {
		amount = DefaultZIPPaydown
	}
	paydown := decimal.Min(amount, zip.Balance)
	zip.Balance = zip.Balance.Sub(paydown)
	return paydown
}

// RunPayroll pays one person on a pay date. The paydown is part of gross and taxable
// pay but goes to the ZIP lender rather than to cash.
func RunPayroll(s *SimulationState, p *domain.Person, buyer bool) (Paycheck, error) {
	t := s.Today()
	year := t.Year()
	pc := Paycheck{
		Salary:  p.Salary,
		Savings: p.PretaxSavings,
		Premium: p.MedicalPremium,
	}
	pc.Subsidy = paySubsidy(p, s.Config.Subsidy.Decrement)
	if buyer {
		pc.ZIPPaydown = zipPaydown(s, t)
	}
	pc.Gross = pc.Salary.Add(pc.Subsidy).Add(pc.ZIPPaydown)
	if pc.Gross.LessThan(pc.Savings) {
		return pc, domain.Violation("payroll", "%s gross pay %s is below pre-tax savings %s on %s",
			p.Name, pc.Gross.StringFixed(2), pc.Savings.StringFixed(2), t.Format(dateutil.DateLayout))
	}

	pc.Taxable = money.NonNegative(pc.Gross.Sub(pc.Savings).Sub(pc.Premium))
	pc.Withholding = money.Round(pc.Taxable.Mul(s.TablesFor(year).WithholdingRate))
	pc.Net = pc.Taxable.Sub(pc.Withholding).Sub(pc.ZIPPaydown)

	p.BalancePretax = p.BalancePretax.Add(pc.Savings)
	p.BalancePosttax = p.BalancePosttax.Add(pc.Net)

	if err := p.Ledger.GrossPayroll.Add(year, pc.Gross); err != nil {
		return pc, err
	}
	if err := p.Ledger.TaxablePay.Add(year, pc.Taxable); err != nil {
		return pc, err
	}
	if err := p.Ledger.EscrowedWithholding.Add(year, pc.Withholding); err != nil {
		return pc, err
	}
	return pc, nil
}
