package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultMortgageLimitCutoff is the date acquisition debt limits changed
const DefaultMortgageLimitCutoff = "2017-12-15"

// DefaultZIPCutoffMonth is the month from which a ZIP origination skips that year's paydown
const DefaultZIPCutoffMonth = time.July

var two = decimal.NewFromInt(2)

// subsidyInterval returns the paychecks between subsidy decrements for a purchase day
func subsidyInterval(s *SimulationState, day int) (int, error) {
	policy := s.Config.Subsidy
	for _, w := range policy.Windows {
		from, err := s.Calendar.ToDay(w.From)
		if err != nil {
			return 0, fmt.Errorf("subsidy window: %w", err)
		}
		to, err := s.Calendar.ToDay(w.To)
		if err != nil {
			return 0, fmt.Errorf("subsidy window: %w", err)
		}
		if day >= from && day <= to {
			return w.Periods, nil
		}
	}
	return policy.DefaultPeriods, nil
}

func deductibleLimit(s *SimulationState, day int) (decimal.Decimal, error) {
	policy := s.Config.Loans
	cutoff := policy.MortgageLimitCutoffDate
	if cutoff == "" {
		cutoff = DefaultMortgageLimitCutoff
	}
	cutoffDay, err := s.Calendar.ToDay(cutoff)
	if err != nil {
		return decimal.Zero, fmt.Errorf("mortgage limit cutoff: %w", err)
	}
	if day < cutoffDay {
		return policy.MortgageLimitBefore, nil
	}
	return policy.MortgageLimitAfter, nil
}

// Purchase moves the property from Unowned to Owned on the current day
func Purchase(s *SimulationState) (*domain.PurchaseRecord, error) {
	prop := s.Property
	buyer := s.Buyer()
	if prop.State != domain.Unowned {
		return nil, domain.Violation("purchase", "property is already %s", prop.State)
	}
	if buyer.SubsidyActive() {
		return nil, domain.Violation("purchase", "%s already receives a subsidy", buyer.Name)
	}
	if !prop.Loans.IsClear() {
		return nil, domain.Violation("purchase", "loan balances are not zero at origination")
	}

	t := s.Today()
	year := t.Year()
	policy := s.Config.Loans
	price := money.Round(prop.FMV.Mul(prop.GroundLeaseFraction))
	fin := SizeLoans(price, policy, buyer.SubsidyBudgetRemaining)

	limit, err := deductibleLimit(s, s.Day)
	if err != nil {
		return nil, err
	}
	interval, err := subsidyInterval(s, s.Day)
	if err != nil {
		return nil, err
	}

	sched, err := NewAmortizationSchedule(fin.SFCU, policy.SFCU.AnnualRate, policy.SFCU.TermYears*12)
	if err != nil {
		return nil, fmt.Errorf("conventional loan: %w", err)
	}

	points := money.Round(policy.SFCU.PointsRate.Mul(fin.SFCU))
	closingCosts := s.Config.Property.ClosingCosts
	closing := price.Add(points).Add(closingCosts).Sub(fin.Proceeds())

	if err := buyer.Ledger.PointsPaid.Add(year, points); err != nil {
		return nil, err
	}
	buyer.BalancePosttax = buyer.BalancePosttax.Sub(closing)
	buyer.SubsidyBudgetRemaining = buyer.SubsidyBudgetRemaining.Sub(fin.ZIP)
	buyer.DeductibleMortgageLimit = limit
	buyer.AwardSubsidy(s.Config.Subsidy.InitialAmount, interval)

	cutoffMonth := DefaultZIPCutoffMonth
	if policy.ZIP.PaydownCutoffMonth != 0 {
		cutoffMonth = time.Month(policy.ZIP.PaydownCutoffMonth)
	}

	prop.State = domain.Owned
	prop.PurchasePrice = price
	prop.FMVAtPurchase = prop.FMV
	prop.TaxAssessment = prop.FMV
	prop.PurchaseDay = s.Day
	prop.Loans = domain.LoanStack{
		MAP: domain.MAPLoan{
			Principal:   fin.MAP,
			OverallRate: policy.MAP.OverallRate,
			CurrentRate: policy.MAP.CurrentRate,
		},
		DIP: fin.DIP,
		RIP: fin.RIP,
		ZIP: domain.ZIPLoan{
			Balance:             fin.ZIP,
			OriginationYear:     year,
			SkipOriginationYear: t.Month() >= cutoffMonth,
		},
		SFCU: domain.ConventionalLoan{
			Principal:  fin.SFCU,
			Balance:    fin.SFCU,
			AnnualRate: policy.SFCU.AnnualRate,
			TermMonths: policy.SFCU.TermYears * 12,
		},
	}
	s.sfcu = sched

	return &domain.PurchaseRecord{
		Date:            t.Format(dateutil.DateLayout),
		FMV:             prop.FMV,
		Price:           price,
		DownPayment:     fin.DownPayment,
		MAP:             fin.MAP,
		DIP:             fin.DIP,
		RIP:             fin.RIP,
		ZIP:             fin.ZIP,
		SFCU:            fin.SFCU,
		SFCUPayment:     sched.Payment(),
		Points:          points,
		ClosingCosts:    closingCosts,
		ClosingPayment:  closing,
		DeductibleLimit: limit,
		SubsidyInterval: interval,
	}, nil
}

// appreciate compounds the market value by one day. The market moves whether or not
// the household owns the home; it stops being tracked after the sale.
func appreciate(s *SimulationState) {
	prop := s.Property
	if prop.State == domain.Sold {
		return
	}
	prop.FMV = money.Round(prop.FMV.Mul(s.Rates.AppreciationDaily))
}

// PropertyDay runs the owner's daily events: loan accrual and payments, assessment,
// property tax, insurance, upkeep and the mortgage balance record.
func PropertyDay(s *SimulationState) error {
	prop := s.Property
	if prop.State != domain.Owned {
		return nil
	}
	buyer := s.Buyer()
	t := s.Today()
	year := t.Year()
	purchased := dateutil.Time(prop.PurchaseDay)
	daysInYear := dateutil.DaysInYear(year)
	loans := &prop.Loans

	// MAP: fold on the monthly anniversary, then accrue today
	if dateutil.IsMonthlyAnniversary(purchased, t) {
		foldMAPInterest(&loans.MAP)
	}
	accrueMAPInterest(&loans.MAP, daysInYear)
	if IsPayDay(t, s.PayDays) && loans.MAP.Principal.IsPositive() {
		paid := payMAPCurrentInterest(&loans.MAP)
		buyer.BalancePosttax = buyer.BalancePosttax.Sub(paid)
		if err := buyer.Ledger.MortgageInterestPaid.Add(year, paid); err != nil {
			return err
		}
	}

	if dateutil.IsMonthlyAnniversary(purchased, t) {
		interest, principal, paid := paySFCU(&loans.SFCU, s.sfcu)
		if paid {
			buyer.BalancePosttax = buyer.BalancePosttax.Sub(interest).Sub(principal)
			if err := buyer.Ledger.MortgageInterestPaid.Add(year, interest); err != nil {
				return err
			}
		}
	}

	if dateutil.IsMonthDay(t, time.July, 1) && s.Day > prop.PurchaseDay && prop.TaxAssessment.IsPositive() {
		step := decimal.Min(s.Config.Property.AssessmentCap, prop.FMV.Div(prop.TaxAssessment))
		prop.TaxAssessment = money.Round(prop.TaxAssessment.Mul(step))
	}

	if dateutil.IsMonthDay(t, time.December, 10) || dateutil.IsMonthDay(t, time.April, 10) {
		installment := money.Round(prop.TaxAssessment.Mul(s.Config.Property.PropertyTaxRate).Div(two))
		buyer.BalancePosttax = buyer.BalancePosttax.Sub(installment)
		if err := buyer.Ledger.StatePropertyTaxPaid.Add(year, installment); err != nil {
			return err
		}
	}

	if s.Day == prop.PurchaseDay || dateutil.IsYearlyAnniversary(purchased, t) {
		buyer.BalancePosttax = buyer.BalancePosttax.Sub(prop.InsurancePremium)
	}

	upkeep := money.Round(prop.FMV.Mul(s.Config.Property.UpkeepRate).Div(decimal.NewFromInt(int64(daysInYear))))
	buyer.BalancePosttax = buyer.BalancePosttax.Sub(upkeep)

	if err := buyer.Ledger.MortgageBalanceDays.Add(year, loans.AcquisitionDebt()); err != nil {
		return err
	}
	if err := buyer.Ledger.DaysOwned.Add(year, decimal.NewFromInt(1)); err != nil {
		return err
	}
	return loans.CheckNonNegative()
}

// Sale moves the property from Owned to Sold on the current day and runs the payoff waterfall
func Sale(s *SimulationState) (*domain.SaleRecord, error) {
	prop := s.Property
	buyer := s.Buyer()
	if prop.State != domain.Owned {
		return nil, domain.Violation("sale", "property is %s", prop.State)
	}
	t := s.Today()
	purchased := dateutil.Time(prop.PurchaseDay)
	loans := &prop.Loans
	if t.After(purchased.AddDate(0, loans.SFCU.TermMonths, 0)) {
		return nil, domain.Violation("sale", "property held past the %d month loan term", loans.SFCU.TermMonths)
	}

	years := dateutil.YearsBetween(dateutil.Time(prop.PurchaseDay), dateutil.Time(s.Day))
	ceiling := money.Round(prop.FMVAtPurchase.Mul(money.PowFloat(prop.AppreciationCap, years)))
	capped := money.Round(decimal.Min(prop.FMV, ceiling).Mul(prop.GroundLeaseFraction))
	price := capped
	if s.KnownPrice != nil {
		if s.KnownPrice.LessThan(capped) {
			return nil, domain.Violation("sale", "known sale price %s is below the capped value %s",
				s.KnownPrice.StringFixed(2), capped.StringFixed(2))
		}
		price = *s.KnownPrice
	}
	appreciation := price.Sub(prop.PurchasePrice)

	rec := &domain.SaleRecord{
		Date:         t.Format(dateutil.DateLayout),
		YearsHeld:    decimal.NewFromFloat(years).Round(4),
		FMV:          prop.FMV,
		CappedValue:  capped,
		SalePrice:    price,
		Appreciation: appreciation,
	}

	proceeds := price
	rec.MAPPrincipal = loans.MAP.Principal
	proceeds = proceeds.Sub(loans.MAP.Principal)
	if appreciation.IsPositive() {
		share := appreciationShare(loans.MAP.Principal, prop.PurchasePrice, appreciation)
		rec.MAPShare = decimal.Min(share, money.NonNegative(loans.MAP.CumulativeDeferredInterest))
		proceeds = proceeds.Sub(rec.MAPShare)
		if err := buyer.Ledger.MortgageInterestPaid.Add(t.Year(), rec.MAPShare); err != nil {
			return nil, err
		}
	}
	rec.DIPPayoff = loans.DIP
	rec.DIPShare = appreciationShare(loans.DIP, prop.PurchasePrice, appreciation)
	proceeds = proceeds.Sub(rec.DIPPayoff).Sub(rec.DIPShare)
	rec.RIPPayoff = loans.RIP
	proceeds = proceeds.Sub(rec.RIPPayoff)
	rec.ZIPPayoff = loans.ZIP.Balance
	proceeds = proceeds.Sub(rec.ZIPPayoff)
	rec.SFCUPayoff = loans.SFCU.Balance
	proceeds = proceeds.Sub(rec.SFCUPayoff)
	rec.NetProceeds = proceeds

	buyer.BalancePosttax = buyer.BalancePosttax.Add(proceeds)
	buyer.CancelSubsidy()
	loans.Retire()
	s.sfcu = nil
	prop.State = domain.Sold
	return rec, nil
}
