package calculation

import (
	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

var twentyFour = decimal.NewFromInt(24)

// Financing is the sizing of every instrument for a purchase price
type Financing struct {
	Price       decimal.Decimal
	DownPayment decimal.Decimal
	MAP         decimal.Decimal
	DIP         decimal.Decimal
	RIP         decimal.Decimal
	ZIP         decimal.Decimal
	SFCU        decimal.Decimal
}

// Proceeds is the total lent across all instruments
func (f Financing) Proceeds() decimal.Decimal {
	return f.MAP.Add(f.DIP).Add(f.RIP).Add(f.ZIP).Add(f.SFCU)
}

// SizeLoans splits a purchase price across the stack. Each subsidy loan takes the lesser
// of its share of the price, its absolute cap and what is still unfinanced after the
// minimum down payment. ZIP is also bounded by the buyer's remaining budget.
// The conventional loan takes the residual.
func SizeLoans(price decimal.Decimal, policy domain.LoanPolicy, zipBudget decimal.Decimal) Financing {
	f := Financing{Price: price}
	f.DownPayment = money.Round(policy.MinDownPaymentFraction.Mul(price))
	need := money.NonNegative(price.Sub(f.DownPayment))

	take := func(c domain.LoanCap, limits ...decimal.Decimal) decimal.Decimal {
		amt := decimal.Min(money.Round(c.MaxFraction.Mul(price)), c.MaxAmount, need)
		for _, l := range limits {
			amt = decimal.Min(amt, l)
		}
		amt = money.NonNegative(amt)
		need = need.Sub(amt)
		return amt
	}
	f.MAP = take(policy.MAP.LoanCap)
	f.DIP = take(policy.DIP)
	f.RIP = take(policy.RIP)
	f.ZIP = take(policy.ZIP.LoanCap, zipBudget)
	f.SFCU = need
	return f
}

// foldMAPInterest moves the period accrual into cumulative deferred interest.
// Current-rate payments beyond what accrued never reduce principal.
func foldMAPInterest(m *domain.MAPLoan) {
	m.CumulativeDeferredInterest = money.NonNegative(m.CumulativeDeferredInterest.Add(m.InterestAccruedThisPeriod))
	m.InterestAccruedThisPeriod = decimal.Zero
}

// accrueMAPInterest adds one day of overall-rate interest on principal plus deferred interest
func accrueMAPInterest(m *domain.MAPLoan, daysInYear int) {
	base := m.Principal.Add(m.CumulativeDeferredInterest)
	daily := money.Round(base.Mul(m.OverallRate).Div(decimal.NewFromInt(int64(daysInYear))))
	m.InterestAccruedThisPeriod = m.InterestAccruedThisPeriod.Add(daily)
}

// mapCurrentInterest is the half-month cash payment at the current rate
func mapCurrentInterest(m *domain.MAPLoan) decimal.Decimal {
	return money.Round(m.Principal.Mul(m.CurrentRate).Div(twentyFour))
}

// payMAPCurrentInterest pays the current-rate interest and credits it against the period accrual
func payMAPCurrentInterest(m *domain.MAPLoan) decimal.Decimal {
	paid := mapCurrentInterest(m)
	m.InterestAccruedThisPeriod = m.InterestAccruedThisPeriod.Sub(paid)
	return paid
}

// paySFCU makes the next scheduled payment and returns its interest and principal parts
func paySFCU(loan *domain.ConventionalLoan, sched *AmortizationSchedule) (interest, principal decimal.Decimal, paid bool) {
	if sched == nil || loan.PaymentsMade >= loan.TermMonths || !loan.Balance.IsPositive() {
		return decimal.Zero, decimal.Zero, false
	}
	k := loan.PaymentsMade + 1
	interest = sched.Interest(k)
	principal = decimal.Min(sched.Principal(k), loan.Balance)
	loan.PaymentsMade = k
	loan.Balance = loan.Balance.Sub(principal)
	if k == loan.TermMonths {
		principal = principal.Add(loan.Balance)
		loan.Balance = decimal.Zero
	}
	return interest, principal, true
}

// appreciationShare is principal / purchase price of a positive appreciation
func appreciationShare(principal, purchasePrice, appreciation decimal.Decimal) decimal.Decimal {
	if !appreciation.IsPositive() || !purchasePrice.IsPositive() {
		return decimal.Zero
	}
	return money.ProRata(principal, appreciation, purchasePrice)
}
