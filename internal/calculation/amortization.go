package calculation

import (
	"fmt"

	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

const growthPlaces = 24

var twelve = decimal.NewFromInt(12)

// AmortizationSchedule is a fixed-rate, fixed-term, level-payment monthly loan
type AmortizationSchedule struct {
	principal decimal.Decimal
	rate      decimal.Decimal // periodic
	periods   int
	payment   decimal.Decimal
}

// AmortizationRow is one payment of the schedule
type AmortizationRow struct {
	Period    int
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// NewAmortizationSchedule builds a schedule with periodic rate annualRate / 12
func NewAmortizationSchedule(principal, annualRate decimal.Decimal, periods int) (*AmortizationSchedule, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("amortization needs a positive number of periods, got %d", periods)
	}
	if principal.IsNegative() {
		return nil, fmt.Errorf("amortization principal must not be negative, got %s", principal.String())
	}
	if annualRate.IsNegative() {
		return nil, fmt.Errorf("amortization rate must not be negative, got %s", annualRate.String())
	}
	s := &AmortizationSchedule{
		principal: principal,
		rate:      annualRate.Div(twelve),
		periods:   periods,
	}
	s.payment = s.levelPayment()
	return s, nil
}

// P*r/(1-(1+r)^-n), rewritten as P*r*g/(g-1) with g = (1+r)^n
func (s *AmortizationSchedule) levelPayment() decimal.Decimal {
	n := decimal.NewFromInt(int64(s.periods))
	if s.rate.IsZero() {
		return money.Round(s.principal.Div(n))
	}
	g := s.growth(s.periods)
	return money.Round(s.principal.Mul(s.rate).Mul(g).Div(g.Sub(decimal.NewFromInt(1))))
}

func (s *AmortizationSchedule) growth(k int) decimal.Decimal {
	return money.PowInt(money.GrowthFactor(s.rate), k, growthPlaces)
}

// Payment is the level monthly payment
func (s *AmortizationSchedule) Payment() decimal.Decimal {
	return s.payment
}

// Periods is the number of payments
func (s *AmortizationSchedule) Periods() int {
	return s.periods
}

// Balance is the outstanding principal after payment k (0 = before any payment).
// B(k) = P(1+r)^k - pmt((1+r)^k - 1)/r
func (s *AmortizationSchedule) Balance(k int) decimal.Decimal {
	if k <= 0 {
		return s.principal
	}
	if k >= s.periods {
		return decimal.Zero
	}
	if s.rate.IsZero() {
		return money.NonNegative(s.principal.Sub(s.payment.Mul(decimal.NewFromInt(int64(k)))))
	}
	g := s.growth(k)
	b := s.principal.Mul(g).Sub(s.payment.Mul(g.Sub(decimal.NewFromInt(1))).Div(s.rate))
	return money.NonNegative(money.Round(b))
}

// Interest is the interest portion of the 1-based payment k
func (s *AmortizationSchedule) Interest(k int) decimal.Decimal {
	if k < 1 || k > s.periods {
		return decimal.Zero
	}
	return money.Round(s.Balance(k - 1).Mul(s.rate))
}

// Principal is the principal portion of the 1-based payment k. The final payment
// retires whatever balance remains so the schedule always ends at zero.
func (s *AmortizationSchedule) Principal(k int) decimal.Decimal {
	if k < 1 || k > s.periods {
		return decimal.Zero
	}
	if k == s.periods {
		return s.Balance(k - 1)
	}
	return s.payment.Sub(s.Interest(k))
}

// Rows returns the full schedule
func (s *AmortizationSchedule) Rows() []AmortizationRow {
	rows := make([]AmortizationRow, 0, s.periods)
	for k := 1; k <= s.periods; k++ {
		interest := s.Interest(k)
		principal := s.Principal(k)
		rows = append(rows, AmortizationRow{
			Period:    k,
			Payment:   interest.Add(principal),
			Interest:  interest,
			Principal: principal,
			Balance:   s.Balance(k),
		})
	}
	return rows
}
