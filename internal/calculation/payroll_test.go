package calculation

import (
	"errors"
	"testing"
	"time"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayDates(t *testing.T) {
	assert.Equal(t, [2]int{15, 28}, PayDates(2022, time.February, DefaultPayDays))
	assert.Equal(t, [2]int{15, 29}, PayDates(2024, time.February, DefaultPayDays))
	assert.Equal(t, [2]int{15, 30}, PayDates(2021, time.September, [2]int{31, 15}))

	date := func(s string) time.Time {
		tm, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return tm
	}
	assert.True(t, IsPayDay(date("2021-02-28"), DefaultPayDays))
	assert.True(t, IsPayDay(date("2021-03-15"), DefaultPayDays))
	assert.False(t, IsPayDay(date("2021-03-30"), DefaultPayDays))
	assert.True(t, isLastPayDayOfYear(date("2021-12-31"), DefaultPayDays))
	assert.False(t, isLastPayDayOfYear(date("2021-12-15"), DefaultPayDays))
	assert.True(t, isLastPayDayOfYear(date("2021-12-20"), [2]int{5, 20}))
}

func TestRunPayrollSplitsPay(t *testing.T) {
	s := newTestState(t, testConfig())
	at(t, s, "2021-09-15")
	p := s.Buyer()

	pc, err := RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, pc.Gross.Equal(d("6500")))
	assert.True(t, pc.Taxable.Equal(d("5600")))
	assert.True(t, pc.Withholding.Equal(d("1400")))
	assert.True(t, pc.Net.Equal(d("4200")))

	assert.True(t, p.BalancePretax.Equal(d("750")))
	assert.True(t, p.BalancePosttax.Equal(d("254200")))
	assert.True(t, p.Ledger.GrossPayroll.Get(2021).Equal(d("6500")))
	assert.True(t, p.Ledger.TaxablePay.Get(2021).Equal(d("5600")))
	assert.True(t, p.Ledger.EscrowedWithholding.Get(2021).Equal(d("1400")))
}

func TestSubsidyDelayAndDecay(t *testing.T) {
	s := newTestState(t, testConfig())
	at(t, s, "2021-09-15")
	p := s.Buyer()
	p.AwardSubsidy(d("1000"), 2)

	expected := []string{"0", "1000", "1000", "900", "900", "800"}
	for i, want := range expected {
		pc, err := RunPayroll(s, p, true)
		require.NoError(t, err)
		assert.True(t, pc.Subsidy.Equal(d(want)), "paycheck %d: got %s", i+1, pc.Subsidy)
	}
	assert.Equal(t, 1, p.SubsidyPeriodsRemaining)

	p.SubsidyAmount = d("50")
	p.SubsidyPeriodsRemaining = 1
	_, err := RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, p.SubsidyAmount.IsZero(), "decay floors at zero")
	assert.False(t, p.SubsidyActive())
}

func TestRunPayrollGrossBelowSavings(t *testing.T) {
	s := newTestState(t, testConfig())
	at(t, s, "2021-09-15")
	p := s.Buyer()
	p.Salary = d("500")

	_, err := RunPayroll(s, p, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
	assert.Contains(t, err.Error(), "2021-09-15")
}

func TestZIPDecemberPaydown(t *testing.T) {
	s := purchased(t)
	p := s.Buyer()

	at(t, s, "2021-12-31")
	pc, err := RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, pc.ZIPPaydown.IsZero(), "origination after July skips its own year")

	at(t, s, "2022-12-15")
	pc, err = RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, pc.ZIPPaydown.IsZero())

	at(t, s, "2022-12-31")
	before := p.BalancePosttax
	pc, err = RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, pc.ZIPPaydown.Equal(d("10000")))
	assert.True(t, pc.Gross.Equal(d("17500")))
	assert.True(t, pc.Net.Equal(d("2450")))
	assert.True(t, p.BalancePosttax.Sub(before).Equal(d("2450")), "paydown never reaches cash")
	assert.True(t, s.Property.Loans.ZIP.Balance.Equal(d("50000")))

	s.Property.Loans.ZIP.Balance = d("4000")
	at(t, s, "2023-12-31")
	pc, err = RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, pc.ZIPPaydown.Equal(d("4000")))
	assert.True(t, s.Property.Loans.ZIP.Balance.IsZero())

	at(t, s, "2024-12-31")
	pc, err = RunPayroll(s, p, true)
	require.NoError(t, err)
	assert.True(t, pc.ZIPPaydown.IsZero())
}

func TestZIPPaydownOnlyForBuyer(t *testing.T) {
	s := purchased(t)
	at(t, s, "2022-12-31")
	pc, err := RunPayroll(s, s.Buyer(), false)
	require.NoError(t, err)
	assert.True(t, pc.ZIPPaydown.IsZero())
	assert.True(t, s.Property.Loans.ZIP.Balance.Equal(d("60000")))
}
