package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmortizationPayment(t *testing.T) {
	s, err := NewAmortizationSchedule(decimal.NewFromInt(400000), decimal.NewFromFloat(0.03), 360)
	require.NoError(t, err)
	assert.InDelta(t, 1686.42, s.Payment().InexactFloat64(), 0.01)
	assert.Equal(t, 360, s.Periods())

	// First payment interest is principal * r
	assert.InDelta(t, 1000.00, s.Interest(1).InexactFloat64(), 1e-6)
	assert.InDelta(t, 686.42, s.Principal(1).InexactFloat64(), 0.01)
}

func TestAmortizationSumsReconcile(t *testing.T) {
	principal := decimal.NewFromInt(400000)
	s, err := NewAmortizationSchedule(principal, decimal.NewFromFloat(0.0325), 360)
	require.NoError(t, err)

	totalInterest := decimal.Zero
	balance := principal
	for k := 1; k <= 360; k++ {
		totalInterest = totalInterest.Add(s.Interest(k))
		balance = balance.Sub(s.Principal(k))
		assert.InDelta(t, s.Balance(k).InexactFloat64(), balance.InexactFloat64(), 0.01, "period %d", k)
	}
	assert.True(t, balance.Abs().LessThan(decimal.RequireFromString("0.01")), "balance after the last payment: %s", balance)

	expected := s.Payment().Mul(decimal.NewFromInt(360)).Sub(principal)
	assert.InDelta(t, expected.InexactFloat64(), totalInterest.InexactFloat64(), 0.01)
}

func TestAmortizationZeroRate(t *testing.T) {
	s, err := NewAmortizationSchedule(decimal.NewFromInt(1200), decimal.Zero, 12)
	require.NoError(t, err)
	assert.True(t, s.Payment().Equal(decimal.NewFromInt(100)))
	assert.True(t, s.Interest(5).IsZero())
	assert.True(t, s.Balance(6).Equal(decimal.NewFromInt(600)))
	assert.True(t, s.Balance(12).IsZero())
}

func TestAmortizationRows(t *testing.T) {
	s, err := NewAmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromFloat(0.06), 24)
	require.NoError(t, err)

	rows := s.Rows()
	require.Len(t, rows, 24)
	assert.Equal(t, 1, rows[0].Period)
	assert.True(t, rows[23].Balance.IsZero())
	for _, r := range rows[:23] {
		assert.True(t, r.Payment.Equal(s.Payment()), "period %d", r.Period)
	}
	assert.True(t, s.Interest(0).IsZero())
	assert.True(t, s.Principal(25).IsZero())
}

func TestAmortizationValidation(t *testing.T) {
	_, err := NewAmortizationSchedule(decimal.NewFromInt(1), decimal.Zero, 0)
	assert.Error(t, err)
	_, err = NewAmortizationSchedule(decimal.NewFromInt(-1), decimal.Zero, 12)
	assert.Error(t, err)
	_, err = NewAmortizationSchedule(decimal.NewFromInt(1), decimal.NewFromInt(-1), 12)
	assert.Error(t, err)
}
