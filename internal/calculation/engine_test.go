package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortConfig() *domain.Configuration {
	cfg := testConfig()
	cfg.Simulation.EndDate = "2022-12-31"
	return cfg
}

func collect(t *testing.T, cfg *domain.Configuration) (*domain.SimulationResult, []domain.DailySnapshot) {
	t.Helper()
	var lines []domain.DailySnapshot
	sink := DailySinkFunc(func(s domain.DailySnapshot) error {
		lines = append(lines, s)
		return nil
	})
	res, err := NewCalculationEngine().RunScenario(context.Background(), cfg, cfg.BaseScenario(), sink)
	require.NoError(t, err)
	return res, lines
}

func TestRunScenarioShortHorizon(t *testing.T) {
	res, lines := collect(t, shortConfig())

	assert.Equal(t, "test", res.Scenario)
	assert.Equal(t, 487, res.Days)
	require.Len(t, lines, 488, "one line per day plus the ending line")
	assert.Equal(t, "2021-09-01", lines[0].Date)
	assert.Equal(t, "2022-12-31", lines[486].Date)
	assert.Equal(t, "2032-12-31", lines[487].Date)
	assert.Equal(t, lines[487], res.Ending)
	for i := 1; i < 487; i++ {
		assert.Equal(t, lines[i-1].Day+1, lines[i].Day)
	}

	require.NotNil(t, res.Purchase)
	assert.Nil(t, res.Sale)
	assert.True(t, lines[0].Posttax.LessThan(d("197600")), "closing paid on the first day")
	assert.True(t, lines[0].Pretax.IsZero())

	require.Len(t, res.Taxes, 2)
	assert.Equal(t, 2021, res.Taxes[0].Year)
	assert.Equal(t, "2022-04-15", res.Taxes[0].Date)
	assert.Equal(t, 2022, res.Taxes[1].Year)
	assert.Equal(t, "2022-12-31", res.Taxes[1].Date, "open years settle at the end of the run")
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Annual, 2)
	assert.Equal(t, "2021-12-31", res.Annual[0].Date)
	assert.Equal(t, "owned", res.Annual[1].PropertyState)
	assert.True(t, res.Annual[1].PriceIndex.GreaterThan(decimal.NewFromInt(1)))
	assert.NotEmpty(t, res.Assumptions)
}

func TestRunScenarioIsDeterministic(t *testing.T) {
	_, first := collect(t, shortConfig())
	_, second := collect(t, shortConfig())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Date, second[i].Date)
		assert.True(t, first[i].Pretax.Equal(second[i].Pretax), first[i].Date)
		assert.True(t, first[i].Posttax.Equal(second[i].Posttax), first[i].Date)
	}
}

func TestRunScenarioWrapsErrorsWithDate(t *testing.T) {
	cfg := shortConfig()
	cfg.People[0].PretaxSavingsPerPayPeriod = d("100000")
	_, err := NewCalculationEngine().RunScenario(context.Background(), cfg, cfg.BaseScenario(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
	assert.Contains(t, err.Error(), "2021-09-15")
}

func TestRunScenarioHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := shortConfig()
	_, err := NewCalculationEngine().RunScenario(ctx, cfg, cfg.BaseScenario(), nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunScenarios(t *testing.T) {
	cfg := shortConfig()
	cfg.Scenarios = []domain.Scenario{{Name: "renter"}}

	results, err := NewCalculationEngine().RunScenarios(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "test", results[0].Scenario)
	assert.Equal(t, "renter", results[1].Scenario)
	assert.NotNil(t, results[0].Purchase)
	assert.Nil(t, results[1].Purchase)
	assert.Equal(t, results[0].Days, results[1].Days)

	cfg.Scenarios = []domain.Scenario{{Name: "sell-unowned", SaleDate: "2021-10-01"}}
	_, err = NewCalculationEngine().RunScenarios(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
	assert.Contains(t, err.Error(), "sell-unowned")
}

type recordingLogger struct {
	NopLogger
	infos []string
}

func (r *recordingLogger) Infof(format string, args ...any) {
	r.infos = append(r.infos, format)
}

func TestEngineLogsEvents(t *testing.T) {
	log := &recordingLogger{}
	engine := NewCalculationEngine()
	engine.SetLogger(log)
	cfg := shortConfig()
	_, err := engine.RunScenario(context.Background(), cfg, cfg.BaseScenario(), nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(log.infos), 3, "purchase and two settlements")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestNewYearRecordsMedicalDeductionBeforeIndexing(t *testing.T) {
	cfg := testConfig()
	cfg.People[0].MedicalDeduction = d("20000")
	s := newTestState(t, cfg)
	at(t, s, "2022-01-01")

	require.NoError(t, NewDriver(s, nil, nil).inflatePersonal(s.Today()))
	buyer := s.Buyer()
	assert.True(t, buyer.MedicalDeduction.Equal(d("20400")))
	assert.True(t, buyer.MedicalDeductionFor(2021).Equal(d("20000")))
	assert.True(t, buyer.MedicalDeductionFor(2022).Equal(d("20400")))
}
