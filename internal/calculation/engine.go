package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// EndingOffsetYears pins the extrapolated ending line past the horizon end
const EndingOffsetYears = 10

// DailySink receives one snapshot per simulated day, in order
type DailySink interface {
	WriteDay(domain.DailySnapshot) error
}

// DailySinkFunc adapts a function to DailySink
type DailySinkFunc func(domain.DailySnapshot) error

// WriteDay calls f
func (f DailySinkFunc) WriteDay(s domain.DailySnapshot) error { return f(s) }

type discardSink struct{}

func (discardSink) WriteDay(domain.DailySnapshot) error { return nil }

// CalculationEngine runs scenarios over a configuration
type CalculationEngine struct {
	Calendar dateutil.Calendar
	Logger   Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// RunScenario simulates one scenario, streaming daily snapshots into sink
func (ce *CalculationEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario domain.Scenario, sink DailySink) (*domain.SimulationResult, error) {
	state, err := NewSimulationState(config, scenario, ce.Calendar)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	d := NewDriver(state, sink, ce.Logger)
	result, err := d.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	result.Scenario = scenario.Name
	return result, nil
}

// RunScenarios runs the base scenario and every configured scenario concurrently.
// Results are returned in configuration order; the first failure cancels the rest.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration, sinkFor func(domain.Scenario) DailySink) ([]*domain.SimulationResult, error) {
	scenarios := config.AllScenarios()
	results := make([]*domain.SimulationResult, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			var sink DailySink
			if sinkFor != nil {
				sink = sinkFor(sc)
			}
			r, err := ce.RunScenario(ctx, config, sc, sink)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Driver steps one SimulationState through every day of the horizon
type Driver struct {
	state  *SimulationState
	sink   DailySink
	logger Logger
	result *domain.SimulationResult
}

// NewDriver creates a driver over state. A nil sink discards daily output.
func NewDriver(state *SimulationState, sink DailySink, logger Logger) *Driver {
	if sink == nil {
		sink = discardSink{}
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Driver{state: state, sink: sink, logger: logger}
}

// State exposes the driver's state for inspection between steps
func (d *Driver) State() *SimulationState {
	return d.state
}

// Run executes the day loop and the post-run settlement and checks
func (d *Driver) Run(ctx context.Context) (*domain.SimulationResult, error) {
	s := d.state
	d.result = &domain.SimulationResult{
		StartDate:   s.Config.Simulation.StartDate,
		EndDate:     s.Config.Simulation.EndDate,
		Assumptions: s.Config.Assumptions.GenerateAssumptions(),
	}

	for s.Day = s.StartDay; s.Day <= s.EndDay; s.Day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.Step(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Today().Format(dateutil.DateLayout), err)
		}
		d.result.Days++
	}
	s.Day = s.EndDay

	if err := d.finalSettlement(); err != nil {
		return nil, err
	}
	ending, err := d.endingLine()
	if err != nil {
		return nil, err
	}
	d.result.Ending = ending
	if err := d.sink.WriteDay(ending); err != nil {
		return nil, fmt.Errorf("write ending line: %w", err)
	}

	d.result.Warnings = IntegrityWarnings(s)
	for _, w := range d.result.Warnings {
		d.logger.Warnf("tax year %d for %s ended with escrowed withholding %s", w.Year, w.Person, w.EscrowedWithholding.StringFixed(2))
	}
	return d.result, nil
}

// Step processes the current day. The order of the stages is fixed: each one sees the
// balances left by the one before it.
func (d *Driver) Step() error {
	s := d.state
	t := s.Today()

	d.updateRates(t)
	d.raiseSalaries(t)
	if err := d.inflatePersonal(t); err != nil {
		return err
	}
	d.accrueCash()
	if err := d.payroll(t); err != nil {
		return err
	}
	if err := d.settle(t); err != nil {
		return err
	}
	d.livingExpenses(t)
	if s.Day == s.PurchaseDay {
		rec, err := Purchase(s)
		if err != nil {
			return err
		}
		d.result.Purchase = rec
		d.logger.Infof("purchase on %s: price %s, SFCU %s, closing payment %s",
			rec.Date, rec.Price.StringFixed(2), rec.SFCU.StringFixed(2), rec.ClosingPayment.StringFixed(2))
	}
	appreciate(s)
	if err := PropertyDay(s); err != nil {
		return err
	}
	if s.Day == s.SaleDay {
		rec, err := Sale(s)
		if err != nil {
			return err
		}
		d.result.Sale = rec
		d.logger.Infof("sale on %s: price %s, net proceeds %s", rec.Date, rec.SalePrice.StringFixed(2), rec.NetProceeds.StringFixed(2))
	}
	return d.report(t)
}

func (d *Driver) updateRates(t time.Time) {
	s := d.state
	if t.Month() == time.January && t.Day() == 1 && t.Year() > s.FirstYear {
		ApplyAnnualIndexing(s, t.Year())
	}
	if applyScheduledRates(s) {
		d.logger.Debugf("rate schedule applied on %s", t.Format(dateutil.DateLayout))
	}
}

func (d *Driver) raiseSalaries(t time.Time) {
	s := d.state
	for _, p := range s.People {
		if t.Day() == 1 && t.Month() == p.RaiseMonth && s.Day != s.StartDay {
			p.Salary = money.Round(p.Salary.Mul(money.GrowthFactor(p.AnnualRaiseRate)))
		}
		for _, step := range p.SalarySteps {
			if step.Day == s.Day {
				p.Salary = step.Salary
			}
		}
	}
}

// inflatePersonal indexes personal costs on January 1, after recording the closing
// year's medical deduction for its settlement
func (d *Driver) inflatePersonal(t time.Time) error {
	s := d.state
	if t.Month() != time.January || t.Day() != 1 || s.Day == s.StartDay {
		return nil
	}
	f := money.GrowthFactor(s.Rates.Inflation)
	for _, p := range s.People {
		if err := p.CloseMedicalYear(t.Year() - 1); err != nil {
			return err
		}
		p.MedicalPremium = money.Round(p.MedicalPremium.Mul(f))
		p.MedicalDeduction = money.Round(p.MedicalDeduction.Mul(f))
		p.NonhousingAnnualSpending = money.Round(p.NonhousingAnnualSpending.Mul(f))
	}
	s.Property.InsurancePremium = money.Round(s.Property.InsurancePremium.Mul(f))
	return nil
}

// accrueCash grows both balances by a day of return; a negative posttax balance
// accrues at the same rate.
func (d *Driver) accrueCash() {
	s := d.state
	for _, p := range s.People {
		p.BalancePretax = money.Round(p.BalancePretax.Mul(s.Rates.PretaxDaily))
		p.BalancePosttax = money.Round(p.BalancePosttax.Mul(s.Rates.CashDaily))
	}
}

func (d *Driver) payroll(t time.Time) error {
	s := d.state
	if !IsPayDay(t, s.PayDays) {
		return nil
	}
	for i, p := range s.People {
		if _, err := RunPayroll(s, p, i == 0); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) settle(t time.Time) error {
	s := d.state
	if t.Month() != time.April || t.Day() != 15 {
		return nil
	}
	year := t.Year() - 1
	if year <= s.LastSettledYear {
		return nil
	}
	return d.file(year)
}

func (d *Driver) file(year int) error {
	ret, err := SettleYear(d.state, year)
	if err != nil {
		return fmt.Errorf("settle %d: %w", year, err)
	}
	if ret == nil {
		return nil
	}
	d.result.Taxes = append(d.result.Taxes, *ret)
	if ret.Due.IsNegative() {
		d.logger.Infof("tax year %d settled: refund %s", year, ret.Due.Neg().StringFixed(2))
	} else {
		d.logger.Infof("tax year %d settled: owed %s", year, ret.Due.StringFixed(2))
	}
	return nil
}

// finalSettlement files every year still open at the end of the horizon
func (d *Driver) finalSettlement() error {
	s := d.state
	endYear := s.Today().Year()
	for year := s.LastSettledYear + 1; year <= endYear; year++ {
		if err := d.file(year); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) livingExpenses(t time.Time) {
	days := decimal.NewFromInt(int64(dateutil.DaysInYear(t.Year())))
	for _, p := range d.state.People {
		p.BalancePosttax = p.BalancePosttax.Sub(money.Round(p.NonhousingAnnualSpending.Div(days)))
	}
}

func (d *Driver) snapshot(day int) (domain.DailySnapshot, error) {
	s := d.state
	date, err := s.Calendar.ToDate(day)
	if err != nil {
		return domain.DailySnapshot{}, err
	}
	pretax, posttax := decimal.Zero, decimal.Zero
	for _, p := range s.People {
		pretax = pretax.Add(p.BalancePretax)
		posttax = posttax.Add(p.BalancePosttax)
	}
	return domain.DailySnapshot{
		Day:     day,
		Date:    date,
		Pretax:  money.Round(pretax.Div(s.PriceIndex)),
		Posttax: money.Round(posttax.Div(s.PriceIndex)),
	}, nil
}

// report emits today's line, records year-end summaries and then advances the price index
func (d *Driver) report(t time.Time) error {
	s := d.state
	snap, err := d.snapshot(s.Day)
	if err != nil {
		return err
	}
	if err := d.sink.WriteDay(snap); err != nil {
		return fmt.Errorf("write daily output: %w", err)
	}
	if (t.Month() == time.December && t.Day() == 31) || s.Day == s.EndDay {
		d.result.Annual = append(d.result.Annual, d.summary(t, snap))
	}
	s.PriceIndex = money.Round(s.PriceIndex.Mul(s.Rates.InflationDaily))
	return nil
}

func (d *Driver) summary(t time.Time, snap domain.DailySnapshot) domain.AnnualSummary {
	s := d.state
	year := t.Year()
	buyer := s.Buyer()
	sum := domain.AnnualSummary{
		Year:             year,
		Date:             snap.Date,
		PriceIndex:       s.PriceIndex,
		RealPretax:       snap.Pretax,
		RealPosttax:      snap.Posttax,
		PropertyState:    s.Property.State.String(),
		FMV:              s.Property.FMV,
		TaxAssessment:    s.Property.TaxAssessment,
		LoanBalance:      s.Property.Loans.AcquisitionDebt(),
		DeferredInterest: s.Property.Loans.MAP.DeferredInterest(),
		Salary:           buyer.Salary,
		Subsidy:          buyer.SubsidyAmount,
	}
	for _, p := range s.People {
		sum.BalancePretax = sum.BalancePretax.Add(p.BalancePretax)
		sum.BalancePosttax = sum.BalancePosttax.Add(p.BalancePosttax)
		sum.GrossPayroll = sum.GrossPayroll.Add(p.Ledger.GrossPayroll.Get(year))
		sum.EscrowedWithholding = sum.EscrowedWithholding.Add(p.Ledger.EscrowedWithholding.Get(year))
		sum.MortgageInterestPaid = sum.MortgageInterestPaid.Add(p.Ledger.MortgageInterestPaid.Get(year))
		sum.PropertyTaxPaid = sum.PropertyTaxPaid.Add(p.Ledger.StatePropertyTaxPaid.Get(year))
	}
	return sum
}

// EndingDay is the day index of the ending line for a horizon ending on endDay
func EndingDay(endDay int) int {
	return dateutil.DayOf(dateutil.AddYears(dateutil.Time(endDay), EndingOffsetYears))
}

// endingLine holds the final real balances flat out to the pinned ending date
func (d *Driver) endingLine() (domain.DailySnapshot, error) {
	return d.snapshot(EndingDay(d.state.EndDay))
}
