package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultPayDays are the 15th and the last day of the month
var DefaultPayDays = [2]int{15, 31}

// Rates are the assumption rates in force on the current day, with their daily factors
type Rates struct {
	Inflation    decimal.Decimal
	Appreciation decimal.Decimal
	CashReturn   decimal.Decimal
	PretaxReturn decimal.Decimal

	InflationDaily    decimal.Decimal
	AppreciationDaily decimal.Decimal
	CashDaily         decimal.Decimal
	PretaxDaily       decimal.Decimal
}

// NewRates derives daily factors from the configured annual rates
func NewRates(a domain.GlobalAssumptions) Rates {
	r := Rates{
		Inflation:    a.InflationRate,
		Appreciation: a.AppreciationRate,
		CashReturn:   a.CashReturnRate,
		PretaxReturn: a.PretaxReturnRate,
	}
	r.refresh()
	return r
}

func (r *Rates) refresh() {
	r.InflationDaily = money.DailyFactor(r.Inflation)
	r.AppreciationDaily = money.DailyFactor(r.Appreciation)
	r.CashDaily = money.DailyFactor(r.CashReturn)
	r.PretaxDaily = money.DailyFactor(r.PretaxReturn)
}

type scheduledRate struct {
	day    int
	change domain.RateChange
}

// SimulationState is everything a run mutates. It is owned by one Driver and
// handed to each stage explicitly.
type SimulationState struct {
	Config   *domain.Configuration
	Calendar dateutil.Calendar

	Day       int
	StartDay  int
	EndDay    int
	FirstYear int

	Rates      Rates
	Tables     map[int]*TaxTables // by tax year
	PriceIndex decimal.Decimal
	PayDays    [2]int

	People   []*domain.Person
	Property *domain.Property

	PurchaseDay int // -1 when the scenario never buys
	SaleDay     int // -1 when the scenario never sells
	KnownPrice  *decimal.Decimal

	LastSettledYear int

	rateSchedule []scheduledRate
	sfcu         *AmortizationSchedule
}

// NewSimulationState builds the starting state for one scenario. Every mutable
// value is copied out of the configuration so concurrent runs share nothing.
func NewSimulationState(cfg *domain.Configuration, scenario domain.Scenario, cal dateutil.Calendar) (*SimulationState, error) {
	start, err := cal.ToDay(cfg.Simulation.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end, err := cal.ToDay(cfg.Simulation.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	if end < start {
		return nil, fmt.Errorf("end date %s is before start date %s", cfg.Simulation.EndDate, cfg.Simulation.StartDate)
	}
	if _, err := cal.ToDate(EndingDay(end)); err != nil {
		return nil, fmt.Errorf("end date %s leaves no room for the ending line: %w", cfg.Simulation.EndDate, err)
	}

	tables, err := NewTaxTables(cfg.Taxes)
	if err != nil {
		return nil, err
	}
	firstYear := dateutil.Time(start).Year()

	s := &SimulationState{
		Config:          cfg,
		Calendar:        cal,
		Day:             start,
		StartDay:        start,
		EndDay:          end,
		FirstYear:       firstYear,
		Rates:           NewRates(cfg.Assumptions),
		Tables:          map[int]*TaxTables{firstYear: tables},
		PriceIndex:      decimal.NewFromInt(1),
		PayDays:         DefaultPayDays,
		Property:        domain.NewProperty(cfg.Property),
		PurchaseDay:     -1,
		SaleDay:         -1,
		KnownPrice:      scenario.KnownSalePrice,
		LastSettledYear: firstYear - 1,
	}
	if len(cfg.Simulation.PayDays) == 2 {
		s.PayDays = [2]int{cfg.Simulation.PayDays[0], cfg.Simulation.PayDays[1]}
	}

	for _, pc := range cfg.People {
		p, err := domain.NewPerson(pc, cal)
		if err != nil {
			return nil, err
		}
		s.People = append(s.People, p)
	}
	if len(s.People) == 0 {
		return nil, fmt.Errorf("at least one person is required")
	}

	if scenario.PurchaseDate != "" {
		if s.PurchaseDay, err = cal.ToDay(scenario.PurchaseDate); err != nil {
			return nil, fmt.Errorf("purchase date: %w", err)
		}
	}
	if scenario.SaleDate != "" {
		if s.SaleDay, err = cal.ToDay(scenario.SaleDate); err != nil {
			return nil, fmt.Errorf("sale date: %w", err)
		}
	}

	for _, rc := range cfg.Assumptions.RateSchedule {
		day, err := cal.ToDay(rc.Date)
		if err != nil {
			return nil, fmt.Errorf("rate schedule: %w", err)
		}
		s.rateSchedule = append(s.rateSchedule, scheduledRate{day: day, change: rc})
	}
	sort.SliceStable(s.rateSchedule, func(i, j int) bool { return s.rateSchedule[i].day < s.rateSchedule[j].day })
	return s, nil
}

// Today is the current day as a UTC time
func (s *SimulationState) Today() time.Time {
	return dateutil.Time(s.Day)
}

// Buyer is the person who owns the property and its subsidy
func (s *SimulationState) Buyer() *domain.Person {
	return s.People[0]
}

// TablesFor returns the tax tables of a year, falling back to the nearest earlier year
func (s *SimulationState) TablesFor(year int) *TaxTables {
	for y := year; y >= s.FirstYear; y-- {
		if t, ok := s.Tables[y]; ok {
			return t
		}
	}
	return s.Tables[s.FirstYear]
}

// ApplyAnnualIndexing creates the tax tables for year by inflating the prior year's
// tables with the inflation rate in force. It is the only place tables are indexed.
func ApplyAnnualIndexing(s *SimulationState, year int) {
	if year <= s.FirstYear {
		return
	}
	if _, ok := s.Tables[year]; ok {
		return
	}
	next := s.TablesFor(year - 1).Clone()
	next.Index(money.GrowthFactor(s.Rates.Inflation))
	s.Tables[year] = next
}

// applyScheduledRates applies every rate change dated today. Raise rates apply to every person.
func applyScheduledRates(s *SimulationState) bool {
	changed := false
	for _, sr := range s.rateSchedule {
		if sr.day != s.Day {
			continue
		}
		c := sr.change
		if c.InflationRate != nil {
			s.Rates.Inflation = *c.InflationRate
		}
		if c.AppreciationRate != nil {
			s.Rates.Appreciation = *c.AppreciationRate
		}
		if c.CashReturnRate != nil {
			s.Rates.CashReturn = *c.CashReturnRate
		}
		if c.PretaxReturnRate != nil {
			s.Rates.PretaxReturn = *c.PretaxReturnRate
		}
		if c.AnnualRaiseRate != nil {
			for _, p := range s.People {
				p.AnnualRaiseRate = *c.AnnualRaiseRate
			}
		}
		changed = true
	}
	if changed {
		s.Rates.refresh()
	}
	return changed
}
