package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// DefaultRaiseMonth is used when a person does not configure one
const DefaultRaiseMonth = time.September

// ScheduledSalary is a salary step-up resolved to its day index
type ScheduledSalary struct {
	Day    int
	Salary decimal.Decimal
}

// Person is one member of the household during a run
type Person struct {
	Name            string
	Salary          decimal.Decimal // per pay period
	AnnualRaiseRate decimal.Decimal
	RaiseMonth      time.Month
	SalarySteps     []ScheduledSalary

	SubsidyAmount           decimal.Decimal // per pay period
	SubsidyPeriodsRemaining int             // -1 until the first paid subsidy
	SubsidyInterval         int             // paychecks between decrements
	SubsidyDelay            bool            // suppress the subsidy on the next paycheck
	SubsidyBudgetRemaining  decimal.Decimal

	PretaxSavings            decimal.Decimal // per pay period
	MedicalPremium           decimal.Decimal // per pay period
	MedicalDeduction         decimal.Decimal // annual
	NonhousingAnnualSpending decimal.Decimal

	BalancePretax  decimal.Decimal
	BalancePosttax decimal.Decimal

	DeductibleMortgageLimit decimal.Decimal
	Ledger                  TaxLedger
}

// NewPerson creates a person from configuration, resolving salary step dates
func NewPerson(cfg PersonConfig, cal dateutil.Calendar) (*Person, error) {
	p := &Person{
		Name:                     cfg.Name,
		Salary:                   cfg.SalaryPerPayPeriod,
		AnnualRaiseRate:          cfg.AnnualRaiseRate,
		RaiseMonth:               DefaultRaiseMonth,
		SubsidyPeriodsRemaining:  -1,
		SubsidyBudgetRemaining:   cfg.SubsidyBudget,
		PretaxSavings:            cfg.PretaxSavingsPerPayPeriod,
		MedicalPremium:           cfg.MedicalPremiumPerPayPeriod,
		MedicalDeduction:         cfg.MedicalDeduction,
		NonhousingAnnualSpending: cfg.NonhousingAnnualSpending,
		BalancePretax:            cfg.BalancePretax,
		BalancePosttax:           cfg.BalancePosttax,
	}
	if cfg.RaiseMonth != 0 {
		p.RaiseMonth = time.Month(cfg.RaiseMonth)
	}
	for _, step := range cfg.SalarySteps {
		day, err := cal.ToDay(step.Date)
		if err != nil {
			return nil, fmt.Errorf("salary step for %s: %w", cfg.Name, err)
		}
		p.SalarySteps = append(p.SalarySteps, ScheduledSalary{Day: day, Salary: step.SalaryPerPayPeriod})
	}
	sort.Slice(p.SalarySteps, func(i, j int) bool { return p.SalarySteps[i].Day < p.SalarySteps[j].Day })
	return p, nil
}

// CloseMedicalYear records the medical deduction in force for a year before it is indexed
func (p *Person) CloseMedicalYear(year int) error {
	return p.Ledger.MedicalDeduction.Add(year, p.MedicalDeduction)
}

// MedicalDeductionFor is the deduction recorded for a closed year, or the current one
// while the year is still open
func (p *Person) MedicalDeductionFor(year int) decimal.Decimal {
	if p.Ledger.MedicalDeduction.Has(year) {
		return p.Ledger.MedicalDeduction.Get(year)
	}
	return p.MedicalDeduction
}

// SubsidyActive reports whether a subsidy has been awarded and not yet cancelled
func (p *Person) SubsidyActive() bool {
	return p.SubsidyAmount.IsPositive()
}

// AwardSubsidy starts a new subsidy that decays every interval paychecks
func (p *Person) AwardSubsidy(amount decimal.Decimal, interval int) {
	p.SubsidyAmount = amount
	p.SubsidyInterval = interval
	p.SubsidyPeriodsRemaining = -1
	p.SubsidyDelay = true
}

// CancelSubsidy stops all future subsidy payments
func (p *Person) CancelSubsidy() {
	p.SubsidyAmount = decimal.Zero
	p.SubsidyPeriodsRemaining = -1
	p.SubsidyDelay = false
}
