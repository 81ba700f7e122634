package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Configuration represents the complete input configuration
type Configuration struct {
	Simulation  SimulationWindow  `yaml:"simulation" json:"simulation"`
	People      []PersonConfig    `yaml:"people" json:"people" validate:"required,min=1,max=2,dive"`
	Property    PropertyConfig    `yaml:"property" json:"property"`
	Loans       LoanPolicy        `yaml:"loans" json:"loans"`
	Subsidy     SubsidyPolicy     `yaml:"subsidy" json:"subsidy"`
	Assumptions GlobalAssumptions `yaml:"assumptions" json:"assumptions"`
	Taxes       TaxConfig         `yaml:"taxes" json:"taxes"`
	Scenarios   []Scenario        `yaml:"scenarios,omitempty" json:"scenarios,omitempty" validate:"omitempty,dive"`
}

// SimulationWindow bounds the run. Dates are YYYY-MM-DD.
type SimulationWindow struct {
	Name      string `yaml:"name" json:"name"`
	StartDate string `yaml:"start_date" json:"start_date" validate:"required,date"`
	EndDate   string `yaml:"end_date" json:"end_date" validate:"required,date"`
	// PayDays are the two days of the month payroll runs on; 31 means the last day. Default 15 and 31.
	PayDays []int `yaml:"pay_days,omitempty" json:"pay_days,omitempty" validate:"omitempty,len=2,dive,min=1,max=31"`
}

// PersonConfig holds the starting state of one member of the household.
// The first person is the buyer; a second person files jointly with the first.
type PersonConfig struct {
	Name                       string          `yaml:"name" json:"name" validate:"required"`
	SalaryPerPayPeriod         decimal.Decimal `yaml:"salary_per_pay_period" json:"salary_per_pay_period" validate:"gte=0"`
	AnnualRaiseRate            decimal.Decimal `yaml:"annual_raise_rate" json:"annual_raise_rate" validate:"gte=-0.5,lte=1"`
	RaiseMonth                 int             `yaml:"raise_month,omitempty" json:"raise_month,omitempty" validate:"omitempty,min=1,max=12"` // raise lands on the 1st; default September
	SalarySteps                []SalaryStep    `yaml:"salary_steps,omitempty" json:"salary_steps,omitempty" validate:"omitempty,dive"`
	PretaxSavingsPerPayPeriod  decimal.Decimal `yaml:"pretax_savings_per_pay_period" json:"pretax_savings_per_pay_period" validate:"gte=0"`
	MedicalPremiumPerPayPeriod decimal.Decimal `yaml:"medical_premium_per_pay_period" json:"medical_premium_per_pay_period" validate:"gte=0"`
	MedicalDeduction           decimal.Decimal `yaml:"medical_deduction" json:"medical_deduction" validate:"gte=0"` // annual itemized medical expenses
	NonhousingAnnualSpending   decimal.Decimal `yaml:"nonhousing_annual_spending" json:"nonhousing_annual_spending" validate:"gte=0"`
	BalancePretax              decimal.Decimal `yaml:"balance_pretax" json:"balance_pretax"`
	BalancePosttax             decimal.Decimal `yaml:"balance_posttax" json:"balance_posttax"`
	SubsidyBudget              decimal.Decimal `yaml:"subsidy_budget" json:"subsidy_budget" validate:"gte=0"` // lifetime cap on ZIP financing
}

// SalaryStep replaces the per-period salary on a known date (promotion, job change)
type SalaryStep struct {
	Date               string          `yaml:"date" json:"date" validate:"required,date"`
	SalaryPerPayPeriod decimal.Decimal `yaml:"salary_per_pay_period" json:"salary_per_pay_period" validate:"gte=0"`
}

// PropertyConfig describes the single home purchased and later sold during the run
type PropertyConfig struct {
	FMV                 decimal.Decimal  `yaml:"fmv" json:"fmv" validate:"gt=0"` // full cash value on the start date
	GroundLeaseFraction decimal.Decimal  `yaml:"ground_lease_fraction" json:"ground_lease_fraction" validate:"gt=0,lte=1"`
	AppreciationCap     decimal.Decimal  `yaml:"appreciation_cap" json:"appreciation_cap" validate:"gte=1"` // yearly growth factor cap applied at sale, e.g. 1.05
	PurchaseDate        string           `yaml:"purchase_date,omitempty" json:"purchase_date,omitempty" validate:"omitempty,date"`
	SaleDate            string           `yaml:"sale_date,omitempty" json:"sale_date,omitempty" validate:"omitempty,date"`
	KnownSalePrice      *decimal.Decimal `yaml:"known_sale_price,omitempty" json:"known_sale_price,omitempty" validate:"omitempty,gt=0"`
	ClosingCosts        decimal.Decimal  `yaml:"closing_costs" json:"closing_costs" validate:"gte=0"`
	PropertyTaxRate     decimal.Decimal  `yaml:"property_tax_rate" json:"property_tax_rate" validate:"gte=0,lte=0.1"`
	AssessmentCap       decimal.Decimal  `yaml:"assessment_cap" json:"assessment_cap" validate:"gte=1"`   // yearly assessment step factor, e.g. 1.02
	UpkeepRate          decimal.Decimal  `yaml:"upkeep_rate" json:"upkeep_rate" validate:"gte=0,lte=0.2"` // annual fraction of FMV
	InsuranceAnnual     decimal.Decimal  `yaml:"insurance_annual" json:"insurance_annual" validate:"gte=0"`
}

// LoanCap sizes a loan as the lesser of a fraction of the purchase price and an absolute cap
type LoanCap struct {
	MaxFraction decimal.Decimal `yaml:"max_fraction" json:"max_fraction" validate:"gte=0,lte=1"`
	MaxAmount   decimal.Decimal `yaml:"max_amount" json:"max_amount" validate:"gte=0"`
}

// MAPPolicy configures the shared-appreciation deferred-interest loan
type MAPPolicy struct {
	LoanCap     `yaml:",inline" json:",inline"`
	OverallRate decimal.Decimal `yaml:"overall_rate" json:"overall_rate" validate:"gte=0,lte=0.3"`
	CurrentRate decimal.Decimal `yaml:"current_rate" json:"current_rate" validate:"gte=0,lte=0.3"`
}

// ZIPPolicy configures the zero-interest loan and its December paydowns
type ZIPPolicy struct {
	LoanCap            `yaml:",inline" json:",inline"`
	AnnualPaydown      decimal.Decimal `yaml:"annual_paydown" json:"annual_paydown" validate:"gte=0"`
	PaydownCutoffMonth int             `yaml:"paydown_cutoff_month,omitempty" json:"paydown_cutoff_month,omitempty" validate:"omitempty,min=1,max=12"` // default July
}

// ConventionalPolicy configures the fixed-rate amortizing loan that finances the residual
type ConventionalPolicy struct {
	AnnualRate decimal.Decimal `yaml:"annual_rate" json:"annual_rate" validate:"gte=0,lte=0.3"`
	TermYears  int             `yaml:"term_years" json:"term_years" validate:"min=1,max=50"`
	PointsRate decimal.Decimal `yaml:"points_rate" json:"points_rate" validate:"gte=0,lte=0.1"`
}

// LoanPolicy groups the financing rules applied at purchase
type LoanPolicy struct {
	MinDownPaymentFraction decimal.Decimal    `yaml:"min_down_payment_fraction" json:"min_down_payment_fraction" validate:"gte=0,lte=1"`
	MAP                    MAPPolicy          `yaml:"map" json:"map"`
	DIP                    LoanCap            `yaml:"dip" json:"dip"`
	RIP                    LoanCap            `yaml:"rip" json:"rip"`
	ZIP                    ZIPPolicy          `yaml:"zip" json:"zip"`
	SFCU                   ConventionalPolicy `yaml:"sfcu" json:"sfcu"`

	// Acquisition debt limits for the mortgage interest deduction, switched on purchase date
	MortgageLimitCutoffDate string          `yaml:"mortgage_limit_cutoff_date" json:"mortgage_limit_cutoff_date" validate:"omitempty,date"`
	MortgageLimitBefore     decimal.Decimal `yaml:"mortgage_limit_before" json:"mortgage_limit_before" validate:"gte=0"`
	MortgageLimitAfter      decimal.Decimal `yaml:"mortgage_limit_after" json:"mortgage_limit_after" validate:"gte=0"`
}

// SubsidyPolicy configures the recurring payroll supplement awarded at purchase
type SubsidyPolicy struct {
	InitialAmount  decimal.Decimal `yaml:"initial_amount" json:"initial_amount" validate:"gte=0"` // per pay period
	Decrement      decimal.Decimal `yaml:"decrement" json:"decrement" validate:"gte=0"`
	DefaultPeriods int             `yaml:"default_periods" json:"default_periods" validate:"min=1"`
	Windows        []SubsidyWindow `yaml:"windows,omitempty" json:"windows,omitempty" validate:"omitempty,dive"`
}

// SubsidyWindow grants a different decay interval to purchases dated in [From, To]
type SubsidyWindow struct {
	From    string `yaml:"from" json:"from" validate:"required,date"`
	To      string `yaml:"to" json:"to" validate:"required,date"`
	Periods int    `yaml:"periods" json:"periods" validate:"min=1"`
}

// GlobalAssumptions contains the macroeconomic rates
type GlobalAssumptions struct {
	InflationRate    decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate" validate:"gte=-0.1,lte=0.3"`
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate" validate:"gte=-0.5,lte=0.5"`
	CashReturnRate   decimal.Decimal `yaml:"cash_return_rate" json:"cash_return_rate" validate:"gte=-0.5,lte=0.5"`
	PretaxReturnRate decimal.Decimal `yaml:"pretax_return_rate" json:"pretax_return_rate" validate:"gte=-0.5,lte=0.5"`
	RateSchedule     []RateChange    `yaml:"rate_schedule,omitempty" json:"rate_schedule,omitempty" validate:"omitempty,dive"`
}

// RateChange overrides assumption rates from its date onward. Nil fields are left unchanged.
type RateChange struct {
	Date             string           `yaml:"date" json:"date" validate:"required,date"`
	InflationRate    *decimal.Decimal `yaml:"inflation_rate,omitempty" json:"inflation_rate,omitempty"`
	AppreciationRate *decimal.Decimal `yaml:"appreciation_rate,omitempty" json:"appreciation_rate,omitempty"`
	CashReturnRate   *decimal.Decimal `yaml:"cash_return_rate,omitempty" json:"cash_return_rate,omitempty"`
	PretaxReturnRate *decimal.Decimal `yaml:"pretax_return_rate,omitempty" json:"pretax_return_rate,omitempty"`
	AnnualRaiseRate  *decimal.Decimal `yaml:"annual_raise_rate,omitempty" json:"annual_raise_rate,omitempty"`
}

// TaxConfig contains the income tax rules for the first simulated year
type TaxConfig struct {
	WithholdingRate decimal.Decimal `yaml:"withholding_rate" json:"withholding_rate" validate:"gte=0,lt=1"`
	Federal         TaxTableConfig  `yaml:"federal" json:"federal"`
	State           TaxTableConfig  `yaml:"state" json:"state"`
	SALTCap         decimal.Decimal `yaml:"salt_cap" json:"salt_cap" validate:"gte=0"`
	SocialSecurity  CappedRate      `yaml:"social_security" json:"social_security"`
	Medicare        TwoTierRate     `yaml:"medicare" json:"medicare"`
}

// TaxTableConfig is a bracket table plus its standard deduction
type TaxTableConfig struct {
	Brackets          []TaxBracket    `yaml:"brackets" json:"brackets" validate:"required,min=1,dive"`
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction" validate:"gte=0"`
}

// TaxBracket is the marginal rate applied from Threshold up to the next bracket's threshold
type TaxBracket struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold" validate:"gte=0"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate" validate:"gte=0,lt=1"`
}

// CappedRate is a flat rate applied to wages up to a wage base
type CappedRate struct {
	Rate     decimal.Decimal `yaml:"rate" json:"rate" validate:"gte=0,lt=1"`
	WageBase decimal.Decimal `yaml:"wage_base" json:"wage_base" validate:"gte=0"`
}

// TwoTierRate is a flat rate up to a threshold and a higher rate above it
type TwoTierRate struct {
	Rate       decimal.Decimal `yaml:"rate" json:"rate" validate:"gte=0,lt=1"`
	Threshold  decimal.Decimal `yaml:"threshold" json:"threshold" validate:"gte=0"`
	HigherRate decimal.Decimal `yaml:"higher_rate" json:"higher_rate" validate:"gte=0,lt=1"`
}

// Scenario overrides the purchase and sale of the base configuration
type Scenario struct {
	Name           string           `yaml:"name" json:"name" validate:"required"`
	PurchaseDate   string           `yaml:"purchase_date,omitempty" json:"purchase_date,omitempty" validate:"omitempty,date"`
	SaleDate       string           `yaml:"sale_date,omitempty" json:"sale_date,omitempty" validate:"omitempty,date"`
	KnownSalePrice *decimal.Decimal `yaml:"known_sale_price,omitempty" json:"known_sale_price,omitempty" validate:"omitempty,gt=0"`
}

// BaseScenario returns the scenario described by the base configuration itself
func (c *Configuration) BaseScenario() Scenario {
	name := c.Simulation.Name
	if name == "" {
		name = "base"
	}
	return Scenario{
		Name:           name,
		PurchaseDate:   c.Property.PurchaseDate,
		SaleDate:       c.Property.SaleDate,
		KnownSalePrice: c.Property.KnownSalePrice,
	}
}

// AllScenarios returns the base scenario followed by the configured ones
func (c *Configuration) AllScenarios() []Scenario {
	out := []Scenario{c.BaseScenario()}
	return append(out, c.Scenarios...)
}

// GenerateAssumptions creates a readable assumptions list from the configured values
func (ga *GlobalAssumptions) GenerateAssumptions() []string {
	pct := func(d decimal.Decimal) float64 { return d.Mul(decimal.NewFromInt(100)).InexactFloat64() }
	return []string{
		fmt.Sprintf("Inflation: %.2f%% annually (tax brackets indexed from the second year)", pct(ga.InflationRate)),
		fmt.Sprintf("Home appreciation: %.2f%% annually, compounded daily", pct(ga.AppreciationRate)),
		fmt.Sprintf("Cash return: %.2f%% annually", pct(ga.CashReturnRate)),
		fmt.Sprintf("Pre-tax return: %.2f%% annually", pct(ga.PretaxReturnRate)),
		fmt.Sprintf("Scheduled rate changes: %d", len(ga.RateSchedule)),
	}
}
