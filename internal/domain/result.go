package domain

import (
	"github.com/shopspring/decimal"
)

// DailySnapshot is one line of the daily stream, in start-date currency units
type DailySnapshot struct {
	Day     int             `json:"day"`
	Date    string          `json:"date"`
	Pretax  decimal.Decimal `json:"pretax"`
	Posttax decimal.Decimal `json:"posttax"`
}

// AnnualSummary captures the state at the end of each calendar year (and the last simulated day)
type AnnualSummary struct {
	Year       int             `json:"year"`
	Date       string          `json:"date"`
	PriceIndex decimal.Decimal `json:"price_index"`

	// Nominal balances across the household
	BalancePretax  decimal.Decimal `json:"balance_pretax"`
	BalancePosttax decimal.Decimal `json:"balance_posttax"`

	// Balances divided by the price index
	RealPretax  decimal.Decimal `json:"real_pretax"`
	RealPosttax decimal.Decimal `json:"real_posttax"`

	PropertyState    string          `json:"property_state"`
	FMV              decimal.Decimal `json:"fmv"`
	TaxAssessment    decimal.Decimal `json:"tax_assessment"`
	LoanBalance      decimal.Decimal `json:"loan_balance"`
	DeferredInterest decimal.Decimal `json:"deferred_interest"`
	Salary           decimal.Decimal `json:"salary"` // primary person, per pay period
	Subsidy          decimal.Decimal `json:"subsidy"`

	GrossPayroll         decimal.Decimal `json:"gross_payroll"`
	EscrowedWithholding  decimal.Decimal `json:"escrowed_withholding"`
	MortgageInterestPaid decimal.Decimal `json:"mortgage_interest_paid"`
	PropertyTaxPaid      decimal.Decimal `json:"property_tax_paid"`
}

// TaxReturn is the outcome of settling one tax year
type TaxReturn struct {
	Year   int    `json:"year"`
	Date   string `json:"date"`
	Person string `json:"person"`

	GrossPayroll decimal.Decimal `json:"gross_payroll"`
	AGI          decimal.Decimal `json:"agi"`

	StateDeduction decimal.Decimal `json:"state_deduction"`
	StateTaxable   decimal.Decimal `json:"state_taxable"`
	StateTax       decimal.Decimal `json:"state_tax"`

	MortgageInterest   decimal.Decimal `json:"mortgage_interest"`
	DeductibleInterest decimal.Decimal `json:"deductible_interest"`
	AverageMortgage    decimal.Decimal `json:"average_mortgage"`
	FederalItemized    decimal.Decimal `json:"federal_itemized"`
	FederalDeduction   decimal.Decimal `json:"federal_deduction"`
	FederalTaxable     decimal.Decimal `json:"federal_taxable"`
	FederalTax         decimal.Decimal `json:"federal_tax"`
	SocialSecurityTax  decimal.Decimal `json:"social_security_tax"`
	MedicareTax        decimal.Decimal `json:"medicare_tax"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	Withholding        decimal.Decimal `json:"withholding"`
	Due                decimal.Decimal `json:"due"` // positive owed, negative refund
}

// PurchaseRecord describes the purchase transaction
type PurchaseRecord struct {
	Date            string          `json:"date"`
	FMV             decimal.Decimal `json:"fmv"`
	Price           decimal.Decimal `json:"price"`
	DownPayment     decimal.Decimal `json:"down_payment"`
	MAP             decimal.Decimal `json:"map"`
	DIP             decimal.Decimal `json:"dip"`
	RIP             decimal.Decimal `json:"rip"`
	ZIP             decimal.Decimal `json:"zip"`
	SFCU            decimal.Decimal `json:"sfcu"`
	SFCUPayment     decimal.Decimal `json:"sfcu_payment"`
	Points          decimal.Decimal `json:"points"`
	ClosingCosts    decimal.Decimal `json:"closing_costs"`
	ClosingPayment  decimal.Decimal `json:"closing_payment"`
	DeductibleLimit decimal.Decimal `json:"deductible_limit"`
	SubsidyInterval int             `json:"subsidy_interval"`
}

// SaleRecord describes the sale and its payoff waterfall
type SaleRecord struct {
	Date         string          `json:"date"`
	YearsHeld    decimal.Decimal `json:"years_held"`
	FMV          decimal.Decimal `json:"fmv"`
	CappedValue  decimal.Decimal `json:"capped_value"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Appreciation decimal.Decimal `json:"appreciation"`
	MAPPrincipal decimal.Decimal `json:"map_principal"`
	MAPShare     decimal.Decimal `json:"map_share"`
	DIPPayoff    decimal.Decimal `json:"dip_payoff"`
	DIPShare     decimal.Decimal `json:"dip_share"`
	RIPPayoff    decimal.Decimal `json:"rip_payoff"`
	ZIPPayoff    decimal.Decimal `json:"zip_payoff"`
	SFCUPayoff   decimal.Decimal `json:"sfcu_payoff"`
	NetProceeds  decimal.Decimal `json:"net_proceeds"`
}

// IntegrityWarning flags a tax year whose escrowed withholding did not net to zero
type IntegrityWarning struct {
	Year                int             `json:"year"`
	Person              string          `json:"person"`
	EscrowedWithholding decimal.Decimal `json:"escrowed_withholding"`
}

// SimulationResult is everything a run produces apart from the daily stream
type SimulationResult struct {
	Scenario    string             `json:"scenario"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Days        int                `json:"days"`
	Ending      DailySnapshot      `json:"ending"`
	Annual      []AnnualSummary    `json:"annual"`
	Taxes       []TaxReturn        `json:"taxes"`
	Purchase    *PurchaseRecord    `json:"purchase,omitempty"`
	Sale        *SaleRecord        `json:"sale,omitempty"`
	Warnings    []IntegrityWarning `json:"warnings"`
	Assumptions []string           `json:"assumptions"`
}

// FinalSummary returns the last annual summary, or false when none was recorded
func (r *SimulationResult) FinalSummary() (AnnualSummary, bool) {
	if len(r.Annual) == 0 {
		return AnnualSummary{}, false
	}
	return r.Annual[len(r.Annual)-1], true
}

// ScenarioComparison groups the base run with the scenario runs for reporting.
// Results are in configuration order, base first.
type ScenarioComparison struct {
	Results []*SimulationResult `json:"results"`
}

// Base returns the base run, or nil for an empty comparison
func (c *ScenarioComparison) Base() *SimulationResult {
	if c == nil || len(c.Results) == 0 {
		return nil
	}
	return c.Results[0]
}
