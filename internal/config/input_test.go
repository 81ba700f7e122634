package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const minimalYAML = `simulation:
  start_date: "2021-09-01"
  end_date: "2023-12-31"
people:
  - name: Jordan
    salary_per_pay_period: 6500
    annual_raise_rate: 0.03
    pretax_savings_per_pay_period: "750"
    medical_premium_per_pay_period: 150
    medical_deduction: 0
    nonhousing_annual_spending: 48000
    balance_pretax: 0
    balance_posttax: 250000
    subsidy_budget: 60000
property:
  fmv: 1000000
  ground_lease_fraction: 0.9
  appreciation_cap: 1.05
  purchase_date: "2021-09-01"
  closing_costs: 5000
  property_tax_rate: 0.011
  assessment_cap: 1.02
  upkeep_rate: 0.01
  insurance_annual: 1500
loans:
  min_down_payment_fraction: 0.05
  map: {max_fraction: 0.2, max_amount: 300000, overall_rate: 0.03, current_rate: 0.01}
  dip: {max_fraction: 0.1, max_amount: 100000}
  rip: {max_fraction: 0.05, max_amount: 50000}
  zip: {max_fraction: 0.1, max_amount: 100000}
  sfcu: {annual_rate: 0.03, term_years: 30, points_rate: 0.005}
  mortgage_limit_before: 1000000
  mortgage_limit_after: 750000
subsidy:
  initial_amount: 1000
  decrement: 100
  default_periods: 24
assumptions:
  inflation_rate: 0.02
  appreciation_rate: 0.03
  cash_return_rate: 0.01
  pretax_return_rate: 0.05
taxes:
  withholding_rate: 0.25
  federal:
    standard_deduction: 25100
    brackets:
      - {threshold: 0, rate: 0.10}
      - {threshold: 19900, rate: 0.12}
      - {threshold: 81050, rate: 0.22}
  state:
    standard_deduction: 9606
    brackets:
      - {threshold: 0, rate: 0.01}
      - {threshold: 18650, rate: 0.02}
  salt_cap: 10000
  social_security: {rate: 0.062, wage_base: 142800}
  medicare: {rate: 0.0145, threshold: 250000, higher_rate: 0.0235}
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, minimalYAML))
	require.NoError(t, err)

	require.Len(t, config.People, 1)
	assert.Equal(t, "Jordan", config.People[0].Name)
	assert.True(t, config.People[0].PretaxSavingsPerPayPeriod.Equal(decimal.NewFromInt(750)))
	assert.True(t, config.Loans.MAP.MaxAmount.Equal(decimal.NewFromInt(300000)))
	assert.Len(t, config.Taxes.Federal.Brackets, 3)

	// defaults
	assert.Equal(t, "base", config.Simulation.Name)
	assert.Equal(t, []int{15, 31}, config.Simulation.PayDays)
	assert.Equal(t, 9, config.People[0].RaiseMonth)
	assert.Equal(t, "2017-12-15", config.Loans.MortgageLimitCutoffDate)
	assert.Equal(t, 7, config.Loans.ZIP.PaydownCutoffMonth)
	assert.True(t, config.Loans.ZIP.AnnualPaydown.Equal(decimal.NewFromInt(10000)))
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(writeTemp(t, "people: [\n  - name: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_NonNumericAmount(t *testing.T) {
	tests := []struct {
		name  string
		find  string
		repl  string
		field string
	}{
		{"salary", "salary_per_pay_period: 6500", "salary_per_pay_period: lots", "people[0].salary_per_pay_period"},
		{"inline loan cap", "max_amount: 300000", "max_amount: 3e5x", "loans.map.max_amount"},
		{"bracket rate", "{threshold: 19900, rate: 0.12}", "{threshold: 19900, rate: twelve}", "taxes.federal.brackets[1].rate"},
		{"mapping for a number", "fmv: 1000000", "fmv: {amount: 1}", "property.fmv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := replaceOnce(t, minimalYAML, tt.find, tt.repl)
			_, err := NewInputParser().Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, money.ErrInvalidAmount))
			var iae *money.InvalidAmountError
			require.True(t, errors.As(err, &iae))
			assert.Equal(t, tt.field, iae.Field)
		})
	}
}

func TestParse_InvalidDate(t *testing.T) {
	doc := replaceOnce(t, minimalYAML, `start_date: "2021-09-01"`, `start_date: "2021-02-30"`)
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.start_date failed date")
}

func TestValidateConfiguration_Example(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()
	require.NoError(t, parser.ValidateConfiguration(config))
}

func TestValidateConfiguration_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *domain.Configuration)
		want   string
	}{
		{
			name:   "no people",
			mutate: func(c *domain.Configuration) { c.People = nil },
			want:   "people failed required",
		},
		{
			name: "three people",
			mutate: func(c *domain.Configuration) {
				c.People = append(c.People, c.People[0])
			},
			want: "people failed max=2",
		},
		{
			name:   "negative salary",
			mutate: func(c *domain.Configuration) { c.People[0].SalaryPerPayPeriod = decimal.NewFromInt(-1) },
			want:   "people[0].salary_per_pay_period failed gte=0",
		},
		{
			name:   "ground lease above one",
			mutate: func(c *domain.Configuration) { c.Property.GroundLeaseFraction = decimal.NewFromFloat(1.2) },
			want:   "property.ground_lease_fraction failed lte=1",
		},
		{
			name:   "bad raise month",
			mutate: func(c *domain.Configuration) { c.People[1].RaiseMonth = 13 },
			want:   "people[1].raise_month failed max=12",
		},
		{
			name:   "end before start",
			mutate: func(c *domain.Configuration) { c.Simulation.EndDate = "2020-01-01" },
			want:   "is before start_date",
		},
		{
			name:   "ending line past 2099",
			mutate: func(c *domain.Configuration) { c.Simulation.EndDate = "2090-01-01" },
			want:   "simulation.end_date 2090-01-01 is too late for the ending line",
		},
		{
			name: "unordered brackets",
			mutate: func(c *domain.Configuration) {
				b := c.Taxes.Federal.Brackets
				b[1], b[2] = b[2], b[1]
			},
			want: "taxes:",
		},
		{
			name: "first bracket above zero",
			mutate: func(c *domain.Configuration) {
				c.Taxes.State.Brackets[0].Threshold = decimal.NewFromInt(100)
			},
			want: "taxes:",
		},
		{
			name:   "purchase outside horizon",
			mutate: func(c *domain.Configuration) { c.Property.PurchaseDate = "2060-01-01" },
			want:   "purchase_date 2060-01-01 is outside the simulation",
		},
		{
			name: "sale before purchase",
			mutate: func(c *domain.Configuration) {
				c.Property.PurchaseDate = "2030-01-01"
				c.Property.SaleDate = "2025-01-01"
			},
			want: "must be after purchase_date",
		},
		{
			name: "sale without purchase",
			mutate: func(c *domain.Configuration) {
				c.Property.PurchaseDate = ""
			},
			want: "sale_date requires a purchase_date",
		},
		{
			name: "duplicate scenario",
			mutate: func(c *domain.Configuration) {
				c.Scenarios = append(c.Scenarios, domain.Scenario{Name: "base"})
			},
			want: `scenario name "base" is used more than once`,
		},
		{
			name: "scenario known price without sale",
			mutate: func(c *domain.Configuration) {
				p := decimal.NewFromInt(1)
				c.Scenarios[0].SaleDate = ""
				c.Scenarios[0].KnownSalePrice = &p
			},
			want: "scenario buy-2023 validation failed: known_sale_price requires a sale_date",
		},
		{
			name: "inverted subsidy window",
			mutate: func(c *domain.Configuration) {
				c.Subsidy.Windows[0].From, c.Subsidy.Windows[0].To = "2020-12-31", "2019-01-01"
			},
			want: "subsidy.windows[0]: to 2019-01-01 is before from 2020-12-31",
		},
		{
			name:   "bad step date",
			mutate: func(c *domain.Configuration) { c.People[0].SalarySteps = []domain.SalaryStep{{Date: "22-01-01"}} },
			want:   "people[0].salary_steps[0].date failed date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewInputParser()
			config := parser.CreateExampleConfiguration()
			tt.mutate(config)
			err := parser.ValidateConfiguration(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCreateExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()

	assert.NotNil(t, config)
	assert.Len(t, config.People, 2)
	assert.Len(t, config.Scenarios, 3)
	assert.Equal(t, "2021-09-01", config.Property.PurchaseDate)
	assert.Equal(t, "2051-09-01", config.Property.SaleDate)
	assert.True(t, config.People[0].BalancePretax.IsZero())
	assert.True(t, config.People[0].BalancePosttax.Equal(decimal.NewFromInt(250000)))

	cal := dateutil.Calendar{}
	_, err := cal.ToDay(config.Simulation.EndDate)
	assert.NoError(t, err)
}

func TestExampleConfigurationRoundTripsThroughYAML(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()

	data, err := yaml.Marshal(config)
	require.NoError(t, err)

	loaded, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, config.People[1].Name, loaded.People[1].Name)
	assert.True(t, config.Loans.SFCU.AnnualRate.Equal(loaded.Loans.SFCU.AnnualRate))
	require.NotNil(t, loaded.Scenarios[1].KnownSalePrice)
	assert.True(t, loaded.Scenarios[1].KnownSalePrice.Equal(decimal.NewFromInt(2500000)))
}

func replaceOnce(t *testing.T, s, old, repl string) string {
	t.Helper()
	i := strings.Index(s, old)
	require.GreaterOrEqual(t, i, 0, "fixture does not contain %q", old)
	return s[:i] + repl + s[i+len(old):]
}
