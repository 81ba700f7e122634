package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func buildTestResult(name string, ending int64) *domain.SimulationResult {
	return &domain.SimulationResult{
		Scenario:  name,
		StartDate: "2021-09-01",
		EndDate:   "2022-12-31",
		Days:      487,
		Ending:    domain.DailySnapshot{Date: "2032-12-31", Pretax: dec(ending / 4), Posttax: dec(ending - ending/4)},
		Annual: []domain.AnnualSummary{
			{Year: 2021, Date: "2021-12-31", PriceIndex: decimal.RequireFromString("1.006"), BalancePretax: dec(6000),
				BalancePosttax: dec(30000), RealPretax: dec(5964), RealPosttax: dec(29821), PropertyState: "owned",
				FMV: dec(1010000), LoanBalance: dec(855000), GrossPayroll: dec(34000)},
			{Year: 2022, Date: "2022-12-31", PriceIndex: decimal.RequireFromString("1.026"), BalancePretax: dec(24000),
				BalancePosttax: dec(60000), RealPretax: dec(23391), RealPosttax: dec(58479), PropertyState: "owned",
				FMV: dec(1040000), LoanBalance: dec(840000), GrossPayroll: dec(180000)},
		},
		Taxes: []domain.TaxReturn{
			{Year: 2021, Date: "2022-04-15", Person: "Jordan", TotalTax: dec(9000), Withholding: dec(10000), Due: dec(-1000)},
		},
		Purchase: &domain.PurchaseRecord{Date: "2021-09-01", FMV: dec(1000000), Price: dec(900000), DownPayment: dec(45000),
			MAP: dec(180000), DIP: dec(90000), RIP: dec(45000), ZIP: dec(60000), SFCU: dec(480000), ClosingPayment: dec(52400)},
		Assumptions: []string{"Inflation: 2.00% annually"},
	}
}

func buildTestComparison() *domain.ScenarioComparison {
	return &domain.ScenarioComparison{Results: []*domain.SimulationResult{
		buildTestResult("base", 400000),
		buildTestResult("buy-later", 520000),
	}}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)
	content := string(out)
	assert.True(t, strings.HasPrefix(content, "HOUSING PROJECTION SUMMARY"))
	assert.Contains(t, content, "Scenario: base (2021-09-01 to 2022-12-31, 487 days)")
	assert.Contains(t, content, "price $900,000.00")
	assert.Contains(t, content, "Recommended: buy-later")
	assert.Contains(t, content, "Integrity: OK")
	assert.Contains(t, content, "Inflation: 2.00% annually")
}

func TestCSVSummarizerDeterministicOrder(t *testing.T) {
	comparison := buildTestComparison()
	comparison.Results[0], comparison.Results[1] = comparison.Results[1], comparison.Results[0]

	out, err := CSVSummarizer{}.Format(comparison)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "base,"))
	assert.True(t, strings.HasPrefix(lines[2], "buy-later,"))
	assert.Contains(t, lines[1], ",2021-09-01,900000.00,,,,9000.00,2032-12-31,100000.00,300000.00,0")
}

func TestCSVDetailedExporter(t *testing.T) {
	out, err := CSVDetailedExporter{}.Format(buildTestComparison())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Year,Date,PriceIndex"))
	assert.True(t, strings.HasPrefix(lines[1], "base,2021,2021-12-31,1.006000,6000.00,30000.00"))
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"scenario": "buy-later"`)
	assert.Contains(t, string(out), `"price": "900000"`)
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"console", "console"},
		{" TEXT ", "console"},
		{"csv-summary", "csv"},
		{"annual-csv", "detailed-csv"},
		{"excel", "xlsx"},
		{"json", "json"},
	}
	for _, tt := range tests {
		f := GetFormatterByName(tt.in)
		require.NotNil(t, f, tt.in)
		assert.Equal(t, tt.want, f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"))
	assert.Equal(t, []string{"console", "csv", "detailed-csv", "json", "xlsx"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "excel")
}

func TestWriteFormatted(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	name, err := WriteFormatted(CSVSummarizer{}, buildTestComparison(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "housing_report_csv.csv"), name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Scenario,StartDate"))
}

func TestFormatterFunc(t *testing.T) {
	ff := FormatterFunc{ID: "count", Ext: "txt", F: func(c *domain.ScenarioComparison) ([]byte, error) {
		return []byte{byte('0' + len(c.Results))}, nil
	}}
	out, err := ff.Format(buildTestComparison())
	require.NoError(t, err)
	assert.Equal(t, "2", string(out))
	assert.Equal(t, "count", ff.Name())
	assert.Equal(t, "txt", ff.Extension())
}
