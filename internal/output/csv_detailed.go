package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/housing-projection/internal/domain"
)

// CSVDetailedExporter provides the annual summaries of every run, one row per run and year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

var annualHeader = []string{"Scenario", "Year", "Date", "PriceIndex", "Pretax", "Posttax", "RealPretax", "RealPosttax",
	"PropertyState", "FMV", "TaxAssessment", "LoanBalance", "DeferredInterest", "Salary", "Subsidy",
	"GrossPayroll", "EscrowedWithholding", "MortgageInterestPaid", "PropertyTaxPaid"}

func annualRow(scenario string, a domain.AnnualSummary) []string {
	return []string{
		scenario,
		strconv.Itoa(a.Year),
		a.Date,
		a.PriceIndex.StringFixed(6),
		Amount(a.BalancePretax),
		Amount(a.BalancePosttax),
		Amount(a.RealPretax),
		Amount(a.RealPosttax),
		a.PropertyState,
		Amount(a.FMV),
		Amount(a.TaxAssessment),
		Amount(a.LoanBalance),
		Amount(a.DeferredInterest),
		Amount(a.Salary),
		Amount(a.Subsidy),
		Amount(a.GrossPayroll),
		Amount(a.EscrowedWithholding),
		Amount(a.MortgageInterestPaid),
		Amount(a.PropertyTaxPaid),
	}
}

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(annualHeader); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		for _, a := range r.Annual {
			if err := w.Write(annualRow(r.Scenario, a)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
