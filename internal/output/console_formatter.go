package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders a human-readable summary of every run.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HOUSING PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, r := range results.Results {
		fmt.Fprintln(&buf)
		writeRun(&buf, r)
	}

	if len(results.Results) > 1 {
		rec := AnalyzeScenarios(results)
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (ending net worth %s, Δ %s / %s vs %s)\n",
			rec.ScenarioName, FormatCurrency(rec.EndingNetWorth), FormatCurrency(rec.NetWorthChange),
			FormatPercentage(rec.PercentageChange), results.Base().Scenario)
	}

	if base := results.Base(); base != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Assumptions:")
		for _, a := range AssumptionsFor(base) {
			fmt.Fprintf(&buf, "  - %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

func writeRun(buf *bytes.Buffer, r *domain.SimulationResult) {
	fmt.Fprintf(buf, "Scenario: %s (%s to %s, %d days)\n", r.Scenario, r.StartDate, r.EndDate, r.Days)
	fmt.Fprintln(buf, "--------------------------------")

	if p := r.Purchase; p != nil {
		fmt.Fprintf(buf, "Purchase %s: price %s (FMV %s), down payment %s, closing payment %s\n",
			p.Date, FormatCurrency(p.Price), FormatCurrency(p.FMV), FormatCurrency(p.DownPayment), FormatCurrency(p.ClosingPayment))
		fmt.Fprintf(buf, "  Loans: MAP %s, DIP %s, RIP %s, ZIP %s, SFCU %s (monthly %s)\n",
			FormatCurrency(p.MAP), FormatCurrency(p.DIP), FormatCurrency(p.RIP), FormatCurrency(p.ZIP),
			FormatCurrency(p.SFCU), FormatCurrency(p.SFCUPayment))
	} else {
		fmt.Fprintln(buf, "No purchase")
	}
	if s := r.Sale; s != nil {
		fmt.Fprintf(buf, "Sale %s: price %s (capped %s) after %s years, net proceeds %s\n",
			s.Date, FormatCurrency(s.SalePrice), FormatCurrency(s.CappedValue), s.YearsHeld.StringFixed(2), FormatCurrency(s.NetProceeds))
		fmt.Fprintf(buf, "  Appreciation shares: MAP %s, DIP %s\n", FormatCurrency(s.MAPShare), FormatCurrency(s.DIPShare))
	}

	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%-6s %16s %16s %16s %16s %16s\n", "Year", "Real pre-tax", "Real post-tax", "FMV", "Loans", "Gross pay")
	for _, a := range r.Annual {
		fmt.Fprintf(buf, "%-6d %16s %16s %16s %16s %16s\n", a.Year,
			FormatCurrency(a.RealPretax), FormatCurrency(a.RealPosttax), FormatCurrency(a.FMV),
			FormatCurrency(a.LoanBalance), FormatCurrency(a.GrossPayroll))
	}

	total, due := decimal.Zero, decimal.Zero
	for _, t := range r.Taxes {
		total = total.Add(t.TotalTax)
		due = due.Add(t.Due)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Tax years settled: %d, total tax %s, net settlement %s\n", len(r.Taxes), FormatCurrency(total), FormatCurrency(due))
	fmt.Fprintf(buf, "Ending %s: pre-tax %s, post-tax %s (start-date dollars)\n",
		r.Ending.Date, FormatCurrency(r.Ending.Pretax), FormatCurrency(r.Ending.Posttax))
	if len(r.Warnings) == 0 {
		fmt.Fprintln(buf, "Integrity: OK")
	} else {
		fmt.Fprintf(buf, "Integrity: %d warning(s)\n", len(r.Warnings))
	}
}
