package output

import (
	"fmt"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetAnnual = "Annual"
	SheetTaxes  = "Taxes"
	SheetSales  = "Transactions"
)

// XLSXFormatter writes a workbook with the annual summaries, tax returns and
// purchase/sale transactions of every run.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string      { return "xlsx" }
func (x XLSXFormatter) Extension() string { return "xlsx" }

var taxHeader = []string{"Scenario", "Year", "Settled", "Person", "GrossPayroll", "AGI", "StateTaxable", "StateTax",
	"MortgageInterest", "DeductibleInterest", "AverageMortgage", "FederalDeduction", "FederalTaxable", "FederalTax",
	"SocialSecurityTax", "MedicareTax", "TotalTax", "Withholding", "Due"}

var transactionHeader = []string{"Scenario", "Event", "Date", "FMV", "Price", "DownPayment", "MAP", "DIP", "RIP", "ZIP",
	"SFCU", "ClosingPayment", "MAPShare", "DIPShare", "NetProceeds"}

func num(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func (x XLSXFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAnnual); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetTaxes, SheetSales} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	annual := [][]any{toRow(annualHeader)}
	taxes := [][]any{toRow(taxHeader)}
	transactions := [][]any{toRow(transactionHeader)}
	for _, r := range results.Results {
		for _, a := range r.Annual {
			annual = append(annual, []any{r.Scenario, a.Year, a.Date, a.PriceIndex.Round(6).InexactFloat64(),
				num(a.BalancePretax), num(a.BalancePosttax), num(a.RealPretax), num(a.RealPosttax), a.PropertyState,
				num(a.FMV), num(a.TaxAssessment), num(a.LoanBalance), num(a.DeferredInterest), num(a.Salary),
				num(a.Subsidy), num(a.GrossPayroll), num(a.EscrowedWithholding), num(a.MortgageInterestPaid),
				num(a.PropertyTaxPaid)})
		}
		for _, t := range r.Taxes {
			taxes = append(taxes, []any{r.Scenario, t.Year, t.Date, t.Person, num(t.GrossPayroll), num(t.AGI),
				num(t.StateTaxable), num(t.StateTax), num(t.MortgageInterest), num(t.DeductibleInterest),
				num(t.AverageMortgage), num(t.FederalDeduction), num(t.FederalTaxable), num(t.FederalTax),
				num(t.SocialSecurityTax), num(t.MedicareTax), num(t.TotalTax), num(t.Withholding), num(t.Due)})
		}
		if p := r.Purchase; p != nil {
			transactions = append(transactions, []any{r.Scenario, "purchase", p.Date, num(p.FMV), num(p.Price),
				num(p.DownPayment), num(p.MAP), num(p.DIP), num(p.RIP), num(p.ZIP), num(p.SFCU), num(p.ClosingPayment)})
		}
		if s := r.Sale; s != nil {
			transactions = append(transactions, []any{r.Scenario, "sale", s.Date, num(s.FMV), num(s.SalePrice),
				nil, num(s.MAPPrincipal), num(s.DIPPayoff), num(s.RIPPayoff), num(s.ZIPPayoff), num(s.SFCUPayoff),
				nil, num(s.MAPShare), num(s.DIPShare), num(s.NetProceeds)})
		}
	}

	for sheet, rows := range map[string][][]any{SheetAnnual: annual, SheetTaxes: taxes, SheetSales: transactions} {
		if err := writeRows(f, sheet, rows); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func toRow(header []string) []any {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
