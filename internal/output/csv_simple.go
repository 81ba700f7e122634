package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVSummarizer implements the simple summary CSV output (one row per run).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "StartDate", "EndDate", "Days", "PurchaseDate", "PurchasePrice", "SaleDate", "SalePrice", "NetProceeds", "TotalTax", "EndingDate", "EndingPretax", "EndingPosttax", "Warnings"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	runs := append([]*domain.SimulationResult(nil), results.Results...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Scenario < runs[j].Scenario })
	for _, r := range runs {
		purchaseDate, purchasePrice := "", ""
		if r.Purchase != nil {
			purchaseDate, purchasePrice = r.Purchase.Date, Amount(r.Purchase.Price)
		}
		saleDate, salePrice, proceeds := "", "", ""
		if r.Sale != nil {
			saleDate, salePrice, proceeds = r.Sale.Date, Amount(r.Sale.SalePrice), Amount(r.Sale.NetProceeds)
		}
		total := decimal.Zero
		for _, t := range r.Taxes {
			total = total.Add(t.TotalTax)
		}
		row := []string{
			r.Scenario,
			r.StartDate,
			r.EndDate,
			strconv.Itoa(r.Days),
			purchaseDate,
			purchasePrice,
			saleDate,
			salePrice,
			proceeds,
			Amount(total),
			r.Ending.Date,
			Amount(r.Ending.Pretax),
			Amount(r.Ending.Posttax),
			strconv.Itoa(len(r.Warnings)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
