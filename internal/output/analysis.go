package output

import (
	"sort"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	EndingNetWorth   decimal.Decimal
	NetWorthChange   decimal.Decimal
	PercentageChange decimal.Decimal
}

// EndingNetWorth is the inflation-adjusted pre-tax plus post-tax balance of the ending line
func EndingNetWorth(r *domain.SimulationResult) decimal.Decimal {
	return r.Ending.Pretax.Add(r.Ending.Posttax)
}

// AnalyzeScenarios determines the run with the highest inflation-adjusted ending net worth
// and compares it with the base run. Ties keep configuration order.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	base := results.Base()
	if base == nil {
		return Recommendation{}
	}
	ranks := append([]*domain.SimulationResult(nil), results.Results...)
	sort.SliceStable(ranks, func(i, j int) bool {
		return EndingNetWorth(ranks[i]).GreaterThan(EndingNetWorth(ranks[j]))
	})
	best := ranks[0]
	baseline := EndingNetWorth(base)
	worth := EndingNetWorth(best)
	delta := worth.Sub(baseline)
	pct := decimal.Zero
	if !baseline.IsZero() {
		pct = delta.Div(baseline.Abs()).Mul(decimal.NewFromInt(100))
	}
	return Recommendation{ScenarioName: best.Scenario, EndingNetWorth: worth, NetWorthChange: delta, PercentageChange: pct}
}
