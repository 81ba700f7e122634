package output

import "github.com/rpgo/housing-projection/internal/domain"

// ModelConventions lists the fixed calendar rules of the projection rendered in detailed outputs.
var ModelConventions = []string{
	"Pay days: 15th and last day of each month unless configured",
	"Tax settlement: April 15 for the previous year; remaining years settle after the last day",
	"Property tax: half on December 10 and half on April 10, assessment reset each July 1",
	"MAP deferred interest compounds monthly on the purchase anniversary day",
	"ZIP paydown: last pay day of December, skipped in the purchase year for purchases from July on",
	"Ending line: balances held flat ten years past the last simulated day",
}

// AssumptionsFor combines a run's rate assumptions with the fixed conventions
func AssumptionsFor(r *domain.SimulationResult) []string {
	out := make([]string, 0, len(r.Assumptions)+len(ModelConventions))
	out = append(out, r.Assumptions...)
	return append(out, ModelConventions...)
}
