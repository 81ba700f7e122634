package main

import (
	"fmt"
	"os"

	"github.com/rpgo/housing-projection/internal/calculation"
	"github.com/shopspring/decimal"
)

func main() {
	principal := decimal.NewFromInt(480000)
	rate := decimal.NewFromFloat(0.03)

	sched, err := calculation.NewAmortizationSchedule(principal, rate, 360)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Principal %s at %s%% for %d months: payment %s\n",
		principal.StringFixed(2), rate.Shift(2).StringFixed(2), sched.Periods(), sched.Payment().StringFixed(2))

	totalInterest, totalPrincipal := decimal.Zero, decimal.Zero
	for _, row := range sched.Rows() {
		totalInterest = totalInterest.Add(row.Interest)
		totalPrincipal = totalPrincipal.Add(row.Principal)
		if row.Period <= 12 || row.Period > sched.Periods()-12 {
			fmt.Printf("%4d  interest %10s  principal %10s  balance %12s\n",
				row.Period, row.Interest.StringFixed(2), row.Principal.StringFixed(2), row.Balance.StringFixed(2))
		} else if row.Period == 13 {
			fmt.Println("   ...")
		}
	}
	fmt.Printf("Total interest: %s\n", totalInterest.StringFixed(2))
	fmt.Printf("Total principal: %s (difference %s)\n", totalPrincipal.StringFixed(2), totalPrincipal.Sub(principal).StringFixed(6))
}
