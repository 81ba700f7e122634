package config

import (
	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/shopspring/decimal"
)

func rows(pairs ...float64) []domain.TaxBracket {
	out := make([]domain.TaxBracket, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.TaxBracket{
			Threshold: decimal.NewFromFloat(pairs[i]),
			Rate:      decimal.NewFromFloat(pairs[i+1]),
		})
	}
	return out
}

// CreateExampleConfiguration creates an example configuration: a two-earner household
// buying on the first day of the projection and selling thirty years later.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	knownPrice := decimal.NewFromInt(2500000)

	return &domain.Configuration{
		Simulation: domain.SimulationWindow{
			Name:      "base",
			StartDate: "2021-09-01",
			EndDate:   "2051-09-01",
			PayDays:   []int{15, 31},
		},
		People: []domain.PersonConfig{
			{
				Name:                       "Jordan",
				SalaryPerPayPeriod:         decimal.NewFromInt(6500),
				AnnualRaiseRate:            decimal.NewFromFloat(0.03),
				RaiseMonth:                 9,
				PretaxSavingsPerPayPeriod:  decimal.NewFromInt(750),
				MedicalPremiumPerPayPeriod: decimal.NewFromInt(150),
				MedicalDeduction:           decimal.Zero,
				NonhousingAnnualSpending:   decimal.NewFromInt(48000),
				BalancePretax:              decimal.Zero,
				BalancePosttax:             decimal.NewFromInt(250000),
				SubsidyBudget:              decimal.NewFromInt(60000),
			},
			{
				Name:                       "Casey",
				SalaryPerPayPeriod:         decimal.NewFromInt(4000),
				AnnualRaiseRate:            decimal.NewFromFloat(0.025),
				RaiseMonth:                 1,
				PretaxSavingsPerPayPeriod:  decimal.NewFromInt(400),
				MedicalPremiumPerPayPeriod: decimal.Zero, // covered under Jordan's plan
				MedicalDeduction:           decimal.Zero,
				NonhousingAnnualSpending:   decimal.NewFromInt(24000),
				BalancePretax:              decimal.Zero,
				BalancePosttax:             decimal.Zero,
				SubsidyBudget:              decimal.Zero,
			},
		},
		Property: domain.PropertyConfig{
			FMV:                 decimal.NewFromInt(1000000),
			GroundLeaseFraction: decimal.NewFromFloat(0.9),
			AppreciationCap:     decimal.NewFromFloat(1.05),
			PurchaseDate:        "2021-09-01",
			SaleDate:            "2051-09-01",
			ClosingCosts:        decimal.NewFromInt(5000),
			PropertyTaxRate:     decimal.NewFromFloat(0.011),
			AssessmentCap:       decimal.NewFromFloat(1.02),
			UpkeepRate:          decimal.NewFromFloat(0.01),
			InsuranceAnnual:     decimal.NewFromInt(1500),
		},
		Loans: domain.LoanPolicy{
			MinDownPaymentFraction: decimal.NewFromFloat(0.05),
			MAP: domain.MAPPolicy{
				LoanCap:     domain.LoanCap{MaxFraction: decimal.NewFromFloat(0.2), MaxAmount: decimal.NewFromInt(300000)},
				OverallRate: decimal.NewFromFloat(0.03),
				CurrentRate: decimal.NewFromFloat(0.01),
			},
			DIP: domain.LoanCap{MaxFraction: decimal.NewFromFloat(0.1), MaxAmount: decimal.NewFromInt(100000)},
			RIP: domain.LoanCap{MaxFraction: decimal.NewFromFloat(0.05), MaxAmount: decimal.NewFromInt(50000)},
			ZIP: domain.ZIPPolicy{
				LoanCap:            domain.LoanCap{MaxFraction: decimal.NewFromFloat(0.1), MaxAmount: decimal.NewFromInt(100000)},
				AnnualPaydown:      decimal.NewFromInt(10000),
				PaydownCutoffMonth: 7,
			},
			SFCU: domain.ConventionalPolicy{
				AnnualRate: decimal.NewFromFloat(0.03),
				TermYears:  30,
				PointsRate: decimal.NewFromFloat(0.005),
			},
			MortgageLimitCutoffDate: "2017-12-15",
			MortgageLimitBefore:     decimal.NewFromInt(1000000),
			MortgageLimitAfter:      decimal.NewFromInt(750000),
		},
		Subsidy: domain.SubsidyPolicy{
			InitialAmount:  decimal.NewFromInt(1000),
			Decrement:      decimal.NewFromInt(100),
			DefaultPeriods: 24,
			Windows:        []domain.SubsidyWindow{{From: "2019-01-01", To: "2020-12-31", Periods: 48}},
		},
		Assumptions: domain.GlobalAssumptions{
			InflationRate:    decimal.NewFromFloat(0.02),
			AppreciationRate: decimal.NewFromFloat(0.03),
			CashReturnRate:   decimal.NewFromFloat(0.01),
			PretaxReturnRate: decimal.NewFromFloat(0.05),
		},
		Taxes: domain.TaxConfig{
			WithholdingRate: decimal.NewFromFloat(0.25),
			// 2021 married filing jointly
			Federal: domain.TaxTableConfig{
				Brackets: rows(0, 0.10, 19900, 0.12, 81050, 0.22, 172750, 0.24,
					329850, 0.32, 418850, 0.35, 628300, 0.37),
				StandardDeduction: decimal.NewFromInt(25100),
			},
			State: domain.TaxTableConfig{
				Brackets: rows(0, 0.01, 18650, 0.02, 44214, 0.04, 69784, 0.06, 96870, 0.08,
					122428, 0.093, 625372, 0.103, 750442, 0.113, 1250738, 0.123),
				StandardDeduction: decimal.NewFromInt(9606),
			},
			SALTCap:        decimal.NewFromInt(10000),
			SocialSecurity: domain.CappedRate{Rate: decimal.NewFromFloat(0.062), WageBase: decimal.NewFromInt(142800)},
			Medicare: domain.TwoTierRate{
				Rate:       decimal.NewFromFloat(0.0145),
				Threshold:  decimal.NewFromInt(250000),
				HigherRate: decimal.NewFromFloat(0.0235),
			},
		},
		Scenarios: []domain.Scenario{
			{
				Name:         "buy-2023",
				PurchaseDate: "2023-06-01",
				SaleDate:     "2051-06-01",
			},
			{
				Name:           "known-sale-price",
				PurchaseDate:   "2021-09-01",
				SaleDate:       "2051-09-01",
				KnownSalePrice: &knownPrice,
			},
			{
				Name: "keep-renting",
			},
		},
	}
}
