package calculation

import (
	"testing"

	"github.com/rpgo/housing-projection/internal/domain"
	"github.com/rpgo/housing-projection/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func brackets(rows ...[2]string) []domain.TaxBracket {
	out := make([]domain.TaxBracket, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.TaxBracket{Threshold: d(r[0]), Rate: d(r[1])})
	}
	return out
}

// testConfig is a single-buyer household purchasing on the start date and selling
// thirty years later.
func testConfig() *domain.Configuration {
	return &domain.Configuration{
		Simulation: domain.SimulationWindow{Name: "test", StartDate: "2021-09-01", EndDate: "2051-09-01"},
		People: []domain.PersonConfig{{
			Name:                       "Jordan",
			SalaryPerPayPeriod:         d("6500"),
			AnnualRaiseRate:            d("0.03"),
			RaiseMonth:                 9,
			PretaxSavingsPerPayPeriod:  d("750"),
			MedicalPremiumPerPayPeriod: d("150"),
			MedicalDeduction:           d("0"),
			NonhousingAnnualSpending:   d("48000"),
			BalancePretax:              d("0"),
			BalancePosttax:             d("250000"),
			SubsidyBudget:              d("60000"),
		}},
		Property: domain.PropertyConfig{
			FMV:                 d("1000000"),
			GroundLeaseFraction: d("0.9"),
			AppreciationCap:     d("1.05"),
			PurchaseDate:        "2021-09-01",
			SaleDate:            "2051-09-01",
			ClosingCosts:        d("5000"),
			PropertyTaxRate:     d("0.011"),
			AssessmentCap:       d("1.02"),
			UpkeepRate:          d("0.01"),
			InsuranceAnnual:     d("1500"),
		},
		Loans: domain.LoanPolicy{
			MinDownPaymentFraction: d("0.05"),
			MAP: domain.MAPPolicy{
				LoanCap:     domain.LoanCap{MaxFraction: d("0.2"), MaxAmount: d("300000")},
				OverallRate: d("0.03"),
				CurrentRate: d("0.01"),
			},
			DIP:                     domain.LoanCap{MaxFraction: d("0.1"), MaxAmount: d("100000")},
			RIP:                     domain.LoanCap{MaxFraction: d("0.05"), MaxAmount: d("50000")},
			ZIP:                     domain.ZIPPolicy{LoanCap: domain.LoanCap{MaxFraction: d("0.1"), MaxAmount: d("100000")}, AnnualPaydown: d("10000")},
			SFCU:                    domain.ConventionalPolicy{AnnualRate: d("0.03"), TermYears: 30, PointsRate: d("0.005")},
			MortgageLimitCutoffDate: "2017-12-15",
			MortgageLimitBefore:     d("1000000"),
			MortgageLimitAfter:      d("750000"),
		},
		Subsidy: domain.SubsidyPolicy{
			InitialAmount:  d("1000"),
			Decrement:      d("100"),
			DefaultPeriods: 24,
			Windows:        []domain.SubsidyWindow{{From: "2019-01-01", To: "2020-12-31", Periods: 48}},
		},
		Assumptions: domain.GlobalAssumptions{
			InflationRate:    d("0.02"),
			AppreciationRate: d("0.03"),
			CashReturnRate:   d("0.01"),
			PretaxReturnRate: d("0.05"),
		},
		Taxes: domain.TaxConfig{
			WithholdingRate: d("0.25"),
			Federal: domain.TaxTableConfig{
				Brackets: brackets(
					[2]string{"0", "0.10"}, [2]string{"19900", "0.12"}, [2]string{"81050", "0.22"},
					[2]string{"172750", "0.24"}, [2]string{"329850", "0.32"}, [2]string{"418850", "0.35"},
					[2]string{"628300", "0.37"}),
				StandardDeduction: d("25100"),
			},
			State: domain.TaxTableConfig{
				Brackets: brackets(
					[2]string{"0", "0.01"}, [2]string{"18650", "0.02"}, [2]string{"44214", "0.04"},
					[2]string{"69784", "0.06"}, [2]string{"96870", "0.08"}, [2]string{"122428", "0.093"},
					[2]string{"625372", "0.103"}, [2]string{"750442", "0.113"}, [2]string{"1250738", "0.123"}),
				StandardDeduction: d("9606"),
			},
			SALTCap:        d("10000"),
			SocialSecurity: domain.CappedRate{Rate: d("0.062"), WageBase: d("142800")},
			Medicare:       domain.TwoTierRate{Rate: d("0.0145"), Threshold: d("250000"), HigherRate: d("0.0235")},
		},
	}
}

func newTestState(t *testing.T, cfg *domain.Configuration) *SimulationState {
	t.Helper()
	s, err := NewSimulationState(cfg, cfg.BaseScenario(), dateutil.Calendar{})
	require.NoError(t, err)
	return s
}

// at moves the state to a date without running the days in between
func at(t *testing.T, s *SimulationState, date string) {
	t.Helper()
	day, err := s.Calendar.ToDay(date)
	require.NoError(t, err)
	s.Day = day
}
