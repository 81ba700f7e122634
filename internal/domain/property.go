package domain

import (
	"github.com/shopspring/decimal"
)

// OwnershipState is the lifecycle position of the property
type OwnershipState int

const (
	Unowned OwnershipState = iota
	Owned
	Sold
)

func (s OwnershipState) String() string {
	switch s {
	case Unowned:
		return "unowned"
	case Owned:
		return "owned"
	case Sold:
		return "sold"
	default:
		return "unknown"
	}
}

// MAPLoan is the shared-appreciation loan. Interest accrues daily on principal plus
// cumulative deferred interest and folds into the deferred balance monthly.
type MAPLoan struct {
	Principal                  decimal.Decimal
	CumulativeDeferredInterest decimal.Decimal
	InterestAccruedThisPeriod  decimal.Decimal
	OverallRate                decimal.Decimal
	CurrentRate                decimal.Decimal
}

// DeferredInterest is everything owed beyond principal, including the open period
func (m MAPLoan) DeferredInterest() decimal.Decimal {
	return m.CumulativeDeferredInterest.Add(m.InterestAccruedThisPeriod)
}

// ZIPLoan is the zero-interest loan that receives December paydowns
type ZIPLoan struct {
	Balance             decimal.Decimal
	OriginationYear     int
	SkipOriginationYear bool // originated after the mid-year cutoff
}

// ConventionalLoan is the fixed-rate level-payment mortgage
type ConventionalLoan struct {
	Principal    decimal.Decimal
	Balance      decimal.Decimal
	AnnualRate   decimal.Decimal
	TermMonths   int
	PaymentsMade int
}

// LoanStack holds the five instruments financing the property
type LoanStack struct {
	MAP  MAPLoan
	DIP  decimal.Decimal
	RIP  decimal.Decimal
	ZIP  ZIPLoan
	SFCU ConventionalLoan
}

// AcquisitionDebt is the outstanding principal across all instruments
func (s *LoanStack) AcquisitionDebt() decimal.Decimal {
	return s.MAP.Principal.Add(s.DIP).Add(s.RIP).Add(s.ZIP.Balance).Add(s.SFCU.Balance)
}

// IsClear reports whether every balance, including deferred interest, is zero
func (s *LoanStack) IsClear() bool {
	return s.AcquisitionDebt().IsZero() && s.MAP.DeferredInterest().IsZero()
}

// CheckNonNegative fails when any balance went below zero
func (s *LoanStack) CheckNonNegative() error {
	named := []struct {
		name string
		v    decimal.Decimal
	}{
		{"MAP principal", s.MAP.Principal},
		{"MAP deferred interest", s.MAP.CumulativeDeferredInterest},
		{"DIP", s.DIP},
		{"RIP", s.RIP},
		{"ZIP", s.ZIP.Balance},
		{"SFCU", s.SFCU.Balance},
	}
	for _, n := range named {
		if n.v.IsNegative() {
			return Violation("loans", "%s balance is negative (%s)", n.name, n.v.StringFixed(2))
		}
	}
	return nil
}

// Retire zeroes every instrument
func (s *LoanStack) Retire() {
	rates := s.MAP
	*s = LoanStack{}
	s.MAP.OverallRate = rates.OverallRate
	s.MAP.CurrentRate = rates.CurrentRate
}

// Property is the single home bought and sold during a run
type Property struct {
	State               OwnershipState
	PurchasePrice       decimal.Decimal
	FMVAtPurchase       decimal.Decimal
	FMV                 decimal.Decimal
	TaxAssessment       decimal.Decimal
	PurchaseDay         int
	GroundLeaseFraction decimal.Decimal
	AppreciationCap     decimal.Decimal
	InsurancePremium    decimal.Decimal // annual, inflated each January
	Loans               LoanStack
}

// NewProperty creates an unowned property valued at the configured FMV
func NewProperty(cfg PropertyConfig) *Property {
	return &Property{
		State:               Unowned,
		FMV:                 cfg.FMV,
		GroundLeaseFraction: cfg.GroundLeaseFraction,
		AppreciationCap:     cfg.AppreciationCap,
		InsurancePremium:    cfg.InsuranceAnnual,
	}
}
