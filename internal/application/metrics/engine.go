package metrics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsight/backend/internal/domain/fund"
)

// Snapshot is an immutable view of one fund's transaction records,
// fetched once per computation. All metric functions are pure over it:
// identical snapshots produce identical results.
type Snapshot struct {
	FundID        uuid.UUID
	CapitalCalls  []fund.CapitalCall
	Distributions []fund.Distribution
	Adjustments   []fund.Adjustment
	NAV           *decimal.Decimal
}

// TotalCalls sums all capital call amounts
func (s *Snapshot) TotalCalls() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.CapitalCalls {
		total = total.Add(c.Amount)
	}
	return total
}

// TotalAdjustments sums all adjustment amounts with their recorded sign
func (s *Snapshot) TotalAdjustments() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Adjustments {
		total = total.Add(a.Amount)
	}
	return total
}

// TotalDistributions sums all distribution amounts. Recallable status is
// reporting metadata, not an exclusion filter: recallable distributions
// count like any other.
func (s *Snapshot) TotalDistributions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range s.Distributions {
		total = total.Add(d.Amount)
	}
	return total
}

// PIC computes paid-in capital as calls minus adjustments, floored at
// zero. The subtraction is literal: an adjustment recorded with a
// negative amount increases PIC.
func (s *Snapshot) PIC() decimal.Decimal {
	pic := s.TotalCalls().Sub(s.TotalAdjustments())
	if pic.IsNegative() {
		return decimal.Zero
	}
	return pic
}

// DPI is distributions over paid-in capital, rounded to 4 decimals.
// Zero when PIC is not positive; a ratio over nothing paid in is
// meaningless, never a division error.
func (s *Snapshot) DPI() float64 {
	return ratio(s.TotalDistributions(), s.PIC())
}

// TVPI is (distributions + NAV) over paid-in capital, rounded to 4
// decimals. An absent NAV contributes zero to the numerator; whether the
// NAV was reported at all is surfaced separately in the breakdown.
func (s *Snapshot) TVPI() float64 {
	return ratio(s.TotalDistributions().Add(s.navOrZero()), s.PIC())
}

// RVPI is NAV over paid-in capital, rounded to 4 decimals
func (s *Snapshot) RVPI() float64 {
	return ratio(s.navOrZero(), s.PIC())
}

// IRR solves the internal rate of return over the fund's dated cash
// flows: every capital call is an outflow at its call date, every
// distribution an inflow at its distribution date. Returns nil with a
// status explaining why when the rate is undefined or the solver did
// not converge.
func (s *Snapshot) IRR() (*float64, IRRStatus) {
	flows := make([]CashFlow, 0, len(s.CapitalCalls)+len(s.Distributions))
	for _, c := range s.CapitalCalls {
		flows = append(flows, CashFlow{Date: c.CallDate, Amount: -c.Amount.InexactFloat64()})
	}
	for _, d := range s.Distributions {
		flows = append(flows, CashFlow{Date: d.DistributionDate, Amount: d.Amount.InexactFloat64()})
	}
	return SolveIRR(flows)
}

// HasNAV reports whether the fund has a reported NAV in this snapshot
func (s *Snapshot) HasNAV() bool {
	return s.NAV != nil
}

func (s *Snapshot) navOrZero() decimal.Decimal {
	if s.NAV == nil {
		return decimal.Zero
	}
	return *s.NAV
}

func ratio(numerator, pic decimal.Decimal) float64 {
	if !pic.IsPositive() {
		return 0.0
	}
	return numerator.Div(pic).Round(4).InexactFloat64()
}
