package metrics

import (
	"math"
	"sort"
	"time"
)

// IRRStatus explains an IRR outcome. Undefined-by-construction inputs
// (too few flows, no sign change) are distinguished from solver failure.
type IRRStatus string

const (
	IRRStatusOK                IRRStatus = "ok"
	IRRStatusInsufficientFlows IRRStatus = "insufficient_flows"
	IRRStatusNoSignChange      IRRStatus = "no_sign_change"
	IRRStatusNotConverged      IRRStatus = "not_converged"
)

// CashFlow is a single dated flow: negative for money in (capital
// calls), positive for money out (distributions).
type CashFlow struct {
	Date   time.Time
	Amount float64
}

const (
	irrTolerance     = 1e-7
	irrMaxIterations = 100
	irrInitialGuess  = 0.1
	irrRateFloor     = -0.9999
	irrRateCeiling   = 1000.0
	daysPerYear      = 365.0
)

// SolveIRR finds the annualized rate r such that the net present value
// of the flows is zero, using actual day-count differences from the
// earliest flow date (exponent = days/365) rather than assuming evenly
// spaced periods. Newton-Raphson from a fixed initial guess, with a
// bisection fallback when the derivative is ill-conditioned or an
// iterate leaves the sane domain. On success the rate is returned as a
// percentage rounded to 2 decimals.
func SolveIRR(flows []CashFlow) (*float64, IRRStatus) {
	if len(flows) < 2 {
		return nil, IRRStatusInsufficientFlows
	}
	if !hasSignChange(flows) {
		return nil, IRRStatusNoSignChange
	}

	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	t0 := sorted[0].Date
	years := make([]float64, len(sorted))
	amounts := make([]float64, len(sorted))
	for i, f := range sorted {
		years[i] = f.Date.Sub(t0).Hours() / 24 / daysPerYear
		amounts[i] = f.Amount
	}

	if rate, ok := newton(amounts, years); ok {
		return percentage(rate)
	}
	if rate, ok := bisect(amounts, years); ok {
		return percentage(rate)
	}
	return nil, IRRStatusNotConverged
}

func newton(amounts, years []float64) (float64, bool) {
	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		value := npv(amounts, years, rate)
		if math.Abs(value) < irrTolerance {
			return rate, true
		}
		derivative := npvDerivative(amounts, years, rate)
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			return 0, false
		}
		next := rate - value/derivative
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= irrRateFloor || next > irrRateCeiling {
			return 0, false
		}
		rate = next
	}
	return 0, false
}

func bisect(amounts, years []float64) (float64, bool) {
	lo, hi := irrRateFloor, irrRateCeiling
	flo := npv(amounts, years, lo)
	fhi := npv(amounts, years, hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, false
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		fmid := npv(amounts, years, mid)
		if math.Abs(fmid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, true
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, false
}

func npv(amounts, years []float64, rate float64) float64 {
	total := 0.0
	for i, a := range amounts {
		total += a / math.Pow(1+rate, years[i])
	}
	return total
}

func npvDerivative(amounts, years []float64, rate float64) float64 {
	total := 0.0
	for i, a := range amounts {
		if years[i] == 0 {
			continue
		}
		total -= years[i] * a / math.Pow(1+rate, years[i]+1)
	}
	return total
}

func percentage(rate float64) (*float64, IRRStatus) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, IRRStatusNotConverged
	}
	pct := math.Round(rate*100*100) / 100
	return &pct, IRRStatusOK
}

func hasSignChange(flows []CashFlow) bool {
	positive, negative := false, false
	for _, f := range flows {
		if f.Amount > 0 {
			positive = true
		}
		if f.Amount < 0 {
			negative = true
		}
	}
	return positive && negative
}
