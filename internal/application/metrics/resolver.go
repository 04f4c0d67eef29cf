package metrics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fundsight/backend/internal/domain/fund"
)

// AdjustmentClass tags the documented adjustment categories
type AdjustmentClass string

const (
	// AdjustmentCapitalCallRebalance is a refund of a prior over-call,
	// recorded negative and flagged so it is never double-counted as a
	// distribution
	AdjustmentCapitalCallRebalance AdjustmentClass = "capital_call_rebalance"
	// AdjustmentDistributionRebalance is a clawback reversing a prior
	// over-distribution
	AdjustmentDistributionRebalance AdjustmentClass = "distribution_rebalance"
	// AdjustmentOther covers adjustments outside the two documented
	// categories
	AdjustmentOther AdjustmentClass = "other"
)

// ResolvedAdjustment is the resolver verdict for one adjustment record.
// PICTerm is the term the record contributes inside the paid-in capital
// formula PIC = calls - adjustments: always the negated amount. The
// resolver never changes the engine's formula, it only supplies metadata
// for breakdown narratives and category-specific reporting.
type ResolvedAdjustment struct {
	Class     AdjustmentClass
	PICTerm   decimal.Decimal
	Narrative string
}

// ResolveAdjustment classifies an adjustment record and derives its
// formula term
func ResolveAdjustment(adj fund.Adjustment) ResolvedAdjustment {
	class := classifyAdjustment(adj)
	term := adj.Amount.Neg()

	var narrative string
	switch class {
	case AdjustmentCapitalCallRebalance:
		narrative = fmt.Sprintf("Rebalance of capital call: %s contributes %s to paid-in capital", adj.Amount.StringFixed(2), term.StringFixed(2))
	case AdjustmentDistributionRebalance:
		narrative = fmt.Sprintf("Rebalance of distribution (clawback): %s contributes %s to paid-in capital", adj.Amount.StringFixed(2), term.StringFixed(2))
	default:
		narrative = fmt.Sprintf("Adjustment: %s contributes %s to paid-in capital", adj.Amount.StringFixed(2), term.StringFixed(2))
	}

	return ResolvedAdjustment{Class: class, PICTerm: term, Narrative: narrative}
}

func classifyAdjustment(adj fund.Adjustment) AdjustmentClass {
	haystack := strings.ToLower(adj.AdjustmentType + " " + adj.Category)
	switch {
	case adj.IsContributionAdjustment || strings.Contains(haystack, "capital call"):
		return AdjustmentCapitalCallRebalance
	case strings.Contains(haystack, "distribution") || strings.Contains(haystack, "clawback"):
		return AdjustmentDistributionRebalance
	default:
		return AdjustmentOther
	}
}
