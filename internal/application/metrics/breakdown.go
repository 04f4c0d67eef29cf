package metrics

import (
	"fmt"
	"sort"

	"github.com/fundsight/backend/internal/domain/shared"
)

// Metric names the computable fund metrics
type Metric string

const (
	MetricPIC  Metric = "pic"
	MetricDPI  Metric = "dpi"
	MetricIRR  Metric = "irr"
	MetricTVPI Metric = "tvpi"
	MetricRVPI Metric = "rvpi"
)

// KnownMetrics lists every metric a breakdown can be requested for
var KnownMetrics = []Metric{MetricPIC, MetricDPI, MetricIRR, MetricTVPI, MetricRVPI}

// ErrUnknownMetric is returned for a breakdown request naming no metric
var ErrUnknownMetric = shared.NewDomainError("UNKNOWN_METRIC", "Unknown metric name")

// Breakdown is the explanation object for one computed metric. It is a
// pure function of the snapshot: identical data yields a structurally
// identical breakdown, with no timestamps and all detail lines in a
// fixed date-then-amount order.
type Breakdown struct {
	Metric      Metric            `json:"metric"`
	Formula     string            `json:"formula"`
	Inputs      map[string]string `json:"inputs"`
	Result      *float64          `json:"result"`
	Explanation string            `json:"explanation"`
	Details     []DetailLine      `json:"details,omitempty"`
}

// DetailLine is one contributing record in a breakdown
type DetailLine struct {
	Date      string `json:"date"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Narrative string `json:"narrative,omitempty"`
}

// AssembleBreakdown builds the explanation for one metric over a
// snapshot
func AssembleBreakdown(s *Snapshot, metric Metric) (*Breakdown, error) {
	switch metric {
	case MetricPIC:
		return picBreakdown(s), nil
	case MetricDPI:
		return dpiBreakdown(s), nil
	case MetricTVPI:
		return tvpiBreakdown(s), nil
	case MetricRVPI:
		return rvpiBreakdown(s), nil
	case MetricIRR:
		return irrBreakdown(s), nil
	default:
		return nil, ErrUnknownMetric
	}
}

func picBreakdown(s *Snapshot) *Breakdown {
	calls := s.TotalCalls()
	adjustments := s.TotalAdjustments()
	pic := s.PIC()
	result := pic.InexactFloat64()

	details := make([]DetailLine, 0, len(s.CapitalCalls)+len(s.Adjustments))
	for _, c := range s.CapitalCalls {
		details = append(details, DetailLine{
			Date:   c.CallDate.Format("2006-01-02"),
			Kind:   "capital_call",
			Type:   c.CallType,
			Amount: c.Amount.StringFixed(2),
		})
	}
	for _, a := range s.Adjustments {
		resolved := ResolveAdjustment(a)
		details = append(details, DetailLine{
			Date:      a.AdjustmentDate.Format("2006-01-02"),
			Kind:      "adjustment",
			Type:      a.AdjustmentType,
			Amount:    a.Amount.StringFixed(2),
			Narrative: resolved.Narrative,
		})
	}
	sortDetails(details)

	return &Breakdown{
		Metric:  MetricPIC,
		Formula: "PIC = total capital calls - total adjustments (floored at 0)",
		Inputs: map[string]string{
			"total_capital_calls": calls.StringFixed(2),
			"total_adjustments":   adjustments.StringFixed(2),
		},
		Result: &result,
		Explanation: fmt.Sprintf("Paid-in capital is total capital calls of %s minus total adjustments of %s, giving %s.",
			calls.StringFixed(2), adjustments.StringFixed(2), pic.StringFixed(2)),
		Details: details,
	}
}

func dpiBreakdown(s *Snapshot) *Breakdown {
	pic := s.PIC()
	distributions := s.TotalDistributions()
	dpi := s.DPI()

	b := &Breakdown{
		Metric:  MetricDPI,
		Formula: "DPI = total distributions / PIC",
		Inputs: map[string]string{
			"total_distributions": distributions.StringFixed(2),
			"pic":                 pic.StringFixed(2),
		},
		Result:  &dpi,
		Details: distributionDetails(s),
	}
	if !pic.IsPositive() {
		b.Explanation = fmt.Sprintf("DPI is 0.0 because paid-in capital (%s) is not positive.", pic.StringFixed(2))
		return b
	}
	b.Explanation = fmt.Sprintf("DPI is total distributions of %s divided by paid-in capital of %s, giving %.4f.",
		distributions.StringFixed(2), pic.StringFixed(2), dpi)
	return b
}

func tvpiBreakdown(s *Snapshot) *Breakdown {
	pic := s.PIC()
	distributions := s.TotalDistributions()
	nav := s.navOrZero()
	tvpi := s.TVPI()

	b := &Breakdown{
		Metric:  MetricTVPI,
		Formula: "TVPI = (total distributions + NAV) / PIC",
		Inputs: map[string]string{
			"total_distributions": distributions.StringFixed(2),
			"nav":                 nav.StringFixed(2),
			"nav_reported":        fmt.Sprintf("%t", s.HasNAV()),
			"pic":                 pic.StringFixed(2),
		},
		Result: &tvpi,
	}
	switch {
	case !pic.IsPositive():
		b.Explanation = fmt.Sprintf("TVPI is 0.0 because paid-in capital (%s) is not positive.", pic.StringFixed(2))
	case !s.HasNAV():
		b.Explanation = fmt.Sprintf("TVPI is (total distributions of %s + NAV, not reported and treated as 0) divided by paid-in capital of %s, giving %.4f.",
			distributions.StringFixed(2), pic.StringFixed(2), tvpi)
	default:
		b.Explanation = fmt.Sprintf("TVPI is (total distributions of %s + NAV of %s) divided by paid-in capital of %s, giving %.4f.",
			distributions.StringFixed(2), nav.StringFixed(2), pic.StringFixed(2), tvpi)
	}
	return b
}

func rvpiBreakdown(s *Snapshot) *Breakdown {
	pic := s.PIC()
	nav := s.navOrZero()
	rvpi := s.RVPI()

	b := &Breakdown{
		Metric:  MetricRVPI,
		Formula: "RVPI = NAV / PIC",
		Inputs: map[string]string{
			"nav":          nav.StringFixed(2),
			"nav_reported": fmt.Sprintf("%t", s.HasNAV()),
			"pic":          pic.StringFixed(2),
		},
		Result: &rvpi,
	}
	switch {
	case !pic.IsPositive():
		b.Explanation = fmt.Sprintf("RVPI is 0.0 because paid-in capital (%s) is not positive.", pic.StringFixed(2))
	case !s.HasNAV():
		b.Explanation = fmt.Sprintf("RVPI is 0.0000 because no NAV has been reported for the fund (paid-in capital is %s).", pic.StringFixed(2))
	default:
		b.Explanation = fmt.Sprintf("RVPI is NAV of %s divided by paid-in capital of %s, giving %.4f.",
			nav.StringFixed(2), pic.StringFixed(2), rvpi)
	}
	return b
}

func irrBreakdown(s *Snapshot) *Breakdown {
	irr, status := s.IRR()

	details := make([]DetailLine, 0, len(s.CapitalCalls)+len(s.Distributions))
	for _, c := range s.CapitalCalls {
		details = append(details, DetailLine{
			Date:   c.CallDate.Format("2006-01-02"),
			Kind:   "outflow",
			Type:   c.CallType,
			Amount: c.Amount.Neg().StringFixed(2),
		})
	}
	for _, d := range s.Distributions {
		details = append(details, DetailLine{
			Date:   d.DistributionDate.Format("2006-01-02"),
			Kind:   "inflow",
			Type:   d.DistributionType,
			Amount: d.Amount.StringFixed(2),
		})
	}
	sortDetails(details)

	b := &Breakdown{
		Metric:  MetricIRR,
		Formula: "0 = sum(flow / (1+IRR)^(days/365)) over all dated cash flows",
		Inputs: map[string]string{
			"cash_flow_count": fmt.Sprintf("%d", len(details)),
			"status":          string(status),
		},
		Result:  irr,
		Details: details,
	}
	switch status {
	case IRRStatusOK:
		b.Explanation = fmt.Sprintf("IRR solved over %d dated cash flows (calls as outflows, distributions as inflows) is %.2f%%.", len(details), *irr)
	case IRRStatusInsufficientFlows:
		b.Explanation = "IRR is undefined: fewer than two dated cash flows."
	case IRRStatusNoSignChange:
		b.Explanation = "IRR is undefined: cash flows never change sign, so no rate makes their present value zero."
	default:
		b.Explanation = "IRR could not be computed: the root-finder did not converge for these cash flows."
	}
	return b
}

func distributionDetails(s *Snapshot) []DetailLine {
	details := make([]DetailLine, 0, len(s.Distributions))
	for _, d := range s.Distributions {
		line := DetailLine{
			Date:   d.DistributionDate.Format("2006-01-02"),
			Kind:   "distribution",
			Type:   d.DistributionType,
			Amount: d.Amount.StringFixed(2),
		}
		if d.IsRecallable {
			line.Narrative = "Recallable: counted in total distributions, may be called back later"
		}
		details = append(details, line)
	}
	sortDetails(details)
	return details
}

// sortDetails orders lines by date, then kind, then amount so the same
// snapshot always renders the same breakdown
func sortDetails(details []DetailLine) {
	sort.SliceStable(details, func(i, j int) bool {
		if details[i].Date != details[j].Date {
			return details[i].Date < details[j].Date
		}
		if details[i].Kind != details[j].Kind {
			return details[i].Kind < details[j].Kind
		}
		return details[i].Amount < details[j].Amount
	})
}
