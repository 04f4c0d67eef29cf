package ingestion

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsight/backend/internal/domain/fund"
)

// RejectReason is a machine-readable code explaining a rejected row
type RejectReason string

const (
	ReasonEmptyRow      RejectReason = "empty_row"
	ReasonInvalidDate   RejectReason = "invalid_date"
	ReasonInvalidAmount RejectReason = "invalid_amount"
)

// RejectedRow carries a skipped row with its original index and content so
// operators can trace exactly what was dropped and why.
type RejectedRow struct {
	Index  int          `json:"index"`
	Raw    []string     `json:"raw"`
	Reason RejectReason `json:"reason"`
}

// dateLayouts are tried in order. Numeric formats assume month-first,
// matching the US-style statements the extractor produces.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

var currencySymbols = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", " ", "", " ", "")

// NormalizeRows converts a classified table's rows into typed transaction
// records for the given fund. Rows are processed independently: a
// malformed row lands in the rejected sequence with a reason code and
// never aborts the table. Both output sequences preserve input row order.
func NormalizeRows(label TableLabel, table RawTable, fundID uuid.UUID) ([]fund.Transaction, []RejectedRow) {
	if label == LabelUnknown {
		return nil, nil
	}

	cols := mapColumns(label, table.Headers)
	var valid []fund.Transaction
	var rejected []RejectedRow

	for i, row := range table.Rows {
		record, reason := normalizeRow(label, cols, row, fundID)
		if reason != "" {
			rejected = append(rejected, RejectedRow{Index: i, Raw: row, Reason: reason})
			continue
		}
		valid = append(valid, record)
	}
	return valid, rejected
}

// columnMap holds the resolved column index per field, -1 when absent
type columnMap struct {
	date        int
	amount      int
	typ         int
	category    int
	description int
	recallable  int
}

func mapColumns(label TableLabel, headers []string) columnMap {
	dateCandidates := []string{"date"}
	typeCandidates := []string{"type"}
	switch label {
	case LabelCapitalCall:
		dateCandidates = []string{"call date", "date"}
		typeCandidates = []string{"call type", "type"}
	case LabelDistribution:
		dateCandidates = []string{"distribution date", "date"}
		typeCandidates = []string{"distribution type", "type"}
	case LabelAdjustment:
		dateCandidates = []string{"adjustment date", "date"}
		typeCandidates = []string{"adjustment type", "type"}
	}

	return columnMap{
		date:        findColumn(headers, dateCandidates...),
		amount:      findColumn(headers, "amount", "value", "total"),
		typ:         findColumn(headers, typeCandidates...),
		category:    findColumn(headers, "category"),
		description: findColumn(headers, "description", "notes", "memo"),
		recallable:  findColumn(headers, "recallable"),
	}
}

// findColumn returns the index of the first header containing any
// candidate substring, matched case-insensitively
func findColumn(headers []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), candidate) {
				return i
			}
		}
	}
	return -1
}

func normalizeRow(label TableLabel, cols columnMap, row []string, fundID uuid.UUID) (fund.Transaction, RejectReason) {
	if isEmptyRow(row) {
		return nil, ReasonEmptyRow
	}

	when, err := ParseDate(cell(row, cols.date))
	if err != nil {
		return nil, ReasonInvalidDate
	}
	amount, err := ParseAmount(cell(row, cols.amount))
	if err != nil {
		return nil, ReasonInvalidAmount
	}

	typ := cell(row, cols.typ)
	description := cell(row, cols.description)

	switch label {
	case LabelCapitalCall:
		// calls are stored non-negative; a negative or zero figure in a
		// call table is a reporting artifact, not a call
		call, err := fund.NewCapitalCall(fundID, when, typ, amount, description)
		if err != nil {
			return nil, ReasonInvalidAmount
		}
		return call, ""

	case LabelDistribution:
		recallable := deriveRecallable(cell(row, cols.recallable), typ, description)
		dist, err := fund.NewDistribution(fundID, when, typ, recallable, amount, description)
		if err != nil {
			return nil, ReasonInvalidAmount
		}
		return dist, ""

	case LabelAdjustment:
		category := cell(row, cols.category)
		isContribution := deriveContributionAdjustment(typ, category)
		adj, err := fund.NewAdjustment(fundID, when, typ, category, amount, isContribution, description)
		if err != nil {
			return nil, ReasonInvalidAmount
		}
		return adj, ""
	}
	return nil, ReasonInvalidAmount
}

// ParseDate parses a report date in any of the accepted textual formats
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDate
}

// ParseAmount parses a money cell into a decimal. Currency symbols and
// thousands separators are stripped; parentheses or a leading/trailing
// minus sign denote a negative value: "(50,000)" parses to -50000.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = currencySymbols.Replace(s)
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return decimal.Decimal{}, errInvalidAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errInvalidAmount
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

var (
	errInvalidDate   = &parseError{"unrecognized date format"}
	errInvalidAmount = &parseError{"unparsable amount"}
)

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

func deriveRecallable(explicit, typ, description string) bool {
	if explicit != "" {
		switch strings.ToLower(strings.TrimSpace(explicit)) {
		case "y", "yes", "true", "1", "recallable":
			return true
		case "n", "no", "false", "0":
			return false
		}
	}
	haystack := strings.ToLower(typ + " " + description)
	return strings.Contains(haystack, "recallable")
}

func deriveContributionAdjustment(typ, category string) bool {
	haystack := strings.ToLower(typ + " " + category)
	return strings.Contains(haystack, "capital call adjustment") ||
		strings.Contains(haystack, "rebalance of capital call") ||
		strings.Contains(haystack, "capital call")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
