package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// FundSortFields contains allowed sort fields for funds
var FundSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"gp_name":      true,
	"fund_type":    true,
	"vintage_year": true,
}

// CapitalCallSortFields contains allowed sort fields for capital calls
var CapitalCallSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"call_date":  true,
	"call_type":  true,
	"amount":     true,
}

// DistributionSortFields contains allowed sort fields for distributions
var DistributionSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"distribution_date": true,
	"distribution_type": true,
	"is_recallable":     true,
	"amount":            true,
}

// AdjustmentSortFields contains allowed sort fields for adjustments
var AdjustmentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"adjustment_date": true,
	"adjustment_type": true,
	"category":        true,
	"amount":          true,
}

// DocumentSortFields contains allowed sort fields for documents
var DocumentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"filename":     true,
	"status":       true,
	"processed_at": true,
}
