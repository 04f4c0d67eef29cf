package fund

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fundsight/backend/internal/domain/shared"
)

// Fund is the aggregate root for a private equity fund tracked by the system.
// NAV is optional: a nil NAV means "not reported", which is distinct from a
// reported NAV of zero and changes how TVPI/RVPI are explained.
type Fund struct {
	shared.BaseEntity
	Name        string
	GPName      string
	FundType    string
	VintageYear int
	NAV         *decimal.Decimal
}

// NewFund creates a fund aggregate with validation
func NewFund(name, gpName, fundType string, vintageYear int) (*Fund, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FUND_NAME", "Fund name cannot be empty")
	}
	gpName = strings.TrimSpace(gpName)
	if gpName == "" {
		return nil, shared.NewDomainError("INVALID_GP_NAME", "General partner name cannot be empty")
	}
	if vintageYear != 0 && (vintageYear < 1900 || vintageYear > 2100) {
		return nil, shared.NewDomainError("INVALID_VINTAGE_YEAR", "Vintage year must be between 1900 and 2100")
	}
	fundType = strings.TrimSpace(fundType)
	if fundType == "" {
		fundType = "Other"
	}

	return &Fund{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		GPName:      gpName,
		FundType:    fundType,
		VintageYear: vintageYear,
	}, nil
}

// Update replaces the descriptive fields of the fund
func (f *Fund) Update(name, gpName, fundType string, vintageYear int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_FUND_NAME", "Fund name cannot be empty")
	}
	gpName = strings.TrimSpace(gpName)
	if gpName == "" {
		return shared.NewDomainError("INVALID_GP_NAME", "General partner name cannot be empty")
	}
	if vintageYear != 0 && (vintageYear < 1900 || vintageYear > 2100) {
		return shared.NewDomainError("INVALID_VINTAGE_YEAR", "Vintage year must be between 1900 and 2100")
	}

	f.Name = name
	f.GPName = gpName
	if fundType = strings.TrimSpace(fundType); fundType != "" {
		f.FundType = fundType
	}
	f.VintageYear = vintageYear
	f.Touch()
	return nil
}

// SetNAV records the latest reported net asset value
func (f *Fund) SetNAV(nav decimal.Decimal) error {
	if nav.IsNegative() {
		return shared.NewDomainError("INVALID_NAV", "NAV cannot be negative")
	}
	f.NAV = &nav
	f.Touch()
	return nil
}

// ClearNAV marks the NAV as not reported
func (f *Fund) ClearNAV() {
	f.NAV = nil
	f.Touch()
}

// HasNAV reports whether a NAV has been recorded for the fund
func (f *Fund) HasNAV() bool {
	return f.NAV != nil
}
