package fund

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsight/backend/internal/domain/shared"
)

// Kind identifies the category of a fund transaction
type Kind string

const (
	KindCapitalCall  Kind = "capital_call"
	KindDistribution Kind = "distribution"
	KindAdjustment   Kind = "adjustment"
)

// Transaction is the common view over the three transaction record types.
// GrossAmount carries the record's sign convention: capital calls and
// distributions are non-negative, adjustments keep their reported sign.
type Transaction interface {
	Kind() Kind
	EffectiveDate() time.Time
	GrossAmount() decimal.Decimal
}

// CapitalCall is money drawn down from limited partners
type CapitalCall struct {
	shared.BaseEntity
	FundID      uuid.UUID
	CallDate    time.Time
	CallType    string
	Amount      decimal.Decimal
	Description string
}

// NewCapitalCall creates a capital call with validation
func NewCapitalCall(fundID uuid.UUID, callDate time.Time, callType string, amount decimal.Decimal, description string) (*CapitalCall, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUND_ID", "Fund ID is required")
	}
	if callDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_CALL_DATE", "Call date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_CALL_AMOUNT", "Call amount must be positive")
	}
	if callType = strings.TrimSpace(callType); callType == "" {
		callType = "Capital Call"
	}
	if description = strings.TrimSpace(description); description == "" {
		description = "Capital call"
	}

	return &CapitalCall{
		BaseEntity:  shared.NewBaseEntity(),
		FundID:      fundID,
		CallDate:    callDate,
		CallType:    callType,
		Amount:      amount,
		Description: description,
	}, nil
}

func (c *CapitalCall) Kind() Kind                   { return KindCapitalCall }
func (c *CapitalCall) EffectiveDate() time.Time     { return c.CallDate }
func (c *CapitalCall) GrossAmount() decimal.Decimal { return c.Amount }

// Distribution is money returned to limited partners. Recallable
// distributions still count toward total distributions.
type Distribution struct {
	shared.BaseEntity
	FundID           uuid.UUID
	DistributionDate time.Time
	DistributionType string
	IsRecallable     bool
	Amount           decimal.Decimal
	Description      string
}

// NewDistribution creates a distribution with validation
func NewDistribution(fundID uuid.UUID, distributionDate time.Time, distributionType string, isRecallable bool, amount decimal.Decimal, description string) (*Distribution, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUND_ID", "Fund ID is required")
	}
	if distributionDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTION_DATE", "Distribution date is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DISTRIBUTION_AMOUNT", "Distribution amount must be positive")
	}
	if distributionType = strings.TrimSpace(distributionType); distributionType == "" {
		distributionType = "Distribution"
	}
	if description = strings.TrimSpace(description); description == "" {
		description = "Distribution"
	}

	return &Distribution{
		BaseEntity:       shared.NewBaseEntity(),
		FundID:           fundID,
		DistributionDate: distributionDate,
		DistributionType: distributionType,
		IsRecallable:     isRecallable,
		Amount:           amount,
		Description:      description,
	}, nil
}

func (d *Distribution) Kind() Kind                   { return KindDistribution }
func (d *Distribution) EffectiveDate() time.Time     { return d.DistributionDate }
func (d *Distribution) GrossAmount() decimal.Decimal { return d.Amount }

// Adjustment is a correction entry from a fund report: a clawback,
// rebalance or refund. The amount keeps its reported sign; a negative
// adjustment increases paid-in capital.
type Adjustment struct {
	shared.BaseEntity
	FundID                   uuid.UUID
	AdjustmentDate           time.Time
	AdjustmentType           string
	Category                 string
	Amount                   decimal.Decimal
	IsContributionAdjustment bool
	Description              string
}

// NewAdjustment creates an adjustment with validation
func NewAdjustment(fundID uuid.UUID, adjustmentDate time.Time, adjustmentType, category string, amount decimal.Decimal, isContributionAdjustment bool, description string) (*Adjustment, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUND_ID", "Fund ID is required")
	}
	if adjustmentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_DATE", "Adjustment date is required")
	}
	if adjustmentType = strings.TrimSpace(adjustmentType); adjustmentType == "" {
		adjustmentType = "Other"
	}
	if category = strings.TrimSpace(category); category == "" {
		category = "Other"
	}
	if description = strings.TrimSpace(description); description == "" {
		description = "Adjustment"
	}

	return &Adjustment{
		BaseEntity:               shared.NewBaseEntity(),
		FundID:                   fundID,
		AdjustmentDate:           adjustmentDate,
		AdjustmentType:           adjustmentType,
		Category:                 category,
		Amount:                   amount,
		IsContributionAdjustment: isContributionAdjustment,
		Description:              description,
	}, nil
}

func (a *Adjustment) Kind() Kind                   { return KindAdjustment }
func (a *Adjustment) EffectiveDate() time.Time     { return a.AdjustmentDate }
func (a *Adjustment) GrossAmount() decimal.Decimal { return a.Amount }
