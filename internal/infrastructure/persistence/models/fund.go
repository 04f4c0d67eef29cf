package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsight/backend/internal/domain/fund"
)

// FundModel is the persistence model for the Fund aggregate root.
type FundModel struct {
	BaseModel
	Name        string           `gorm:"type:varchar(200);not null;uniqueIndex"`
	GPName      string           `gorm:"type:varchar(200);not null"`
	FundType    string           `gorm:"type:varchar(50);not null"`
	VintageYear int              `gorm:"not null;default:0"`
	NAV         *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (FundModel) TableName() string {
	return "funds"
}

// ToDomain converts the persistence model to a domain Fund entity.
func (m *FundModel) ToDomain() *fund.Fund {
	return &fund.Fund{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		GPName:      m.GPName,
		FundType:    m.FundType,
		VintageYear: m.VintageYear,
		NAV:         m.NAV,
	}
}

// FromDomain populates the persistence model from a domain Fund entity.
func (m *FundModel) FromDomain(f *fund.Fund) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.Name = f.Name
	m.GPName = f.GPName
	m.FundType = f.FundType
	m.VintageYear = f.VintageYear
	m.NAV = f.NAV
}

// FundModelFromDomain creates a new persistence model from a domain Fund.
func FundModelFromDomain(f *fund.Fund) *FundModel {
	m := &FundModel{}
	m.FromDomain(f)
	return m
}

// CapitalCallModel is the persistence model for capital call records.
type CapitalCallModel struct {
	BaseModel
	FundID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CallDate    time.Time       `gorm:"not null;index"`
	CallType    string          `gorm:"type:varchar(100);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CapitalCallModel) TableName() string {
	return "capital_calls"
}

// ToDomain converts the persistence model to a domain CapitalCall entity.
func (m *CapitalCallModel) ToDomain() fund.CapitalCall {
	return fund.CapitalCall{
		BaseEntity:  m.BaseModel.ToDomain(),
		FundID:      m.FundID,
		CallDate:    m.CallDate,
		CallType:    m.CallType,
		Amount:      m.Amount,
		Description: m.Description,
	}
}

// CapitalCallModelFromDomain creates a new persistence model from a domain CapitalCall.
func CapitalCallModelFromDomain(c *fund.CapitalCall) *CapitalCallModel {
	m := &CapitalCallModel{}
	m.FromDomainBaseEntity(c.BaseEntity)
	m.FundID = c.FundID
	m.CallDate = c.CallDate
	m.CallType = c.CallType
	m.Amount = c.Amount
	m.Description = c.Description
	return m
}

// DistributionModel is the persistence model for distribution records.
type DistributionModel struct {
	BaseModel
	FundID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	DistributionDate time.Time       `gorm:"not null;index"`
	DistributionType string          `gorm:"type:varchar(100);not null"`
	IsRecallable     bool            `gorm:"not null;default:false"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DistributionModel) TableName() string {
	return "distributions"
}

// ToDomain converts the persistence model to a domain Distribution entity.
func (m *DistributionModel) ToDomain() fund.Distribution {
	return fund.Distribution{
		BaseEntity:       m.BaseModel.ToDomain(),
		FundID:           m.FundID,
		DistributionDate: m.DistributionDate,
		DistributionType: m.DistributionType,
		IsRecallable:     m.IsRecallable,
		Amount:           m.Amount,
		Description:      m.Description,
	}
}

// DistributionModelFromDomain creates a new persistence model from a domain Distribution.
func DistributionModelFromDomain(d *fund.Distribution) *DistributionModel {
	m := &DistributionModel{}
	m.FromDomainBaseEntity(d.BaseEntity)
	m.FundID = d.FundID
	m.DistributionDate = d.DistributionDate
	m.DistributionType = d.DistributionType
	m.IsRecallable = d.IsRecallable
	m.Amount = d.Amount
	m.Description = d.Description
	return m
}

// AdjustmentModel is the persistence model for adjustment records.
// Amount is stored with its reported sign.
type AdjustmentModel struct {
	BaseModel
	FundID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AdjustmentDate           time.Time       `gorm:"not null;index"`
	AdjustmentType           string          `gorm:"type:varchar(100);not null"`
	Category                 string          `gorm:"type:varchar(100);not null"`
	Amount                   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsContributionAdjustment bool            `gorm:"not null;default:false"`
	Description              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AdjustmentModel) TableName() string {
	return "adjustments"
}

// ToDomain converts the persistence model to a domain Adjustment entity.
func (m *AdjustmentModel) ToDomain() fund.Adjustment {
	return fund.Adjustment{
		BaseEntity:               m.BaseModel.ToDomain(),
		FundID:                   m.FundID,
		AdjustmentDate:           m.AdjustmentDate,
		AdjustmentType:           m.AdjustmentType,
		Category:                 m.Category,
		Amount:                   m.Amount,
		IsContributionAdjustment: m.IsContributionAdjustment,
		Description:              m.Description,
	}
}

// AdjustmentModelFromDomain creates a new persistence model from a domain Adjustment.
func AdjustmentModelFromDomain(a *fund.Adjustment) *AdjustmentModel {
	m := &AdjustmentModel{}
	m.FromDomainBaseEntity(a.BaseEntity)
	m.FundID = a.FundID
	m.AdjustmentDate = a.AdjustmentDate
	m.AdjustmentType = a.AdjustmentType
	m.Category = a.Category
	m.Amount = a.Amount
	m.IsContributionAdjustment = a.IsContributionAdjustment
	m.Description = a.Description
	return m
}
