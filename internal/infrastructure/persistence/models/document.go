package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundsight/backend/internal/domain/document"
)

// DocumentModel is the persistence model for the Document aggregate root.
// Extraction stats are denormalized into columns so list views never need
// a join.
type DocumentModel struct {
	BaseModel
	FundID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Filename      string          `gorm:"type:varchar(500);not null"`
	Status        document.Status `gorm:"type:varchar(20);not null;default:'pending';index"`
	ErrorMessage  string          `gorm:"type:text"`
	ProcessedAt   *time.Time
	TablesFound   int `gorm:"not null;default:0"`
	UnknownTables int `gorm:"not null;default:0"`
	CapitalCalls  int `gorm:"not null;default:0"`
	Distributions int `gorm:"not null;default:0"`
	Adjustments   int `gorm:"not null;default:0"`
	RejectedRows  int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *document.Document {
	return &document.Document{
		BaseEntity:   m.BaseModel.ToDomain(),
		FundID:       m.FundID,
		Filename:     m.Filename,
		Status:       m.Status,
		ErrorMessage: m.ErrorMessage,
		ProcessedAt:  m.ProcessedAt,
		Stats: document.Stats{
			TablesFound:   m.TablesFound,
			UnknownTables: m.UnknownTables,
			CapitalCalls:  m.CapitalCalls,
			Distributions: m.Distributions,
			Adjustments:   m.Adjustments,
			RejectedRows:  m.RejectedRows,
		},
	}
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.FundID = d.FundID
	m.Filename = d.Filename
	m.Status = d.Status
	m.ErrorMessage = d.ErrorMessage
	m.ProcessedAt = d.ProcessedAt
	m.TablesFound = d.Stats.TablesFound
	m.UnknownTables = d.Stats.UnknownTables
	m.CapitalCalls = d.Stats.CapitalCalls
	m.Distributions = d.Stats.Distributions
	m.Adjustments = d.Stats.Adjustments
	m.RejectedRows = d.Stats.RejectedRows
}

// DocumentModelFromDomain creates a new persistence model from a domain Document.
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}
