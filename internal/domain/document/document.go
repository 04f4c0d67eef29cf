package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fundsight/backend/internal/domain/shared"
)

// Status tracks a document through its processing lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Stats summarizes what ingestion extracted from a document
type Stats struct {
	TablesFound   int `json:"tables_found"`
	UnknownTables int `json:"unknown_tables"`
	CapitalCalls  int `json:"capital_calls"`
	Distributions int `json:"distributions"`
	Adjustments   int `json:"adjustments"`
	RejectedRows  int `json:"rejected_rows"`
}

// Document is the aggregate for an uploaded fund report
type Document struct {
	shared.BaseEntity
	FundID       uuid.UUID
	Filename     string
	Status       Status
	ErrorMessage string
	ProcessedAt  *time.Time
	Stats        Stats
}

// NewDocument registers an uploaded report for a fund
func NewDocument(fundID uuid.UUID, filename string) (*Document, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUND_ID", "Fund ID is required")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename cannot be empty")
	}

	return &Document{
		BaseEntity: shared.NewBaseEntity(),
		FundID:     fundID,
		Filename:   filename,
		Status:     StatusPending,
	}, nil
}

// StartProcessing transitions the document into the processing state
func (d *Document) StartProcessing() error {
	if d.Status != StatusPending && d.Status != StatusFailed {
		return shared.ErrInvalidState
	}
	d.Status = StatusProcessing
	d.ErrorMessage = ""
	d.Touch()
	return nil
}

// Complete records a successful run together with its extraction stats
func (d *Document) Complete(stats Stats) error {
	if d.Status != StatusProcessing {
		return shared.ErrInvalidState
	}
	now := time.Now()
	d.Status = StatusCompleted
	d.Stats = stats
	d.ProcessedAt = &now
	d.Touch()
	return nil
}

// Fail records a failed run with the reason
func (d *Document) Fail(reason string) error {
	if d.Status != StatusProcessing {
		return shared.ErrInvalidState
	}
	now := time.Now()
	d.Status = StatusFailed
	d.ErrorMessage = reason
	d.ProcessedAt = &now
	d.Touch()
	return nil
}

// Repository provides persistence for document aggregates
type Repository interface {
	shared.Repository[Document]
	FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[Document], error)
}
