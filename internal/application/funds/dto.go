package funds

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundsight/backend/internal/domain/document"
	"github.com/fundsight/backend/internal/domain/fund"
)

// CreateFundInput carries the fields needed to register a fund
type CreateFundInput struct {
	Name        string  `json:"name"`
	GPName      string  `json:"gp_name"`
	FundType    string  `json:"fund_type"`
	VintageYear int     `json:"vintage_year"`
	NAV         *string `json:"nav,omitempty"`
}

// UpdateFundInput carries the fields of a fund update
type UpdateFundInput struct {
	Name        string  `json:"name"`
	GPName      string  `json:"gp_name"`
	FundType    string  `json:"fund_type"`
	VintageYear int     `json:"vintage_year"`
	NAV         *string `json:"nav,omitempty"`
}

// FundDTO is the outward representation of a fund
type FundDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	GPName      string    `json:"gp_name"`
	FundType    string    `json:"fund_type"`
	VintageYear int       `json:"vintage_year"`
	NAV         *string   `json:"nav"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CapitalCallDTO is the outward representation of a capital call
type CapitalCallDTO struct {
	ID          uuid.UUID `json:"id"`
	FundID      uuid.UUID `json:"fund_id"`
	CallDate    string    `json:"call_date"`
	CallType    string    `json:"call_type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
}

// DistributionDTO is the outward representation of a distribution
type DistributionDTO struct {
	ID               uuid.UUID `json:"id"`
	FundID           uuid.UUID `json:"fund_id"`
	DistributionDate string    `json:"distribution_date"`
	DistributionType string    `json:"distribution_type"`
	IsRecallable     bool      `json:"is_recallable"`
	Amount           string    `json:"amount"`
	Description      string    `json:"description"`
}

// AdjustmentDTO is the outward representation of an adjustment
type AdjustmentDTO struct {
	ID                       uuid.UUID `json:"id"`
	FundID                   uuid.UUID `json:"fund_id"`
	AdjustmentDate           string    `json:"adjustment_date"`
	AdjustmentType           string    `json:"adjustment_type"`
	Category                 string    `json:"category"`
	Amount                   string    `json:"amount"`
	IsContributionAdjustment bool      `json:"is_contribution_adjustment"`
	Description              string    `json:"description"`
}

// DocumentDTO is the outward representation of a document
type DocumentDTO struct {
	ID           uuid.UUID       `json:"id"`
	FundID       uuid.UUID       `json:"fund_id"`
	Filename     string          `json:"filename"`
	Status       document.Status `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	Stats        document.Stats  `json:"stats"`
	CreatedAt    time.Time       `json:"created_at"`
}

const dateFormat = "2006-01-02"

func toFundDTO(f *fund.Fund) FundDTO {
	dto := FundDTO{
		ID:          f.ID,
		Name:        f.Name,
		GPName:      f.GPName,
		FundType:    f.FundType,
		VintageYear: f.VintageYear,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.NAV != nil {
		nav := f.NAV.StringFixed(2)
		dto.NAV = &nav
	}
	return dto
}

func toCapitalCallDTO(c fund.CapitalCall) CapitalCallDTO {
	return CapitalCallDTO{
		ID:          c.ID,
		FundID:      c.FundID,
		CallDate:    c.CallDate.Format(dateFormat),
		CallType:    c.CallType,
		Amount:      c.Amount.StringFixed(2),
		Description: c.Description,
	}
}

func toDistributionDTO(d fund.Distribution) DistributionDTO {
	return DistributionDTO{
		ID:               d.ID,
		FundID:           d.FundID,
		DistributionDate: d.DistributionDate.Format(dateFormat),
		DistributionType: d.DistributionType,
		IsRecallable:     d.IsRecallable,
		Amount:           d.Amount.StringFixed(2),
		Description:      d.Description,
	}
}

func toAdjustmentDTO(a fund.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:                       a.ID,
		FundID:                   a.FundID,
		AdjustmentDate:           a.AdjustmentDate.Format(dateFormat),
		AdjustmentType:           a.AdjustmentType,
		Category:                 a.Category,
		Amount:                   a.Amount.StringFixed(2),
		IsContributionAdjustment: a.IsContributionAdjustment,
		Description:              a.Description,
	}
}

func toDocumentDTO(d *document.Document) DocumentDTO {
	return DocumentDTO{
		ID:           d.ID,
		FundID:       d.FundID,
		Filename:     d.Filename,
		Status:       d.Status,
		ErrorMessage: d.ErrorMessage,
		ProcessedAt:  d.ProcessedAt,
		Stats:        d.Stats,
		CreatedAt:    d.CreatedAt,
	}
}
