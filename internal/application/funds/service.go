package funds

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fundsight/backend/internal/domain/document"
	"github.com/fundsight/backend/internal/domain/fund"
	"github.com/fundsight/backend/internal/domain/shared"
)

// Service manages fund records and their transaction and document views
type Service struct {
	funds        fund.Repository
	transactions fund.TransactionRepository
	documents    document.Repository
	logger       *zap.Logger
}

// NewService creates a fund management service
func NewService(funds fund.Repository, transactions fund.TransactionRepository, documents document.Repository, logger *zap.Logger) *Service {
	return &Service{
		funds:        funds,
		transactions: transactions,
		documents:    documents,
		logger:       logger.Named("funds"),
	}
}

// CreateFund registers a new fund. Fund names are unique.
func (s *Service) CreateFund(ctx context.Context, input CreateFundInput) (*FundDTO, error) {
	if existing, err := s.funds.FindByName(ctx, input.Name); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	f, err := fund.NewFund(input.Name, input.GPName, input.FundType, input.VintageYear)
	if err != nil {
		return nil, err
	}
	if input.NAV != nil {
		nav, err := decimal.NewFromString(*input.NAV)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_NAV", "NAV must be a decimal number")
		}
		if err := f.SetNAV(nav); err != nil {
			return nil, err
		}
	}

	if err := s.funds.Save(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("fund created", zap.String("fund_id", f.ID.String()), zap.String("name", f.Name))

	dto := toFundDTO(f)
	return &dto, nil
}

// GetFund returns one fund by id
func (s *Service) GetFund(ctx context.Context, id uuid.UUID) (*FundDTO, error) {
	f, err := s.funds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toFundDTO(f)
	return &dto, nil
}

// ListFunds returns a page of funds
func (s *Service) ListFunds(ctx context.Context, filter shared.Filter) (shared.Paginated[FundDTO], error) {
	items, err := s.funds.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[FundDTO]{}, err
	}
	total, err := s.funds.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[FundDTO]{}, err
	}

	dtos := make([]FundDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toFundDTO(&items[i]))
	}
	return shared.NewPaginated(dtos, total, filter.Page, filter.PageSize), nil
}

// UpdateFund replaces a fund's descriptive fields and NAV
func (s *Service) UpdateFund(ctx context.Context, id uuid.UUID, input UpdateFundInput) (*FundDTO, error) {
	f, err := s.funds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.Update(input.Name, input.GPName, input.FundType, input.VintageYear); err != nil {
		return nil, err
	}
	if input.NAV != nil {
		nav, err := decimal.NewFromString(*input.NAV)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_NAV", "NAV must be a decimal number")
		}
		if err := f.SetNAV(nav); err != nil {
			return nil, err
		}
	}

	if err := s.funds.Save(ctx, f); err != nil {
		return nil, err
	}
	dto := toFundDTO(f)
	return &dto, nil
}

// DeleteFund removes a fund and all of its transaction records
func (s *Service) DeleteFund(ctx context.Context, id uuid.UUID) error {
	if _, err := s.funds.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.transactions.DeleteByFund(ctx, id); err != nil {
		return err
	}
	if err := s.funds.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("fund deleted", zap.String("fund_id", id.String()))
	return nil
}

// ListCapitalCalls returns a page of the fund's capital calls
func (s *Service) ListCapitalCalls(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[CapitalCallDTO], error) {
	if _, err := s.funds.FindByID(ctx, fundID); err != nil {
		return shared.Paginated[CapitalCallDTO]{}, err
	}
	page, err := s.transactions.ListCapitalCalls(ctx, fundID, filter)
	if err != nil {
		return shared.Paginated[CapitalCallDTO]{}, err
	}
	dtos := make([]CapitalCallDTO, 0, len(page.Items))
	for _, item := range page.Items {
		dtos = append(dtos, toCapitalCallDTO(item))
	}
	return shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize), nil
}

// ListDistributions returns a page of the fund's distributions
func (s *Service) ListDistributions(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[DistributionDTO], error) {
	if _, err := s.funds.FindByID(ctx, fundID); err != nil {
		return shared.Paginated[DistributionDTO]{}, err
	}
	page, err := s.transactions.ListDistributions(ctx, fundID, filter)
	if err != nil {
		return shared.Paginated[DistributionDTO]{}, err
	}
	dtos := make([]DistributionDTO, 0, len(page.Items))
	for _, item := range page.Items {
		dtos = append(dtos, toDistributionDTO(item))
	}
	return shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize), nil
}

// ListAdjustments returns a page of the fund's adjustments
func (s *Service) ListAdjustments(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[AdjustmentDTO], error) {
	if _, err := s.funds.FindByID(ctx, fundID); err != nil {
		return shared.Paginated[AdjustmentDTO]{}, err
	}
	page, err := s.transactions.ListAdjustments(ctx, fundID, filter)
	if err != nil {
		return shared.Paginated[AdjustmentDTO]{}, err
	}
	dtos := make([]AdjustmentDTO, 0, len(page.Items))
	for _, item := range page.Items {
		dtos = append(dtos, toAdjustmentDTO(item))
	}
	return shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize), nil
}

// RegisterDocument records an uploaded report for later processing
func (s *Service) RegisterDocument(ctx context.Context, fundID uuid.UUID, filename string) (*DocumentDTO, error) {
	if _, err := s.funds.FindByID(ctx, fundID); err != nil {
		return nil, err
	}
	doc, err := document.NewDocument(fundID, filename)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}
	dto := toDocumentDTO(doc)
	return &dto, nil
}

// GetDocument returns one document by id
func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDocumentDTO(doc)
	return &dto, nil
}

// ListDocuments returns a page of the fund's documents
func (s *Service) ListDocuments(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[DocumentDTO], error) {
	if _, err := s.funds.FindByID(ctx, fundID); err != nil {
		return shared.Paginated[DocumentDTO]{}, err
	}
	page, err := s.documents.FindByFund(ctx, fundID, filter)
	if err != nil {
		return shared.Paginated[DocumentDTO]{}, err
	}
	dtos := make([]DocumentDTO, 0, len(page.Items))
	for i := range page.Items {
		dtos = append(dtos, toDocumentDTO(&page.Items[i]))
	}
	return shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize), nil
}
