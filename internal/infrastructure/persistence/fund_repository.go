package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundsight/backend/internal/domain/fund"
	"github.com/fundsight/backend/internal/domain/shared"
	"github.com/fundsight/backend/internal/infrastructure/persistence/models"
)

// GormFundRepository implements fund.Repository using GORM
type GormFundRepository struct {
	db *gorm.DB
}

// NewGormFundRepository creates a new GORM-based fund repository
func NewGormFundRepository(db *gorm.DB) fund.Repository {
	return &GormFundRepository{db: db}
}

// FindByID finds a fund by ID
func (r *GormFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	var model models.FundModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fund: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a fund by its unique name
func (r *GormFundRepository) FindByName(ctx context.Context, name string) (*fund.Fund, error) {
	var model models.FundModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fund by name: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns funds matching the filter
func (r *GormFundRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fund.Fund, error) {
	var modelList []models.FundModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FundModel{}), filter)
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to find funds: %w", err)
	}

	funds := make([]fund.Fund, 0, len(modelList))
	for i := range modelList {
		funds = append(funds, *modelList[i].ToDomain())
	}
	return funds, nil
}

// Save creates or updates a fund
func (r *GormFundRepository) Save(ctx context.Context, f *fund.Fund) error {
	model := models.FundModelFromDomain(f)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save fund: %w", err)
	}
	return nil
}

// Delete removes a fund by ID
func (r *GormFundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FundModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete fund: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of funds matching the filter
func (r *GormFundRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.FundModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count funds: %w", err)
	}
	return count, nil
}

func (r *GormFundRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR gp_name LIKE ?", pattern, pattern)
	}
	if fundType, ok := filter.Filters["fund_type"].(string); ok && fundType != "" {
		query = query.Where("fund_type = ?", fundType)
	}
	if vintageYear, ok := filter.Filters["vintage_year"].(int); ok && vintageYear != 0 {
		query = query.Where("vintage_year = ?", vintageYear)
	}
	return query
}

func (r *GormFundRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, FundSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Limit(filter.PageSize).Offset(offset)
	}
	return query
}
