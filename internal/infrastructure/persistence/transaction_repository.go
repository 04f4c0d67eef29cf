package persistence

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundsight/backend/internal/domain/fund"
	"github.com/fundsight/backend/internal/domain/shared"
	"github.com/fundsight/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements fund.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM-based transaction repository
func NewGormTransactionRepository(db *gorm.DB) fund.TransactionRepository {
	return &GormTransactionRepository{db: db}
}

// SaveCapitalCalls persists a batch of capital calls
func (r *GormTransactionRepository) SaveCapitalCalls(ctx context.Context, calls []fund.CapitalCall) error {
	if len(calls) == 0 {
		return nil
	}
	modelList := make([]models.CapitalCallModel, 0, len(calls))
	for i := range calls {
		modelList = append(modelList, *models.CapitalCallModelFromDomain(&calls[i]))
	}
	if err := r.db.WithContext(ctx).Create(&modelList).Error; err != nil {
		return fmt.Errorf("failed to save capital calls: %w", err)
	}
	return nil
}

// SaveDistributions persists a batch of distributions
func (r *GormTransactionRepository) SaveDistributions(ctx context.Context, distributions []fund.Distribution) error {
	if len(distributions) == 0 {
		return nil
	}
	modelList := make([]models.DistributionModel, 0, len(distributions))
	for i := range distributions {
		modelList = append(modelList, *models.DistributionModelFromDomain(&distributions[i]))
	}
	if err := r.db.WithContext(ctx).Create(&modelList).Error; err != nil {
		return fmt.Errorf("failed to save distributions: %w", err)
	}
	return nil
}

// SaveAdjustments persists a batch of adjustments
func (r *GormTransactionRepository) SaveAdjustments(ctx context.Context, adjustments []fund.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	modelList := make([]models.AdjustmentModel, 0, len(adjustments))
	for i := range adjustments {
		modelList = append(modelList, *models.AdjustmentModelFromDomain(&adjustments[i]))
	}
	if err := r.db.WithContext(ctx).Create(&modelList).Error; err != nil {
		return fmt.Errorf("failed to save adjustments: %w", err)
	}
	return nil
}

// CapitalCalls returns the fund's complete set of capital calls in date order
func (r *GormTransactionRepository) CapitalCalls(ctx context.Context, fundID uuid.UUID) ([]fund.CapitalCall, error) {
	var modelList []models.CapitalCallModel
	err := r.db.WithContext(ctx).
		Where("fund_id = ?", fundID).
		Order("call_date ASC, created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load capital calls: %w", err)
	}

	calls := make([]fund.CapitalCall, 0, len(modelList))
	for i := range modelList {
		calls = append(calls, modelList[i].ToDomain())
	}
	return calls, nil
}

// Distributions returns the fund's complete set of distributions in date order
func (r *GormTransactionRepository) Distributions(ctx context.Context, fundID uuid.UUID) ([]fund.Distribution, error) {
	var modelList []models.DistributionModel
	err := r.db.WithContext(ctx).
		Where("fund_id = ?", fundID).
		Order("distribution_date ASC, created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load distributions: %w", err)
	}

	distributions := make([]fund.Distribution, 0, len(modelList))
	for i := range modelList {
		distributions = append(distributions, modelList[i].ToDomain())
	}
	return distributions, nil
}

// Adjustments returns the fund's complete set of adjustments in date order
func (r *GormTransactionRepository) Adjustments(ctx context.Context, fundID uuid.UUID) ([]fund.Adjustment, error) {
	var modelList []models.AdjustmentModel
	err := r.db.WithContext(ctx).
		Where("fund_id = ?", fundID).
		Order("adjustment_date ASC, created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments: %w", err)
	}

	adjustments := make([]fund.Adjustment, 0, len(modelList))
	for i := range modelList {
		adjustments = append(adjustments, modelList[i].ToDomain())
	}
	return adjustments, nil
}

// ListCapitalCalls returns a page of the fund's capital calls
func (r *GormTransactionRepository) ListCapitalCalls(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[fund.CapitalCall], error) {
	base := r.db.WithContext(ctx).Model(&models.CapitalCallModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[fund.CapitalCall]{}, fmt.Errorf("failed to count capital calls: %w", err)
	}

	var modelList []models.CapitalCallModel
	query := applyPagination(base, filter, CapitalCallSortFields, "call_date")
	if err := query.Find(&modelList).Error; err != nil {
		return shared.Paginated[fund.CapitalCall]{}, fmt.Errorf("failed to list capital calls: %w", err)
	}

	calls := make([]fund.CapitalCall, 0, len(modelList))
	for i := range modelList {
		calls = append(calls, modelList[i].ToDomain())
	}
	return shared.NewPaginated(calls, total, filter.Page, filter.PageSize), nil
}

// ListDistributions returns a page of the fund's distributions
func (r *GormTransactionRepository) ListDistributions(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[fund.Distribution], error) {
	base := r.db.WithContext(ctx).Model(&models.DistributionModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[fund.Distribution]{}, fmt.Errorf("failed to count distributions: %w", err)
	}

	var modelList []models.DistributionModel
	query := applyPagination(base, filter, DistributionSortFields, "distribution_date")
	if err := query.Find(&modelList).Error; err != nil {
		return shared.Paginated[fund.Distribution]{}, fmt.Errorf("failed to list distributions: %w", err)
	}

	distributions := make([]fund.Distribution, 0, len(modelList))
	for i := range modelList {
		distributions = append(distributions, modelList[i].ToDomain())
	}
	return shared.NewPaginated(distributions, total, filter.Page, filter.PageSize), nil
}

// ListAdjustments returns a page of the fund's adjustments
func (r *GormTransactionRepository) ListAdjustments(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[fund.Adjustment], error) {
	base := r.db.WithContext(ctx).Model(&models.AdjustmentModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[fund.Adjustment]{}, fmt.Errorf("failed to count adjustments: %w", err)
	}

	var modelList []models.AdjustmentModel
	query := applyPagination(base, filter, AdjustmentSortFields, "adjustment_date")
	if err := query.Find(&modelList).Error; err != nil {
		return shared.Paginated[fund.Adjustment]{}, fmt.Errorf("failed to list adjustments: %w", err)
	}

	adjustments := make([]fund.Adjustment, 0, len(modelList))
	for i := range modelList {
		adjustments = append(adjustments, modelList[i].ToDomain())
	}
	return shared.NewPaginated(adjustments, total, filter.Page, filter.PageSize), nil
}

// DeleteByFund removes all transaction records belonging to a fund
func (r *GormTransactionRepository) DeleteByFund(ctx context.Context, fundID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CapitalCallModel{}, "fund_id = ?", fundID).Error; err != nil {
			return fmt.Errorf("failed to delete capital calls: %w", err)
		}
		if err := tx.Delete(&models.DistributionModel{}, "fund_id = ?", fundID).Error; err != nil {
			return fmt.Errorf("failed to delete distributions: %w", err)
		}
		if err := tx.Delete(&models.AdjustmentModel{}, "fund_id = ?", fundID).Error; err != nil {
			return fmt.Errorf("failed to delete adjustments: %w", err)
		}
		return nil
	})
}

type tableDigest struct {
	Count      int64
	MaxCreated sql.NullString
}

// Fingerprint returns a token derived from the row counts and latest insert
// times of the fund's three transaction tables. Any write to those tables
// changes the token, so cached metric results keyed on it go stale on their
// own. The timestamp is scanned as text to stay driver-agnostic.
func (r *GormTransactionRepository) Fingerprint(ctx context.Context, fundID uuid.UUID) (string, error) {
	digests := make([]tableDigest, 0, 3)
	for _, model := range []interface{}{
		&models.CapitalCallModel{},
		&models.DistributionModel{},
		&models.AdjustmentModel{},
	} {
		var digest tableDigest
		err := r.db.WithContext(ctx).
			Model(model).
			Select("COUNT(*) as count, MAX(created_at) as max_created").
			Where("fund_id = ?", fundID).
			Scan(&digest).Error
		if err != nil {
			return "", fmt.Errorf("failed to fingerprint transactions: %w", err)
		}
		digests = append(digests, digest)
	}

	h := sha256.New()
	for _, digest := range digests {
		fmt.Fprintf(h, "%d:%s;", digest.Count, digest.MaxCreated.String)
	}
	return hex.EncodeToString(h.Sum(nil)[:16]), nil
}

func applyPagination(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
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
