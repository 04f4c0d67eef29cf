package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundsight/backend/internal/domain/document"
	"github.com/fundsight/backend/internal/domain/shared"
	"github.com/fundsight/backend/internal/infrastructure/persistence/models"
)

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GORM-based document repository
func NewGormDocumentRepository(db *gorm.DB) document.Repository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll returns documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Document, error) {
	var modelList []models.DocumentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DocumentModel{}), filter)
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	documents := make([]document.Document, 0, len(modelList))
	for i := range modelList {
		documents = append(documents, *modelList[i].ToDomain())
	}
	return documents, nil
}

// FindByFund returns a page of the fund's documents
func (r *GormDocumentRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[document.Document], error) {
	base := r.db.WithContext(ctx).Model(&models.DocumentModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[document.Document]{}, fmt.Errorf("failed to count documents: %w", err)
	}

	var modelList []models.DocumentModel
	query := applyPagination(base, filter, DocumentSortFields, "created_at")
	if err := query.Find(&modelList).Error; err != nil {
		return shared.Paginated[document.Document]{}, fmt.Errorf("failed to list documents: %w", err)
	}

	documents := make([]document.Document, 0, len(modelList))
	for i := range modelList {
		documents = append(documents, *modelList[i].ToDomain())
	}
	return shared.NewPaginated(documents, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	model := models.DocumentModelFromDomain(d)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Delete removes a document by ID
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.DocumentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

func (r *GormDocumentRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if fundID, ok := filter.Filters["fund_id"].(uuid.UUID); ok && fundID != uuid.Nil {
		query = query.Where("fund_id = ?", fundID)
	}
	if filter.Search != "" {
		query = query.Where("filename LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)
	return applyPagination(query, filter, DocumentSortFields, "created_at")
}
