package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// GormBrandRepository implements catalog.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// Create inserts a new brand
func (r *GormBrandRepository) Create(ctx context.Context, brand *catalog.Brand) error {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing brand
func (r *GormBrandRepository) Update(ctx context.Context, brand *catalog.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Delete removes a brand by ID
func (r *GormBrandRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&catalog.Brand{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a brand by ID within the company
func (r *GormBrandRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindBySequenceID finds a brand by its tenant-facing integer id
func (r *GormBrandRepository) FindBySequenceID(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND sequence_id = ?", companyID, sequenceID).
		First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindAll lists a company's brands with pagination
func (r *GormBrandRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalog.Brand, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Brand{}).Where("company_id = ?", companyID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name_ar LIKE ? OR name_en LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var brands []catalog.Brand
	if err := applyPagination(query, filter).Find(&brands).Error; err != nil {
		return nil, 0, err
	}
	return brands, total, nil
}

// ExistsByName checks for a same-named brand within the company
func (r *GormBrandRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name catalog.LocalizedText) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Brand{}).
		Where("company_id = ? AND name_ar = ?", companyID, name.AR)
	if name.EN != "" {
		query = r.db.WithContext(ctx).Model(&catalog.Brand{}).
			Where("company_id = ? AND (name_ar = ? OR name_en = ?)", companyID, name.AR, name.EN)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
