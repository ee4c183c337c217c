package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a new product with its gallery rows
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).
		Omit("Gallery").
		Save(product).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes a product by ID; gallery rows cascade
func (r *GormProductRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&catalog.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a product by ID within the company
func (r *GormProductRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Gallery").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySequenceID finds a product by its tenant-facing integer id
func (r *GormProductRepository) FindBySequenceID(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Gallery").
		Where("company_id = ? AND sequence_id = ?", companyID, sequenceID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll lists a company's products with pagination, search and filters.
// Search matches either name language or the barcode; the category filter
// goes through the category's sequence id, which is what clients hold.
func (r *GormProductRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("products.company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name_ar LIKE ? OR name_en LIKE ? OR barcode LIKE ?", pattern, pattern, pattern)
	}
	if filter.CategorySequenceID > 0 {
		query = query.Where(
			"category_id IN (?)",
			r.db.Model(&catalog.Category{}).Select("id").
				Where("company_id = ? AND sequence_id = ?", companyID, filter.CategorySequenceID),
		)
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	if err := applyPagination(query, filter.Filter).Preload("Gallery").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ExistsByBarcode checks the global barcode index
func (r *GormProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	if barcode == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("barcode = ?", barcode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByCategory counts a company's products referencing the category
func (r *GormProductRepository) CountByCategory(ctx context.Context, companyID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("company_id = ? AND category_id = ?", companyID, categoryID).
		Count(&count).Error
	return count, err
}

// CountByBrand counts a company's products referencing the brand
func (r *GormProductRepository) CountByBrand(ctx context.Context, companyID, brandID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("company_id = ? AND brand_id = ?", companyID, brandID).
		Count(&count).Error
	return count, err
}

// ReplaceGallery swaps the product's gallery rows in one transaction
func (r *GormProductRepository) ReplaceGallery(ctx context.Context, product *catalog.Product, images []catalog.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.ProductImage{}).Error; err != nil {
			return err
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		product.Gallery = images
		return nil
	})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
