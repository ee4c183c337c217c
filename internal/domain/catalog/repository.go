package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create inserts a new category
	Create(ctx context.Context, category *Category) error

	// Update persists changes to an existing category
	Update(ctx context.Context, category *Category) error

	// Delete removes a category by ID
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	// FindByID finds a category by ID within the company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Category, error)

	// FindBySequenceID finds a category by its tenant-facing integer id
	FindBySequenceID(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*Category, error)

	// FindAll lists a company's categories with pagination
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Category, int64, error)

	// ExistsByName checks for a same-named category within the company
	ExistsByName(ctx context.Context, companyID uuid.UUID, name LocalizedText) (bool, error)
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	// Create inserts a new brand
	Create(ctx context.Context, brand *Brand) error

	// Update persists changes to an existing brand
	Update(ctx context.Context, brand *Brand) error

	// Delete removes a brand by ID
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	// FindByID finds a brand by ID within the company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Brand, error)

	// FindBySequenceID finds a brand by its tenant-facing integer id
	FindBySequenceID(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*Brand, error)

	// FindAll lists a company's brands with pagination
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Brand, int64, error)

	// ExistsByName checks for a same-named brand within the company
	ExistsByName(ctx context.Context, companyID uuid.UUID, name LocalizedText) (bool, error)
}

// ProductFilter narrows product listings beyond the generic filter
type ProductFilter struct {
	shared.Filter
	CategorySequenceID int64 // 0 means all categories
	PublishedOnly      bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update persists changes to an existing product
	Update(ctx context.Context, product *Product) error

	// Delete removes a product by ID
	Delete(ctx context.Context, companyID, id uuid.UUID) error

	// FindByID finds a product by ID within the company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Product, error)

	// FindBySequenceID finds a product by its tenant-facing integer id
	FindBySequenceID(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*Product, error)

	// FindAll lists a company's products with pagination, search and filters
	FindAll(ctx context.Context, companyID uuid.UUID, filter ProductFilter) ([]Product, int64, error)

	// ExistsByBarcode checks the global barcode index
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)

	// CountByCategory counts a company's products referencing the category
	CountByCategory(ctx context.Context, companyID, categoryID uuid.UUID) (int64, error)

	// CountByBrand counts a company's products referencing the brand
	CountByBrand(ctx context.Context, companyID, brandID uuid.UUID) (int64, error)

	// ReplaceGallery swaps the product's gallery rows
	ReplaceGallery(ctx context.Context, product *Product, images []ProductImage) error
}
