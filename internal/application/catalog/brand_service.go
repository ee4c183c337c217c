package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// BrandService handles brand operations; same rules as categories,
// including the delete guard against referencing products.
type BrandService struct {
	brandRepo   catalog.BrandRepository
	productRepo catalog.ProductRepository
	sequences   shared.SequenceRepository
	storage     ObjectStorageService
	logger      *zap.Logger
}

// NewBrandService creates a new BrandService
func NewBrandService(
	brandRepo catalog.BrandRepository,
	productRepo catalog.ProductRepository,
	sequences shared.SequenceRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *BrandService {
	return &BrandService{
		brandRepo:   brandRepo,
		productRepo: productRepo,
		sequences:   sequences,
		storage:     storage,
		logger:      logger,
	}
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, companyID uuid.UUID, req CreateCategoryRequest) (*BrandResponse, error) {
	exists, err := s.brandRepo.ExistsByName(ctx, companyID, req.Name.toDomain())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("BRAND_EXISTS", "A brand with this name already exists")
	}

	seq, err := s.sequences.Next(ctx, shared.SequenceBrand)
	if err != nil {
		return nil, err
	}

	brand, err := catalog.NewBrand(companyID, seq, req.Name.toDomain())
	if err != nil {
		return nil, err
	}

	if req.Image != nil {
		key := imageKey(companyID, "brands", *req.Image)
		url, err := s.storage.Upload(ctx, key, req.Image.Data, req.Image.ContentType)
		if err != nil {
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store the brand image")
		}
		brand.SetImage(url, key)
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}

	s.logger.Info("Brand created",
		zap.String("company_id", companyID.String()),
		zap.Int64("sequence_id", seq),
	)
	return ToBrandResponse(brand), nil
}

// Get returns one brand by its tenant-facing id
func (s *BrandService) Get(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}
	return ToBrandResponse(brand), nil
}

// List returns the company's brands, paginated
func (s *BrandService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[BrandResponse], error) {
	brands, total, err := s.brandRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BrandResponse, len(brands))
	for i := range brands {
		items[i] = *ToBrandResponse(&brands[i])
	}
	page := shared.NewPaginated(items, total, filter)
	return &page, nil
}

// Update renames a brand and/or replaces its image
func (s *BrandService) Update(ctx context.Context, companyID uuid.UUID, sequenceID int64, req UpdateCategoryRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		exists, err := s.brandRepo.ExistsByName(ctx, companyID, req.Name.toDomain())
		if err != nil {
			return nil, err
		}
		if exists && !sameLocalized(brand.Name, req.Name.toDomain()) {
			return nil, shared.NewDomainError("BRAND_EXISTS", "A brand with this name already exists")
		}
		if err := brand.Rename(req.Name.toDomain()); err != nil {
			return nil, err
		}
	}

	if req.Image != nil {
		oldKey := brand.ImageKey
		key := imageKey(companyID, "brands", *req.Image)
		url, err := s.storage.Upload(ctx, key, req.Image.Data, req.Image.ContentType)
		if err != nil {
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store the brand image")
		}
		brand.SetImage(url, key)
		deleteStoredImage(ctx, s.storage, s.logger, oldKey)
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, err
	}
	return ToBrandResponse(brand), nil
}

// Delete removes a brand unless products still reference it
func (s *BrandService) Delete(ctx context.Context, companyID uuid.UUID, sequenceID int64) error {
	brand, err := s.brandRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return err
	}

	count, err := s.productRepo.CountByBrand(ctx, companyID, brand.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("BRAND_IN_USE", "Cannot delete a brand that still has products")
	}

	if err := s.brandRepo.Delete(ctx, companyID, brand.ID); err != nil {
		return err
	}
	deleteStoredImage(ctx, s.storage, s.logger, brand.ImageKey)

	s.logger.Info("Brand deleted",
		zap.String("company_id", companyID.String()),
		zap.Int64("sequence_id", sequenceID),
	)
	return nil
}

// BulkDelete deletes what it can and reports what was blocked
func (s *BrandService) BulkDelete(ctx context.Context, companyID uuid.UUID, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	result := &BulkDeleteResult{Deleted: []int64{}, Blocked: []int64{}}
	for _, seq := range req.SequenceIDs {
		err := s.Delete(ctx, companyID, seq)
		switch {
		case err == nil:
			result.Deleted = append(result.Deleted, seq)
		case isBlockingError(err):
			result.Blocked = append(result.Blocked, seq)
		default:
			return nil, err
		}
	}
	return result, nil
}
