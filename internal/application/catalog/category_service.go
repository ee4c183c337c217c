package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// CategoryService handles category operations for one tenant at a time
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	sequences    shared.SequenceRepository
	storage      ObjectStorageService
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	sequences shared.SequenceRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		sequences:    sequences,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, companyID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, companyID, req.Name.toDomain())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CATEGORY_EXISTS", "A category with this name already exists")
	}

	seq, err := s.sequences.Next(ctx, shared.SequenceCategory)
	if err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(companyID, seq, req.Name.toDomain())
	if err != nil {
		return nil, err
	}

	if req.Image != nil {
		key := imageKey(companyID, "categories", *req.Image)
		url, err := s.storage.Upload(ctx, key, req.Image.Data, req.Image.ContentType)
		if err != nil {
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store the category image")
		}
		category.SetImage(url, key)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created",
		zap.String("company_id", companyID.String()),
		zap.Int64("sequence_id", seq),
	)
	return ToCategoryResponse(category), nil
}

// Get returns one category by its tenant-facing id
func (s *CategoryService) Get(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// List returns the company's categories, paginated
func (s *CategoryService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[CategoryResponse], error) {
	categories, total, err := s.categoryRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = *ToCategoryResponse(&categories[i])
	}
	page := shared.NewPaginated(items, total, filter)
	return &page, nil
}

// Update renames a category and/or replaces its image
func (s *CategoryService) Update(ctx context.Context, companyID uuid.UUID, sequenceID int64, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		exists, err := s.categoryRepo.ExistsByName(ctx, companyID, req.Name.toDomain())
		if err != nil {
			return nil, err
		}
		if exists && !sameLocalized(category.Name, req.Name.toDomain()) {
			return nil, shared.NewDomainError("CATEGORY_EXISTS", "A category with this name already exists")
		}
		if err := category.Rename(req.Name.toDomain()); err != nil {
			return nil, err
		}
	}

	if req.Image != nil {
		oldKey := category.ImageKey
		key := imageKey(companyID, "categories", *req.Image)
		url, err := s.storage.Upload(ctx, key, req.Image.Data, req.Image.ContentType)
		if err != nil {
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store the category image")
		}
		category.SetImage(url, key)
		deleteStoredImage(ctx, s.storage, s.logger, oldKey)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// Delete removes a category unless products still reference it
func (s *CategoryService) Delete(ctx context.Context, companyID uuid.UUID, sequenceID int64) error {
	category, err := s.categoryRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return err
	}

	count, err := s.productRepo.CountByCategory(ctx, companyID, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Cannot delete a category that still has products")
	}

	if err := s.categoryRepo.Delete(ctx, companyID, category.ID); err != nil {
		return err
	}
	deleteStoredImage(ctx, s.storage, s.logger, category.ImageKey)

	s.logger.Info("Category deleted",
		zap.String("company_id", companyID.String()),
		zap.Int64("sequence_id", sequenceID),
	)
	return nil
}

// BulkDelete deletes what it can and reports what was blocked. Missing
// ids count as blocked rather than failing the whole batch.
func (s *CategoryService) BulkDelete(ctx context.Context, companyID uuid.UUID, req BulkDeleteRequest) (*BulkDeleteResult, error) {
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

// isBlockingError reports whether a delete failure should hold back just
// that item instead of aborting the batch.
func isBlockingError(err error) bool {
	if errors.Is(err, shared.ErrNotFound) {
		return true
	}
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) &&
		(domainErr.Code == "CATEGORY_IN_USE" || domainErr.Code == "BRAND_IN_USE" || domainErr.Code == "NOT_FOUND")
}

func sameLocalized(a, b catalog.LocalizedText) bool {
	return a.AR == b.AR && a.EN == b.EN
}
