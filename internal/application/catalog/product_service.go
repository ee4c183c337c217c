package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// ProductService handles product operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	sequences    shared.SequenceRepository
	storage      ObjectStorageService
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	sequences shared.SequenceRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		sequences:    sequences,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a product with its images
func (s *ProductService) Create(ctx context.Context, companyID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if barcode != "" {
		taken, err := s.productRepo.ExistsByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("BARCODE_TAKEN", "Another product already uses this barcode")
		}
	}

	category, err := s.categoryRepo.FindBySequenceID(ctx, companyID, req.CategorySequenceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
		}
		return nil, err
	}

	seq, err := s.sequences.Next(ctx, shared.SequenceProduct)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(companyID, seq, req.Name.toDomain(), req.PurchasePrice, category.ID)
	if err != nil {
		return nil, err
	}
	if desc := req.Description.toDomain(); !desc.IsZero() {
		product.SetDescription(desc)
	}
	if err := product.SetBarcode(barcode); err != nil {
		return nil, err
	}
	if err := applyTierInput(product, &product.PharmacyPrice, req.PharmacyPrice); err != nil {
		return nil, err
	}
	if err := applyTierInput(product, &product.PublicPrice, req.PublicPrice); err != nil {
		return nil, err
	}
	if err := applyTierInput(product, &product.TradePrice, req.TradePrice); err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		if err := product.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.BrandSequenceID != nil {
		brand, err := s.brandRepo.FindBySequenceID(ctx, companyID, *req.BrandSequenceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand does not exist")
			}
			return nil, err
		}
		product.SetBrand(&brand.ID)
	}
	if req.IsPublished != nil {
		product.SetPublished(*req.IsPublished)
	}

	if req.Image != nil {
		key := imageKey(companyID, "products", *req.Image)
		url, err := s.storage.Upload(ctx, key, req.Image.Data, req.Image.ContentType)
		if err != nil {
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store the product image")
		}
		product.SetImage(url, key)
	}

	gallery, err := s.uploadGallery(ctx, companyID, product.ID, req.Gallery)
	if err != nil {
		return nil, err
	}
	product.Gallery = gallery

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("BARCODE_TAKEN", "Another product already uses this barcode")
		}
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("company_id", companyID.String()),
		zap.Int64("sequence_id", seq),
		zap.String("slug", product.Slug),
	)
	return ToProductResponse(product), nil
}

// Get returns one product by its tenant-facing id
func (s *ProductService) Get(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns the company's products narrowed by the query
func (s *ProductService) List(ctx context.Context, companyID uuid.UUID, query ProductListQuery) (*shared.Paginated[ProductResponse], error) {
	filter := query.toFilter()
	products, total, err := s.productRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = *ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Filter)
	return &page, nil
}

// Update applies a partial update; only supplied fields are touched
func (s *ProductService) Update(ctx context.Context, companyID uuid.UUID, sequenceID int64, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(req.Name.toDomain()); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.SetDescription(req.Description.toDomain())
	}
	if req.Barcode != nil {
		barcode := strings.TrimSpace(*req.Barcode)
		if barcode != "" && barcode != product.Barcode {
			taken, err := s.productRepo.ExistsByBarcode(ctx, barcode)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, shared.NewDomainError("BARCODE_TAKEN", "Another product already uses this barcode")
			}
		}
		if err := product.SetBarcode(barcode); err != nil {
			return nil, err
		}
	}
	if req.PurchasePrice != nil {
		if err := product.SetPurchasePrice(*req.PurchasePrice); err != nil {
			return nil, err
		}
	}
	if err := applyTierInput(product, &product.PharmacyPrice, req.PharmacyPrice); err != nil {
		return nil, err
	}
	if err := applyTierInput(product, &product.PublicPrice, req.PublicPrice); err != nil {
		return nil, err
	}
	if err := applyTierInput(product, &product.TradePrice, req.TradePrice); err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		if err := product.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.CategorySequenceID != nil {
		category, err := s.categoryRepo.FindBySequenceID(ctx, companyID, *req.CategorySequenceID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
			}
			return nil, err
		}
		if err := product.SetCategory(category.ID); err != nil {
			return nil, err
		}
	}
	if req.BrandSequenceID != nil {
		// brandId 0 detaches the brand
		if *req.BrandSequenceID == 0 {
			product.SetBrand(nil)
		} else {
			brand, err := s.brandRepo.FindBySequenceID(ctx, companyID, *req.BrandSequenceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand does not exist")
				}
				return nil, err
			}
			product.SetBrand(&brand.ID)
		}
	}
	if req.IsPublished != nil {
		product.SetPublished(*req.IsPublished)
	}

	if req.Image != nil {
		oldKey := product.ImageKey
		key := imageKey(companyID, "products", *req.Image)
		url, err := s.storage.Upload(ctx, key, req.Image.Data, req.Image.ContentType)
		if err != nil {
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store the product image")
		}
		product.SetImage(url, key)
		deleteStoredImage(ctx, s.storage, s.logger, oldKey)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("BARCODE_TAKEN", "Another product already uses this barcode")
		}
		return nil, err
	}

	if req.ReplaceGallery {
		oldKeys := make([]string, len(product.Gallery))
		for i, img := range product.Gallery {
			oldKeys[i] = img.Key
		}
		gallery, err := s.uploadGallery(ctx, companyID, product.ID, req.Gallery)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceGallery(ctx, product, gallery); err != nil {
			return nil, err
		}
		for _, key := range oldKeys {
			deleteStoredImage(ctx, s.storage, s.logger, key)
		}
	}

	return ToProductResponse(product), nil
}

// Delete removes a product and its stored images
func (s *ProductService) Delete(ctx context.Context, companyID uuid.UUID, sequenceID int64) error {
	product, err := s.productRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, companyID, product.ID); err != nil {
		return err
	}
	deleteStoredImage(ctx, s.storage, s.logger, product.ImageKey)
	for _, img := range product.Gallery {
		deleteStoredImage(ctx, s.storage, s.logger, img.Key)
	}

	s.logger.Info("Product deleted",
		zap.String("company_id", companyID.String()),
		zap.Int64("sequence_id", sequenceID),
	)
	return nil
}

// BulkDelete deletes what it can and reports what was blocked
func (s *ProductService) BulkDelete(ctx context.Context, companyID uuid.UUID, req BulkDeleteRequest) (*BulkDeleteResult, error) {
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

// Duplicate clones a product as an unpublished draft under a new
// sequence id. The barcode is cleared and stock is zeroed; the copy
// keeps the source's images until it gets its own.
func (s *ProductService) Duplicate(ctx context.Context, companyID uuid.UUID, sequenceID int64) (*ProductResponse, error) {
	source, err := s.productRepo.FindBySequenceID(ctx, companyID, sequenceID)
	if err != nil {
		return nil, err
	}

	seq, err := s.sequences.Next(ctx, shared.SequenceProduct)
	if err != nil {
		return nil, err
	}

	dup := source.Duplicate(seq)
	if err := s.productRepo.Create(ctx, dup); err != nil {
		return nil, err
	}

	s.logger.Info("Product duplicated",
		zap.String("company_id", companyID.String()),
		zap.Int64("source_sequence_id", sequenceID),
		zap.Int64("sequence_id", seq),
	)
	return ToProductResponse(dup), nil
}

// uploadGallery stores gallery files and returns their image rows in
// upload order.
func (s *ProductService) uploadGallery(ctx context.Context, companyID, productID uuid.UUID, uploads []ImageUpload) ([]catalog.ProductImage, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	images := make([]catalog.ProductImage, 0, len(uploads))
	for i, upload := range uploads {
		key := imageKey(companyID, "products", upload)
		url, err := s.storage.Upload(ctx, key, upload.Data, upload.ContentType)
		if err != nil {
			for _, img := range images {
				deleteStoredImage(ctx, s.storage, s.logger, img.Key)
			}
			return nil, shared.NewDomainError("IMAGE_UPLOAD_FAILED", "Could not store a gallery image")
		}
		images = append(images, catalog.ProductImage{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  productID,
			URL:        url,
			Key:        key,
			SortOrder:  i,
		})
	}
	return images, nil
}

// applyTierInput applies one tier's input: an explicit price wins over a
// markup rate when both are supplied.
func applyTierInput(product *catalog.Product, tier *catalog.TierPrice, input *TierPriceInput) error {
	if input == nil {
		return nil
	}
	if input.Price != nil {
		return product.SetTierPrice(tier, *input.Price)
	}
	if input.Rate != nil {
		return product.SetTierRate(tier, *input.Rate)
	}
	return nil
}

func (q ProductListQuery) toFilter() catalog.ProductFilter {
	orderDir := strings.ToLower(strings.TrimSpace(q.OrderDir))
	if orderDir != "asc" {
		orderDir = "desc"
	}
	return catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			Search:   strings.TrimSpace(q.Search),
			OrderBy:  "created_at",
			OrderDir: orderDir,
		},
		CategorySequenceID: q.CategorySequenceID,
		PublishedOnly:      q.PublishedOnly,
	}
}
