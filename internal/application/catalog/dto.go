package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifemedical/backend/internal/domain/catalog"
)

// LocalizedInput carries a bilingual name or description from the API.
// Arabic is the primary language, English is optional.
type LocalizedInput struct {
	AR string `json:"ar" form:"ar"`
	EN string `json:"en" form:"en"`
}

func (l LocalizedInput) toDomain() catalog.LocalizedText {
	return catalog.LocalizedText{AR: l.AR, EN: l.EN}
}

// ImageUpload is one decoded multipart file
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateCategoryRequest creates a category
type CreateCategoryRequest struct {
	Name  LocalizedInput `json:"name" binding:"required"`
	Image *ImageUpload   `json:"-"`
}

// UpdateCategoryRequest partially updates a category
type UpdateCategoryRequest struct {
	Name  *LocalizedInput `json:"name"`
	Image *ImageUpload    `json:"-"`
}

// CategoryResponse is a category in API responses
type CategoryResponse struct {
	ID         uuid.UUID      `json:"id"`
	SequenceID int64          `json:"sequenceId"`
	Name       LocalizedInput `json:"name"`
	Slug       string         `json:"slug"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// BrandResponse is a brand in API responses
type BrandResponse struct {
	ID         uuid.UUID      `json:"id"`
	SequenceID int64          `json:"sequenceId"`
	Name       LocalizedInput `json:"name"`
	Slug       string         `json:"slug"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// BulkDeleteRequest names resources by their tenant-facing sequence ids
type BulkDeleteRequest struct {
	SequenceIDs []int64 `json:"ids" binding:"required,min=1"`
}

// BulkDeleteResult partitions a bulk delete into what went through and
// what was held back.
type BulkDeleteResult struct {
	Deleted []int64 `json:"deleted"`
	Blocked []int64 `json:"blocked"`
}

// TierPriceInput sets one selling tier: an explicit price, or a markup
// rate over the purchase price.
type TierPriceInput struct {
	Price *decimal.Decimal `json:"price"`
	Rate  *decimal.Decimal `json:"rate"`
}

// CreateProductRequest creates a product
type CreateProductRequest struct {
	Name               LocalizedInput  `json:"name" binding:"required"`
	Description        LocalizedInput  `json:"description"`
	Barcode            string          `json:"barcode"`
	PurchasePrice      decimal.Decimal `json:"purchasePrice"`
	PharmacyPrice      *TierPriceInput `json:"pharmacyPrice"`
	PublicPrice        *TierPriceInput `json:"publicPrice"`
	TradePrice         *TierPriceInput `json:"tradePrice"`
	Quantity           *int64          `json:"quantity"`
	MinStock           *int64          `json:"minStock"`
	CategorySequenceID int64           `json:"categoryId" binding:"required"`
	BrandSequenceID    *int64          `json:"brandId"`
	IsPublished        *bool           `json:"isPublished"`
	Image              *ImageUpload    `json:"-"`
	Gallery            []ImageUpload   `json:"-"`
}

// UpdateProductRequest partially updates a product; only supplied fields
// are touched.
type UpdateProductRequest struct {
	Name               *LocalizedInput  `json:"name"`
	Description        *LocalizedInput  `json:"description"`
	Barcode            *string          `json:"barcode"`
	PurchasePrice      *decimal.Decimal `json:"purchasePrice"`
	PharmacyPrice      *TierPriceInput  `json:"pharmacyPrice"`
	PublicPrice        *TierPriceInput  `json:"publicPrice"`
	TradePrice         *TierPriceInput  `json:"tradePrice"`
	Quantity           *int64           `json:"quantity"`
	MinStock           *int64           `json:"minStock"`
	CategorySequenceID *int64           `json:"categoryId"`
	BrandSequenceID    *int64           `json:"brandId"`
	IsPublished        *bool            `json:"isPublished"`
	Image              *ImageUpload     `json:"-"`
	Gallery            []ImageUpload    `json:"-"`
	ReplaceGallery     bool             `json:"-"`
}

// ProductListQuery narrows product listings
type ProductListQuery struct {
	Page               int    `form:"page"`
	PageSize           int    `form:"pageSize"`
	Search             string `form:"search"`
	CategorySequenceID int64  `form:"categoryId"`
	PublishedOnly      bool   `form:"publishedOnly"`
	OrderDir           string `form:"orderDir"`
}

// TierPriceResponse is one selling tier in API responses
type TierPriceResponse struct {
	Price decimal.Decimal `json:"price"`
	Rate  decimal.Decimal `json:"rate"`
}

// ProductImageResponse is one gallery entry in API responses
type ProductImageResponse struct {
	URL       string `json:"url"`
	SortOrder int    `json:"sortOrder"`
}

// ProductResponse is a product in API responses
type ProductResponse struct {
	ID                     uuid.UUID              `json:"id"`
	SequenceID             int64                  `json:"sequenceId"`
	Name                   LocalizedInput         `json:"name"`
	Description            LocalizedInput         `json:"description"`
	Barcode                string                 `json:"barcode,omitempty"`
	Slug                   string                 `json:"slug"`
	PurchasePrice          decimal.Decimal        `json:"purchasePrice"`
	PurchasePriceUpdatedAt *time.Time             `json:"purchasePriceUpdatedAt,omitempty"`
	PharmacyPrice          TierPriceResponse      `json:"pharmacyPrice"`
	PublicPrice            TierPriceResponse      `json:"publicPrice"`
	TradePrice             TierPriceResponse      `json:"tradePrice"`
	Quantity               int64                  `json:"quantity"`
	MinStock               int64                  `json:"minStock"`
	InStock                bool                   `json:"inStock"`
	LowStock               bool                   `json:"lowStock"`
	CategoryID             uuid.UUID              `json:"categoryId"`
	BrandID                *uuid.UUID             `json:"brandId,omitempty"`
	ImageURL               string                 `json:"imageUrl,omitempty"`
	Gallery                []ProductImageResponse `json:"gallery"`
	IsPublished            bool                   `json:"isPublished"`
	CreatedAt              time.Time              `json:"createdAt"`
	UpdatedAt              time.Time              `json:"updatedAt"`
}

// ToCategoryResponse maps a domain category to its response shape
func ToCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:         c.ID,
		SequenceID: c.SequenceID,
		Name:       LocalizedInput{AR: c.Name.AR, EN: c.Name.EN},
		Slug:       c.Slug,
		ImageURL:   c.ImageURL,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToBrandResponse maps a domain brand to its response shape
func ToBrandResponse(b *catalog.Brand) *BrandResponse {
	return &BrandResponse{
		ID:         b.ID,
		SequenceID: b.SequenceID,
		Name:       LocalizedInput{AR: b.Name.AR, EN: b.Name.EN},
		Slug:       b.Slug,
		ImageURL:   b.ImageURL,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToProductResponse maps a domain product to its response shape
func ToProductResponse(p *catalog.Product) *ProductResponse {
	gallery := make([]ProductImageResponse, len(p.Gallery))
	for i, img := range p.Gallery {
		gallery[i] = ProductImageResponse{URL: img.URL, SortOrder: img.SortOrder}
	}

	return &ProductResponse{
		ID:                     p.ID,
		SequenceID:             p.SequenceID,
		Name:                   LocalizedInput{AR: p.Name.AR, EN: p.Name.EN},
		Description:            LocalizedInput{AR: p.Description.AR, EN: p.Description.EN},
		Barcode:                p.Barcode,
		Slug:                   p.Slug,
		PurchasePrice:          p.PurchasePrice,
		PurchasePriceUpdatedAt: p.PurchasePriceUpdatedAt,
		PharmacyPrice:          TierPriceResponse{Price: p.PharmacyPrice.Price, Rate: p.PharmacyPrice.Rate},
		PublicPrice:            TierPriceResponse{Price: p.PublicPrice.Price, Rate: p.PublicPrice.Rate},
		TradePrice:             TierPriceResponse{Price: p.TradePrice.Price, Rate: p.TradePrice.Rate},
		Quantity:               p.Quantity,
		MinStock:               p.MinStock,
		InStock:                p.InStock(),
		LowStock:               p.LowStock(),
		CategoryID:             p.CategoryID,
		BrandID:                p.BrandID,
		ImageURL:               p.ImageURL,
		Gallery:                gallery,
		IsPublished:            p.IsPublished,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
