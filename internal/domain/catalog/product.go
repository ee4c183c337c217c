package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifemedical/backend/internal/domain/shared"
)

// Default markup percentages applied when a tier price is not given
// explicitly: pharmacies pay cost+10%, walk-in customers cost+20%,
// trade buyers cost+5%.
var (
	DefaultPharmacyRate = decimal.NewFromInt(10)
	DefaultPublicRate   = decimal.NewFromInt(20)
	DefaultTradeRate    = decimal.NewFromInt(5)
)

// DefaultMinStock is the low-stock threshold used when none is given
const DefaultMinStock = 5

// TierPrice is one selling tier: either an explicit price or a markup
// rate over the purchase price.
type TierPrice struct {
	Price decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
	Rate  decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"rate"`
}

// ProductImage is one gallery entry of a product
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(500);not null"`
	Key       string    `gorm:"type:varchar(300);not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// Product is a sellable item in a tenant's catalog. Barcodes and slugs are
// unique across all tenants so storefront URLs and scanner lookups never
// need a tenant qualifier.
type Product struct {
	shared.CompanyAggregateRoot
	SequenceID  int64         `gorm:"not null;uniqueIndex:,composite:company_seq,priority:2"`
	Name        LocalizedText `gorm:"embedded;embeddedPrefix:name_"`
	Description LocalizedText `gorm:"embedded;embeddedPrefix:description_"`
	Barcode     string        `gorm:"type:varchar(64);uniqueIndex:idx_product_barcode,where:barcode <> ''"`
	Slug        string        `gorm:"type:varchar(220);not null;uniqueIndex"`

	PurchasePrice          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PurchasePriceUpdatedAt *time.Time

	PharmacyPrice TierPrice `gorm:"embedded;embeddedPrefix:pharmacy_"`
	PublicPrice   TierPrice `gorm:"embedded;embeddedPrefix:public_"`
	TradePrice    TierPrice `gorm:"embedded;embeddedPrefix:trade_"`

	Quantity int64 `gorm:"not null;default:0"`
	MinStock int64 `gorm:"not null;default:5"`

	CategoryID uuid.UUID  `gorm:"type:uuid;not null;index"`
	BrandID    *uuid.UUID `gorm:"type:uuid;index"`

	ImageURL    string         `gorm:"type:varchar(500)"`
	ImageKey    string         `gorm:"type:varchar(300)"`
	Gallery     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	IsPublished bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// PriceFromRate computes a tier price from the purchase price and a markup
// percentage, rounded half-up to two decimals: 100 at 10% -> 110.00.
func PriceFromRate(purchasePrice, rate decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return purchasePrice.Mul(hundred.Add(rate)).Div(hundred).Round(2)
}

// NewProduct creates a product. Tier prices not set explicitly are derived
// from the purchase price using each tier's rate (or the default rate).
func NewProduct(companyID uuid.UUID, sequenceID int64, name LocalizedText, purchasePrice decimal.Decimal, categoryID uuid.UUID) (*Product, error) {
	if err := name.Validate("name"); err != nil {
		return nil, err
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}

	now := time.Now()
	p := &Product{
		CompanyAggregateRoot:   shared.NewCompanyAggregateRoot(companyID),
		SequenceID:             sequenceID,
		Name:                   name,
		PurchasePrice:          purchasePrice.Round(2),
		PurchasePriceUpdatedAt: &now,
		PharmacyPrice:          TierPrice{Rate: DefaultPharmacyRate},
		PublicPrice:            TierPrice{Rate: DefaultPublicRate},
		TradePrice:             TierPrice{Rate: DefaultTradeRate},
		MinStock:               DefaultMinStock,
		CategoryID:             categoryID,
	}
	p.Slug = p.deriveUniqueSlug()
	p.RecomputePrices()
	return p, nil
}

// deriveUniqueSlug suffixes the slugified name with the first uuid block,
// which keeps slugs globally unique without a cross-tenant counter.
func (p *Product) deriveUniqueSlug() string {
	base := shared.Slugify(p.Name.SlugSource())
	suffix := strings.SplitN(p.ID.String(), "-", 2)[0]
	if base == "" {
		return fmt.Sprintf("product-%s", suffix)
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}

// RecomputePrices refreshes every tier price that is rate-driven. A tier
// with an explicit price (rate zero, price non-zero) is left untouched.
func (p *Product) RecomputePrices() {
	for _, tier := range []*TierPrice{&p.PharmacyPrice, &p.PublicPrice, &p.TradePrice} {
		if tier.Rate.IsPositive() {
			tier.Price = PriceFromRate(p.PurchasePrice, tier.Rate)
		}
	}
}

// SetPurchasePrice updates the cost and rederives rate-driven tier prices.
// The PurchasePriceUpdatedAt marker moves only when the value actually
// changes, so price-age reports stay meaningful.
func (p *Product) SetPurchasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	price = price.Round(2)
	if p.PurchasePrice.Equal(price) {
		return nil
	}
	now := time.Now()
	p.PurchasePrice = price
	p.PurchasePriceUpdatedAt = &now
	p.RecomputePrices()
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetTierPrice fixes an explicit price for a tier, disabling its markup rate
func (p *Product) SetTierPrice(tier *TierPrice, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	tier.Price = price.Round(2)
	tier.Rate = decimal.Zero
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetTierRate sets a markup rate for a tier and rederives its price
func (p *Product) SetTierRate(tier *TierPrice, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Markup rate cannot be negative")
	}
	tier.Rate = rate
	tier.Price = PriceFromRate(p.PurchasePrice, rate)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Rename updates the name and re-derives the slug
func (p *Product) Rename(name LocalizedText) error {
	if err := name.Validate("name"); err != nil {
		return err
	}
	p.Name = name
	p.Slug = p.deriveUniqueSlug()
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetDescription replaces the description; both languages are optional here
func (p *Product) SetDescription(description LocalizedText) {
	p.Description = description
	p.Touch()
	p.IncrementVersion()
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	p.CategoryID = categoryID
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetBrand assigns a brand, nil clears it
func (p *Product) SetBrand(brandID *uuid.UUID) {
	p.BrandID = brandID
	p.Touch()
	p.IncrementVersion()
}

// SetBarcode sets the scanner barcode, empty clears it
func (p *Product) SetBarcode(barcode string) error {
	barcode = strings.TrimSpace(barcode)
	if len(barcode) > 64 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 64 characters")
	}
	p.Barcode = barcode
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetQuantity replaces the on-hand stock count
func (p *Product) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	p.Quantity = quantity
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetMinStock replaces the low-stock threshold
func (p *Product) SetMinStock(minStock int64) error {
	if minStock < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	p.MinStock = minStock
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetImage records the primary image location, replacing any previous one
func (p *Product) SetImage(url, key string) {
	p.ImageURL = url
	p.ImageKey = key
	p.Touch()
	p.IncrementVersion()
}

// SetPublished flips storefront visibility
func (p *Product) SetPublished(published bool) {
	p.IsPublished = published
	p.Touch()
	p.IncrementVersion()
}

// InStock reports whether any stock is on hand
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// LowStock reports whether stock has fallen to the reorder threshold
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinStock
}

// Duplicate clones the product as an unpublished draft under a fresh
// sequence id: barcode cleared (it must stay unique), stock zeroed, images
// shared with the source until the copy gets its own.
func (p *Product) Duplicate(sequenceID int64) *Product {
	now := time.Now()
	dup := &Product{
		CompanyAggregateRoot:   shared.NewCompanyAggregateRoot(p.CompanyID),
		SequenceID:             sequenceID,
		Name:                   p.Name,
		Description:            p.Description,
		PurchasePrice:          p.PurchasePrice,
		PurchasePriceUpdatedAt: &now,
		PharmacyPrice:          p.PharmacyPrice,
		PublicPrice:            p.PublicPrice,
		TradePrice:             p.TradePrice,
		MinStock:               p.MinStock,
		CategoryID:             p.CategoryID,
		BrandID:                p.BrandID,
		ImageURL:               p.ImageURL,
		ImageKey:               p.ImageKey,
	}
	dup.Slug = dup.deriveUniqueSlug()
	return dup
}
