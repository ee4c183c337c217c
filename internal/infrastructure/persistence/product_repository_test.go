package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lifemedical/backend/internal/domain/catalog"
	"github.com/lifemedical/backend/internal/domain/shared"
)

type productFixture struct {
	db          *gorm.DB
	products    *GormProductRepository
	categories  *GormCategoryRepository
	companyID   uuid.UUID
	category    *catalog.Category
	nextProduct int64
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := newTestDB(t)
	f := &productFixture{
		db:         db,
		products:   NewGormProductRepository(db),
		categories: NewGormCategoryRepository(db),
		companyID:  uuid.New(),
	}
	f.category = mustCategory(t, f.companyID, 1, "أدوية", "Medicines")
	require.NoError(t, f.categories.Create(context.Background(), f.category))
	return f
}

func (f *productFixture) newProduct(t *testing.T, en string, price float64) *catalog.Product {
	t.Helper()
	f.nextProduct++
	product, err := catalog.NewProduct(
		f.companyID,
		f.nextProduct,
		catalog.LocalizedText{AR: "منتج", EN: en},
		decimal.NewFromFloat(price),
		f.category.ID,
	)
	require.NoError(t, err)
	return product
}

func TestGormProductRepository_CRUD(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	product := f.newProduct(t, "Paracetamol 500mg", 100)
	require.NoError(t, product.SetBarcode("6223001234567"))
	product.Gallery = []catalog.ProductImage{
		{BaseEntity: shared.NewBaseEntity(), ProductID: product.ID, URL: "https://cdn.example/p1.jpg", Key: "p1.jpg"},
	}
	require.NoError(t, f.products.Create(ctx, product))

	t.Run("finds by id with gallery", func(t *testing.T) {
		found, err := f.products.FindByID(ctx, f.companyID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Paracetamol 500mg", found.Name.EN)
		assert.True(t, found.PharmacyPrice.Price.Equal(decimal.NewFromInt(110)))
		require.Len(t, found.Gallery, 1)
		assert.Equal(t, "p1.jpg", found.Gallery[0].Key)
	})

	t.Run("finds by sequence id", func(t *testing.T) {
		found, err := f.products.FindBySequenceID(ctx, f.companyID, product.SequenceID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("other tenants cannot see it", func(t *testing.T) {
		_, err := f.products.FindByID(ctx, uuid.New(), product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate barcode is rejected globally", func(t *testing.T) {
		clash := f.newProduct(t, "Other Item", 50)
		require.NoError(t, clash.SetBarcode("6223001234567"))
		err := f.products.Create(ctx, clash)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("empty barcodes do not clash", func(t *testing.T) {
		first := f.newProduct(t, "No Barcode A", 10)
		second := f.newProduct(t, "No Barcode B", 10)
		require.NoError(t, f.products.Create(ctx, first))
		require.NoError(t, f.products.Create(ctx, second))
	})

	t.Run("update persists changes", func(t *testing.T) {
		require.NoError(t, product.SetQuantity(40))
		require.NoError(t, f.products.Update(ctx, product))

		found, err := f.products.FindByID(ctx, f.companyID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(40), found.Quantity)
	})

	t.Run("delete removes product and gallery", func(t *testing.T) {
		victim := f.newProduct(t, "Short Lived", 10)
		require.NoError(t, f.products.Create(ctx, victim))

		require.NoError(t, f.products.Delete(ctx, f.companyID, victim.ID))
		_, err := f.products.FindByID(ctx, f.companyID, victim.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete of missing product reports not found", func(t *testing.T) {
		err := f.products.Delete(ctx, f.companyID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindAll(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	other := mustCategory(t, f.companyID, 2, "عناية", "Skincare")
	require.NoError(t, f.categories.Create(ctx, other))

	paracetamol := f.newProduct(t, "Paracetamol", 20)
	require.NoError(t, paracetamol.SetBarcode("1111"))
	ibuprofen := f.newProduct(t, "Ibuprofen", 30)
	ibuprofen.SetPublished(true)
	cream := f.newProduct(t, "Face Cream", 80)
	cream.CategoryID = other.ID

	for _, p := range []*catalog.Product{paracetamol, ibuprofen, cream} {
		require.NoError(t, f.products.Create(ctx, p))
	}
	// a different tenant's product must never surface
	foreign, err := catalog.NewProduct(uuid.New(), 1, catalog.LocalizedText{AR: "آخر"}, decimal.NewFromInt(5), uuid.New())
	require.NoError(t, err)
	require.NoError(t, f.products.Create(ctx, foreign))

	t.Run("lists the company's products", func(t *testing.T) {
		products, total, err := f.products.FindAll(ctx, f.companyID, catalog.ProductFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 3)
	})

	t.Run("filters by category sequence id", func(t *testing.T) {
		products, total, err := f.products.FindAll(ctx, f.companyID, catalog.ProductFilter{CategorySequenceID: other.SequenceID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, products, 1)
		assert.Equal(t, "Face Cream", products[0].Name.EN)
	})

	t.Run("filters published only", func(t *testing.T) {
		products, total, err := f.products.FindAll(ctx, f.companyID, catalog.ProductFilter{PublishedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, products, 1)
		assert.Equal(t, "Ibuprofen", products[0].Name.EN)
	})

	t.Run("searches name and barcode", func(t *testing.T) {
		products, _, err := f.products.FindAll(ctx, f.companyID, catalog.ProductFilter{Filter: shared.Filter{Search: "Ibu"}})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Ibuprofen", products[0].Name.EN)

		products, _, err = f.products.FindAll(ctx, f.companyID, catalog.ProductFilter{Filter: shared.Filter{Search: "1111"}})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Paracetamol", products[0].Name.EN)
	})
}

func TestGormProductRepository_Counts(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	brandID := uuid.New()
	first := f.newProduct(t, "With Brand", 10)
	first.BrandID = &brandID
	second := f.newProduct(t, "Without Brand", 10)
	for _, p := range []*catalog.Product{first, second} {
		require.NoError(t, f.products.Create(ctx, p))
	}

	count, err := f.products.CountByCategory(ctx, f.companyID, f.category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = f.products.CountByBrand(ctx, f.companyID, brandID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := f.products.ExistsByBarcode(ctx, "no-such-code")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormProductRepository_ReplaceGallery(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	product := f.newProduct(t, "Gallery Item", 10)
	product.Gallery = []catalog.ProductImage{
		{BaseEntity: shared.NewBaseEntity(), ProductID: product.ID, URL: "https://cdn.example/old.jpg", Key: "old.jpg"},
	}
	require.NoError(t, f.products.Create(ctx, product))

	replacement := []catalog.ProductImage{
		{BaseEntity: shared.NewBaseEntity(), ProductID: product.ID, URL: "https://cdn.example/a.jpg", Key: "a.jpg", SortOrder: 0},
		{BaseEntity: shared.NewBaseEntity(), ProductID: product.ID, URL: "https://cdn.example/b.jpg", Key: "b.jpg", SortOrder: 1},
	}
	require.NoError(t, f.products.ReplaceGallery(ctx, product, replacement))

	found, err := f.products.FindByID(ctx, f.companyID, product.ID)
	require.NoError(t, err)
	require.Len(t, found.Gallery, 2)
	keys := []string{found.Gallery[0].Key, found.Gallery[1].Key}
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, keys)

	// clearing leaves no orphan rows
	require.NoError(t, f.products.ReplaceGallery(ctx, product, nil))
	found, err = f.products.FindByID(ctx, f.companyID, product.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Gallery)
}
