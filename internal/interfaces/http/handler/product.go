package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// ProductHandler serves the tenant's product catalog
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// parseCreateProduct accepts JSON or a multipart form carrying the main
// image and gallery files alongside scalar fields.
func parseCreateProduct(c *gin.Context) (*catalogapp.CreateProductRequest, error) {
	var req catalogapp.CreateProductRequest
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if name := formLocalized(c, "name"); name != nil {
		req.Name = *name
	}
	if description := formLocalized(c, "description"); description != nil {
		req.Description = *description
	}
	if barcode, ok := formString(c, "barcode"); ok {
		req.Barcode = barcode
	}

	purchasePrice, err := formDecimal(c, "purchasePrice")
	if err != nil {
		return nil, err
	}
	if purchasePrice != nil {
		req.PurchasePrice = *purchasePrice
	}

	if req.PharmacyPrice, err = formTier(c, "pharmacy"); err != nil {
		return nil, err
	}
	if req.PublicPrice, err = formTier(c, "public"); err != nil {
		return nil, err
	}
	if req.TradePrice, err = formTier(c, "trade"); err != nil {
		return nil, err
	}

	if req.Quantity, err = formInt64(c, "quantity"); err != nil {
		return nil, err
	}
	if req.MinStock, err = formInt64(c, "minStock"); err != nil {
		return nil, err
	}

	categoryID, err := formInt64(c, "categoryId")
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		req.CategorySequenceID = *categoryID
	}
	if req.BrandSequenceID, err = formInt64(c, "brandId"); err != nil {
		return nil, err
	}
	if req.IsPublished, err = formBool(c, "isPublished"); err != nil {
		return nil, err
	}

	if req.Image, err = formFile(c, "image"); err != nil {
		return nil, err
	}
	if req.Gallery, err = formFiles(c, "gallery"); err != nil {
		return nil, err
	}
	return &req, nil
}

// parseUpdateProduct accepts JSON or a multipart form; only supplied
// fields are touched. Gallery files replace the existing gallery.
func parseUpdateProduct(c *gin.Context) (*catalogapp.UpdateProductRequest, error) {
	var req catalogapp.UpdateProductRequest
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	req.Name = formLocalized(c, "name")
	req.Description = formLocalized(c, "description")
	if barcode, ok := formString(c, "barcode"); ok {
		req.Barcode = &barcode
	}

	var err error
	if req.PurchasePrice, err = formDecimal(c, "purchasePrice"); err != nil {
		return nil, err
	}
	if req.PharmacyPrice, err = formTier(c, "pharmacy"); err != nil {
		return nil, err
	}
	if req.PublicPrice, err = formTier(c, "public"); err != nil {
		return nil, err
	}
	if req.TradePrice, err = formTier(c, "trade"); err != nil {
		return nil, err
	}
	if req.Quantity, err = formInt64(c, "quantity"); err != nil {
		return nil, err
	}
	if req.MinStock, err = formInt64(c, "minStock"); err != nil {
		return nil, err
	}
	if req.CategorySequenceID, err = formInt64(c, "categoryId"); err != nil {
		return nil, err
	}
	if req.BrandSequenceID, err = formInt64(c, "brandId"); err != nil {
		return nil, err
	}
	if req.IsPublished, err = formBool(c, "isPublished"); err != nil {
		return nil, err
	}

	if req.Image, err = formFile(c, "image"); err != nil {
		return nil, err
	}
	if req.Gallery, err = formFiles(c, "gallery"); err != nil {
		return nil, err
	}
	req.ReplaceGallery = len(req.Gallery) > 0
	return &req, nil
}

// List returns the tenant's products
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var query catalogapp.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.products.List(c.Request.Context(), companyID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one product by its sequence id
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.products.Get(c.Request.Context(), companyID, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	req, err := parseCreateProduct(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), companyID, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update partially updates a product
// PATCH /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	req, err := parseUpdateProduct(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), companyID, uri.ID, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product and its stored images
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	if err := h.products.Delete(c.Request.Context(), companyID, uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete removes many products
// POST /api/v1/products/bulk-delete
func (h *ProductHandler) BulkDelete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var req catalogapp.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.products.BulkDelete(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Duplicate clones a product under a fresh sequence id
// POST /api/v1/products/:id/duplicate
func (h *ProductHandler) Duplicate(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.products.Duplicate(c.Request.Context(), companyID, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}
