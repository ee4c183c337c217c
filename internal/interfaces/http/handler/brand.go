package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// BrandHandler serves the tenant's brand catalog
type BrandHandler struct {
	BaseHandler
	brands *catalogapp.BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brands *catalogapp.BrandService) *BrandHandler {
	return &BrandHandler{brands: brands}
}

// List returns the tenant's brands
// GET /api/v1/brands
func (h *BrandHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.brands.List(c.Request.Context(), companyID, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one brand by its sequence id
// GET /api/v1/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid brand id")
		return
	}

	brand, err := h.brands.Get(c.Request.Context(), companyID, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Create adds a brand; brands share the category request shape
// POST /api/v1/brands
func (h *BrandHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	req, err := parseCreateCategory(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	brand, err := h.brands.Create(c.Request.Context(), companyID, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// Update partially updates a brand
// PATCH /api/v1/brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid brand id")
		return
	}

	req, err := parseUpdateCategory(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	brand, err := h.brands.Update(c.Request.Context(), companyID, uri.ID, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Delete removes a brand unless products still reference it
// DELETE /api/v1/brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid brand id")
		return
	}

	if err := h.brands.Delete(c.Request.Context(), companyID, uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete removes many brands and reports what was blocked
// POST /api/v1/brands/bulk-delete
func (h *BrandHandler) BulkDelete(c *gin.Context) {
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

	result, err := h.brands.BulkDelete(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
