package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// CategoryHandler serves the tenant's category catalog
type CategoryHandler struct {
	BaseHandler
	categories *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// parseCreateCategory accepts JSON or a multipart form with an image
func parseCreateCategory(c *gin.Context) (*catalogapp.CreateCategoryRequest, error) {
	var req catalogapp.CreateCategoryRequest
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if name := formLocalized(c, "name"); name != nil {
		req.Name = *name
	}
	image, err := formFile(c, "image")
	if err != nil {
		return nil, err
	}
	req.Image = image
	return &req, nil
}

// parseUpdateCategory accepts JSON or a multipart form with an image
func parseUpdateCategory(c *gin.Context) (*catalogapp.UpdateCategoryRequest, error) {
	var req catalogapp.UpdateCategoryRequest
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	req.Name = formLocalized(c, "name")
	image, err := formFile(c, "image")
	if err != nil {
		return nil, err
	}
	req.Image = image
	return &req, nil
}

// List returns the tenant's categories
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
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

	page, err := h.categories.List(c.Request.Context(), companyID, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one category by its sequence id
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category id")
		return
	}

	category, err := h.categories.Get(c.Request.Context(), companyID, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create adds a category
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
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

	category, err := h.categories.Create(c.Request.Context(), companyID, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update partially updates a category
// PATCH /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category id")
		return
	}

	req, err := parseUpdateCategory(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categories.Update(c.Request.Context(), companyID, uri.ID, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete removes a category unless products still reference it
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri dto.SequenceIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category id")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), companyID, uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete removes many categories and reports what was blocked
// POST /api/v1/categories/bulk-delete
func (h *CategoryHandler) BulkDelete(c *gin.Context) {
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

	result, err := h.categories.BulkDelete(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
