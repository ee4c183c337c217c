package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/lifemedical/backend/internal/application/identity"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// SuperAdminHandler serves the platform operator's company registry
type SuperAdminHandler struct {
	BaseHandler
	companies *identityapp.CompanyService
}

// NewSuperAdminHandler creates a new SuperAdminHandler
func NewSuperAdminHandler(companies *identityapp.CompanyService) *SuperAdminHandler {
	return &SuperAdminHandler{companies: companies}
}

type companyIDRequest struct {
	ID uuid.UUID `uri:"id" binding:"required"`
}

// ListCompanies returns every registered company
// GET /api/v1/super-admin/companies
func (h *SuperAdminHandler) ListCompanies(c *gin.Context) {
	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.companies.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetCompany returns one company
// GET /api/v1/super-admin/company/:id
func (h *SuperAdminHandler) GetCompany(c *gin.Context) {
	var uri companyIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid company id")
		return
	}

	company, err := h.companies.Get(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// SetStatus switches a company on or off
// PATCH /api/v1/super-admin/company/:id/status
func (h *SuperAdminHandler) SetStatus(c *gin.Context) {
	var uri companyIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid company id")
		return
	}

	var input identityapp.SetCompanyStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	company, err := h.companies.SetStatus(c.Request.Context(), uri.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// SetSubscription overrides a company's subscription directly
// PATCH /api/v1/super-admin/company/:id/subscription
func (h *SuperAdminHandler) SetSubscription(c *gin.Context) {
	var uri companyIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid company id")
		return
	}

	var input identityapp.SetSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	company, err := h.companies.SetSubscription(c.Request.Context(), uri.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}
