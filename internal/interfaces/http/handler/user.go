package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/lifemedical/backend/internal/application/identity"
	"github.com/lifemedical/backend/internal/interfaces/http/dto"
)

// UserHandler serves the tenant's user directory
type UserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userIDRequest struct {
	ID uuid.UUID `uri:"id" binding:"required"`
}

// List returns the company's users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
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

	page, err := h.users.List(c.Request.Context(), companyID, query.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one company member
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri userIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}

	user, err := h.users.Get(c.Request.Context(), companyID, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateRole changes a company member's role
// PATCH /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri userIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}

	var input identityapp.UpdateUserRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.UpdateRole(c.Request.Context(), companyID, uri.ID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete removes a company member; owners cannot be removed
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var uri userIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.users.Delete(c.Request.Context(), companyID, uri.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
