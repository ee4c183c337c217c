package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/lifemedical/backend/internal/application/identity"
	"github.com/lifemedical/backend/internal/interfaces/http/middleware"
)

// CompanySubdomainHeader lets tenant signup name its company when the
// request arrives on the apex domain instead of a tenant subdomain.
const CompanySubdomainHeader = "X-Company-Subdomain"

// AuthHandler serves login, signup and session endpoints
type AuthHandler struct {
	BaseHandler
	auth *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates a user with email and password
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CompanySignup registers a new company with its owner account
// POST /api/v1/auth/company-signup
func (h *AuthHandler) CompanySignup(c *gin.Context) {
	var input identityapp.CompanySignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.CompanySignup(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// TenantSignup registers an employee inside an existing company. The
// company comes from the body, the X-Company-Subdomain header, or the
// subdomain the request arrived on, in that order.
// POST /api/v1/auth/tenant-signup
func (h *AuthHandler) TenantSignup(c *gin.Context) {
	var input identityapp.TenantSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if input.Subdomain == "" {
		input.Subdomain = c.GetHeader(CompanySubdomainHeader)
	}
	if input.Subdomain == "" {
		input.Subdomain = middleware.GetTenantSubdomain(c)
	}

	result, err := h.auth.TenantSignup(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Profile returns the authenticated user with their company
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.auth.Profile(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the presented token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}
