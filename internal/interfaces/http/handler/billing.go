package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/lifemedical/backend/internal/application/billing"
	"github.com/lifemedical/backend/internal/interfaces/http/middleware"
)

// BillingHandler serves the tenant's subscription endpoints
type BillingHandler struct {
	BaseHandler
	subscriptions *billingapp.SubscriptionService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(subscriptions *billingapp.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptions: subscriptions}
}

// Subscription returns the company's current subscription
// GET /api/v1/billing/subscription
func (h *BillingHandler) Subscription(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	result, err := h.subscriptions.Subscription(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Subscribe prices a plan purchase and points at the checkout URL
// POST /api/v1/billing/subscribe
func (h *BillingHandler) Subscribe(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	var req billingapp.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.subscriptions.Subscribe(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Checkout opens a hosted payment session for the named plan. The payer
// identity comes from the token; the gateway needs an email.
// GET /api/v1/billing/checkout/:plan
func (h *BillingHandler) Checkout(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Forbidden(c, "This endpoint is tenant scoped")
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.subscriptions.Checkout(
		c.Request.Context(), companyID, c.Param("plan"), claims.Email, "")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
