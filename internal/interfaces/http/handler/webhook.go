package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	billingapp "github.com/lifemedical/backend/internal/application/billing"
	"github.com/lifemedical/backend/internal/domain/billing"
)

// maxWebhookBody bounds the provider callback body
const maxWebhookBody = 64 << 10

// PaymobWebhookHandler receives transaction callbacks from the payment
// provider. The route is public; authenticity rests on the HMAC.
type PaymobWebhookHandler struct {
	BaseHandler
	webhooks *billingapp.WebhookService
}

// NewPaymobWebhookHandler creates a new PaymobWebhookHandler
func NewPaymobWebhookHandler(webhooks *billingapp.WebhookService) *PaymobWebhookHandler {
	return &PaymobWebhookHandler{webhooks: webhooks}
}

// paymobWebhookPayload is the slice of the provider's callback this
// system reads. The merchant order reference rides on the nested order.
type paymobWebhookPayload struct {
	Type string `json:"type"`
	Obj  struct {
		ID          int64  `json:"id"`
		AmountCents int64  `json:"amount_cents"`
		CreatedAt   string `json:"created_at"`
		Currency    string `json:"currency"`
		Success     bool   `json:"success"`
		Order       struct {
			MerchantOrderID string `json:"merchant_order_id"`
		} `json:"order"`
	} `json:"obj"`
}

// HandleTransaction verifies and applies one payment callback
// POST /api/v1/webhooks/paymob
func (h *PaymobWebhookHandler) HandleTransaction(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Could not read webhook body")
		return
	}

	var payload paymobWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.BadRequest(c, "Malformed webhook payload")
		return
	}

	// the provider passes the hmac as a query parameter; accept a header too
	signature := c.Query("hmac")
	if signature == "" {
		signature = c.GetHeader("hmac")
	}

	tx := billing.WebhookTransaction{
		ID:              payload.Obj.ID,
		AmountCents:     payload.Obj.AmountCents,
		CreatedAt:       payload.Obj.CreatedAt,
		Currency:        payload.Obj.Currency,
		Success:         payload.Obj.Success,
		MerchantOrderID: payload.Obj.Order.MerchantOrderID,
	}

	if err := h.webhooks.HandleTransaction(c.Request.Context(), tx, signature); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}
