package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionResponse is a company's current plan state
type SubscriptionResponse struct {
	Plan      string     `json:"plan"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SubscribeRequest picks the plan to purchase
type SubscribeRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// SubscribeResult is the checkout summary shown before payment
type SubscribeResult struct {
	Plan       string          `json:"plan"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	PaymentURL string          `json:"paymentUrl"`
}

// CheckoutResult carries the hosted payment session to the client
type CheckoutResult struct {
	Plan        string `json:"plan"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	OrderID     int64  `json:"orderId"`
	IframeURL   string `json:"iframeUrl"`
}
