package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// CheckoutRequest describes one subscription purchase handed to the gateway
type CheckoutRequest struct {
	CompanyID   uuid.UUID
	Plan        identity.Plan
	AmountCents int64
	Currency    string
	CustomerRef string // merchant order id carried through the webhook
	Email       string
	Name        string
}

// CheckoutSession is what the gateway returns for a started purchase
type CheckoutSession struct {
	OrderID    int64
	PaymentKey string
	IframeURL  string
}

// PaymentGateway abstracts the hosted-checkout provider
type PaymentGateway interface {
	// CreateCheckout runs the provider's auth/order/payment-key sequence
	// and returns the hosted payment page session.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// VerifySignature checks a webhook's transaction authenticity
	VerifySignature(tx WebhookTransaction, signature string) bool
}

// WebhookTransaction is the slice of the provider's callback payload the
// billing flow acts on.
type WebhookTransaction struct {
	ID              int64  `json:"id"`
	AmountCents     int64  `json:"amount_cents"`
	CreatedAt       string `json:"created_at"`
	Currency        string `json:"currency"`
	Success         bool   `json:"success"`
	MerchantOrderID string `json:"merchant_order_id"`
}

// NewMerchantOrderRef builds the order reference the gateway echoes back in
// its webhook: company-<uuid>-<plan>-<unix-millis>.
func NewMerchantOrderRef(companyID uuid.UUID, plan identity.Plan, now time.Time) string {
	return fmt.Sprintf("company-%s-%s-%d", companyID, plan, now.UnixMilli())
}

// ParseMerchantOrderRef recovers the company and plan from an order
// reference. The company uuid itself contains hyphens, so the reference is
// parsed from both ends: the leading "company" marker, then the trailing
// timestamp and plan, and whatever sits between is the uuid.
func ParseMerchantOrderRef(ref string) (uuid.UUID, identity.Plan, error) {
	parts := strings.Split(ref, "-")
	if len(parts) < 4 || parts[0] != "company" {
		return uuid.Nil, "", shared.NewDomainError("INVALID_ORDER_REF", "Malformed merchant order reference")
	}
	if _, err := strconv.ParseInt(parts[len(parts)-1], 10, 64); err != nil {
		return uuid.Nil, "", shared.NewDomainError("INVALID_ORDER_REF", "Malformed merchant order reference")
	}
	plan := identity.Plan(parts[len(parts)-2])
	if !plan.IsValid() {
		return uuid.Nil, "", shared.NewDomainError("INVALID_ORDER_REF", "Unknown plan in order reference")
	}
	companyID, err := uuid.Parse(strings.Join(parts[1:len(parts)-2], "-"))
	if err != nil {
		return uuid.Nil, "", shared.NewDomainError("INVALID_ORDER_REF", "Invalid company id in order reference")
	}
	return companyID, plan, nil
}
