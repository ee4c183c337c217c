package billing

import (
	"github.com/shopspring/decimal"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// Currency is the only settlement currency the gateway account is
// configured for.
const Currency = "EGP"

var planPrices = map[identity.Plan]decimal.Decimal{
	identity.PlanFree:       decimal.Zero,
	identity.PlanBasic:      decimal.NewFromInt(200),
	identity.PlanPro:        decimal.NewFromInt(500),
	identity.PlanEnterprise: decimal.NewFromInt(1000),
}

// PlanPrice returns the checkout price of a plan in EGP
func PlanPrice(plan identity.Plan) (decimal.Decimal, error) {
	price, ok := planPrices[plan]
	if !ok {
		return decimal.Zero, shared.NewDomainError("INVALID_PLAN", "Unknown subscription plan")
	}
	return price, nil
}

// PurchasablePlan validates that the plan can go through checkout.
// The free tier is assigned at signup, never bought.
func PurchasablePlan(plan identity.Plan) error {
	price, err := PlanPrice(plan)
	if err != nil {
		return err
	}
	if price.IsZero() {
		return shared.NewDomainError("PLAN_NOT_PURCHASABLE", "This plan cannot be purchased")
	}
	return nil
}

// AmountCents converts a plan price to the gateway's integer cents
func AmountCents(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).IntPart()
}
