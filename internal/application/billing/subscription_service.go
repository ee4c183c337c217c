package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/billing"
	"github.com/lifemedical/backend/internal/domain/identity"
)

// SubscriptionService handles plan purchases and activation
type SubscriptionService struct {
	companyRepo identity.CompanyRepository
	gateway     billing.PaymentGateway
	logger      *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	companyRepo identity.CompanyRepository,
	gateway billing.PaymentGateway,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		companyRepo: companyRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// Subscription returns the company's current plan state
func (s *SubscriptionService) Subscription(ctx context.Context, companyID uuid.UUID) (*SubscriptionResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionResponse{
		Plan:      string(company.Subscription.Plan),
		IsActive:  company.Subscription.IsActive,
		ExpiresAt: company.Subscription.ExpiresAt,
	}, nil
}

// Subscribe validates the plan and returns the checkout summary the
// client confirms before being sent to the payment page.
func (s *SubscriptionService) Subscribe(ctx context.Context, companyID uuid.UUID, req SubscribeRequest) (*SubscribeResult, error) {
	plan := identity.Plan(req.Plan)
	if err := billing.PurchasablePlan(plan); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	price, err := billing.PlanPrice(plan)
	if err != nil {
		return nil, err
	}
	return &SubscribeResult{
		Plan:       string(plan),
		Amount:     price,
		Currency:   billing.Currency,
		PaymentURL: fmt.Sprintf("/api/v1/billing/checkout/%s", plan),
	}, nil
}

// Checkout starts a hosted payment session for the plan. The buyer's
// email and name end up in the gateway's billing data.
func (s *SubscriptionService) Checkout(ctx context.Context, companyID uuid.UUID, planName, email, name string) (*CheckoutResult, error) {
	plan := identity.Plan(planName)
	if err := billing.PurchasablePlan(plan); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	price, err := billing.PlanPrice(plan)
	if err != nil {
		return nil, err
	}
	amountCents := billing.AmountCents(price)
	if name == "" {
		name = company.Name
	}

	session, err := s.gateway.CreateCheckout(ctx, billing.CheckoutRequest{
		CompanyID:   companyID,
		Plan:        plan,
		AmountCents: amountCents,
		Currency:    billing.Currency,
		CustomerRef: billing.NewMerchantOrderRef(companyID, plan, time.Now()),
		Email:       email,
		Name:        name,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Checkout session created",
		zap.String("company_id", companyID.String()),
		zap.String("plan", string(plan)),
		zap.Int64("order_id", session.OrderID),
	)
	return &CheckoutResult{
		Plan:        string(plan),
		AmountCents: amountCents,
		Currency:    billing.Currency,
		OrderID:     session.OrderID,
		IframeURL:   session.IframeURL,
	}, nil
}

// ActivatePlan grants the plan for the given number of months; zero
// months uses the plan's own duration. Activation is idempotent: applying
// the same purchase twice extends from now both times.
func (s *SubscriptionService) ActivatePlan(ctx context.Context, companyID uuid.UUID, plan identity.Plan, months int) error {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if err := company.ActivatePlan(plan, months, time.Now()); err != nil {
		return err
	}
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return err
	}

	s.logger.Info("Subscription activated",
		zap.String("company_id", companyID.String()),
		zap.String("plan", string(plan)),
		zap.Timep("expires_at", company.Subscription.ExpiresAt),
	)
	return nil
}
