package billing

import (
	"context"

	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/billing"
	"github.com/lifemedical/backend/internal/domain/shared"
)

// ErrInvalidSignature rejects webhooks whose HMAC does not match; the
// handler answers 401 and nothing else happens.
var ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")

// WebhookService turns verified gateway callbacks into subscription
// activations.
type WebhookService struct {
	gateway       billing.PaymentGateway
	subscriptions *SubscriptionService
	logger        *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	gateway billing.PaymentGateway,
	subscriptions *SubscriptionService,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		gateway:       gateway,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// HandleTransaction verifies the callback and, on a successful payment,
// activates the plan encoded in the merchant order reference. Replays are
// harmless: activation always extends from now.
func (s *WebhookService) HandleTransaction(ctx context.Context, tx billing.WebhookTransaction, signature string) error {
	if !s.gateway.VerifySignature(tx, signature) {
		s.logger.Warn("Webhook rejected",
			zap.Int64("transaction_id", tx.ID),
			zap.String("merchant_order_id", tx.MerchantOrderID),
		)
		return ErrInvalidSignature
	}

	if !tx.Success {
		s.logger.Info("Webhook acknowledged for unsuccessful transaction",
			zap.Int64("transaction_id", tx.ID),
			zap.String("merchant_order_id", tx.MerchantOrderID),
		)
		return nil
	}

	companyID, plan, err := billing.ParseMerchantOrderRef(tx.MerchantOrderID)
	if err != nil {
		return err
	}
	if err := s.subscriptions.ActivatePlan(ctx, companyID, plan, 0); err != nil {
		return err
	}

	s.logger.Info("Payment webhook processed",
		zap.Int64("transaction_id", tx.ID),
		zap.String("company_id", companyID.String()),
		zap.String("plan", string(plan)),
	)
	return nil
}
