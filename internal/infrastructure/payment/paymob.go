// Package payment contains gateway adapters for hosted checkout providers.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/billing"
	"github.com/lifemedical/backend/internal/infrastructure/config"
)

const (
	paymobDefaultBaseURL = "https://accept.paymob.com"
	paymobAuthPath       = "/api/auth/tokens"
	paymobOrderPath      = "/api/ecommerce/orders"
	paymobPaymentKeyPath = "/api/acceptance/payment_keys"
	paymobIframePath     = "/api/acceptance/iframes"

	// payment keys are valid for one hour
	paymobKeyExpiration = 3600
)

var (
	// ErrGatewayUnavailable means the provider could not be reached
	ErrGatewayUnavailable = errors.New("paymob: gateway unavailable")
	// ErrGatewayRequestFailed means the provider rejected the request
	ErrGatewayRequestFailed = errors.New("paymob: request failed")
)

// PaymobAdapter implements billing.PaymentGateway against Paymob's
// accept.paymob.com hosted checkout.
type PaymobAdapter struct {
	cfg        *config.PaymobConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// PaymobOption is a functional option for configuring PaymobAdapter
type PaymobOption func(*PaymobAdapter)

// WithPaymobLogger sets a custom logger for the adapter
func WithPaymobLogger(logger *zap.Logger) PaymobOption {
	return func(a *PaymobAdapter) {
		a.logger = logger
	}
}

// WithPaymobHTTPClient replaces the HTTP client, used by tests
func WithPaymobHTTPClient(client *http.Client) PaymobOption {
	return func(a *PaymobAdapter) {
		a.httpClient = client
	}
}

// NewPaymobAdapter creates a new Paymob adapter
func NewPaymobAdapter(cfg *config.PaymobConfig, opts ...PaymobOption) (*PaymobAdapter, error) {
	if cfg == nil {
		return nil, errors.New("paymob: configuration is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("paymob: api key is required")
	}
	if cfg.HMACSecret == "" {
		return nil, errors.New("paymob: hmac secret is required")
	}
	if cfg.IntegrationID == 0 {
		return nil, errors.New("paymob: integration id is required")
	}
	if cfg.IframeID == "" {
		return nil, errors.New("paymob: iframe id is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = paymobDefaultBaseURL
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	adapter := &PaymobAdapter{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter, nil
}

// CreateCheckout runs the three-step Paymob sequence: authenticate, register
// the order under our merchant reference, then request a payment key for the
// hosted iframe.
func (a *PaymobAdapter) CreateCheckout(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	token, err := a.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	orderID, err := a.createOrder(ctx, token, req)
	if err != nil {
		return nil, err
	}

	paymentKey, err := a.createPaymentKey(ctx, token, orderID, req)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Paymob checkout created",
		zap.Int64("order_id", orderID),
		zap.String("merchant_order_id", req.CustomerRef),
	)

	return &billing.CheckoutSession{
		OrderID:    orderID,
		PaymentKey: paymentKey,
		IframeURL:  fmt.Sprintf("%s%s/%s?payment_token=%s", a.baseURL, paymobIframePath, a.cfg.IframeID, paymentKey),
	}, nil
}

// VerifySignature recomputes the webhook HMAC over the transaction fields in
// the provider's fixed order (id, amount_cents, created_at, currency,
// success) and compares in constant time. Booleans serialize as
// "true"/"false", matching what the provider signs.
func (a *PaymobAdapter) VerifySignature(tx billing.WebhookTransaction, signature string) bool {
	if signature == "" {
		return false
	}

	payload := fmt.Sprintf("%d%d%s%s%t", tx.ID, tx.AmountCents, tx.CreatedAt, tx.Currency, tx.Success)
	mac := hmac.New(sha512.New, []byte(a.cfg.HMACSecret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (a *PaymobAdapter) authenticate(ctx context.Context) (string, error) {
	var resp paymobAuthResponse
	err := a.doPost(ctx, paymobAuthPath, paymobAuthRequest{APIKey: a.cfg.APIKey}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty auth token", ErrGatewayRequestFailed)
	}
	return resp.Token, nil
}

func (a *PaymobAdapter) createOrder(ctx context.Context, token string, req billing.CheckoutRequest) (int64, error) {
	body := paymobOrderRequest{
		AuthToken:       token,
		DeliveryNeeded:  false,
		MerchantOrderID: req.CustomerRef,
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		Items:           []struct{}{},
	}

	var resp paymobOrderResponse
	if err := a.doPost(ctx, paymobOrderPath, body, &resp); err != nil {
		return 0, err
	}
	if resp.ID == 0 {
		return 0, fmt.Errorf("%w: order was not assigned an id", ErrGatewayRequestFailed)
	}
	return resp.ID, nil
}

func (a *PaymobAdapter) createPaymentKey(ctx context.Context, token string, orderID int64, req billing.CheckoutRequest) (string, error) {
	firstName, lastName := splitName(req.Name)

	email := req.Email
	if email == "" {
		email = "no-email@domain.com"
	}

	body := paymobPaymentKeyRequest{
		AuthToken:   token,
		AmountCents: req.AmountCents,
		Expiration:  paymobKeyExpiration,
		OrderID:     orderID,
		BillingData: paymobBillingData{
			FirstName:   firstName,
			LastName:    lastName,
			Email:       email,
			PhoneNumber: "01000000000",
			Country:     "EG",
		},
		Currency:      req.Currency,
		IntegrationID: a.cfg.IntegrationID,
	}

	var resp paymobPaymentKeyResponse
	if err := a.doPost(ctx, paymobPaymentKeyPath, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: empty payment key", ErrGatewayRequestFailed)
	}
	return resp.Token, nil
}

func (a *PaymobAdapter) doPost(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("paymob: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("paymob: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("paymob: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		a.logger.Warn("Paymob request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: HTTP %d from %s", ErrGatewayRequestFailed, resp.StatusCode, path)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("paymob: failed to parse response: %w", err)
	}
	return nil
}

// splitName divides a display name into the first/last pair the billing
// data form requires.
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "User", "Subscription"
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], "Subscription"
	}
	return parts[0], parts[1]
}

// Ensure PaymobAdapter implements the gateway interface
var _ billing.PaymentGateway = (*PaymobAdapter)(nil)
