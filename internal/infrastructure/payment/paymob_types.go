package payment

type paymobAuthRequest struct {
	APIKey string `json:"api_key"`
}

type paymobAuthResponse struct {
	Token string `json:"token"`
}

type paymobOrderRequest struct {
	AuthToken       string     `json:"auth_token"`
	DeliveryNeeded  bool       `json:"delivery_needed"`
	MerchantOrderID string     `json:"merchant_order_id"`
	AmountCents     int64      `json:"amount_cents"`
	Currency        string     `json:"currency"`
	Items           []struct{} `json:"items"`
}

type paymobOrderResponse struct {
	ID int64 `json:"id"`
}

type paymobBillingData struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
}

type paymobPaymentKeyRequest struct {
	AuthToken     string            `json:"auth_token"`
	AmountCents   int64             `json:"amount_cents"`
	Expiration    int               `json:"expiration"`
	OrderID       int64             `json:"order_id"`
	BillingData   paymobBillingData `json:"billing_data"`
	Currency      string            `json:"currency"`
	IntegrationID int               `json:"integration_id"`
}

type paymobPaymentKeyResponse struct {
	Token string `json:"token"`
}
