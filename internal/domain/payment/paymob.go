// internal/domain/payment/paymob.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/souq-backend/internal/config"
)

// Gateway contract errors
var (
	ErrAuthFailed       = errors.New("gateway authentication failed")
	ErrOrderFailed      = errors.New("gateway order creation failed")
	ErrPaymentKeyFailed = errors.New("gateway payment key creation failed")
)

// Client calls the Paymob acceptance API. It holds one process-wide bearer
// credential with expiry so that many checkouts share a single auth call.
type Client struct {
	config     config.PaymobConfig
	httpClient *http.Client
	logger     *logrus.Logger
	now        func() time.Time

	// mu guards token and tokenExpiry. The pair is replaced atomically under
	// the lock; concurrent refreshes are last-writer-wins.
	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a new Paymob client
func NewClient(cfg config.PaymobConfig, logger *logrus.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// OrderItem is the gateway's line-item shape
type OrderItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// BillingData is the buyer contact block required by the payment key endpoint
type BillingData struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Street      string `json:"street"`
	Building    string `json:"building"`
	Floor       string `json:"floor"`
	Apartment   string `json:"apartment"`
}

type authRequest struct {
	APIKey string `json:"api_key"`
}

type authResponse struct {
	Token string `json:"token"`
}

type orderRequest struct {
	AuthToken   string      `json:"auth_token"`
	AmountCents int64       `json:"amount_cents"`
	Currency    string      `json:"currency"`
	Items       []OrderItem `json:"items"`
}

type orderResponse struct {
	ID int64 `json:"id"`
}

type paymentKeyRequest struct {
	AuthToken     string      `json:"auth_token"`
	AmountCents   int64       `json:"amount_cents"`
	Expiration    int         `json:"expiration"`
	OrderID       int64       `json:"order_id"`
	Currency      string      `json:"currency"`
	IntegrationID string      `json:"integration_id"`
	BillingData   BillingData `json:"billing_data"`
}

type paymentKeyResponse struct {
	Token string `json:"token"`
}

// GetToken returns the cached credential while it is still valid; otherwise
// it authenticates against the gateway and caches the fresh token for the
// configured validity window. A failed refresh caches nothing.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	var resp authResponse
	if err := c.post(ctx, "/auth/tokens", authRequest{APIKey: c.config.APIKey}, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: response contained no token", ErrAuthFailed)
	}

	c.mu.Lock()
	c.token = resp.Token
	c.tokenExpiry = c.now().Add(c.config.TokenTTL)
	c.mu.Unlock()

	c.logger.Debug("gateway credential refreshed")
	return resp.Token, nil
}

// CreateOrder registers an order on the gateway side and returns its remote
// identifier
func (c *Client) CreateOrder(ctx context.Context, token string, amountCents int64, items []OrderItem) (int64, error) {
	req := orderRequest{
		AuthToken:   token,
		AmountCents: amountCents,
		Currency:    c.config.Currency,
		Items:       items,
	}

	var resp orderResponse
	if err := c.post(ctx, "/ecommerce/orders", req, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOrderFailed, err)
	}
	if resp.ID == 0 {
		return 0, fmt.Errorf("%w: response contained no order id", ErrOrderFailed)
	}

	return resp.ID, nil
}

// CreatePaymentKey requests the payment token handed to the client-side
// payment widget
func (c *Client) CreatePaymentKey(ctx context.Context, token string, amountCents int64, orderID int64, billing BillingData) (string, error) {
	req := paymentKeyRequest{
		AuthToken:     token,
		AmountCents:   amountCents,
		Expiration:    3600,
		OrderID:       orderID,
		Currency:      c.config.Currency,
		IntegrationID: c.config.IntegrationID,
		BillingData:   billing,
	}

	var resp paymentKeyResponse
	if err := c.post(ctx, "/acceptance/payment_keys", req, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentKeyFailed, err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: response contained no token", ErrPaymentKeyFailed)
	}

	return resp.Token, nil
}

// post makes a JSON POST to the gateway and decodes the response body
func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var respBody bytes.Buffer
		respBody.ReadFrom(resp.Body)
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, respBody.String())
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
