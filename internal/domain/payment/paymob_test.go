// internal/domain/payment/paymob_test.go
package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/souq-backend/internal/config"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := NewClient(config.PaymobConfig{
		APIKey:        "test-api-key",
		IntegrationID: "12345",
		BaseURL:       server.URL,
		Currency:      "EGP",
		TokenTTL:      time.Hour,
		Timeout:       5 * time.Second,
	}, logger)

	return client, server
}

func TestGetTokenCachesWithinValidityWindow(t *testing.T) {
	var authCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})

	client, _ := testClient(t, mux)

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// Repeated calls inside the window reuse the cached credential
	for i := 0; i < 5; i++ {
		token, err = client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&authCalls))
}

func TestGetTokenRefreshesAfterExpiry(t *testing.T) {
	var authCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		calls := atomic.AddInt64(&authCalls, 1)
		if calls == 1 {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-2"})
	})

	client, _ := testClient(t, mux)

	current := time.Now()
	client.now = func() time.Time { return current }

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	// Advance past the validity window; exactly one refresh should happen
	current = current.Add(time.Hour + time.Minute)

	token, err = client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	token, err = client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	assert.Equal(t, int64(2), atomic.LoadInt64(&authCalls))
}

func TestGetTokenMissingTokenInResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	client, _ := testClient(t, mux)

	_, err := client.GetToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)

	// A failed refresh caches nothing; the next call hits the gateway again
	_, err = client.GetToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestGetTokenGatewayError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "invalid api key"}`, http.StatusUnauthorized)
	})

	client, _ := testClient(t, mux)

	_, err := client.GetToken(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestCreateOrderSendsAmountAndItems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ecommerce/orders", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "auth-tok", req["auth_token"])
		assert.Equal(t, float64(15000), req["amount_cents"])
		assert.Equal(t, "EGP", req["currency"])

		items, _ := req["items"].([]interface{})
		assert.Len(t, items, 1)

		json.NewEncoder(w).Encode(map[string]int64{"id": 987})
	})

	client, _ := testClient(t, mux)

	orderID, err := client.CreateOrder(context.Background(), "auth-tok", 15000, []OrderItem{
		{Name: "Rug", AmountCents: 15000, Quantity: 1, Description: "Home"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(987), orderID)
}

func TestCreateOrderMissingID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ecommerce/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	client, _ := testClient(t, mux)

	_, err := client.CreateOrder(context.Background(), "auth-tok", 1000, nil)
	assert.ErrorIs(t, err, ErrOrderFailed)
}

func TestCreatePaymentKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/acceptance/payment_keys", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "auth-tok", req["auth_token"])
		assert.Equal(t, float64(3600), req["expiration"])
		assert.Equal(t, float64(987), req["order_id"])
		assert.Equal(t, "12345", req["integration_id"])

		billing, _ := req["billing_data"].(map[string]interface{})
		assert.Equal(t, "EG", billing["country"])

		json.NewEncoder(w).Encode(map[string]string{"token": "payment-key-1"})
	})

	client, _ := testClient(t, mux)

	key, err := client.CreatePaymentKey(context.Background(), "auth-tok", 15000, 987, BillingData{
		FirstName:   "Test",
		LastName:    "User",
		Email:       "test@example.com",
		PhoneNumber: "01012345678",
		Country:     "EG",
	})
	require.NoError(t, err)
	assert.Equal(t, "payment-key-1", key)
}

func TestCreatePaymentKeyMissingToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/acceptance/payment_keys", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	client, _ := testClient(t, mux)

	_, err := client.CreatePaymentKey(context.Background(), "auth-tok", 1000, 1, BillingData{})
	assert.ErrorIs(t, err, ErrPaymentKeyFailed)
}
