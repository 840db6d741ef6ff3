// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/souq-backend/internal/config"
	"github.com/your-org/souq-backend/internal/domain/cart"
	"github.com/your-org/souq-backend/internal/domain/payment"
)

type stubCartReader struct {
	view *cart.CartView
	err  error
}

func (s *stubCartReader) GetItems(ctx context.Context, userID uint) (*cart.CartView, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.view == nil {
		return &cart.CartView{Items: []cart.CartItem{}}, nil
	}
	return s.view, nil
}

type stubGateway struct {
	tokenErr      error
	orderErr      error
	keyErr        error
	tokenCalls    int
	orderItems    []payment.OrderItem
	orderAmount   int64
	keyAmount     int64
	keyOrderID    int64
	billing       payment.BillingData
	billingCalled bool
}

func (s *stubGateway) GetToken(ctx context.Context) (string, error) {
	s.tokenCalls++
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return "auth-tok", nil
}

func (s *stubGateway) CreateOrder(ctx context.Context, token string, amountCents int64, items []payment.OrderItem) (int64, error) {
	if s.orderErr != nil {
		return 0, s.orderErr
	}
	s.orderAmount = amountCents
	s.orderItems = items
	return 555, nil
}

func (s *stubGateway) CreatePaymentKey(ctx context.Context, token string, amountCents int64, orderID int64, billing payment.BillingData) (string, error) {
	if s.keyErr != nil {
		return "", s.keyErr
	}
	s.keyAmount = amountCents
	s.keyOrderID = orderID
	s.billing = billing
	s.billingCalled = true
	return "payment-key-1", nil
}

type stubProfiles struct {
	buyer BuyerInfo
	err   error
}

func (s *stubProfiles) GetBuyerInfo(ctx context.Context, userID uint) (BuyerInfo, error) {
	if s.err != nil {
		return BuyerInfo{}, s.err
	}
	return s.buyer, nil
}

func newTestService(carts CartReader, gateway Gateway, profiles ProfileReader) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(carts, gateway, profiles, &config.Config{}, logger)
}

func TestProcessCheckoutRejectsNonPositiveAmount(t *testing.T) {
	gateway := &stubGateway{}
	svc := newTestService(&stubCartReader{}, gateway, &stubProfiles{})

	_, err := svc.ProcessCheckout(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ProcessCheckout(context.Background(), 1, -500)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// The gateway must never be contacted for an invalid amount
	assert.Equal(t, 0, gateway.tokenCalls)
}

func TestProcessCheckoutHappyPath(t *testing.T) {
	carts := &stubCartReader{view: &cart.CartView{Items: []cart.CartItem{
		{ProductID: 1, Name: "Rug", Category: "Home", UnitPrice: 149.99, Quantity: 2},
		{ProductID: 2, Name: "Bag", Category: "Accessories", UnitPrice: 89.00, Quantity: 1},
	}}}
	gateway := &stubGateway{}
	profiles := &stubProfiles{buyer: BuyerInfo{
		Name:  "Test User",
		Email: "test@example.com",
		Phone: "01012345678",
	}}

	svc := newTestService(carts, gateway, profiles)

	result, err := svc.ProcessCheckout(context.Background(), 1, 38898)
	require.NoError(t, err)
	assert.Equal(t, int64(555), result.OrderID)
	assert.Equal(t, "payment-key-1", result.PaymentKey)

	assert.Equal(t, int64(38898), gateway.orderAmount)
	assert.Equal(t, int64(38898), gateway.keyAmount)
	assert.Equal(t, int64(555), gateway.keyOrderID)

	require.Len(t, gateway.orderItems, 2)
	assert.Equal(t, "Rug", gateway.orderItems[0].Name)
	assert.Equal(t, int64(14999), gateway.orderItems[0].AmountCents)
	assert.Equal(t, 2, gateway.orderItems[0].Quantity)
	assert.Equal(t, int64(8900), gateway.orderItems[1].AmountCents)

	assert.Equal(t, "Test", gateway.billing.FirstName)
	assert.Equal(t, "User", gateway.billing.LastName)
	assert.Equal(t, "test@example.com", gateway.billing.Email)
	assert.Equal(t, "01012345678", gateway.billing.PhoneNumber)
	assert.Equal(t, "EG", gateway.billing.Country)
}

func TestProcessCheckoutEmptyCartStillCheckouts(t *testing.T) {
	gateway := &stubGateway{}
	svc := newTestService(&stubCartReader{}, gateway, &stubProfiles{})

	result, err := svc.ProcessCheckout(context.Background(), 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(555), result.OrderID)
	assert.Empty(t, gateway.orderItems)
}

func TestProcessCheckoutCartLoadFailureIsNotPaymentFailure(t *testing.T) {
	svc := newTestService(&stubCartReader{err: errors.New("db down")}, &stubGateway{}, &stubProfiles{})

	_, err := svc.ProcessCheckout(context.Background(), 1, 1000)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentFailed)
}

func TestProcessCheckoutGatewayFailuresMapToPaymentFailed(t *testing.T) {
	cases := []struct {
		name    string
		gateway *stubGateway
	}{
		{"auth failure", &stubGateway{tokenErr: payment.ErrAuthFailed}},
		{"order failure", &stubGateway{orderErr: payment.ErrOrderFailed}},
		{"payment key failure", &stubGateway{keyErr: payment.ErrPaymentKeyFailed}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(&stubCartReader{}, tc.gateway, &stubProfiles{})

			_, err := svc.ProcessCheckout(context.Background(), 1, 1000)
			assert.ErrorIs(t, err, ErrPaymentFailed)
		})
	}
}

func TestProcessCheckoutProfileFailureFallsBackToDefaults(t *testing.T) {
	gateway := &stubGateway{}
	profiles := &stubProfiles{err: errors.New("user not found")}

	svc := newTestService(&stubCartReader{}, gateway, profiles)

	_, err := svc.ProcessCheckout(context.Background(), 1, 1000)
	require.NoError(t, err)

	require.True(t, gateway.billingCalled)
	assert.Equal(t, "NA", gateway.billing.FirstName)
	assert.Equal(t, "NA", gateway.billing.LastName)
	assert.Equal(t, "na@example.com", gateway.billing.Email)
	assert.Equal(t, "01000000000", gateway.billing.PhoneNumber)
}

func TestNormalizeBilling(t *testing.T) {
	cases := []struct {
		name      string
		buyer     BuyerInfo
		wantFirst string
		wantLast  string
		wantEmail string
		wantPhone string
	}{
		{
			name:      "all valid",
			buyer:     BuyerInfo{Name: "Ahmed Hassan", Email: "ahmed@example.com", Phone: "01112345678"},
			wantFirst: "Ahmed",
			wantLast:  "Hassan",
			wantEmail: "ahmed@example.com",
			wantPhone: "01112345678",
		},
		{
			name:      "single word name",
			buyer:     BuyerInfo{Name: "Ahmed", Email: "ahmed@example.com", Phone: "01112345678"},
			wantFirst: "Ahmed",
			wantLast:  "NA",
			wantEmail: "ahmed@example.com",
			wantPhone: "01112345678",
		},
		{
			name:      "invalid email",
			buyer:     BuyerInfo{Name: "Ahmed Hassan", Email: "not-an-email", Phone: "01112345678"},
			wantFirst: "Ahmed",
			wantLast:  "Hassan",
			wantEmail: "na@example.com",
			wantPhone: "01112345678",
		},
		{
			name:      "foreign phone number",
			buyer:     BuyerInfo{Name: "Ahmed Hassan", Email: "ahmed@example.com", Phone: "+441234567890"},
			wantFirst: "Ahmed",
			wantLast:  "Hassan",
			wantEmail: "ahmed@example.com",
			wantPhone: "01000000000",
		},
		{
			name:      "short phone number",
			buyer:     BuyerInfo{Name: "Ahmed Hassan", Email: "ahmed@example.com", Phone: "0111234567"},
			wantFirst: "Ahmed",
			wantLast:  "Hassan",
			wantEmail: "ahmed@example.com",
			wantPhone: "01000000000",
		},
		{
			name:      "everything blank",
			buyer:     BuyerInfo{},
			wantFirst: "NA",
			wantLast:  "NA",
			wantEmail: "na@example.com",
			wantPhone: "01000000000",
		},
		{
			name:      "three part name",
			buyer:     BuyerInfo{Name: "Ahmed Ali Hassan", Email: "ahmed@example.com", Phone: "01112345678"},
			wantFirst: "Ahmed",
			wantLast:  "Ali Hassan",
			wantEmail: "ahmed@example.com",
			wantPhone: "01112345678",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			billing := normalizeBilling(tc.buyer)

			assert.Equal(t, tc.wantFirst, billing.FirstName)
			assert.Equal(t, tc.wantLast, billing.LastName)
			assert.Equal(t, tc.wantEmail, billing.Email)
			assert.Equal(t, tc.wantPhone, billing.PhoneNumber)
			assert.Equal(t, "EG", billing.Country)
		})
	}
}
