// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/souq-backend/internal/config"
	"github.com/your-org/souq-backend/internal/domain/cart"
	"github.com/your-org/souq-backend/internal/domain/payment"
)

// Checkout errors surfaced to callers
var (
	ErrInvalidAmount = errors.New("total amount must be a positive number")
	ErrPaymentFailed = errors.New("payment processing failed")
)

// Billing fields failing their shape check are replaced with these defaults
// rather than aborting the checkout.
const (
	defaultBillingName  = "NA"
	defaultBillingEmail = "na@example.com"
	defaultBillingPhone = "01000000000"
)

// Egyptian mobile numbers: 11 digits starting with 01
var phonePattern = regexp.MustCompile(`^01[0-9]{9}$`)

// CartReader exposes the read-only cart snapshot the orchestrator consumes
type CartReader interface {
	GetItems(ctx context.Context, userID uint) (*cart.CartView, error)
}

// Gateway drives the payment provider's two-step order/payment-key protocol
type Gateway interface {
	GetToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, token string, amountCents int64, items []payment.OrderItem) (int64, error)
	CreatePaymentKey(ctx context.Context, token string, amountCents int64, orderID int64, billing payment.BillingData) (string, error)
}

// BuyerInfo is the contact data fed into gateway billing
type BuyerInfo struct {
	Name  string
	Email string
	Phone string
}

// ProfileReader resolves the authenticated user's contact fields
type ProfileReader interface {
	GetBuyerInfo(ctx context.Context, userID uint) (BuyerInfo, error)
}

// Result is returned to the client on a successful checkout
type Result struct {
	OrderID    int64  `json:"orderId"`
	PaymentKey string `json:"paymentKey"`
}

// Service sequences credential fetch, remote order creation and payment-key
// issuance. It persists no local order record: confirmed payments are
// reconciled out-of-band via the gateway callback.
type Service struct {
	carts    CartReader
	gateway  Gateway
	profiles ProfileReader
	config   *config.Config
	logger   *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts CartReader, gateway Gateway, profiles ProfileReader, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		gateway:  gateway,
		profiles: profiles,
		config:   cfg,
		logger:   logger,
	}
}

// ProcessCheckout turns the user's cart into a remote order and a payment
// token. Any gateway failure aborts the whole flow; nothing is recorded
// locally and nothing is retried here. A fresh checkout request is the
// caller's retry path.
func (s *Service) ProcessCheckout(ctx context.Context, userID uint, amountCents int64) (*Result, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	// Absence of a cart is not an error: checkout proceeds with no line items
	view, err := s.carts.GetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	token, err := s.gateway.GetToken(ctx)
	if err != nil {
		s.logger.WithError(err).Error("gateway authentication failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	orderID, err := s.gateway.CreateOrder(ctx, token, amountCents, orderItems(view.Items))
	if err != nil {
		s.logger.WithError(err).Error("gateway order creation failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	buyer, err := s.profiles.GetBuyerInfo(ctx, userID)
	if err != nil {
		// Billing falls back to safe defaults; a missing profile never
		// aborts a checkout that already has a remote order.
		s.logger.WithError(err).WithField("user_id", userID).Warn("buyer profile lookup failed")
		buyer = BuyerInfo{}
	}

	key, err := s.gateway.CreatePaymentKey(ctx, token, amountCents, orderID, normalizeBilling(buyer))
	if err != nil {
		s.logger.WithError(err).Error("gateway payment key creation failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": orderID,
		"amount":   amountCents,
	}).Info("checkout completed")

	return &Result{OrderID: orderID, PaymentKey: key}, nil
}

// orderItems maps cart lines to the gateway's line-item shape. Gateway
// amounts are minor currency units.
func orderItems(items []cart.CartItem) []payment.OrderItem {
	mapped := make([]payment.OrderItem, len(items))
	for i, item := range items {
		mapped[i] = payment.OrderItem{
			Name:        item.Name,
			AmountCents: int64(math.Round(item.UnitPrice * 100)),
			Quantity:    item.Quantity,
			Description: item.Category,
		}
	}
	return mapped
}

// normalizeBilling validates each contact field independently against a cheap
// shape check and substitutes a fixed default for any field that fails
func normalizeBilling(buyer BuyerInfo) payment.BillingData {
	name := strings.TrimSpace(buyer.Name)
	if name == "" {
		name = defaultBillingName
	}

	email := buyer.Email
	if !strings.Contains(email, "@") {
		email = defaultBillingEmail
	}

	phone := buyer.Phone
	if !phonePattern.MatchString(phone) {
		phone = defaultBillingPhone
	}

	first, last := splitName(name)
	return payment.BillingData{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: phone,
		Country:     "EG",
		City:        "NA",
		Street:      "NA",
		Building:    "NA",
		Floor:       "NA",
		Apartment:   "NA",
	}
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name, defaultBillingName
	}
	return parts[0], strings.Join(parts[1:], " ")
}
