// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/souq-backend/internal/domain/checkout"
	"github.com/your-org/souq-backend/internal/domain/user"
	"github.com/your-org/souq-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles payment initiation
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// PaymentRequest is the checkout request body. The amount is in minor
// currency units, the same unit the gateway charges in.
type PaymentRequest struct {
	TotalAmount int64 `json:"totalAmount"`
}

// ProcessPayment handles POST /cart/payment
func (h *CheckoutHandler) ProcessPayment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing total amount"})
		return
	}

	result, err := h.checkoutService.ProcessCheckout(c.Request.Context(), userID, req.TotalAmount)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing total amount"})
		case errors.Is(err, checkout.ErrPaymentFailed):
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Payment processing failed",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Payment processing failed",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"paymentKey": result.PaymentKey,
		"orderId":    result.OrderID,
	})
}

// BuyerProfileAdapter bridges the user service to the checkout orchestrator's
// profile lookup without the user package importing checkout.
type BuyerProfileAdapter struct {
	users *user.Service
}

// NewBuyerProfileAdapter creates a profile adapter over the user service
func NewBuyerProfileAdapter(users *user.Service) *BuyerProfileAdapter {
	return &BuyerProfileAdapter{users: users}
}

// GetBuyerInfo resolves the contact fields used for gateway billing
func (a *BuyerProfileAdapter) GetBuyerInfo(ctx context.Context, userID uint) (checkout.BuyerInfo, error) {
	u, err := a.users.GetProfile(ctx, userID)
	if err != nil {
		return checkout.BuyerInfo{}, err
	}
	return checkout.BuyerInfo{
		Name:  u.GetFullName(),
		Email: u.Email,
		Phone: u.Phone,
	}, nil
}
