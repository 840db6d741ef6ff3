// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/souq-backend/internal/domain/cart"
	"github.com/your-org/souq-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields: id or quantity",
			"details": err.Error(),
		})
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		h.renderCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product added to cart",
		"items":   view.Items,
		"cart":    view.Cart,
	})
}

// GetItems handles GET /cart/items/:userId
func (h *CartHandler) GetItems(c *gin.Context) {
	authUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	targetID := authUserID
	if param := c.Param("userId"); param != "" {
		parsed, err := strconv.ParseUint(param, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required."})
			return
		}
		targetID = uint(parsed)
	}

	// A user may only read their own cart
	if targetID != authUserID && !middleware.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	view, err := h.cartService.GetItems(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error fetching cart items",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": view.Items,
		"cart":  view.Cart,
	})
}

// IncreaseQuantity handles PATCH /cart/increase/:itemId
func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	view, err := h.cartService.IncreaseQuantity(c.Request.Context(), userID, productID)
	if err != nil {
		h.renderCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quantity increased",
		"items":   view.Items,
		"cart":    view.Cart,
	})
}

// DecreaseQuantity handles PATCH /cart/decrease/:itemId
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	view, err := h.cartService.DecreaseQuantity(c.Request.Context(), userID, productID)
	if err != nil {
		h.renderCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quantity decreased",
		"items":   view.Items,
		"cart":    view.Cart,
	})
}

// RemoveItem handles DELETE /cart/remove/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	view, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.renderCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed",
		"items":   view.Items,
		"cart":    view.Cart,
	})
}

// ClearCart handles DELETE /cart/clear
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	view, err := h.cartService.ClearCart(c.Request.Context(), userID)
	if err != nil {
		h.renderCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
		"items":   []cart.CartItem{},
		"cart":    view.Cart,
	})
}

// userAndItem extracts the authenticated user and the :itemId path parameter
func (h *CartHandler) userAndItem(c *gin.Context) (uint, uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return 0, 0, false
	}

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return 0, 0, false
	}

	return userID, uint(itemID), true
}

func (h *CartHandler) renderCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, cart.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Server error",
			"details": err.Error(),
		})
	}
}
