// internal/interfaces/http/handlers/favorites.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/souq-backend/internal/domain/favorites"
	"github.com/your-org/souq-backend/internal/interfaces/http/middleware"
)

// FavoritesHandler handles favorites and compare list endpoints
type FavoritesHandler struct {
	favoritesService *favorites.Service
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(favoritesService *favorites.Service) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesService: favoritesService,
	}
}

// AddFavorite handles POST /products/:itemId/favorite
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	if err := h.favoritesService.AddFavorite(c.Request.Context(), userID, productID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product added to favorites"})
}

// GetFavorites handles GET /favorites
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	products, err := h.favoritesService.GetFavorites(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// RemoveFavorite handles DELETE /favorites/:itemId
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	if err := h.favoritesService.RemoveFavorite(c.Request.Context(), userID, productID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from favorites"})
}

// ClearFavorites handles DELETE /favorites
func (h *FavoritesHandler) ClearFavorites(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.favoritesService.ClearFavorites(c.Request.Context(), userID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorites cleared"})
}

// AddCompare handles POST /products/:itemId/compare
func (h *FavoritesHandler) AddCompare(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	if err := h.favoritesService.AddCompare(c.Request.Context(), userID, productID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product added to compare list"})
}

// GetCompares handles GET /compare
func (h *FavoritesHandler) GetCompares(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	products, err := h.favoritesService.GetCompares(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// RemoveCompare handles DELETE /compare/:itemId
func (h *FavoritesHandler) RemoveCompare(c *gin.Context) {
	userID, productID, ok := h.userAndItem(c)
	if !ok {
		return
	}

	if err := h.favoritesService.RemoveCompare(c.Request.Context(), userID, productID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from compare list"})
}

// ClearCompares handles DELETE /compare
func (h *FavoritesHandler) ClearCompares(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.favoritesService.ClearCompares(c.Request.Context(), userID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Compare list cleared"})
}

func (h *FavoritesHandler) userAndItem(c *gin.Context) (uint, uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return 0, 0, false
	}

	// Product-scoped routes bind the parameter as :id, list-scoped ones as :itemId
	param := c.Param("itemId")
	if param == "" {
		param = c.Param("id")
	}

	itemID, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid item ID"})
		return 0, 0, false
	}

	return userID, uint(itemID), true
}

func (h *FavoritesHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, favorites.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, favorites.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Server error",
			"details": err.Error(),
		})
	}
}
