// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/souq-backend/internal/config"
	"github.com/your-org/souq-backend/internal/domain/cart"
	"github.com/your-org/souq-backend/internal/domain/checkout"
	"github.com/your-org/souq-backend/internal/domain/favorites"
	"github.com/your-org/souq-backend/internal/domain/payment"
	"github.com/your-org/souq-backend/internal/domain/product"
	"github.com/your-org/souq-backend/internal/domain/user"
	"github.com/your-org/souq-backend/internal/interfaces/http/handlers"
	"github.com/your-org/souq-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API v1 routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	// Domain services
	userService := user.NewService(db, cfg)
	productService := product.NewService(db, redisClient, cfg, log)
	cartService := cart.NewService(db, productService, cfg, log)
	favoritesService := favorites.NewService(db, cfg)

	gateway := payment.NewClient(cfg.Paymob, log)
	profiles := handlers.NewBuyerProfileAdapter(userService)
	checkoutService := checkout.NewService(cartService, gateway, profiles, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService)

	setupAuthRoutes(rg, authHandler, cfg)
	setupProductRoutes(rg, productHandler, favoritesHandler, cfg)
	setupCartRoutes(rg, cartHandler, checkoutHandler, cfg)
	setupListRoutes(rg, favoritesHandler, cfg)
}

func setupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", h.GetProfile)
		}
	}
}

func setupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler, fav *handlers.FavoritesHandler, cfg *config.Config) {
	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/related", h.GetRelatedProducts)
	}

	// Saving a product to a list requires authentication
	saved := rg.Group("/products")
	saved.Use(middleware.AuthMiddleware(cfg))
	{
		saved.POST("/:id/favorite", fav.AddFavorite)
		saved.POST("/:id/compare", fav.AddCompare)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, ch *handlers.CheckoutHandler, cfg *config.Config) {
	carts := rg.Group("/cart")
	carts.Use(middleware.AuthMiddleware(cfg))
	{
		carts.POST("", h.AddToCart)
		carts.GET("/items/:userId", h.GetItems)
		carts.PATCH("/increase/:itemId", h.IncreaseQuantity)
		carts.PATCH("/decrease/:itemId", h.DecreaseQuantity)
		carts.DELETE("/remove/:itemId", h.RemoveItem)
		carts.DELETE("/clear", h.ClearCart)

		carts.POST("/payment", ch.ProcessPayment)
	}
}

func setupListRoutes(rg *gin.RouterGroup, h *handlers.FavoritesHandler, cfg *config.Config) {
	favs := rg.Group("/favorites")
	favs.Use(middleware.AuthMiddleware(cfg))
	{
		favs.GET("", h.GetFavorites)
		favs.DELETE("", h.ClearFavorites)
		favs.DELETE("/:itemId", h.RemoveFavorite)
	}

	compares := rg.Group("/compare")
	compares.Use(middleware.AuthMiddleware(cfg))
	{
		compares.GET("", h.GetCompares)
		compares.DELETE("", h.ClearCompares)
		compares.DELETE("/:itemId", h.RemoveCompare)
	}
}
