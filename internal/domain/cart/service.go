// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/souq-backend/internal/config"
	"github.com/your-org/souq-backend/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductLookup resolves product references to canonical catalog records
type ProductLookup interface {
	GetProduct(ctx context.Context, id uint) (*product.Product, error)
}

// Service handles cart business logic. Every mutation runs as a row-locked
// read-modify-write against the owning user's cart, so concurrent requests
// for the same user are serialized and the total is persisted together with
// the lines.
type Service struct {
	db       *gorm.DB
	products ProductLookup
	config   *config.Config
	logger   *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, products ProductLookup, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		products: products,
		config:   cfg,
		logger:   logger,
	}
}

// AddItemRequest represents an add-to-cart request. The display fields are
// fallbacks used only for attributes the catalog record lacks.
type AddItemRequest struct {
	ProductID   uint              `json:"id" binding:"required"`
	Quantity    int               `json:"quantity"`
	Name        string            `json:"name"`
	NameAr      string            `json:"name_ar"`
	Category    string            `json:"category"`
	CategoryAr  string            `json:"category_ar"`
	ProductType string            `json:"productType"`
	Price       float64           `json:"price"`
	Image       product.ImageFile `json:"image"`
	Currency    string            `json:"currency"`
}

// CartView is the response shape shared by every cart operation
type CartView struct {
	Items []CartItem `json:"items"`
	Cart  *Cart      `json:"cart"`
}

// AddItem adds a product to the user's cart, merging quantities when a line
// for the product already exists. The unit price is captured from the catalog
// at first add and is not refreshed on subsequent adds.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*CartView, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	prod, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}

	var view *CartView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.lockCart(tx, userID, true)
		if err != nil {
			return err
		}

		added := c.AddItem(snapshotLine(prod, req), req.Quantity)
		if added.ID == 0 {
			if err := tx.Create(added).Error; err != nil {
				return fmt.Errorf("failed to create cart item: %w", err)
			}
		} else {
			if err := tx.Save(added).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		}

		if err := s.persistTotal(tx, c); err != nil {
			return err
		}

		view = &CartView{Items: c.Items, Cart: c}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	}).Info("item added to cart")

	return view, nil
}

// GetItems returns a display projection of the user's cart. A missing cart is
// not an error: the projection is simply empty. Line snapshots take
// precedence over live product data; live data only fills blanks.
func (s *Service) GetItems(ctx context.Context, userID uint) (*CartView, error) {
	c, err := s.loadCart(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return &CartView{Items: []CartItem{}}, nil
		}
		return nil, err
	}

	items := make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		prod, err := s.products.GetProduct(ctx, item.ProductID)
		if err == nil {
			coalesceAgainstProduct(&item, prod)
		}
		if item.TotalPrice == 0 {
			item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		}
		items[i] = item
	}

	return &CartView{Items: items, Cart: c}, nil
}

// RemoveItem deletes the line holding productID and recomputes the total
func (s *Service) RemoveItem(ctx context.Context, userID, productID uint) (*CartView, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, c *Cart) error {
		if err := c.RemoveItem(productID); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ? AND product_id = ?", c.ID, productID).
			Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart item: %w", err)
		}
		return nil
	})
}

// ClearCart empties all lines and resets the total to 0
func (s *Service) ClearCart(ctx context.Context, userID uint) (*CartView, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, c *Cart) error {
		c.Clear()
		if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart items: %w", err)
		}
		return nil
	})
}

// IncreaseQuantity increments the matched line's quantity by exactly 1
func (s *Service) IncreaseQuantity(ctx context.Context, userID, productID uint) (*CartView, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, c *Cart) error {
		if err := c.IncreaseItem(productID); err != nil {
			return err
		}
		return tx.Save(c.FindItem(productID)).Error
	})
}

// DecreaseQuantity decrements the matched line's quantity by 1, removing the
// line entirely when its quantity is 1
func (s *Service) DecreaseQuantity(ctx context.Context, userID, productID uint) (*CartView, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, c *Cart) error {
		removed, err := c.DecreaseItem(productID)
		if err != nil {
			return err
		}
		if removed {
			return tx.Where("cart_id = ? AND product_id = ?", c.ID, productID).
				Delete(&CartItem{}).Error
		}
		return tx.Save(c.FindItem(productID)).Error
	})
}

// mutate runs fn inside a transaction holding the user's locked cart, then
// persists the recomputed total. An absent cart fails with ErrCartNotFound.
func (s *Service) mutate(ctx context.Context, userID uint, fn func(tx *gorm.DB, c *Cart) error) (*CartView, error) {
	var view *CartView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.lockCart(tx, userID, false)
		if err != nil {
			return err
		}

		if err := fn(tx, c); err != nil {
			return err
		}

		if err := s.persistTotal(tx, c); err != nil {
			return err
		}

		view = &CartView{Items: c.Items, Cart: c}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// lockCart loads the user's cart row under FOR UPDATE, optionally creating it
// lazily, then attaches its lines
func (s *Service) lockCart(tx *gorm.DB, userID uint, createIfMissing bool) (*Cart, error) {
	var c Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !createIfMissing {
			return nil, ErrCartNotFound
		}
		c = Cart{UserID: userID, Items: []CartItem{}}
		if err := tx.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := tx.Where("cart_id = ?", c.ID).Order("created_at ASC").Find(&c.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	return &c, nil
}

// loadCart reads the cart without locking, for display projections
func (s *Service) loadCart(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at ASC") }).
		Where("user_id = ?", userID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &c, nil
}

// persistTotal stores the rederived total together with the line mutation,
// inside the same transaction
func (s *Service) persistTotal(tx *gorm.DB, c *Cart) error {
	if err := tx.Model(&Cart{}).Where("id = ?", c.ID).
		Update("total_amount", c.TotalAmount).Error; err != nil {
		return fmt.Errorf("failed to persist cart total: %w", err)
	}
	return nil
}

// snapshotLine builds a new cart line from the canonical product record,
// falling back to caller-supplied display fields only where the record is
// blank
func snapshotLine(prod *product.Product, req *AddItemRequest) CartItem {
	line := CartItem{
		ProductID:   prod.ID,
		Name:        coalesce(prod.Name, req.Name),
		NameAr:      coalesce(prod.NameAr, req.NameAr),
		Category:    coalesce(prod.Category, req.Category),
		CategoryAr:  coalesce(prod.CategoryAr, req.CategoryAr),
		ProductType: coalesce(prod.ProductType, req.ProductType),
		Currency:    coalesce(prod.Currency, req.Currency, "EGP"),
		UnitPrice:   prod.Price,
		Image:       prod.Image,
	}
	if line.UnitPrice == 0 && req.Price > 0 {
		line.UnitPrice = req.Price
	}
	if line.Image.FilePath == "" {
		line.Image = req.Image
	}
	return line
}

// coalesceAgainstProduct fills blank display fields from live product data.
// The stored snapshot always wins when present.
func coalesceAgainstProduct(item *CartItem, prod *product.Product) {
	item.Name = coalesce(item.Name, prod.Name)
	item.NameAr = coalesce(item.NameAr, prod.NameAr)
	item.Category = coalesce(item.Category, prod.Category)
	item.CategoryAr = coalesce(item.CategoryAr, prod.CategoryAr)
	item.ProductType = coalesce(item.ProductType, prod.ProductType)
	item.Currency = coalesce(item.Currency, prod.Currency)
	if item.Image.FilePath == "" {
		item.Image = prod.Image
	}
	if item.UnitPrice == 0 {
		item.UnitPrice = prod.Price
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
