// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"time"

	"github.com/your-org/souq-backend/internal/domain/product"
)

// Domain errors surfaced by cart operations
var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
)

// Cart represents one user's shopping cart
type Cart struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	TotalAmount float64    `gorm:"not null;default:0" json:"totalAmount"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CartItem represents one product's presence in a cart. Display fields are a
// snapshot of the product at the time the item was first added; the unit
// price is never refreshed from the catalog on subsequent adds.
type CartItem struct {
	ID          uint              `gorm:"primaryKey" json:"-"`
	CartID      uint              `gorm:"not null;uniqueIndex:idx_cart_items_cart_product,priority:1" json:"-"`
	ProductID   uint              `gorm:"not null;uniqueIndex:idx_cart_items_cart_product,priority:2" json:"id"`
	Name        string            `gorm:"size:255" json:"name"`
	NameAr      string            `gorm:"size:255" json:"name_ar"`
	Category    string            `gorm:"size:100" json:"category"`
	CategoryAr  string            `gorm:"size:100" json:"category_ar"`
	ProductType string            `gorm:"size:100" json:"productType"`
	Image       product.ImageFile `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Currency    string            `gorm:"size:3;default:'EGP'" json:"currency"`
	UnitPrice   float64           `gorm:"not null;default:0" json:"price"`
	Quantity    int               `gorm:"not null;default:1" json:"quantity"`
	TotalPrice  float64           `gorm:"not null;default:0" json:"totalPrice"`
	CreatedAt   time.Time         `json:"-"`
	UpdatedAt   time.Time         `json:"-"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// FindItem returns the line holding productID, or nil
func (c *Cart) FindItem(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem merges quantity into an existing line or appends a new one. A
// duplicate add keeps the stored unit price and recomputes the line total
// from it. Returns the affected line.
func (c *Cart) AddItem(line CartItem, quantity int) *CartItem {
	if existing := c.FindItem(line.ProductID); existing != nil {
		existing.Quantity += quantity
		existing.TotalPrice = existing.UnitPrice * float64(existing.Quantity)
		c.recalculateTotal()
		return existing
	}

	line.CartID = c.ID
	line.Quantity = quantity
	line.TotalPrice = line.UnitPrice * float64(quantity)
	c.Items = append(c.Items, line)
	c.recalculateTotal()
	return &c.Items[len(c.Items)-1]
}

// IncreaseItem increments the matched line's quantity by exactly 1
func (c *Cart) IncreaseItem(productID uint) error {
	item := c.FindItem(productID)
	if item == nil {
		return ErrItemNotFound
	}

	item.Quantity++
	item.TotalPrice = item.UnitPrice * float64(item.Quantity)
	c.recalculateTotal()
	return nil
}

// DecreaseItem decrements the matched line's quantity by 1. A quantity-1 line
// is removed entirely; quantity never reaches 0 while the line exists. The
// returned flag reports whether the line was removed.
func (c *Cart) DecreaseItem(productID uint) (bool, error) {
	item := c.FindItem(productID)
	if item == nil {
		return false, ErrItemNotFound
	}

	if item.Quantity > 1 {
		item.Quantity--
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		c.recalculateTotal()
		return false, nil
	}

	c.removeItem(productID)
	return true, nil
}

// RemoveItem deletes the line holding productID
func (c *Cart) RemoveItem(productID uint) error {
	if c.FindItem(productID) == nil {
		return ErrItemNotFound
	}
	c.removeItem(productID)
	return nil
}

// Clear empties all lines and resets the total to 0
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.TotalAmount = 0
}

func (c *Cart) removeItem(productID uint) {
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items
	c.recalculateTotal()
}

// recalculateTotal rederives the cart total from the current lines. The
// total is never mutated independently of the lines.
func (c *Cart) recalculateTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	c.TotalAmount = total
}
