// internal/domain/favorites/entity.go
package favorites

import (
	"time"
)

// FavoriteItem marks a product saved to a user's favorites list
type FavoriteItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product,priority:1" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product,priority:2" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CompareItem marks a product added to a user's compare list
type CompareItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_compares_user_product,priority:1" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_compares_user_product,priority:2" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (FavoriteItem) TableName() string { return "favorite_items" }
func (CompareItem) TableName() string  { return "compare_items" }
