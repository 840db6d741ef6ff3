// internal/domain/favorites/service.go
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/souq-backend/internal/config"
	"github.com/your-org/souq-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("item not found in list")
)

// Service handles favorites and compare lists
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new favorites service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddFavorite saves a product to the user's favorites. Adding an already
// saved product is a no-op.
func (s *Service) AddFavorite(ctx context.Context, userID, productID uint) error {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return err
	}

	item := FavoriteItem{UserID: userID, ProductID: productID}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		FirstOrCreate(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// GetFavorites returns the products on the user's favorites list
func (s *Service) GetFavorites(ctx context.Context, userID uint) ([]product.Product, error) {
	return s.listProducts(ctx, userID, FavoriteItem{}.TableName())
}

// RemoveFavorite removes a product from the user's favorites
func (s *Service) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&FavoriteItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ClearFavorites removes every product from the user's favorites
func (s *Service) ClearFavorites(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&FavoriteItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

// AddCompare adds a product to the user's compare list
func (s *Service) AddCompare(ctx context.Context, userID, productID uint) error {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return err
	}

	item := CompareItem{UserID: userID, ProductID: productID}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		FirstOrCreate(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add compare item: %w", err)
	}
	return nil
}

// GetCompares returns the products on the user's compare list
func (s *Service) GetCompares(ctx context.Context, userID uint) ([]product.Product, error) {
	return s.listProducts(ctx, userID, CompareItem{}.TableName())
}

// RemoveCompare removes a product from the user's compare list
func (s *Service) RemoveCompare(ctx context.Context, userID, productID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CompareItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove compare item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ClearCompares removes every product from the user's compare list
func (s *Service) ClearCompares(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CompareItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear compare list: %w", err)
	}
	return nil
}

func (s *Service) ensureProduct(ctx context.Context, productID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&product.Product{}).
		Where("id = ? AND is_active = ?", productID, true).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *Service) listProducts(ctx context.Context, userID uint, listTable string) ([]product.Product, error) {
	var products []product.Product
	err := s.db.WithContext(ctx).
		Joins(fmt.Sprintf("JOIN %s ON %s.product_id = products.id", listTable, listTable)).
		Where(fmt.Sprintf("%s.user_id = ?", listTable), userID).
		Order(fmt.Sprintf("%s.created_at DESC", listTable)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
