// internal/domain/product/service.go
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/souq-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not exist or is inactive
var ErrNotFound = errors.New("product not found")

const cacheTTL = 10 * time.Minute

// Service handles product catalog reads
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	logger      *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		logger:      logger,
	}
}

// ListRequest represents product listing filters
type ListRequest struct {
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// GetProduct returns a single active product by ID, consulting the cache first
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	cacheKey := fmt.Sprintf("product:%d", id)

	if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var prod Product
		if err := json.Unmarshal([]byte(cached), &prod); err == nil {
			return &prod, nil
		}
	}

	var prod Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&prod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}

	if data, err := json.Marshal(&prod); err == nil {
		if err := s.redisClient.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
			s.logger.WithError(err).Warn("product cache write failed")
		}
	}

	return &prod, nil
}

// ListProducts returns visible products, optionally filtered by category
func (s *Service) ListProducts(ctx context.Context, req *ListRequest) ([]Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&Product{}).
		Where("is_active = ? AND has_show = ?", true, true)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Featured != nil {
		query = query.Where("is_featured = ?", *req.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var products []Product
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// GetRelatedProducts returns products sharing a category, excluding the product itself
func (s *Service) GetRelatedProducts(ctx context.Context, category string, excludeID uint, limit int) ([]Product, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Where("category = ? AND id <> ? AND is_active = ?", category, excludeID, true).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load related products: %w", err)
	}

	return products, nil
}

// InvalidateCache drops the cached copy of a product after a catalog change
func (s *Service) InvalidateCache(ctx context.Context, id uint) {
	if err := s.redisClient.Del(ctx, fmt.Sprintf("product:%d", id)).Err(); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Warn("product cache invalidation failed")
	}
}
