// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/souq-backend/internal/domain/cart"
	"github.com/your-org/souq-backend/internal/domain/favorites"
	"github.com/your-org/souq-backend/internal/domain/product"
	"github.com/your-org/souq-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&favorites.FavoriteItem{},
		&favorites.CompareItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",
		"CREATE INDEX IF NOT EXISTS idx_favorite_items_user ON favorite_items(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_compare_items_user ON compare_items(user_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData inserts initial data for development environments
func (m *Migration) SeedInitialData() error {
	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}
	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}
	return nil
}

func (m *Migration) seedTestUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "test@example.com").First(&existing)
	if result.Error == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Test@1234"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	testUser := user.User{
		Email:         "test@example.com",
		Password:      string(hashedPassword),
		FirstName:     "Test",
		LastName:      "User",
		Phone:         "01012345678",
		IsActive:      true,
		EmailVerified: true,
	}

	if err := m.db.Create(&testUser).Error; err != nil {
		return err
	}

	log.Println("Created test user: test@example.com")
	return nil
}

func (m *Migration) seedTestProducts() error {
	var count int64
	m.db.Model(&product.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	testProducts := []product.Product{
		{
			SKU:         "SOUQ-001",
			Name:        "Handwoven Wool Rug",
			NameAr:      "سجادة صوف منسوجة يدويا",
			Category:    "Home",
			CategoryAr:  "منزل",
			ProductType: "rug",
			Price:       149.99,
			Currency:    "EGP",
			HasShow:     true,
			IsFeatured:  true,
			IsActive:    true,
		},
		{
			SKU:         "SOUQ-002",
			Name:        "Ceramic Coffee Set",
			NameAr:      "طقم قهوة سيراميك",
			Category:    "Kitchen",
			CategoryAr:  "مطبخ",
			ProductType: "tableware",
			Price:       39.50,
			Currency:    "EGP",
			HasShow:     true,
			IsActive:    true,
		},
		{
			SKU:         "SOUQ-003",
			Name:        "Leather Messenger Bag",
			NameAr:      "حقيبة جلدية",
			Category:    "Accessories",
			CategoryAr:  "اكسسوارات",
			ProductType: "bag",
			Price:       89.00,
			Currency:    "EGP",
			HasShow:     true,
			IsFeatured:  true,
			IsActive:    true,
		},
	}

	for _, prod := range testProducts {
		if err := m.db.Create(&prod).Error; err != nil {
			log.Printf("Warning: failed to create test product %s: %v", prod.SKU, err)
		}
	}

	log.Printf("Seeded %d test products", len(testProducts))
	return nil
}
