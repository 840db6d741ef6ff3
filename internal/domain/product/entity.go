// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// ImageFile describes an uploaded product image
type ImageFile struct {
	FileName string `gorm:"size:255" json:"fileName"`
	FilePath string `gorm:"size:500" json:"filePath"`
	FileType string `gorm:"size:100" json:"fileType"`
	FileSize string `gorm:"size:50" json:"fileSize"`
}

// Product represents the product entity
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SKU           string         `gorm:"index;size:100" json:"sku"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	NameAr        string         `gorm:"size:255" json:"name_ar"`
	Category      string         `gorm:"index;size:100" json:"category"`
	CategoryAr    string         `gorm:"size:100" json:"category_ar"`
	ProductType   string         `gorm:"size:100" json:"productType"`
	Description   string         `gorm:"type:text" json:"description"`
	DescriptionAr string         `gorm:"type:text" json:"description_ar"`
	Price         float64        `gorm:"not null;default:0" json:"price"`
	Currency      string         `gorm:"size:3;default:'USD'" json:"currency"`
	Image         ImageFile      `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	HasShow       bool           `gorm:"default:true" json:"hasShow"`
	IsFeatured    bool           `gorm:"default:false" json:"isFeatured"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}
