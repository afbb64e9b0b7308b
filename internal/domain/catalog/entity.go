// internal/domain/catalog/entity.go
package catalog

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Item represents a sellable or stockable catalog item. Items are archived
// rather than deleted; archived items never participate in stock operations.
type Item struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null;size:255" json:"name"`
	SKU               string         `gorm:"size:100;index" json:"sku"`
	Category          string         `gorm:"size:100" json:"category"`
	CostPrice         int64          `gorm:"default:0" json:"cost_price"` // In cents
	LowStockThreshold int            `gorm:"default:5" json:"low_stock_threshold"`
	IsArchived        bool           `gorm:"default:false;index" json:"is_archived"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Location represents a storage location. The default location is the
// canonical assembly/sale location used by bundle sales and order
// fulfillment.
type Location struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null;size:100" json:"name"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (Item) TableName() string     { return "items" }
func (Location) TableName() string { return "locations" }

// NormalizeSKU folds case and whitespace so "ab c-1" and "ABC-1" collide.
// SKUs are unique among non-archived items after normalization.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.Join(strings.Fields(sku), ""))
}

// BeforeSave hook normalizes the stored SKU.
func (i *Item) BeforeSave(tx *gorm.DB) error {
	i.SKU = NormalizeSKU(i.SKU)
	return nil
}

// IsLowStock reports whether the given total quantity is at or below the
// item's reorder threshold.
func (i *Item) IsLowStock(quantity int) bool {
	return quantity <= i.LowStockThreshold
}
