// internal/domain/bundle/entity.go
package bundle

import (
	"time"

	"gorm.io/gorm"
)

// Bundle represents a composite product assembled from component items at
// the sale location
type Bundle struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	SKU       string         `gorm:"size:100" json:"sku"`
	Price     int64          `gorm:"not null" json:"price"` // In cents
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Components []Component `gorm:"foreignKey:BundleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"components"`
}

// Component is one item requirement of a bundle. Quantity is the number of
// units consumed per bundle unit and is always positive.
type Component struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BundleID uint `gorm:"not null;index" json:"bundle_id"`
	ItemID   uint `gorm:"not null;index" json:"item_id"`
	Quantity int  `gorm:"not null" json:"quantity"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

// TableName overrides
func (Bundle) TableName() string    { return "bundles" }
func (Component) TableName() string { return "bundle_components" }
