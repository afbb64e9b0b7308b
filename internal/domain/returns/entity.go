// internal/domain/returns/entity.go
package returns

import (
	"time"

	"gorm.io/gorm"
)

// Condition classifies the returned goods
type Condition string

const (
	ConditionResellable Condition = "resellable"
	ConditionDamaged    Condition = "damaged"
	ConditionDefective  Condition = "defective"
	ConditionOpened     Condition = "opened"
)

// IsValid reports whether the condition is a recognized value
func (c Condition) IsValid() bool {
	switch c {
	case ConditionResellable, ConditionDamaged, ConditionDefective, ConditionOpened:
		return true
	}
	return false
}

// Restocks reports whether goods in this condition go back on the shelf
func (c Condition) Restocks() bool {
	return c == ConditionResellable
}

// ReturnRecord is the customer-service record of a return. It exists even
// when the goods were not restocked; InventoryAdjusted says whether the
// matching ledger entry was written.
type ReturnRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ItemID     uint      `gorm:"not null;index" json:"item_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Reason     string    `gorm:"type:text" json:"reason"`
	Condition  Condition `gorm:"not null;size:20" json:"condition"`
	CustomerID *uint     `gorm:"index" json:"customer_id,omitempty"`
	OrderID    *uint     `gorm:"index" json:"order_id,omitempty"`

	InventoryAdjusted bool `gorm:"not null;default:false" json:"inventory_adjusted"`

	ActorID   uint   `gorm:"index" json:"actor_id"`
	ActorName string `gorm:"size:255" json:"actor_name"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (ReturnRecord) TableName() string {
	return "return_records"
}
