// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the sales order status
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusConfirmed       OrderStatus = "confirmed"
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusReadyToShip     OrderStatus = "ready_to_ship"
	StatusFulfilled       OrderStatus = "fulfilled"
	StatusCancelled       OrderStatus = "cancelled"
)

// statusRank orders the linear progression. Terminal states are handled
// separately.
var statusRank = map[OrderStatus]int{
	StatusPending:         0,
	StatusConfirmed:       1,
	StatusAwaitingPayment: 2,
	StatusReadyToShip:     3,
	StatusFulfilled:       4,
}

// IsTerminal reports whether no further transition is permitted
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// IsValid reports whether the status is a recognized value
func (s OrderStatus) IsValid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether from -> to is a legal status transition.
// The progression is linear, one step forward at a time; any earlier
// non-terminal step can be reverted to; cancellation is reachable from any
// non-terminal state. Fulfilled and Cancelled have no outgoing edges.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() || !to.IsValid() || from == to {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank := statusRank[to]
	if toRank == fromRank+1 {
		return true
	}
	// Revert to any earlier non-terminal step
	return toRank < fromRank
}

// SalesOrder represents a sales order
type SalesOrder struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;size:50" json:"order_number"`
	CustomerID  *uint       `gorm:"index" json:"customer_id"`
	OrderDate   time.Time   `gorm:"not null" json:"order_date"`
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`
	Notes       string      `gorm:"type:text" json:"notes"`

	FulfilledAt *time.Time     `json:"fulfilled_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Lines         []OrderLine    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
	StatusHistory []StatusChange `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderLine is one line of a sales order. It references either an item or
// a bundle, never both. Name, SKU and unit price are snapshots taken at
// creation time so the order reads the same even if the catalog changes.
type OrderLine struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	OrderID  uint  `gorm:"not null;index" json:"order_id"`
	ItemID   *uint `gorm:"index" json:"item_id,omitempty"`
	BundleID *uint `gorm:"index" json:"bundle_id,omitempty"`

	Name       string `gorm:"not null;size:255" json:"name"`
	SKU        string `gorm:"size:100" json:"sku"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	UnitPrice  int64  `gorm:"not null" json:"unit_price"` // In cents
	TotalPrice int64  `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusChange tracks order status transitions
type StatusChange struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy uint        `gorm:"index" json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (SalesOrder) TableName() string   { return "sales_orders" }
func (OrderLine) TableName() string    { return "order_lines" }
func (StatusChange) TableName() string { return "order_status_history" }

// GenerateOrderNumber formats the order number from the database id
func GenerateOrderNumber(id uint) string {
	return fmt.Sprintf("SO-%s-%05d", time.Now().Format("20060102"), id)
}

// IsItemLine reports whether the line references a catalog item
func (l *OrderLine) IsItemLine() bool {
	return l.ItemID != nil
}
