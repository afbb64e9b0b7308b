// internal/domain/stock/entity.go
package stock

import (
	"time"
)

// EntryKind represents the business event behind a ledger entry
type EntryKind string

const (
	KindAdjustment       EntryKind = "adjustment"
	KindTransferOut      EntryKind = "transfer_out"
	KindTransferIn       EntryKind = "transfer_in"
	KindBundleSale       EntryKind = "bundle_sale"
	KindOrderFulfillment EntryKind = "order_fulfillment"
	KindReturnRestock    EntryKind = "return_restock"
)

// AdjustmentReason represents the reason for a manual adjustment
type AdjustmentReason string

const (
	ReasonRecount  AdjustmentReason = "recount"
	ReasonReceived AdjustmentReason = "received"
	ReasonDamage   AdjustmentReason = "damage"
	ReasonTheft    AdjustmentReason = "theft"
	ReasonWriteOff AdjustmentReason = "write_off"
	ReasonOther    AdjustmentReason = "other"
)

// IsValid reports whether the reason is one of the recognized values
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonRecount, ReasonReceived, ReasonDamage, ReasonTheft, ReasonWriteOff, ReasonOther:
		return true
	}
	return false
}

// PermitsFloor reports whether a deduction with this reason may drive a
// cell to zero instead of being rejected. The cell still never goes
// negative.
func (r AdjustmentReason) PermitsFloor() bool {
	switch r {
	case ReasonDamage, ReasonTheft, ReasonWriteOff:
		return true
	}
	return false
}

// Actor roles. Fulfilling an order requires an elevated role.
const (
	RoleClerk   = "clerk"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Actor identifies who performs a stock operation. It is passed explicitly
// into every processor call; there is no ambient session state.
type Actor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Elevated reports whether the actor may perform gated transitions such as
// order fulfillment.
func (a Actor) Elevated() bool {
	return a.Role == RoleManager || a.Role == RoleAdmin
}

// StockCell holds the current quantity of one item at one location. Cells
// are created implicitly on the first stock event for a pair; a missing
// cell is equivalent to quantity zero. Only the commit primitive writes
// quantities.
type StockCell struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ItemID     uint      `gorm:"not null;uniqueIndex:idx_cells_item_location" json:"item_id"`
	LocationID uint      `gorm:"not null;uniqueIndex:idx_cells_item_location" json:"location_id"`
	Quantity   int       `gorm:"not null;default:0" json:"quantity"`
	Version    uint      `gorm:"not null;default:0" json:"-"` // optimistic concurrency guard
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LedgerEntry is the immutable audit record of one committed quantity
// change. Entries are appended only inside a commit and are never updated
// or deleted. For every entry quantity_after = quantity_before +
// quantity_change.
type LedgerEntry struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	ItemID         uint             `gorm:"not null;index:idx_ledger_item_location" json:"item_id"`
	LocationID     uint             `gorm:"not null;index:idx_ledger_item_location" json:"location_id"`
	Kind           EntryKind        `gorm:"not null;size:32" json:"kind"`
	Reason         AdjustmentReason `gorm:"size:32" json:"reason,omitempty"`
	QuantityChange int              `gorm:"not null" json:"quantity_change"`
	QuantityBefore int              `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int              `gorm:"not null" json:"quantity_after"`
	ReferenceType  string           `gorm:"size:50" json:"reference_type,omitempty"`
	ReferenceID    string           `gorm:"size:64;index" json:"reference_id,omitempty"`
	ActorID        uint             `gorm:"index" json:"actor_id"`
	ActorName      string           `gorm:"size:255" json:"actor_name"`
	Note           string           `gorm:"type:text" json:"note,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TableName overrides
func (StockCell) TableName() string   { return "stock_cells" }
func (LedgerEntry) TableName() string { return "ledger_entries" }
