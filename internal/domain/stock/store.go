// internal/domain/stock/store.go
package stock

import (
	"context"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// CellKey identifies one (item, location) cell
type CellKey struct {
	ItemID     uint
	LocationID uint
}

// Delta is one requested quantity change against one cell, together with
// everything needed to write its ledger entry.
type Delta struct {
	Cell          CellKey
	Change        int
	Kind          EntryKind
	Reason        AdjustmentReason
	Note          string
	ReferenceType string
	ReferenceID   string
}

// CommitOptions carries cross-cutting commit parameters.
type CommitOptions struct {
	Actor Actor
	// FloorAtZero clamps a would-be-negative result at zero instead of
	// rejecting the commit. Used only by whitelisted write-off reasons and
	// the bulk absolute-set import path.
	FloorAtZero bool
}

// LevelAtLocation is one location's quantity for an item
type LevelAtLocation struct {
	LocationID uint `json:"location_id"`
	Quantity   int  `json:"quantity"`
}

// LedgerQuery selects ledger entries for the audit read path. Filters are
// enumerated here; there is no free-form filter map.
type LedgerQuery struct {
	ItemID     uint
	LocationID *uint
	Kind       EntryKind
	Limit      int
	Offset     int
}

// Store is the authoritative (item, location) -> quantity mapping plus the
// append-only transaction ledger. Commit is the single write path: every
// processor funnels its cell deltas through it.
type Store interface {
	// Quantity returns the current quantity for a cell; a missing cell
	// reads as zero.
	Quantity(ctx context.Context, cell CellKey) (int, error)

	// Quantities reads several cells consistently with the most recently
	// committed writes.
	Quantities(ctx context.Context, cells []CellKey) (map[CellKey]int, error)

	// Levels returns every location's quantity for one item.
	Levels(ctx context.Context, itemID uint) ([]LevelAtLocation, error)

	// Commit atomically applies all deltas and appends one ledger entry
	// per delta. If any resulting quantity would be negative (and
	// FloorAtZero is not set) the whole set is rejected with no partial
	// writes. Deltas against the same cell are applied in order.
	Commit(ctx context.Context, deltas []Delta, opts CommitOptions) ([]LedgerEntry, error)

	// History returns ledger entries matching the query, newest first.
	History(ctx context.Context, q LedgerQuery) ([]LedgerEntry, error)
}

// applyDeltas runs the shared commit validation: it walks the deltas in
// order against the starting quantities and either produces the ledger
// entries to append or rejects the whole set. Both store implementations
// use it so the consistency contract cannot drift between them.
func applyDeltas(deltas []Delta, current map[CellKey]int, opts CommitOptions) ([]LedgerEntry, map[CellKey]int, error) {
	if len(deltas) == 0 {
		return nil, nil, apperrors.NewValidation("deltas", "commit requires at least one delta")
	}

	running := make(map[CellKey]int, len(current))
	for k, v := range current {
		running[k] = v
	}

	entries := make([]LedgerEntry, 0, len(deltas))
	for _, d := range deltas {
		before := running[d.Cell]
		after := before + d.Change
		if after < 0 {
			if !opts.FloorAtZero {
				return nil, nil, &apperrors.InsufficientStockError{
					ItemID:     d.Cell.ItemID,
					LocationID: d.Cell.LocationID,
					Requested:  -d.Change,
					Available:  before,
				}
			}
			after = 0
		}
		running[d.Cell] = after

		entries = append(entries, LedgerEntry{
			ItemID:         d.Cell.ItemID,
			LocationID:     d.Cell.LocationID,
			Kind:           d.Kind,
			Reason:         d.Reason,
			QuantityChange: after - before,
			QuantityBefore: before,
			QuantityAfter:  after,
			ReferenceType:  d.ReferenceType,
			ReferenceID:    d.ReferenceID,
			ActorID:        opts.Actor.ID,
			ActorName:      opts.Actor.Name,
			Note:           d.Note,
		})
	}

	return entries, running, nil
}
