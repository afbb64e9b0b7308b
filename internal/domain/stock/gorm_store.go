// internal/domain/stock/gorm_store.go
package stock

import (
	"context"
	"errors"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// gormStore is the Postgres-backed Store. Commits use optimistic
// concurrency: quantities are read, the new values computed, and each cell
// updated with a version guard inside one transaction. A guard miss means
// a concurrent writer won the race; the whole transaction rolls back and
// the caller gets a ConflictError to retry.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Quantity returns the current quantity for a cell; a missing cell reads as zero
func (s *gormStore) Quantity(ctx context.Context, cell CellKey) (int, error) {
	var sc StockCell
	err := s.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ?", cell.ItemID, cell.LocationID).
		First(&sc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.NewPersistence("read cell", err)
	}
	return sc.Quantity, nil
}

// Quantities reads several cells
func (s *gormStore) Quantities(ctx context.Context, cells []CellKey) (map[CellKey]int, error) {
	out := make(map[CellKey]int, len(cells))
	for _, cell := range cells {
		qty, err := s.Quantity(ctx, cell)
		if err != nil {
			return nil, err
		}
		out[cell] = qty
	}
	return out, nil
}

// Levels returns every location's quantity for one item
func (s *gormStore) Levels(ctx context.Context, itemID uint) ([]LevelAtLocation, error) {
	var cells []StockCell
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("location_id ASC").
		Find(&cells).Error
	if err != nil {
		return nil, apperrors.NewPersistence("read levels", err)
	}

	levels := make([]LevelAtLocation, 0, len(cells))
	for _, c := range cells {
		levels = append(levels, LevelAtLocation{LocationID: c.LocationID, Quantity: c.Quantity})
	}
	return levels, nil
}

// Commit atomically applies all deltas and appends their ledger entries
func (s *gormStore) Commit(ctx context.Context, deltas []Delta, opts CommitOptions) ([]LedgerEntry, error) {
	var committed []LedgerEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Read every touched cell once, remembering which rows exist.
		existing := make(map[CellKey]*StockCell)
		current := make(map[CellKey]int)
		for _, d := range deltas {
			if _, seen := current[d.Cell]; seen {
				continue
			}
			var sc StockCell
			err := tx.Where("item_id = ? AND location_id = ?", d.Cell.ItemID, d.Cell.LocationID).
				First(&sc).Error
			switch {
			case err == nil:
				cell := sc
				existing[d.Cell] = &cell
				current[d.Cell] = sc.Quantity
			case errors.Is(err, gorm.ErrRecordNotFound):
				current[d.Cell] = 0
			default:
				return apperrors.NewPersistence("read cell", err)
			}
		}

		entries, updated, err := applyDeltas(deltas, current, opts)
		if err != nil {
			return err
		}

		// Persist new quantities. Existing rows carry a version guard so a
		// racing commit on the same cell is detected instead of lost; new
		// rows rely on the unique (item, location) index the same way.
		for cell, qty := range updated {
			if row, ok := existing[cell]; ok {
				res := tx.Model(&StockCell{}).
					Where("id = ? AND version = ?", row.ID, row.Version).
					Updates(map[string]interface{}{
						"quantity": qty,
						"version":  row.Version + 1,
					})
				if res.Error != nil {
					return apperrors.NewPersistence("update cell", res.Error)
				}
				if res.RowsAffected == 0 {
					return &apperrors.ConflictError{ItemID: cell.ItemID, LocationID: cell.LocationID}
				}
			} else {
				row := StockCell{
					ItemID:     cell.ItemID,
					LocationID: cell.LocationID,
					Quantity:   qty,
					Version:    1,
				}
				if err := tx.Create(&row).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return &apperrors.ConflictError{ItemID: cell.ItemID, LocationID: cell.LocationID}
					}
					return apperrors.NewPersistence("create cell", err)
				}
			}
		}

		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return apperrors.NewPersistence("append ledger entry", err)
			}
		}

		committed = entries
		return nil
	})
	if err != nil {
		if apperrors.IsValidation(err) || apperrors.IsInsufficientStock(err) ||
			apperrors.IsConflict(err) || apperrors.IsPersistence(err) {
			return nil, err
		}
		return nil, apperrors.NewPersistence("commit", err)
	}

	return committed, nil
}

// History returns ledger entries matching the query, newest first
func (s *gormStore) History(ctx context.Context, q LedgerQuery) ([]LedgerEntry, error) {
	query := s.db.WithContext(ctx).Model(&LedgerEntry{}).Where("item_id = ?", q.ItemID)

	if q.LocationID != nil {
		query = query.Where("location_id = ?", *q.LocationID)
	}
	if q.Kind != "" {
		query = query.Where("kind = ?", q.Kind)
	}

	var entries []LedgerEntry
	err := query.Order("id DESC").Offset(q.Offset).Limit(q.Limit).Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewPersistence("query ledger", err)
	}
	return entries, nil
}
