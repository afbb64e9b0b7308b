// internal/domain/stock/service.go
package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// Ledger query pagination bounds
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// Catalog resolves item and location references for the processors
type Catalog interface {
	Item(ctx context.Context, id uint) (*catalog.Item, error)
	ItemBySKU(ctx context.Context, sku string) (*catalog.Item, error)
	Location(ctx context.Context, id uint) (*catalog.Location, error)
}

// Service handles manual adjustments, transfers and the ledger read path.
// It is also the commit funnel for the composite processors (bundle sales,
// order fulfillment, return restocks): everything that mutates stock goes
// through Service.Commit so post-commit notification and low-stock
// surfacing happen in exactly one place.
type Service struct {
	store    Store
	catalog  Catalog
	notifier Notifier
	log      *logrus.Logger
}

// NewService creates a new stock service
func NewService(store Store, cat Catalog, notifier Notifier, log *logrus.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		store:    store,
		catalog:  cat,
		notifier: notifier,
		log:      log,
	}
}

// Store exposes the underlying store for read-only collaborators
func (s *Service) Store() Store {
	return s.store
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ItemID     uint             `json:"item_id" binding:"required"`
	LocationID uint             `json:"location_id" binding:"required"`
	Delta      int              `json:"delta" binding:"required"`
	Reason     AdjustmentReason `json:"reason" binding:"required"`
	Note       string           `json:"note,omitempty"`
}

// AdjustStockResult is the outcome of a committed adjustment
type AdjustStockResult struct {
	NewQuantity int         `json:"new_quantity"`
	Entry       LedgerEntry `json:"entry"`
}

// TransferStockRequest represents an inter-location transfer
type TransferStockRequest struct {
	ItemID         uint `json:"item_id" binding:"required"`
	SourceLocation uint `json:"source_location_id" binding:"required"`
	DestLocation   uint `json:"dest_location_id" binding:"required"`
	Quantity       int  `json:"quantity" binding:"required"`
}

// TransferStockResult is the outcome of a committed transfer
type TransferStockResult struct {
	TransferID     string `json:"transfer_id"`
	SourceQuantity int    `json:"source_quantity"`
	DestQuantity   int    `json:"dest_quantity"`
}

// ADJUSTMENTS

// AdjustStock applies a signed manual delta to one cell. Deductions with a
// whitelisted write-off reason may clamp at zero; every other reason
// rejects a result below zero. Fails with zero side effects.
func (s *Service) AdjustStock(ctx context.Context, req *AdjustStockRequest, actor Actor) (*AdjustStockResult, error) {
	if req.Delta == 0 {
		return nil, apperrors.NewValidation("delta", "delta must be non-zero")
	}
	if !req.Reason.IsValid() {
		return nil, apperrors.NewValidation("reason", "unrecognized adjustment reason")
	}
	if req.Reason == ReasonOther && req.Note == "" {
		return nil, apperrors.NewValidation("note", "a note is required when the reason is 'other'")
	}

	if err := s.checkItemAndLocation(ctx, req.ItemID, req.LocationID); err != nil {
		return nil, err
	}

	floor := req.Delta < 0 && req.Reason.PermitsFloor()

	entries, err := s.Commit(ctx, []Delta{{
		Cell:   CellKey{ItemID: req.ItemID, LocationID: req.LocationID},
		Change: req.Delta,
		Kind:   KindAdjustment,
		Reason: req.Reason,
		Note:   req.Note,
	}}, CommitOptions{Actor: actor, FloorAtZero: floor})
	if err != nil {
		return nil, err
	}

	return &AdjustStockResult{
		NewQuantity: entries[0].QuantityAfter,
		Entry:       entries[0],
	}, nil
}

// TRANSFERS

// TransferStock moves a quantity between two locations atomically. Both
// ledger entries share one transfer reference id so the pair is
// reconstructable as a single logical event. The item total across the two
// locations is unchanged.
func (s *Service) TransferStock(ctx context.Context, req *TransferStockRequest, actor Actor) (*TransferStockResult, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.NewValidation("quantity", "transfer quantity must be positive")
	}
	if req.SourceLocation == req.DestLocation {
		return nil, apperrors.NewValidation("dest_location_id", "source and destination must differ")
	}

	if err := s.checkItemAndLocation(ctx, req.ItemID, req.SourceLocation); err != nil {
		return nil, err
	}
	if _, err := s.catalog.Location(ctx, req.DestLocation); err != nil {
		return nil, err
	}

	source := CellKey{ItemID: req.ItemID, LocationID: req.SourceLocation}
	dest := CellKey{ItemID: req.ItemID, LocationID: req.DestLocation}

	// Pre-check for a friendly error; the commit re-validates atomically.
	available, err := s.store.Quantity(ctx, source)
	if err != nil {
		return nil, err
	}
	if available < req.Quantity {
		return nil, &apperrors.InsufficientStockError{
			ItemID:     req.ItemID,
			LocationID: req.SourceLocation,
			Requested:  req.Quantity,
			Available:  available,
		}
	}

	transferID := uuid.NewString()
	entries, err := s.Commit(ctx, []Delta{
		{Cell: source, Change: -req.Quantity, Kind: KindTransferOut, ReferenceType: "transfer", ReferenceID: transferID},
		{Cell: dest, Change: req.Quantity, Kind: KindTransferIn, ReferenceType: "transfer", ReferenceID: transferID},
	}, CommitOptions{Actor: actor})
	if err != nil {
		return nil, err
	}

	return &TransferStockResult{
		TransferID:     transferID,
		SourceQuantity: entries[0].QuantityAfter,
		DestQuantity:   entries[1].QuantityAfter,
	}, nil
}

// LEDGER READ PATH

// QueryLedger returns committed ledger entries, newest first
func (s *Service) QueryLedger(ctx context.Context, q LedgerQuery) ([]LedgerEntry, error) {
	if q.ItemID == 0 {
		return nil, apperrors.NewValidation("item_id", "item is required")
	}
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.store.History(ctx, q)
}

// StockLevels returns the per-location quantities for one item
func (s *Service) StockLevels(ctx context.Context, itemID uint) ([]LevelAtLocation, error) {
	if _, err := s.catalog.Item(ctx, itemID); err != nil {
		return nil, err
	}
	return s.store.Levels(ctx, itemID)
}

// Quantities reads several cells, for pre-validation by composite processors
func (s *Service) Quantities(ctx context.Context, cells []CellKey) (map[CellKey]int, error) {
	return s.store.Quantities(ctx, cells)
}

// COMMIT FUNNEL

// Commit runs the store commit and, once it has durably succeeded,
// publishes the committed entries to observers and surfaces low-stock
// cells. Notification failures never affect the commit outcome.
func (s *Service) Commit(ctx context.Context, deltas []Delta, opts CommitOptions) ([]LedgerEntry, error) {
	if err := s.checkActiveItems(ctx, deltas); err != nil {
		return nil, err
	}

	entries, err := s.store.Commit(ctx, deltas, opts)
	if err != nil {
		return nil, err
	}

	go s.afterCommit(entries)

	return entries, nil
}

func (s *Service) afterCommit(entries []LedgerEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	s.notifier.LedgerCommitted(ctx, entries)

	for _, e := range entries {
		if e.QuantityChange >= 0 {
			continue
		}
		item, err := s.catalog.Item(ctx, e.ItemID)
		if err != nil {
			continue
		}
		if item.IsLowStock(e.QuantityAfter) {
			s.log.WithFields(logrus.Fields{
				"item_id":     e.ItemID,
				"location_id": e.LocationID,
				"quantity":    e.QuantityAfter,
				"threshold":   item.LowStockThreshold,
			}).Warn("Stock at or below reorder threshold")
		}
	}
}

// checkActiveItems rejects any delta set referencing an archived or
// unknown item. Every mutation funnels through Commit, so the archived
// check holds no matter which processor built the deltas.
func (s *Service) checkActiveItems(ctx context.Context, deltas []Delta) error {
	seen := make(map[uint]bool, len(deltas))
	for _, d := range deltas {
		if seen[d.Cell.ItemID] {
			continue
		}
		seen[d.Cell.ItemID] = true

		item, err := s.catalog.Item(ctx, d.Cell.ItemID)
		if err != nil {
			return err
		}
		if item.IsArchived {
			return apperrors.NewValidation("item_id", fmt.Sprintf("item %d is archived and cannot participate in stock operations", item.ID))
		}
	}
	return nil
}

// checkItemAndLocation validates an (item, location) pair for a stock
// operation: both must exist and the item must not be archived.
func (s *Service) checkItemAndLocation(ctx context.Context, itemID, locationID uint) error {
	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		return err
	}
	if item.IsArchived {
		return apperrors.NewValidation("item_id", "archived items cannot participate in stock operations")
	}
	if _, err := s.catalog.Location(ctx, locationID); err != nil {
		return err
	}
	return nil
}
