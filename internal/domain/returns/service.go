// internal/domain/returns/service.go
package returns

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// Catalog is the slice of the catalog service returns need
type Catalog interface {
	Item(ctx context.Context, id uint) (*catalog.Item, error)
	SaleLocation(ctx context.Context) (*catalog.Location, error)
}

// Service handles customer returns. Recording the return and restocking
// the goods are separate phases; the record survives even when the
// restock fails.
type Service struct {
	repo    Repository
	stock   *stock.Service
	catalog Catalog
	log     *logrus.Logger
}

// NewService creates a new returns service
func NewService(repo Repository, stockSvc *stock.Service, cat Catalog, log *logrus.Logger) *Service {
	return &Service{
		repo:    repo,
		stock:   stockSvc,
		catalog: cat,
		log:     log,
	}
}

// RecordReturnRequest represents return intake data
type RecordReturnRequest struct {
	ItemID     uint      `json:"item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required"`
	Condition  Condition `json:"condition" binding:"required"`
	Reason     string    `json:"reason"`
	CustomerID *uint     `json:"customer_id"`
	OrderID    *uint     `json:"order_id"`
}

// Result reports the intake outcome. InventoryAdjusted mirrors the stored
// record; RestockError is set when the record was written but the restock
// commit failed, a partial success the caller must surface.
type Result struct {
	Record            *ReturnRecord `json:"record"`
	InventoryAdjusted bool          `json:"inventory_adjusted"`
	RestockError      string        `json:"restock_error,omitempty"`
}

// Record writes the return record and, for resellable goods, restocks
// them at the sale location. The record phase is authoritative; a restock
// failure does not undo it.
func (s *Service) Record(ctx context.Context, req *RecordReturnRequest, actor stock.Actor) (*Result, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.NewValidation("quantity", "quantity must be positive")
	}
	if !req.Condition.IsValid() {
		return nil, apperrors.NewValidation("condition", fmt.Sprintf("unknown condition %q", req.Condition))
	}
	item, err := s.catalog.Item(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.IsArchived {
		return nil, apperrors.NewValidation("item_id", fmt.Sprintf("item %d is archived and cannot be returned", item.ID))
	}

	rec := &ReturnRecord{
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		Condition:  req.Condition,
		CustomerID: req.CustomerID,
		OrderID:    req.OrderID,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	result := &Result{Record: rec}
	if !req.Condition.Restocks() {
		s.log.WithFields(logrus.Fields{
			"return_id": rec.ID,
			"item_id":   rec.ItemID,
			"condition": rec.Condition,
		}).Info("Return recorded without restock")
		return result, nil
	}

	if err := s.restock(ctx, rec, actor); err != nil {
		// Phase two failed after phase one succeeded. Report the partial
		// outcome instead of failing the whole intake.
		result.RestockError = err.Error()
		s.log.WithFields(logrus.Fields{
			"return_id": rec.ID,
			"item_id":   rec.ItemID,
			"error":     err.Error(),
		}).Error("Return recorded but restock failed")
		return result, nil
	}

	result.InventoryAdjusted = true
	return result, nil
}

func (s *Service) restock(ctx context.Context, rec *ReturnRecord, actor stock.Actor) error {
	loc, err := s.catalog.SaleLocation(ctx)
	if err != nil {
		return err
	}

	deltas := []stock.Delta{{
		Cell:          stock.CellKey{ItemID: rec.ItemID, LocationID: loc.ID},
		Change:        rec.Quantity,
		Kind:          stock.KindReturnRestock,
		Note:          fmt.Sprintf("customer return %d", rec.ID),
		ReferenceType: "return",
		ReferenceID:   fmt.Sprintf("%d", rec.ID),
	}}
	if _, err := s.stock.Commit(ctx, deltas, stock.CommitOptions{Actor: actor}); err != nil {
		return err
	}

	// The restock is in the ledger at this point. A failure to flag the
	// record must not be reported as a failed restock, so it is logged
	// loudly and the adjustment stands.
	if err := s.repo.MarkAdjusted(ctx, rec); err != nil {
		rec.InventoryAdjusted = true
		s.log.WithFields(logrus.Fields{
			"return_id": rec.ID,
			"item_id":   rec.ItemID,
			"error":     err.Error(),
		}).Error("Restock committed but return record flag update failed")
	}
	return nil
}

// Get returns one return record
func (s *Service) Get(ctx context.Context, id uint) (*ReturnRecord, error) {
	return s.repo.Get(ctx, id)
}

// List returns recent return records, optionally filtered by item
func (s *Service) List(ctx context.Context, itemID uint, limit, offset int) ([]ReturnRecord, error) {
	return s.repo.List(ctx, itemID, limit, offset)
}
