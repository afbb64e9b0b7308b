// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/bundle"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// Catalog is the slice of the catalog service orders need
type Catalog interface {
	Item(ctx context.Context, id uint) (*catalog.Item, error)
	SaleLocation(ctx context.Context) (*catalog.Location, error)
}

// Bundles resolves bundle references on order lines
type Bundles interface {
	Get(ctx context.Context, id uint) (*bundle.Bundle, error)
}

// Service handles sales order lifecycle and fulfillment
type Service struct {
	repo    Repository
	stock   *stock.Service
	bundles Bundles
	catalog Catalog
	log     *logrus.Logger
}

// NewService creates a new order service
func NewService(repo Repository, stockSvc *stock.Service, bundles Bundles, cat Catalog, log *logrus.Logger) *Service {
	return &Service{
		repo:    repo,
		stock:   stockSvc,
		bundles: bundles,
		catalog: cat,
		log:     log,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	CustomerID *uint               `json:"customer_id"`
	Notes      string              `json:"notes"`
	Lines      []CreateLineRequest `json:"lines" binding:"required"`
}

// CreateLineRequest is one line of a new order. Exactly one of ItemID and
// BundleID must be set.
type CreateLineRequest struct {
	ItemID   *uint `json:"item_id"`
	BundleID *uint `json:"bundle_id"`
	Quantity int   `json:"quantity" binding:"required"`

	// UnitPrice overrides the catalog price when set. In cents.
	UnitPrice *int64 `json:"unit_price"`
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status  OrderStatus `json:"status" binding:"required"`
	Comment string      `json:"comment"`
}

// Create validates the lines, snapshots catalog data into them and stores
// the order in the pending state. No stock moves until fulfillment.
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest, actor stock.Actor) (*SalesOrder, error) {
	if len(req.Lines) == 0 {
		return nil, apperrors.NewValidation("lines", "order requires at least one line")
	}

	lines := make([]OrderLine, 0, len(req.Lines))
	for i, lr := range req.Lines {
		if lr.Quantity <= 0 {
			return nil, apperrors.NewValidation("quantity", fmt.Sprintf("line %d quantity must be positive", i+1))
		}
		if (lr.ItemID == nil) == (lr.BundleID == nil) {
			return nil, apperrors.NewValidation("lines", fmt.Sprintf("line %d must reference exactly one of item_id and bundle_id", i+1))
		}

		line := OrderLine{
			ItemID:   lr.ItemID,
			BundleID: lr.BundleID,
			Quantity: lr.Quantity,
		}
		if lr.ItemID != nil {
			item, err := s.catalog.Item(ctx, *lr.ItemID)
			if err != nil {
				return nil, err
			}
			if item.IsArchived {
				return nil, apperrors.NewValidation("item_id", fmt.Sprintf("item %d is archived", item.ID))
			}
			line.Name = item.Name
			line.SKU = item.SKU
			line.UnitPrice = item.CostPrice
		} else {
			b, err := s.bundles.Get(ctx, *lr.BundleID)
			if err != nil {
				return nil, err
			}
			if !b.IsActive {
				return nil, apperrors.NewValidation("bundle_id", fmt.Sprintf("bundle %d is inactive", b.ID))
			}
			line.Name = b.Name
			line.SKU = b.SKU
			line.UnitPrice = b.Price
		}
		if lr.UnitPrice != nil {
			line.UnitPrice = *lr.UnitPrice
		}
		line.TotalPrice = line.UnitPrice * int64(line.Quantity)
		lines = append(lines, line)
	}

	o := &SalesOrder{
		CustomerID: req.CustomerID,
		OrderDate:  time.Now(),
		Status:     StatusPending,
		Notes:      req.Notes,
		Lines:      lines,
		StatusHistory: []StatusChange{
			{Status: StatusPending, Comment: "order created", CreatedBy: actor.ID},
		},
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"lines":        len(o.Lines),
	}).Info("Sales order created")

	return o, nil
}

// Get returns an order with its lines and status history
func (s *Service) Get(ctx context.Context, id uint) (*SalesOrder, error) {
	return s.repo.Get(ctx, id)
}

// List returns orders matching the query, newest first
func (s *Service) List(ctx context.Context, q ListQuery) ([]SalesOrder, int64, error) {
	if q.Status != "" && !q.Status.IsValid() {
		return nil, 0, apperrors.NewValidation("status", fmt.Sprintf("unknown status %q", q.Status))
	}
	return s.repo.List(ctx, q)
}

// UpdateStatus moves the order along the status progression. Fulfillment
// has stock side effects and must go through Fulfill, so a direct
// transition to fulfilled is rejected here.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, req *UpdateStatusRequest, actor stock.Actor) (*SalesOrder, error) {
	if !req.Status.IsValid() {
		return nil, apperrors.NewValidation("status", fmt.Sprintf("unknown status %q", req.Status))
	}
	if req.Status == StatusFulfilled {
		return nil, apperrors.NewValidation("status", "fulfillment must go through the fulfill operation")
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, req.Status) {
		return nil, apperrors.NewValidation("status", fmt.Sprintf("cannot transition from %s to %s", o.Status, req.Status))
	}

	change := StatusChange{
		OrderID:   o.ID,
		Status:    req.Status,
		Comment:   req.Comment,
		CreatedBy: actor.ID,
	}
	if err := s.repo.SetStatus(ctx, o, req.Status, change, nil); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel closes the order without moving stock
func (s *Service) Cancel(ctx context.Context, orderID uint, comment string, actor stock.Actor) (*SalesOrder, error) {
	return s.UpdateStatus(ctx, orderID, &UpdateStatusRequest{Status: StatusCancelled, Comment: comment}, actor)
}

// FulfillResult is the outcome of a committed fulfillment
type FulfillResult struct {
	Order   *SalesOrder         `json:"order"`
	Entries []stock.LedgerEntry `json:"ledger_entries"`
}

// Fulfill deducts every line's stock in one atomic commit and marks the
// order fulfilled. Only managers and admins may fulfill. If any line would
// drive a cell negative the whole fulfillment is rejected and the order
// stays in its current state.
func (s *Service) Fulfill(ctx context.Context, orderID uint, actor stock.Actor) (*FulfillResult, error) {
	if !actor.Elevated() {
		return nil, apperrors.NewForbidden("fulfill orders")
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, StatusFulfilled) {
		return nil, apperrors.NewValidation("status", fmt.Sprintf("cannot fulfill an order in status %s", o.Status))
	}

	loc, err := s.catalog.SaleLocation(ctx)
	if err != nil {
		return nil, err
	}

	deltas, err := s.fulfillmentDeltas(ctx, o, loc.ID)
	if err != nil {
		return nil, err
	}

	entries, err := s.stock.Commit(ctx, deltas, stock.CommitOptions{Actor: actor})
	if err != nil {
		return nil, err
	}

	// Stock is already committed; a failure to persist the status leaves
	// the deduction in the ledger, so it is logged loudly rather than
	// rolled back.
	now := time.Now()
	change := StatusChange{
		OrderID:   o.ID,
		Status:    StatusFulfilled,
		Comment:   "order fulfilled",
		CreatedBy: actor.ID,
	}
	if err := s.repo.SetStatus(ctx, o, StatusFulfilled, change, &now); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": o.ID,
			"error":    err.Error(),
		}).Error("Stock committed but order status update failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"entries":      len(entries),
	}).Info("Sales order fulfilled")

	return &FulfillResult{Order: o, Entries: entries}, nil
}

// fulfillmentDeltas expands the order lines into cell deltas at the sale
// location. Bundle lines expand to their components.
func (s *Service) fulfillmentDeltas(ctx context.Context, o *SalesOrder, locationID uint) ([]stock.Delta, error) {
	ref := fmt.Sprintf("%d", o.ID)
	var deltas []stock.Delta
	for _, line := range o.Lines {
		if line.IsItemLine() {
			deltas = append(deltas, stock.Delta{
				Cell:          stock.CellKey{ItemID: *line.ItemID, LocationID: locationID},
				Change:        -line.Quantity,
				Kind:          stock.KindOrderFulfillment,
				Note:          fmt.Sprintf("order %s", o.OrderNumber),
				ReferenceType: "order",
				ReferenceID:   ref,
			})
			continue
		}

		b, err := s.bundles.Get(ctx, *line.BundleID)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, bundle.ComponentDeltas(b, locationID, line.Quantity, stock.KindOrderFulfillment, "order", ref)...)
	}
	return deltas, nil
}
