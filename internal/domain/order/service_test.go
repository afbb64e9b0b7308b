// internal/domain/order/service_test.go
package order

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/bundle"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// memOrderRepo is an in-memory order repository for tests
type memOrderRepo struct {
	orders map[uint]*SalesOrder
	nextID uint
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uint]*SalesOrder), nextID: 1}
}

func (r *memOrderRepo) Get(ctx context.Context, id uint) (*SalesOrder, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, apperrors.NewNotFound("order", id)
}

func (r *memOrderRepo) List(ctx context.Context, q ListQuery) ([]SalesOrder, int64, error) {
	var out []SalesOrder
	for _, o := range r.orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) Create(ctx context.Context, o *SalesOrder) error {
	o.ID = r.nextID
	r.nextID++
	o.OrderNumber = GenerateOrderNumber(o.ID)
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) SetStatus(ctx context.Context, o *SalesOrder, status OrderStatus, change StatusChange, fulfilledAt *time.Time) error {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, change)
	if fulfilledAt != nil {
		o.FulfilledAt = fulfilledAt
	}
	return nil
}

// orderTestCatalog serves order, stock and bundle lookups in one stub
type orderTestCatalog struct {
	items map[uint]*catalog.Item
}

func (c *orderTestCatalog) Item(ctx context.Context, id uint) (*catalog.Item, error) {
	if item, ok := c.items[id]; ok {
		return item, nil
	}
	return nil, apperrors.NewNotFound("item", id)
}

func (c *orderTestCatalog) ItemBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	return nil, &apperrors.NotFoundError{Resource: "item", ID: sku}
}

func (c *orderTestCatalog) Location(ctx context.Context, id uint) (*catalog.Location, error) {
	return &catalog.Location{ID: id, Name: "loc"}, nil
}

func (c *orderTestCatalog) SaleLocation(ctx context.Context) (*catalog.Location, error) {
	return &catalog.Location{ID: 1, Name: "Store", IsDefault: true}, nil
}

// fakeBundles resolves bundle lookups for order lines
type fakeBundles struct {
	bundles map[uint]*bundle.Bundle
}

func (f *fakeBundles) Get(ctx context.Context, id uint) (*bundle.Bundle, error) {
	if b, ok := f.bundles[id]; ok {
		return b, nil
	}
	return nil, apperrors.NewNotFound("bundle", id)
}

func newTestOrderService() (*Service, *memOrderRepo, *stock.MemoryStore) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cat := &orderTestCatalog{items: map[uint]*catalog.Item{
		1: {ID: 1, Name: "Widget", SKU: "WID-1", CostPrice: 1500},
		2: {ID: 2, Name: "Gadget", SKU: "GAD-1", CostPrice: 2500},
		3: {ID: 3, Name: "Retired", SKU: "RET-1", IsArchived: true},
	}}
	bundles := &fakeBundles{bundles: map[uint]*bundle.Bundle{
		7: {
			ID: 7, Name: "Gift Set", SKU: "GIFT-1", Price: 4999, IsActive: true,
			Components: []bundle.Component{
				{ItemID: 1, Quantity: 2, Position: 0},
				{ItemID: 2, Quantity: 1, Position: 1},
			},
		},
	}}

	store := stock.NewMemoryStore()
	stockSvc := stock.NewService(store, cat, nil, log)
	repo := newMemOrderRepo()
	return NewService(repo, stockSvc, bundles, cat, log), repo, store
}

func seedOrderStock(t *testing.T, store *stock.MemoryStore, itemID uint, qty int) {
	t.Helper()
	if _, err := store.Commit(context.Background(), []stock.Delta{
		{Cell: stock.CellKey{ItemID: itemID, LocationID: 1}, Change: qty, Kind: stock.KindAdjustment, Reason: stock.ReasonReceived},
	}, stock.CommitOptions{}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCreateOrderSnapshotsCatalogData(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{
			{ItemID: uintPtr(1), Quantity: 2},
			{BundleID: uintPtr(7), Quantity: 1},
		},
	}, stock.Actor{ID: 1, Role: stock.RoleClerk})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if o.Status != StatusPending {
		t.Errorf("new order must be pending, got %s", o.Status)
	}
	if o.OrderNumber == "" {
		t.Error("order number must be assigned")
	}
	if len(o.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(o.Lines))
	}

	item := o.Lines[0]
	if item.Name != "Widget" || item.SKU != "WID-1" || item.UnitPrice != 1500 || item.TotalPrice != 3000 {
		t.Errorf("item line snapshot wrong: %+v", item)
	}
	bl := o.Lines[1]
	if bl.Name != "Gift Set" || bl.UnitPrice != 4999 {
		t.Errorf("bundle line snapshot wrong: %+v", bl)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()
	actor := stock.Actor{ID: 1}

	cases := []struct {
		name string
		req  CreateOrderRequest
	}{
		{"no lines", CreateOrderRequest{}},
		{"zero quantity", CreateOrderRequest{Lines: []CreateLineRequest{{ItemID: uintPtr(1), Quantity: 0}}}},
		{"neither reference", CreateOrderRequest{Lines: []CreateLineRequest{{Quantity: 1}}}},
		{"both references", CreateOrderRequest{Lines: []CreateLineRequest{{ItemID: uintPtr(1), BundleID: uintPtr(7), Quantity: 1}}}},
		{"archived item", CreateOrderRequest{Lines: []CreateLineRequest{{ItemID: uintPtr(3), Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tc.req, actor); !apperrors.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestUpdateStatusWalksTheProgression(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()
	actor := stock.Actor{ID: 1}

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{{ItemID: uintPtr(1), Quantity: 1}},
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, next := range []OrderStatus{StatusConfirmed, StatusAwaitingPayment, StatusReadyToShip} {
		if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: next}, actor); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	// Skipping ahead from a reverted state must fail.
	if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: StatusPending}, actor); err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: StatusReadyToShip}, actor); !apperrors.IsValidation(err) {
		t.Errorf("skip ahead must fail, got %v", err)
	}
}

func TestUpdateStatusRejectsDirectFulfillment(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()
	actor := stock.Actor{ID: 1, Role: stock.RoleManager}

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{{ItemID: uintPtr(1), Quantity: 1}},
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: StatusFulfilled}, actor); !apperrors.IsValidation(err) {
		t.Errorf("direct transition to fulfilled must be rejected, got %v", err)
	}
}

func TestFulfillRequiresElevatedRole(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()

	_, err := svc.Fulfill(ctx, 1, stock.Actor{ID: 1, Role: stock.RoleClerk})
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected ForbiddenError for clerk, got %v", err)
	}
}

func fulfillableOrder(t *testing.T, svc *Service) *SalesOrder {
	t.Helper()
	ctx := context.Background()
	actor := stock.Actor{ID: 2, Name: "manager", Role: stock.RoleManager}

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{
			{ItemID: uintPtr(1), Quantity: 1},
			{BundleID: uintPtr(7), Quantity: 2},
		},
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for _, next := range []OrderStatus{StatusConfirmed, StatusAwaitingPayment, StatusReadyToShip} {
		if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: next}, actor); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}
	return o
}

func TestFulfillDeductsAllLines(t *testing.T) {
	svc, _, store := newTestOrderService()
	ctx := context.Background()
	manager := stock.Actor{ID: 2, Name: "manager", Role: stock.RoleManager}

	// Line demand: 1 widget directly, plus 2 gift sets consuming
	// 2 widgets and 1 gadget each. Total: 5 widgets, 2 gadgets.
	seedOrderStock(t, store, 1, 6)
	seedOrderStock(t, store, 2, 2)

	o := fulfillableOrder(t, svc)
	result, err := svc.Fulfill(ctx, o.ID, manager)
	if err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}

	if result.Order.Status != StatusFulfilled {
		t.Errorf("expected fulfilled status, got %s", result.Order.Status)
	}
	if result.Order.FulfilledAt == nil {
		t.Error("fulfilled_at must be set")
	}

	qty1, _ := store.Quantity(ctx, stock.CellKey{ItemID: 1, LocationID: 1})
	qty2, _ := store.Quantity(ctx, stock.CellKey{ItemID: 2, LocationID: 1})
	if qty1 != 1 || qty2 != 0 {
		t.Errorf("expected 1 widget and 0 gadgets left, got %d and %d", qty1, qty2)
	}

	// Every entry references the order.
	for _, e := range result.Entries {
		if e.Kind != stock.KindOrderFulfillment || e.ReferenceType != "order" {
			t.Errorf("unexpected entry: %+v", e)
		}
	}
}

func TestFulfillInsufficientStockLeavesOrderUnchanged(t *testing.T) {
	svc, _, store := newTestOrderService()
	ctx := context.Background()
	manager := stock.Actor{ID: 2, Role: stock.RoleManager}

	// One gadget short of the 2 the bundles need.
	seedOrderStock(t, store, 1, 6)
	seedOrderStock(t, store, 2, 1)

	o := fulfillableOrder(t, svc)
	_, err := svc.Fulfill(ctx, o.ID, manager)
	if !apperrors.IsInsufficientStock(err) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	if o.Status != StatusReadyToShip {
		t.Errorf("failed fulfillment must not change status, got %s", o.Status)
	}

	qty1, _ := store.Quantity(ctx, stock.CellKey{ItemID: 1, LocationID: 1})
	qty2, _ := store.Quantity(ctx, stock.CellKey{ItemID: 2, LocationID: 1})
	if qty1 != 6 || qty2 != 1 {
		t.Errorf("failed fulfillment must not move stock: %d, %d", qty1, qty2)
	}
}

func TestFulfillArchivedItemRejected(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cat := &orderTestCatalog{items: map[uint]*catalog.Item{
		1: {ID: 1, Name: "Widget", SKU: "WID-1", CostPrice: 1500},
	}}
	store := stock.NewMemoryStore()
	stockSvc := stock.NewService(store, cat, nil, log)
	repo := newMemOrderRepo()
	svc := NewService(repo, stockSvc, &fakeBundles{}, cat, log)
	ctx := context.Background()
	manager := stock.Actor{ID: 2, Role: stock.RoleManager}

	seedOrderStock(t, store, 1, 10)

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{{ItemID: uintPtr(1), Quantity: 2}},
	}, manager)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for _, next := range []OrderStatus{StatusConfirmed, StatusAwaitingPayment, StatusReadyToShip} {
		if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: next}, manager); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	// The item is archived after the order was placed.
	cat.items[1].IsArchived = true

	if _, err := svc.Fulfill(ctx, o.ID, manager); !apperrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for archived item, got %v", err)
	}
	if o.Status != StatusReadyToShip {
		t.Errorf("rejected fulfillment must not change status, got %s", o.Status)
	}
	qty, _ := store.Quantity(ctx, stock.CellKey{ItemID: 1, LocationID: 1})
	if qty != 10 {
		t.Errorf("rejected fulfillment must not move stock, got %d", qty)
	}
}

func TestFulfillFromWrongStatus(t *testing.T) {
	svc, _, store := newTestOrderService()
	ctx := context.Background()
	manager := stock.Actor{ID: 2, Role: stock.RoleManager}
	seedOrderStock(t, store, 1, 10)

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{{ItemID: uintPtr(1), Quantity: 1}},
	}, manager)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Pending is three steps away from fulfilled.
	if _, err := svc.Fulfill(ctx, o.ID, manager); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError from pending, got %v", err)
	}
}

func TestCancelClosesOrder(t *testing.T) {
	svc, _, _ := newTestOrderService()
	ctx := context.Background()
	actor := stock.Actor{ID: 1}

	o, err := svc.Create(ctx, &CreateOrderRequest{
		Lines: []CreateLineRequest{{ItemID: uintPtr(1), Quantity: 1}},
	}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, o.ID, "customer changed mind", actor)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	// Terminal: nothing moves out of cancelled.
	if _, err := svc.UpdateStatus(ctx, o.ID, &UpdateStatusRequest{Status: StatusPending}, actor); !apperrors.IsValidation(err) {
		t.Errorf("cancelled order must be closed, got %v", err)
	}
}
