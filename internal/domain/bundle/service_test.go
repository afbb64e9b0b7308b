// internal/domain/bundle/service_test.go
package bundle

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// memRepo is an in-memory bundle repository for tests
type memRepo struct {
	bundles map[uint]*Bundle
	nextID  uint
}

func newMemRepo() *memRepo {
	return &memRepo{bundles: make(map[uint]*Bundle), nextID: 1}
}

func (r *memRepo) Get(ctx context.Context, id uint) (*Bundle, error) {
	if b, ok := r.bundles[id]; ok {
		return b, nil
	}
	return nil, apperrors.NewNotFound("bundle", id)
}

func (r *memRepo) List(ctx context.Context, activeOnly bool) ([]Bundle, error) {
	var out []Bundle
	for _, b := range r.bundles {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *memRepo) Create(ctx context.Context, b *Bundle) error {
	b.ID = r.nextID
	r.nextID++
	r.bundles[b.ID] = b
	return nil
}

// testCatalog serves both the stock service and the bundle directory
type testCatalog struct {
	saleLocation catalog.Location
	archived     map[uint]bool
}

func (c *testCatalog) Item(ctx context.Context, id uint) (*catalog.Item, error) {
	return &catalog.Item{ID: id, Name: "component", IsArchived: c.archived[id]}, nil
}

func (c *testCatalog) ItemBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	return nil, &apperrors.NotFoundError{Resource: "item", ID: sku}
}

func (c *testCatalog) Location(ctx context.Context, id uint) (*catalog.Location, error) {
	return &catalog.Location{ID: id, Name: "loc"}, nil
}

func (c *testCatalog) SaleLocation(ctx context.Context) (*catalog.Location, error) {
	return &c.saleLocation, nil
}

func newTestBundleService() (*Service, *memRepo, *stock.MemoryStore) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	cat := &testCatalog{saleLocation: catalog.Location{ID: 1, Name: "Store", IsDefault: true}}
	store := stock.NewMemoryStore()
	stockSvc := stock.NewService(store, cat, nil, log)

	repo := newMemRepo()
	return NewService(repo, stockSvc, cat), repo, store
}

func stockCell(itemID uint) stock.CellKey {
	return stock.CellKey{ItemID: itemID, LocationID: 1}
}

func seedStock(t *testing.T, store *stock.MemoryStore, itemID uint, qty int) {
	t.Helper()
	if _, err := store.Commit(context.Background(), []stock.Delta{
		{Cell: stockCell(itemID), Change: qty, Kind: stock.KindAdjustment, Reason: stock.ReasonReceived},
	}, stock.CommitOptions{}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func giftSet(t *testing.T, repo *memRepo) *Bundle {
	t.Helper()
	b := &Bundle{
		Name:     "Gift Set",
		SKU:      "GIFT-1",
		Price:    4999,
		IsActive: true,
		Components: []Component{
			{ItemID: 10, Quantity: 2, Position: 0},
			{ItemID: 11, Quantity: 1, Position: 1},
		},
	}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return b
}

func TestBuildable(t *testing.T) {
	svc, repo, store := newTestBundleService()
	ctx := context.Background()
	b := giftSet(t, repo)

	// No stock at all.
	units, err := svc.Buildable(ctx, b.ID)
	if err != nil {
		t.Fatalf("buildable failed: %v", err)
	}
	if units != 0 {
		t.Errorf("expected 0 with no stock, got %d", units)
	}

	// 7 of the 2-per item and 3 of the 1-per item: min(7/2, 3/1) = 3.
	seedStock(t, store, 10, 7)
	seedStock(t, store, 11, 3)

	units, err = svc.Buildable(ctx, b.ID)
	if err != nil {
		t.Fatalf("buildable failed: %v", err)
	}
	if units != 3 {
		t.Errorf("expected 3 buildable, got %d", units)
	}
}

func TestBuildableEmptyBundle(t *testing.T) {
	svc, repo, _ := newTestBundleService()
	ctx := context.Background()

	empty := &Bundle{Name: "Empty", IsActive: true}
	if err := repo.Create(ctx, empty); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	units, err := svc.Buildable(ctx, empty.ID)
	if err != nil {
		t.Fatalf("buildable failed: %v", err)
	}
	if units != 0 {
		t.Errorf("a bundle with no components is never buildable, got %d", units)
	}
}

func TestSellConsumesComponentsAtomically(t *testing.T) {
	svc, repo, store := newTestBundleService()
	ctx := context.Background()
	b := giftSet(t, repo)
	seedStock(t, store, 10, 7)
	seedStock(t, store, 11, 3)

	result, err := svc.Sell(ctx, b.ID, 2, stock.Actor{ID: 1, Role: stock.RoleClerk})
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if result.SaleID == "" {
		t.Error("sale must carry a reference id")
	}
	if len(result.ConsumedComponents) != 2 {
		t.Fatalf("expected 2 consumed components, got %d", len(result.ConsumedComponents))
	}

	qty10, _ := store.Quantity(ctx, stockCell(10))
	qty11, _ := store.Quantity(ctx, stockCell(11))
	if qty10 != 3 || qty11 != 1 {
		t.Errorf("expected 3 and 1 after selling 2 units, got %d and %d", qty10, qty11)
	}

	// Both decrements share the sale reference.
	entries, _ := store.History(ctx, stock.LedgerQuery{ItemID: 10, Kind: stock.KindBundleSale})
	if len(entries) != 1 || entries[0].ReferenceID != result.SaleID {
		t.Errorf("ledger entry must reference the sale: %+v", entries)
	}
}

func TestSellRejectsBeyondBuildable(t *testing.T) {
	svc, repo, store := newTestBundleService()
	ctx := context.Background()
	b := giftSet(t, repo)
	seedStock(t, store, 10, 7)
	seedStock(t, store, 11, 3)

	_, err := svc.Sell(ctx, b.ID, 4, stock.Actor{ID: 1})
	if !apperrors.IsInsufficientStock(err) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	// Nothing moved.
	qty10, _ := store.Quantity(ctx, stockCell(10))
	qty11, _ := store.Quantity(ctx, stockCell(11))
	if qty10 != 7 || qty11 != 3 {
		t.Errorf("rejected sale must not consume stock: %d, %d", qty10, qty11)
	}
}

func TestSellArchivedComponentRejected(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cat := &testCatalog{
		saleLocation: catalog.Location{ID: 1, Name: "Store", IsDefault: true},
		archived:     map[uint]bool{11: true},
	}
	store := stock.NewMemoryStore()
	repo := newMemRepo()
	svc := NewService(repo, stock.NewService(store, cat, nil, log), cat)
	ctx := context.Background()

	b := giftSet(t, repo)
	seedStock(t, store, 10, 7)
	seedStock(t, store, 11, 3)

	_, err := svc.Sell(ctx, b.ID, 1, stock.Actor{ID: 1})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for archived component, got %v", err)
	}

	// Nothing moved, the active component included.
	qty10, _ := store.Quantity(ctx, stockCell(10))
	qty11, _ := store.Quantity(ctx, stockCell(11))
	if qty10 != 7 || qty11 != 3 {
		t.Errorf("rejected sale must not consume stock: %d, %d", qty10, qty11)
	}
}

func TestSellInactiveBundle(t *testing.T) {
	svc, repo, _ := newTestBundleService()
	ctx := context.Background()
	b := giftSet(t, repo)
	b.IsActive = false

	if _, err := svc.Sell(ctx, b.ID, 1, stock.Actor{ID: 1}); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for inactive bundle, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestBundleService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateBundleRequest
	}{
		{"no components", CreateBundleRequest{Name: "x", Price: 1}},
		{"zero quantity", CreateBundleRequest{Name: "x", Price: 1, Components: []CreateComponentRequest{{ItemID: 1, Quantity: 0}}}},
		{"duplicate item", CreateBundleRequest{Name: "x", Price: 1, Components: []CreateComponentRequest{
			{ItemID: 1, Quantity: 1}, {ItemID: 1, Quantity: 2},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tc.req); !apperrors.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateNormalizesSKUAndOrdersComponents(t *testing.T) {
	svc, _, _ := newTestBundleService()
	ctx := context.Background()

	b, err := svc.Create(ctx, &CreateBundleRequest{
		Name:  "Kit",
		SKU:   "kit 01",
		Price: 999,
		Components: []CreateComponentRequest{
			{ItemID: 5, Quantity: 1},
			{ItemID: 6, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.SKU != "KIT01" {
		t.Errorf("expected normalized SKU KIT01, got %q", b.SKU)
	}
	for i, c := range b.Components {
		if c.Position != i {
			t.Errorf("component %d: expected position %d, got %d", i, i, c.Position)
		}
	}
}
