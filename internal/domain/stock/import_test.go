// internal/domain/stock/import_test.go
package stock

import (
	"context"
	"testing"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

func intPtr(v int) *int { return &v }

func TestImportStockAbsoluteSet(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	cell := CellKey{ItemID: 1, LocationID: 1}
	seed(t, store, cell, 10)

	report, err := svc.ImportStock(ctx, []ImportRow{
		{ItemID: 1, LocationID: 1, SetQuantity: intPtr(4)},  // down to 4
		{ItemID: 2, LocationID: 1, SetQuantity: intPtr(7)},  // new cell
		{ItemID: 1, LocationID: 1, SetQuantity: intPtr(4)},  // already there, skipped
	}, Actor{ID: 1})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Applied != 2 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	qty1, _ := store.Quantity(ctx, cell)
	qty2, _ := store.Quantity(ctx, CellKey{ItemID: 2, LocationID: 1})
	if qty1 != 4 || qty2 != 7 {
		t.Errorf("expected 4 and 7, got %d and %d", qty1, qty2)
	}
}

func TestImportStockResolvesBySKU(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	report, err := svc.ImportStock(ctx, []ImportRow{
		{SKU: "wid 1", LocationID: 1, Delta: intPtr(5), Reason: ReasonReceived},
	}, Actor{ID: 1})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Applied != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	qty, _ := store.Quantity(ctx, CellKey{ItemID: 1, LocationID: 1})
	if qty != 5 {
		t.Errorf("expected quantity 5 via SKU lookup, got %d", qty)
	}
}

func TestImportStockBadRowDoesNotAbortPass(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	seed(t, store, CellKey{ItemID: 1, LocationID: 1}, 2)

	report, err := svc.ImportStock(ctx, []ImportRow{
		{ItemID: 1, LocationID: 1, Delta: intPtr(-5), Reason: ReasonRecount}, // would go negative
		{ItemID: 99, LocationID: 1, Delta: intPtr(1)},                        // unknown item
		{ItemID: 1, LocationID: 1},                                          // neither set nor delta
		{ItemID: 1, LocationID: 1, SetQuantity: intPtr(1), Delta: intPtr(1)}, // both
		{ItemID: 2, LocationID: 1, Delta: intPtr(3), Reason: ReasonReceived}, // fine
	}, Actor{ID: 1})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Applied != 1 || report.Failed != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Rows) != 5 {
		t.Fatalf("expected an outcome per row, got %d", len(report.Rows))
	}
	for _, outcome := range report.Rows[:4] {
		if outcome.Status != RowFailed || outcome.Error == "" {
			t.Errorf("row %d: expected a failure with message, got %+v", outcome.Row, outcome)
		}
	}

	qty, _ := store.Quantity(ctx, CellKey{ItemID: 2, LocationID: 1})
	if qty != 3 {
		t.Errorf("later rows must still apply, got %d", qty)
	}
}

func TestImportStockNegativeTargetRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	report, err := svc.ImportStock(ctx, []ImportRow{
		{ItemID: 1, LocationID: 1, SetQuantity: intPtr(-1)},
	}, Actor{ID: 1})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("negative target must fail the row: %+v", report)
	}
}

func TestImportStockEmpty(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.ImportStock(context.Background(), nil, Actor{ID: 1}); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for empty import, got %v", err)
	}
}
