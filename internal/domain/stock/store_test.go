// internal/domain/stock/store_test.go
package stock

import (
	"context"
	"testing"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

func TestCommitAppliesAllDeltas(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := CellKey{ItemID: 1, LocationID: 1}
	b := CellKey{ItemID: 2, LocationID: 1}

	entries, err := store.Commit(ctx, []Delta{
		{Cell: a, Change: 10, Kind: KindAdjustment, Reason: ReasonReceived},
		{Cell: b, Change: 4, Kind: KindAdjustment, Reason: ReasonReceived},
	}, CommitOptions{})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	for _, cell := range []struct {
		key  CellKey
		want int
	}{{a, 10}, {b, 4}} {
		qty, _ := store.Quantity(ctx, cell.key)
		if qty != cell.want {
			t.Errorf("cell %+v: expected %d, got %d", cell.key, cell.want, qty)
		}
	}
}

func TestCommitRejectsNegativeWithNoPartialWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := CellKey{ItemID: 1, LocationID: 1}
	b := CellKey{ItemID: 2, LocationID: 1}
	if _, err := store.Commit(ctx, []Delta{
		{Cell: a, Change: 10, Kind: KindAdjustment, Reason: ReasonReceived},
		{Cell: b, Change: 2, Kind: KindAdjustment, Reason: ReasonReceived},
	}, CommitOptions{}); err != nil {
		t.Fatalf("seed commit failed: %v", err)
	}

	// First delta is satisfiable, second is not. Neither must apply.
	_, err := store.Commit(ctx, []Delta{
		{Cell: a, Change: -5, Kind: KindBundleSale},
		{Cell: b, Change: -3, Kind: KindBundleSale},
	}, CommitOptions{})
	if !apperrors.IsInsufficientStock(err) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	qtyA, _ := store.Quantity(ctx, a)
	qtyB, _ := store.Quantity(ctx, b)
	if qtyA != 10 || qtyB != 2 {
		t.Errorf("rejected commit must not touch quantities, got a=%d b=%d", qtyA, qtyB)
	}

	history, _ := store.History(ctx, LedgerQuery{ItemID: 1})
	for _, e := range history {
		if e.Kind == KindBundleSale {
			t.Error("rejected commit must not append ledger entries")
		}
	}
}

func TestCommitFloorAtZeroRecordsAppliedChange(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	cell := CellKey{ItemID: 1, LocationID: 1}
	if _, err := store.Commit(ctx, []Delta{
		{Cell: cell, Change: 3, Kind: KindAdjustment, Reason: ReasonReceived},
	}, CommitOptions{}); err != nil {
		t.Fatalf("seed commit failed: %v", err)
	}

	entries, err := store.Commit(ctx, []Delta{
		{Cell: cell, Change: -5, Kind: KindAdjustment, Reason: ReasonDamage},
	}, CommitOptions{FloorAtZero: true})
	if err != nil {
		t.Fatalf("floored commit failed: %v", err)
	}

	e := entries[0]
	if e.QuantityAfter != 0 {
		t.Errorf("expected quantity floored at 0, got %d", e.QuantityAfter)
	}
	// The entry must record what actually happened, not what was asked.
	if e.QuantityChange != -3 {
		t.Errorf("expected recorded change -3, got %d", e.QuantityChange)
	}
	if e.QuantityBefore+e.QuantityChange != e.QuantityAfter {
		t.Errorf("entry violates before+change=after: %+v", e)
	}
}

func TestCommitSameCellDeltasApplyInOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	cell := CellKey{ItemID: 1, LocationID: 1}
	entries, err := store.Commit(ctx, []Delta{
		{Cell: cell, Change: 5, Kind: KindAdjustment, Reason: ReasonReceived},
		{Cell: cell, Change: -2, Kind: KindAdjustment, Reason: ReasonDamage},
		{Cell: cell, Change: -3, Kind: KindAdjustment, Reason: ReasonDamage},
	}, CommitOptions{})
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	wantBefore := []int{0, 5, 3}
	wantAfter := []int{5, 3, 0}
	for i, e := range entries {
		if e.QuantityBefore != wantBefore[i] || e.QuantityAfter != wantAfter[i] {
			t.Errorf("entry %d: got before=%d after=%d, want before=%d after=%d",
				i, e.QuantityBefore, e.QuantityAfter, wantBefore[i], wantAfter[i])
		}
	}

	qty, _ := store.Quantity(ctx, cell)
	if qty != 0 {
		t.Errorf("expected final quantity 0, got %d", qty)
	}
}

func TestHistoryFiltersAndPagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	locA, locB := uint(1), uint(2)
	for i := 0; i < 3; i++ {
		if _, err := store.Commit(ctx, []Delta{
			{Cell: CellKey{ItemID: 1, LocationID: locA}, Change: 1, Kind: KindAdjustment, Reason: ReasonReceived},
			{Cell: CellKey{ItemID: 1, LocationID: locB}, Change: 1, Kind: KindTransferIn},
			{Cell: CellKey{ItemID: 2, LocationID: locA}, Change: 1, Kind: KindAdjustment, Reason: ReasonReceived},
		}, CommitOptions{}); err != nil {
			t.Fatalf("seed commit failed: %v", err)
		}
	}

	all, _ := store.History(ctx, LedgerQuery{ItemID: 1})
	if len(all) != 6 {
		t.Fatalf("expected 6 entries for item 1, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID > all[i-1].ID {
			t.Fatal("history must be newest first")
		}
	}

	byLoc, _ := store.History(ctx, LedgerQuery{ItemID: 1, LocationID: &locB})
	if len(byLoc) != 3 {
		t.Errorf("expected 3 entries at location B, got %d", len(byLoc))
	}

	byKind, _ := store.History(ctx, LedgerQuery{ItemID: 1, Kind: KindTransferIn})
	if len(byKind) != 3 {
		t.Errorf("expected 3 transfer_in entries, got %d", len(byKind))
	}

	paged, _ := store.History(ctx, LedgerQuery{ItemID: 1, Limit: 2, Offset: 5})
	if len(paged) != 1 {
		t.Errorf("expected 1 entry on last page, got %d", len(paged))
	}

	none, _ := store.History(ctx, LedgerQuery{ItemID: 1, Offset: 100})
	if len(none) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(none))
	}
}

func TestLevels(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Commit(ctx, []Delta{
		{Cell: CellKey{ItemID: 1, LocationID: 2}, Change: 7, Kind: KindAdjustment, Reason: ReasonReceived},
		{Cell: CellKey{ItemID: 1, LocationID: 1}, Change: 3, Kind: KindAdjustment, Reason: ReasonReceived},
		{Cell: CellKey{ItemID: 2, LocationID: 1}, Change: 9, Kind: KindAdjustment, Reason: ReasonReceived},
	}, CommitOptions{}); err != nil {
		t.Fatalf("seed commit failed: %v", err)
	}

	levels, err := store.Levels(ctx, 1)
	if err != nil {
		t.Fatalf("levels failed: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(levels))
	}
	if levels[0].LocationID != 1 || levels[0].Quantity != 3 {
		t.Errorf("unexpected first level: %+v", levels[0])
	}
	if levels[1].LocationID != 2 || levels[1].Quantity != 7 {
		t.Errorf("unexpected second level: %+v", levels[1])
	}
}
