// internal/domain/stock/import.go
package stock

import (
	"context"
	"fmt"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// RowStatus classifies the outcome of one import row
type RowStatus string

const (
	RowApplied RowStatus = "applied"
	RowSkipped RowStatus = "skipped"
	RowFailed  RowStatus = "failed"
)

// ImportRow is one row of a bulk stock import. Exactly one of SetQuantity
// (absolute target, legacy spreadsheet exports) or Delta (signed change)
// must be present. The item is addressed by id or by SKU.
type ImportRow struct {
	ItemID      uint             `json:"item_id,omitempty"`
	SKU         string           `json:"sku,omitempty"`
	LocationID  uint             `json:"location_id" binding:"required"`
	SetQuantity *int             `json:"set_quantity,omitempty"`
	Delta       *int             `json:"delta,omitempty"`
	Reason      AdjustmentReason `json:"reason,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// RowOutcome is the typed per-row result collected into the report
type RowOutcome struct {
	Row         int       `json:"row"`
	Status      RowStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	NewQuantity int       `json:"new_quantity,omitempty"`
}

// ImportReport summarizes a bulk import pass
type ImportReport struct {
	Applied int          `json:"applied"`
	Skipped int          `json:"skipped"`
	Failed  int          `json:"failed"`
	Rows    []RowOutcome `json:"rows"`
}

// ImportStock applies a bulk import in a single pass. Every row goes
// through the same commit primitive as interactive adjustments; a failing
// row is recorded in the report and never aborts the pass. Absolute-set
// rows use the floor-at-zero policy so a target below a racing deduction
// still lands at a legal quantity.
func (s *Service) ImportStock(ctx context.Context, rows []ImportRow, actor Actor) (*ImportReport, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewValidation("rows", "import requires at least one row")
	}

	report := &ImportReport{Rows: make([]RowOutcome, 0, len(rows))}
	for i, row := range rows {
		outcome := s.importRow(ctx, i+1, row, actor)
		switch outcome.Status {
		case RowApplied:
			report.Applied++
		case RowSkipped:
			report.Skipped++
		case RowFailed:
			report.Failed++
		}
		report.Rows = append(report.Rows, outcome)
	}

	return report, nil
}

func (s *Service) importRow(ctx context.Context, n int, row ImportRow, actor Actor) RowOutcome {
	fail := func(err error) RowOutcome {
		return RowOutcome{Row: n, Status: RowFailed, Error: err.Error()}
	}

	if (row.SetQuantity == nil) == (row.Delta == nil) {
		return fail(apperrors.NewValidation("row", "exactly one of set_quantity or delta is required"))
	}
	if row.LocationID == 0 {
		return fail(apperrors.NewValidation("location_id", "location is required"))
	}

	itemID := row.ItemID
	if itemID == 0 {
		if row.SKU == "" {
			return fail(apperrors.NewValidation("item", "item_id or sku is required"))
		}
		item, err := s.catalog.ItemBySKU(ctx, row.SKU)
		if err != nil {
			return fail(err)
		}
		itemID = item.ID
	}
	if err := s.checkItemAndLocation(ctx, itemID, row.LocationID); err != nil {
		return fail(err)
	}

	cell := CellKey{ItemID: itemID, LocationID: row.LocationID}

	reason := row.Reason
	if reason == "" {
		reason = ReasonRecount
	}
	if !reason.IsValid() {
		return fail(apperrors.NewValidation("reason", fmt.Sprintf("unrecognized reason '%s'", reason)))
	}

	var change int
	floor := false
	if row.SetQuantity != nil {
		target := *row.SetQuantity
		if target < 0 {
			return fail(apperrors.NewValidation("set_quantity", "target quantity must not be negative"))
		}
		current, err := s.store.Quantity(ctx, cell)
		if err != nil {
			return fail(err)
		}
		change = target - current
		if change == 0 {
			return RowOutcome{Row: n, Status: RowSkipped, NewQuantity: current}
		}
		floor = true
	} else {
		change = *row.Delta
		if change == 0 {
			return RowOutcome{Row: n, Status: RowSkipped}
		}
		floor = change < 0 && reason.PermitsFloor()
	}

	entries, err := s.Commit(ctx, []Delta{{
		Cell:          cell,
		Change:        change,
		Kind:          KindAdjustment,
		Reason:        reason,
		Note:          row.Note,
		ReferenceType: "import",
	}}, CommitOptions{Actor: actor, FloorAtZero: floor})
	if err != nil {
		return fail(err)
	}

	return RowOutcome{Row: n, Status: RowApplied, NewQuantity: entries[0].QuantityAfter}
}
