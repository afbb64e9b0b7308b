// internal/domain/bundle/service.go
package bundle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// Directory resolves the canonical assembly/sale location
type Directory interface {
	SaleLocation(ctx context.Context) (*catalog.Location, error)
}

// Service handles bundle availability and bundle sales
type Service struct {
	repo      Repository
	stock     *stock.Service
	directory Directory
}

// NewService creates a new bundle service
func NewService(repo Repository, stockSvc *stock.Service, directory Directory) *Service {
	return &Service{
		repo:      repo,
		stock:     stockSvc,
		directory: directory,
	}
}

// CreateBundleRequest represents bundle creation data
type CreateBundleRequest struct {
	Name       string                   `json:"name" binding:"required"`
	SKU        string                   `json:"sku"`
	Price      int64                    `json:"price" binding:"required"`
	Components []CreateComponentRequest `json:"components" binding:"required"`
}

// CreateComponentRequest is one component of a new bundle
type CreateComponentRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// ComponentConsumption reports one component's deduction from a sale
type ComponentConsumption struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`

	// Remaining is the component stock left at the sale location.
	Remaining int `json:"remaining"`
}

// SaleResult is the outcome of a committed bundle sale
type SaleResult struct {
	SaleID             string                 `json:"sale_id"`
	BundleID           uint                   `json:"bundle_id"`
	Quantity           int                    `json:"quantity"`
	ConsumedComponents []ComponentConsumption `json:"consumed_components"`
}

// Get retrieves one bundle definition with its ordered components
func (s *Service) Get(ctx context.Context, id uint) (*Bundle, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves bundle definitions
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Bundle, error) {
	return s.repo.List(ctx, activeOnly)
}

// Create validates and stores a new bundle definition
func (s *Service) Create(ctx context.Context, req *CreateBundleRequest) (*Bundle, error) {
	if len(req.Components) == 0 {
		return nil, apperrors.NewValidation("components", "a bundle requires at least one component")
	}
	seen := make(map[uint]bool, len(req.Components))
	for i, c := range req.Components {
		if c.Quantity <= 0 {
			return nil, apperrors.NewValidation("components",
				fmt.Sprintf("component %d: quantity must be positive", i+1))
		}
		if seen[c.ItemID] {
			return nil, apperrors.NewValidation("components", fmt.Sprintf("item %d listed twice", c.ItemID))
		}
		seen[c.ItemID] = true
	}

	b := &Bundle{
		Name:     req.Name,
		SKU:      catalog.NormalizeSKU(req.SKU),
		Price:    req.Price,
		IsActive: true,
	}
	for i, c := range req.Components {
		b.Components = append(b.Components, Component{
			ItemID:   c.ItemID,
			Quantity: c.Quantity,
			Position: i,
		})
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// AVAILABILITY

// Buildable returns the maximum number of bundle units assemblable from
// current component stock at the sale location. A bundle with no
// components, or any component without stock, is not buildable. Pure
// read, no side effects.
func (s *Service) Buildable(ctx context.Context, bundleID uint) (int, error) {
	b, err := s.repo.Get(ctx, bundleID)
	if err != nil {
		return 0, err
	}
	loc, err := s.directory.SaleLocation(ctx)
	if err != nil {
		return 0, err
	}
	return s.BuildableAt(ctx, b, loc.ID)
}

// BuildableAt computes buildable units for a bundle at a given location
func (s *Service) BuildableAt(ctx context.Context, b *Bundle, locationID uint) (int, error) {
	if len(b.Components) == 0 {
		return 0, nil
	}

	cells := make([]stock.CellKey, 0, len(b.Components))
	for _, c := range b.Components {
		cells = append(cells, stock.CellKey{ItemID: c.ItemID, LocationID: locationID})
	}
	quantities, err := s.stock.Quantities(ctx, cells)
	if err != nil {
		return 0, err
	}

	buildable := -1
	for _, c := range b.Components {
		available := quantities[stock.CellKey{ItemID: c.ItemID, LocationID: locationID}]
		units := available / c.Quantity
		if buildable < 0 || units < buildable {
			buildable = units
		}
	}
	return buildable, nil
}

// SALES

// Sell consumes component stock to realize a bundle sale. Availability is
// recomputed at commit time; a caller-supplied figure is never trusted.
// All component decrements commit as one atomic unit sharing a sale
// reference id, or none apply.
func (s *Service) Sell(ctx context.Context, bundleID uint, quantity int, actor stock.Actor) (*SaleResult, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidation("quantity", "sale quantity must be positive")
	}

	b, err := s.repo.Get(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, apperrors.NewValidation("bundle", "bundle is not active")
	}

	loc, err := s.directory.SaleLocation(ctx)
	if err != nil {
		return nil, err
	}

	buildable, err := s.BuildableAt(ctx, b, loc.ID)
	if err != nil {
		return nil, err
	}
	if quantity > buildable {
		return nil, &apperrors.InsufficientStockError{
			ItemID:     b.ID,
			LocationID: loc.ID,
			Requested:  quantity,
			Available:  buildable,
		}
	}

	saleID := uuid.NewString()
	deltas := ComponentDeltas(b, loc.ID, quantity, stock.KindBundleSale, "bundle_sale", saleID)

	// The commit re-checks every component; under a race with a
	// concurrent consumer the whole sale is rejected with none applied.
	entries, err := s.stock.Commit(ctx, deltas, stock.CommitOptions{Actor: actor})
	if err != nil {
		return nil, err
	}

	consumed := make([]ComponentConsumption, 0, len(entries))
	for _, e := range entries {
		consumed = append(consumed, ComponentConsumption{
			ItemID:    e.ItemID,
			Quantity:  -e.QuantityChange,
			Remaining: e.QuantityAfter,
		})
	}

	return &SaleResult{
		SaleID:             saleID,
		BundleID:           b.ID,
		Quantity:           quantity,
		ConsumedComponents: consumed,
	}, nil
}

// ComponentDeltas expands a bundle consumption into per-component stock
// deltas. Order fulfillment reuses it for bundle order lines with its own
// kind and reference.
func ComponentDeltas(b *Bundle, locationID uint, units int, kind stock.EntryKind, referenceType, referenceID string) []stock.Delta {
	deltas := make([]stock.Delta, 0, len(b.Components))
	for _, c := range b.Components {
		deltas = append(deltas, stock.Delta{
			Cell:          stock.CellKey{ItemID: c.ItemID, LocationID: locationID},
			Change:        -c.Quantity * units,
			Kind:          kind,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
		})
	}
	return deltas
}
