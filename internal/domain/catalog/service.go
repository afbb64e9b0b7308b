// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles item and location catalog management
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateItemRequest represents item creation data
type CreateItemRequest struct {
	Name              string `json:"name" binding:"required"`
	SKU               string `json:"sku"`
	Category          string `json:"category"`
	CostPrice         int64  `json:"cost_price"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// CreateLocationRequest represents location creation data
type CreateLocationRequest struct {
	Name      string `json:"name" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// ITEM MANAGEMENT

// CreateItem creates a new catalog item. A non-empty SKU must be unique
// among non-archived items after normalization.
func (s *Service) CreateItem(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	sku := NormalizeSKU(req.SKU)
	if sku != "" {
		var existing Item
		err := s.db.WithContext(ctx).
			Where("sku = ? AND is_archived = ?", sku, false).
			First(&existing).Error
		if err == nil {
			return nil, apperrors.NewValidation("sku", fmt.Sprintf("SKU '%s' already in use", sku))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewPersistence("sku lookup", err)
		}
	}

	threshold := req.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}

	item := &Item{
		Name:              req.Name,
		SKU:               sku,
		Category:          req.Category,
		CostPrice:         req.CostPrice,
		LowStockThreshold: threshold,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, apperrors.NewPersistence("create item", err)
	}

	return item, nil
}

// Item retrieves a single item by id
func (s *Service) Item(ctx context.Context, id uint) (*Item, error) {
	var item Item
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("item", id)
		}
		return nil, apperrors.NewPersistence("get item", err)
	}
	return &item, nil
}

// ItemBySKU retrieves a non-archived item by normalized SKU
func (s *Service) ItemBySKU(ctx context.Context, sku string) (*Item, error) {
	normalized := NormalizeSKU(sku)
	var item Item
	err := s.db.WithContext(ctx).
		Where("sku = ? AND is_archived = ?", normalized, false).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "item", ID: normalized}
		}
		return nil, apperrors.NewPersistence("get item by sku", err)
	}
	return &item, nil
}

// ListItems retrieves items, optionally including archived ones
func (s *Service) ListItems(ctx context.Context, includeArchived bool) ([]Item, error) {
	var items []Item
	query := s.db.WithContext(ctx).Order("name ASC")
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, apperrors.NewPersistence("list items", err)
	}
	return items, nil
}

// ArchiveItem marks an item as archived. Archived items keep their ledger
// history but are rejected by every stock processor.
func (s *Service) ArchiveItem(ctx context.Context, id uint) (*Item, error) {
	item, err := s.Item(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsArchived {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(item).Update("is_archived", true).Error; err != nil {
		return nil, apperrors.NewPersistence("archive item", err)
	}
	item.IsArchived = true
	return item, nil
}

// LOCATION MANAGEMENT

// CreateLocation creates a new storage location
func (s *Service) CreateLocation(ctx context.Context, req *CreateLocationRequest) (*Location, error) {
	var existing Location
	err := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewValidation("name", fmt.Sprintf("location '%s' already exists", req.Name))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewPersistence("location lookup", err)
	}

	// Only one default location at a time
	if req.IsDefault {
		err := s.db.WithContext(ctx).Model(&Location{}).
			Where("is_default = ?", true).
			Update("is_default", false).Error
		if err != nil {
			return nil, apperrors.NewPersistence("demote default location", err)
		}
	}

	location := &Location{
		Name:      req.Name,
		IsDefault: req.IsDefault,
	}

	if err := s.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, apperrors.NewPersistence("create location", err)
	}

	return location, nil
}

// Location retrieves a single location by id
func (s *Service) Location(ctx context.Context, id uint) (*Location, error) {
	var location Location
	if err := s.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("location", id)
		}
		return nil, apperrors.NewPersistence("get location", err)
	}
	return &location, nil
}

// LocationByName retrieves a location by its unique name
func (s *Service) LocationByName(ctx context.Context, name string) (*Location, error) {
	var location Location
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "location", ID: name}
		}
		return nil, apperrors.NewPersistence("get location by name", err)
	}
	return &location, nil
}

// ListLocations retrieves all locations
func (s *Service) ListLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, apperrors.NewPersistence("list locations", err)
	}
	return locations, nil
}

// SaleLocation returns the canonical assembly/sale location. Bundle sales,
// order fulfillment and return restocks always resolve against it.
func (s *Service) SaleLocation(ctx context.Context) (*Location, error) {
	var location Location
	err := s.db.WithContext(ctx).Where("is_default = ?", true).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.NotFoundError{Resource: "location", ID: "default"}
		}
		return nil, apperrors.NewPersistence("get sale location", err)
	}
	return &location, nil
}
