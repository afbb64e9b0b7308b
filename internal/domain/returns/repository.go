// internal/domain/returns/repository.go
package returns

import (
	"context"
	"errors"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Repository stores return records
type Repository interface {
	Get(ctx context.Context, id uint) (*ReturnRecord, error)
	List(ctx context.Context, itemID uint, limit, offset int) ([]ReturnRecord, error)
	Create(ctx context.Context, rec *ReturnRecord) error
	MarkAdjusted(ctx context.Context, rec *ReturnRecord) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a database-backed returns repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Get(ctx context.Context, id uint) (*ReturnRecord, error) {
	var rec ReturnRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("return", id)
		}
		return nil, apperrors.NewPersistence("get return", err)
	}
	return &rec, nil
}

func (r *gormRepository) List(ctx context.Context, itemID uint, limit, offset int) ([]ReturnRecord, error) {
	query := r.db.WithContext(ctx).Model(&ReturnRecord{})
	if itemID != 0 {
		query = query.Where("item_id = ?", itemID)
	}
	if limit <= 0 {
		limit = 50
	}

	var recs []ReturnRecord
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, apperrors.NewPersistence("list returns", err)
	}
	return recs, nil
}

func (r *gormRepository) Create(ctx context.Context, rec *ReturnRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return apperrors.NewPersistence("create return", err)
	}
	return nil
}

func (r *gormRepository) MarkAdjusted(ctx context.Context, rec *ReturnRecord) error {
	err := r.db.WithContext(ctx).Model(rec).Update("inventory_adjusted", true).Error
	if err != nil {
		return apperrors.NewPersistence("mark return adjusted", err)
	}
	rec.InventoryAdjusted = true
	return nil
}
