// internal/domain/bundle/repository.go
package bundle

import (
	"context"
	"errors"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Repository loads and stores bundle definitions
type Repository interface {
	Get(ctx context.Context, id uint) (*Bundle, error)
	List(ctx context.Context, activeOnly bool) ([]Bundle, error)
	Create(ctx context.Context, b *Bundle) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a database-backed bundle repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Get(ctx context.Context, id uint) (*Bundle, error) {
	var b Bundle
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("bundle", id)
		}
		return nil, apperrors.NewPersistence("get bundle", err)
	}
	return &b, nil
}

func (r *gormRepository) List(ctx context.Context, activeOnly bool) ([]Bundle, error) {
	query := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var bundles []Bundle
	if err := query.Find(&bundles).Error; err != nil {
		return nil, apperrors.NewPersistence("list bundles", err)
	}
	return bundles, nil
}

func (r *gormRepository) Create(ctx context.Context, b *Bundle) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return apperrors.NewPersistence("create bundle", err)
	}
	return nil
}
