// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// ListQuery selects orders for the list read path
type ListQuery struct {
	Status OrderStatus
	Page   int
	Limit  int
}

// Repository loads and stores sales orders
type Repository interface {
	Get(ctx context.Context, id uint) (*SalesOrder, error)
	List(ctx context.Context, q ListQuery) ([]SalesOrder, int64, error)
	Create(ctx context.Context, o *SalesOrder) error
	// SetStatus records a status transition together with its history
	// entry. FulfilledAt is set only when entering the fulfilled state.
	SetStatus(ctx context.Context, o *SalesOrder, status OrderStatus, change StatusChange, fulfilledAt *time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a database-backed order repository
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Get(ctx context.Context, id uint) (*SalesOrder, error) {
	var o SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", id)
		}
		return nil, apperrors.NewPersistence("get order", err)
	}
	return &o, nil
}

func (r *gormRepository) List(ctx context.Context, q ListQuery) ([]SalesOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&SalesOrder{}).Preload("Lines")
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewPersistence("count orders", err)
	}

	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	var orders []SalesOrder
	err := query.Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.NewPersistence("list orders", err)
	}
	return orders, total, nil
}

func (r *gormRepository) Create(ctx context.Context, o *SalesOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		o.OrderNumber = GenerateOrderNumber(o.ID)
		return tx.Model(o).Update("order_number", o.OrderNumber).Error
	})
	if err != nil {
		return apperrors.NewPersistence("create order", err)
	}
	return nil
}

func (r *gormRepository) SetStatus(ctx context.Context, o *SalesOrder, status OrderStatus, change StatusChange, fulfilledAt *time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if fulfilledAt != nil {
			updates["fulfilled_at"] = *fulfilledAt
		}
		if err := tx.Model(o).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&change).Error
	})
	if err != nil {
		return apperrors.NewPersistence("update order status", err)
	}
	o.Status = status
	if fulfilledAt != nil {
		o.FulfilledAt = fulfilledAt
	}
	return nil
}
