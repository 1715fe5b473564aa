package repository

import (
	"context"
	"errors"

	"github.com/mluqi/km-support/internal/entity"
	"gorm.io/gorm"
)

// OrderRepo is the repository for order operations
type OrderRepo struct {
	db *gorm.DB
}

// NewOrderRepo creates a new OrderRepo
func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create creates a new order
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetById gets an order by id, nil if absent
func (r *OrderRepo) GetById(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByUser gets a user's orders, newest first
func (r *OrderRepo) ListByUser(ctx context.Context, userId string) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll gets all orders, newest first
func (r *OrderRepo) ListAll(ctx context.Context) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusFrom applies updates only if the order is still in fromStatus.
// Returns false when the guard missed, i.e. a concurrent actor moved the
// order first.
func (r *OrderRepo) UpdateStatusFrom(ctx context.Context, id int64, fromStatus string, updates map[string]interface{}) (bool, error) {
	updates["updated_at"] = entity.NowUnixMilli()
	res := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
