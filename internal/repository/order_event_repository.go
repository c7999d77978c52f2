package repository

import (
	"context"

	"gorm.io/gorm"

	"cafeteria/internal/model"
)

// OrderEventRepository defines order status history persistence operations.
type OrderEventRepository interface {
	Create(ctx context.Context, event *model.OrderEvent) error
	CreateBatch(ctx context.Context, events []model.OrderEvent) error
	ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error)
}

type orderEventRepository struct {
	db *gorm.DB
}

// NewOrderEventRepository creates a new order event repository.
func NewOrderEventRepository(db *gorm.DB) OrderEventRepository {
	return &orderEventRepository{db: db}
}

// Create creates a new order event entry.
func (r *orderEventRepository) Create(ctx context.Context, event *model.OrderEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// CreateBatch creates multiple order event entries in a single statement.
func (r *orderEventRepository) CreateBatch(ctx context.Context, events []model.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(events, 100).Error
}

// ListByOrder lists an order's events, oldest first.
func (r *orderEventRepository) ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	var events []model.OrderEvent
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
