package repository

import (
	"context"

	"gorm.io/gorm"

	"cafeteria/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// UpdateStatus overwrites the status. The refusal reason is only written
	// when refusedReason is non-nil.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, refusedReason *string) (*model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Meals", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_lines.id ASC")
	})
}

// Create inserts the order and its lines in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return gormError(r.db.WithContext(ctx).Create(order).Error)
}

// FindByID finds an order by ID with its lines.
func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return findOrder(preloadLines(r.db.WithContext(ctx)), id)
}

func findOrder(db *gorm.DB, id string) (*model.Order, error) {
	var order model.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, gormError(err)
	}
	return &order, nil
}

// ListByClient lists a client's orders, newest first.
func (r *orderRepository) ListByClient(ctx context.Context, clientID string) ([]model.Order, error) {
	var orders []model.Order
	if err := preloadLines(r.db.WithContext(ctx)).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll lists every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := preloadLines(r.db.WithContext(ctx)).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus updates the status within a transaction and returns the stored order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, refusedReason *string) (*model.Order, error) {
	var updated *model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOrder(tx, id); err != nil {
			return err
		}

		changes := map[string]interface{}{"status": status}
		if refusedReason != nil {
			changes["refused_reason"] = *refusedReason
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}

		order, err := findOrder(preloadLines(tx), id)
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, gormError(err)
	}
	return updated, nil
}
