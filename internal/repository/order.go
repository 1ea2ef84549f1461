package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// withItems preloads order items with their products, unscoped so orders
// containing since-deleted products still render fully.
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := withItems(r.db.WithContext(ctx)).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order along its lifecycle; the total and items are
// never touched after creation.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
