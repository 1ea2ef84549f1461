package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// GetOrCreate returns the customer's single cart, creating it on first use.
func (r *CartRepository) GetOrCreate(ctx context.Context, customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where(models.Cart{CustomerID: customerID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Items returns the cart's line items with their products preloaded.
func (r *CartRepository) Items(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepository) GetItem(ctx context.Context, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").First(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItem locates the unique (cart, product) row if present.
func (r *CartRepository) FindItem(ctx context.Context, cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear removes every item; the cart row itself survives for reuse.
func (r *CartRepository) Clear(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
