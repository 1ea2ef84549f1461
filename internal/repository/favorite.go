package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Toggle flips the favorite flag for (customer, product) and reports the new
// state.
func (r *FavoriteRepository) Toggle(ctx context.Context, customerID, productID uint) (bool, error) {
	var fav models.Favorite
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&fav).Error
	switch {
	case err == nil:
		if err := r.db.WithContext(ctx).Delete(&fav).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.Favorite{CustomerID: customerID, ProductID: productID}
		if err := r.db.WithContext(ctx).Create(&fav).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (r *FavoriteRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}
