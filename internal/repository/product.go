package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx so callers can compose product
// reads and writes into a larger transaction.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

type ProductFilter struct {
	Category    string
	InStockOnly bool
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.InStockOnly {
		q = q.Where("stock > 0")
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft-deletes: historical order items keep referencing the row.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Categories returns the distinct non-empty categories in the catalog.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// LowStock lists products at or below their reorder threshold.
func (r *ProductRepository) LowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("stock <= reorder_threshold").
		Order("stock").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// TopRated returns up to limit in-stock products ordered by rating,
// optionally restricted to categories and excluding specific ids. It backs
// the recommendation fallback paths.
func (r *ProductRepository) TopRated(ctx context.Context, categories []string, exclude []uint, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Where("stock > 0")
	if len(categories) > 0 {
		q = q.Where("category IN ?", categories)
	}
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	var products []models.Product
	if err := q.Order("rating DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically takes qty units off the shelf. It reports false
// without mutating anything when fewer than qty units remain, which is what
// closes the check-then-act race between concurrent checkouts.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
