package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

// GetOrCreateBySubject resolves the authenticated principal to its customer
// profile, creating a blank profile on first access.
func (r *CustomerRepository) GetOrCreateBySubject(ctx context.Context, subject string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where(models.Customer{Subject: subject}).
		Attrs(models.Customer{
			Gender:           models.GenderUnspecified,
			EmploymentStatus: "Employed",
			IncomeRange:      "Below 30k",
		}).
		FirstOrCreate(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}
