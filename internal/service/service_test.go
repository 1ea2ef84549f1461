package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
)

// testDB opens a fresh in-memory database per test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func createCustomer(t *testing.T, db *gorm.DB, subject string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Subject: subject, Gender: models.GenderUnspecified}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func createProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:             name,
		Category:         "Books",
		Price:            dec(price),
		Stock:            stock,
		ReorderThreshold: 10,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// stubRecommender satisfies recommend.Recommender for profile tests.
type stubRecommender struct {
	category string
}

func (s *stubRecommender) PredictCategory(models.Customer) (string, bool) {
	return s.category, s.category != ""
}

func (s *stubRecommender) ForProfile(context.Context, models.Customer, int) []models.Product {
	return nil
}

func (s *stubRecommender) ForCategories(context.Context, []string, []uint, int) []models.Product {
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
