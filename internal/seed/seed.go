// Package seed loads the initial catalog and customer data from the CSV
// exports the merchandising team maintains.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/service"
)

type Loader struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLoader(db *gorm.DB, logger *zap.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// Products loads the product CSV (columns: Product name, Product
// description, Product Category, Unit price, Quantity on hand, Reorder
// Quantity, Product rating). Existing products are skipped by name; bad rows
// are logged and skipped, never fatal.
func (l *Loader) Products(ctx context.Context, path string) (int, error) {
	return l.load(ctx, path, l.productFromRow)
}

// Customers loads the customer CSV (columns: Subject, Age, Gender,
// Employment, Income). Existing customers are skipped by subject.
func (l *Loader) Customers(ctx context.Context, path string) (int, error) {
	return l.load(ctx, path, l.customerFromRow)
}

type rowLoader func(ctx context.Context, header map[string]int, row []string) (bool, error)

func (l *Loader) load(ctx context.Context, path string, fromRow rowLoader) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	headerRow, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(name)] = i
	}

	created := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.logger.Warn("bad csv row", zap.Int("line", line), zap.Error(err))
			continue
		}
		ok, err := fromRow(ctx, header, row)
		if err != nil {
			l.logger.Warn("row not loaded", zap.Int("line", line), zap.Error(err))
			continue
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (l *Loader) productFromRow(ctx context.Context, header map[string]int, row []string) (bool, error) {
	get := func(col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := get("Product name")
	if name == "" {
		return false, fmt.Errorf("missing product name")
	}
	price, err := decimal.NewFromString(get("Unit price"))
	if err != nil {
		return false, fmt.Errorf("unit price: %w", err)
	}
	stock, err := strconv.Atoi(get("Quantity on hand"))
	if err != nil {
		return false, fmt.Errorf("quantity on hand: %w", err)
	}
	reorder, err := strconv.Atoi(get("Reorder Quantity"))
	if err != nil {
		reorder = 10
	}
	var rating *decimal.Decimal
	if raw := get("Product rating"); raw != "" {
		if r, err := decimal.NewFromString(raw); err == nil {
			rating = &r
		}
	}

	var count int64
	if err := l.db.WithContext(ctx).Model(&models.Product{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	product := models.Product{
		Name:             name,
		Description:      get("Product description"),
		Category:         get("Product Category"),
		Price:            price,
		Stock:            stock,
		ReorderThreshold: reorder,
		Rating:           rating,
	}
	return true, l.db.WithContext(ctx).Create(&product).Error
}

func (l *Loader) customerFromRow(ctx context.Context, header map[string]int, row []string) (bool, error) {
	get := func(col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	subject := get("Subject")
	if subject == "" {
		return false, fmt.Errorf("missing subject")
	}

	var count int64
	if err := l.db.WithContext(ctx).Model(&models.Customer{}).Where("subject = ?", subject).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	customer := models.Customer{
		Subject:          subject,
		Gender:           models.GenderUnspecified,
		EmploymentStatus: "Employed",
		IncomeRange:      "Below 30k",
	}
	if raw := get("Age"); raw != "" {
		if age, err := strconv.Atoi(raw); err == nil {
			customer.Age = &age
		}
	}
	switch strings.ToLower(get("Gender")) {
	case "male", "m":
		customer.Gender = models.GenderMale
	case "female", "f":
		customer.Gender = models.GenderFemale
	}
	if raw := get("Employment"); raw != "" {
		customer.EmploymentStatus = raw
	}
	if raw := get("Income"); raw != "" {
		if income, err := strconv.Atoi(raw); err == nil {
			customer.IncomeRange = service.IncomeBracket(income)
		}
	}
	return true, l.db.WithContext(ctx).Create(&customer).Error
}
