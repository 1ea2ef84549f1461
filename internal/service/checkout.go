package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/notify"
	"github.com/auroramart/storefront/internal/pricing"
	"github.com/auroramart/storefront/internal/repository"
)

// CheckoutService turns a cart into an immutable order. The whole of
// order creation, item snapshotting, stock decrement and cart clearing runs
// in one transaction: a failure anywhere rolls back everything.
type CheckoutService struct {
	db       *gorm.DB
	carts    *repository.CartRepository
	orders   *repository.OrderRepository
	fee      decimal.Decimal
	freeAt   decimal.Decimal
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewCheckoutService(db *gorm.DB, fee, freeAt decimal.Decimal, notifier notify.Notifier, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		db:       db,
		carts:    repository.NewCartRepository(db),
		orders:   repository.NewOrderRepository(db),
		fee:      fee,
		freeAt:   freeAt,
		notifier: notifier,
		logger:   logger,
	}
}

// Confirm places the order for the customer's current cart.
//
// Unit prices are the promotion-aware effective prices at confirmation time,
// snapshotted onto the order items. Stock is taken with a conditional
// decrement (stock >= quantity) inside the transaction, so two checkouts
// racing for the last unit cannot both succeed.
func (s *CheckoutService) Confirm(ctx context.Context, customer *models.Customer) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		orders := s.orders.WithTx(tx)
		products := repository.NewProductRepository(tx)

		cart, err := carts.GetOrCreate(ctx, customer.ID)
		if err != nil {
			return err
		}
		items, err := carts.Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		subtotal := decimal.Zero
		units := make([]decimal.Decimal, len(items))
		for i, item := range items {
			units[i] = pricing.EffectivePrice(item.Product)
			subtotal = subtotal.Add(units[i].Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		total := subtotal.Add(pricing.DeliveryFee(subtotal, s.fee, s.freeAt))

		for _, item := range items {
			ok, err := products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{
					ProductID:   item.ProductID,
					ProductName: item.Product.Name,
					Requested:   item.Quantity,
				}
			}
		}

		order = &models.Order{
			CustomerID:  customer.ID,
			Status:      models.OrderStatusPending,
			TotalAmount: total,
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		for i, item := range items {
			orderItem := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     units[i],
			}
			if err := orders.CreateItem(ctx, orderItem); err != nil {
				return err
			}
			order.Items = append(order.Items, *orderItem)
		}

		return carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order confirmed",
		zap.Uint("order_id", order.ID),
		zap.Uint("customer_id", customer.ID),
		zap.String("total", order.TotalAmount.String()))

	// Notification failures never undo a placed order.
	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order, customer); err != nil {
			s.logger.Warn("order notification failed",
				zap.Uint("order_id", order.ID),
				zap.Error(err))
		}
	}
	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *CheckoutService) ListOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// UpdateStatus enforces the one-directional fulfilment lifecycle.
func (s *CheckoutService) UpdateStatus(ctx context.Context, id uint, next models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	order.Status = next
	return order, nil
}
