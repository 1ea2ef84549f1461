package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/pricing"
	"github.com/auroramart/storefront/internal/repository"
)

// CartService manages the single active cart each customer owns. Stock is
// deliberately not checked here; availability is only validated at checkout.
type CartService struct {
	carts    *repository.CartRepository
	products *repository.ProductRepository
	fee      decimal.Decimal
	freeAt   decimal.Decimal
	logger   *zap.Logger
}

func NewCartService(db *gorm.DB, fee, freeAt decimal.Decimal, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    repository.NewCartRepository(db),
		products: repository.NewProductRepository(db),
		fee:      fee,
		freeAt:   freeAt,
		logger:   logger,
	}
}

// CartLine is a cart item priced live against the current catalog.
type CartLine struct {
	Item      models.CartItem `json:"item"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartSummary struct {
	CartID      uint            `json:"cart_id"`
	Lines       []CartLine      `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// AddItem merges quantity into the unique (cart, product) row, creating the
// row on first add.
func (s *CartService) AddItem(ctx context.Context, customerID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindItem(ctx, cart.ID, product.ID)
	switch err {
	case nil:
		item.Quantity += quantity
		if err := s.carts.SaveItem(ctx, item); err != nil {
			return nil, err
		}
	case repository.ErrCartItemNotFound:
		item = &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
		if err := s.carts.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.logger.Info("item added to cart",
		zap.Uint("customer_id", customerID),
		zap.Uint("product_id", product.ID),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// UpdateItem sets the quantity, removing the row when the new quantity drops
// to zero or below.
func (s *CartService) UpdateItem(ctx context.Context, customerID, itemID uint, quantity int) error {
	item, err := s.ownedItem(ctx, customerID, itemID)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return s.carts.DeleteItem(ctx, item.ID)
	}
	item.Quantity = quantity
	return s.carts.SaveItem(ctx, item)
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID uint) error {
	item, err := s.ownedItem(ctx, customerID, itemID)
	if err != nil {
		return err
	}
	return s.carts.DeleteItem(ctx, item.ID)
}

// ownedItem resolves itemID and checks it belongs to the customer's cart, so
// one customer cannot edit another's lines.
func (s *CartService) ownedItem(ctx context.Context, customerID, itemID uint) (*models.CartItem, error) {
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, repository.ErrCartItemNotFound
	}
	return item, nil
}

// Summary prices the cart against the current catalog, promotions included.
func (s *CartService) Summary(ctx context.Context, customerID uint) (*CartSummary, error) {
	cart, err := s.carts.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{CartID: cart.ID, Lines: make([]CartLine, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		unit := pricing.EffectivePrice(item.Product)
		line := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		summary.Lines = append(summary.Lines, CartLine{Item: item, UnitPrice: unit, LineTotal: line})
		summary.Subtotal = summary.Subtotal.Add(line)
	}
	summary.DeliveryFee = decimal.Zero
	summary.Total = summary.Subtotal
	if len(items) > 0 {
		summary.DeliveryFee = pricing.DeliveryFee(summary.Subtotal, s.fee, s.freeAt)
		summary.Total = summary.Subtotal.Add(summary.DeliveryFee)
	}
	return summary, nil
}
