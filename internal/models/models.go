package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name               string           `gorm:"size:255;not null" json:"name"`
	Description        string           `gorm:"type:text" json:"description"`
	Category           string           `gorm:"size:100;index" json:"category"`
	Price              decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock              int              `gorm:"not null;default:0" json:"stock"`
	ReorderThreshold   int              `gorm:"not null;default:10" json:"reorder_threshold"`
	Rating             *decimal.Decimal `gorm:"type:decimal(3,1)" json:"rating,omitempty"`
	IsOnSale           bool             `gorm:"not null;default:false" json:"is_on_sale"`
	OriginalPrice      *decimal.Decimal `gorm:"type:decimal(10,2)" json:"original_price,omitempty"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_percentage,omitempty"`
}

type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderUnspecified Gender = "P"
)

type Customer struct {
	gorm.Model
	Subject           string     `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Age               *int       `json:"age,omitempty"`
	Gender            Gender     `gorm:"size:1;not null;default:P" json:"gender"`
	EmploymentStatus  string     `gorm:"size:50;not null;default:Employed" json:"employment_status"`
	IncomeRange       string     `gorm:"size:20;not null;default:Below 30k" json:"income_range"`
	PreferredCategory string     `gorm:"size:100" json:"preferred_category"`
	Bio               string     `gorm:"size:500" json:"bio"`
	Birthday          *time.Time `json:"birthday,omitempty"`
	Orders            []Order    `json:"-"`
}

// IncomeRanges are the four discrete brackets a customer can fall into.
var IncomeRanges = []string{"Below 30k", "30k-60k", "60k-100k", "Above 100k"}

type Cart struct {
	gorm.Model
	CustomerID uint       `gorm:"not null;uniqueIndex" json:"customer_id"`
	Items      []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem deliberately has no soft-delete column: rows are removed for real
// so the unique (cart, product) index stays usable after removal and re-add.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   Product   `json:"product"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// CanTransitionTo reports whether the one-directional fulfilment flow allows
// moving to next. Cancellation is allowed from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == OrderStatusDelivered || s == OrderStatusCancelled {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	order := map[OrderStatus]int{
		OrderStatusPending:    0,
		OrderStatusProcessing: 1,
		OrderStatusShipped:    2,
		OrderStatusDelivered:  3,
	}
	cur, ok := order[s]
	if !ok {
		return false
	}
	nxt, ok := order[next]
	if !ok {
		return false
	}
	return nxt == cur+1
}

type Order struct {
	gorm.Model
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	Status      OrderStatus     `gorm:"size:20;not null;default:Pending" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the unit price at time of purchase; it never follows
// later catalog price changes.
type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   Product         `json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

type Favorite struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_customer_product" json:"customer_id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_customer_product" json:"product_id"`
	Product    Product   `json:"product"`
	CreatedAt  time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Product{},
		&Customer{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Favorite{},
	}
}
