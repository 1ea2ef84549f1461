package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/repository"
	"github.com/auroramart/storefront/internal/service"
)

// AdminHandler is the back-office surface: product CRUD, low-stock listing
// and order status management.
type AdminHandler struct {
	products *repository.ProductRepository
	checkout *service.CheckoutService
	logger   *zap.Logger
}

func NewAdminHandler(products *repository.ProductRepository, checkout *service.CheckoutService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{products: products, checkout: checkout, logger: logger}
}

type productInput struct {
	Name               string           `json:"name" binding:"required"`
	Description        string           `json:"description"`
	Category           string           `json:"category" binding:"required"`
	Price              decimal.Decimal  `json:"price" binding:"required"`
	Stock              int              `json:"stock" binding:"min=0"`
	ReorderThreshold   int              `json:"reorder_threshold"`
	Rating             *decimal.Decimal `json:"rating"`
	IsOnSale           bool             `json:"is_on_sale"`
	OriginalPrice      *decimal.Decimal `json:"original_price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
}

func (in productInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.Stock = in.Stock
	p.ReorderThreshold = in.ReorderThreshold
	p.Rating = in.Rating
	p.IsOnSale = in.IsOnSale
	p.OriginalPrice = in.OriginalPrice
	p.DiscountPercentage = in.DiscountPercentage
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	var product models.Product
	input.apply(&product)
	if product.ReorderThreshold == 0 {
		product.ReorderThreshold = 10
	}
	if err := h.products.Create(c.Request.Context(), &product); err != nil {
		writeError(c, err)
		return
	}
	h.logger.Info("product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Price.IsNegative() || input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price and stock must not be negative"})
		return
	}
	product, err := h.products.Get(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	input.apply(product)
	if err := h.products.Update(c.Request.Context(), product); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.products.Delete(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// LowStock lists products at or below their reorder threshold.
func (h *AdminHandler) LowStock(c *gin.Context) {
	products, err := h.products.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.checkout.UpdateStatus(c.Request.Context(), uint(id), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
