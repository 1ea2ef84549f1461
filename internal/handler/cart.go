package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/service"
)

type CartHandler struct {
	profiles *service.ProfileService
	carts    *service.CartService
	logger   *zap.Logger
}

func NewCartHandler(profiles *service.ProfileService, carts *service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{profiles: profiles, carts: carts, logger: logger}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	summary, err := h.carts.Summary(c.Request.Context(), customer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	item, err := h.carts.AddItem(c.Request.Context(), customer.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem sets a line's quantity; zero or negative removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	if err := h.carts.UpdateItem(c.Request.Context(), customer.ID, uint(itemID), req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), customer.ID, uint(itemID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
