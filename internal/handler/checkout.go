package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/repository"
	"github.com/auroramart/storefront/internal/service"
)

type CheckoutHandler struct {
	profiles    *service.ProfileService
	carts       *service.CartService
	checkout    *service.CheckoutService
	recommender recommend.Recommender
	logger      *zap.Logger
}

func NewCheckoutHandler(
	profiles *service.ProfileService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	recommender recommend.Recommender,
	logger *zap.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		profiles:    profiles,
		carts:       carts,
		checkout:    checkout,
		recommender: recommender,
		logger:      logger,
	}
}

// Review returns the priced cart plus up to 5 suggestions drawn from the
// cart's categories.
func (h *CheckoutHandler) Review(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	summary, err := h.carts.Summary(c.Request.Context(), customer.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	var categories []string
	var inCart []uint
	for _, line := range summary.Lines {
		categories = append(categories, line.Item.Product.Category)
		inCart = append(inCart, line.Item.ProductID)
	}
	recommendations := h.recommender.ForCategories(c.Request.Context(), categories, inCart, 5)

	c.JSON(http.StatusOK, gin.H{
		"cart":            summary,
		"recommendations": viewsOf(recommendations),
	})
}

func (h *CheckoutHandler) Confirm(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	order, err := h.checkout.Confirm(c.Request.Context(), customer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	order, err := h.checkout.GetOrder(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	if order.CustomerID != customer.ID {
		writeError(c, repository.ErrOrderNotFound)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	orders, err := h.checkout.ListOrders(c.Request.Context(), customer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
