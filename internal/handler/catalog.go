package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/pricing"
	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/repository"
)

type CatalogHandler struct {
	products    *repository.ProductRepository
	recommender recommend.Recommender
	logger      *zap.Logger
}

func NewCatalogHandler(products *repository.ProductRepository, recommender recommend.Recommender, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{products: products, recommender: recommender, logger: logger}
}

// productView decorates a product with its resolved promotional pricing.
type productView struct {
	models.Product
	EffectivePrice  string `json:"effective_price"`
	DiscountPercent string `json:"discount_percent"`
}

func viewOf(p models.Product) productView {
	return productView{
		Product:         p,
		EffectivePrice:  pricing.EffectivePrice(p).StringFixed(2),
		DiscountPercent: pricing.DiscountPercent(p).String(),
	}
}

func viewsOf(products []models.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	return views
}

// ListProducts supports ?category= and ?in_stock=true filters.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Category:    c.Query("category"),
		InStockOnly: c.Query("in_stock") == "true",
	}
	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": viewsOf(products)})
}

// GetProduct returns the product with up to 4 same-category suggestions.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	product, err := h.products.Get(c.Request.Context(), uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	recommendations := h.recommender.ForCategories(
		c.Request.Context(), []string{product.Category}, []uint{product.ID}, 4)
	c.JSON(http.StatusOK, gin.H{
		"product":         viewOf(*product),
		"recommendations": viewsOf(recommendations),
	})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
