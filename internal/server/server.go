// Package server wires the storefront's dependencies into a gin router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/auroramart/storefront/internal/chatbot"
	"github.com/auroramart/storefront/internal/handler"
	"github.com/auroramart/storefront/internal/middleware"
	"github.com/auroramart/storefront/internal/notify"
	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/repository"
	"github.com/auroramart/storefront/internal/service"
)

type Deps struct {
	DB                    *gorm.DB
	Verifier              middleware.TokenVerifier
	Recommender           recommend.Recommender
	Notifier              notify.Notifier
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	Logger                *zap.Logger
}

func SetupRouter(deps Deps) *gin.Engine {
	products := repository.NewProductRepository(deps.DB)
	favorites := repository.NewFavoriteRepository(deps.DB)

	profiles := service.NewProfileService(deps.DB, deps.Recommender, deps.Logger)
	carts := service.NewCartService(deps.DB, deps.DeliveryFee, deps.FreeDeliveryThreshold, deps.Logger)
	checkout := service.NewCheckoutService(deps.DB, deps.DeliveryFee, deps.FreeDeliveryThreshold, deps.Notifier, deps.Logger)

	catalogHandler := handler.NewCatalogHandler(products, deps.Recommender, deps.Logger)
	cartHandler := handler.NewCartHandler(profiles, carts, deps.Logger)
	checkoutHandler := handler.NewCheckoutHandler(profiles, carts, checkout, deps.Recommender, deps.Logger)
	profileHandler := handler.NewProfileHandler(profiles, deps.Recommender, deps.Logger)
	adminHandler := handler.NewAdminHandler(products, checkout, deps.Logger)
	favoriteHandler := handler.NewFavoriteHandler(profiles, favorites, products, deps.Logger)
	chatbotHandler := handler.NewChatbotHandler(chatbot.NewResponder())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/products", catalogHandler.ListProducts)
	r.GET("/products/:id", catalogHandler.GetProduct)
	r.GET("/categories", catalogHandler.ListCategories)
	r.POST("/chatbot", chatbotHandler.Reply)

	authed := r.Group("/", middleware.Auth(deps.Verifier))
	{
		authed.GET("/profile", profileHandler.GetProfile)
		authed.PUT("/profile", profileHandler.UpdateProfile)
		authed.POST("/profile/onboarding", profileHandler.Onboard)
		authed.GET("/recommendations", profileHandler.Recommendations)

		authed.GET("/cart", cartHandler.GetCart)
		authed.POST("/cart/items", cartHandler.AddItem)
		authed.PUT("/cart/items/:id", cartHandler.UpdateItem)
		authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)

		authed.GET("/checkout", checkoutHandler.Review)
		authed.POST("/checkout/confirm", checkoutHandler.Confirm)
		authed.GET("/orders", checkoutHandler.ListOrders)
		authed.GET("/orders/:id", checkoutHandler.GetOrder)

		authed.POST("/products/:id/favorite", favoriteHandler.Toggle)
		authed.GET("/favorites", favoriteHandler.List)
	}

	admin := r.Group("/admin", middleware.Auth(deps.Verifier), middleware.RequireAdmin())
	{
		admin.POST("/products", adminHandler.CreateProduct)
		admin.PUT("/products/:id", adminHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.GET("/stock/low", adminHandler.LowStock)
		admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
	}

	return r
}
