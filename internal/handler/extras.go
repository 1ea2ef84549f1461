package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/chatbot"
	"github.com/auroramart/storefront/internal/repository"
	"github.com/auroramart/storefront/internal/service"
)

// FavoriteHandler backs the favorite-toggle JSON endpoint.
type FavoriteHandler struct {
	profiles  *service.ProfileService
	favorites *repository.FavoriteRepository
	products  *repository.ProductRepository
	logger    *zap.Logger
}

func NewFavoriteHandler(
	profiles *service.ProfileService,
	favorites *repository.FavoriteRepository,
	products *repository.ProductRepository,
	logger *zap.Logger,
) *FavoriteHandler {
	return &FavoriteHandler{profiles: profiles, favorites: favorites, products: products, logger: logger}
}

func (h *FavoriteHandler) Toggle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	if _, err := h.products.Get(c.Request.Context(), uint(id)); err != nil {
		writeError(c, err)
		return
	}
	favorited, err := h.favorites.Toggle(c.Request.Context(), customer.ID, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	favorites, err := h.favorites.ListByCustomer(c.Request.Context(), customer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// ChatbotHandler answers from the keyword table; it never fails the request.
type ChatbotHandler struct {
	responder *chatbot.Responder
}

func NewChatbotHandler(responder *chatbot.Responder) *ChatbotHandler {
	return &ChatbotHandler{responder: responder}
}

func (h *ChatbotHandler) Reply(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Message = ""
	}
	c.JSON(http.StatusOK, gin.H{"reply": h.responder.Reply(req.Message)})
}
