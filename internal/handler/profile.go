package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/auroramart/storefront/internal/recommend"
	"github.com/auroramart/storefront/internal/service"
)

type ProfileHandler struct {
	profiles    *service.ProfileService
	recommender recommend.Recommender
	logger      *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, recommender recommend.Recommender, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, recommender: recommender, logger: logger}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var update service.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	if err := h.profiles.Update(c.Request.Context(), customer, update); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Onboard collects demographics and predicts the preferred category.
func (h *ProfileHandler) Onboard(c *gin.Context) {
	var input service.OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	if err := h.profiles.Onboard(c.Request.Context(), customer, input); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Recommendations personalizes the home page: 3 products for the profile.
func (h *ProfileHandler) Recommendations(c *gin.Context) {
	customer, ok := currentCustomer(c, h.profiles)
	if !ok {
		return
	}
	products := h.recommender.ForProfile(c.Request.Context(), *customer, 3)
	c.JSON(http.StatusOK, gin.H{"recommendations": viewsOf(products)})
}
