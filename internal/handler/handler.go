// Package handler holds the gin handlers, one struct per surface.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/auroramart/storefront/internal/middleware"
	"github.com/auroramart/storefront/internal/models"
	"github.com/auroramart/storefront/internal/repository"
	"github.com/auroramart/storefront/internal/service"
)

// writeError maps the domain error taxonomy onto HTTP responses. Anything
// unrecognized is a persistence failure surfaced generically.
func writeError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   stockErr.Error(),
			"product": stockErr.ProductName,
		})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatusTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentCustomer resolves the authenticated subject to its profile,
// creating the profile on first access.
func currentCustomer(c *gin.Context, profiles *service.ProfileService) (*models.Customer, bool) {
	customer, err := profiles.GetOrCreate(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return customer, true
}
