package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/services"
	"backend/store"
)

// respondError maps service errors onto HTTP statuses. Conflicts carry a
// retryable flag so clients can re-submit.
func respondError(c *gin.Context, err error) {
	var (
		insufficient *services.InsufficientStockError
		missing      *services.MissingInventoryRecordError
		invalid      *services.InvalidInputError
	)
	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":      insufficient.Error(),
			"ingredient": insufficient.IngredientID,
			"needed":     insufficient.Needed,
			"have":       insufficient.Have,
		})
	case errors.As(err, &missing):
		c.JSON(http.StatusConflict, gin.H{"error": missing.Error(), "ingredient": missing.IngredientID})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent update, please retry", "retryable": true})
	case errors.Is(err, services.ErrMenuNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrLineNotFound),
		errors.Is(err, services.ErrStockNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
