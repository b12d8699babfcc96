package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/models"
	"backend/services"
)

type StockController struct {
	stock *services.Stock
}

func NewStockController(stock *services.Stock) *StockController {
	return &StockController{stock: stock}
}

func (s *StockController) List(c *gin.Context) {
	items, err := s.stock.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *StockController) Purchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := s.stock.Purchase(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *StockController) Adjust(c *gin.Context) {
	var req models.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, delta, err := s.stock.AdjustTo(c.Request.Context(), c.Param("id"), req.NewQuantity, req.Reason, c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "delta": delta})
}
