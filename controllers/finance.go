package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backend/models"
	"backend/services"
)

type FinanceController struct {
	finance *services.Finance
}

func NewFinanceController(finance *services.Finance) *FinanceController {
	return &FinanceController{finance: finance}
}

func (f *FinanceController) Add(c *gin.Context) {
	var req models.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := f.finance.Add(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (f *FinanceController) Update(c *gin.Context) {
	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := f.finance.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (f *FinanceController) Delete(c *gin.Context) {
	if err := f.finance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// Query handles GET /transactions?mode=day|month|all&date=<unix millis>.
// Date defaults to now.
func (f *FinanceController) Query(c *gin.Context) {
	mode := c.DefaultQuery("mode", services.RangeAll)
	ref := time.Now()
	if raw := c.Query("date"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be unix milliseconds"})
			return
		}
		ref = time.UnixMilli(ms)
	}

	records, err := f.finance.QueryRange(c.Request.Context(), mode, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
