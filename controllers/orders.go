package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/models"
	"backend/services"
)

type OrderController struct {
	orders *services.Orders
}

func NewOrderController(orders *services.Orders) *OrderController {
	return &OrderController{orders: orders}
}

func (o *OrderController) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID := c.GetString("userID")
	order, err := o.orders.Create(c.Request.Context(), customerID, req.Selections)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// loadOwned fetches the order and enforces that customers only touch their
// own orders. Staff and admin pass through.
func (o *OrderController) loadOwned(c *gin.Context, orderID string) (models.Order, bool) {
	order, err := o.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return models.Order{}, false
	}
	if c.GetString("role") == services.RoleCustomer && order.CustomerID != c.GetString("userID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
		return models.Order{}, false
	}
	return order, true
}

func (o *OrderController) UpdateLine(c *gin.Context) {
	var req models.UpdateOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID := c.Param("id")
	if _, ok := o.loadOwned(c, orderID); !ok {
		return
	}
	order, err := o.orders.UpdateLine(c.Request.Context(), orderID, c.Param("menuId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (o *OrderController) Delete(c *gin.Context) {
	orderID := c.Param("id")
	if _, ok := o.loadOwned(c, orderID); !ok {
		return
	}
	if err := o.orders.Delete(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func (o *OrderController) ListOwn(c *gin.Context) {
	orders, err := o.orders.ListByCustomer(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (o *OrderController) ListAll(c *gin.Context) {
	orders, err := o.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
