package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/services"
)

type DashboardController struct {
	dashboard *services.Dashboard
}

func NewDashboardController(dashboard *services.Dashboard) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

func (d *DashboardController) Summary(c *gin.Context) {
	summary, err := d.dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
