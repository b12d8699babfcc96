package routes

import (
	"github.com/gin-gonic/gin"

	"backend/controllers"
	"backend/middleware"
	"backend/services"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Orders    *controllers.OrderController
	Menu      *controllers.MenuController
	Stock     *controllers.StockController
	Finance   *controllers.FinanceController
	Dashboard *controllers.DashboardController
	Admin     *controllers.AdminController
}

func InitializeRoutes(router *gin.Engine, c Controllers) {
	router.POST("/register", c.Auth.Register)
	router.POST("/login", c.Auth.Login)
	router.Static("/uploads", "./uploads")

	customer := router.Group("/customer")
	customer.Use(middleware.AuthMiddleware(services.RoleCustomer, services.RoleStaff, services.RoleAdmin))
	{
		customer.GET("/menu", c.Menu.List)
		customer.GET("/addons", c.Menu.Addons)
		customer.POST("/orders", c.Orders.Create)
		customer.GET("/orders", c.Orders.ListOwn)
		customer.PUT("/orders/:id/items/:menuId", c.Orders.UpdateLine)
		customer.DELETE("/orders/:id", c.Orders.Delete)
	}

	staff := router.Group("/staff")
	staff.Use(middleware.AuthMiddleware(services.RoleStaff, services.RoleAdmin))
	{
		staff.GET("/orders", c.Orders.ListAll)

		staff.GET("/stock", c.Stock.List)
		staff.POST("/stock/:id/purchase", c.Stock.Purchase)
		staff.PUT("/stock/:id/adjust", c.Stock.Adjust)

		staff.GET("/transactions", c.Finance.Query)
		staff.POST("/transactions", c.Finance.Add)
		staff.PUT("/transactions/:id", c.Finance.Update)
		staff.DELETE("/transactions/:id", c.Finance.Delete)

		staff.GET("/dashboard", c.Dashboard.Summary)

		staff.POST("/menu", c.Menu.Create)
		staff.POST("/menu/:id/photo", c.Menu.UploadPhoto)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(services.RoleAdmin))
	{
		admin.GET("/users", c.Admin.ListUsers)
		admin.POST("/users", c.Admin.CreateUser)
		admin.DELETE("/users/:id", c.Admin.DeleteUser)
	}
}
