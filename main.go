package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"backend/config"
	"backend/controllers"
	"backend/middleware"
	"backend/routes"
	"backend/services"
	"backend/store/mongostore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	cfg := config.Load()

	gin.SetMode(gin.ReleaseMode)
	log.Printf("Running in %s mode", gin.Mode())

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	log.Println("Connected to MongoDB")
	st := mongostore.New(db)

	catalog := services.NewCatalog(st)
	finance := services.NewFinance(st)
	stock := services.NewStock(st, finance)
	orders := services.NewOrders(st, catalog)
	dashboard := services.NewDashboard(st, cfg.LowStockThreshold)
	users := services.NewUsers(st)

	photos, err := controllers.NewPhotoStorage(cfg)
	if err != nil {
		log.Fatalf("Photo storage init failed: %v", err)
	}

	r := gin.Default()

	middleware.InitMetrics()
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	digest := services.NewLowStockDigest(stock, cfg.DigestRecipient, cfg.LowStockThreshold)
	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(1).Day().At(cfg.DigestTime).Do(digest.Run); err != nil {
		log.Fatalf("Scheduling low stock digest failed: %v", err)
	}
	scheduler.StartAsync()

	routes.InitializeRoutes(r, routes.Controllers{
		Auth:      controllers.NewAuthController(users),
		Orders:    controllers.NewOrderController(orders),
		Menu:      controllers.NewMenuController(catalog, photos),
		Stock:     controllers.NewStockController(stock),
		Finance:   controllers.NewFinanceController(finance),
		Dashboard: controllers.NewDashboardController(dashboard),
		Admin:     controllers.NewAdminController(users),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
