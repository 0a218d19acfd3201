package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-api/internal/config"
	"go-pos-api/internal/handler"
	"go-pos-api/internal/middleware"
	"go-pos-api/internal/model"
	"go-pos-api/internal/permission"
	"go-pos-api/internal/redisx"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/service"
	"go-pos-api/internal/ws"
	"go-pos-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.StockAdjustment{},
		&model.Customer{},
		&model.Transaction{},
		&model.TransactionItem{},
	)

	// 3. Seed default admin and categories
	seedDefaults(db)

	// 4. Optional Redis (sale-number sequence + dashboard cache)
	rdb := redisx.New(cfg.RedisAddr)
	if rdb == nil {
		log.Println("REDIS_ADDR not set; falling back to random sale-number suffixes")
	}

	// 5. WebSocket hub for live dashboards
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency injection (wiring layers)
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	authService := service.NewAuthService(userRepo, wsHub)
	productService := service.NewProductService(productRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo)
	saleService := service.NewSaleService(txRepo, rdb, wsHub)
	userService := service.NewUserService(userRepo)
	dashService := service.NewDashboardService(txRepo, rdb)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	customerHandler := handler.NewCustomerHandler(customerService)
	saleHandler := handler.NewSaleHandler(saleService)
	userHandler := handler.NewUserHandler(userService)
	dashHandler := handler.NewDashboardHandler(dashService)
	planHandler := handler.NewPlanHandler()

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	api.Get("/plans", planHandler.GetPlans)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/heartbeat", authHandler.Heartbeat)

	// Dashboard (basic reports on every plan, chart needs advanced)
	protected.Get("/dashboard/stats",
		middleware.RequireFeature(permission.FeatureBasicReports), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/sales-chart",
		middleware.RequireFeature(permission.FeatureAdvancedReports), dashHandler.GetSalesChart)

	// Products
	products := protected.Group("/products", middleware.RequireFeature(permission.FeatureProductManagement))
	products.Get("/", productHandler.GetProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", productHandler.CreateProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor), productHandler.DeleteProduct)
	products.Post("/:id/adjust-stock", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor), productHandler.AdjustStock)

	// Categories
	categories := protected.Group("/categories", middleware.RequireFeature(permission.FeatureProductManagement))
	categories.Get("/", categoryHandler.GetCategories)
	categories.Post("/", categoryHandler.CreateCategory)
	categories.Put("/:id", categoryHandler.UpdateCategory)
	categories.Delete("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor), categoryHandler.DeleteCategory)

	// Customers
	customers := protected.Group("/customers", middleware.RequireFeature(permission.FeatureCustomerManagement))
	customers.Get("/", customerHandler.GetCustomers)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Put("/:id", customerHandler.UpdateCustomer)

	// Sales
	sales := protected.Group("/transactions", middleware.RequireFeature(permission.FeatureBasicPOS))
	sales.Get("/", saleHandler.GetSales)
	sales.Get("/:id", saleHandler.GetSale)
	sales.Post("/", saleHandler.CreateSale)
	sales.Post("/:id/cancel", middleware.RequireRole(model.RoleAdmin, model.RoleSupervisor), saleHandler.CancelSale)

	// Employees (plan-gated inside the service as well)
	users := protected.Group("/users")
	users.Get("/", userHandler.GetUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", middleware.RequireRole(model.RoleAdmin), userHandler.DeleteUser)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedDefaults creates the default admin user and starter categories if
// they don't exist
func seedDefaults(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		admin := &model.User{
			Email:              "admin@example.com",
			FullName:           "Administrator",
			Role:               model.RoleAdmin,
			SubscriptionPlan:   model.PlanProPlus,
			SubscriptionStatus: model.SubscriptionActive,
			IsActive:           true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123")
		}
	}

	defaults := []model.Category{
		{Code: "FOOD", Name: "Makanan"},
		{Code: "DRINK", Name: "Minuman"},
		{Code: "MISC", Name: "Lain-lain"},
	}
	for _, cat := range defaults {
		if _, err := categoryRepo.FindByCode(cat.Code); err != nil {
			cat.IsActive = true
			cat.CreatedBy = "system"
			cat.UpdatedBy = "system"
			if err := categoryRepo.Create(&cat); err != nil {
				log.Printf("Warning: Failed to seed category %s: %v", cat.Code, err)
			}
		}
	}
}
