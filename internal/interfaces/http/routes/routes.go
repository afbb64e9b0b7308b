// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/bundle"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
	"github.com/your-org/inventory-backend/internal/domain/order"
	"github.com/your-org/inventory-backend/internal/domain/returns"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"github.com/your-org/inventory-backend/internal/interfaces/http/handlers"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
	"github.com/your-org/inventory-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

// SetupRoutes wires all services and registers every API route
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	log := logger.New(cfg)

	// Services share one stock write path so every movement goes through
	// the same commit funnel.
	catalogService := catalog.NewService(db, cfg)
	notifier := stock.NewRedisNotifier(redisClient, cfg.Inventory.LedgerChannel, log)
	stockService := stock.NewService(stock.NewGormStore(db), catalogService, notifier, log)
	bundleService := bundle.NewService(bundle.NewGormRepository(db), stockService, catalogService)
	orderService := order.NewService(order.NewGormRepository(db), stockService, bundleService, catalogService, log)
	returnsService := returns.NewService(returns.NewGormRepository(db), stockService, catalogService, log)
	userService := user.NewService(db, cfg)

	authHandler := handlers.NewAuthHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	stockHandler := handlers.NewStockHandler(stockService, cfg)
	bundleHandler := handlers.NewBundleHandler(bundleService)
	orderHandler := handlers.NewOrderHandler(orderService)
	returnsHandler := handlers.NewReturnsHandler(returnsService)

	// Public auth endpoints
	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}

	// Catalog: reads for all staff, writes for managers
	catalogGroup := rg.Group("/catalog")
	catalogGroup.Use(middleware.AuthMiddleware(cfg))
	{
		catalogGroup.GET("/items", catalogHandler.GetItems)
		catalogGroup.GET("/items/:id", catalogHandler.GetItem)
		catalogGroup.GET("/locations", catalogHandler.GetLocations)
		catalogGroup.GET("/locations/:id", catalogHandler.GetLocation)

		elevated := catalogGroup.Group("")
		elevated.Use(middleware.ElevatedMiddleware())
		{
			elevated.POST("/items", catalogHandler.CreateItem)
			elevated.DELETE("/items/:id", catalogHandler.ArchiveItem)
			elevated.POST("/locations", catalogHandler.CreateLocation)
		}
	}

	// Stock movements and audit reads
	stockGroup := rg.Group("/stock")
	stockGroup.Use(middleware.AuthMiddleware(cfg))
	{
		stockGroup.POST("/adjustments", stockHandler.AdjustStock)
		stockGroup.POST("/transfers", stockHandler.TransferStock)
		stockGroup.GET("/ledger", stockHandler.GetLedger)
		stockGroup.GET("/levels/:itemId", stockHandler.GetStockLevels)

		elevated := stockGroup.Group("")
		elevated.Use(middleware.ElevatedMiddleware())
		{
			elevated.POST("/import", stockHandler.ImportStock)
		}
	}

	// Bundles
	bundles := rg.Group("/bundles")
	bundles.Use(middleware.AuthMiddleware(cfg))
	{
		bundles.GET("", bundleHandler.GetBundles)
		bundles.GET("/:id", bundleHandler.GetBundle)
		bundles.GET("/:id/buildable", bundleHandler.GetBuildable)
		bundles.POST("/:id/sell", bundleHandler.SellBundle)

		elevated := bundles.Group("")
		elevated.Use(middleware.ElevatedMiddleware())
		{
			elevated.POST("", bundleHandler.CreateBundle)
		}
	}

	// Sales orders. Fulfillment carries its own role gate in the service
	// so the rule holds for every caller, not just this transport.
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/fulfill", orderHandler.FulfillOrder)
	}

	// Customer returns
	returnsGroup := rg.Group("/returns")
	returnsGroup.Use(middleware.AuthMiddleware(cfg))
	{
		returnsGroup.POST("", returnsHandler.RecordReturn)
		returnsGroup.GET("", returnsHandler.GetReturns)
		returnsGroup.GET("/:id", returnsHandler.GetReturn)
	}

	// Staff account administration
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/users", authHandler.CreateUser)
		admin.GET("/users", authHandler.ListUsers)
		admin.PUT("/users/:id/role", authHandler.SetUserRole)
	}
}
