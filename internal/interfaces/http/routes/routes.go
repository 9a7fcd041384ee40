// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/interfaces/http/handlers"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, redisClient, cfg)
	SetupStockRoutes(rg, db, redisClient, cfg)
	SetupSaleRoutes(rg, db, redisClient, cfg)
	SetupTransferRoutes(rg, db, redisClient, cfg)
	SetupLedgerRoutes(rg, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// SetupStockRoutes sets up stock ledger and location routes
func SetupStockRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	stockHandler := handlers.NewStockHandler(db, cfg)

	stocks := rg.Group("/stocks")
	stocks.Use(middleware.AuthMiddleware(cfg))
	{
		stocks.GET("", stockHandler.ListStock)
		stocks.GET("/:location/:item_code", stockHandler.GetStock)
		stocks.POST("", stockHandler.CreateStock)
	}

	locations := rg.Group("/locations")
	locations.Use(middleware.AuthMiddleware(cfg))
	{
		locations.GET("", stockHandler.ListLocations)

		// Only administrators manage the branch registry
		admin := locations.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", stockHandler.CreateLocation)
		}
	}
}

// SetupSaleRoutes sets up point-of-sale routes
func SetupSaleRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	saleHandler := handlers.NewSaleHandler(db, cfg)

	sales := rg.Group("/sales")
	sales.Use(middleware.AuthMiddleware(cfg))
	{
		sales.POST("", saleHandler.Sell)
		sales.GET("", saleHandler.ListSales)
	}
}

// SetupTransferRoutes sets up transfer request, approval and policy routes
func SetupTransferRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	transferHandler := handlers.NewTransferHandler(db, cfg)

	transfers := rg.Group("/transfers")
	transfers.Use(middleware.AuthMiddleware(cfg))
	{
		transfers.POST("", transferHandler.CreateTransfer)
		transfers.GET("", transferHandler.ListTransfers)
		transfers.GET("/pending", transferHandler.ListPendingTransfers)
		transfers.GET("/:id", transferHandler.GetTransfer)

		// Approval surfaces require admin privileges
		admin := transfers.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/:id/approve", transferHandler.ApproveTransfer)
			admin.POST("/:id/reject", transferHandler.RejectTransfer)
			admin.POST("/bulk-resolve", transferHandler.BulkResolve)
			admin.POST("/auto-approve", transferHandler.AutoApprove)
		}
	}

	policy := rg.Group("/policy")
	policy.Use(middleware.AuthMiddleware(cfg))
	{
		policy.GET("", transferHandler.GetPolicy)

		admin := policy.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.PUT("", transferHandler.UpdatePolicy)
		}
	}
}

// SetupLedgerRoutes sets up transfer ledger query routes
func SetupLedgerRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	auditHandler := handlers.NewAuditHandler(db, cfg)

	ledger := rg.Group("/ledger")
	ledger.Use(middleware.AuthMiddleware(cfg))
	{
		ledger.GET("", auditHandler.QueryByTimeRange)
		ledger.GET("/location/:location", auditHandler.QueryByLocation)
	}
}
