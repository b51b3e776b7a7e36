package router

import (
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/config"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/handler"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/middleware"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/repository"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/service"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, categoryRepo)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo)
	commentSvc := service.NewCommentService(commentRepo, orderRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	statsSvc := service.NewStatsService(statsRepo, rdb, time.Duration(cfg.StatsCacheTTL)*time.Second)
	receiptSvc := service.NewReceiptService(orderRepo, settingsRepo, dispatcher, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	ordersH := handler.NewOrdersHandler(orderSvc, receiptSvc)
	commentsH := handler.NewCommentsHandler(commentSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	statsH := handler.NewStatisticsHandler(statsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/ready", handler.Ready(db))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole("ADMIN", "MANAGER", "ATTENDANT")
	managerUp := middleware.RequireRole("ADMIN", "MANAGER")
	adminOnly := middleware.RequireRole("ADMIN")

	v1 := r.Group("/v1", jwtMW)
	{
		// Orders — every role operates the counter
		v1.POST("/orders", anyRole, ordersH.Create)
		v1.GET("/orders", anyRole, ordersH.List)

		// Static "stats" segment takes priority over :id in gin's route tree
		v1.GET("/orders/stats/daily", managerUp, statsH.Daily)
		v1.GET("/orders/stats/products", managerUp, statsH.TopProducts)

		v1.GET("/orders/:id", anyRole, ordersH.Get)
		v1.PUT("/orders/:id", anyRole, ordersH.Update)
		v1.PATCH("/orders/:id/status", anyRole, ordersH.UpdateStatus)
		v1.DELETE("/orders/:id", managerUp, ordersH.Delete)
		v1.GET("/orders/:id/receipt", anyRole, ordersH.ReceiptPDF)
		v1.POST("/orders/:id/receipt/email", anyRole, ordersH.EmailReceipt)

		// Comments hang off orders; deletion is manager and up
		v1.POST("/orders/:id/comments", anyRole, commentsH.Create)
		v1.GET("/orders/:id/comments", anyRole, commentsH.ListByOrder)
		v1.DELETE("/comments/:id", managerUp, commentsH.Delete)

		// Products — all roles read, manager and up write
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		prods := v1.Group("/products", managerUp)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.POST("/:id/reactivate", productsH.Reactivate)
		}

		// Categories — all roles read, manager and up write
		v1.GET("/categories", anyRole, categoriesH.List)
		categories := v1.Group("/categories", managerUp)
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		v1.GET("/statistics/dashboard", managerUp, statsH.Dashboard)

		// Store settings — all roles read (receipts need them), admin writes
		v1.GET("/settings", anyRole, settingsH.Get)
		v1.PUT("/settings", adminOnly, settingsH.Update)

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.POST("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
