// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ceramstore/ceramstore-backend/internal/cart"
	"github.com/ceramstore/ceramstore-backend/internal/config"
	"github.com/ceramstore/ceramstore-backend/internal/handlers"
	"github.com/ceramstore/ceramstore-backend/internal/inventory"
	"github.com/ceramstore/ceramstore-backend/internal/middleware"
	"github.com/ceramstore/ceramstore-backend/internal/services"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

func Initialize(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	feed := inventory.NewRedisFeed(redisClient)
	inventoryService := inventory.NewSQLService(db, feed)
	cartRepo := cart.NewGormLineRepository(db)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	categoryService := services.NewCategoryService(db)
	showroomService := services.NewShowroomService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	catalogHandler := handlers.NewCatalogHandler(productService, categoryService)
	showroomHandler := handlers.NewShowroomHandler(showroomService)
	cartHandler := handlers.NewCartHandler(cartRepo, inventoryService, inventoryService, productService)
	stockHandler := handlers.NewStockHandler(inventoryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
		}

		// Catalog routes: per-category faceted browsing
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/:category", catalogHandler.GetCategoryCatalog)
			catalog.POST("/:category/search", catalogHandler.SearchCategory)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Showroom routes
		showrooms := v1.Group("/showrooms")
		{
			showrooms.GET("", showroomHandler.GetShowrooms)
			showrooms.GET("/:id", showroomHandler.GetShowroom)
		}

		// Stock routes
		stock := v1.Group("/stock")
		{
			stock.GET("/:productId", stockHandler.GetStatus)

			protected := stock.Group("")
			protected.Use(middleware.AuthRequired(), middleware.ReserveRateLimit())
			{
				protected.POST("/:productId/reserve", stockHandler.Reserve)
				protected.DELETE("/reservations/:id", stockHandler.Release)
				protected.POST("/reservations/:id/confirm", stockHandler.Confirm)
			}
		}

		// Cart routes (authenticated; anonymous carts stay client-side)
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(middleware.AuthRequired())
		{
			cartRoutes.GET("", cartHandler.GetCart)
			cartRoutes.DELETE("", cartHandler.ClearCart)
			cartRoutes.POST("/items", cartHandler.AddItem)
			cartRoutes.PUT("/items/:productId", cartHandler.UpdateItem)
			cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)
			cartRoutes.POST("/merge", cartHandler.MergeCart)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeleteProduct)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", categoryHandler.CreateCategory)
				adminCategories.PUT("/:id", categoryHandler.UpdateCategory)
				adminCategories.PUT("/:id/spec-visibility", categoryHandler.SetSpecVisibility)
			}

			adminShowrooms := admin.Group("/showrooms")
			{
				adminShowrooms.POST("", showroomHandler.CreateShowroom)
				adminShowrooms.PUT("/:id", showroomHandler.UpdateShowroom)
				adminShowrooms.DELETE("/:id", showroomHandler.DeleteShowroom)
			}

			adminStock := admin.Group("/stock")
			{
				adminStock.POST("/:productId/adjust", stockHandler.AdjustStock)
				adminStock.POST("/sweep", stockHandler.SweepExpired)
				adminStock.POST("/resync", stockHandler.ResyncReserved)
			}
		}
	}

	return r
}
