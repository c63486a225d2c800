// internal/router/router.go
package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/bazaar-backend/internal/cache"
	"github.com/javajoker/bazaar-backend/internal/config"
	"github.com/javajoker/bazaar-backend/internal/handlers"
	"github.com/javajoker/bazaar-backend/internal/middleware"
	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/repository"
	"github.com/javajoker/bazaar-backend/internal/services"
	"github.com/javajoker/bazaar-backend/internal/utils"
)

// Initialize wires the services and routes. c caches the seller directory
// and may be a Redis or in-memory cache.
func Initialize(ctx context.Context, db *gorm.DB, c cache.Cache, cfg *config.Config) (*gin.Engine, error) {
	// Initialize repositories and services
	catalogRepo := repository.NewCatalogRepository(db)
	productRepo := repository.NewProductRepository(db)

	sellerDirectory := services.NewSellerDirectory(catalogRepo, c, cfg.Catalog.SellerCacheTTL)
	catalogService := services.NewCatalogService(catalogRepo, sellerDirectory)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	submissionService := services.NewSubmissionService(productRepo, storageService)

	productHandler := handlers.NewProductHandler(catalogService, submissionService, storageService, cfg.Catalog)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend))
	r.Use(middleware.I18nMiddleware(models.Language(cfg.I18n.DefaultLocale)))
	limits := middleware.NewRateLimits(ctx, cfg.RateLimit)
	r.Use(limits.General.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
		}

		v1.GET("/delivery-options/presets", productHandler.GetDeliveryPresets)

		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired())
		{
			seller.GET("/products", productHandler.GetSellerProducts)
			seller.POST("/products", limits.Write.Middleware(), productHandler.CreateProduct)
			seller.PUT("/products/:id", limits.Write.Middleware(), productHandler.UpdateProduct)
			seller.POST("/media", limits.Upload.Middleware(), productHandler.UploadMedia)
		}
	}

	// Without S3, uploads are written to ./uploads and served from there.
	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", "./uploads")
	}

	return r, nil
}
