package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stocktrail-system/config"
	"stocktrail-system/internal/database"
	"stocktrail-system/internal/gateway/handlers"
	"stocktrail-system/internal/gateway/middleware"
	catalog "stocktrail-system/internal/services/catalog/handler"
	ledger "stocktrail-system/internal/services/ledger/handler"
	sales "stocktrail-system/internal/services/sales/handler"
	"stocktrail-system/internal/storage"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)

	blobs, err := storage.NewDiskBlobStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		log.Fatalf("Failed to prepare upload storage: %v", err)
	}

	catalogHandler := catalog.NewCatalogHandler(db, redisClient)
	ledgerHandler := ledger.NewLedgerHandler(db, redisClient)
	salesHandler := sales.NewSalesHandler(db, redisClient)

	storeHandler := handlers.NewStoreHTTPHandler(catalogHandler)
	folderHandler := handlers.NewFolderHTTPHandler(catalogHandler)
	productHandler := handlers.NewProductHTTPHandler(catalogHandler, ledgerHandler, blobs)
	salesHTTPHandler := handlers.NewSalesHTTPHandler(salesHandler, ledgerHandler)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	api := r.Group("/api/v1")
	{
		stores := api.Group("/stores")
		{
			stores.POST("", storeHandler.CreateStore)
			stores.GET("", storeHandler.ListStores)
			stores.GET("/:id", storeHandler.GetStore)
			stores.GET("/:id/folders", storeHandler.ListStoreFolders)
			stores.PUT("/:id", storeHandler.UpdateStore)
			stores.DELETE("/:id", storeHandler.DeleteStore)
		}

		folders := api.Group("/folders")
		{
			folders.POST("", folderHandler.CreateFolder)
			folders.GET("", folderHandler.ListFolders)
			folders.GET("/:id", folderHandler.GetFolder)
			folders.GET("/:id/products", folderHandler.ListFolderProducts)
			folders.PUT("/:id", folderHandler.UpdateFolder)
			folders.DELETE("/:id", folderHandler.DeleteFolder)
		}

		products := api.Group("/products")
		{
			products.POST("", productHandler.CreateProduct)
			products.GET("", productHandler.ListProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.POST("/:id/restock", productHandler.Restock)
			products.POST("/:id/sell", productHandler.Sell)
		}

		salesGroup := api.Group("/sales")
		{
			salesGroup.POST("", salesHTTPHandler.CreateSaleReport)
			salesGroup.GET("", salesHTTPHandler.ListSales)
			salesGroup.GET("/:id", salesHTTPHandler.GetSale)
			salesGroup.PUT("/:id", salesHTTPHandler.UpdateSale)
			salesGroup.DELETE("/:id", salesHTTPHandler.DeleteSale)
		}
	}

	r.Static("/uploads", cfg.Upload.Dir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Inventory tracker is running",
			"timestamp": time.Now(),
		})
	})

	addr := ":" + cfg.Port
	log.Printf("Starting server on port %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
