package router

import (
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/broadcast"
	"github.com/Muhammet-Aksoy/stokv1/internal/config"
	"github.com/Muhammet-Aksoy/stokv1/internal/handler"
	"github.com/Muhammet-Aksoy/stokv1/internal/middleware"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"
	"github.com/Muhammet-Aksoy/stokv1/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *broadcast.Hub, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	debtRepo := repository.NewDebtRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	syncSvc := service.NewSyncService(productRepo, saleRepo, customerRepo, debtRepo)
	snapshotSvc := service.NewSnapshotService(productRepo, saleRepo, customerRepo, debtRepo)
	productSvc := service.NewProductService(productRepo, hub)
	saleSvc := service.NewSaleService(productRepo, saleRepo, hub)
	customerSvc := service.NewCustomerService(customerRepo, hub)

	// ── Handlers ─────────────────────────────────────────────────────────────
	syncH := handler.NewSyncHandler(syncSvc, snapshotSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	statusH := handler.NewStatusHandler(cfg, snapshotSvc, hub)
	backupH := handler.NewBackupHandler(dispatcher)
	liveH := handler.NewLiveHandler(hub, snapshotSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/ws", liveH.Serve)

	api := r.Group("/api")
	{
		api.GET("/data", syncH.Data)
		api.POST("/sync", syncH.Sync)

		api.POST("/products", productsH.Add)
		api.PUT("/products/:id", productsH.Update)
		api.DELETE("/products/:code", productsH.Delete)
		api.GET("/products/:code/variants", productsH.Variants)
		api.POST("/products/bulk", productsH.BulkUpdate)
		api.GET("/categories", productsH.Categories)

		api.POST("/sales", salesH.Add)

		api.POST("/customers", customersH.Add)
		api.DELETE("/customers/:id", customersH.Delete)

		api.GET("/status", statusH.Status)
		api.POST("/backup/email", backupH.Trigger)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
