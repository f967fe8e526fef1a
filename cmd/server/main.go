package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	directoryapp "github.com/opsboard/backend/internal/application/directory"
	inventoryapp "github.com/opsboard/backend/internal/application/inventory"
	"github.com/opsboard/backend/internal/infrastructure/auth"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/opsboard/backend/internal/infrastructure/event"
	"github.com/opsboard/backend/internal/infrastructure/logger"
	"github.com/opsboard/backend/internal/infrastructure/persistence"
	"github.com/opsboard/backend/internal/interfaces/http/handler"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
	"github.com/opsboard/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OpsBoard Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := gormlogger.Warn
	if cfg.App.Env != "production" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	countRepo := persistence.NewGormStockCountRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	batchRepo := persistence.NewGormStockBatchRepository(db.DB)
	varianceRepo := persistence.NewGormVarianceRecordRepository(db.DB)
	siteRepo := persistence.NewGormSiteRepository(db.DB)
	peopleDirectory := persistence.NewGormPeopleDirectory(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	approverService := directoryapp.NewApproverService(peopleDirectory)
	countService := inventoryapp.NewStockCountService(
		countRepo, stockItemRepo, batchRepo, siteRepo, txScope, approverService, eventBus)
	reconciliationService := inventoryapp.NewReconciliationService(txScope, eventBus)
	massBalanceService := inventoryapp.NewMassBalanceService(varianceRepo)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	countHandler := handler.NewStockCountHandler(countService, reconciliationService)
	approverHandler := handler.NewApproverHandler(approverService)
	massBalanceHandler := handler.NewMassBalanceHandler(massBalanceService)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Unauthenticated endpoints
	engine.GET("/health", systemHandler.Health)

	// Authenticated API routes
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.Use(middleware.JWTAuthMiddleware(jwtService))
	inventoryRoutes.POST("/stock-counts", countHandler.Create)
	inventoryRoutes.GET("/stock-counts", countHandler.List)
	inventoryRoutes.GET("/stock-counts/by-number/:count_number", countHandler.GetByCountNumber)
	inventoryRoutes.GET("/stock-counts/:id", countHandler.GetByID)
	inventoryRoutes.GET("/stock-counts/:id/progress", countHandler.GetProgress)
	inventoryRoutes.POST("/stock-counts/:id/count", countHandler.RecordCount)
	inventoryRoutes.POST("/stock-counts/:id/counts", countHandler.RecordCounts)
	inventoryRoutes.POST("/stock-counts/:id/submit", countHandler.Submit)
	inventoryRoutes.POST("/stock-counts/:id/approve", countHandler.Approve)
	inventoryRoutes.POST("/stock-counts/:id/reconcile", countHandler.Reconcile)
	inventoryRoutes.POST("/stock-counts/:id/lock", countHandler.Lock)
	inventoryRoutes.GET("/stock-counts/:id/variances", massBalanceHandler.GetVarianceRecords)
	inventoryRoutes.GET("/stock-counts/:id/mass-balance", massBalanceHandler.GetMassBalance)

	directoryRoutes := router.NewDomainGroup("directory", "/directory")
	directoryRoutes.Use(middleware.JWTAuthMiddleware(jwtService))
	directoryRoutes.GET("/sites/:site_id/approvers", approverHandler.Resolve)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine)
	r.Register(inventoryRoutes)
	r.Register(directoryRoutes)
	r.Register(systemRoutes)
	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
