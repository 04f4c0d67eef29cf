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

	fundsapp "github.com/fundsight/backend/internal/application/funds"
	"github.com/fundsight/backend/internal/application/ingestion"
	metricsapp "github.com/fundsight/backend/internal/application/metrics"
	"github.com/fundsight/backend/internal/infrastructure/cache"
	"github.com/fundsight/backend/internal/infrastructure/config"
	"github.com/fundsight/backend/internal/infrastructure/logger"
	"github.com/fundsight/backend/internal/infrastructure/persistence"
	"github.com/fundsight/backend/internal/interfaces/http/handler"
	"github.com/fundsight/backend/internal/interfaces/http/middleware"
	"github.com/fundsight/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log, err := logger.FromAppConfig(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting fundsight server",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Database connection with zap-backed gorm logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	fundRepo := persistence.NewGormFundRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	docRepo := persistence.NewGormDocumentRepository(db.DB)

	// Metric result cache (redis when enabled, in-memory otherwise)
	metricCache, closeCache := cache.NewMetricCache(cfg, log)
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("failed to close metric cache", zap.Error(err))
		}
	}()

	// Application services
	fundService := fundsapp.NewService(fundRepo, txRepo, docRepo, log)
	ingestionService := ingestion.NewService(docRepo, fundRepo, txRepo, log)
	metricsService := metricsapp.NewService(fundRepo, txRepo, metricCache, log)

	// Handlers
	fundHandler := handler.NewFundHandler(fundService)
	documentHandler := handler.NewDocumentHandler(fundService, ingestionService)
	metricsHandler := handler.NewMetricsHandler(metricsService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	funds := router.NewDomainGroup("funds", "/funds")
	funds.POST("", fundHandler.Create).
		GET("", fundHandler.List).
		GET("/:id", fundHandler.GetByID).
		PUT("/:id", fundHandler.Update).
		DELETE("/:id", fundHandler.Delete).
		GET("/:id/capital-calls", fundHandler.ListCapitalCalls).
		GET("/:id/distributions", fundHandler.ListDistributions).
		GET("/:id/adjustments", fundHandler.ListAdjustments).
		POST("/:id/documents", documentHandler.Register).
		GET("/:id/documents", documentHandler.ListByFund).
		GET("/:id/metrics", metricsHandler.Calculate).
		GET("/:id/metrics/:metric/breakdown", metricsHandler.Breakdown)

	documents := router.NewDomainGroup("documents", "/documents")
	documents.GET("/:id", documentHandler.GetByID).
		POST("/:id/process", documentHandler.Process)

	system := router.NewDomainGroup("system", "/system")
	system.GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping)

	r.Register(funds).Register(documents).Register(system)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// healthHandler reports liveness together with database reachability
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
