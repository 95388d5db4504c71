package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	brokerapp "github.com/estate/backend/internal/application/broker"
	commissionapp "github.com/estate/backend/internal/application/commission"
	payoutapp "github.com/estate/backend/internal/application/payout"
	scheduleapp "github.com/estate/backend/internal/application/schedule"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/cache"
	"github.com/estate/backend/internal/infrastructure/config"
	csvimport "github.com/estate/backend/internal/infrastructure/import"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/estate/backend/internal/infrastructure/persistence"
	"github.com/estate/backend/internal/interfaces/http/handler"
	"github.com/estate/backend/internal/interfaces/http/middleware"
	"github.com/estate/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		logger.Sync(log)
	}()

	log.Info("Starting estate backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	currency, err := valueobject.ParseCurrency(cfg.Finance.DefaultCurrency)
	if err != nil {
		log.Fatal("Invalid default currency", zap.String("currency", cfg.Finance.DefaultCurrency), zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(context.Background())
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	if closer, ok := idempotency.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	// Repositories
	brokerRepo := persistence.NewGormBrokerRepository(db.DB)
	modelRepo := persistence.NewGormCommissionModelRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	itemRepo := persistence.NewGormEligibleItemRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	planRepo := persistence.NewGormPaymentPlanRepository(db.DB)

	// Application services
	brokerService := brokerapp.NewService(brokerRepo)
	modelService := commissionapp.NewModelService(modelRepo, recordRepo, currency)
	commissionService := commissionapp.NewService(brokerRepo, modelRepo, recordRepo, currency)
	scheduleService := scheduleapp.NewService(planRepo, currency)
	payoutService := payoutapp.NewService(itemRepo, paymentRepo, paymentRepo, brokerRepo, idempotency, payoutapp.ImportOptions{
		Limits: csvimport.Limits{
			MaxFileSize:   cfg.Import.MaxFileSize,
			MaxRows:       cfg.Import.MaxRows,
			LegacyCharset: cfg.Import.LegacyCharset,
		},
		MaxErrors:      cfg.Import.MaxErrors,
		IdempotencyTTL: cfg.Import.IdempotencyTTL,
		Currency:       currency,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

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

	// Uploads carry their own, larger limit
	bodyLimit := max(cfg.HTTP.MaxBodySize, cfg.Import.MaxFileSize+1<<20)
	engine.Use(middleware.BodyLimit(bodyLimit))

	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/health", healthHandler.Check)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.APIGroups(router.Handlers{
		Brokers:          handler.NewBrokerHandler(brokerService, payoutService),
		CommissionModels: handler.NewCommissionModelHandler(modelService),
		Commissions:      handler.NewCommissionHandler(commissionService),
		Schedules:        handler.NewScheduleHandler(scheduleService),
		Payouts:          handler.NewPayoutHandler(payoutService, cfg.Import.MaxFileSize),
		Health:           healthHandler,
	}, middleware.TenantMiddleware())...)
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
