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

	fulfillmentapp "github.com/storefront/backend/internal/application/fulfillment"
	historyapp "github.com/storefront/backend/internal/application/history"
	"github.com/storefront/backend/internal/application/ordersync"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/ecommerce"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
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
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	txManager := persistence.NewGormTxManager(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRecordRepo := persistence.NewGormOrderRecordRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	buyerHistoryRepo := persistence.NewGormBuyerHistoryRepository(db.DB)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	historyHandler := historyapp.NewPurchaseHistoryHandler(buyerHistoryRepo, log)
	eventBus.Subscribe(historyHandler, historyHandler.EventTypes()...)

	// Marketplace platform adapter. Without a configured campaign the adapter
	// stays up and reports every tenant as unconfigured, so the API surface
	// still works against the local mirror.
	var platform *ecommerce.YandexAdapter
	if cfg.Marketplace.CampaignID != "" && cfg.Marketplace.Token != "" {
		ycfg := ecommerce.NewYandexConfig(cfg.Marketplace.CampaignID, cfg.Marketplace.Token)
		ycfg.APIBaseURL = cfg.Marketplace.BaseURL
		ycfg.Timeout = cfg.Marketplace.Timeout
		ycfg.MaxResponseBytes = cfg.Marketplace.MaxResponseBytes
		platform, err = ecommerce.NewYandexAdapter(ycfg)
		if err != nil {
			log.Fatal("Failed to configure marketplace adapter", zap.Error(err))
		}
	} else {
		log.Warn("Marketplace campaign not configured, remote calls will be rejected")
		platform = ecommerce.NewMultiTenantYandexAdapter(cfg.Marketplace.Timeout)
	}

	// Application services
	matcher := ordersync.NewItemMatcher(productRepo, log)
	upsertService := ordersync.NewUpsertService(orderRecordRepo, matcher, txManager, eventBus, log)
	catalogSyncService := ordersync.NewCatalogSyncService(platform, productRepo, log)
	queryService := ordersync.NewQueryService(orderRecordRepo)

	fulfillEngine := fulfillmentapp.NewEngine(
		platform, matcher, upsertService,
		orderRecordRepo, credentialRepo, templateRepo, settingsRepo, txManager, log,
	)

	var guard fulfillmentapp.DispatchGuard
	if cfg.Redis.Enabled {
		redisGuard, err := cache.NewRedisDispatchGuard(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Fulfillment.DispatchGuardTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		guard = redisGuard
		log.Info("Redis dispatch guard enabled",
			zap.String("host", cfg.Redis.Host),
			zap.Duration("ttl", cfg.Fulfillment.DispatchGuardTTL),
		)
	} else {
		guard = cache.NewInMemoryDispatchGuard(cfg.Fulfillment.DispatchGuardTTL)
	}

	autoTrigger := fulfillmentapp.NewAutoTrigger(
		settingsRepo, productRepo, templateRepo, credentialRepo, orderRecordRepo,
		guard, fulfillEngine, log,
	)

	reconciler := ordersync.NewReconciler(
		platform, catalogSyncService, upsertService, autoTrigger,
		cfg.Scheduler.OrderLookback, log,
	)

	// Periodic reconciliation
	if cfg.Scheduler.Enabled {
		schedCfg := scheduler.DefaultReconcileSchedulerConfig()
		schedCfg.MaxConcurrentJobs = cfg.Scheduler.MaxConcurrentJobs
		schedCfg.JobTimeout = cfg.Scheduler.JobTimeout

		executor := scheduler.NewReconcileExecutor(reconciler, log)
		reconcileScheduler, err := scheduler.NewReconcileScheduler(schedCfg, executor, log)
		if err != nil {
			log.Fatal("Failed to create reconcile scheduler", zap.Error(err))
		}
		if err := reconcileScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := reconcileScheduler.Stop(ctx); err != nil {
				log.Error("Error stopping reconcile scheduler", zap.Error(err))
			}
		}()

		cronTrigger := scheduler.NewCronTrigger(
			cfg.Scheduler.CronSchedule,
			reconcileScheduler,
			scheduler.NewSettingsTenantProvider(settingsRepo),
			log,
		)
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := cronTrigger.Stop(ctx); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()

		log.Info("Reconciliation scheduler started",
			zap.String("schedule", cfg.Scheduler.CronSchedule),
			zap.Int("max_concurrent_jobs", schedCfg.MaxConcurrentJobs),
			zap.Duration("job_timeout", schedCfg.JobTimeout),
			zap.Duration("order_lookback", cfg.Scheduler.OrderLookback),
		)
	}

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Logger = log
	engine.Use(middleware.TenantWithConfig(tenantCfg))

	handler.NewSystemHandler(cfg.App.Name, db.Ping).Register(engine)

	router.New(engine).Register(
		handler.NewOrderHandler(queryService, fulfillEngine),
		handler.NewWebhookHandler(ecommerce.ParseOrderPayload, upsertService, autoTrigger, log),
		handler.NewSyncHandler(reconciler),
	).Setup()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
