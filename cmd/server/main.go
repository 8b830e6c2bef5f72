package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	leasingapp "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/hirepurchase/backend/internal/infrastructure/auth"
	"github.com/hirepurchase/backend/internal/infrastructure/cache"
	"github.com/hirepurchase/backend/internal/infrastructure/config"
	"github.com/hirepurchase/backend/internal/infrastructure/event"
	"github.com/hirepurchase/backend/internal/infrastructure/export"
	"github.com/hirepurchase/backend/internal/infrastructure/logger"
	"github.com/hirepurchase/backend/internal/infrastructure/persistence"
	"github.com/hirepurchase/backend/internal/infrastructure/printing"
	"github.com/hirepurchase/backend/internal/infrastructure/storage"
	"github.com/hirepurchase/backend/internal/infrastructure/telemetry"
	"github.com/hirepurchase/backend/internal/interfaces/http/handler"
	"github.com/hirepurchase/backend/internal/interfaces/http/middleware"
	"github.com/hirepurchase/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/hirepurchase/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			Hire Purchase Backend API
//	@version		1.0
//	@description	Installment and hire-purchase contract management: schedules, payments, payment proofs and receipts.

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

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

	ctx := context.Background()

	// Tracing, metrics, log export and profiling; disabled pipelines are no-ops
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = providers.Logs.Bridge(log, cfg.Telemetry.ServiceName, zapcore.InfoLevel)

	loc := cfg.App.Location()
	log.Info("Starting leasing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", loc.String()),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, providers.Meter.Meter("leasing/db"), log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	// Postgres schemas are owned by cmd/migrate; sqlite is created in place
	if cfg.Database.Driver == config.DriverSQLite {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)
	defer func() { _ = idempotencyStore.Close() }()

	objects, err := storage.NewObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Event bus: business counters are derived from leasing domain events
	eventBus := event.NewInMemoryEventBus(log)
	leasingMetrics, err := telemetry.NewLeasingMetrics(providers.Meter.Meter("leasing"))
	if err != nil {
		log.Fatal("Failed to create leasing metrics", zap.Error(err))
	}
	eventBus.Subscribe(leasingMetrics)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() { _ = eventBus.Stop(context.Background()) }()

	// Application services
	repos := persistence.NewLeasingRepositories(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	clock := leasingapp.SystemClock(loc)

	contractService := leasingapp.NewContractService(repos, txScope, clock, log)
	contractService.SetEventPublisher(eventBus)
	contractService.SetScheduleExporter(export.NewXLSXScheduleExporter(loc))

	paymentService := leasingapp.NewPaymentService(txScope, clock, log)
	paymentService.SetEventPublisher(eventBus)

	proofService := leasingapp.NewProofService(repos, txScope, objects, clock, log)
	proofService.SetEventPublisher(eventBus)
	proofService.SetMaxImageSize(cfg.Storage.MaxUploadSize)

	channelService := leasingapp.NewPaymentChannelService(repos, objects, log)
	channelService.SetMaxImageSize(cfg.Storage.MaxUploadSize)

	receiptService := leasingapp.NewReceiptService(repos, log)
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Printing), log)
		defer func() { _ = renderer.Close() }()
		printer, err := printing.NewReceiptPrinter(renderer, cfg.Printing, loc, log)
		if err != nil {
			log.Fatal("Failed to initialize receipt printer", zap.Error(err))
		}
		receiptService.SetRenderer(printer)
		log.Info("Receipt printing enabled", zap.Bool("remote_chrome", cfg.Printing.ChromeURL != ""))
	}

	assetService := leasingapp.NewAssetService(repos, log)
	customerService := leasingapp.NewCustomerService(repos, log)
	portalService := leasingapp.NewPortalService(repos, channelService, clock, log)
	dashboardService := leasingapp.NewDashboardService(repos, clock, log)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db, log)
	handlers := router.Handlers{
		Contracts:       handler.NewContractHandler(contractService),
		Payments:        handler.NewPaymentHandler(paymentService),
		Proofs:          handler.NewProofHandler(proofService),
		Receipts:        handler.NewReceiptHandler(receiptService),
		Assets:          handler.NewAssetHandler(assetService),
		Customers:       handler.NewCustomerHandler(customerService),
		PaymentChannels: handler.NewPaymentChannelHandler(channelService),
		Portal:          handler.NewPortalHandler(portalService),
		Dashboard:       handler.NewDashboardHandler(dashboardService),
		System:          systemHandler,
	}
	if cfg.Idempotency.Enabled {
		handlers.PaymentIdempotency = middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, log)
	}
	if cfg.HTTP.UploadRateLimitEnabled {
		uploadLimiter := middleware.NewRateLimiter(cfg.HTTP.UploadRateLimit, cfg.HTTP.UploadRateWindow)
		defer uploadLimiter.Stop()
		handlers.UploadRateLimit = middleware.RateLimit(uploadLimiter)
		log.Info("Upload rate limiting enabled",
			zap.Int("requests", cfg.HTTP.UploadRateLimit),
			zap.Duration("window", cfg.HTTP.UploadRateWindow),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Tracing - Server span per request
	// 4. Logger - Log requests with trace correlation
	// 5. Metrics + Profiling labels
	// 6. Security headers, CORS, body limit, timeout
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, providers.Tracer.IsEnabled()))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(providers.Meter, log))
	engine.Use(middleware.Profiling(providers.Profiler.IsEnabled()))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	}

	// Health checks (outside API versioning and authentication)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/api/v1/health", systemHandler.Health)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger.Enabled, cfg.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	jwtConfig := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Profiles = customerService
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(jwtConfig), middleware.SpanEnricher())
	r.Register(router.LeasingRoutes(handlers)...)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
