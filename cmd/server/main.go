package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	billingapp "github.com/lifemedical/backend/internal/application/billing"
	catalogapp "github.com/lifemedical/backend/internal/application/catalog"
	identityapp "github.com/lifemedical/backend/internal/application/identity"
	"github.com/lifemedical/backend/internal/infrastructure/auth"
	"github.com/lifemedical/backend/internal/infrastructure/config"
	"github.com/lifemedical/backend/internal/infrastructure/logger"
	"github.com/lifemedical/backend/internal/infrastructure/payment"
	"github.com/lifemedical/backend/internal/infrastructure/persistence"
	"github.com/lifemedical/backend/internal/infrastructure/storage"
	"github.com/lifemedical/backend/internal/interfaces/http/handler"
	"github.com/lifemedical/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting LifeMedical Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.GormLoggerConfig{
		Level:              cfg.Log.Level,
		SlowQueryThreshold: cfg.Log.SlowQueryThreshold,
	})
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
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
	log.Info("Database connected and migrated")

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)

	// Token infrastructure. Redis backs the blacklist in production;
	// the in-memory fallback only suits a single process.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Using in-memory token blacklist; revocations are lost on restart")
	}

	// Object storage for catalog images
	var objectStorage catalogapp.ObjectStorageService
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("S3 object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	default:
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Using stub object storage; uploaded images are not persisted")
	}

	// Payment gateway
	paymob, err := payment.NewPaymobAdapter(&cfg.Paymob)
	if err != nil {
		log.Fatal("Failed to initialize Paymob adapter", zap.Error(err))
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, companyRepo, sequenceRepo, jwtService, blacklist, cfg.Tenant.BaseDomain, log)
	userService := identityapp.NewUserService(userRepo, log)
	companyService := identityapp.NewCompanyService(companyRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, sequenceRepo, objectStorage, log)
	brandService := catalogapp.NewBrandService(brandRepo, productRepo, sequenceRepo, objectStorage, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, sequenceRepo, objectStorage, log)
	subscriptionService := billingapp.NewSubscriptionService(companyRepo, paymob, log)
	webhookService := billingapp.NewWebhookService(paymob, subscriptionService, log)

	engine := router.Setup(router.Config{
		Logger:         log,
		HTTP:           cfg.HTTP,
		Tenant:         cfg.Tenant,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Companies:      companyRepo,
		Handlers: router.Handlers{
			System:     handler.NewSystemHandler(db.DB),
			Auth:       handler.NewAuthHandler(authService),
			Users:      handler.NewUserHandler(userService),
			Categories: handler.NewCategoryHandler(categoryService),
			Brands:     handler.NewBrandHandler(brandService),
			Products:   handler.NewProductHandler(productService),
			Billing:    handler.NewBillingHandler(subscriptionService),
			Webhooks:   handler.NewPaymobWebhookHandler(webhookService),
			SuperAdmin: handler.NewSuperAdminHandler(companyService),
		},
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
