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

	identityapp "github.com/zenithstudio/backend/internal/application/identity"
	inventoryapp "github.com/zenithstudio/backend/internal/application/inventory"
	orderapp "github.com/zenithstudio/backend/internal/application/order"
	pricingapp "github.com/zenithstudio/backend/internal/application/pricing"
	"github.com/zenithstudio/backend/internal/domain/identity"
	"github.com/zenithstudio/backend/internal/infrastructure/auth"
	"github.com/zenithstudio/backend/internal/infrastructure/cache"
	"github.com/zenithstudio/backend/internal/infrastructure/config"
	"github.com/zenithstudio/backend/internal/infrastructure/logger"
	"github.com/zenithstudio/backend/internal/infrastructure/notification"
	"github.com/zenithstudio/backend/internal/infrastructure/payment"
	"github.com/zenithstudio/backend/internal/infrastructure/persistence"
	"github.com/zenithstudio/backend/internal/infrastructure/receipt"
	"github.com/zenithstudio/backend/internal/infrastructure/storage"
	"github.com/zenithstudio/backend/internal/interfaces/http/handler"
	"github.com/zenithstudio/backend/internal/interfaces/http/middleware"
	"github.com/zenithstudio/backend/internal/interfaces/http/router"
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
		_ = log.Sync()
	}()

	log.Info("Starting Zenith Studio backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
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
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	serialAllocator := persistence.NewGormSerialAllocator(db.DB)
	rateCardRepo := persistence.NewGormRateCardRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// OTP store: Redis when reachable, in-memory otherwise. The
	// in-memory store loses codes on restart, acceptable outside
	// production.
	var otpStore identity.OTPStore
	if redisStore, err := cache.NewRedisOTPStore(cfg.Redis); err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory OTP store", zap.Error(err))
		otpStore = cache.NewInMemoryOTPStore()
	} else {
		otpStore = redisStore
		log.Info("Redis OTP store connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Order file storage: S3 when credentials are configured
	var fileStore orderapp.FileStore
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Store, err := storage.NewS3FileStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 file store", zap.Error(err))
		}
		fileStore = s3Store
		log.Info("S3 file store initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		if cfg.App.Env == "production" {
			log.Fatal("Storage credentials are required in production")
		}
		log.Warn("No storage credentials, using in-memory file store")
		fileStore = storage.NewMemoryFileStore()
	}

	// Payment gateway: optional in development, orders can still be
	// settled over the counter without it.
	var gateway payment.Gateway
	if cfg.Gateway.KeyID != "" && cfg.Gateway.KeySecret != "" {
		adapter, err := payment.NewRazorpayAdapter(&payment.RazorpayConfig{
			KeyID:     cfg.Gateway.KeyID,
			KeySecret: cfg.Gateway.KeySecret,
		})
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		gateway = adapter
		log.Info("Payment gateway initialized")
	} else {
		log.Warn("No gateway credentials, online payments disabled")
	}

	// Transactional email
	var mailer notification.EmailSender
	if cfg.Email.Endpoint != "" && cfg.Email.APIKey != "" {
		sender, err := notification.NewHTTPEmailSender(cfg.Email, log)
		if err != nil {
			log.Fatal("Failed to initialize email sender", zap.Error(err))
		}
		mailer = sender
		log.Info("Email sender initialized")
	} else {
		log.Warn("No email credentials, outbound email disabled")
	}

	renderer, err := receipt.NewRenderer(cfg.Email.FromName)
	if err != nil {
		log.Fatal("Failed to parse receipt template", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, otpStore, mailer,
		identityapp.AuthServiceConfig{
			LockDuration: identityapp.DefaultAuthServiceConfig().LockDuration,
			OTPTTL:       cfg.OTP.TTL,
			OTPLength:    cfg.OTP.Length,
		}, log)
	userService := identityapp.NewUserService(userRepo, log)
	pricingService := pricingapp.NewPricingService(rateCardRepo, log)
	orderService := orderapp.NewOrderService(orderRepo, serialAllocator, rateCardRepo, fileStore, log)
	paymentService := orderapp.NewPaymentService(orderRepo, gateway, renderer, mailer, log)
	stockService := inventoryapp.NewStockService(stockRepo, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	pricingHandler := handler.NewPricingHandler(pricingService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	stockHandler := handler.NewStockHandler(stockService)

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

	engine.Use(middleware.RequestID())
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Credential endpoints carry a tighter per-client rate limit
	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthMiddleware(middleware.JWTAuth(jwtService)),
		router.WithAdminMiddleware(middleware.RequireAdmin()),
	)
	r.RegisterPublic(router.RegistrarFunc(func(rg *gin.RouterGroup) {
		limited := rg.Group("", middleware.RateLimit(authLimiter))
		authHandler.RegisterPublicRoutes(limited)
		paymentHandler.RegisterPublicRoutes(limited)
	}))
	r.Register(authHandler)
	r.Register(orderHandler)
	r.Register(paymentHandler)
	r.Register(pricingHandler)
	r.Register(stockHandler)
	r.RegisterAdmin(userHandler)
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
