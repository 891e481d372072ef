package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/oilmart/backend/internal/application/catalog"
	checkoutapp "github.com/oilmart/backend/internal/application/checkout"
	identityapp "github.com/oilmart/backend/internal/application/identity"
	orderapp "github.com/oilmart/backend/internal/application/order"
	promotionapp "github.com/oilmart/backend/internal/application/promotion"
	reportapp "github.com/oilmart/backend/internal/application/report"
	shoppingapp "github.com/oilmart/backend/internal/application/shopping"
	"github.com/oilmart/backend/internal/domain/payment"
	"github.com/oilmart/backend/internal/infrastructure/auth"
	"github.com/oilmart/backend/internal/infrastructure/cache"
	"github.com/oilmart/backend/internal/infrastructure/config"
	"github.com/oilmart/backend/internal/infrastructure/event"
	"github.com/oilmart/backend/internal/infrastructure/logger"
	"github.com/oilmart/backend/internal/infrastructure/messaging"
	infrapayment "github.com/oilmart/backend/internal/infrastructure/payment"
	"github.com/oilmart/backend/internal/infrastructure/persistence"
	"github.com/oilmart/backend/internal/infrastructure/scheduler"
	"github.com/oilmart/backend/internal/infrastructure/storage"
	"github.com/oilmart/backend/internal/infrastructure/telemetry"
	"github.com/oilmart/backend/internal/interfaces/http/handler"
	"github.com/oilmart/backend/internal/interfaces/http/middleware"
	"github.com/oilmart/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/oilmart/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Oil Mart API
//	@version		1.0
//	@description	Edible oil storefront backend - catalog, cart, checkout, and order management

//	@contact.name	API Support
//	@contact.url	https://github.com/oilmart/backend
//	@contact.email	support@oilmart.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting Oil Mart backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing (otelgorm + slow query logging)
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Redis backs the token blacklist and the coupon cache. The server
	// still comes up without it, with in-memory fallbacks.
	var tokenBlacklist auth.TokenBlacklist
	var couponCache promotionapp.CouponCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and no coupon cache", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		couponCache = cache.NewNoopCouponCache()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		couponCache = cache.NewRedisCouponCache(redisClient)
		log.Info("Redis connected successfully")
	}

	// Payment gateway
	var gateway payment.Gateway
	switch cfg.Payment.Gateway {
	case "razorpay":
		gateway, err = infrapayment.NewRazorpayAdapter(&infrapayment.RazorpayConfig{
			KeyID:         cfg.Payment.KeyID,
			KeySecret:     cfg.Payment.KeySecret,
			WebhookSecret: cfg.Payment.WebhookSecret,
			BaseURL:       cfg.Payment.BaseURL,
		})
		if err != nil {
			log.Fatal("Failed to configure Razorpay gateway", zap.Error(err))
		}
		log.Info("Payment gateway configured", zap.String("gateway", "razorpay"))
	default:
		gateway = infrapayment.NewNoopAdapter()
		log.Warn("Payment gateway running in noop mode, orders auto-capture without payment")
	}

	// Object storage for product images
	var objectStorage catalogapp.ObjectStorageService
	switch cfg.Storage.Provider {
	case "s3":
		objectStorage, err = storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure S3 object storage", zap.Error(err))
		}
		log.Info("Object storage configured",
			zap.String("provider", "s3"),
			zap.String("bucket", cfg.Storage.Bucket),
		)
	default:
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage running in stub mode, image uploads are not persisted")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Relay order lifecycle events to Kafka for downstream consumers
	if cfg.Kafka.Enabled {
		kafkaRelay := messaging.NewKafkaEventRelay(cfg.Kafka, log)
		eventBus.Subscribe(kafkaRelay)
		defer func() {
			if err := kafkaRelay.Close(); err != nil {
				log.Error("Error closing Kafka relay", zap.Error(err))
			}
		}()
		log.Info("Kafka event relay subscribed",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, jwtService, tokenBlacklist, log)
	productService := catalogapp.NewProductService(productRepo, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo, log)
	imageService := catalogapp.NewImageService(productRepo, objectStorage, catalogapp.ImageServiceConfig{
		UploadURLExpiry: cfg.Storage.PresignExpiry,
		MaxUploadSize:   cfg.Storage.MaxUploadSize,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	}, log)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo, log)
	wishlistService := shoppingapp.NewWishlistService(wishlistRepo, productRepo, log)
	couponService := promotionapp.NewCouponService(couponRepo, couponCache, log)
	checkoutService := checkoutapp.NewCheckoutService(txScope, cartRepo, productRepo, couponService, orderRepo, gateway, eventBus, log)
	orderService := orderapp.NewOrderService(txScope, orderRepo, gateway, eventBus, log)
	dashboardService := reportapp.NewDashboardService(statsRepo, userRepo, productRepo, log)

	// Sweep unpaid orders whose payment session went stale
	expiryScheduler := scheduler.NewOrderExpiryScheduler(orderService, cfg.Order, log)
	expiryScheduler.Start(context.Background())
	defer expiryScheduler.Stop()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService, imageService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	cartHandler := handler.NewCartHandler(cartService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	couponHandler := handler.NewCouponHandler(couponService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, cfg.Payment.WebhookSecret)
	orderHandler := handler.NewOrderHandler(orderService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	systemHandler := handler.NewSystemHandler()

	// Admin order stream pushes order lifecycle events over SSE
	orderStreamHandler := handler.NewOrderStreamHandler(handler.WithStreamLogger(log))
	if err := orderStreamHandler.Start(); err != nil {
		log.Fatal("Failed to start order stream handler", zap.Error(err))
	}
	defer orderStreamHandler.Stop()
	eventBus.Subscribe(orderStreamHandler)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Distributed tracing
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
		log.Info("Tracing enabled", zap.String("endpoint", cfg.Telemetry.CollectorEndpoint))
	}

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Strict auth for customer and admin routes. Public groups below are
	// registered without it; the optional variant on the catalog lets
	// signed-in admins see inactive products on the public endpoints.
	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})
	optionalAuth := middleware.OptionalJWTAuthMiddleware(jwtService)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerProtection := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, requireAuth)
		engine.GET("/swagger/*any", swaggerProtection, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Public auth routes, with a tighter rate limit against credential
	// stuffing when enabled
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)

	// Account routes requiring authentication
	accountRoutes := router.NewDomainGroup("account", "/auth")
	accountRoutes.Use(requireAuth)
	accountRoutes.POST("/logout", authHandler.Logout)
	accountRoutes.GET("/me", authHandler.GetCurrentUser)
	accountRoutes.PUT("/me", authHandler.UpdateProfile)
	accountRoutes.PUT("/password", authHandler.ChangePassword)

	// Public catalog browsing. Claims are picked up when present so
	// admins can see inactive products.
	catalogRoutes := router.NewDomainGroup("catalog", "/products")
	catalogRoutes.Use(optionalAuth)
	catalogRoutes.GET("", productHandler.List)
	catalogRoutes.GET("/:id", productHandler.Get)
	catalogRoutes.GET("/:id/reviews", reviewHandler.ListForProduct)

	// Review submission requires a signed-in customer
	reviewRoutes := router.NewDomainGroup("reviews", "")
	reviewRoutes.Use(requireAuth)
	reviewRoutes.POST("/products/:id/reviews", reviewHandler.Submit)
	reviewRoutes.DELETE("/reviews/:id", reviewHandler.Delete)

	// Shopping cart
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(requireAuth)
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.GET("/count", cartHandler.Count)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.UpdateQuantity)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)
	cartRoutes.POST("/items/:productId/increment", cartHandler.Increment)
	cartRoutes.POST("/items/:productId/decrement", cartHandler.Decrement)

	// Wishlist
	wishlistRoutes := router.NewDomainGroup("wishlist", "/wishlist")
	wishlistRoutes.Use(requireAuth)
	wishlistRoutes.GET("", wishlistHandler.Get)
	wishlistRoutes.POST("/:productId/toggle", wishlistHandler.Toggle)
	wishlistRoutes.DELETE("/:productId", wishlistHandler.Remove)

	// Coupon validation for customers
	couponRoutes := router.NewDomainGroup("coupons", "/coupons")
	couponRoutes.Use(requireAuth)
	couponRoutes.POST("/validate", couponHandler.Validate)

	// Checkout flow
	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.Use(requireAuth)
	checkoutRoutes.POST("/quote", checkoutHandler.Quote)
	checkoutRoutes.POST("/orders", checkoutHandler.PlaceOrder)
	checkoutRoutes.POST("/payments/verify", checkoutHandler.VerifyPayment)

	// Gateway webhook, authenticated by HMAC signature instead of JWT
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("/webhook", checkoutHandler.PaymentWebhook)

	// Customer order history
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(requireAuth)
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/number/:orderNumber", orderHandler.GetMineByNumber)
	orderRoutes.GET("/:id", orderHandler.GetMine)
	orderRoutes.POST("/:id/cancel", orderHandler.CancelMine)

	// Admin back-office
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(requireAuth, middleware.RequireAdmin(userService))

	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.PUT("/products/:id/pricing", productHandler.SetPricing)
	adminRoutes.PUT("/products/:id/stock", productHandler.SetStock)
	adminRoutes.POST("/products/:id/activate", productHandler.Activate)
	adminRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	adminRoutes.POST("/products/:id/image/upload-url", productHandler.RequestImageUpload)
	adminRoutes.POST("/products/:id/image/confirm", productHandler.ConfirmImageUpload)

	adminRoutes.GET("/coupons", couponHandler.List)
	adminRoutes.POST("/coupons", couponHandler.Create)
	adminRoutes.GET("/coupons/:id", couponHandler.Get)
	adminRoutes.PUT("/coupons/:id", couponHandler.Update)
	adminRoutes.DELETE("/coupons/:id", couponHandler.Delete)
	adminRoutes.POST("/coupons/:id/activate", couponHandler.Activate)
	adminRoutes.POST("/coupons/:id/deactivate", couponHandler.Deactivate)

	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.GET("/orders/stream", orderStreamHandler.Stream)
	adminRoutes.GET("/orders/:id", orderHandler.Get)
	adminRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	adminRoutes.PUT("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)
	adminRoutes.POST("/orders/:id/cancel", orderHandler.Cancel)

	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.Get)
	adminRoutes.POST("/users/:id/promote", userHandler.Promote)
	adminRoutes.POST("/users/:id/demote", userHandler.Demote)
	adminRoutes.POST("/users/:id/block", userHandler.Block)
	adminRoutes.POST("/users/:id/unblock", userHandler.Unblock)

	adminRoutes.GET("/dashboard", dashboardHandler.Dashboard)
	adminRoutes.GET("/reports/sales", dashboardHandler.SalesReport)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(accountRoutes).
		Register(catalogRoutes).
		Register(reviewRoutes).
		Register(cartRoutes).
		Register(wishlistRoutes).
		Register(couponRoutes).
		Register(checkoutRoutes).
		Register(paymentRoutes).
		Register(orderRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
