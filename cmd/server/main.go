package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appcart "github.com/mobileshop/backend/internal/application/cart"
	appcheckout "github.com/mobileshop/backend/internal/application/checkout"
	"github.com/mobileshop/backend/internal/infrastructure/auth"
	"github.com/mobileshop/backend/internal/infrastructure/config"
	"github.com/mobileshop/backend/internal/infrastructure/kvstore"
	"github.com/mobileshop/backend/internal/infrastructure/logger"
	"github.com/mobileshop/backend/internal/infrastructure/payment"
	"github.com/mobileshop/backend/internal/infrastructure/shopapi"
	"github.com/mobileshop/backend/internal/interfaces/http/handler"
	"github.com/mobileshop/backend/internal/interfaces/http/middleware"
	"github.com/mobileshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

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

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Key-value stores: the local cart cache and the color side-map live in
	// separate keyspaces so a cart trim never touches color repair data.
	// Redis is preferred; an in-memory store keeps single-node deployments
	// working when Redis is absent.
	stores := kvstore.NewFactory(kvstore.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, kvstore.WithLogger(log), kvstore.WithInMemoryFallback(!cfg.IsProduction()))

	cartCache, err := stores.Create("cart")
	if err != nil {
		log.Fatal("Failed to create cart cache store", zap.Error(err))
	}
	colorSideMap, err := stores.Create("color")
	if err != nil {
		log.Fatal("Failed to create color side-map store", zap.Error(err))
	}

	// Upstream storefront service clients share one HTTP client; operation
	// deadlines come from the caller's context.
	httpClient := &http.Client{Timeout: 60 * time.Second}
	cartClient := shopapi.NewCartClient(cfg.Services.CartBaseURL, httpClient)
	catalogClient := shopapi.NewCatalogClient(cfg.Services.CatalogBaseURL, httpClient)
	locationClient := shopapi.NewLocationClient(cfg.Services.LocationBaseURL, httpClient)
	shippingClient := shopapi.NewShippingClient(cfg.Services.ShippingBaseURL, httpClient)
	orderClient := shopapi.NewOrderClient(cfg.Services.OrderBaseURL, httpClient)

	// Payment gateway
	vnpay, err := payment.NewVNPayAdapter(&payment.VNPayConfig{
		TMNCode:    cfg.VNPay.TMNCode,
		HashSecret: cfg.VNPay.HashSecret,
		PayURL:     cfg.VNPay.PayURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	})
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	// Session token service
	sessionService := auth.NewSessionService(cfg.Session)

	// Application services
	cartService := appcart.NewService(cartClient, catalogClient, cartCache, colorSideMap)
	checkoutService := appcheckout.NewService(
		cartService,
		locationClient,
		shippingClient,
		orderClient,
		vnpay,
		appcheckout.Timeouts{
			Quote:       cfg.Services.QuoteTimeout,
			PaymentURL:  cfg.Services.PaymentTimeout,
			OrderCreate: cfg.Services.OrderTimeout,
		},
	)

	// HTTP handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	locationHandler := handler.NewLocationHandler(locationClient)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, cartCache)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
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

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, then optional session resolution.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.Session(sessionService))

	// Health and readiness probes live outside API versioning
	systemHandler.RegisterRoutes(engine)

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(sessionHandler).
		Register(cartHandler).
		Register(checkoutHandler).
		Register(locationHandler)
	r.Setup()

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
