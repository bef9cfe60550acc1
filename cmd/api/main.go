package main

import (
	"context"
	"log"
	"time"

	"silistain-store/internal/core/cache"
	"silistain-store/internal/core/config"
	"silistain-store/internal/core/logger"
	"silistain-store/internal/core/server"
	cartadapter "silistain-store/internal/features/cart/adapters"
	carthandler "silistain-store/internal/features/cart/handler"
	cartservice "silistain-store/internal/features/cart/service"
	checkoutadapter "silistain-store/internal/features/checkout/adapters"
	checkouthandler "silistain-store/internal/features/checkout/handler"
	checkoutservice "silistain-store/internal/features/checkout/service"
	couponadapter "silistain-store/internal/features/coupons/adapters"
	couponhandler "silistain-store/internal/features/coupons/handler"
	couponservice "silistain-store/internal/features/coupons/service"
	locationadapter "silistain-store/internal/features/locations/adapters"
	locationhandler "silistain-store/internal/features/locations/handler"
	locationservice "silistain-store/internal/features/locations/service"

	"go.uber.org/zap"
)

// @title Silistain Store API
// @version 1.0
// @description Storefront backend for a direct-to-consumer watch store: cart, checkout, coupon rewards and shipping location lookups.
// @contact.name API Support
// @contact.email support@silistain.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Redis and verify connectivity before serving traffic
	redisAdapter, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisAdapter.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisAdapter.Ping(pingCtx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Initialize Cart
	cartRepo := cartadapter.NewRedisCartRepository(redisAdapter)
	cartSvc := cartservice.NewCartService(cartRepo)
	cartHdl := carthandler.NewCartHandler(cartSvc)

	// Initialize Locations
	municipalityAdapter := locationadapter.NewMunicipalityHTTPAdapter(cfg.Locations)
	locationSvc := locationservice.NewLocationService(municipalityAdapter)
	locationHdl := locationhandler.NewLocationHandler(locationSvc)

	// Initialize Coupons
	couponRepo := couponadapter.NewRedisCouponRepository(redisAdapter)
	redemptionAdapter := couponadapter.NewRedemptionHTTPAdapter(cfg.Backend)
	couponSvc := couponservice.NewCouponService(couponRepo, redemptionAdapter)
	couponHdl := couponhandler.NewCouponHandler(couponSvc)

	// Initialize Checkout
	orderRepo := checkoutadapter.NewRedisOrderRepository(redisAdapter)
	checkoutSvc := checkoutservice.NewCheckoutService(cartSvc, couponSvc, orderRepo)
	checkoutHdl := checkouthandler.NewCheckoutHandler(checkoutSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/cart", cartHdl.GetCart)
	srv.App.Post("/cart/items", cartHdl.AddItem)
	srv.App.Patch("/cart/items/:productId", cartHdl.UpdateQuantity)
	srv.App.Delete("/cart/items/:productId", cartHdl.RemoveItem)
	srv.App.Delete("/cart", cartHdl.ClearCart)
	srv.App.Get("/cart/totals", cartHdl.GetTotals)

	srv.App.Get("/locations/governorates", locationHdl.GetGovernorates)
	srv.App.Get("/locations/delegations", locationHdl.GetDelegations)
	srv.App.Get("/locations/cities", locationHdl.GetCities)

	srv.App.Post("/coupons/validate", couponHdl.Validate)
	srv.App.Get("/coupons", couponHdl.GetAvailable)
	srv.App.Get("/coupons/history", couponHdl.GetHistory)

	srv.App.Post("/checkout", checkoutHdl.Submit)
	srv.App.Get("/orders", checkoutHdl.GetHistory)
	srv.App.Get("/orders/:id", checkoutHdl.GetOrder)

	admin := srv.App.Group("/admin", server.RequireAPIKey(cfg.AdminAPIKey))
	admin.Patch("/orders/:id/status", checkoutHdl.UpdateStatus)
	admin.Patch("/orders/:id/payment-status", checkoutHdl.UpdatePaymentStatus)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
