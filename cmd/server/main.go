package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dukerupert/gersemi/internal"
	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/catalog"
	"github.com/dukerupert/gersemi/internal/coupon"
	"github.com/dukerupert/gersemi/internal/engine"
	"github.com/dukerupert/gersemi/internal/handler"
	"github.com/dukerupert/gersemi/internal/middleware"
	"github.com/dukerupert/gersemi/internal/promo"
	"github.com/dukerupert/gersemi/internal/router"
	"github.com/dukerupert/gersemi/internal/routes"
	"github.com/dukerupert/gersemi/internal/shipping"
	"github.com/dukerupert/gersemi/internal/sink"
	"github.com/prometheus/client_golang/prometheus"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Shared state: cart snapshot store and applied-discount sink
	cartStore := cart.NewStore()
	discountSink := sink.New()

	// Promotion catalog provider
	logger.Info("Initializing catalog provider...", "url", cfg.Catalog.URL)
	catalogProvider := catalog.NewHTTPProvider(cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.Catalog.MaxRetries, logger)

	// Shipping rates: real service when configured, flat rate otherwise
	var rateProvider shipping.RateProvider
	if cfg.Shipping.URL != "" {
		logger.Info("Initializing shipping rate client...", "url", cfg.Shipping.URL)
		rateProvider = shipping.NewHTTPRateProvider(cfg.Shipping.URL, cfg.Shipping.Timeout)
	} else {
		logger.Info("Initializing flat-rate shipping provider...")
		rateProvider = shipping.NewFlatRateProvider(shipping.Rate{
			ServiceName: "Standard Shipping",
			ServiceCode: "standard",
			CostCents:   cfg.Shipping.EstimateCents,
		})
	}

	// Evaluation engine
	logger.Info("Initializing evaluation engine...")
	calc := promo.NewCalculator(cfg.Shipping.EstimateCents)
	engineMetrics := engine.NewMetrics("gersemi", prometheus.DefaultRegisterer)
	eng := engine.NewEngine(cartStore, catalogProvider, calc, discountSink, engineMetrics, logger)
	eng.Start()
	logger.Info("Evaluation engine initialized")

	// Coupon validator
	logger.Info("Initializing coupon validator...", "url", cfg.Coupon.URL)
	authority := coupon.NewHTTPAuthority(cfg.Coupon.URL, cfg.Coupon.Timeout, cfg.Coupon.MaxRetries, logger)
	validator := coupon.NewValidator(authority, cartStore, discountSink, cfg.Coupon.EntryDebounce, cfg.Coupon.RevalidateDebounce, logger)
	validator.Start()
	logger.Info("Coupon validator initialized")

	// Build route dependencies
	apiDeps := routes.APIDeps{
		CartHandler:       handler.NewCartHandler(cartStore),
		PromotionsHandler: handler.NewPromotionsHandler(eng, cartStore, rateProvider),
		DiscountsHandler:  handler.NewDiscountsHandler(discountSink),
		CouponHandler:     handler.NewCouponHandler(validator),
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("gersemi", prometheus.DefaultRegisterer)

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
	)

	// Metrics endpoint (should be protected in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAPIRoutes(r, apiDeps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting promotion engine server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
