package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/vitrina-backend/api/routes"
	"github.com/angelmondragon/vitrina-backend/internal/cart"
	"github.com/angelmondragon/vitrina-backend/internal/checkout"
	"github.com/angelmondragon/vitrina-backend/internal/orders"
	"github.com/angelmondragon/vitrina-backend/internal/paymentmethods"
	"github.com/angelmondragon/vitrina-backend/internal/products"
	"github.com/angelmondragon/vitrina-backend/internal/rates"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/config"
	"github.com/angelmondragon/vitrina-backend/pkg/db"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
	"github.com/angelmondragon/vitrina-backend/pkg/metrics"
	"github.com/angelmondragon/vitrina-backend/pkg/migrate"
	"github.com/angelmondragon/vitrina-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "vitrina-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "vitrina-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = db.DriverSQLite
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(logg, "redis", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	storeService, err := stores.NewService(stores.NewRepository(dbClient.DB()))
	requireResource(logg, "store service", err)

	rateService, err := rates.NewService(rates.NewRepository(dbClient.DB()), checkoutMetrics, logg)
	requireResource(logg, "rate service", err)

	paymentMethods, err := paymentmethods.NewService(cfg.Pricing)
	requireResource(logg, "payment methods service", err)

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo, rateService)
	requireResource(logg, "product service", err)

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	requireResource(logg, "cart store", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cartStore,
		Products: productService,
		Rates:    rateService,
		Policies: paymentMethods,
		Logger:   logg,
	})
	requireResource(logg, "cart service", err)

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, dbClient, orders.NewStockReleaser(productRepo), logg)
	requireResource(logg, "orders service", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Tx:       dbClient,
		Carts:    cartService,
		Locks:    redisClient,
		Rates:    rateService,
		Policies: paymentMethods,
		Orders:   ordersRepo,
		Stock:    checkout.NewStockReserver(productRepo),
		Metrics:  checkoutMetrics,
		Logger:   logg,
		LockTTL:  cfg.Checkout.LockTTL,
	})
	requireResource(logg, "checkout service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			storeService,
			rateService,
			paymentMethods,
			productService,
			cartService,
			checkoutService,
			ordersService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to bootstrap "+resource, err)
	os.Exit(1)
}
