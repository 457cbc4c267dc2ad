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
	"go.uber.org/multierr"

	"github.com/angelmondragon/menuorders-backend/api/routes"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/internal/checkout"
	"github.com/angelmondragon/menuorders-backend/internal/orders"
	"github.com/angelmondragon/menuorders-backend/internal/restaurants"
	"github.com/angelmondragon/menuorders-backend/pkg/config"
	"github.com/angelmondragon/menuorders-backend/pkg/db"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
	"github.com/angelmondragon/menuorders-backend/pkg/metrics"
	"github.com/angelmondragon/menuorders-backend/pkg/migrate"
	"github.com/angelmondragon/menuorders-backend/pkg/redis"
	"github.com/angelmondragon/menuorders-backend/pkg/whatsapp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(runCtx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	driver := db.DriverPostgres
	if cfg.FeatureFlags.UseSQLite {
		driver = db.DriverSQLite
	}
	dbClient, err := db.New(ctx, cfg.DB, driver, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	restaurantService, err := restaurants.NewService(restaurants.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:     catalog.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Catalog.CacheTTL,
		Logger:   logg,
		Metrics:  checkoutMetrics,
	})
	if err != nil {
		return err
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		return err
	}

	sessionStore, err := checkout.NewRedisSessionStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		return err
	}
	invoices, err := checkout.NewHTMLInvoice()
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Restaurants: restaurantService,
		Catalog:     catalogService,
		Orders:      orderService,
		Sessions:    sessionStore,
		Locks:       redisClient,
		Linker:      whatsapp.NewLinker(cfg.WhatsApp.BaseURL),
		Invoices:    invoices,
		Logger:      logg,
		Metrics:     checkoutMetrics,
		Config:      cfg.Checkout,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": string(driver),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Idempotency: redisClient,
			Counters:    redisClient,
			Checkout:    checkoutService,
			Catalog:     catalogService,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
