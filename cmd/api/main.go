package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/jaummdev/nexa-ecommerce-backend/api/routes"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/cart"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/catalog"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/orders"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/users"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/config"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/metrics"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/migrate"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/redis"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/security"
)

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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		_ = dbClient.Close()
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := buildHandler(cfg, logg, dbClient, redisClient, registry)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		_ = multierr.Combine(redisClient.Close(), dbClient.Close())
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	shutdownErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if shutdownErr != nil {
		logg.Error(serverCtx, "error during shutdown", shutdownErr)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func buildHandler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, registry *prometheus.Registry) (http.Handler, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:               users.NewRepository(dbClient.DB()),
		Hasher:                 security.NewPasswordHasher(cfg.Password),
		JWTConfig:              cfg.JWT,
		AllowAdminRegistration: cfg.Auth.AllowAdminRegistration,
		Logger:                 logg,
	})
	if err != nil {
		return nil, err
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	productService, err := catalog.NewProductService(catalogRepo, dbClient, cfg.Limits.Products, logg)
	if err != nil {
		return nil, err
	}
	categoryService, err := catalog.NewCategoryService(catalogRepo, dbClient, cfg.Limits.Categories, logg)
	if err != nil {
		return nil, err
	}
	bannerService, err := catalog.NewBannerService(catalogRepo, dbClient, cfg.Limits.Banners, logg)
	if err != nil {
		return nil, err
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		DB:       dbClient,
		MaxItems: cfg.Limits.CartItems,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:          orders.NewRepository(dbClient.DB()),
		Carts:         cartRepo,
		TX:            dbClient,
		OrdersPerUser: cfg.Limits.OrdersPerUser,
		Recorder:      metrics.NewCheckoutMetrics(registry),
		Logger:        logg,
	})
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		metrics.NewHTTPMetrics(registry),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		routes.Services{
			Auth:       authService,
			Products:   productService,
			Categories: categoryService,
			Banners:    bannerService,
			Cart:       cartService,
			Orders:     orderService,
		},
	), nil
}
