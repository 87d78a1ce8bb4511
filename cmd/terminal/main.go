package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/routes"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/cart"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/catalog"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/checkout"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/auth"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/bakery"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/config"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	backend, err := bakery.NewClient(cfg.Backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	loader, err := catalog.NewLoader(backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog loader", err)
		os.Exit(1)
	}
	// The terminal stays usable with an empty catalog; a later refresh or the
	// first successful checkout reloads it.
	if err := loader.Refresh(context.Background()); err != nil {
		logg.Error(context.Background(), "initial catalog load failed", err)
	}

	store, err := cart.NewStore(loader)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	checkoutService := checkout.NewService(store, loader, loader, backend, auth.SessionIdentity{}, redisClient, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting terminal server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, backend, loader, store, checkoutService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "terminal server stopped unexpectedly", err)
		os.Exit(1)
	}
}
