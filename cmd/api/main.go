package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mgallardo/cartfront-backend/api/routes"
	"github.com/mgallardo/cartfront-backend/internal/cartview"
	"github.com/mgallardo/cartfront-backend/pkg/config"
	"github.com/mgallardo/cartfront-backend/pkg/graphql"
	"github.com/mgallardo/cartfront-backend/pkg/logger"
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
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := graphql.NewClient(
		cfg.Commerce.EndpointURL,
		graphql.WithTimeout(cfg.Commerce.RequestTimeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build commerce client", err)
		os.Exit(1)
	}

	cartService, err := cartview.NewService(client, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart service", err)
		os.Exit(1)
	}

	watcher, err := cartview.NewWatcher(
		cartService,
		logg,
		cartview.WithFetchTimeout(cfg.Commerce.RequestTimeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart watcher", err)
		os.Exit(1)
	}
	defer watcher.Close()

	if err := watcher.SetCartID(cfg.Commerce.DefaultCartID); err != nil {
		logg.Error(context.Background(), "failed to start default cart fetch", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"endpoint": client.Endpoint(),
		"cart_id":  cfg.Commerce.DefaultCartID,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, watcher, cartService),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
