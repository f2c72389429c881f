package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-verify/internal/bootstrap"
	"github.com/bryanwahyu/automaton-verify/internal/config"
	"github.com/bryanwahyu/automaton-verify/internal/infra/httpserver"
	"github.com/bryanwahyu/automaton-verify/internal/logging"
	"github.com/bryanwahyu/automaton-verify/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// init metrics + service
	metrics := middleware.NewMetrics()
	app, err := bootstrap.Build(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer limiter.Stop()

	// init router
	handler := httpserver.NewRouter(app.Service, httpserver.Options{
		Logger:         logger,
		Metrics:        metrics,
		Limiter:        limiter,
		APIKeys:        cfg.Auth.APIKeys,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		UITenant:       cfg.UI.Tenant,
		Checkers:       app.Checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}
	logger.Info("shutting down server...")

	// graceful shutdown
	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if err := app.Close(ctx2); err != nil {
		logger.Error("service close error", zap.Error(err))
	}
}
