package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hygieat/internal/app"
	"hygieat/internal/auth"
	"hygieat/internal/config"
	"hygieat/internal/logger"
	"hygieat/internal/router"

	"github.com/gin-gonic/gin"
)

const tokenTTL = 24 * time.Hour

func main() {
	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("starting hygieat api",
		"port", cfg.Port,
		"media_backend", cfg.Media.Backend,
		"store_backend", cfg.Store.Backend,
	)

	// ───────────────────────── BACKENDS ─────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps, err := app.Build(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to initialise backends", "error", err)
		os.Exit(1)
	}

	// ───────────────────────── AUTH ─────────────────────────
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, tokenTTL)
	if err != nil {
		log.Error("invalid jwt secret", "error", err)
		os.Exit(1)
	}

	// ───────────────────────── HTTP ─────────────────────────
	r := router.NewRouter(router.Deps{
		Auth:        auth.NewService(deps.Users, tokens),
		Tokens:      tokens,
		Vendors:     deps.Vendors,
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// in-flight submissions may still be uploading media
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Media.UploadTimeout+10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if err := deps.Close(shutdownCtx); err != nil {
		log.Error("closing backends failed", "error", err)
	}

	log.Info("server stopped gracefully")
}
