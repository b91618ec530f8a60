package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/lordeck/internal/api"
	"github.com/youruser/lordeck/internal/config"
	"github.com/youruser/lordeck/internal/logging"
	"github.com/youruser/lordeck/internal/metadata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", "error", err)
	}
	logger, err := logging.New(os.Stderr, "lordeck", cfg.LogLevel)
	if err != nil {
		logger, _ = logging.New(os.Stderr, "lordeck", "info")
		logger.Warn("falling back to info level", "error", err)
	}

	// Metadata is optional; the codec routes work without it.
	provider, err := metadata.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Warn("metadata provider disabled", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(api.Options{
		Provider: provider,
		Client:   &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:   logger,
		Language: cfg.Language,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", "http://localhost:"+cfg.Port, "offline", cfg.Offline)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}
