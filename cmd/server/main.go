package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level)

	svc := bootstrap(cfg)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	registerRoutes(r, svc)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Infof("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutting down")

	svc.shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Server forced to shut down")
	}
}
