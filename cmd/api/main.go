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

	"github.com/gin-gonic/gin"
	"github.com/votechain/metavote/internal/app"
	"github.com/votechain/metavote/internal/config"
	"github.com/votechain/metavote/internal/constants"
	"github.com/votechain/metavote/internal/handlers"
	"github.com/votechain/metavote/internal/logger"
	"github.com/votechain/metavote/internal/middleware"
	"github.com/votechain/metavote/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.InitLogger(cfg.Stage, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if cfg.Stage == constants.ProdEnvironment {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	a, err := app.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		logger.Fatal("Unable to initialize vote pipeline", zap.Error(err))
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := server.NewRouter(cfg, server.Dependencies{
		Votes:       handlers.NewVoteHandler(a.Pipeline, a.Reader, a.Resolver),
		Metrics:     a.Metrics,
		RateLimiter: limiter,
	})

	// Configure server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.APIPort),
			zap.String("chain_id", a.ChainID.String()),
			zap.String("address_source", cfg.AddressSource),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
