package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsai/api"
	"newsai/config"
	"newsai/logging"
	"newsai/pipeline"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Setup(config.DefaultLogLevel, true)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, provider, err := pipeline.Build(ctx, cfg, logging.Component("pipeline"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	r := api.NewRouter(api.RouterConfig{
		Analyzer:    p,
		Provider:    provider.Name(),
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logging.Component("api"),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting API server")
		logger.Info().Msg("  GET  /api/health")
		logger.Info().Msg("  POST /api/analyze")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
