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

	"studyflow/internal/api"
	"studyflow/internal/config"
	"studyflow/internal/extract"
	"studyflow/internal/logger"
	"studyflow/internal/metrics"
	"studyflow/internal/providers"
	"studyflow/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	logg := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: os.Stderr})
	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logg.Fatal().Err(err).Msg("mongo connect failed")
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("mongo index setup failed")
	}

	pm, err := providers.NewManager(cfg)
	if err != nil {
		logg.Fatal().Err(err).Msg("provider setup failed")
	}

	srv := api.NewServer(cfg, logg, storage.NewThreadRepo(store), pm.FirstLLMProvider(), extract.New(cfg.ExtractCacheSize))

	httpSrv := &http.Server{Addr: cfg.APIAddr, Handler: srv.Routes()}

	go func() {
		logg.Info().
			Str("addr", cfg.APIAddr).
			Str("llm_provider", pm.FirstLLMRef().Name).
			Int("llm_providers", pm.LLMCount()).
			Msg("api listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Msg("server stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logg.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("shutdown incomplete")
	}
	if err := store.Close(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("mongo disconnect failed")
	}
}
