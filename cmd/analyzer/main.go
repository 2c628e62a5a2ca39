package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/imasharanasinghe/phishing-detection-AI/internal/adapters/httpapi"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/adapters/ollama"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/adapters/storage"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/application"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/config"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/domain/alert"
	"github.com/imasharanasinghe/phishing-detection-AI/internal/ports"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	log.Info().Msg("starting phishing analysis service")

	// Storage adapter (optional: the pipeline works without persistence)
	var store ports.Storage
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pg.Close()

		if err := pg.InitSchema(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
		store = pg
		log.Info().Msg("connected to PostgreSQL")
	} else {
		log.Warn().Msg("DATABASE_URL not set, analyses will not be persisted")
	}

	// Generative backend (optional: absence means template alerts)
	var generator ports.TextGenerator
	if cfg.OllamaHost != "" {
		generator = ollama.New(cfg.OllamaHost, cfg.OllamaModel)
		log.Info().Str("host", cfg.OllamaHost).Str("model", cfg.OllamaModel).Msg("generative backend configured")
	}

	synthesizer := alert.NewSynthesizer(generator).WithTimeouts(cfg.ProbeTimeout, cfg.GenerateTimeout)
	service := application.NewAnalysisService(store, synthesizer, cfg.Workers, log)
	server := httpapi.NewServer(service, generator, log)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
