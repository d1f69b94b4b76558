package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/nyralabs/nyra-realtime/internal/adapters/http"
	"github.com/nyralabs/nyra-realtime/internal/config"
	"github.com/nyralabs/nyra-realtime/internal/conversation"
	"github.com/nyralabs/nyra-realtime/internal/persona"
	"github.com/nyralabs/nyra-realtime/internal/realtime"
	"github.com/nyralabs/nyra-realtime/internal/transport/openai"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		log.Warn().Err(err).Msg("running with incomplete credentials")
	}

	personas, err := persona.Load(cfg.PersonaPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load persona catalog")
		os.Exit(1)
	}
	log.Info().Int("personas", len(personas)).Msg("persona catalog ready")

	manager := realtime.NewManager(realtime.Options{
		APIKey:  cfg.OpenAIAPIKey,
		URL:     cfg.RealtimeURL,
		Backoff: cfg.ReconnectBackoff,
	})
	if cfg.OpenAIAPIKey != "" {
		factory, err := openai.NewFactory(cfg.OpenAIAPIKey, cfg.RealtimeURL)
		if err != nil {
			log.Error().Err(err).Msg("failed to build realtime transport factory")
			os.Exit(1)
		}
		manager = realtime.NewManager(realtime.Options{
			APIKey:  cfg.OpenAIAPIKey,
			URL:     cfg.RealtimeURL,
			Factory: factory,
			Backoff: cfg.ReconnectBackoff,
		})
		go func() {
			if err := manager.RunForever(ctx); err != nil {
				log.Error().Err(err).Msg("realtime supervisor exited")
			}
		}()
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, realtime connection disabled")
	}

	turns := conversation.NewTurnManager()
	r := router.SetupRouter(cfg, router.Deps{Manager: manager, Turns: turns})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("nyra-realtime started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	manager.Disconnect()
	log.Info().Msg("Server exited gracefully")
}
