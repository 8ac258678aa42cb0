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

	router "github.com/devclub-iitd/CommonAudioVideoServer/internal/adapters/http"
	sig "github.com/devclub-iitd/CommonAudioVideoServer/internal/adapters/signal"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/app"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/config"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/store/content"
	"github.com/devclub-iitd/CommonAudioVideoServer/internal/store/tracks"
	transport "github.com/devclub-iitd/CommonAudioVideoServer/internal/transport/http"
)

func openStores(cfg *config.Config) (tracks.Store, content.Store, error) {
	switch cfg.StorageType {
	case "filesystem":
		blobs, err := content.NewFilesystemStore(cfg.ContentDir)
		if err != nil {
			return nil, nil, err
		}
		meta, err := tracks.NewSQLiteStore(cfg.TracksDSN)
		if err != nil {
			return nil, nil, err
		}
		return meta, blobs, nil
	default:
		return tracks.NewMemoryStore(), content.NewMemoryStore(), nil
	}
}

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
		log.Fatal().Err(err).Msg("failed to load config")
	}

	trackStore, contentStore, err := openStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stores")
	}

	registry := app.NewRegistry()
	rooms := app.NewRooms()
	catalog := tracks.NewCatalog(trackStore, contentStore)
	orch := app.NewOrchestrator(registry, rooms, catalog)

	limiter := sig.NewEventRateLimiter(cfg.EventLimit, cfg.EventWindow)
	ctl := sig.NewController(orch, limiter)
	th := transport.NewTrackHandlers(trackStore, contentStore)

	r := router.SetupRouter(ctx, cfg, ctl, th, orch)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Common Audio server started")
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
	log.Info().Msg("Server exited gracefully")
}
