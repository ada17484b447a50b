package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/piquique/daybook/internal/api"
	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/narrative"
	"github.com/piquique/daybook/internal/platform/factory"
	"github.com/piquique/daybook/internal/platform/logger"
	"github.com/piquique/daybook/internal/snapshot"
)

func main() {
	log := logger.New("daybook-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Snapshot store unavailable")
	}
	defer func() { _ = st.Close() }()

	snap, err := snapshot.Open(cfg.SnapshotCSV)
	if err != nil {
		log.Fatal().Err(err).Msg("Snapshot unreadable")
	}

	gen := narrative.NewOllama(cfg.OllamaURL, cfg.OllamaModel,
		time.Duration(cfg.OllamaTimeout)*time.Second)

	router := api.NewRouter(api.NewHandler(cfg, snap, st, gen))
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // /diario waits on the model
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
