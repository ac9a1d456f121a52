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

	"mostrador/internal/config"
	"mostrador/internal/infra"
	"mostrador/internal/pos"
	"mostrador/internal/router"
	"mostrador/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tasa, err := cfg.TasaImpuesto()
	if err != nil {
		log.Fatal().Err(err).Str("valor", cfg.DefaultTaxRate).Msg("DEFAULT_TAX_RATE inválida")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The register container is the single in-memory owner of the terminal's
	// working set; everything else orbits it.
	caja := pos.NewCaja(tasa)
	dispatcher := worker.NewDispatcher(rdb)

	r, cajaSvc, draftSvc := router.New(cfg, router.Deps{
		Caja:       caja,
		DB:         db,
		Redis:      rdb,
		Dispatcher: dispatcher,
	})

	// Resume a session interrupted by a restart before accepting traffic.
	if err := cajaSvc.Hidratar(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to hydrate register session")
	}

	// Background draft sync: worker pool drains the queue, the cron re-pushes
	// whatever stayed dirty.
	worker.StartWorkerPool(ctx, rdb, draftSvc, cfg.WorkerPoolSize)
	worker.StartSyncCron(ctx, draftSvc, time.Duration(cfg.DraftSyncSeconds)*time.Second)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("mostrador terminal %s listening on :%d", cfg.TerminalID, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
