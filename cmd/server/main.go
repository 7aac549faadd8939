package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ventapos/internal/config"
	"ventapos/internal/infra"
	"ventapos/internal/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directory")
	}
	if err := os.MkdirAll(cfg.FacturasDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create invoice directory")
	}

	db, err := infra.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	remotoCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	r, carrito := router.New(cfg, db, remotoCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ventapos listening on :%d", cfg.Port)
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

	// An open cart still holds reservations; return them before exiting so a
	// restart starts from honest stock numbers.
	if err := carrito.Vaciar(context.Background(), "system"); err != nil {
		log.Error().Err(err).Msg("failed to release open cart on shutdown")
	}

	log.Info().Msg("server exited")
}
