package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/ajmckee/parley/internal/session"
	"github.com/ajmckee/parley/internal/telemetry"
)

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Println("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		log.Fatal("Forcing shutdown")
	}()

	return ctx
}

func openStore() (*session.Store, *session.Catalog) {
	notifier := &session.Notifier{}
	store := session.NewStore(cfg.SessionsDir, notifier)
	catalog := session.NewCatalog(store, notifier)
	return store, catalog
}

func createTelemetryProvider(ctx context.Context) (*telemetry.Provider, error) {
	return telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.TelemetryEnabled,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
}
