package main

import (
	"context"
	"fmt"
	"time"

	"receitas/catalog"
	"receitas/config"
	"receitas/db"
	"receitas/services"
	"receitas/telemetry"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// openStore connects the configured backend and wraps it with telemetry.
// The returned func releases everything it opened.
func openStore(ctx context.Context, demo bool) (catalog.RecipeStore, func(), error) {
	providers, shutdown, err := telemetry.Init(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: %w", err)
	}
	closers := []func(){func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	kind := cfg.Backend.Kind
	if demo {
		kind = config.BackendMemory
	}

	var store services.Store
	switch kind {
	case config.BackendMemory:
		store = services.NewMemoryStore(services.DemoRecipes(time.Now())...)
	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.Backend.FirestoreProject)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("firestore: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		store = services.NewFirestoreStore(client, cfg.Backend.Collection)
	default:
		if err := db.Init(ctx, cfg.DB); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("db: %w", err)
		}
		closers = append(closers, db.Close)
		if cfg.AutoMigrate {
			if err := applyMigrations(ctx, logger); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		store = services.NewPGStore(db.Pool, logger)
	}
	logger.Info("backend ready", zap.String("backend", kind))

	return services.NewInstrumentedStore(store, kind, providers.Tracer, providers.Meter), cleanup, nil
}

// pageOptions are the catalog options shared by every surface.
func pageOptions() []catalog.Option {
	tag, err := language.Parse(cfg.Catalog.Locale)
	if err != nil {
		logger.Warn("unknown LOCALE, using pt-BR", zap.String("locale", cfg.Catalog.Locale), zap.Error(err))
		tag = language.BrazilianPortuguese
	}
	return []catalog.Option{catalog.WithLanguage(tag), catalog.WithLogger(logger)}
}
