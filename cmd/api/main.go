package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
	httpapi "github.com/roomly-ar/furniture-recommend/internal/http"
	"github.com/roomly-ar/furniture-recommend/internal/recommend"
	"github.com/roomly-ar/furniture-recommend/internal/storage"
)

type Config struct {
	Address     string
	CatalogDB   string
	CatalogPath string
	ScoringPath string
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg := loadConfig()
	ctx := context.Background()

	catalog, cleanup, err := openCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open catalog")
	}
	defer cleanup()

	scoring, err := recommend.LoadConfigFromFile(cfg.ScoringPath)
	if err != nil {
		log.Warn().Err(err).Msg("using default scoring config")
		scoring = recommend.DefaultConfig()
	}

	engine := recommend.NewEngine(scoring)
	srv := httpapi.NewServer(engine, catalog, log)

	server := &http.Server{Addr: cfg.Address, Handler: srv.Routes()}
	go func() {
		log.Info().Str("address", cfg.Address).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

// openCatalog opens the sqlite store, or falls back to the in-memory store
// when no DB path is configured. Either way the seed file populates an empty
// catalog.
func openCatalog(ctx context.Context, cfg Config, log zerolog.Logger) (httpapi.Catalog, func(), error) {
	seed := func() []domain.FurnitureItem {
		items, err := storage.LoadItemsFromFile(cfg.CatalogPath)
		if err != nil {
			log.Warn().Err(err).Msg("no seed catalog")
			return nil
		}
		return items
	}

	if cfg.CatalogDB == "" {
		store := storage.NewMemoryStore(seed())
		return store, func() {}, nil
	}

	store, err := storage.OpenSQLite(cfg.CatalogDB)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	n, err := store.CountItems(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if n == 0 {
		if items := seed(); len(items) > 0 {
			if err := store.UpsertMany(ctx, items); err != nil {
				_ = store.Close()
				return nil, nil, err
			}
			log.Info().Int("items", len(items)).Msg("seeded catalog")
		}
	}
	return store, func() { _ = store.Close() }, nil
}

func loadConfig() Config {
	return Config{
		Address:     getEnv("API_ADDRESS", ":8080"),
		CatalogDB:   getEnv("CATALOG_DB", "data/catalog.db"),
		CatalogPath: getEnv("CATALOG_PATH", "data/catalog.json"),
		ScoringPath: getEnv("SCORING_CONFIG", "configs/scoring.json"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
