package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"seoul-store-crawler/internal/category"
	"seoul-store-crawler/internal/crawler"
	"seoul-store-crawler/internal/enhance"
	"seoul-store-crawler/internal/geocode"
	"seoul-store-crawler/internal/hours"
	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/internal/price"
	"seoul-store-crawler/internal/processor"
	"seoul-store-crawler/internal/repository"
	"seoul-store-crawler/pkg/config"
	"seoul-store-crawler/pkg/container"
	"seoul-store-crawler/pkg/database"
	"seoul-store-crawler/pkg/events"
	"seoul-store-crawler/pkg/geography"
	"seoul-store-crawler/pkg/health"
	"seoul-store-crawler/pkg/logging"
)

func main() {
	c := container.New()

	// Config (singleton)
	_ = c.Provide(func() *config.Config { return config.Load() }, true)

	// Logger (singleton)
	_ = c.Provide(func(cfg *config.Config) *logging.Logger {
		return logging.NewLogger(logging.LogConfig{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: cfg.LogFormat,
			Output: "stdout",
		})
	}, true)

	// Database (singleton)
	_ = c.Provide(func(cfg *config.Config) (*database.DB, error) {
		return database.NewWithConfig(cfg.DatabaseURL, cfg)
	}, true)

	// Repository (singleton)
	_ = c.Provide(func(db *database.DB, lg *logging.Logger) *repository.StoreRepository {
		return repository.NewStoreRepository(db, lg)
	}, true)

	// Enhancement collaborators (singletons). Geocoder and AI suggester
	// are optional; without API keys the enhancer skips those steps.
	_ = c.Provide(func(cfg *config.Config, lg *logging.Logger) *geocode.Geocoder {
		if cfg.GoogleMapsAPIKey == "" {
			return nil
		}
		g, err := geocode.NewGeocoder(cfg.GoogleMapsAPIKey, lg)
		if err != nil {
			lg.Warn("geocoder init failed, continuing without geocoding",
				logging.String("error", err.Error()))
			return nil
		}
		return g
	}, true)
	_ = c.Provide(func(cfg *config.Config, lg *logging.Logger) *enhance.Suggester {
		return enhance.NewSuggester(cfg.OpenAIAPIKey, cfg.OpenAIModel,
			float32(cfg.OpenAITemperature), cfg.OpenAITimeout, lg)
	}, true)
	_ = c.Provide(func(lg *logging.Logger) *hours.Parser { return hours.NewParser(lg) }, true)
	_ = c.Provide(func(lg *logging.Logger) *price.Normalizer { return price.NewNormalizer(lg) }, true)
	_ = c.Provide(func(cfg *config.Config, lg *logging.Logger) *category.Mapper {
		return category.NewMapper(cfg.CategoryRulesPath, lg)
	}, true)
	_ = c.Provide(func(h *hours.Parser, p *price.Normalizer, m *category.Mapper,
		g *geocode.Geocoder, s *enhance.Suggester, lg *logging.Logger) *enhance.Enhancer {
		return enhance.NewEnhancer(h, p, m, g, s, lg)
	}, true)

	// Crawler (singleton)
	_ = c.Provide(func(cfg *config.Config, lg *logging.Logger) *crawler.Crawler {
		return crawler.NewCrawler(cfg.UserAgent, cfg.CrawlTimeout, cfg.CrawlDelay, lg)
	}, true)

	// Processing engine (singleton)
	_ = c.Provide(func(e *enhance.Enhancer, repo *repository.StoreRepository,
		cfg *config.Config, lg *logging.Logger) *processor.Engine {
		pc := processor.DefaultConfig()
		if cfg.WorkerCount > 0 {
			pc.WorkerCount = cfg.WorkerCount
		}
		if cfg.MaxRetries > 0 {
			pc.MaxRetries = cfg.MaxRetries
		}
		if cfg.RetryDelay > 0 {
			pc.RetryDelay = cfg.RetryDelay
		}
		if cfg.JobTimeout > 0 {
			pc.JobTimeout = cfg.JobTimeout
		}
		if cfg.GeocodeRPS > 0 {
			pc.GeocodeRPS = cfg.GeocodeRPS
		}
		if cfg.GeocodeBurst > 0 {
			pc.GeocodeBurst = cfg.GeocodeBurst
		}
		return processor.NewEngine(e, repo, pc, lg)
	}, true)

	// Event store (singleton)
	_ = c.Provide(func(db *database.DB) (events.EventStore, error) {
		return events.NewSQLEventStore(db)
	}, true)

	// Health server (singleton)
	_ = c.Provide(func(cfg *config.Config, db *database.DB, eng *processor.Engine,
		lg *logging.Logger) *health.Server {
		mgr := health.NewManager(health.DefaultManagerConfig(), lg)
		mgr.Register(health.NewDatabaseChecker(db.Conn(), "mysql"))
		mgr.Register(health.NewEngineChecker("engine", func() interface{} { return eng.Stats() }))
		mgr.Register(health.NewHTTPChecker("https://www.diningcode.com", "diningcode", 5*time.Second))
		return health.NewServer(mgr, ":"+cfg.HealthPort, lg)
	}, true)

	// Audit log is best-effort; a failed init should not stop the run.
	if err := c.Invoke(func(eng *processor.Engine, es events.EventStore) {
		eng.SetEventStore(es)
	}); err != nil {
		log.Printf("event store init failed: %v", err)
	}

	err := c.Invoke(run)
	if err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, lg *logging.Logger, db *database.DB,
	repo *repository.StoreRepository, cr *crawler.Crawler,
	eng *processor.Engine, hs *health.Server) error {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	hs.Start()
	eng.Start()
	lg.Info("pipeline started",
		logging.Int("workers", cfg.WorkerCount),
		logging.String("health_port", cfg.HealthPort))

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		lg.Info("shutdown signal received")
		cancel()
	}()

	go func() {
		if err := crawlAndEnqueue(ctx, cfg, lg, repo, cr, eng); err != nil {
			lg.Error("crawl run failed", err)
		}
	}()

	<-ctx.Done()

	if err := eng.Stop(30 * time.Second); err != nil {
		lg.Error("engine shutdown error", err)
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := hs.Stop(shutdownCtx); err != nil {
		lg.Error("health server shutdown error", err)
	}
	if err := db.Close(); err != nil {
		lg.Error("database close error", err)
	}
	lg.Info("shutdown complete")
	return nil
}

// crawlAndEnqueue walks the configured keywords over the search rect,
// persists what it finds, then feeds every pending store to the
// enhancement engine.
func crawlAndEnqueue(ctx context.Context, cfg *config.Config, lg *logging.Logger,
	repo *repository.StoreRepository, cr *crawler.Crawler, eng *processor.Engine) error {

	if _, err := geography.ParseRect(cfg.CrawlRect); err != nil {
		return fmt.Errorf("invalid CRAWL_RECT: %w", err)
	}

	for _, keyword := range cfg.CrawlKeywords {
		items, err := cr.FetchListing(ctx, keyword, cfg.CrawlRect)
		if err != nil {
			lg.Error("listing fetch failed", err, logging.String("keyword", keyword))
			continue
		}
		var stores []models.Store
		for _, item := range items {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			store, err := cr.FetchDetail(ctx, item)
			if err != nil {
				lg.Warn("detail fetch failed",
					logging.String("place_id", item.PlaceID),
					logging.String("error", err.Error()))
				continue
			}
			stores = append(stores, *store)
		}
		if err := repo.UpsertStores(ctx, stores); err != nil {
			lg.Error("store upsert failed", err, logging.String("keyword", keyword))
		}
	}

	pending, err := repo.GetPendingStores(ctx, 2000)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		lg.Info("no pending stores to enhance")
		return nil
	}
	if err := eng.EnqueueStores(pending); err != nil {
		return err
	}
	lg.Info("stores queued for enhancement", logging.Int("count", len(pending)))
	return nil
}
