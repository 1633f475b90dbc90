package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"Wavecrest/internal/config"
	"Wavecrest/internal/domain"
	"Wavecrest/internal/httpapi"
	"Wavecrest/internal/infrastructure/gitpub"
	"Wavecrest/internal/infrastructure/instagram"
	"Wavecrest/internal/infrastructure/livesync"
	"Wavecrest/internal/infrastructure/meta"
	"Wavecrest/internal/infrastructure/scheduler"
	"Wavecrest/internal/infrastructure/storage"
	"Wavecrest/internal/logging"
	"Wavecrest/internal/metrics"
	"Wavecrest/internal/scanner"
	"Wavecrest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	Store       *storage.Store
	Metrics     *metrics.Recorder
	Ads         *usecase.AdsSync
	CRM         *usecase.LeadCRM
	Scraper     *usecase.Scraper
	Exporter    *usecase.Exporter
	Competitors *usecase.CompetitorSync
	Intel       *usecase.Intel
	Content     *usecase.Content
}

// New opens the store and builds every use case from cfg.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	seedPath, err := SeedPath(cfg.Sync)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	recorder := metrics.NewRecorder()

	registry := scanner.NewRegistry()
	registry.Register(instagram.NewScanner(cfg.Instagram, nil, baseLogger),
		domain.PlatformInstagram, domain.PlatformBoth)

	exporterDeps := usecase.ExporterDeps{
		Repo:      store,
		Publisher: gitpub.NewPublisher(cfg.Sync, nil, baseLogger),
		SeedPath:  seedPath,
		Logger:    baseLogger,
	}
	if live := livesync.NewClient(cfg.Sync.LiveURL, cfg.Sync.SyncKey, nil); live != nil {
		exporterDeps.Live = live
	}
	exporter := usecase.NewExporter(exporterDeps)
	scraper := usecase.NewScraper(registry, store, recorder, baseLogger)

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		Store:   store,
		Metrics: recorder,
		Ads: usecase.NewAdsSync(usecase.AdsSyncDeps{
			Config:   cfg.Meta,
			Platform: meta.NewClient(cfg.Meta, nil),
			Ads:      store,
			Leads:    store,
			Recorder: recorder,
			Logger:   baseLogger,
		}),
		CRM:         usecase.NewLeadCRM(store, baseLogger),
		Scraper:     scraper,
		Exporter:    exporter,
		Competitors: usecase.NewCompetitorSync(scraper, exporter, baseLogger),
		Intel:       usecase.NewIntel(store, baseLogger),
		Content:     usecase.NewContent(store, baseLogger),
	}, nil
}

// SeedPath resolves the seed file against the repository it is published
// from. Relative paths are taken relative to cfg.RepoDir, not the working
// directory.
func SeedPath(cfg config.SyncConfig) (string, error) {
	if filepath.IsAbs(cfg.SeedFile) {
		return filepath.Clean(cfg.SeedFile), nil
	}
	dir := cfg.RepoDir
	if dir == "" {
		dir = "."
	}
	path, err := filepath.Abs(filepath.Join(dir, cfg.SeedFile))
	if err != nil {
		return "", fmt.Errorf("resolve seed file: %w", err)
	}
	return path, nil
}

// Config returns the configuration the application was built from.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Close releases the store.
func (a *Application) Close() error {
	return a.Store.Close()
}

// Handler builds the HTTP surface.
func (a *Application) Handler() http.Handler {
	return httpapi.NewRouter(httpapi.Deps{
		Logger:      a.logger,
		Competitors: a.Intel,
		Seed:        a.Exporter,
		Health:      a.Store.Health,
		Metrics:     a.Metrics.Handler(),
		SyncKey:     a.cfg.Sync.SyncKey,
	})
}

// Serve runs the HTTP server on addr until ctx is cancelled. With schedule
// set the ads sync also runs once per configured interval.
func (a *Application) Serve(ctx context.Context, addr string, schedule bool) error {
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	var sched *usecase.Scheduler
	if schedule {
		driver := scheduler.NewTickerScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location())
		sched = usecase.NewScheduler(driver, a.Ads, a.cfg.Meta.MetricDays, a.logger)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduler stop", "error", err)
		}
	}
	return serveErr
}
