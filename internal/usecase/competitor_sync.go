package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"Wavecrest/internal/domain"
)

// SyncOptions selects the steps of a competitor sync run.
type SyncOptions struct {
	ExportOnly bool
	MaxPosts   int
	NoPush     bool
}

// ExportSummary describes the written seed file.
type ExportSummary struct {
	Path        string `json:"path"`
	Competitors int    `json:"competitors"`
	Posts       int    `json:"posts"`
}

// SyncRunReport is the outcome of each step that ran.
type SyncRunReport struct {
	Pull   *PullResult         `json:"pull,omitempty"`
	Scan   *domain.ScanSummary `json:"scan,omitempty"`
	Export ExportSummary       `json:"export"`
	Pushed bool                `json:"pushed"`
	Push   string              `json:"push"`
}

// CompetitorSync runs pull from live, scrape, export and push in order.
type CompetitorSync struct {
	scraper  *Scraper
	exporter *Exporter
	logger   *slog.Logger
}

// NewCompetitorSync wires the orchestration.
func NewCompetitorSync(scraper *Scraper, exporter *Exporter, logger *slog.Logger) *CompetitorSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompetitorSync{scraper: scraper, exporter: exporter, logger: logger.With("component", "competitor_sync")}
}

// Run executes the selected steps. Pull and scrape failures are reported in
// the result; export and push failures are returned.
func (c *CompetitorSync) Run(ctx context.Context, opts SyncOptions) (SyncRunReport, error) {
	var report SyncRunReport
	if opts.MaxPosts <= 0 {
		opts.MaxPosts = 10
	}

	if !opts.ExportOnly {
		pull := c.exporter.PullFromLive(ctx)
		report.Pull = &pull

		c.logger.Info("scraping all competitors", "max_posts", opts.MaxPosts)
		scan, err := c.scraper.ScanAll(ctx, opts.MaxPosts)
		if err != nil {
			return report, fmt.Errorf("scan competitors: %w", err)
		}
		report.Scan = &scan
		c.logger.Info("scan finished", "competitors", scan.CompetitorsScanned, "new_posts", scan.TotalAdded())
	}

	seed, err := c.exporter.ExportToJSON(ctx)
	if err != nil {
		return report, fmt.Errorf("export: %w", err)
	}
	report.Export = ExportSummary{
		Path:        c.exporter.SeedPath(),
		Competitors: len(seed.Competitors),
		Posts:       len(seed.Posts),
	}

	if opts.NoPush {
		report.Push = "skipped"
		return report, nil
	}

	pushed, err := c.exporter.PushToGit(ctx)
	if err != nil {
		report.Push = "failed"
		return report, err
	}
	report.Pushed = pushed
	if pushed {
		report.Push = "pushed"
	} else {
		report.Push = "unchanged"
	}
	return report, nil
}
