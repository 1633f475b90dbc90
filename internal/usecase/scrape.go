package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
	"Wavecrest/internal/scanner"
)

// Scraper snapshots tracked competitors from their social profiles into the
// local store.
type Scraper struct {
	registry *scanner.Registry
	repo     ports.CompetitorRepository
	recorder ports.SyncRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewScraper wires the scanner registry with the competitor store.
func NewScraper(reg *scanner.Registry, repo ports.CompetitorRepository, rec ports.SyncRecorder, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		registry: reg,
		repo:     repo,
		recorder: rec,
		logger:   logger.With("component", "scraper"),
		now:      time.Now,
	}
}

// WithClock overrides the clock used for snapshot dates.
func (s *Scraper) WithClock(now func() time.Time) *Scraper {
	s.now = now
	return s
}

// ScrapeProfile reads a profile on instagram. Failures are reported in the
// result's Error field.
func (s *Scraper) ScrapeProfile(ctx context.Context, handle string, maxPosts int) domain.ScrapeResult {
	return s.scrape(ctx, domain.PlatformInstagram, normalizeHandle(handle), maxPosts)
}

func (s *Scraper) scrape(ctx context.Context, platform domain.Platform, handle string, maxPosts int) domain.ScrapeResult {
	strategy, err := s.registry.Resolve(platform)
	if err != nil {
		return domain.ScrapeResult{Profile: domain.Profile{Handle: handle}, Error: err.Error()}
	}

	result, err := strategy.Scan(ctx, scanner.Request{Handle: handle, MaxPosts: maxPosts})
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return domain.ScrapeResult{Profile: domain.Profile{Handle: handle}, Error: fmt.Sprintf("Profile @%s not found", handle)}
	case err != nil:
		return domain.ScrapeResult{Profile: domain.Profile{Handle: handle}, Error: fmt.Sprintf("Connection error for @%s: %v", handle, err)}
	}
	result.Handle = handle
	if result.Posts == nil {
		result.Posts = []domain.ScrapedPost{}
	}
	if result.ScrapeWarning != "" {
		s.logger.Warn("partial scrape", "handle", handle, "warning", result.ScrapeWarning)
	}
	return result
}

// SaveToDB writes today's snapshot for handle, replacing one taken earlier
// the same day, and inserts posts not already stored for the competitor.
func (s *Scraper) SaveToDB(ctx context.Context, handle string, data domain.ScrapeResult) domain.SaveResult {
	handle = normalizeHandle(handle)
	if data.Error != "" {
		return domain.SaveResult{Handle: handle, Error: data.Error}
	}

	competitor, err := s.repo.CompetitorByHandle(ctx, handle)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SaveResult{Handle: handle, Error: fmt.Sprintf("Competitor @%s not found in database. Add them first.", handle)}
	}
	if err != nil {
		return domain.SaveResult{Handle: handle, Error: err.Error()}
	}

	snap := domain.CompetitorSnapshot{
		CompetitorID: competitor.ID,
		SnapshotDate: s.now().Format(time.DateOnly),
		Followers:    data.Followers,
		Following:    data.Following,
		TotalPosts:   data.TotalPosts,
		Bio:          optional(data.Bio),
	}
	if _, err := s.repo.UpsertSnapshot(ctx, snap); err != nil {
		return domain.SaveResult{Handle: handle, Error: fmt.Sprintf("save snapshot: %v", err)}
	}

	added := 0
	for _, post := range data.Posts {
		exists, err := s.repo.PostExists(ctx, competitor.ID, post.PostURL)
		if err != nil {
			return domain.SaveResult{Handle: handle, Error: fmt.Sprintf("check post %s: %v", post.PostURL, err)}
		}
		if exists {
			continue
		}

		postURL := post.PostURL
		postedAt := post.PostedAt.UTC().Format(time.RFC3339)
		rate := post.EngagementRate
		_, err = s.repo.InsertPost(ctx, domain.CompetitorPost{
			CompetitorID:            competitor.ID,
			PostURL:                 &postURL,
			PostedAt:                &postedAt,
			ContentType:             post.ContentType,
			CaptionSnippet:          post.CaptionSnippet,
			Likes:                   post.Likes,
			Comments:                post.Comments,
			EstimatedEngagementRate: &rate,
		})
		if err != nil {
			return domain.SaveResult{Handle: handle, Error: fmt.Sprintf("save post %s: %v", post.PostURL, err)}
		}
		added++
	}

	return domain.SaveResult{
		Success:                true,
		Handle:                 handle,
		Followers:              data.Followers,
		PostsScraped:           len(data.Posts),
		PostsAdded:             added,
		PostsSkippedDuplicates: len(data.Posts) - added,
	}
}

// ScanAll scrapes and saves every tracked competitor in name order. A
// failure for one competitor is kept in its result and the scan continues.
func (s *Scraper) ScanAll(ctx context.Context, maxPosts int) (domain.ScanSummary, error) {
	competitors, err := s.repo.ListCompetitors(ctx)
	if err != nil {
		return domain.ScanSummary{}, fmt.Errorf("list competitors: %w", err)
	}
	if s.recorder != nil {
		s.recorder.ObserveRun("scan")
	}

	summary := domain.ScanSummary{Success: true, Results: make([]domain.SaveResult, 0, len(competitors))}
	for _, c := range competitors {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		s.logger.Info("scraping competitor", "handle", c.Handle, "platform", c.Platform)

		data := s.scrape(ctx, c.Platform, c.Handle, maxPosts)
		result := s.SaveToDB(ctx, c.Handle, data)
		summary.Results = append(summary.Results, result)

		if result.Error != "" {
			s.logger.Warn("competitor scan failed", "handle", c.Handle, "error", result.Error)
		} else {
			s.logger.Info("competitor scanned", "handle", c.Handle, "new_posts", result.PostsAdded)
		}
	}
	summary.CompetitorsScanned = len(summary.Results)
	return summary, nil
}

func normalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
