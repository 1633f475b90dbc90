package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

// ExporterDeps wires the exporter.
type ExporterDeps struct {
	Repo      ports.CompetitorRepository
	Publisher ports.Publisher
	Live      ports.LiveSource
	SeedPath  string
	Logger    *slog.Logger
}

// Exporter moves competitor data between the local store, the seed file and
// the deployed instance.
type Exporter struct {
	repo      ports.CompetitorRepository
	publisher ports.Publisher
	live      ports.LiveSource
	seedPath  string
	logger    *slog.Logger
}

// NewExporter constructs the exporter. Publisher and Live may be nil when
// those steps are not configured.
func NewExporter(deps ExporterDeps) *Exporter {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		repo:      deps.Repo,
		publisher: deps.Publisher,
		live:      deps.Live,
		seedPath:  deps.SeedPath,
		logger:    logger.With("component", "exporter"),
	}
}

// SeedPath is where ExportToJSON writes.
func (e *Exporter) SeedPath() string {
	return e.seedPath
}

// BuildSeed reads every competitor and post in id order and renumbers post
// competitor ids to 1-based competitor positions.
func (e *Exporter) BuildSeed(ctx context.Context) (domain.Seed, error) {
	competitors, err := e.repo.ListCompetitorsByID(ctx)
	if err != nil {
		return domain.Seed{}, fmt.Errorf("list competitors: %w", err)
	}
	posts, err := e.repo.ListPosts(ctx)
	if err != nil {
		return domain.Seed{}, fmt.Errorf("list posts: %w", err)
	}

	seed := domain.Seed{
		Competitors: make([]domain.SeedCompetitor, 0, len(competitors)),
		Posts:       make([]domain.SeedPost, 0, len(posts)),
	}
	positions := make(map[int64]int64, len(competitors))
	for i, c := range competitors {
		positions[c.ID] = int64(i + 1)
		seed.Competitors = append(seed.Competitors, domain.SeedCompetitor{
			Name:       c.Name,
			Handle:     c.Handle,
			Platform:   c.Platform,
			ProfileURL: c.ProfileURL,
			Notes:      c.Notes,
		})
	}

	for _, p := range posts {
		competitorID := p.CompetitorID
		if pos, ok := positions[competitorID]; ok {
			competitorID = pos
		}
		notable := 0
		if p.IsNotable {
			notable = 1
		}
		seed.Posts = append(seed.Posts, domain.SeedPost{
			CompetitorID:            competitorID,
			PostURL:                 p.PostURL,
			PostedAt:                p.PostedAt,
			ContentType:             p.ContentType,
			CaptionSnippet:          p.CaptionSnippet,
			Likes:                   p.Likes,
			Comments:                p.Comments,
			EstimatedEngagementRate: p.EstimatedEngagementRate,
			ContentTheme:            p.ContentTheme,
			Notes:                   p.Notes,
			IsNotable:               notable,
		})
	}
	return seed, nil
}

// ExportToJSON writes the seed file, replacing any previous export.
func (e *Exporter) ExportToJSON(ctx context.Context) (domain.Seed, error) {
	seed, err := e.BuildSeed(ctx)
	if err != nil {
		return domain.Seed{}, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(seed); err != nil {
		return domain.Seed{}, fmt.Errorf("encode seed: %w", err)
	}

	if dir := filepath.Dir(e.seedPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.Seed{}, fmt.Errorf("create seed dir: %w", err)
		}
	}
	if err := os.WriteFile(e.seedPath, buf.Bytes(), 0o644); err != nil {
		return domain.Seed{}, fmt.Errorf("write seed: %w", err)
	}

	e.logger.Info("seed exported", "path", e.seedPath,
		"competitors", len(seed.Competitors), "posts", len(seed.Posts))
	return seed, nil
}

// PushToGit publishes the seed file. It returns false without side effects
// when the file has no pending changes.
func (e *Exporter) PushToGit(ctx context.Context) (bool, error) {
	if e.publisher == nil {
		return false, fmt.Errorf("publish seed: %w", domain.ErrNotConfigured)
	}
	pushed, err := e.publisher.Publish(ctx, e.seedPath)
	if err != nil {
		return false, fmt.Errorf("publish seed: %w", err)
	}
	if pushed {
		e.logger.Info("seed pushed", "path", e.seedPath)
	} else {
		e.logger.Info("no changes to push, seed file is up to date")
	}
	return pushed, nil
}

// PullResult reports a live pull. Warning is set when the pull was skipped
// or failed; it never aborts the caller.
type PullResult struct {
	Added   []string `json:"added"`
	Warning string   `json:"warning,omitempty"`
}

// PullFromLive adds competitors known to the deployed instance but missing
// locally, matched by handle.
func (e *Exporter) PullFromLive(ctx context.Context) PullResult {
	result := PullResult{Added: []string{}}
	if e.live == nil {
		result.Warning = "live sync URL or key not set, skipping live pull"
		e.logger.Warn(result.Warning)
		return result
	}

	remote, err := e.live.FetchCompetitors(ctx)
	if err != nil {
		result.Warning = fmt.Sprintf("could not reach live site: %v", err)
		e.logger.Warn("live pull failed", "error", err)
		return result
	}

	local, err := e.repo.ListCompetitors(ctx)
	if err != nil {
		result.Warning = fmt.Sprintf("could not read local competitors: %v", err)
		return result
	}
	known := make(map[string]bool, len(local))
	for _, c := range local {
		known[c.Handle] = true
	}

	for _, c := range remote {
		if c.Handle == "" || known[c.Handle] {
			continue
		}
		c.ID = 0
		if !c.Platform.Valid() {
			c.Platform = domain.PlatformInstagram
		}
		if _, err := e.repo.AddCompetitor(ctx, c); err != nil {
			e.logger.Warn("add live competitor failed", "handle", c.Handle, "error", err)
			continue
		}
		known[c.Handle] = true
		result.Added = append(result.Added, c.Handle)
		e.logger.Info("added competitor from live site", "handle", c.Handle)
	}
	return result
}

// ImportResult summarizes loading a seed file.
type ImportResult struct {
	CompetitorsAdded int `json:"competitors_added"`
	PostsAdded       int `json:"posts_added"`
}

// ImportSeed loads a seed file into the store. Competitors are matched by
// handle and posts by URL, so importing twice adds nothing.
func (e *Exporter) ImportSeed(ctx context.Context, path string) (ImportResult, error) {
	var result ImportResult
	raw, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read seed: %w", err)
	}
	var seed domain.Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return result, fmt.Errorf("decode seed: %w", err)
	}

	ids := make(map[int64]int64, len(seed.Competitors))
	for i, sc := range seed.Competitors {
		existing, err := e.repo.CompetitorByHandle(ctx, sc.Handle)
		switch {
		case err == nil:
			ids[int64(i+1)] = existing.ID
			continue
		case !errors.Is(err, domain.ErrNotFound):
			return result, fmt.Errorf("lookup @%s: %w", sc.Handle, err)
		}

		added, err := e.repo.AddCompetitor(ctx, domain.Competitor{
			Name:       sc.Name,
			Handle:     sc.Handle,
			Platform:   sc.Platform,
			ProfileURL: sc.ProfileURL,
			Notes:      sc.Notes,
		})
		if err != nil {
			return result, fmt.Errorf("add @%s: %w", sc.Handle, err)
		}
		ids[int64(i+1)] = added.ID
		result.CompetitorsAdded++
	}

	for _, sp := range seed.Posts {
		competitorID, ok := ids[sp.CompetitorID]
		if !ok || sp.PostURL == nil {
			continue
		}
		exists, err := e.repo.PostExists(ctx, competitorID, *sp.PostURL)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}
		_, err = e.repo.InsertPost(ctx, domain.CompetitorPost{
			CompetitorID:            competitorID,
			PostURL:                 sp.PostURL,
			PostedAt:                sp.PostedAt,
			ContentType:             sp.ContentType,
			CaptionSnippet:          sp.CaptionSnippet,
			Likes:                   sp.Likes,
			Comments:                sp.Comments,
			EstimatedEngagementRate: sp.EstimatedEngagementRate,
			ContentTheme:            sp.ContentTheme,
			Notes:                   sp.Notes,
			IsNotable:               sp.IsNotable != 0,
		})
		if err != nil {
			return result, fmt.Errorf("insert post %s: %w", *sp.PostURL, err)
		}
		result.PostsAdded++
	}
	return result, nil
}
