package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

var (
	// ErrInvalidContent reports a rejected script, idea, calendar slot or
	// suggestion.
	ErrInvalidContent = errors.New("invalid content")
	// ErrNoChanges is returned by updates that name no field.
	ErrNoChanges = errors.New("no fields to update")
)

// ScriptChanges is a script update. Pillar is a pillar name.
type ScriptChanges struct {
	ports.ScriptPatch
	Pillar *string
}

// IdeaChanges is an idea update. Pillar is a pillar name.
type IdeaChanges struct {
	ports.IdeaPatch
	Pillar *string
}

// CalendarChanges is a calendar slot update. Pillar is a pillar name.
type CalendarChanges struct {
	ports.CalendarPatch
	Pillar *string
}

// SuggestionDeletion reports what a suggestion delete removed.
type SuggestionDeletion struct {
	ID            int64 `json:"id"`
	Deleted       bool  `json:"deleted"`
	ImagesRemoved int   `json:"images_removed"`
}

// Content manages the content planning tools: the script library, the idea
// bank, the content calendar and team suggestions.
type Content struct {
	repo   ports.ContentRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewContent constructs the content planning use case.
func NewContent(repo ports.ContentRepository, logger *slog.Logger) *Content {
	if logger == nil {
		logger = slog.Default()
	}
	return &Content{repo: repo, now: time.Now, logger: logger.With("component", "content")}
}

// AddScript stores a new script in the backlog, filed under the named
// pillar when one is given.
func (c *Content) AddScript(ctx context.Context, s domain.Script, pillar string) (domain.Script, error) {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" || strings.TrimSpace(s.Body) == "" {
		return domain.Script{}, fmt.Errorf("%w: title and body are required", ErrInvalidContent)
	}
	if !s.ScriptType.Valid() {
		return domain.Script{}, fmt.Errorf("%w: unknown script type %q", ErrInvalidContent, s.ScriptType)
	}
	if s.Status == "" {
		s.Status = domain.ScriptBacklog
	}
	if !s.Status.Valid() {
		return domain.Script{}, fmt.Errorf("%w: unknown script status %q", ErrInvalidContent, s.Status)
	}
	var err error
	if s.PillarID, err = c.pillarID(ctx, pillar); err != nil {
		return domain.Script{}, err
	}
	s.Notes = trimmed(s.Notes)

	id, err := c.repo.InsertScript(ctx, s)
	if err != nil {
		return domain.Script{}, fmt.Errorf("insert script: %w", err)
	}
	c.logger.Info("script added", "id", id, "type", s.ScriptType)
	return c.repo.ScriptByID(ctx, id)
}

// Script returns one script.
func (c *Content) Script(ctx context.Context, id int64) (domain.Script, error) {
	s, err := c.repo.ScriptByID(ctx, id)
	if err != nil {
		return domain.Script{}, fmt.Errorf("script %d: %w", id, err)
	}
	return s, nil
}

// ListScripts returns scripts newest first.
func (c *Content) ListScripts(ctx context.Context, f ports.ScriptFilter) ([]domain.Script, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown script type %q", ErrInvalidContent, f.Type)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown script status %q", ErrInvalidContent, f.Status)
	}
	return c.repo.ListScripts(ctx, f)
}

// SearchScripts returns scripts whose title or body contains keyword.
func (c *Content) SearchScripts(ctx context.Context, keyword string) ([]domain.Script, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", ErrInvalidContent)
	}
	return c.repo.ListScripts(ctx, ports.ScriptFilter{Keyword: keyword})
}

// UpdateScript changes the given fields of a script.
func (c *Content) UpdateScript(ctx context.Context, id int64, ch ScriptChanges) (domain.Script, error) {
	if ch.ScriptPatch == (ports.ScriptPatch{}) && ch.Pillar == nil {
		return domain.Script{}, ErrNoChanges
	}
	if ch.ScriptType != nil && !ch.ScriptType.Valid() {
		return domain.Script{}, fmt.Errorf("%w: unknown script type %q", ErrInvalidContent, *ch.ScriptType)
	}
	if ch.Status != nil && !ch.Status.Valid() {
		return domain.Script{}, fmt.Errorf("%w: unknown script status %q", ErrInvalidContent, *ch.Status)
	}
	patch := ch.ScriptPatch
	if ch.Pillar != nil {
		var err error
		if patch.PillarID, err = c.pillarID(ctx, *ch.Pillar); err != nil {
			return domain.Script{}, err
		}
	}

	ok, err := c.repo.UpdateScript(ctx, id, patch)
	if err != nil {
		return domain.Script{}, fmt.Errorf("update script %d: %w", id, err)
	}
	if !ok {
		return domain.Script{}, fmt.Errorf("script %d: %w", id, domain.ErrNotFound)
	}
	return c.repo.ScriptByID(ctx, id)
}

// DeleteScript removes a script and reports whether it existed.
func (c *Content) DeleteScript(ctx context.Context, id int64) (bool, error) {
	ok, err := c.repo.DeleteScript(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete script %d: %w", id, err)
	}
	return ok, nil
}

// ArchiveScripts moves backlog scripts created more than days ago to
// completed and returns how many moved.
func (c *Content) ArchiveScripts(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, fmt.Errorf("%w: days must not be negative", ErrInvalidContent)
	}
	cutoff := c.now().AddDate(0, 0, -days)
	n, err := c.repo.MoveStaleScripts(ctx, domain.ScriptBacklog, domain.ScriptCompleted, cutoff)
	if err != nil {
		return 0, err
	}
	c.logger.Info("scripts archived", "count", n, "older_than_days", days)
	return n, nil
}

// AddIdea stores a new idea.
func (c *Content) AddIdea(ctx context.Context, idea domain.Idea, pillar string) (domain.Idea, error) {
	idea.Idea = strings.TrimSpace(idea.Idea)
	if idea.Idea == "" {
		return domain.Idea{}, fmt.Errorf("%w: idea is required", ErrInvalidContent)
	}
	if idea.Priority == "" {
		idea.Priority = domain.PriorityMedium
	}
	if !idea.Priority.Valid() {
		return domain.Idea{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidContent, idea.Priority)
	}
	idea.Status = domain.IdeaNew
	var err error
	if idea.PillarID, err = c.pillarID(ctx, pillar); err != nil {
		return domain.Idea{}, err
	}
	idea.ContentType = trimmed(idea.ContentType)
	idea.InspirationSource = trimmed(idea.InspirationSource)
	idea.InspirationURL = trimmed(idea.InspirationURL)

	id, err := c.repo.InsertIdea(ctx, idea)
	if err != nil {
		return domain.Idea{}, fmt.Errorf("insert idea: %w", err)
	}
	c.logger.Info("idea added", "id", id, "priority", idea.Priority)
	return c.repo.IdeaByID(ctx, id)
}

// ListIdeas returns ideas, highest priority first.
func (c *Content) ListIdeas(ctx context.Context, f ports.IdeaFilter) ([]domain.Idea, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown idea status %q", ErrInvalidContent, f.Status)
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidContent, f.Priority)
	}
	return c.repo.ListIdeas(ctx, f)
}

// UpdateIdea changes the given fields of an idea.
func (c *Content) UpdateIdea(ctx context.Context, id int64, ch IdeaChanges) (domain.Idea, error) {
	if ch.IdeaPatch == (ports.IdeaPatch{}) && ch.Pillar == nil {
		return domain.Idea{}, ErrNoChanges
	}
	if ch.Priority != nil && !ch.Priority.Valid() {
		return domain.Idea{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidContent, *ch.Priority)
	}
	if ch.Status != nil && !ch.Status.Valid() {
		return domain.Idea{}, fmt.Errorf("%w: unknown idea status %q", ErrInvalidContent, *ch.Status)
	}
	patch := ch.IdeaPatch
	if ch.Pillar != nil {
		var err error
		if patch.PillarID, err = c.pillarID(ctx, *ch.Pillar); err != nil {
			return domain.Idea{}, err
		}
	}
	return c.patchIdea(ctx, id, patch)
}

// PromoteIdea moves an idea into development.
func (c *Content) PromoteIdea(ctx context.Context, id int64) (domain.Idea, error) {
	return c.setIdeaStatus(ctx, id, domain.IdeaDeveloping)
}

// UseIdea marks an idea as used.
func (c *Content) UseIdea(ctx context.Context, id int64) (domain.Idea, error) {
	return c.setIdeaStatus(ctx, id, domain.IdeaUsed)
}

// RejectIdea marks an idea as rejected.
func (c *Content) RejectIdea(ctx context.Context, id int64) (domain.Idea, error) {
	return c.setIdeaStatus(ctx, id, domain.IdeaRejected)
}

func (c *Content) setIdeaStatus(ctx context.Context, id int64, status domain.IdeaStatus) (domain.Idea, error) {
	idea, err := c.patchIdea(ctx, id, ports.IdeaPatch{Status: &status})
	if err != nil {
		return domain.Idea{}, err
	}
	c.logger.Info("idea status changed", "id", id, "status", status)
	return idea, nil
}

func (c *Content) patchIdea(ctx context.Context, id int64, patch ports.IdeaPatch) (domain.Idea, error) {
	ok, err := c.repo.UpdateIdea(ctx, id, patch)
	if err != nil {
		return domain.Idea{}, fmt.Errorf("update idea %d: %w", id, err)
	}
	if !ok {
		return domain.Idea{}, fmt.Errorf("idea %d: %w", id, domain.ErrNotFound)
	}
	return c.repo.IdeaByID(ctx, id)
}

// DeleteIdea removes an idea and reports whether it existed.
func (c *Content) DeleteIdea(ctx context.Context, id int64) (bool, error) {
	ok, err := c.repo.DeleteIdea(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete idea %d: %w", id, err)
	}
	return ok, nil
}

// AddCalendarEntry plans a post.
func (c *Content) AddCalendarEntry(ctx context.Context, e domain.CalendarEntry, pillar string) (domain.CalendarEntry, error) {
	if e.Status == "" {
		e.Status = domain.CalendarPlanned
	}
	if err := c.checkCalendar(ctx, &e.ScheduledDate, e.ScheduledTime, &e.Platform, &e.ContentType, &e.Status, e.ScriptID); err != nil {
		return domain.CalendarEntry{}, err
	}
	var err error
	if e.PillarID, err = c.pillarID(ctx, pillar); err != nil {
		return domain.CalendarEntry{}, err
	}
	e.Caption = trimmed(e.Caption)
	e.Hashtags = trimmed(e.Hashtags)
	e.MediaPath = trimmed(e.MediaPath)
	e.Notes = trimmed(e.Notes)

	id, err := c.repo.InsertCalendarEntry(ctx, e)
	if err != nil {
		return domain.CalendarEntry{}, fmt.Errorf("insert calendar entry: %w", err)
	}
	c.logger.Info("calendar entry added", "id", id, "date", e.ScheduledDate, "platform", e.Platform)
	return c.repo.CalendarEntryByID(ctx, id)
}

// ListCalendar returns planned posts in schedule order.
func (c *Content) ListCalendar(ctx context.Context, f ports.CalendarFilter) ([]domain.CalendarEntry, error) {
	if f.Month != "" {
		if err := checkMonth(f.Month); err != nil {
			return nil, err
		}
	}
	if f.Platform != "" && !f.Platform.Valid() {
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidContent, f.Platform)
	}
	if f.ContentType != "" && !f.ContentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalidContent, f.ContentType)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown calendar status %q", ErrInvalidContent, f.Status)
	}
	return c.repo.ListCalendar(ctx, f)
}

// UpdateCalendarEntry changes the given fields of a planned post.
func (c *Content) UpdateCalendarEntry(ctx context.Context, id int64, ch CalendarChanges) (domain.CalendarEntry, error) {
	if ch.CalendarPatch == (ports.CalendarPatch{}) && ch.Pillar == nil {
		return domain.CalendarEntry{}, ErrNoChanges
	}
	patch := ch.CalendarPatch
	if err := c.checkCalendar(ctx, patch.ScheduledDate, patch.ScheduledTime, patch.Platform, patch.ContentType, patch.Status, patch.ScriptID); err != nil {
		return domain.CalendarEntry{}, err
	}
	if ch.Pillar != nil {
		var err error
		if patch.PillarID, err = c.pillarID(ctx, *ch.Pillar); err != nil {
			return domain.CalendarEntry{}, err
		}
	}

	ok, err := c.repo.UpdateCalendarEntry(ctx, id, patch)
	if err != nil {
		return domain.CalendarEntry{}, fmt.Errorf("update calendar entry %d: %w", id, err)
	}
	if !ok {
		return domain.CalendarEntry{}, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	return c.repo.CalendarEntryByID(ctx, id)
}

// DeleteCalendarEntry removes a planned post and reports whether it existed.
func (c *Content) DeleteCalendarEntry(ctx context.Context, id int64) (bool, error) {
	ok, err := c.repo.DeleteCalendarEntry(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete calendar entry %d: %w", id, err)
	}
	return ok, nil
}

// CalendarSummary returns the content mix of a YYYY-MM month.
func (c *Content) CalendarSummary(ctx context.Context, month string) (domain.CalendarSummary, error) {
	if err := checkMonth(month); err != nil {
		return domain.CalendarSummary{}, err
	}
	return c.repo.CalendarSummary(ctx, month)
}

// checkCalendar validates the non-nil calendar fields in place.
func (c *Content) checkCalendar(ctx context.Context, date, clock *string, platform *domain.Platform,
	format *domain.PostFormat, status *domain.CalendarStatus, scriptID *int64) error {
	if date != nil {
		if _, err := time.Parse(time.DateOnly, *date); err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidContent, *date)
		}
	}
	if clock != nil && *clock != "" {
		if _, err := time.Parse("15:04", *clock); err != nil {
			return fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidContent, *clock)
		}
	}
	if platform != nil && !platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidContent, *platform)
	}
	if format != nil && !format.Valid() {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidContent, *format)
	}
	if status != nil && !status.Valid() {
		return fmt.Errorf("%w: unknown calendar status %q", ErrInvalidContent, *status)
	}
	if scriptID != nil {
		if _, err := c.repo.ScriptByID(ctx, *scriptID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: script %d does not exist", ErrInvalidContent, *scriptID)
			}
			return err
		}
	}
	return nil
}

// AddSuggestion stores a team member's content suggestion.
func (c *Content) AddSuggestion(ctx context.Context, s domain.Suggestion) (domain.Suggestion, error) {
	s.Title = strings.TrimSpace(s.Title)
	s.SubmittedBy = strings.TrimSpace(s.SubmittedBy)
	if s.Title == "" || s.SubmittedBy == "" {
		return domain.Suggestion{}, fmt.Errorf("%w: title and submitter are required", ErrInvalidContent)
	}
	if s.Priority == "" {
		s.Priority = domain.PriorityMedium
	}
	if !s.Priority.Valid() {
		return domain.Suggestion{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidContent, s.Priority)
	}
	if s.Channel == "" {
		s.Channel = domain.ChannelOrganic
	}
	if !s.Channel.Valid() {
		return domain.Suggestion{}, fmt.Errorf("%w: unknown channel %q", ErrInvalidContent, s.Channel)
	}
	s.Description = trimmed(s.Description)
	s.LinkURL = trimmed(s.LinkURL)

	id, err := c.repo.InsertSuggestion(ctx, s)
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("insert suggestion: %w", err)
	}
	c.logger.Info("suggestion added", "id", id, "submitted_by", s.SubmittedBy)
	return c.repo.SuggestionByID(ctx, id)
}

// Suggestion returns one suggestion with its images.
func (c *Content) Suggestion(ctx context.Context, id int64) (domain.Suggestion, error) {
	s, err := c.repo.SuggestionByID(ctx, id)
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("suggestion %d: %w", id, err)
	}
	return s, nil
}

// ListSuggestions returns suggestions, highest priority first.
func (c *Content) ListSuggestions(ctx context.Context, f ports.SuggestionFilter) ([]domain.Suggestion, error) {
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidContent, f.Priority)
	}
	return c.repo.ListSuggestions(ctx, f)
}

// DeleteSuggestion removes a suggestion together with its uploaded image
// files. Image files that are already gone are ignored.
func (c *Content) DeleteSuggestion(ctx context.Context, id int64) (SuggestionDeletion, error) {
	ok, images, err := c.repo.DeleteSuggestion(ctx, id)
	if err != nil {
		return SuggestionDeletion{}, fmt.Errorf("delete suggestion %d: %w", id, err)
	}
	for _, img := range images {
		if err := os.Remove(img.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("remove suggestion image", "path", img.FilePath, "error", err)
		}
	}
	return SuggestionDeletion{ID: id, Deleted: ok, ImagesRemoved: len(images)}, nil
}

// pillarID resolves a pillar name; an empty name means no pillar.
func (c *Content) pillarID(ctx context.Context, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	p, err := c.repo.PillarByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown pillar %q", ErrInvalidContent, name)
	}
	if err != nil {
		return nil, fmt.Errorf("pillar %q: %w", name, err)
	}
	return &p.ID, nil
}

func checkMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("%w: month %q is not YYYY-MM", ErrInvalidContent, month)
	}
	return nil
}
