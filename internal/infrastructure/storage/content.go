package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

var _ ports.ContentRepository = (*Store)(nil)

const priorityOrder = "CASE %s WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 END"

// PillarByName looks a pillar up case-insensitively.
func (s *Store) PillarByName(ctx context.Context, name string) (domain.Pillar, error) {
	row, err := s.queryRow(ctx, sq.Select("id", "name", "description", "color_hex").
		From("content_pillars").
		Where(sq.Expr("LOWER(name) = LOWER(?)", name)))
	if err != nil {
		return domain.Pillar{}, err
	}
	var p domain.Pillar
	var desc, color sql.NullString
	switch err := row.Scan(&p.ID, &p.Name, &desc, &color); {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Pillar{}, domain.ErrNotFound
	case err != nil:
		return domain.Pillar{}, fmt.Errorf("scan pillar: %w", err)
	}
	p.Description = stringPtr(desc)
	p.ColorHex = stringPtr(color)
	return p, nil
}

func scriptQuery() sq.SelectBuilder {
	return sq.Select("s.id", "s.title", "s.body", "s.script_type", "s.pillar_id", "cp.name",
		"s.status", "s.notes", "s.created_at", "s.updated_at").
		From("scripts s").
		LeftJoin("content_pillars cp ON s.pillar_id = cp.id")
}

// InsertScript stores a script; an empty status defaults to backlog.
func (s *Store) InsertScript(ctx context.Context, sc domain.Script) (int64, error) {
	if sc.Status == "" {
		sc.Status = domain.ScriptBacklog
	}
	return s.InsertRow(ctx, "scripts", map[string]any{
		"title":       sc.Title,
		"body":        sc.Body,
		"script_type": string(sc.ScriptType),
		"pillar_id":   nullInt(sc.PillarID),
		"status":      string(sc.Status),
		"notes":       nullString(sc.Notes),
	})
}

// ScriptByID returns a script with its pillar name.
func (s *Store) ScriptByID(ctx context.Context, id int64) (domain.Script, error) {
	row, err := s.queryRow(ctx, scriptQuery().Where(sq.Eq{"s.id": id}))
	if err != nil {
		return domain.Script{}, err
	}
	sc, err := scanScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Script{}, domain.ErrNotFound
	}
	return sc, err
}

// ListScripts returns matching scripts, newest first. A keyword matches the
// title or the body.
func (s *Store) ListScripts(ctx context.Context, f ports.ScriptFilter) ([]domain.Script, error) {
	q := scriptQuery().OrderBy("s.created_at DESC", "s.id DESC")
	if f.Type != "" {
		q = q.Where(sq.Eq{"s.script_type": string(f.Type)})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"s.status": string(f.Status)})
	}
	if f.Pillar != "" {
		q = q.Where(sq.Expr("LOWER(cp.name) = LOWER(?)", f.Pillar))
	}
	if f.Keyword != "" {
		like := "%" + f.Keyword + "%"
		q = q.Where(sq.Or{sq.Like{"s.title": like}, sq.Like{"s.body": like}})
	}

	rows, err := s.queryRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query scripts: %w", err)
	}
	defer rows.Close()

	var out []domain.Script
	for rows.Next() {
		sc, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// UpdateScript applies the non-nil fields of patch.
func (s *Store) UpdateScript(ctx context.Context, id int64, patch ports.ScriptPatch) (bool, error) {
	data := map[string]any{}
	setString(data, "title", patch.Title)
	setString(data, "body", patch.Body)
	setString(data, "script_type", patch.ScriptType)
	setInt(data, "pillar_id", patch.PillarID)
	setString(data, "status", patch.Status)
	setString(data, "notes", patch.Notes)
	return s.UpdateRow(ctx, "scripts", id, data)
}

// DeleteScript removes a script. Calendar slots that referenced it keep
// their other fields.
func (s *Store) DeleteScript(ctx context.Context, id int64) (bool, error) {
	if _, err := s.exec(ctx, sq.Update("content_calendar").Set("script_id", nil).Where(sq.Eq{"script_id": id})); err != nil {
		return false, fmt.Errorf("detach script %d: %w", id, err)
	}
	return s.DeleteRow(ctx, "scripts", id)
}

// MoveStaleScripts changes the status of every script in from that was
// created before cutoff.
func (s *Store) MoveStaleScripts(ctx context.Context, from, to domain.ScriptStatus, cutoff time.Time) (int64, error) {
	res, err := s.exec(ctx, sq.Update("scripts").
		Set("status", string(to)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"status": string(from)}).
		Where(sq.Lt{"created_at": cutoff.UTC().Format(sqliteTimestamp)}))
	if err != nil {
		return 0, fmt.Errorf("move stale scripts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func scanScript(row scanner) (domain.Script, error) {
	var sc domain.Script
	var stype, status string
	var pillarID sql.NullInt64
	var pillar, notes, created, updated sql.NullString
	if err := row.Scan(&sc.ID, &sc.Title, &sc.Body, &stype, &pillarID, &pillar,
		&status, &notes, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sc, err
		}
		return sc, fmt.Errorf("scan script: %w", err)
	}
	sc.ScriptType = domain.ScriptType(stype)
	sc.PillarID = intPtr(pillarID)
	sc.PillarName = stringPtr(pillar)
	sc.Status = domain.ScriptStatus(status)
	sc.Notes = stringPtr(notes)
	sc.CreatedAt = parseTimestamp(created.String)
	sc.UpdatedAt = parseTimestamp(updated.String)
	return sc, nil
}

func ideaQuery() sq.SelectBuilder {
	return sq.Select("i.id", "i.idea", "i.pillar_id", "cp.name", "i.content_type", "i.inspiration_source",
		"i.inspiration_url", "i.priority", "i.status", "i.created_at", "i.updated_at").
		From("idea_bank i").
		LeftJoin("content_pillars cp ON i.pillar_id = cp.id")
}

// InsertIdea stores an idea; empty priority and status default to medium
// and new.
func (s *Store) InsertIdea(ctx context.Context, idea domain.Idea) (int64, error) {
	if idea.Priority == "" {
		idea.Priority = domain.PriorityMedium
	}
	if idea.Status == "" {
		idea.Status = domain.IdeaNew
	}
	return s.InsertRow(ctx, "idea_bank", map[string]any{
		"idea":               idea.Idea,
		"pillar_id":          nullInt(idea.PillarID),
		"content_type":       nullString(idea.ContentType),
		"inspiration_source": nullString(idea.InspirationSource),
		"inspiration_url":    nullString(idea.InspirationURL),
		"priority":           string(idea.Priority),
		"status":             string(idea.Status),
	})
}

// IdeaByID returns an idea with its pillar name.
func (s *Store) IdeaByID(ctx context.Context, id int64) (domain.Idea, error) {
	row, err := s.queryRow(ctx, ideaQuery().Where(sq.Eq{"i.id": id}))
	if err != nil {
		return domain.Idea{}, err
	}
	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Idea{}, domain.ErrNotFound
	}
	return idea, err
}

// ListIdeas returns matching ideas, highest priority first and newest first
// within a priority.
func (s *Store) ListIdeas(ctx context.Context, f ports.IdeaFilter) ([]domain.Idea, error) {
	q := ideaQuery().OrderBy(fmt.Sprintf(priorityOrder, "i.priority"), "i.created_at DESC", "i.id DESC")
	if f.Status != "" {
		q = q.Where(sq.Eq{"i.status": string(f.Status)})
	}
	if f.Priority != "" {
		q = q.Where(sq.Eq{"i.priority": string(f.Priority)})
	}
	if f.Pillar != "" {
		q = q.Where(sq.Expr("LOWER(cp.name) = LOWER(?)", f.Pillar))
	}
	if f.Source != "" {
		q = q.Where(sq.Like{"i.inspiration_source": "%" + f.Source + "%"})
	}

	rows, err := s.queryRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query ideas: %w", err)
	}
	defer rows.Close()

	var out []domain.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, idea)
	}
	return out, rows.Err()
}

// UpdateIdea applies the non-nil fields of patch.
func (s *Store) UpdateIdea(ctx context.Context, id int64, patch ports.IdeaPatch) (bool, error) {
	data := map[string]any{}
	setString(data, "idea", patch.Idea)
	setInt(data, "pillar_id", patch.PillarID)
	setString(data, "content_type", patch.ContentType)
	setString(data, "inspiration_source", patch.InspirationSource)
	setString(data, "inspiration_url", patch.InspirationURL)
	setString(data, "priority", patch.Priority)
	setString(data, "status", patch.Status)
	return s.UpdateRow(ctx, "idea_bank", id, data)
}

// DeleteIdea removes an idea.
func (s *Store) DeleteIdea(ctx context.Context, id int64) (bool, error) {
	return s.DeleteRow(ctx, "idea_bank", id)
}

func scanIdea(row scanner) (domain.Idea, error) {
	var idea domain.Idea
	var pillarID sql.NullInt64
	var pillar, ctype, source, link, priority, status, created, updated sql.NullString
	if err := row.Scan(&idea.ID, &idea.Idea, &pillarID, &pillar, &ctype, &source,
		&link, &priority, &status, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return idea, err
		}
		return idea, fmt.Errorf("scan idea: %w", err)
	}
	idea.PillarID = intPtr(pillarID)
	idea.PillarName = stringPtr(pillar)
	idea.ContentType = stringPtr(ctype)
	idea.InspirationSource = stringPtr(source)
	idea.InspirationURL = stringPtr(link)
	idea.Priority = domain.Priority(priority.String)
	idea.Status = domain.IdeaStatus(status.String)
	idea.CreatedAt = parseTimestamp(created.String)
	idea.UpdatedAt = parseTimestamp(updated.String)
	return idea, nil
}

func calendarQuery() sq.SelectBuilder {
	return sq.Select("cc.id", "cc.scheduled_date", "cc.scheduled_time", "cc.platform", "cc.content_type",
		"cc.pillar_id", "cp.name", "cp.color_hex", "cc.script_id", "cc.caption", "cc.hashtags",
		"cc.media_path", "cc.status", "cc.meta_post_id", "cc.notes", "cc.created_at", "cc.updated_at").
		From("content_calendar cc").
		LeftJoin("content_pillars cp ON cc.pillar_id = cp.id")
}

// InsertCalendarEntry stores a calendar slot; an empty status defaults to
// planned.
func (s *Store) InsertCalendarEntry(ctx context.Context, e domain.CalendarEntry) (int64, error) {
	if e.Status == "" {
		e.Status = domain.CalendarPlanned
	}
	return s.InsertRow(ctx, "content_calendar", map[string]any{
		"scheduled_date": e.ScheduledDate,
		"scheduled_time": nullString(e.ScheduledTime),
		"platform":       string(e.Platform),
		"content_type":   string(e.ContentType),
		"pillar_id":      nullInt(e.PillarID),
		"script_id":      nullInt(e.ScriptID),
		"caption":        nullString(e.Caption),
		"hashtags":       nullString(e.Hashtags),
		"media_path":     nullString(e.MediaPath),
		"status":         string(e.Status),
		"notes":          nullString(e.Notes),
	})
}

// CalendarEntryByID returns a slot with its pillar name and color.
func (s *Store) CalendarEntryByID(ctx context.Context, id int64) (domain.CalendarEntry, error) {
	row, err := s.queryRow(ctx, calendarQuery().Where(sq.Eq{"cc.id": id}))
	if err != nil {
		return domain.CalendarEntry{}, err
	}
	e, err := scanCalendarEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CalendarEntry{}, domain.ErrNotFound
	}
	return e, err
}

// ListCalendar returns matching slots in schedule order.
func (s *Store) ListCalendar(ctx context.Context, f ports.CalendarFilter) ([]domain.CalendarEntry, error) {
	q := calendarQuery().OrderBy("cc.scheduled_date", "cc.scheduled_time", "cc.id")
	if f.Month != "" {
		q = q.Where(sq.Like{"cc.scheduled_date": f.Month + "-%"})
	}
	if f.Platform != "" {
		q = q.Where(sq.Eq{"cc.platform": string(f.Platform)})
	}
	if f.ContentType != "" {
		q = q.Where(sq.Eq{"cc.content_type": string(f.ContentType)})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"cc.status": string(f.Status)})
	}

	rows, err := s.queryRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	defer rows.Close()

	var out []domain.CalendarEntry
	for rows.Next() {
		e, err := scanCalendarEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateCalendarEntry applies the non-nil fields of patch.
func (s *Store) UpdateCalendarEntry(ctx context.Context, id int64, patch ports.CalendarPatch) (bool, error) {
	data := map[string]any{}
	setString(data, "scheduled_date", patch.ScheduledDate)
	setString(data, "scheduled_time", patch.ScheduledTime)
	setString(data, "platform", patch.Platform)
	setString(data, "content_type", patch.ContentType)
	setInt(data, "pillar_id", patch.PillarID)
	setInt(data, "script_id", patch.ScriptID)
	setString(data, "caption", patch.Caption)
	setString(data, "hashtags", patch.Hashtags)
	setString(data, "media_path", patch.MediaPath)
	setString(data, "status", patch.Status)
	setString(data, "notes", patch.Notes)
	return s.UpdateRow(ctx, "content_calendar", id, data)
}

// DeleteCalendarEntry removes a slot.
func (s *Store) DeleteCalendarEntry(ctx context.Context, id int64) (bool, error) {
	if _, err := s.exec(ctx, sq.Update("posts_performance").Set("calendar_id", nil).Where(sq.Eq{"calendar_id": id})); err != nil {
		return false, fmt.Errorf("detach calendar entry %d: %w", id, err)
	}
	return s.DeleteRow(ctx, "content_calendar", id)
}

// CalendarSummary counts a month's slots per network, format, pillar and
// status. Buckets are largest first.
func (s *Store) CalendarSummary(ctx context.Context, month string) (domain.CalendarSummary, error) {
	sum := domain.CalendarSummary{Month: month}
	inMonth := sq.Like{"cc.scheduled_date": month + "-%"}

	totals, err := s.Query(ctx, sq.Select(
		"COUNT(*) AS total_posts",
		"COUNT(CASE WHEN cc.platform IN ('instagram', 'both') THEN 1 END) AS instagram_posts",
		"COUNT(CASE WHEN cc.platform IN ('facebook', 'both') THEN 1 END) AS facebook_posts").
		From("content_calendar cc").
		Where(inMonth))
	if err != nil {
		return sum, fmt.Errorf("calendar totals: %w", err)
	}
	if len(totals) > 0 {
		sum.Totals = domain.CalendarTotals{
			TotalPosts:     rowInt(totals[0], "total_posts"),
			InstagramPosts: rowInt(totals[0], "instagram_posts"),
			FacebookPosts:  rowInt(totals[0], "facebook_posts"),
		}
	}

	group := func(column string) ([]domain.GroupCount, error) {
		rows, err := s.Query(ctx, sq.Select(column+" AS name", "COUNT(*) AS count").
			From("content_calendar cc").
			LeftJoin("content_pillars cp ON cc.pillar_id = cp.id").
			Where(inMonth).
			GroupBy(column).
			OrderBy("count DESC", "name"))
		if err != nil {
			return nil, fmt.Errorf("calendar by %s: %w", column, err)
		}
		out := make([]domain.GroupCount, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.GroupCount{Name: rowString(r, "name"), Count: rowInt(r, "count")})
		}
		return out, nil
	}

	if sum.ByContentType, err = group("cc.content_type"); err != nil {
		return sum, err
	}
	if sum.ByPillar, err = group("cp.name"); err != nil {
		return sum, err
	}
	if sum.ByStatus, err = group("cc.status"); err != nil {
		return sum, err
	}
	return sum, nil
}

func scanCalendarEntry(row scanner) (domain.CalendarEntry, error) {
	var e domain.CalendarEntry
	var platform, ctype, status string
	var pillarID, scriptID sql.NullInt64
	var stime, pillar, color, caption, hashtags, media, metaID, notes, created, updated sql.NullString
	if err := row.Scan(&e.ID, &e.ScheduledDate, &stime, &platform, &ctype,
		&pillarID, &pillar, &color, &scriptID, &caption, &hashtags,
		&media, &status, &metaID, &notes, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scan calendar entry: %w", err)
	}
	e.ScheduledTime = stringPtr(stime)
	e.Platform = domain.Platform(platform)
	e.ContentType = domain.PostFormat(ctype)
	e.PillarID = intPtr(pillarID)
	e.PillarName = stringPtr(pillar)
	e.PillarColor = stringPtr(color)
	e.ScriptID = intPtr(scriptID)
	e.Caption = stringPtr(caption)
	e.Hashtags = stringPtr(hashtags)
	e.MediaPath = stringPtr(media)
	e.Status = domain.CalendarStatus(status)
	e.MetaPostID = stringPtr(metaID)
	e.Notes = stringPtr(notes)
	e.CreatedAt = parseTimestamp(created.String)
	e.UpdatedAt = parseTimestamp(updated.String)
	return e, nil
}

var suggestionColumns = []string{"id", "title", "description", "submitted_by", "priority", "channel",
	"link_url", "created_at"}

// InsertSuggestion stores a suggestion; empty priority and channel default
// to medium and organic.
func (s *Store) InsertSuggestion(ctx context.Context, sg domain.Suggestion) (int64, error) {
	if sg.Priority == "" {
		sg.Priority = domain.PriorityMedium
	}
	if sg.Channel == "" {
		sg.Channel = domain.ChannelOrganic
	}
	return s.InsertRow(ctx, "content_suggestions", map[string]any{
		"title":        sg.Title,
		"description":  nullString(sg.Description),
		"submitted_by": sg.SubmittedBy,
		"priority":     string(sg.Priority),
		"channel":      string(sg.Channel),
		"link_url":     nullString(sg.LinkURL),
	})
}

// SuggestionByID returns a suggestion together with its images.
func (s *Store) SuggestionByID(ctx context.Context, id int64) (domain.Suggestion, error) {
	row, err := s.queryRow(ctx, sq.Select(suggestionColumns...).From("content_suggestions").Where(sq.Eq{"id": id}))
	if err != nil {
		return domain.Suggestion{}, err
	}
	sg, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Suggestion{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Suggestion{}, err
	}
	sg.Images, err = s.suggestionImages(ctx, id)
	return sg, err
}

// ListSuggestions returns matching suggestions, highest priority first.
func (s *Store) ListSuggestions(ctx context.Context, f ports.SuggestionFilter) ([]domain.Suggestion, error) {
	q := sq.Select(suggestionColumns...).From("content_suggestions").
		OrderBy(fmt.Sprintf(priorityOrder, "priority"), "created_at DESC", "id DESC")
	if f.Priority != "" {
		q = q.Where(sq.Eq{"priority": string(f.Priority)})
	}
	if f.SubmittedBy != "" {
		q = q.Where(sq.Like{"submitted_by": "%" + f.SubmittedBy + "%"})
	}

	rows, err := s.queryRows(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var out []domain.Suggestion
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

// DeleteSuggestion removes a suggestion and its image rows.
func (s *Store) DeleteSuggestion(ctx context.Context, id int64) (bool, []domain.SuggestionImage, error) {
	images, err := s.suggestionImages(ctx, id)
	if err != nil {
		return false, nil, err
	}
	if _, err := s.exec(ctx, sq.Delete("suggestion_images").Where(sq.Eq{"suggestion_id": id})); err != nil {
		return false, nil, fmt.Errorf("delete images of suggestion %d: %w", id, err)
	}
	ok, err := s.DeleteRow(ctx, "content_suggestions", id)
	if err != nil {
		return false, nil, err
	}
	return ok, images, nil
}

func (s *Store) suggestionImages(ctx context.Context, suggestionID int64) ([]domain.SuggestionImage, error) {
	rows, err := s.queryRows(ctx, sq.Select("id", "suggestion_id", "file_name", "file_path", "uploaded_at").
		From("suggestion_images").
		Where(sq.Eq{"suggestion_id": suggestionID}).
		OrderBy("id"))
	if err != nil {
		return nil, fmt.Errorf("query suggestion images: %w", err)
	}
	defer rows.Close()

	var out []domain.SuggestionImage
	for rows.Next() {
		var img domain.SuggestionImage
		var uploaded sql.NullString
		if err := rows.Scan(&img.ID, &img.SuggestionID, &img.FileName, &img.FilePath, &uploaded); err != nil {
			return nil, fmt.Errorf("scan suggestion image: %w", err)
		}
		img.UploadedAt = parseTimestamp(uploaded.String)
		out = append(out, img)
	}
	return out, rows.Err()
}

func scanSuggestion(row scanner) (domain.Suggestion, error) {
	var sg domain.Suggestion
	var priority, channel string
	var desc, link, created sql.NullString
	if err := row.Scan(&sg.ID, &sg.Title, &desc, &sg.SubmittedBy, &priority, &channel,
		&link, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sg, err
		}
		return sg, fmt.Errorf("scan suggestion: %w", err)
	}
	sg.Description = stringPtr(desc)
	sg.Priority = domain.Priority(priority)
	sg.Channel = domain.Channel(channel)
	sg.LinkURL = stringPtr(link)
	sg.CreatedAt = parseTimestamp(created.String)
	return sg, nil
}

func (s *Store) queryRows(ctx context.Context, q sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.db.QueryContext(ctx, query, args...)
}

const sqliteTimestamp = "2006-01-02 15:04:05"
