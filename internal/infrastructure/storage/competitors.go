package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

var _ ports.CompetitorRepository = (*Store)(nil)

var competitorColumns = []string{"id", "name", "handle", "platform", "profile_url", "notes"}

// ListCompetitors returns competitors ordered by name.
func (s *Store) ListCompetitors(ctx context.Context) ([]domain.Competitor, error) {
	return s.listCompetitors(ctx, "name")
}

// ListCompetitorsByID returns competitors in insertion order.
func (s *Store) ListCompetitorsByID(ctx context.Context) ([]domain.Competitor, error) {
	return s.listCompetitors(ctx, "id")
}

func (s *Store) listCompetitors(ctx context.Context, order string) ([]domain.Competitor, error) {
	query, args, err := sq.Select(competitorColumns...).From("competitors").OrderBy(order).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build competitors query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query competitors: %w", err)
	}
	defer rows.Close()

	var out []domain.Competitor
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// CompetitorByHandle returns domain.ErrNotFound for untracked handles.
func (s *Store) CompetitorByHandle(ctx context.Context, handle string) (domain.Competitor, error) {
	row, err := s.queryRow(ctx, sq.Select(competitorColumns...).From("competitors").Where(sq.Eq{"handle": handle}))
	if err != nil {
		return domain.Competitor{}, err
	}
	c, err := scanCompetitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Competitor{}, domain.ErrNotFound
	}
	return c, err
}

// AddCompetitor inserts a competitor and returns the stored record.
func (s *Store) AddCompetitor(ctx context.Context, c domain.Competitor) (domain.Competitor, error) {
	if c.Platform == "" {
		c.Platform = domain.PlatformInstagram
	}
	id, err := s.InsertRow(ctx, "competitors", map[string]any{
		"name":        c.Name,
		"handle":      c.Handle,
		"platform":    string(c.Platform),
		"profile_url": nullString(c.ProfileURL),
		"notes":       nullString(c.Notes),
	})
	if err != nil {
		return domain.Competitor{}, err
	}
	c.ID = id
	return c, nil
}

// RemoveCompetitor deletes a competitor together with its snapshots and posts.
func (s *Store) RemoveCompetitor(ctx context.Context, id int64) (bool, error) {
	return s.DeleteRow(ctx, "competitors", id)
}

// UpsertSnapshot updates the snapshot for (competitor, date) when one exists
// and inserts it otherwise. On update, nil counters keep their stored value.
func (s *Store) UpsertSnapshot(ctx context.Context, snap domain.CompetitorSnapshot) (bool, error) {
	row, err := s.queryRow(ctx, sq.Select("id").From("competitor_snapshots").Where(sq.Eq{
		"competitor_id": snap.CompetitorID,
		"snapshot_date": snap.SnapshotDate,
	}))
	if err != nil {
		return false, err
	}

	var id int64
	switch err := row.Scan(&id); {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.InsertSnapshot(ctx, snap); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("find snapshot: %w", err)
	}

	data := map[string]any{}
	setInt(data, "followers", snap.Followers)
	setInt(data, "following", snap.Following)
	setInt(data, "total_posts", snap.TotalPosts)
	setString(data, "bio", snap.Bio)
	_, err = s.UpdateRow(ctx, "competitor_snapshots", id, data)
	return false, err
}

// InsertSnapshot inserts a snapshot; a second one for the same day fails on
// the unique constraint.
func (s *Store) InsertSnapshot(ctx context.Context, snap domain.CompetitorSnapshot) (int64, error) {
	return s.InsertRow(ctx, "competitor_snapshots", map[string]any{
		"competitor_id": snap.CompetitorID,
		"snapshot_date": snap.SnapshotDate,
		"followers":     nullInt(snap.Followers),
		"following":     nullInt(snap.Following),
		"total_posts":   nullInt(snap.TotalPosts),
		"bio":           nullString(snap.Bio),
	})
}

// ListSnapshots returns a competitor's snapshots, oldest first.
func (s *Store) ListSnapshots(ctx context.Context, competitorID int64) ([]domain.CompetitorSnapshot, error) {
	query, args, err := sq.Select("id", "competitor_id", "snapshot_date", "followers", "following", "total_posts", "bio").
		From("competitor_snapshots").
		Where(sq.Eq{"competitor_id": competitorID}).
		OrderBy("snapshot_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshots query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.CompetitorSnapshot
	for rows.Next() {
		var snap domain.CompetitorSnapshot
		var followers, following, numPosts sql.NullInt64
		var bio sql.NullString
		if err := rows.Scan(&snap.ID, &snap.CompetitorID, &snap.SnapshotDate, &followers, &following, &numPosts, &bio); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Followers = intPtr(followers)
		snap.Following = intPtr(following)
		snap.TotalPosts = intPtr(numPosts)
		snap.Bio = stringPtr(bio)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// PostExists reports whether the competitor already has a post with this URL.
func (s *Store) PostExists(ctx context.Context, competitorID int64, postURL string) (bool, error) {
	row, err := s.queryRow(ctx, sq.Select("1").From("competitor_posts").Where(sq.Eq{
		"competitor_id": competitorID,
		"post_url":      postURL,
	}).Limit(1))
	if err != nil {
		return false, err
	}
	var one int
	switch err := row.Scan(&one); {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("find post: %w", err)
	}
	return true, nil
}

// InsertPost stores an observed post.
func (s *Store) InsertPost(ctx context.Context, p domain.CompetitorPost) (int64, error) {
	return s.InsertRow(ctx, "competitor_posts", map[string]any{
		"competitor_id":             p.CompetitorID,
		"post_url":                  nullString(p.PostURL),
		"posted_at":                 nullString(p.PostedAt),
		"content_type":              string(p.ContentType),
		"caption_snippet":           nullString(p.CaptionSnippet),
		"likes":                     p.Likes,
		"comments":                  p.Comments,
		"estimated_engagement_rate": nullFloat(p.EstimatedEngagementRate),
		"content_theme":             nullString(p.ContentTheme),
		"notes":                     nullString(p.Notes),
		"is_notable":                boolInt(p.IsNotable),
	})
}

// ListPosts returns every post in insertion order.
func (s *Store) ListPosts(ctx context.Context) ([]domain.CompetitorPost, error) {
	query, args, err := sq.Select("id", "competitor_id", "post_url", "posted_at", "content_type", "caption_snippet",
		"likes", "comments", "estimated_engagement_rate", "content_theme", "notes", "is_notable").
		From("competitor_posts").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build posts query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var out []domain.CompetitorPost
	for rows.Next() {
		var p domain.CompetitorPost
		var postURL, postedAt, ctype, caption, theme, notes sql.NullString
		var likes, comments, notable sql.NullInt64
		var rate sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.CompetitorID, &postURL, &postedAt, &ctype, &caption,
			&likes, &comments, &rate, &theme, &notes, &notable); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.PostURL = stringPtr(postURL)
		p.PostedAt = stringPtr(postedAt)
		p.ContentType = domain.ContentType(ctype.String)
		p.CaptionSnippet = stringPtr(caption)
		p.Likes = likes.Int64
		p.Comments = comments.Int64
		p.EstimatedEngagementRate = floatPtr(rate)
		p.ContentTheme = stringPtr(theme)
		p.Notes = stringPtr(notes)
		p.IsNotable = notable.Int64 != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountPosts counts posts published on or after since; an empty since
// counts everything.
func (s *Store) CountPosts(ctx context.Context, since string) (int64, error) {
	q := sq.Select("COUNT(*)").From("competitor_posts")
	if since != "" {
		q = q.Where(sq.GtOrEq{"posted_at": since})
	}
	row, err := s.queryRow(ctx, q)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompetitor(row scanner) (domain.Competitor, error) {
	var c domain.Competitor
	var platform string
	var profileURL, notes sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Handle, &platform, &profileURL, &notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan competitor: %w", err)
	}
	c.Platform = domain.Platform(platform)
	c.ProfileURL = stringPtr(profileURL)
	c.Notes = stringPtr(notes)
	return c, nil
}
