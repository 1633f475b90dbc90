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

var _ ports.AdsRepository = (*Store)(nil)

var campaignColumns = []string{"id", "meta_campaign_id", "name", "objective", "status",
	"daily_budget", "lifetime_budget", "start_date", "end_date", "notes"}

// CampaignByMetaID looks a campaign up by its external id.
func (s *Store) CampaignByMetaID(ctx context.Context, metaID string) (domain.AdCampaign, error) {
	row, err := s.queryRow(ctx, sq.Select(campaignColumns...).From("ad_campaigns").Where(sq.Eq{"meta_campaign_id": metaID}))
	if err != nil {
		return domain.AdCampaign{}, err
	}
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AdCampaign{}, domain.ErrNotFound
	}
	return c, err
}

// InsertCampaign stores a new campaign.
func (s *Store) InsertCampaign(ctx context.Context, c domain.AdCampaign) (int64, error) {
	return s.InsertRow(ctx, "ad_campaigns", map[string]any{
		"meta_campaign_id": nullString(c.MetaCampaignID),
		"name":             c.Name,
		"objective":        nullString(c.Objective),
		"status":           string(c.Status),
		"daily_budget":     nullFloat(c.DailyBudget),
		"lifetime_budget":  nullFloat(c.LifetimeBudget),
		"start_date":       nullString(c.StartDate),
		"end_date":         nullString(c.EndDate),
		"notes":            nullString(c.Notes),
	})
}

// UpdateCampaignByMetaID overwrites the synced fields of a campaign. Notes
// are local and never touched.
func (s *Store) UpdateCampaignByMetaID(ctx context.Context, c domain.AdCampaign) error {
	if c.MetaCampaignID == nil {
		return fmt.Errorf("update campaign: missing external id")
	}
	_, err := s.exec(ctx, sq.Update("ad_campaigns").
		Set("name", c.Name).
		Set("objective", nullString(c.Objective)).
		Set("status", string(c.Status)).
		Set("daily_budget", nullFloat(c.DailyBudget)).
		Set("lifetime_budget", nullFloat(c.LifetimeBudget)).
		Set("start_date", nullString(c.StartDate)).
		Set("end_date", nullString(c.EndDate)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"meta_campaign_id": *c.MetaCampaignID}))
	if err != nil {
		return fmt.Errorf("update campaign %s: %w", *c.MetaCampaignID, err)
	}
	return nil
}

// ListSyncedCampaigns returns campaigns that carry an external id.
func (s *Store) ListSyncedCampaigns(ctx context.Context) ([]domain.AdCampaign, error) {
	return s.listCampaigns(ctx, sq.NotEq{"meta_campaign_id": nil})
}

// ListCampaigns returns every campaign.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.AdCampaign, error) {
	return s.listCampaigns(ctx, nil)
}

func (s *Store) listCampaigns(ctx context.Context, where sq.Sqlizer) ([]domain.AdCampaign, error) {
	q := sq.Select(campaignColumns...).From("ad_campaigns").OrderBy("id")
	if where != nil {
		q = q.Where(where)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build campaigns query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.AdCampaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AdSetByMetaID looks an ad set up by its external id.
func (s *Store) AdSetByMetaID(ctx context.Context, metaID string) (domain.AdSet, error) {
	row, err := s.queryRow(ctx, sq.Select("id", "campaign_id", "meta_adset_id", "name", "status", "targeting_summary").
		From("ad_sets").Where(sq.Eq{"meta_adset_id": metaID}))
	if err != nil {
		return domain.AdSet{}, err
	}

	var set domain.AdSet
	var meta, targeting sql.NullString
	var status string
	if err := row.Scan(&set.ID, &set.CampaignID, &meta, &set.Name, &status, &targeting); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AdSet{}, domain.ErrNotFound
		}
		return domain.AdSet{}, fmt.Errorf("scan ad set: %w", err)
	}
	set.MetaAdSetID = stringPtr(meta)
	set.Status = domain.AdStatus(status)
	set.TargetingSummary = stringPtr(targeting)
	return set, nil
}

// InsertAdSet stores a new ad set.
func (s *Store) InsertAdSet(ctx context.Context, set domain.AdSet) (int64, error) {
	return s.InsertRow(ctx, "ad_sets", map[string]any{
		"campaign_id":       set.CampaignID,
		"meta_adset_id":     nullString(set.MetaAdSetID),
		"name":              set.Name,
		"status":            string(set.Status),
		"targeting_summary": nullString(set.TargetingSummary),
	})
}

// UpdateAdSetByMetaID overwrites the synced fields of an ad set.
func (s *Store) UpdateAdSetByMetaID(ctx context.Context, set domain.AdSet) error {
	if set.MetaAdSetID == nil {
		return fmt.Errorf("update ad set: missing external id")
	}
	_, err := s.exec(ctx, sq.Update("ad_sets").
		Set("name", set.Name).
		Set("status", string(set.Status)).
		Set("targeting_summary", nullString(set.TargetingSummary)).
		Where(sq.Eq{"meta_adset_id": *set.MetaAdSetID}))
	if err != nil {
		return fmt.Errorf("update ad set %s: %w", *set.MetaAdSetID, err)
	}
	return nil
}

// AdByMetaID looks an ad up by its external id.
func (s *Store) AdByMetaID(ctx context.Context, metaID string) (domain.Ad, error) {
	row, err := s.queryRow(ctx, sq.Select("id", "ad_set_id", "meta_ad_id", "name", "status", "creative_summary").
		From("ads").Where(sq.Eq{"meta_ad_id": metaID}))
	if err != nil {
		return domain.Ad{}, err
	}

	var ad domain.Ad
	var meta, creative sql.NullString
	var status string
	if err := row.Scan(&ad.ID, &ad.AdSetID, &meta, &ad.Name, &status, &creative); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ad{}, domain.ErrNotFound
		}
		return domain.Ad{}, fmt.Errorf("scan ad: %w", err)
	}
	ad.MetaAdID = stringPtr(meta)
	ad.Status = domain.AdStatus(status)
	ad.CreativeSummary = stringPtr(creative)
	return ad, nil
}

// InsertAd stores a new ad.
func (s *Store) InsertAd(ctx context.Context, ad domain.Ad) (int64, error) {
	return s.InsertRow(ctx, "ads", map[string]any{
		"ad_set_id":        ad.AdSetID,
		"meta_ad_id":       nullString(ad.MetaAdID),
		"name":             ad.Name,
		"status":           string(ad.Status),
		"creative_summary": nullString(ad.CreativeSummary),
	})
}

// UpdateAdByMetaID overwrites the synced fields of an ad.
func (s *Store) UpdateAdByMetaID(ctx context.Context, ad domain.Ad) error {
	if ad.MetaAdID == nil {
		return fmt.Errorf("update ad: missing external id")
	}
	_, err := s.exec(ctx, sq.Update("ads").
		Set("name", ad.Name).
		Set("status", string(ad.Status)).
		Set("creative_summary", nullString(ad.CreativeSummary)).
		Where(sq.Eq{"meta_ad_id": *ad.MetaAdID}))
	if err != nil {
		return fmt.Errorf("update ad %s: %w", *ad.MetaAdID, err)
	}
	return nil
}

// ReplaceCampaignMetric deletes the campaign-level row for (campaign, date)
// and inserts m. Rows with an ad set or ad breakdown are left untouched.
func (s *Store) ReplaceCampaignMetric(ctx context.Context, m domain.AdMetric) error {
	_, err := s.exec(ctx, sq.Delete("ad_metrics").Where(sq.Eq{
		"campaign_id": m.CampaignID,
		"metric_date": m.MetricDate,
		"ad_set_id":   nil,
		"ad_id":       nil,
	}))
	if err != nil {
		return fmt.Errorf("clear metric %d/%s: %w", m.CampaignID, m.MetricDate, err)
	}

	_, err = s.InsertRow(ctx, "ad_metrics", map[string]any{
		"campaign_id": m.CampaignID,
		"metric_date": m.MetricDate,
		"spend":       m.Spend,
		"impressions": m.Impressions,
		"clicks":      m.Clicks,
		"conversions": m.Conversions,
		"ctr":         m.CTR,
		"cpc":         m.CPC,
		"cpm":         m.CPM,
	})
	return err
}

// ListMetrics returns the metric rows of a campaign ordered by date.
func (s *Store) ListMetrics(ctx context.Context, campaignID int64) ([]domain.AdMetric, error) {
	query, args, err := sq.Select("id", "campaign_id", "ad_set_id", "ad_id", "metric_date", "spend", "impressions",
		"clicks", "conversions", "ctr", "cpc", "cpm", "roas").
		From("ad_metrics").
		Where(sq.Eq{"campaign_id": campaignID}).
		OrderBy("metric_date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build metrics query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var out []domain.AdMetric
	for rows.Next() {
		var m domain.AdMetric
		var adSet, ad sql.NullInt64
		if err := rows.Scan(&m.ID, &m.CampaignID, &adSet, &ad, &m.MetricDate, &m.Spend, &m.Impressions,
			&m.Clicks, &m.Conversions, &m.CTR, &m.CPC, &m.CPM, &m.ROAS); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		m.AdSetID = intPtr(adSet)
		m.AdID = intPtr(ad)
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanCampaign(row scanner) (domain.AdCampaign, error) {
	var c domain.AdCampaign
	var meta, objective, status, start, end, notes sql.NullString
	var daily, lifetime sql.NullFloat64
	if err := row.Scan(&c.ID, &meta, &c.Name, &objective, &status, &daily, &lifetime, &start, &end, &notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan campaign: %w", err)
	}
	c.MetaCampaignID = stringPtr(meta)
	c.Objective = stringPtr(objective)
	c.Status = domain.AdStatus(status.String)
	c.DailyBudget = floatPtr(daily)
	c.LifetimeBudget = floatPtr(lifetime)
	c.StartDate = stringPtr(start)
	c.EndDate = stringPtr(end)
	c.Notes = stringPtr(notes)
	return c, nil
}
