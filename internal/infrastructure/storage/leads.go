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

var _ ports.LeadRepository = (*Store)(nil)

var leadColumns = []string{"id", "name", "email", "phone", "source", "campaign_name", "ad_name",
	"form_name", "stage", "notes", "created_at"}

// FindImportedLead applies the import dedup order: email and form, else
// phone and form, else name and form among imported leads.
func (s *Store) FindImportedLead(ctx context.Context, name, email, phone, formName string) (bool, error) {
	var where sq.Eq
	switch {
	case email != "":
		where = sq.Eq{"email": email, "form_name": formName}
	case phone != "":
		where = sq.Eq{"phone": phone, "form_name": formName}
	default:
		where = sq.Eq{"name": name, "form_name": formName, "source": domain.LeadSourceMetaAds}
	}

	row, err := s.queryRow(ctx, sq.Select("id").From("leads").Where(where).Limit(1))
	if err != nil {
		return false, err
	}
	var id int64
	switch err := row.Scan(&id); {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("find lead: %w", err)
	}
	return true, nil
}

// InsertLead stores a lead; an empty stage defaults to new.
func (s *Store) InsertLead(ctx context.Context, lead domain.Lead) (int64, error) {
	if lead.Stage == "" {
		lead.Stage = domain.StageNew
	}
	if lead.Source == "" {
		lead.Source = domain.LeadSourceMetaAds
	}
	return s.InsertRow(ctx, "leads", map[string]any{
		"name":          lead.Name,
		"email":         nullString(lead.Email),
		"phone":         nullString(lead.Phone),
		"source":        lead.Source,
		"campaign_name": nullString(lead.CampaignName),
		"ad_name":       nullString(lead.AdName),
		"form_name":     nullString(lead.FormName),
		"stage":         string(lead.Stage),
		"notes":         nullString(lead.Notes),
	})
}

// LeadByID returns domain.ErrNotFound for unknown ids.
func (s *Store) LeadByID(ctx context.Context, id int64) (domain.Lead, error) {
	row, err := s.queryRow(ctx, sq.Select(leadColumns...).From("leads").Where(sq.Eq{"id": id}))
	if err != nil {
		return domain.Lead{}, err
	}
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lead{}, domain.ErrNotFound
	}
	return lead, err
}

// ListLeads returns leads newest first.
func (s *Store) ListLeads(ctx context.Context, filter ports.LeadFilter) ([]domain.Lead, error) {
	q := sq.Select(leadColumns...).From("leads").OrderBy("created_at DESC", "id DESC")
	if filter.Stage != "" {
		q = q.Where(sq.Eq{"stage": string(filter.Stage)})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leads query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

// SetLeadStage moves a lead to another pipeline stage.
func (s *Store) SetLeadStage(ctx context.Context, id int64, stage domain.LeadStage) error {
	ok, err := s.UpdateRow(ctx, "leads", id, map[string]any{"stage": string(stage)})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLead removes a lead and its activity trail.
func (s *Store) DeleteLead(ctx context.Context, id int64) (bool, error) {
	if _, err := s.exec(ctx, sq.Delete("lead_activity").Where(sq.Eq{"lead_id": id})); err != nil {
		return false, fmt.Errorf("delete activity of lead %d: %w", id, err)
	}
	return s.DeleteRow(ctx, "leads", id)
}

// AppendActivity adds an audit entry for a lead.
func (s *Store) AppendActivity(ctx context.Context, leadID int64, action, details string) error {
	var d any
	if details != "" {
		d = details
	}
	_, err := s.InsertRow(ctx, "lead_activity", map[string]any{
		"lead_id":    leadID,
		"action":     action,
		"details":    d,
		"created_at": s.now().UTC().Format(time.RFC3339),
	})
	return err
}

// ListActivity returns a lead's audit trail, oldest first.
func (s *Store) ListActivity(ctx context.Context, leadID int64) ([]domain.LeadActivity, error) {
	query, args, err := sq.Select("id", "lead_id", "action", "details", "created_at").
		From("lead_activity").
		Where(sq.Eq{"lead_id": leadID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build activity query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []domain.LeadActivity
	for rows.Next() {
		var a domain.LeadActivity
		var details, created sql.NullString
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Action, &details, &created); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Details = stringPtr(details)
		a.CreatedAt = parseTimestamp(created.String)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanLead(row scanner) (domain.Lead, error) {
	var lead domain.Lead
	var email, phone, source, campaign, ad, form, notes, created sql.NullString
	var stage string
	if err := row.Scan(&lead.ID, &lead.Name, &email, &phone, &source, &campaign, &ad, &form, &stage, &notes, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lead, err
		}
		return lead, fmt.Errorf("scan lead: %w", err)
	}
	lead.Email = stringPtr(email)
	lead.Phone = stringPtr(phone)
	lead.Source = source.String
	lead.CampaignName = stringPtr(campaign)
	lead.AdName = stringPtr(ad)
	lead.FormName = stringPtr(form)
	lead.Stage = domain.LeadStage(stage)
	lead.Notes = stringPtr(notes)
	lead.CreatedAt = parseTimestamp(created.String)
	return lead, nil
}

// parseTimestamp accepts both RFC 3339 and SQLite's CURRENT_TIMESTAMP format.
func parseTimestamp(v string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
