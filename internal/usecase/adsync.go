package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"Wavecrest/internal/config"
	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

// conversionActions are the insight action types counted as conversions.
var conversionActions = map[string]bool{
	"lead":                             true,
	"offsite_conversion.fb_pixel_lead": true,
	"onsite_conversion.lead_grouped":   true,
}

const (
	targetingLimit = 500
	creativeLimit  = 200
)

// AdsSyncDeps wires the ads sync use case.
type AdsSyncDeps struct {
	Config   config.MetaConfig
	Platform ports.AdsPlatform
	Ads      ports.AdsRepository
	Leads    ports.LeadRepository
	Recorder ports.SyncRecorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// AdsSync reconciles the remote campaign tree, daily insights and lead form
// submissions into the local store.
type AdsSync struct {
	cfg      config.MetaConfig
	platform ports.AdsPlatform
	ads      ports.AdsRepository
	leads    ports.LeadRepository
	recorder ports.SyncRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAdsSync constructs the use case.
func NewAdsSync(deps AdsSyncDeps) *AdsSync {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AdsSync{
		cfg:      deps.Config,
		platform: deps.Platform,
		ads:      deps.Ads,
		leads:    deps.Leads,
		recorder: deps.Recorder,
		logger:   logger.With("component", "ads_sync"),
		now:      now,
	}
}

// IsConfigured reports whether campaign and metric sync have credentials.
func (s *AdsSync) IsConfigured() bool {
	return s.platform != nil && s.cfg.Configured()
}

// IsLeadsConfigured reports whether lead sync has credentials.
func (s *AdsSync) IsLeadsConfigured() bool {
	return s.platform != nil && s.cfg.LeadsConfigured()
}

// SyncCampaigns pulls every campaign of the ad account and upserts it by
// external id, descending into its ad sets and ads. Count is the number of
// campaigns written. A failure below one campaign is recorded and does not
// stop the others.
func (s *AdsSync) SyncCampaigns(ctx context.Context) (domain.SyncReport, error) {
	if !s.IsConfigured() {
		return s.skipUnconfigured(domain.KindCampaign), nil
	}
	var report domain.SyncReport
	s.observeRun("campaigns")

	remote, err := s.platform.Campaigns(ctx, s.cfg.AdAccountID)
	if err != nil {
		return report, fmt.Errorf("list campaigns: %w", err)
	}

	for _, rc := range remote {
		localID, outcome := s.upsertCampaign(ctx, rc)
		s.record(&report, outcome)
		if outcome.Result == domain.ResultFailed {
			continue
		}
		report.Count++

		if err := s.syncAdSets(ctx, &report, rc.ID, localID); err != nil {
			s.record(&report, domain.Outcome{
				Kind:       domain.KindAdSet,
				ExternalID: rc.ID,
				Result:     domain.ResultFailed,
				Reason:     err.Error(),
			})
		}
	}

	s.logger.Info("campaign sync finished", "campaigns", report.Count, "failed", len(report.Failed()))
	return report, nil
}

func (s *AdsSync) upsertCampaign(ctx context.Context, rc domain.RemoteCampaign) (int64, domain.Outcome) {
	outcome := domain.Outcome{Kind: domain.KindCampaign, ExternalID: rc.ID}
	status, known := domain.MapRemoteStatus(rc.Status)
	if !known && rc.Status != "" {
		outcome.UnknownStatus = rc.Status
	}

	daily, err := parseCents(rc.DailyBudget)
	if err != nil {
		return 0, failed(outcome, fmt.Errorf("daily budget: %w", err))
	}
	lifetime, err := parseCents(rc.LifetimeBudget)
	if err != nil {
		return 0, failed(outcome, fmt.Errorf("lifetime budget: %w", err))
	}

	campaign := domain.AdCampaign{
		MetaCampaignID: &rc.ID,
		Name:           rc.Name,
		Objective:      optional(rc.Objective),
		Status:         status,
		DailyBudget:    daily,
		LifetimeBudget: lifetime,
		StartDate:      optional(datePart(rc.StartTime)),
		EndDate:        optional(datePart(rc.StopTime)),
	}

	existing, err := s.ads.CampaignByMetaID(ctx, rc.ID)
	switch {
	case err == nil:
		if err := s.ads.UpdateCampaignByMetaID(ctx, campaign); err != nil {
			return 0, failed(outcome, err)
		}
		outcome.Result = domain.ResultUpdated
		return existing.ID, outcome
	case errors.Is(err, domain.ErrNotFound):
		id, err := s.ads.InsertCampaign(ctx, campaign)
		if err != nil {
			return 0, failed(outcome, err)
		}
		outcome.Result = domain.ResultInserted
		return id, outcome
	default:
		return 0, failed(outcome, err)
	}
}

func (s *AdsSync) syncAdSets(ctx context.Context, report *domain.SyncReport, campaignMetaID string, campaignID int64) error {
	sets, err := s.platform.AdSets(ctx, campaignMetaID)
	if err != nil {
		return fmt.Errorf("list ad sets: %w", err)
	}

	for _, rs := range sets {
		outcome := domain.Outcome{Kind: domain.KindAdSet, ExternalID: rs.ID}
		status, known := domain.MapRemoteStatus(rs.Status)
		if !known && rs.Status != "" {
			outcome.UnknownStatus = rs.Status
		}

		set := domain.AdSet{
			CampaignID:       campaignID,
			MetaAdSetID:      &rs.ID,
			Name:             rs.Name,
			Status:           status,
			TargetingSummary: optional(truncate(rs.Targeting, targetingLimit)),
		}

		var setID int64
		existing, err := s.ads.AdSetByMetaID(ctx, rs.ID)
		switch {
		case err == nil:
			err = s.ads.UpdateAdSetByMetaID(ctx, set)
			setID = existing.ID
			outcome.Result = domain.ResultUpdated
		case errors.Is(err, domain.ErrNotFound):
			setID, err = s.ads.InsertAdSet(ctx, set)
			outcome.Result = domain.ResultInserted
		}
		if err != nil {
			s.record(report, failed(outcome, err))
			continue
		}
		s.record(report, outcome)

		if err := s.syncAds(ctx, report, rs.ID, setID); err != nil {
			s.record(report, domain.Outcome{
				Kind:       domain.KindAd,
				ExternalID: rs.ID,
				Result:     domain.ResultFailed,
				Reason:     err.Error(),
			})
		}
	}
	return nil
}

func (s *AdsSync) syncAds(ctx context.Context, report *domain.SyncReport, adSetMetaID string, adSetID int64) error {
	ads, err := s.platform.Ads(ctx, adSetMetaID)
	if err != nil {
		return fmt.Errorf("list ads: %w", err)
	}

	for _, ra := range ads {
		outcome := domain.Outcome{Kind: domain.KindAd, ExternalID: ra.ID}
		status, known := domain.MapRemoteStatus(ra.Status)
		if !known && ra.Status != "" {
			outcome.UnknownStatus = ra.Status
		}

		creative := ra.CreativeTitle
		if creative == "" {
			creative = ra.CreativeBody
		}
		ad := domain.Ad{
			AdSetID:         adSetID,
			MetaAdID:        &ra.ID,
			Name:            ra.Name,
			Status:          status,
			CreativeSummary: optional(truncate(creative, creativeLimit)),
		}

		_, err := s.ads.AdByMetaID(ctx, ra.ID)
		switch {
		case err == nil:
			err = s.ads.UpdateAdByMetaID(ctx, ad)
			outcome.Result = domain.ResultUpdated
		case errors.Is(err, domain.ErrNotFound):
			_, err = s.ads.InsertAd(ctx, ad)
			outcome.Result = domain.ResultInserted
		}
		if err != nil {
			outcome = failed(outcome, err)
		}
		s.record(report, outcome)
	}
	return nil
}

// SyncMetrics replaces the campaign-level daily metric rows of the last days
// days for every campaign that carries an external id. Count is the number
// of metric rows written. A remote error for one campaign skips it.
func (s *AdsSync) SyncMetrics(ctx context.Context, days int) (domain.SyncReport, error) {
	if !s.IsConfigured() {
		return s.skipUnconfigured(domain.KindMetric), nil
	}
	var report domain.SyncReport
	s.observeRun("metrics")

	campaigns, err := s.ads.ListSyncedCampaigns(ctx)
	if err != nil {
		return report, fmt.Errorf("list synced campaigns: %w", err)
	}

	until := s.now()
	since := until.AddDate(0, 0, -days)

	for _, c := range campaigns {
		if c.MetaCampaignID == nil || *c.MetaCampaignID == "" {
			continue
		}
		metaID := *c.MetaCampaignID

		insights, err := s.platform.Insights(ctx, metaID, since, until)
		if err != nil {
			s.logger.Warn("insights request failed", "campaign", metaID, "error", err)
			s.record(&report, domain.Outcome{
				Kind:       domain.KindMetric,
				ExternalID: metaID,
				Result:     domain.ResultFailed,
				Reason:     err.Error(),
			})
			continue
		}

		for _, day := range insights {
			date := datePart(day.DateStart)
			outcome := domain.Outcome{Kind: domain.KindMetric, ExternalID: metaID + "/" + date}
			if date == "" {
				outcome.Result = domain.ResultSkipped
				outcome.Reason = "missing date"
				s.record(&report, outcome)
				continue
			}

			metric, err := metricFromInsight(c.ID, date, day)
			if err == nil {
				err = s.ads.ReplaceCampaignMetric(ctx, metric)
			}
			if err != nil {
				s.record(&report, failed(outcome, err))
				continue
			}
			outcome.Result = domain.ResultInserted
			s.record(&report, outcome)
			report.Count++
		}
	}

	s.logger.Info("metric sync finished", "rows", report.Count, "days", days)
	return report, nil
}

func metricFromInsight(campaignID int64, date string, day domain.RemoteInsight) (domain.AdMetric, error) {
	m := domain.AdMetric{CampaignID: campaignID, MetricDate: date}
	var err error
	if m.Spend, err = parseFloat(day.Spend); err != nil {
		return m, fmt.Errorf("spend: %w", err)
	}
	if m.Impressions, err = parseCount(day.Impressions); err != nil {
		return m, fmt.Errorf("impressions: %w", err)
	}
	if m.Clicks, err = parseCount(day.Clicks); err != nil {
		return m, fmt.Errorf("clicks: %w", err)
	}
	if m.CTR, err = parseFloat(day.CTR); err != nil {
		return m, fmt.Errorf("ctr: %w", err)
	}
	if m.CPC, err = parseFloat(day.CPC); err != nil {
		return m, fmt.Errorf("cpc: %w", err)
	}
	if m.CPM, err = parseFloat(day.CPM); err != nil {
		return m, fmt.Errorf("cpm: %w", err)
	}
	for _, a := range day.Actions {
		if !conversionActions[a.ActionType] {
			continue
		}
		n, err := parseCount(a.Value)
		if err != nil {
			return m, fmt.Errorf("action %s: %w", a.ActionType, err)
		}
		m.Conversions += n
	}
	return m, nil
}

// SyncLeads imports new submissions of every lead form of the page. Count is
// the number of leads inserted. A failure to list forms yields an empty
// report; a failure on one form skips that form.
func (s *AdsSync) SyncLeads(ctx context.Context) (domain.SyncReport, error) {
	if !s.IsLeadsConfigured() {
		return s.skipUnconfigured(domain.KindLead), nil
	}
	var report domain.SyncReport
	s.observeRun("leads")

	forms, err := s.platform.LeadForms(ctx, s.cfg.PageID)
	if err != nil {
		s.logger.Warn("lead form listing failed", "page", s.cfg.PageID, "error", err)
		s.record(&report, domain.Outcome{
			Kind:       domain.KindLeadForm,
			ExternalID: s.cfg.PageID,
			Result:     domain.ResultFailed,
			Reason:     err.Error(),
		})
		return report, nil
	}

	for _, form := range forms {
		submissions, err := s.platform.Leads(ctx, form.ID)
		if err != nil {
			s.logger.Warn("lead listing failed", "form", form.ID, "error", err)
			s.record(&report, domain.Outcome{
				Kind:       domain.KindLeadForm,
				ExternalID: form.ID,
				Result:     domain.ResultFailed,
				Reason:     err.Error(),
			})
			continue
		}

		for _, sub := range submissions {
			outcome := s.importLead(ctx, form.Name, sub)
			s.record(&report, outcome)
			if outcome.Result == domain.ResultInserted {
				report.Count++
			}
		}
	}

	s.logger.Info("lead sync finished", "imported", report.Count)
	return report, nil
}

func (s *AdsSync) importLead(ctx context.Context, formName string, sub domain.RemoteLead) domain.Outcome {
	outcome := domain.Outcome{Kind: domain.KindLead, ExternalID: sub.ID}

	fields := make(map[string]string, len(sub.FieldData))
	for _, f := range sub.FieldData {
		value := ""
		if len(f.Values) > 0 {
			value = f.Values[0]
		}
		fields[strings.ToLower(f.Name)] = value
	}

	name := fields["full_name"]
	if name == "" {
		name = fields["first_name"] + " " + fields["last_name"]
	}
	name = strings.TrimSpace(name)
	email := fields["email"]
	phone := fields["phone_number"]
	if phone == "" {
		phone = fields["phone"]
	}
	if name == "" {
		name = email
	}
	if name == "" {
		name = "Lead #" + sub.ID
	}

	exists, err := s.leads.FindImportedLead(ctx, name, email, phone, formName)
	if err != nil {
		return failed(outcome, err)
	}
	if exists {
		outcome.Result = domain.ResultSkipped
		outcome.Reason = "already imported"
		return outcome
	}

	id, err := s.leads.InsertLead(ctx, domain.Lead{
		Name:         name,
		Email:        optional(email),
		Phone:        optional(phone),
		Source:       domain.LeadSourceMetaAds,
		CampaignName: optional(sub.CampaignName),
		AdName:       optional(sub.AdName),
		FormName:     &formName,
		Stage:        domain.StageNew,
	})
	if err != nil {
		return failed(outcome, err)
	}
	if err := s.leads.AppendActivity(ctx, id, "Lead imported", "Auto-imported from Meta form: "+formName); err != nil {
		return failed(outcome, fmt.Errorf("lead %d activity: %w", id, err))
	}

	outcome.Result = domain.ResultInserted
	return outcome
}

// SyncAllResult is the summary of a full sync. A nil report means the part
// was not configured.
type SyncAllResult struct {
	Campaigns *domain.SyncReport `json:"campaigns"`
	Metrics   *domain.SyncReport `json:"metrics"`
	Leads     *domain.SyncReport `json:"leads"`
}

// SyncAll runs campaigns and metrics when the ad account is configured and
// leads when the page is configured.
func (s *AdsSync) SyncAll(ctx context.Context, days int) (SyncAllResult, error) {
	var result SyncAllResult

	if s.IsConfigured() {
		campaigns, err := s.SyncCampaigns(ctx)
		if err != nil {
			return result, err
		}
		result.Campaigns = &campaigns

		metrics, err := s.SyncMetrics(ctx, days)
		if err != nil {
			return result, err
		}
		result.Metrics = &metrics
	}

	if s.IsLeadsConfigured() {
		leads, err := s.SyncLeads(ctx)
		if err != nil {
			return result, err
		}
		result.Leads = &leads
	}

	return result, nil
}

func count(r *domain.SyncReport) int {
	if r == nil {
		return 0
	}
	return r.Count
}

func (s *AdsSync) record(report *domain.SyncReport, o domain.Outcome) {
	report.Add(o)
	if o.Result == domain.ResultFailed {
		s.logger.Warn("sync item failed", "kind", o.Kind, "id", o.ExternalID, "error", o.Reason)
	}
	if o.UnknownStatus != "" {
		s.logger.Warn("unknown remote status", "kind", o.Kind, "id", o.ExternalID, "status", o.UnknownStatus)
	}
	if s.recorder != nil {
		s.recorder.ObserveOutcome(o)
	}
}

// skipUnconfigured is the report of a sync that has no credentials: no
// count and a single skipped outcome.
func (s *AdsSync) skipUnconfigured(kind string) domain.SyncReport {
	var report domain.SyncReport
	s.record(&report, domain.Outcome{Kind: kind, Result: domain.ResultSkipped, Reason: domain.ErrNotConfigured.Error()})
	s.logger.Info("sync skipped, credentials not configured", "kind", kind)
	return report
}

func (s *AdsSync) observeRun(job string) {
	if s.recorder != nil {
		s.recorder.ObserveRun(job)
	}
}

func failed(o domain.Outcome, err error) domain.Outcome {
	o.Result = domain.ResultFailed
	o.Reason = err.Error()
	return o
}

// parseCents converts a budget in minor units; empty means no budget.
func parseCents(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	f /= 100
	return &f, nil
}

func parseFloat(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parseCount(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func datePart(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit])
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
