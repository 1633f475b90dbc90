package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/config"
	"Wavecrest/internal/domain"
	"Wavecrest/internal/infrastructure/storage"
	"Wavecrest/internal/logging"
	"Wavecrest/internal/ports"
	"Wavecrest/internal/usecase"
)

type fakePlatform struct {
	campaigns    []domain.RemoteCampaign
	adSets       map[string][]domain.RemoteAdSet
	ads          map[string][]domain.RemoteAd
	insights     map[string][]domain.RemoteInsight
	insightsErr  map[string]error
	forms        []domain.RemoteLeadForm
	formsErr     error
	leads        map[string][]domain.RemoteLead
	leadsErr     map[string]error
	insightCalls int
	since, until time.Time
}

var _ ports.AdsPlatform = (*fakePlatform)(nil)

func (f *fakePlatform) Campaigns(context.Context, string) ([]domain.RemoteCampaign, error) {
	return f.campaigns, nil
}

func (f *fakePlatform) AdSets(_ context.Context, id string) ([]domain.RemoteAdSet, error) {
	return f.adSets[id], nil
}

func (f *fakePlatform) Ads(_ context.Context, id string) ([]domain.RemoteAd, error) {
	return f.ads[id], nil
}

func (f *fakePlatform) Insights(_ context.Context, id string, since, until time.Time) ([]domain.RemoteInsight, error) {
	f.insightCalls++
	f.since, f.until = since, until
	if err := f.insightsErr[id]; err != nil {
		return nil, err
	}
	return f.insights[id], nil
}

func (f *fakePlatform) LeadForms(context.Context, string) ([]domain.RemoteLeadForm, error) {
	return f.forms, f.formsErr
}

func (f *fakePlatform) Leads(_ context.Context, id string) ([]domain.RemoteLead, error) {
	if err := f.leadsErr[id]; err != nil {
		return nil, err
	}
	return f.leads[id], nil
}

type countingRecorder struct {
	runs     map[string]int
	outcomes []domain.Outcome
}

func (r *countingRecorder) ObserveRun(job string) {
	if r.runs == nil {
		r.runs = map[string]int{}
	}
	r.runs[job]++
}

func (r *countingRecorder) ObserveOutcome(o domain.Outcome) { r.outcomes = append(r.outcomes, o) }

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	st, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "wavecrest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newAdsSync(st *storage.Store, platform ports.AdsPlatform, rec ports.SyncRecorder) *usecase.AdsSync {
	return usecase.NewAdsSync(usecase.AdsSyncDeps{
		Config:   config.MetaConfig{AccessToken: "tok", AdAccountID: "act_1", PageID: "page"},
		Platform: platform,
		Ads:      st,
		Leads:    st,
		Recorder: rec,
		Logger:   logging.Discard(),
		Now:      func() time.Time { return fixedNow },
	})
}

func campaignTree() *fakePlatform {
	return &fakePlatform{
		campaigns: []domain.RemoteCampaign{
			{ID: "c1", Name: "Fall intake", Objective: "LEADS", Status: "ACTIVE", DailyBudget: "2500",
				StartTime: "2026-09-01T00:00:00-0700"},
			{ID: "c2", Name: "Brand", Status: "IN_PROCESS", LifetimeBudget: "100000"},
		},
		adSets: map[string][]domain.RemoteAdSet{
			"c1": {{ID: "s1", Name: "Parents 35+", Status: "PAUSED", Targeting: `{"age_min":35}`}},
		},
		ads: map[string][]domain.RemoteAd{
			"s1": {{ID: "a1", Name: "Carousel", Status: "ARCHIVED", CreativeBody: "Find support today"}},
		},
	}
}

func TestSyncCampaignsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	rec := &countingRecorder{}
	sync := newAdsSync(st, campaignTree(), rec)

	first, err := sync.SyncCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, 2, first.CountResult(domain.KindCampaign, domain.ResultInserted))
	assert.Equal(t, 1, first.CountResult(domain.KindAdSet, domain.ResultInserted))
	assert.Equal(t, 1, first.CountResult(domain.KindAd, domain.ResultInserted))

	second, err := sync.SyncCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, 2, second.CountResult(domain.KindCampaign, domain.ResultUpdated))
	assert.Equal(t, 1, second.CountResult(domain.KindAd, domain.ResultUpdated))

	campaigns, err := st.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, campaigns, 2)

	c1, err := st.CampaignByMetaID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c1.DailyBudget)
	assert.InDelta(t, 25.0, *c1.DailyBudget, 1e-9)
	assert.Equal(t, "2026-09-01", *c1.StartDate)
	assert.Nil(t, c1.EndDate)

	set, err := st.AdSetByMetaID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.AdStatusPaused, set.Status)
	assert.Equal(t, c1.ID, set.CampaignID)

	ad, err := st.AdByMetaID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AdStatusCompleted, ad.Status)
	assert.Equal(t, "Find support today", *ad.CreativeSummary)

	assert.Equal(t, 2, rec.runs["campaigns"])
}

func TestSyncCampaignsFlagsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	report, err := newAdsSync(st, campaignTree(), nil).SyncCampaigns(ctx)
	require.NoError(t, err)

	var flagged []string
	for _, o := range report.Outcomes {
		if o.UnknownStatus != "" {
			flagged = append(flagged, o.ExternalID+":"+o.UnknownStatus)
		}
	}
	assert.Equal(t, []string{"c2:IN_PROCESS"}, flagged)

	c2, err := st.CampaignByMetaID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, domain.AdStatusActive, c2.Status)
	assert.InDelta(t, 1000.0, *c2.LifetimeBudget, 1e-9)
}

func TestSyncCampaignsNotConfigured(t *testing.T) {
	sync := usecase.NewAdsSync(usecase.AdsSyncDeps{Platform: &fakePlatform{}, Logger: logging.Discard()})
	assert.False(t, sync.IsConfigured())
	assert.False(t, sync.IsLeadsConfigured())

	ctx := context.Background()
	skipped := []domain.Outcome{{Result: domain.ResultSkipped, Reason: "not configured"}}
	for kind, run := range map[string]func() (domain.SyncReport, error){
		domain.KindCampaign: func() (domain.SyncReport, error) { return sync.SyncCampaigns(ctx) },
		domain.KindMetric:   func() (domain.SyncReport, error) { return sync.SyncMetrics(ctx, 30) },
		domain.KindLead:     func() (domain.SyncReport, error) { return sync.SyncLeads(ctx) },
	} {
		report, err := run()
		require.NoError(t, err, kind)
		assert.Zero(t, report.Count, kind)
		skipped[0].Kind = kind
		assert.Equal(t, skipped, report.Outcomes, kind)
		assert.Empty(t, report.Failed(), kind)
	}

	result, err := sync.SyncAll(ctx, 30)
	require.NoError(t, err)
	assert.Nil(t, result.Campaigns)
	assert.Nil(t, result.Leads)
}

func TestSyncMetricsReplacesRows(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	platform := campaignTree()
	sync := newAdsSync(st, platform, nil)

	_, err := sync.SyncCampaigns(ctx)
	require.NoError(t, err)

	platform.insights = map[string][]domain.RemoteInsight{
		"c1": {
			{DateStart: "2026-10-14", Spend: "12.50", Impressions: "1000", Clicks: "25", CTR: "2.5", CPC: "0.5", CPM: "12.5",
				Actions: []domain.RemoteAction{
					{ActionType: "lead", Value: "2"},
					{ActionType: "offsite_conversion.fb_pixel_lead", Value: "1"},
					{ActionType: "onsite_conversion.lead_grouped", Value: "3"},
					{ActionType: "link_click", Value: "25"},
				}},
			{DateStart: ""},
		},
	}
	platform.insightsErr = map[string]error{"c2": errors.New("status 400")}

	for range 2 {
		report, err := sync.SyncMetrics(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Count)
		assert.Equal(t, 1, report.CountResult(domain.KindMetric, domain.ResultFailed))
		assert.Equal(t, 1, report.CountResult(domain.KindMetric, domain.ResultSkipped))
	}

	c1, err := st.CampaignByMetaID(ctx, "c1")
	require.NoError(t, err)
	metrics, err := st.ListMetrics(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "2026-10-14", metrics[0].MetricDate)
	assert.Equal(t, int64(6), metrics[0].Conversions)
	assert.Equal(t, int64(1000), metrics[0].Impressions)
	assert.InDelta(t, 12.5, metrics[0].Spend, 1e-9)

	assert.Equal(t, fixedNow, platform.until)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), platform.since)
}

func TestSyncMetricsWithoutSyncedCampaigns(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_, err := st.InsertCampaign(ctx, domain.AdCampaign{Name: "Manual", Status: domain.AdStatusActive})
	require.NoError(t, err)

	platform := &fakePlatform{}
	report, err := newAdsSync(st, platform, nil).SyncMetrics(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 0, platform.insightCalls)
}

func leadFields(pairs ...string) []domain.RemoteLeadField {
	var out []domain.RemoteLeadField
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.RemoteLeadField{Name: pairs[i], Values: []string{pairs[i+1]}})
	}
	return out
}

func TestSyncLeadsDedupAndActivity(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	platform := &fakePlatform{
		forms: []domain.RemoteLeadForm{{ID: "f1", Name: "Intake"}, {ID: "f2", Name: "Broken"}},
		leads: map[string][]domain.RemoteLead{
			"f1": {
				{ID: "l1", CampaignName: "Fall", FieldData: leadFields("FULL_NAME", "Ana Diaz", "EMAIL", "ana@example.com")},
				{ID: "l2", FieldData: leadFields("first_name", "Bo", "last_name", "Li", "phone_number", "555-0100")},
				{ID: "l3", FieldData: leadFields("email", "only@example.com")},
				{ID: "l4"},
			},
		},
		leadsErr: map[string]error{"f2": errors.New("status 500")},
	}
	sync := newAdsSync(st, platform, nil)

	report, err := sync.SyncLeads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Count)
	assert.Equal(t, 1, report.CountResult(domain.KindLeadForm, domain.ResultFailed))

	again, err := sync.SyncLeads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Count)
	assert.Equal(t, 4, again.CountResult(domain.KindLead, domain.ResultSkipped))

	leads, err := st.ListLeads(ctx, ports.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 4)

	names := map[string]domain.Lead{}
	for _, l := range leads {
		names[l.Name] = l
	}
	require.Contains(t, names, "Ana Diaz")
	require.Contains(t, names, "Bo Li")
	require.Contains(t, names, "only@example.com")
	require.Contains(t, names, "Lead #l4")
	assert.Equal(t, "555-0100", *names["Bo Li"].Phone)
	assert.Equal(t, domain.LeadSourceMetaAds, names["Ana Diaz"].Source)
	assert.Equal(t, domain.StageNew, names["Ana Diaz"].Stage)

	activity, err := st.ListActivity(ctx, names["Ana Diaz"].ID)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "Lead imported", activity[0].Action)
	assert.Equal(t, "Auto-imported from Meta form: Intake", *activity[0].Details)
}

func TestSyncLeadsFormListingFailure(t *testing.T) {
	st := openStore(t)
	platform := &fakePlatform{formsErr: errors.New("status 403")}

	report, err := newAdsSync(st, platform, nil).SyncLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, domain.KindLeadForm, report.Failed()[0].Kind)
}

func TestSyncAllRunsEveryPart(t *testing.T) {
	st := openStore(t)
	platform := campaignTree()
	platform.forms = []domain.RemoteLeadForm{{ID: "f1", Name: "Intake"}}

	result, err := newAdsSync(st, platform, nil).SyncAll(context.Background(), 30)
	require.NoError(t, err)
	require.NotNil(t, result.Campaigns)
	require.NotNil(t, result.Metrics)
	require.NotNil(t, result.Leads)
	assert.Equal(t, 2, result.Campaigns.Count)
	assert.Equal(t, fixedNow.AddDate(0, 0, -30), platform.since)
}
