package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func ptr[T any](v T) *T { return &v }

func TestRowHelpers(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	id, err := st.InsertRow(ctx, "scripts", map[string]any{
		"title":       "Hook",
		"body":        "Open with a question",
		"script_type": "ad_reels",
	})
	require.NoError(t, err)

	ok, err := st.UpdateRow(ctx, "scripts", id, map[string]any{"status": "todo"})
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := st.Query(ctx, sq.Select("title", "status").From("scripts").Where(sq.Eq{"id": id}))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hook", rows[0]["title"])
	assert.Equal(t, "todo", rows[0]["status"])

	ok, err = st.DeleteRow(ctx, "scripts", id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.DeleteRow(ctx, "scripts", id)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = st.InsertRow(ctx, "scripts; DROP TABLE leads", map[string]any{"title": "x"})
	assert.Error(t, err)
}

func TestUpdateRowWithoutUpdatedAt(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	c, err := st.AddCompetitor(ctx, domain.Competitor{Name: "Innerwell", Handle: "innerwell"})
	require.NoError(t, err)

	ok, err := st.UpdateRow(ctx, "competitors", c.ID, map[string]any{"notes": "virtual"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsertSnapshotOverwritesSameDay(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	c, err := st.AddCompetitor(ctx, domain.Competitor{Name: "Charlie Health", Handle: "charliehealth"})
	require.NoError(t, err)

	inserted, err := st.UpsertSnapshot(ctx, domain.CompetitorSnapshot{
		CompetitorID: c.ID, SnapshotDate: "2026-10-15", Followers: ptr[int64](100),
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = st.UpsertSnapshot(ctx, domain.CompetitorSnapshot{
		CompetitorID: c.ID, SnapshotDate: "2026-10-15", Followers: ptr[int64](150), Bio: ptr("new bio"),
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	snaps, err := st.ListSnapshots(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(150), *snaps[0].Followers)
	assert.Equal(t, "new bio", *snaps[0].Bio)

	_, err = st.InsertSnapshot(ctx, domain.CompetitorSnapshot{CompetitorID: c.ID, SnapshotDate: "2026-10-15"})
	assert.Error(t, err)
}

func TestUpsertSnapshotKeepsKnownCounters(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	c, err := st.AddCompetitor(ctx, domain.Competitor{Name: "Innerwell", Handle: "innerwell"})
	require.NoError(t, err)

	_, err = st.UpsertSnapshot(ctx, domain.CompetitorSnapshot{
		CompetitorID: c.ID, SnapshotDate: "2026-10-15",
		Followers: ptr[int64](500), Following: ptr[int64](40), TotalPosts: ptr[int64](120), Bio: ptr("bio"),
	})
	require.NoError(t, err)

	inserted, err := st.UpsertSnapshot(ctx, domain.CompetitorSnapshot{
		CompetitorID: c.ID, SnapshotDate: "2026-10-15", Followers: ptr[int64](510),
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = st.UpsertSnapshot(ctx, domain.CompetitorSnapshot{CompetitorID: c.ID, SnapshotDate: "2026-10-15"})
	require.NoError(t, err)
	assert.False(t, inserted)

	snaps, err := st.ListSnapshots(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(510), *snaps[0].Followers)
	require.NotNil(t, snaps[0].Following)
	assert.Equal(t, int64(40), *snaps[0].Following)
	require.NotNil(t, snaps[0].TotalPosts)
	assert.Equal(t, int64(120), *snaps[0].TotalPosts)
	assert.Equal(t, "bio", *snaps[0].Bio)
}

func TestPostDedupByURL(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	c, err := st.AddCompetitor(ctx, domain.Competitor{Name: "Novara", Handle: "novara"})
	require.NoError(t, err)

	url := "https://www.instagram.com/p/abc/"
	exists, err := st.PostExists(ctx, c.ID, url)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = st.InsertPost(ctx, domain.CompetitorPost{
		CompetitorID: c.ID, PostURL: &url, ContentType: domain.ContentReel, Likes: 10, IsNotable: true,
	})
	require.NoError(t, err)

	exists, err = st.PostExists(ctx, c.ID, url)
	require.NoError(t, err)
	assert.True(t, exists)

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].IsNotable)
	assert.Equal(t, domain.ContentReel, posts[0].ContentType)
}

func TestCompetitorByHandleNotFound(t *testing.T) {
	st := openTestStore(t)
	_, err := st.CompetitorByHandle(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceCampaignMetricKeepsBreakdownRows(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	campID, err := st.InsertCampaign(ctx, domain.AdCampaign{MetaCampaignID: ptr("c1"), Name: "Spring", Status: domain.AdStatusActive})
	require.NoError(t, err)
	setID, err := st.InsertAdSet(ctx, domain.AdSet{CampaignID: campID, MetaAdSetID: ptr("s1"), Name: "Set", Status: domain.AdStatusActive})
	require.NoError(t, err)

	_, err = st.InsertRow(ctx, "ad_metrics", map[string]any{
		"campaign_id": campID, "ad_set_id": setID, "metric_date": "2026-10-14", "spend": 5.0,
	})
	require.NoError(t, err)

	for _, spend := range []float64{10, 12.5} {
		require.NoError(t, st.ReplaceCampaignMetric(ctx, domain.AdMetric{
			CampaignID: campID, MetricDate: "2026-10-14", Spend: spend,
		}))
	}

	metrics, err := st.ListMetrics(ctx, campID)
	require.NoError(t, err)
	require.Len(t, metrics, 2)

	var campaignLevel []domain.AdMetric
	for _, m := range metrics {
		if m.AdSetID == nil && m.AdID == nil {
			campaignLevel = append(campaignLevel, m)
		}
	}
	require.Len(t, campaignLevel, 1)
	assert.Equal(t, 12.5, campaignLevel[0].Spend)
}

func TestListSyncedCampaignsSkipsManualRows(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.InsertCampaign(ctx, domain.AdCampaign{Name: "Manual", Status: domain.AdStatusPaused})
	require.NoError(t, err)
	_, err = st.InsertCampaign(ctx, domain.AdCampaign{MetaCampaignID: ptr("123"), Name: "Synced", Status: domain.AdStatusActive})
	require.NoError(t, err)

	synced, err := st.ListSyncedCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "Synced", synced[0].Name)

	all, err := st.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLeadDedupOrder(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.InsertLead(ctx, domain.Lead{Name: "Ana", Email: ptr("ana@example.com"), FormName: ptr("Intake")})
	require.NoError(t, err)
	_, err = st.InsertLead(ctx, domain.Lead{Name: "Ben", Phone: ptr("555-0100"), FormName: ptr("Intake")})
	require.NoError(t, err)
	_, err = st.InsertLead(ctx, domain.Lead{Name: "Cy", FormName: ptr("Intake")})
	require.NoError(t, err)

	cases := []struct {
		name, email, phone, form string
		want                     bool
	}{
		{"Other", "ana@example.com", "", "Intake", true},
		{"Other", "ana@example.com", "", "Callback", false},
		{"Other", "", "555-0100", "Intake", true},
		{"Cy", "", "", "Intake", true},
		{"Cy", "", "", "Callback", false},
	}
	for _, tc := range cases {
		got, err := st.FindImportedLead(ctx, tc.name, tc.email, tc.phone, tc.form)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%+v", tc)
	}
}

func TestLeadStageAndActivity(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	st.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }

	id, err := st.InsertLead(ctx, domain.Lead{Name: "Dana", Source: "referral"})
	require.NoError(t, err)
	require.NoError(t, st.AppendActivity(ctx, id, "Lead created", ""))
	require.NoError(t, st.SetLeadStage(ctx, id, domain.StageContacted))

	lead, err := st.LeadByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageContacted, lead.Stage)
	assert.Equal(t, "referral", lead.Source)

	leads, err := st.ListLeads(ctx, ports.LeadFilter{Stage: domain.StageNew})
	require.NoError(t, err)
	assert.Empty(t, leads)

	activity, err := st.ListActivity(ctx, id)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Nil(t, activity[0].Details)
	assert.Equal(t, 2026, activity[0].CreatedAt.Year())

	assert.ErrorIs(t, st.SetLeadStage(ctx, 999, domain.StageQualified), domain.ErrNotFound)
}

func TestSeedAndCheck(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.Seed(ctx))
	require.NoError(t, st.Seed(ctx))

	report, err := st.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", report.Integrity)

	counts := map[string]int64{}
	for _, tc := range report.Tables {
		counts[tc.Table] = tc.Rows
	}
	assert.Equal(t, int64(5), counts["content_pillars"])
	assert.Equal(t, int64(2), counts["competitors"])
	assert.Len(t, report.Tables, len(tables))
}
