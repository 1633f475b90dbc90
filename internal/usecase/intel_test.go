package usecase_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/logging"
	"Wavecrest/internal/usecase"
)

func TestIntelAddListRemove(t *testing.T) {
	ctx := context.Background()
	intel := usecase.NewIntel(openStore(t), logging.Discard())

	list, err := intel.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	c, err := intel.Add(ctx, domain.Competitor{Name: "Innerwell", Handle: "@innerwell"})
	require.NoError(t, err)
	assert.Equal(t, "innerwell", c.Handle)
	assert.Equal(t, domain.PlatformInstagram, c.Platform)

	_, err = intel.Add(ctx, domain.Competitor{Name: "X", Handle: "x", Platform: "myspace"})
	assert.Error(t, err)
	_, err = intel.Add(ctx, domain.Competitor{Name: "No handle"})
	assert.Error(t, err)

	ok, err := intel.Remove(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadDemoDataAndSummary(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	intel := usecase.NewIntel(st, logging.Discard()).
		WithRand(func() time.Time { return fixedNow }, rand.New(rand.NewPCG(1, 2)))

	first, err := intel.LoadDemoData(ctx)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.GreaterOrEqual(t, first.Posts, 24)
	assert.LessOrEqual(t, first.Posts, 48)
	assert.Equal(t, 16, first.Snapshots)
	assert.Contains(t, first.Message, "Loaded 4 competitors")

	second, err := intel.LoadDemoData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Snapshots)

	competitors, err := intel.List(ctx)
	require.NoError(t, err)
	require.Len(t, competitors, 4)
	assert.Equal(t, "Charlie Health", competitors[0].Name)
	assert.Equal(t, "https://www.instagram.com/charliehealth/", *competitors[0].ProfileURL)

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	for _, p := range posts {
		assert.GreaterOrEqual(t, p.Likes, int64(15))
		assert.LessOrEqual(t, p.Likes, int64(800))
		assert.LessOrEqual(t, p.Comments, int64(float64(p.Likes)*0.15))
		require.NotNil(t, p.EstimatedEngagementRate)
	}

	summary, err := intel.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.CompetitorsTracked)
	assert.Equal(t, int64(first.Posts+second.Posts), summary.TotalPosts)
	assert.LessOrEqual(t, summary.RecentPosts7d, summary.TotalPosts)
}

func TestLogPostAndSnapshot(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	intel := usecase.NewIntel(st, logging.Discard()).
		WithRand(func() time.Time { return fixedNow }, rand.New(rand.NewPCG(3, 4)))

	c, err := intel.Add(ctx, domain.Competitor{Name: "Heading Health", Handle: "headinghealth"})
	require.NoError(t, err)

	_, err = intel.LogPost(ctx, domain.CompetitorPost{CompetitorID: c.ID, Likes: 12})
	require.NoError(t, err)

	_, err = intel.LogSnapshot(ctx, domain.CompetitorSnapshot{CompetitorID: c.ID, Followers: ptr[int64](900)})
	require.NoError(t, err)
	_, err = intel.LogSnapshot(ctx, domain.CompetitorSnapshot{CompetitorID: c.ID})
	assert.Error(t, err)

	snaps, err := st.ListSnapshots(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2026-10-15", snaps[0].SnapshotDate)

	summary, err := intel.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.RecentPosts7d)
}
