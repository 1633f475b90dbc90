package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/domain"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecorderCountsOutcomes(t *testing.T) {
	r := NewRecorder()

	r.ObserveRun("campaigns")
	r.ObserveRun("campaigns")
	r.ObserveOutcome(domain.Outcome{Kind: domain.KindCampaign, ExternalID: "1", Result: domain.ResultInserted})
	r.ObserveOutcome(domain.Outcome{Kind: domain.KindCampaign, ExternalID: "2", Result: domain.ResultInserted, UnknownStatus: "IN_REVIEW"})
	r.ObserveOutcome(domain.Outcome{Kind: domain.KindLead, ExternalID: "9", Result: domain.ResultFailed})

	body := scrape(t, r)
	assert.Contains(t, body, `wavecrest_sync_runs_total{job="campaigns"} 2`)
	assert.Contains(t, body, `wavecrest_sync_items_total{kind="campaign",result="inserted"} 2`)
	assert.Contains(t, body, `wavecrest_sync_items_total{kind="lead",result="failed"} 1`)
	assert.Contains(t, body, `wavecrest_sync_unknown_status_total{kind="campaign",status="IN_REVIEW"} 1`)
}

func TestRegistryIncludesRuntimeCollectors(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun("scan")

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["wavecrest_sync_runs_total"])
	assert.True(t, names["go_goroutines"])
}
