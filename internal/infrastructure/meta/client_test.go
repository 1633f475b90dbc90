package meta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.MetaConfig{
		BaseURL:     srv.URL,
		APIVersion:  "v21.0",
		AccessToken: "tok",
		Timeout:     5 * time.Second,
	}, srv.Client())
}

func TestGetAllFollowsPaging(t *testing.T) {
	var srvURL string
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("after") {
		case "":
			assert.Equal(t, "/v21.0/act_1/campaigns", r.URL.Path)
			assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"data":[{"id":"1","name":"A","status":"ACTIVE","daily_budget":"2500"}],
				"paging":{"next":"` + srvURL + `/v21.0/act_1/campaigns?after=c1&access_token=tok"}}`))
		case "c1":
			_, _ = w.Write([]byte(`{"data":[{"id":"2","name":"B","status":"PAUSED","lifetime_budget":90000}],"paging":{}}`))
		}
	})
	srvURL = client.baseURL[:len(client.baseURL)-len("/v21.0")]

	campaigns, err := client.Campaigns(context.Background(), "act_1")
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "2500", campaigns[0].DailyBudget)
	assert.Equal(t, "90000", campaigns[1].LifetimeBudget)
	assert.Equal(t, "PAUSED", campaigns[1].Status)
}

func TestGetAllStopsOnRepeatedNextURL(t *testing.T) {
	var srvURL string
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"data":[{"id":"` + r.URL.Query().Get("after") + `x"}],
			"paging":{"next":"` + srvURL + `/v21.0/act_1/campaigns?after=c1&access_token=tok"}}`))
	})
	srvURL = client.baseURL[:len(client.baseURL)-len("/v21.0")]

	campaigns, err := client.Campaigns(context.Background(), "act_1")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, campaigns, 2)
	assert.Equal(t, "x", campaigns[0].ID)
	assert.Equal(t, "c1x", campaigns[1].ID)
}

func TestStatusErrorOnFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusBadRequest)
	})

	_, err := client.LeadForms(context.Background(), "page")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad token")
}

func TestInsightsRequestShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v21.0/c9/insights", r.URL.Path)
		assert.Equal(t, "1", q.Get("time_increment"))

		var tr map[string]string
		require.NoError(t, json.Unmarshal([]byte(q.Get("time_range")), &tr))
		assert.Equal(t, "2026-10-08", tr["since"])
		assert.Equal(t, "2026-10-15", tr["until"])

		_, _ = w.Write([]byte(`{"data":[{"date_start":"2026-10-14","spend":"12.5","impressions":"1000","clicks":"20",
			"ctr":"2.0","cpc":"0.62","cpm":"12.5","actions":[{"action_type":"lead","value":"3"},{"action_type":"link_click","value":20}]}]}`))
	})

	until := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	insights, err := client.Insights(context.Background(), "c9", until.AddDate(0, 0, -7), until)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "12.5", insights[0].Spend)
	require.Len(t, insights[0].Actions, 2)
	assert.Equal(t, "20", insights[0].Actions[1].Value)
}

func TestAdsAndLeadsDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v21.0/s1/ads":
			assert.Equal(t, "name,status,creative{body,title}", r.URL.Query().Get("fields"))
			_, _ = w.Write([]byte(`{"data":[{"id":"a1","name":"Ad","status":"ACTIVE","creative":{"title":"Heal","body":"Call us"}}]}`))
		case "/v21.0/s0/adsets":
			_, _ = w.Write([]byte(`{"data":[{"id":"s1","name":"Set","status":"ACTIVE","targeting":{"age_min":25}},{"id":"s2","name":"Bare"}]}`))
		case "/v21.0/f1/leads":
			_, _ = w.Write([]byte(`{"data":[{"id":"l1","campaign_name":"Fall","field_data":[{"name":"EMAIL","values":["a@b.c"]}]}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	ads, err := client.Ads(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "Heal", ads[0].CreativeTitle)
	assert.Equal(t, "Call us", ads[0].CreativeBody)

	sets, err := client.AdSets(ctx, "s0")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.JSONEq(t, `{"age_min":25}`, sets[0].Targeting)
	assert.Empty(t, sets[1].Targeting)

	leads, err := client.Leads(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Fall", leads[0].CampaignName)
	assert.Equal(t, []string{"a@b.c"}, leads[0].FieldData[0].Values)
}
