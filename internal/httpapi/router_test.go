package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/httpapi"
	"Wavecrest/internal/infrastructure/livesync"
	"Wavecrest/internal/logging"
	"Wavecrest/internal/metrics"
)

type fakeCompetitors struct {
	list []domain.Competitor
	err  error
}

func (f fakeCompetitors) List(context.Context) ([]domain.Competitor, error) {
	return f.list, f.err
}

type fakeSeed struct{ seed domain.Seed }

func (f fakeSeed) BuildSeed(context.Context) (domain.Seed, error) {
	return f.seed, nil
}

func newServer(t *testing.T, deps httpapi.Deps) *httptest.Server {
	t.Helper()
	deps.Logger = logging.Discard()
	srv := httptest.NewServer(httpapi.NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

var tracked = []domain.Competitor{
	{ID: 1, Name: "Heading Health", Handle: "headinghealth", Platform: domain.PlatformInstagram},
	{ID: 2, Name: "Innerwell", Handle: "innerwell", Platform: domain.PlatformBoth},
}

func TestHealthz(t *testing.T) {
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{}})

	resp := get(t, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(httpapi.RequestIDHeader))
}

func TestHealthzReportsDatabaseFailure(t *testing.T) {
	srv := newServer(t, httpapi.Deps{
		Competitors: fakeCompetitors{},
		Health:      func(context.Context) error { return errors.New("db down") },
	})

	resp := get(t, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{}})

	resp := get(t, srv.URL+"/healthz", map[string]string{httpapi.RequestIDHeader: "abc123"})
	assert.Equal(t, "abc123", resp.Header.Get(httpapi.RequestIDHeader))
}

func TestCompetitorsRequiresKey(t *testing.T) {
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{list: tracked}, SyncKey: "s3cret"})

	resp := get(t, srv.URL+"/api/competitors", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, srv.URL+"/api/competitors", map[string]string{httpapi.KeyHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, srv.URL+"/api/competitors", map[string]string{httpapi.KeyHeader: "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got []domain.Competitor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, tracked, got)
}

func TestCompetitorsOpenWithoutKey(t *testing.T) {
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{list: tracked}})

	resp := get(t, srv.URL+"/api/competitors", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestCompetitorsListFailure(t *testing.T) {
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{err: errors.New("boom")}})

	resp := get(t, srv.URL+"/api/competitors", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "could not list competitors", body["error"])
}

func TestLiveSyncClientReadsCompetitorEndpoint(t *testing.T) {
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{list: tracked}, SyncKey: "s3cret"})

	client := livesync.NewClient(srv.URL, "s3cret", srv.Client())
	require.NotNil(t, client)

	got, err := client.FetchCompetitors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tracked, got)
}

func TestExport(t *testing.T) {
	url := "https://www.instagram.com/p/abc/"
	seed := domain.Seed{
		Competitors: []domain.SeedCompetitor{{Name: "Innerwell", Handle: "innerwell", Platform: domain.PlatformInstagram}},
		Posts:       []domain.SeedPost{{CompetitorID: 1, PostURL: &url, ContentType: domain.ContentReel, Likes: 10}},
	}
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{}, Seed: fakeSeed{seed: seed}})

	resp := get(t, srv.URL+"/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.Seed
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, seed, got)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := metrics.NewRecorder()
	rec.ObserveRun("scan")
	srv := newServer(t, httpapi.Deps{Competitors: fakeCompetitors{}, Metrics: rec.Handler()})

	resp := get(t, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv = newServer(t, httpapi.Deps{Competitors: fakeCompetitors{}})
	resp = get(t, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
