package livesync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresURLAndKey(t *testing.T) {
	assert.Nil(t, NewClient("", "key", nil))
	assert.Nil(t, NewClient("https://live.example", " ", nil))
	assert.NotNil(t, NewClient("https://live.example", "key", nil))
}

func TestFetchCompetitorsSendsKeyAndRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, CompetitorsPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(KeyHeader))
		if calls == 1 {
			http.Error(w, "warming up", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"id":7,"name":"Innerwell","handle":"innerwell","platform":"instagram","notes":null}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", srv.Client())
	c.backoff = time.Millisecond

	got, err := c.FetchCompetitors(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "innerwell", got[0].Handle)
	assert.Equal(t, 2, calls)
}

func TestFetchCompetitorsDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong", srv.Client())
	_, err := c.FetchCompetitors(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1, calls)
}
