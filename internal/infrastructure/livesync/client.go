package livesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

// KeyHeader carries the shared sync key.
const KeyHeader = "X-Sync-Key"

// CompetitorsPath is the export endpoint of a deployed instance.
const CompetitorsPath = "/api/competitors"

// Client reads the competitor list of the deployed instance.
type Client struct {
	baseURL  string
	key      string
	http     *http.Client
	attempts int
	backoff  time.Duration
}

var _ ports.LiveSource = (*Client)(nil)

// NewClient returns nil when baseURL or key is empty, meaning live pull is
// not configured.
func NewClient(baseURL, key string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(key) == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		key:      key,
		http:     httpClient,
		attempts: 3,
		backoff:  100 * time.Millisecond,
	}
}

// FetchCompetitors retries transport errors and 5xx responses with
// exponential backoff and jitter.
func (c *Client) FetchCompetitors(ctx context.Context) ([]domain.Competitor, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		if i > 0 {
			sleep := time.Duration(1<<(i-1))*c.backoff + time.Duration(rand.IntN(150))*time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleep):
			}
		}

		competitors, err := c.fetch(ctx)
		if err == nil {
			return competitors, nil
		}
		lastErr = err
		var perm *permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}
	}
	return nil, lastErr
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }

func (c *Client) fetch(ctx context.Context) ([]domain.Competitor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CompetitorsPath, nil)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(KeyHeader, c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request competitors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("live site returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		if resp.StatusCode < 500 {
			return nil, &permanentError{err}
		}
		return nil, err
	}

	var competitors []domain.Competitor
	if err := json.NewDecoder(resp.Body).Decode(&competitors); err != nil {
		return nil, &permanentError{fmt.Errorf("decode competitors: %w", err)}
	}
	return competitors, nil
}
