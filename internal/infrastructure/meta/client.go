package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Wavecrest/internal/config"
)

// StatusError is returned for non-2xx Graph API responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph api status %d: %s", e.StatusCode, e.Body)
}

// Client performs authenticated GETs against the versioned Graph API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client; a nil httpClient gets one with the configured
// timeout.
func NewClient(cfg config.MetaConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.APIVersion,
		token:   cfg.AccessToken,
		http:    httpClient,
	}
}

type page struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// GetAll fetches endpoint and follows paging.next until it is empty or
// points at a page already fetched, returning every element of every data
// array. The next URL already carries the query, so params are only sent on
// the first request.
func (c *Client) GetAll(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("access_token", c.token)
	next := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/") + "?" + q.Encode()

	var results []json.RawMessage
	seen := map[string]bool{}
	for next != "" && !seen[next] {
		seen[next] = true
		var p page
		if err := c.get(ctx, next, &p); err != nil {
			return nil, fmt.Errorf("get %s: %w", endpoint, err)
		}
		results = append(results, p.Data...)
		next = p.Paging.Next
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
