// filepath: internal/lookup/provider.go
// Package lookup talks to the external rank-lookup collaborator that returns
// live search result pages for a keyword.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ranktrack/internal/config"
)

// Hit is one search result entry with its 1-based position.
type Hit struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
}

// Provider returns the ordered search results for a keyword.
type Provider interface {
	Search(ctx context.Context, keyword string) ([]Hit, error)
}

var _ Provider = (*HTTPProvider)(nil)

// HTTPProvider queries a JSON search API over HTTP.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPProvider builds a provider from the lookup section of the config.
func NewHTTPProvider(cfg config.LookupConfig) *HTTPProvider {
	return &HTTPProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
	}
}

type searchResponse struct {
	Results []Hit `json:"results"`
}

// Search performs one keyword query and returns the result hits in rank
// order.
func (p *HTTPProvider) Search(ctx context.Context, keyword string) ([]Hit, error) {
	if p.endpoint == "" {
		return nil, fmt.Errorf("lookup endpoint not configured")
	}
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid lookup endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", keyword)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed lookup response: %w", err)
	}
	return body.Results, nil
}
