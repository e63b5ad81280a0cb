package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridex/veridex/internal/cache"
	"github.com/veridex/veridex/internal/model"
)

// Client searches the Tavily API for claim evidence. Responses are
// cached by query hash so repeated claims do not burn API quota.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	expander   *Expander
	logger     *slog.Logger
}

// NewClient creates a search client from config. Returns (nil, nil)
// when no API key is configured; callers treat a nil client as
// "web search unavailable".
func NewClient(cfg model.WebSearchConfig, resultCache cache.Cache, cacheTTL time.Duration, expander *Expander) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		cache:      resultCache,
		cacheTTL:   cacheTTL,
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		expander:   expander,
		logger:     slog.Default().With("component", "websearch"),
	}, nil
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search queries the API for up to maxResults hits. Short snippets are
// expanded by fetching the source page when an expander is configured.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" {
		return []Result{}, nil
	}

	key := cache.QueryKey(query)
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			var results []Result
			if err := json.Unmarshal(data, &results); err == nil {
				c.logger.Debug("web search cache hit", "query", query)
				return results, nil
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	results, err := c.doSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	if c.expander != nil {
		for i := range results {
			results[i].Content = c.expander.Expand(ctx, results[i].URL, results[i].Content)
		}
	}

	if c.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := c.cache.Set(key, data, c.cacheTTL); err != nil {
				c.logger.Warn("failed to cache search results", "err", err)
			}
		}
	}

	return results, nil
}

func (c *Client) doSearch(ctx context.Context, query string) ([]Result, error) {
	payload, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("web search status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := parsed.Results
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}

	c.logger.Info("web search completed", "query", query, "results", len(results))
	return results, nil
}
