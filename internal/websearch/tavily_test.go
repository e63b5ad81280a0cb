package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/veridex/veridex/internal/cache"
	"github.com/veridex/veridex/internal/model"
)

func TestNewClientWithoutAPIKey(t *testing.T) {
	client, err := NewClient(model.WebSearchConfig{}, nil, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Error("expected nil client when no API key is configured")
	}
}

func TestSearch(t *testing.T) {
	var gotReq searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected path /search, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(searchResponse{Results: []Result{
			{Title: "First", URL: "https://example.com/a", Content: "evidence a"},
			{Title: "Second", URL: "https://example.com/b", Content: "evidence b"},
		}})
	}))
	defer server.Close()

	client, err := NewClient(model.WebSearchConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		MaxResults: 3,
	}, nil, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := client.Search(context.Background(), "the earth is flat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.APIKey != "test-key" {
		t.Errorf("expected api key forwarded, got %q", gotReq.APIKey)
	}
	if gotReq.Query != "the earth is flat" {
		t.Errorf("unexpected query: %q", gotReq.Query)
	}
	if gotReq.MaxResults != 3 {
		t.Errorf("expected max_results 3, got %d", gotReq.MaxResults)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != "https://example.com/a" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestSearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Results: []Result{
			{URL: "https://a.test"}, {URL: "https://b.test"},
			{URL: "https://c.test"}, {URL: "https://d.test"},
		}})
	}))
	defer server.Close()

	client, err := NewClient(model.WebSearchConfig{
		APIKey:     "k",
		BaseURL:    server.URL,
		MaxResults: 2,
	}, nil, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected results capped at 2, got %d", len(results))
	}
}

func TestSearchUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(searchResponse{Results: []Result{
			{Title: "Cached", URL: "https://example.com", Content: "body"},
		}})
	}))
	defer server.Close()

	memCache := cache.NewMemoryCache(time.Minute, time.Minute)
	client, err := NewClient(model.WebSearchConfig{
		APIKey:  "k",
		BaseURL: server.URL,
	}, memCache, time.Minute, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		results, err := client.Search(context.Background(), "repeated claim")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].Title != "Cached" {
			t.Errorf("unexpected results: %+v", results)
		}
	}

	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestSearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(model.WebSearchConfig{
		APIKey:  "bad",
		BaseURL: server.URL,
	}, nil, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, err := NewClient(model.WebSearchConfig{APIKey: "k"}, nil, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := client.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for empty query, got %d", len(results))
	}
}
