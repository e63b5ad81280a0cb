package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker gates evidence-page fetches on robots.txt. Rules are
// fetched once per host and held for the life of the checker.
type RobotsChecker struct {
	mu         sync.Mutex
	perHost    map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

// NewRobotsChecker creates a checker identifying itself as userAgent.
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		perHost:    make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// CanFetch reports whether rawURL may be fetched, plus any crawl delay
// the host requests. An unreachable robots.txt allows the fetch; only a
// malformed URL is an error.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	rules := r.rulesFor(ctx, parsed)
	if rules == nil {
		return true, 0, nil
	}

	allowed := rules.TestAgent(parsed.Path, r.userAgent)

	var delay time.Duration
	if group := rules.FindGroup(r.userAgent); group != nil {
		delay = group.CrawlDelay
	}

	return allowed, delay, nil
}

// rulesFor returns cached rules for the URL's host, fetching on miss.
// Returns nil when robots.txt could not be retrieved or parsed.
func (r *RobotsChecker) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	r.mu.Lock()
	rules, ok := r.perHost[u.Host]
	r.mu.Unlock()
	if ok {
		return rules
	}

	rules = r.fetch(ctx, fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host))
	if rules != nil {
		r.mu.Lock()
		r.perHost[u.Host] = rules
		r.mu.Unlock()
	}
	return rules
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse maps status codes per convention: 4xx allows all,
	// 5xx disallows all.
	rules, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return rules
}

// Clear drops all cached per-host rules.
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perHost = make(map[string]*robotstxt.RobotsData)
}
