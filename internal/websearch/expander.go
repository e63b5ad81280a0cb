package websearch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/util"
	"github.com/veridex/veridex/internal/worker"
)

// maxExpandedChars caps how much page text replaces a snippet. Evidence
// previews sent to the model are truncated anyway.
const maxExpandedChars = 4000

// Expander replaces short search snippets with visible text fetched
// from the source page. Fetches respect robots.txt and per-domain
// rate limits; any failure keeps the original snippet.
type Expander struct {
	httpClient    *http.Client
	userAgent     string
	maxBytes      int64
	minSnippetLen int
	robots        *util.RobotsChecker
	limiter       *worker.Limiter
	logger        *slog.Logger
}

// NewExpander creates an expander from HTTP and web-search config.
func NewExpander(httpCfg model.HTTPConfig, minSnippetLen int) *Expander {
	if minSnippetLen <= 0 {
		minSnippetLen = 200
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
	}

	return &Expander{
		httpClient: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:     httpCfg.UserAgent,
		maxBytes:      httpCfg.MaxBodyBytes,
		minSnippetLen: minSnippetLen,
		robots:        util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout),
		limiter:       worker.NewLimiter(1.0, 2),
		logger:        slog.Default().With("component", "expander"),
	}
}

// Expand returns the page text for rawURL when snippet is too short to
// judge a claim against, otherwise the snippet unchanged. Expansion is
// best effort.
func (e *Expander) Expand(ctx context.Context, rawURL, snippet string) string {
	if len(snippet) >= e.minSnippetLen || rawURL == "" {
		return snippet
	}

	allowed, crawlDelay, err := e.robots.CanFetch(ctx, rawURL)
	if err != nil || !allowed {
		if !allowed {
			e.logger.Debug("robots.txt disallows fetch", "url", rawURL)
		}
		return snippet
	}

	if err := e.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return snippet
	}

	text, err := e.fetchPageText(ctx, rawURL)
	if err != nil {
		e.logger.Debug("content expansion failed", "url", rawURL, "err", err)
		return snippet
	}
	if len(text) <= len(snippet) {
		return snippet
	}

	if len(text) > maxExpandedChars {
		text = text[:maxExpandedChars]
	}
	return text
}

func (e *Expander) fetchPageText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	return strings.TrimSpace(extractVisibleText(doc)), nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
