package websearch

import (
	"net/url"
	"strings"

	"github.com/veridex/veridex/internal/model"
)

// AuthorityClassifier buckets web evidence URLs into authority tiers.
// Tiers annotate citations; they do not change retrieval ranking.
type AuthorityClassifier struct {
	primaryMap   map[string]bool
	secondaryMap map[string]bool
}

var defaultPrimaryDomains = []string{
	"who.int", "nih.gov", "cdc.gov", "europa.eu", "un.org",
	"nature.com", "science.org", "gov.br", "planalto.gov.br",
}

var defaultSecondaryDomains = []string{
	"wikipedia.org", "britannica.com", "reuters.com", "apnews.com",
	"bbc.com", "bbc.co.uk", "snopes.com", "politifact.com",
	"factcheck.org", "aosfatos.org", "lupa.uol.com.br",
}

// NewAuthorityClassifier creates a classifier with the built-in domain lists.
func NewAuthorityClassifier() *AuthorityClassifier {
	c := &AuthorityClassifier{
		primaryMap:   make(map[string]bool),
		secondaryMap: make(map[string]bool),
	}
	for _, domain := range defaultPrimaryDomains {
		c.primaryMap[domain] = true
	}
	for _, domain := range defaultSecondaryDomains {
		c.secondaryMap[domain] = true
	}
	return c
}

// Classify maps a URL to an authority tier. Unparseable URLs and
// unrecognized hosts default to tertiary.
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.TierTertiary
	}

	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}

	if matchesDomain(host, a.primaryMap) {
		return model.TierPrimary
	}
	if matchesDomain(host, a.secondaryMap) {
		return model.TierSecondary
	}

	// gov/edu hosts count as primary even when not listed
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
