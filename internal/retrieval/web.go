package retrieval

import (
	"context"
	"fmt"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/websearch"
)

// WebSource looks up evidence via live web search. A nil client means
// web search is unavailable by configuration; lookups then return an
// empty set without error.
type WebSource struct {
	client    *websearch.Client
	authority *websearch.AuthorityClassifier
}

// NewWebSource creates a web evidence source. client may be nil.
func NewWebSource(client *websearch.Client) *WebSource {
	return &WebSource{
		client:    client,
		authority: websearch.NewAuthorityClassifier(),
	}
}

// Available reports whether live web search is configured.
func (s *WebSource) Available() bool {
	return s.client != nil
}

// Lookup searches the web for the claim. Results arrive pre-ranked by
// position and get a synthetic relevance score.
func (s *WebSource) Lookup(ctx context.Context, claim model.Claim) (model.EvidenceSet, error) {
	if s.client == nil {
		return model.EvidenceSet{}, nil
	}

	results, err := s.client.Search(ctx, claim.Text)
	if err != nil {
		return nil, fmt.Errorf("web lookup: %w", err)
	}

	set := make(model.EvidenceSet, 0, len(results))
	for i, result := range results {
		content := result.Content
		if content == "" {
			content = result.Title
		}
		set = append(set, model.EvidenceItem{
			Content:        content,
			Origin:         model.OriginWeb,
			SourceID:       result.URL,
			URL:            result.URL,
			RawScore:       float64(i),
			RelevanceScore: WebRankRelevance(i),
			Rank:           i + 1,
			Authority:      s.authority.Classify(result.URL),
		})
	}
	return set, nil
}
