package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veridex/veridex/internal/index"
	"github.com/veridex/veridex/internal/model"
)

// Relaxation policy: if fewer than relaxMinPass items survive the
// threshold filter, the best relaxTake matches are kept regardless, so
// downstream stages are never starved while matches exist.
const (
	relaxMinPass = 2
	relaxTake    = 3
)

// LocalSource looks up evidence in the curated vector index.
type LocalSource struct {
	store          index.Store
	k              int
	scoreThreshold float64
	logger         *slog.Logger
}

// NewLocalSource creates a local evidence source.
func NewLocalSource(store index.Store, k int, scoreThreshold float64) *LocalSource {
	if k <= 0 {
		k = 5
	}
	return &LocalSource{
		store:          store,
		k:              k,
		scoreThreshold: scoreThreshold,
		logger:         slog.Default().With("component", "retrieval"),
	}
}

// Lookup returns threshold-filtered nearest neighbors for the claim,
// ranked 1..n by ascending distance.
func (s *LocalSource) Lookup(ctx context.Context, claim model.Claim) (model.EvidenceSet, error) {
	matches, err := s.store.Search(ctx, claim.Text, s.k)
	if err != nil {
		return nil, fmt.Errorf("local lookup: %w", err)
	}

	all := make(model.EvidenceSet, 0, len(matches))
	for _, match := range matches {
		sourceID := match.Doc.Source
		if sourceID == "" {
			sourceID = match.Doc.ID
		}
		all = append(all, model.EvidenceItem{
			Content:        match.Doc.Content,
			Origin:         model.OriginLocal,
			SourceID:       sourceID,
			URL:            match.Doc.URL,
			RawScore:       match.Distance,
			RelevanceScore: DistanceToRelevance(match.Distance),
		})
	}

	filtered := make(model.EvidenceSet, 0, len(all))
	for _, item := range all {
		if item.RelevanceScore >= s.scoreThreshold {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) < relaxMinPass && len(all) > 0 {
		s.logger.Debug("few documents above threshold, relaxing filter",
			"passed", len(filtered), "threshold", s.scoreThreshold)
		take := relaxTake
		if take > len(all) {
			take = len(all)
		}
		filtered = all[:take]
	}

	for i := range filtered {
		filtered[i].Rank = i + 1
	}
	return filtered, nil
}
