package retrieval

import (
	"sort"
	"strings"

	"github.com/veridex/veridex/internal/model"
)

// DistanceToRelevance maps a vector distance d >= 0 onto the common
// relevance scale: r = 1/(1+d), in (0,1], strictly decreasing in d.
func DistanceToRelevance(d float64) float64 {
	if d < 0 {
		d = 0
	}
	return 1.0 / (1.0 + d)
}

// WebRankRelevance assigns a synthetic relevance to a web result by its
// 0-indexed position: r = max(0.5, 0.8 - 0.1*i). The 0.5 floor keeps
// low-ranked web hits from silently dominating merge ordering.
func WebRankRelevance(position int) float64 {
	r := 0.8 - 0.1*float64(position)
	if r < 0.5 {
		r = 0.5
	}
	return r
}

// Rerank orders evidence by (keyword overlap with the claim, relevance)
// descending and rebuilds ranks as a contiguous 1-based sequence.
func Rerank(claim model.Claim, set model.EvidenceSet) model.EvidenceSet {
	claimTokens := tokenSet(claim.Tokens())

	overlaps := make([]int, len(set))
	for i, item := range set {
		overlaps[i] = keywordOverlap(claimTokens, item.Content)
	}

	idx := make([]int, len(set))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if overlaps[idx[a]] != overlaps[idx[b]] {
			return overlaps[idx[a]] > overlaps[idx[b]]
		}
		return set[idx[a]].RelevanceScore > set[idx[b]].RelevanceScore
	})

	ranked := make(model.EvidenceSet, len(set))
	for i, j := range idx {
		ranked[i] = set[j]
		ranked[i].Rank = i + 1
	}
	return ranked
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// keywordOverlap counts distinct claim tokens appearing in the content.
func keywordOverlap(claimTokens map[string]bool, content string) int {
	contentTokens := tokenSet(strings.Fields(strings.ToLower(content)))

	overlap := 0
	for token := range claimTokens {
		if contentTokens[token] {
			overlap++
		}
	}
	return overlap
}
