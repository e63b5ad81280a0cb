package model

// Origin identifies which provider produced an evidence item.
type Origin string

const (
	OriginLocal Origin = "local" // curated vector index
	OriginWeb   Origin = "web"   // live web search
)

// EvidenceItem is one retrieved document fragment with provenance and
// a relevance score. Items live only for the duration of one verification
// request; web items may be translated into index documents for persistence.
type EvidenceItem struct {
	Content        string        `json:"content"`
	Origin         Origin        `json:"origin"`
	SourceID       string        `json:"source_id"`       // file path or URL
	URL            string        `json:"url,omitempty"`
	RawScore       float64       `json:"raw_score"`       // provider-native: distance (local) or position (web)
	RelevanceScore float64       `json:"relevance_score"` // normalized to [0,1], higher = more relevant
	Rank           int           `json:"rank"`            // 1-based, contiguous after every re-rank
	Authority      AuthorityTier `json:"authority,omitempty"`
}

// EvidenceSet is an ordered sequence of evidence items, unique by
// (origin, source_id), ordered by descending relevance.
type EvidenceSet []EvidenceItem

// Empty reports whether the set holds no evidence.
func (s EvidenceSet) Empty() bool {
	return len(s) == 0
}

// CountByOrigin returns how many items in the set came from the given origin.
func (s EvidenceSet) CountByOrigin(origin Origin) int {
	n := 0
	for _, item := range s {
		if item.Origin == origin {
			n++
		}
	}
	return n
}

// Merge appends items from other, dropping duplicates by (origin, source_id).
// Ranks are not rebuilt here; callers re-rank after merging.
func (s EvidenceSet) Merge(other EvidenceSet) EvidenceSet {
	type key struct {
		origin Origin
		source string
	}
	seen := make(map[key]bool, len(s))
	merged := make(EvidenceSet, 0, len(s)+len(other))
	for _, item := range s {
		k := key{item.Origin, item.SourceID}
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, item)
	}
	for _, item := range other {
		k := key{item.Origin, item.SourceID}
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, item)
	}
	return merged
}

// Citation is the projection of an evidence item retained in the final
// result, decoupled from full content.
type Citation struct {
	Source         string  `json:"source"`
	URL            string  `json:"url,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// AuthorityTier classifies how authoritative an evidence source is.
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0
	TierPrimary   AuthorityTier = 1 // official bodies, legislation, academic publishers
	TierSecondary AuthorityTier = 2 // encyclopedias, major media, fact-check agencies
	TierTertiary  AuthorityTier = 3 // blogs, personal sites
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// EvidenceQuality is the judged sufficiency of an evidence set.
type EvidenceQuality string

const (
	QualitySufficient    EvidenceQuality = "SUFFICIENT"
	QualityInsufficient  EvidenceQuality = "INSUFFICIENT"
	QualityContradictory EvidenceQuality = "CONTRADICTORY"
)

// SufficiencyVerdict is the judgment of whether the evidence supports
// reaching a conclusion. Derived once per request; immutable after creation.
type SufficiencyVerdict struct {
	Quality    EvidenceQuality `json:"quality"`
	Confidence float64         `json:"confidence"` // in [0,1]
	Reasoning  string          `json:"reasoning"`
}

// ShouldProceed reports whether the pipeline may continue to answer
// synthesis. Contradictory evidence still proceeds; the synthesized verdict
// carries the contradiction.
func (v SufficiencyVerdict) ShouldProceed() bool {
	return v.Quality == QualitySufficient || v.Quality == QualityContradictory
}

// SourceLabel describes which providers contributed to a retrieval outcome.
type SourceLabel string

const (
	SourceLocalOnly SourceLabel = "local_only"
	SourceHybrid    SourceLabel = "hybrid"
	SourceWebOnly   SourceLabel = "web_only"
	SourceErr       SourceLabel = "error"
)
