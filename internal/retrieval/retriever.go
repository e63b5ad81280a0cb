// Package retrieval implements hybrid evidence retrieval: a local
// vector-index lookup backed by conditional live web search, with both
// providers normalized onto one relevance scale before merge and re-rank.
package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/veridex/veridex/internal/index"
	"github.com/veridex/veridex/internal/model"
)

// Source is one evidence provider.
type Source interface {
	Lookup(ctx context.Context, claim model.Claim) (model.EvidenceSet, error)
}

// Result is the outcome of one hybrid retrieval.
type Result struct {
	Evidence    model.EvidenceSet
	Label       model.SourceLabel
	LocalCount  int
	WebCount    int
	WebSearched bool
	Successful  bool // false when both sources returned zero items
}

// Retriever orchestrates local-then-web lookup. Local always runs
// first; the web trigger decision depends on local evidence quality.
type Retriever struct {
	local   Source
	web     Source
	store   index.Store // persistence target for discovered web evidence
	cfg     model.RetrievalConfig
	logger  *slog.Logger
}

// NewRetriever creates a hybrid retriever. web may be nil when web
// search is not configured; store may be nil to disable persistence.
func NewRetriever(local Source, web Source, store index.Store, cfg model.RetrievalConfig) *Retriever {
	return &Retriever{
		local:  local,
		web:    web,
		store:  store,
		cfg:    cfg,
		logger: slog.Default().With("component", "retrieval"),
	}
}

// Retrieve gathers evidence for the claim. A provider failure returns
// the error with an error-labeled empty result; zero evidence from
// both sources is a valid outcome with Successful=false.
func (r *Retriever) Retrieve(ctx context.Context, claim model.Claim) (*Result, error) {
	localSet, err := r.local.Lookup(ctx, claim)
	if err != nil {
		return &Result{Label: model.SourceErr}, err
	}

	webTriggered := r.shouldSearchWeb(localSet)

	var webSet model.EvidenceSet
	if webTriggered && r.web != nil {
		webSet, err = r.web.Lookup(ctx, claim)
		if err != nil {
			return &Result{Label: model.SourceErr}, err
		}

		if len(webSet) > 0 && r.cfg.PersistWebResults && r.store != nil {
			r.persistWebEvidence(ctx, webSet)
		}
	}

	merged := Rerank(claim, localSet.Merge(webSet))

	label := model.SourceLocalOnly
	switch {
	case len(webSet) > 0 && len(localSet) > 0:
		label = model.SourceHybrid
	case len(webSet) > 0:
		label = model.SourceWebOnly
	}

	r.logger.Info("retrieval completed",
		"local", len(localSet),
		"web", len(webSet),
		"web_searched", webTriggered,
		"label", string(label))

	return &Result{
		Evidence:    merged,
		Label:       label,
		LocalCount:  len(localSet),
		WebCount:    len(webSet),
		WebSearched: webTriggered,
		Successful:  len(merged) > 0,
	}, nil
}

// shouldSearchWeb decides whether local evidence alone suffices. Three
// competing signals guard against each other: a single high-relevance
// outlier must not mask a weak evidence base, and a single weak outlier
// must not trigger an unnecessary web call when the bulk is strong.
func (r *Retriever) shouldSearchWeb(localSet model.EvidenceSet) bool {
	if len(localSet) < r.cfg.MinLocalDocs {
		return true
	}

	var sum, max float64
	for _, item := range localSet {
		sum += item.RelevanceScore
		if item.RelevanceScore > max {
			max = item.RelevanceScore
		}
	}
	avg := sum / float64(len(localSet))

	return avg < r.cfg.WebSearchThreshold ||
		max < r.cfg.WebSearchThreshold+0.1 ||
		(max < 0.6 && avg < 0.5)
}

// persistWebEvidence offers newly discovered web evidence to the local
// index for future requests. Best effort: failure is logged, never
// surfaced to the request in flight.
func (r *Retriever) persistWebEvidence(ctx context.Context, webSet model.EvidenceSet) {
	docs := make([]index.Document, 0, len(webSet))
	for _, item := range webSet {
		if item.Content == "" {
			continue
		}
		docs = append(docs, index.Document{
			Content: item.Content,
			Source:  item.SourceID,
			URL:     item.URL,
			AddedAt: time.Now().UTC(),
		})
	}
	if len(docs) == 0 {
		return
	}

	if err := r.store.Add(ctx, docs); err != nil {
		r.logger.Warn("failed to persist web evidence", "count", len(docs), "err", err)
		return
	}
	r.logger.Debug("persisted web evidence", "count", len(docs))
}
