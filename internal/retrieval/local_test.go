package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/veridex/veridex/internal/index"
	"github.com/veridex/veridex/internal/model"
)

// searchStore implements index.Store with canned search results
type searchStore struct {
	matches []index.Match
	err     error
}

func (s *searchStore) Search(ctx context.Context, query string, k int) ([]index.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.matches) > k {
		return s.matches[:k], nil
	}
	return s.matches, nil
}

func (s *searchStore) Add(ctx context.Context, docs []index.Document) error { return nil }
func (s *searchStore) Count() (int, error)                                  { return len(s.matches), nil }
func (s *searchStore) Close() error                                         { return nil }

func match(id string, distance float64) index.Match {
	return index.Match{
		Doc:      index.Document{ID: id, Content: "content of " + id, Source: id + ".md"},
		Distance: distance,
	}
}

func TestLocalLookup_ThresholdFilter(t *testing.T) {
	// distances 0.2 and 0.3 map to relevance ~0.83 and ~0.77; 2.0 maps to ~0.33
	store := &searchStore{matches: []index.Match{
		match("a", 0.2), match("b", 0.3), match("c", 2.0),
	}}

	source := NewLocalSource(store, 5, 0.6)

	set, err := source.Lookup(context.Background(), model.NewClaim("some claim"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set) != 2 {
		t.Fatalf("expected 2 items above threshold, got %d", len(set))
	}
	for _, item := range set {
		if item.RelevanceScore < 0.6 {
			t.Errorf("item %s below threshold: %v", item.SourceID, item.RelevanceScore)
		}
		if item.Origin != model.OriginLocal {
			t.Errorf("expected local origin, got %s", item.Origin)
		}
	}
}

func TestLocalLookup_RelaxesWhenFewPass(t *testing.T) {
	// Only one item passes 0.6; the best 3 are kept instead
	store := &searchStore{matches: []index.Match{
		match("a", 0.2), match("b", 1.5), match("c", 2.0), match("d", 3.0),
	}}

	source := NewLocalSource(store, 5, 0.6)

	set, err := source.Lookup(context.Background(), model.NewClaim("some claim"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set) != 3 {
		t.Fatalf("expected best 3 after relaxation, got %d", len(set))
	}
	if set[0].SourceID != "a.md" {
		t.Errorf("expected best match first, got %s", set[0].SourceID)
	}
	for i, item := range set {
		if item.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, item.Rank)
		}
	}
}

func TestLocalLookup_EmptyIndex(t *testing.T) {
	source := NewLocalSource(&searchStore{}, 5, 0.6)

	set, err := source.Lookup(context.Background(), model.NewClaim("anything"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected empty set, got %d items", len(set))
	}
}

func TestLocalLookup_StoreError(t *testing.T) {
	source := NewLocalSource(&searchStore{err: errors.New("db closed")}, 5, 0.6)

	if _, err := source.Lookup(context.Background(), model.NewClaim("anything")); err == nil {
		t.Error("expected error from store")
	}
}
