// Package index provides the local vector index backing hybrid retrieval:
// a BadgerDB-persisted store of embedded knowledge-base documents with
// cosine-distance nearest-neighbor search.
package index

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmbedderRequired is returned when a store is opened without an embedder.
	ErrEmbedderRequired = errors.New("index: embedder is required")

	// ErrEmptyQuery is returned when Search is called with no query text.
	ErrEmptyQuery = errors.New("index: query is empty")
)

// Document is one indexed knowledge-base fragment.
type Document struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Source  string    `json:"source"` // file path or URL the fragment came from
	URL     string    `json:"url,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Match is one nearest-neighbor result. Distance is cosine distance:
// lower means closer, 0 is identical direction.
type Match struct {
	Doc      Document
	Distance float64
}

// Store is the vector index contract consumed by the retrieval engine.
// Implementations must be safe for concurrent readers and writers.
type Store interface {
	// Search returns up to k nearest neighbors for the query,
	// ordered by ascending distance.
	Search(ctx context.Context, query string, k int) ([]Match, error)

	// Add embeds and persists documents. Used both for seeding the
	// knowledge base and for writing back newly discovered web evidence.
	Add(ctx context.Context, docs []Document) error

	// Count returns the number of indexed documents.
	Count() (int, error)

	// Close releases the underlying database.
	Close() error
}
