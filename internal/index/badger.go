package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/google/uuid"
)

var docPrefix = []byte("doc:")

// BadgerStore is a Store backed by BadgerDB. Each record holds the
// document plus its embedding vector; search scans all records and ranks
// by cosine distance. The corpus is a curated fact-check base, small
// enough that a linear scan stays well under external-call latency.
type BadgerStore struct {
	db       *badger.DB
	embedder Embedder
	logger   *slog.Logger
}

type storedDoc struct {
	Document
	Vector []float32 `json:"vector"`
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens (or creates) a badger-backed vector index at path.
// With inMemory set, path is ignored and nothing is persisted.
func Open(path string, inMemory bool, embedder Embedder) (*BadgerStore, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	logger := slog.Default().With("component", "index")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &BadgerStore{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}, nil
}

// Add embeds and persists documents. Documents without an ID get one.
// Safe under concurrent writers; each call runs in its own transaction.
func (s *BadgerStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if doc.AddedAt.IsZero() {
			doc.AddedAt = time.Now().UTC()
		}

		record := storedDoc{Document: doc, Vector: vectors[i]}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", doc.ID, err)
		}

		key := append(append([]byte{}, docPrefix...), []byte(doc.ID)...)
		if err := wb.Set(key, data); err != nil {
			return fmt.Errorf("write document %s: %w", doc.ID, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush documents: %w", err)
	}

	s.logger.Info("indexed documents", "count", len(docs))
	return nil
}

// Search returns up to k nearest neighbors ordered by ascending cosine distance.
func (s *BadgerStore) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		return []Match{}, nil
	}

	queryVec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var matches []Match
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(docPrefix); it.ValidForPrefix(docPrefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record storedDoc
				if err := json.Unmarshal(val, &record); err != nil {
					// Skip unreadable records rather than failing the search
					s.logger.Warn("skipping corrupt index record", "err", err)
					return nil
				}
				matches = append(matches, Match{
					Doc:      record.Document,
					Distance: cosineDistance(queryVec, record.Vector),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of indexed documents.
func (s *BadgerStore) Count() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(docPrefix); it.ValidForPrefix(docPrefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// cosineDistance computes 1 - cosine similarity. Mismatched or zero-length
// vectors get the maximum distance instead of an error.
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	d := 1.0 - sim
	if d < 0 {
		d = 0
	}
	return d
}
