// Package vectorstore stores one embedding per event and answers top-k
// nearest-neighbor queries by cosine similarity. It runs either purely in
// memory or backed by the repository with a read-through cache; callers see
// identical behavior in both modes.
package vectorstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-hamwi/yalla/pkg/interfaces"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const defaultTopK = 5

// SearchResult binds a matched event ID to the caller-supplied live
// metadata and the similarity score.
type SearchResult struct {
	EventID model.EventID
	Event   model.Event
	Score   float64
}

// Store holds the embedding cache. Search always runs against the cache,
// never against the repository, so query latency stays bounded. Refresh
// builds a fresh cache and swaps it in; a racing search sees either the old
// or the new cache, never a half-written one.
type Store struct {
	mu      sync.RWMutex
	vectors map[model.EventID][]float32
	order   []model.EventID

	repo     interfaces.Repository // nil = memory-only mode
	modelTag string
}

type Option func(*Store)

// WithRepository enables the durable mode with a read-through cache.
func WithRepository(repo interfaces.Repository) Option {
	return func(s *Store) {
		s.repo = repo
	}
}

// WithModelTag records which embedding model produced the vectors.
func WithModelTag(tag string) Option {
	return func(s *Store) {
		s.modelTag = tag
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		vectors:  make(map[model.EventID][]float32),
		modelTag: "gemini-embedding-001",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh rebuilds the cache from the repository. No-op in memory mode.
func (s *Store) Refresh(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	recs, err := s.repo.ListEmbeddings(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load embeddings")
	}

	vectors := make(map[model.EventID][]float32, len(recs))
	order := make([]model.EventID, 0, len(recs))
	for _, rec := range recs {
		if _, dup := vectors[rec.EventID]; dup {
			continue
		}
		vectors[rec.EventID] = []float32(rec.Vector)
		order = append(order, rec.EventID)
	}

	s.mu.Lock()
	s.vectors = vectors
	s.order = order
	s.mu.Unlock()
	return nil
}

// Upsert stores one embedding. A persistence failure is logged and the
// in-memory cache is still updated so the current process stays correct.
func (s *Store) Upsert(ctx context.Context, id model.EventID, vector []float32) {
	if s.repo != nil {
		rec := &model.EmbeddingRecord{
			EventID:   id,
			Vector:    firestore.Vector32(vector),
			Model:     s.modelTag,
			CreatedAt: time.Now(),
		}
		if err := s.repo.PutEmbedding(ctx, rec); err != nil {
			logging.From(ctx).Warn("failed to persist embedding, keeping in-memory copy",
				"eventId", id, "error", err)
		}
	}

	s.mu.Lock()
	if _, ok := s.vectors[id]; !ok {
		s.order = append(s.order, id)
	}
	s.vectors[id] = vector
	s.mu.Unlock()
}

// BulkUpsert stores embeddings for a batch of events, then refreshes the
// cache when repository-backed.
func (s *Store) BulkUpsert(ctx context.Context, events []model.Event, vectors [][]float32) error {
	if len(events) != len(vectors) {
		return goerr.New("events and vectors length mismatch",
			goerr.V("events", len(events)), goerr.V("vectors", len(vectors)))
	}

	for i, ev := range events {
		s.Upsert(ctx, ev.ID, vectors[i])
	}

	if s.repo != nil {
		if err := s.Refresh(ctx); err != nil {
			logging.From(ctx).Warn("cache refresh after bulk upsert failed", "error", err)
		}
	}
	return nil
}

// Search returns the k best matches by cosine similarity, descending, ties
// broken by insertion order. Cached IDs with no entry in meta are stale
// references and are skipped, not errors. An empty store returns an empty
// result.
func (s *Store) Search(query []float32, k int, meta map[model.EventID]model.Event) ([]SearchResult, error) {
	if k <= 0 {
		k = defaultTopK
	}

	s.mu.RLock()
	results := make([]SearchResult, 0, len(s.order))
	for _, id := range s.order {
		ev, live := meta[id]
		if !live {
			continue
		}

		score, err := Cosine(query, s.vectors[id])
		if err != nil {
			s.mu.RUnlock()
			return nil, goerr.Wrap(err, "failed to score candidate", goerr.V("eventId", id))
		}
		results = append(results, SearchResult{EventID: id, Event: ev, Score: score})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Has reports whether an embedding is cached for the event.
func (s *Store) Has(id model.EventID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vectors[id]
	return ok
}

// Size returns the number of cached embeddings.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Clear drops all embeddings, including the persisted copies when
// repository-backed.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.vectors = make(map[model.EventID][]float32)
	s.order = nil
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.DeleteAllEmbeddings(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete persisted embeddings")
		}
	}
	return nil
}
