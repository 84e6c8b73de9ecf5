// Package inmemory implements knowledge.Store with brute-force cosine
// similarity. It backs tests and dependency-free runs.
package inmemory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/barekit/voyager/pkg/knowledge"
)

type entry struct {
	id       string
	vector   []float32
	metadata map[string]interface{}
	seq      int
}

type index struct {
	dimension uint64
	entries   []entry
}

// Store implements knowledge.Store using in-process maps.
type Store struct {
	mu       sync.RWMutex
	embedder knowledge.Embedder
	indexes  map[string]*index
	nextSeq  int
}

// New creates an empty Store. The embedder is used on the search path.
func New(embedder knowledge.Embedder) *Store {
	return &Store{
		embedder: embedder,
		indexes:  make(map[string]*index),
	}
}

func (s *Store) Ensure(ctx context.Context, name string, dimension uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.indexes[name]; ok {
		if existing.dimension != dimension {
			return &knowledge.ConfigMismatchError{Index: name, Want: dimension, Got: existing.dimension}
		}
		return nil
	}

	s.indexes[name] = &index{dimension: dimension}
	return nil
}

func (s *Store) Upsert(ctx context.Context, name, id string, vector []float32, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexes[name]
	if !ok {
		return fmt.Errorf("upsert into %q: %w", name, knowledge.ErrIndexNotFound)
	}
	if uint64(len(vector)) != idx.dimension {
		return fmt.Errorf("vector dimension %d does not match index %q dimension %d", len(vector), name, idx.dimension)
	}

	s.nextSeq++
	e := entry{id: id, vector: vector, metadata: metadata, seq: s.nextSeq}

	for i := range idx.entries {
		if idx.entries[i].id == id {
			idx.entries[i] = e
			return nil
		}
	}
	idx.entries = append(idx.entries, e)
	return nil
}

// Search embeds the query and ranks entries by cosine similarity. Ties go to
// the most recently written entry.
func (s *Store) Search(ctx context.Context, name, query string, topK int) ([]knowledge.Record, error) {
	s.mu.RLock()
	idx, ok := s.indexes[name]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("search in %q: %w", name, knowledge.ErrIndexNotFound)
	}
	entries := make([]entry, len(idx.entries))
	copy(entries, idx.entries)
	s.mu.RUnlock()

	if len(entries) == 0 {
		return []knowledge.Record{}, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return []knowledge.Record{}, nil
	}
	queryVec := vectors[0]

	type scored struct {
		entry entry
		score float32
	}
	results := make([]scored, len(entries))
	for i, e := range entries {
		results[i] = scored{entry: e, score: cosine(queryVec, e.vector)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].entry.seq > results[j].entry.seq
	})

	if topK > len(results) {
		topK = len(results)
	}

	records := make([]knowledge.Record, 0, topK)
	for _, r := range results[:topK] {
		text, _ := r.entry.metadata[knowledge.MetadataTextKey].(string)
		metadata := make(map[string]interface{}, len(r.entry.metadata))
		for k, v := range r.entry.metadata {
			if k != knowledge.MetadataTextKey {
				metadata[k] = v
			}
		}
		records = append(records, knowledge.Record{
			ID:       r.entry.id,
			Text:     text,
			Metadata: metadata,
			Score:    r.score,
		})
	}

	return records, nil
}

func (s *Store) Stats(ctx context.Context, name string) (knowledge.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[name]
	if !ok {
		return knowledge.IndexStats{}, fmt.Errorf("stats for %q: %w", name, knowledge.ErrIndexNotFound)
	}

	return knowledge.IndexStats{
		Name:      name,
		Records:   uint64(len(idx.entries)),
		Dimension: idx.dimension,
	}, nil
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
