package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

type memCollection struct {
	dimension int
	points    map[string]Point
}

// MemoryStore keeps vectors in process and searches them by brute force
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

// EnsureCollection creates the named collection, replacing it when recreate is set
func (s *MemoryStore) EnsureCollection(ctx context.Context, name string, dimension int, recreate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; ok && !recreate {
		return nil
	}
	s.collections[name] = &memCollection{dimension: dimension, points: make(map[string]Point)}
	return nil
}

// Upsert inserts or replaces points by ID
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("upsert into %q: %w", collection, ErrCollectionNotFound)
	}
	for _, p := range points {
		if col.dimension > 0 && len(p.Vector) != col.dimension {
			return fmt.Errorf("point %s has dimension %d, collection %q expects %d", p.ID, len(p.Vector), collection, col.dimension)
		}
	}
	for _, p := range points {
		col.points[p.ID] = p
	}
	return nil
}

// Search returns up to limit points ordered by cosine similarity
func (s *MemoryStore) Search(ctx context.Context, collection string, queryVector []float32, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("search %q: %w", collection, ErrCollectionNotFound)
	}

	hits := make([]Hit, 0, len(col.points))
	for _, p := range col.points {
		hits = append(hits, Hit{ID: p.ID, Payload: p.Payload, Score: cosineSimilarity(queryVector, p.Vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

// cosineSimilarity returns 0 for mismatched or zero-length vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
