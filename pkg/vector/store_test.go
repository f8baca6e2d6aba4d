package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSearch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureCollection(ctx, "docs", 2, false))

	require.NoError(t, s.Upsert(ctx, "docs", []Point{
		{ID: "east", Vector: []float32{1, 0}, Payload: Payload{Path: "east.md"}},
		{ID: "north", Vector: []float32{0, 1}, Payload: Payload{Path: "north.md"}},
		{ID: "northeast", Vector: []float32{1, 1}, Payload: Payload{Path: "ne.md", Content: "diagonal"}},
	}))

	hits, err := s.Search(ctx, "docs", []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].ID)
	assert.Equal(t, "northeast", hits[1].ID)
	assert.Equal(t, "diagonal", hits[1].Payload.Content)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureCollection(ctx, "docs", 0, false))

	require.NoError(t, s.Upsert(ctx, "docs", []Point{{ID: "a", Vector: []float32{1}, Payload: Payload{Content: "old"}}}))
	require.NoError(t, s.Upsert(ctx, "docs", []Point{{ID: "a", Vector: []float32{1}, Payload: Payload{Content: "new"}}}))

	hits, err := s.Search(ctx, "docs", []float32{1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Payload.Content)
}

func TestMemoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Search(ctx, "missing", []float32{1}, 1)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
	assert.ErrorIs(t, s.Upsert(ctx, "missing", nil), ErrCollectionNotFound)

	require.NoError(t, s.EnsureCollection(ctx, "docs", 3, false))
	err = s.Upsert(ctx, "docs", []Point{{ID: "short", Vector: []float32{1}}})
	assert.Error(t, err)
}

func TestMemoryStoreRecreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.EnsureCollection(ctx, "docs", 1, false))
	require.NoError(t, s.Upsert(ctx, "docs", []Point{{ID: "a", Vector: []float32{1}}}))

	require.NoError(t, s.EnsureCollection(ctx, "docs", 1, false))
	hits, err := s.Search(ctx, "docs", []float32{1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	require.NoError(t, s.EnsureCollection(ctx, "docs", 1, true))
	hits, err = s.Search(ctx, "docs", []float32{1}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{2, 0}, []float32{5, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}

func TestNewStore(t *testing.T) {
	s, err := New(Config{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(Config{Type: "pgvector"})
	assert.Error(t, err)
}
