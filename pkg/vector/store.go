package vector

import (
	"context"
	"errors"
	"fmt"
)

// ErrCollectionNotFound is returned when searching a collection that does not exist
var ErrCollectionNotFound = errors.New("collection not found")

// Payload is what is stored alongside each vector
type Payload struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Point is a vector with its id and payload
type Point struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// Hit is a point returned by a similarity search. Score is cosine
// similarity; higher is closer.
type Hit struct {
	ID      string
	Payload Payload
	Score   float32
}

// Store defines the interface for vector database operations
type Store interface {
	// EnsureCollection creates the collection if missing, dropping it first when recreate is set
	EnsureCollection(ctx context.Context, name string, dimension int, recreate bool) error

	// Upsert inserts or replaces points in a collection
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search finds the most similar vectors to the given query vector
	Search(ctx context.Context, collection string, queryVector []float32, limit int) ([]Hit, error)

	// Close releases resources used by the vector store
	Close() error
}

// Store types accepted by New
const (
	StoreQdrant = "qdrant"
	StoreMemory = "memory"
)

// Config contains configuration for a vector database
type Config struct {
	Type          string // StoreMemory or StoreQdrant
	ConnectionURL string // host:port of the Qdrant gRPC endpoint
}

// New opens the store described by cfg
func New(cfg Config) (Store, error) {
	switch cfg.Type {
	case StoreMemory:
		return NewMemoryStore(), nil
	case StoreQdrant, "":
		store, err := DialQdrant(cfg.ConnectionURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported vector store type %q", cfg.Type)
}
