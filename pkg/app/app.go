// Package app builds the long-lived collaborators shared by the binaries.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/andrew/anything-search/pkg/config"
	"github.com/andrew/anything-search/pkg/indexer"
	"github.com/andrew/anything-search/pkg/llm"
	"github.com/andrew/anything-search/pkg/retrieval"
	"github.com/andrew/anything-search/pkg/vector"
	"github.com/sirupsen/logrus"
)

// Components holds the embedder and store opened from a Config
type Components struct {
	Embedder llm.Embedder
	Store    vector.Store
}

// Open connects to the embedding server and vector store
func Open(ctx context.Context, cfg config.Config) (*Components, error) {
	embedConfig := llm.DefaultEmbedConfig()
	embedConfig.Model = cfg.EmbedModel

	embedder, err := llm.NewOllamaClient(cfg.OllamaHost, embedConfig)
	if err != nil {
		return nil, err
	}
	if err := embedder.Ping(ctx); err != nil {
		logrus.WithError(err).WithField("host", cfg.OllamaHost).Warn("Ollama server might not be running")
	}

	store, err := vector.New(vector.Config{Type: cfg.VectorStore, ConnectionURL: cfg.QdrantAddr()})
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	logrus.WithFields(logrus.Fields{"store": cfg.VectorStore, "addr": cfg.QdrantAddr()}).Debug("Vector store opened")

	return &Components{Embedder: embedder, Store: store}, nil
}

// Searcher returns the semantic searcher configured by cfg
func (c *Components) Searcher(cfg config.Config) *retrieval.SemanticService {
	return retrieval.NewSemanticService(c.Embedder, c.Store, retrieval.Config{
		MaxResults:      cfg.SearchLimit,
		ScoreThreshold:  cfg.ScoreThreshold,
		TextCollection:  cfg.TextCollection,
		ImageCollection: cfg.ImageCollection,
	})
}

// PrepareStore fills an in-memory store from cfg.MediaRoot. Nothing else
// populates it in this process, so the server must index before serving.
// Other stores are left untouched.
func (c *Components) PrepareStore(ctx context.Context, cfg config.Config) (indexer.Stats, error) {
	if cfg.VectorStore != vector.StoreMemory {
		return indexer.Stats{}, nil
	}

	logrus.WithField("dir", cfg.MediaRoot).Info("Indexing content into memory store")
	stats, err := c.Indexer(cfg, cfg.MediaRoot, false).Run(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to index %s: %w", cfg.MediaRoot, err)
	}
	logrus.WithFields(logrus.Fields{
		"text_files": stats.TextFiles,
		"chunks":     stats.Chunks,
		"images":     stats.Images,
		"skipped":    stats.Skipped,
	}).Info("Memory store ready")
	return stats, nil
}

// Indexer returns an indexer writing to the collections named in cfg
func (c *Components) Indexer(cfg config.Config, contentDir string, recreate bool) *indexer.Indexer {
	opts := indexer.DefaultOptions()
	opts.ContentDir = contentDir
	opts.TextCollection = cfg.TextCollection
	opts.ImageCollection = cfg.ImageCollection
	opts.VectorSize = cfg.VectorSize
	opts.Recreate = recreate
	return indexer.New(c.Embedder, c.Store, opts)
}

// Close releases the store and embedder
func (c *Components) Close() error {
	if err := c.Store.Close(); err != nil {
		return err
	}
	if closer, ok := c.Embedder.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
